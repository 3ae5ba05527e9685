package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"scamscan/internal/config"
	"scamscan/pkg/logger"
)

const defaultVisionAPIURL = "https://vision.googleapis.com/v1/images:annotate"

// VisionClient extracts text from screenshots via the Google Cloud
// Vision API
type VisionClient struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewVisionClient creates a new Vision OCR client
func NewVisionClient(cfg config.OCRConfig, log *logger.Logger) *VisionClient {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultVisionAPIURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &VisionClient{
		apiKey:     cfg.GoogleVisionAPIKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.WithComponent("ocr"),
	}
}

// Configured reports whether an API key is present
func (c *VisionClient) Configured() bool {
	return c.apiKey != ""
}

type visionRequest struct {
	Requests []visionAnnotateRequest `json:"requests"`
}

type visionAnnotateRequest struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type string `json:"type"`
}

type visionResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// ExtractText runs TEXT_DETECTION over an image and returns the full
// detected text, empty when the image contains none.
func (c *VisionClient) ExtractText(ctx context.Context, image []byte) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("ocr not configured")
	}

	reqBody := visionRequest{
		Requests: []visionAnnotateRequest{{
			Image:    visionImage{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []visionFeature{{Type: "TEXT_DETECTION"}},
		}},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"?key="+c.apiKey, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vision API returned status %d", resp.StatusCode)
	}

	var data visionResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode vision response: %w", err)
	}

	if len(data.Responses) == 0 {
		return "", nil
	}
	if data.Responses[0].Error != nil {
		return "", fmt.Errorf("vision API error: %s", data.Responses[0].Error.Message)
	}

	c.logger.Debug().Dur("duration", time.Since(start)).Msg("ocr completed")

	// the first annotation is the full detected text block
	if len(data.Responses[0].TextAnnotations) == 0 {
		return "", nil
	}
	return data.Responses[0].TextAnnotations[0].Description, nil
}
