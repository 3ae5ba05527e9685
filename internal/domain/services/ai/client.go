// Package ai implements LLM-backed entity extraction and scam
// classification on top of the Anthropic Messages API. Every call uses
// forced tool use so the model's answer comes back as structured JSON
// instead of free text.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"scamscan/internal/config"
	"scamscan/internal/domain/models"
	"scamscan/pkg/logger"
)

const (
	defaultAPIURL    = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

// Client is a minimal Anthropic Messages API client
type Client struct {
	apiKey     string
	apiURL     string
	model      string
	maxTokens  int
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new Anthropic client. An empty API key produces a
// client whose Configured() is false; callers must fall back.
func NewClient(cfg config.AnthropicConfig, log *logger.Logger) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		apiURL:     apiURL,
		model:      cfg.Model,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.WithComponent("anthropic"),
	}
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Model returns the configured model identifier
func (c *Client) Model() string {
	return c.model
}

type toolDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

type messagesRequest struct {
	Model      string         `json:"model"`
	MaxTokens  int            `json:"max_tokens"`
	System     string         `json:"system,omitempty"`
	Messages   []message      `json:"messages"`
	Tools      []toolDef      `json:"tools"`
	ToolChoice map[string]any `json:"tool_choice"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type  string          `json:"type"`
		Name  string          `json:"name"`
		Input json.RawMessage `json:"input"`
	} `json:"content"`
}

// toolCall sends one forced-tool request and returns the tool input the
// model produced.
func (c *Client) toolCall(ctx context.Context, system, user string, tool toolDef) (json.RawMessage, error) {
	reqBody := messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    system,
		Messages:  []message{{Role: "user", Content: user}},
		Tools:     []toolDef{tool},
		ToolChoice: map[string]any{
			"type": "tool",
			"name": tool.Name,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("anthropic API returned status %d: %s", resp.StatusCode, string(body))
	}

	var data messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug().
		Str("tool", tool.Name).
		Dur("duration", time.Since(start)).
		Msg("anthropic tool call completed")

	for _, block := range data.Content {
		if block.Type == "tool_use" && block.Name == tool.Name {
			return block.Input, nil
		}
	}

	return nil, fmt.Errorf("no %s tool_use block in response", tool.Name)
}

var extractEntitiesTool = toolDef{
	Name:        "extract_entities",
	Description: "Report every URL, phone number, email address, UPI ID, and cryptocurrency address found in the message.",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"urls":             stringArraySchema("URLs found in the message"),
			"phone_numbers":    stringArraySchema("Phone numbers found in the message"),
			"emails":           stringArraySchema("Email addresses found in the message"),
			"upi_ids":          stringArraySchema("UPI payment IDs found in the message"),
			"crypto_addresses": stringArraySchema("Cryptocurrency wallet addresses found in the message"),
		},
		"required": []string{"urls", "phone_numbers", "emails", "upi_ids", "crypto_addresses"},
	},
}

func stringArraySchema(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

const extractSystemPrompt = "You extract contact and payment entities from potentially fraudulent messages. " +
	"Report only entities literally present in the text. Do not invent or normalize values."

// ExtractEntities asks the model to pull URLs, phones, emails, UPI IDs
// and crypto addresses out of free text.
func (c *Client) ExtractEntities(ctx context.Context, text string) (models.EntitySet, error) {
	var set models.EntitySet

	raw, err := c.toolCall(ctx, extractSystemPrompt, text, extractEntitiesTool)
	if err != nil {
		return set, err
	}

	var out struct {
		URLs            []string `json:"urls"`
		PhoneNumbers    []string `json:"phone_numbers"`
		Emails          []string `json:"emails"`
		UPIIDs          []string `json:"upi_ids"`
		CryptoAddresses []string `json:"crypto_addresses"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return set, fmt.Errorf("failed to parse extraction output: %w", err)
	}

	set.URLs = models.DedupStrings(out.URLs)
	set.Phones = models.DedupStrings(out.PhoneNumbers)
	set.Emails = models.DedupStrings(out.Emails)
	set.UPIIDs = models.DedupStrings(out.UPIIDs)
	set.CryptoAddresses = models.DedupStrings(out.CryptoAddresses)

	return set, nil
}
