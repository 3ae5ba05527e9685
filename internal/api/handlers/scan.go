package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apimiddleware "scamscan/internal/api/middleware"
	"scamscan/internal/config"
	"scamscan/internal/domain/models"
	"scamscan/internal/domain/services"
	"scamscan/pkg/logger"
)

// ScanHandler handles scan endpoints
type ScanHandler struct {
	scans  *services.ScanService
	cfg    config.ScanConfig
	logger *logger.Logger
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(scans *services.ScanService, cfg config.ScanConfig, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		scans:  scans,
		cfg:    cfg,
		logger: log.WithComponent("scan_handler"),
	}
}

type textScanRequest struct {
	Content  string `json:"content"`
	Channel  string `json:"channel,omitempty"`
	Category string `json:"category,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

type imageScanRequest struct {
	ImageBase64 string `json:"image_base64"`
	Channel     string `json:"channel,omitempty"`
	Category    string `json:"category,omitempty"`
	Locale      string `json:"locale,omitempty"`
}

// ScanText handles POST /api/v1/scan/text
func (h *ScanHandler) ScanText(w http.ResponseWriter, r *http.Request) {
	var req textScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Content == "" {
		respondError(w, http.StatusBadRequest, "content is required")
		return
	}
	if len(req.Content) > h.cfg.MaxTextLength {
		respondError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("content exceeds maximum length of %d characters", h.cfg.MaxTextLength))
		return
	}

	result, err := h.scans.ScanText(r.Context(), req.Content, models.ContentText, services.ScanRequest{
		APIKeyID: apimiddleware.GetAPIKeyID(r.Context()),
		Channel:  models.Channel(req.Channel),
		Category: models.ScanCategory(req.Category),
		Locale:   req.Locale,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("text scan failed")
		respondError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ScanImage handles POST /api/v1/scan/image
func (h *ScanHandler) ScanImage(w http.ResponseWriter, r *http.Request) {
	var req imageScanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.cfg.MaxImageBytes*2)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ImageBase64 == "" {
		respondError(w, http.StatusBadRequest, "image_base64 is required")
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "image_base64 is not valid base64")
		return
	}
	if int64(len(image)) > h.cfg.MaxImageBytes {
		respondError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("image exceeds maximum size of %d bytes", h.cfg.MaxImageBytes))
		return
	}

	result, err := h.scans.ScanImage(r.Context(), image, services.ScanRequest{
		APIKeyID: apimiddleware.GetAPIKeyID(r.Context()),
		Channel:  models.Channel(req.Channel),
		Category: models.ScanCategory(req.Category),
		Locale:   req.Locale,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("image scan failed")
		respondError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetScan handles GET /api/v1/scans/{id}
func (h *ScanHandler) GetScan(w http.ResponseWriter, r *http.Request) {
	scanID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid scan id")
		return
	}

	result, err := h.scans.GetScan(r.Context(), scanID, apimiddleware.GetAPIKeyID(r.Context()))
	if errors.Is(err, services.ErrScanNotFound) {
		respondError(w, http.StatusNotFound, "scan not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("scan_id", scanID.String()).Msg("scan lookup failed")
		respondError(w, http.StatusInternalServerError, "scan lookup failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
