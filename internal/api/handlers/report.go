package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	apimiddleware "scamscan/internal/api/middleware"
	"scamscan/internal/domain/models"
	"scamscan/pkg/logger"
)

const (
	maxReportCommentLength = 2000
	maxContactEmailLength  = 255
)

// ReportStore persists caller feedback
type ReportStore interface {
	CreateReport(ctx context.Context, report *models.Report) error
}

// ReportHandler accepts caller feedback on scan verdicts
type ReportHandler struct {
	reports ReportStore
	logger  *logger.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports ReportStore, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  log.WithComponent("report_handler"),
	}
}

type reportRequest struct {
	ScanID       string `json:"scan_id"`
	FeedbackType string `json:"feedback_type"`
	Comment      string `json:"comment,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
}

type reportResponse struct {
	ReportID     uuid.UUID           `json:"report_id"`
	ScanID       uuid.UUID           `json:"scan_id"`
	FeedbackType models.FeedbackType `json:"feedback_type"`
	Status       models.ReportStatus `json:"status"`
	Message      string              `json:"message"`
}

// Submit handles POST /api/v1/report
func (h *ReportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	scanID, err := uuid.Parse(req.ScanID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid scan id")
		return
	}
	if !models.ValidFeedbackType(req.FeedbackType) {
		respondError(w, http.StatusBadRequest, "invalid feedback_type")
		return
	}
	if len(req.Comment) > maxReportCommentLength {
		respondError(w, http.StatusBadRequest, "comment too long")
		return
	}
	if len(req.ContactEmail) > maxContactEmailLength {
		respondError(w, http.StatusBadRequest, "contact_email too long")
		return
	}

	report := &models.Report{
		ScanID:       scanID,
		APIKeyID:     apimiddleware.GetAPIKeyID(r.Context()),
		FeedbackType: models.FeedbackType(req.FeedbackType),
		Comment:      req.Comment,
		ContactEmail: req.ContactEmail,
	}

	if err := h.reports.CreateReport(r.Context(), report); err != nil {
		h.logger.Error().Err(err).Str("scan_id", scanID.String()).Msg("report submission failed")
		respondError(w, http.StatusInternalServerError, "report submission failed")
		return
	}

	respondJSON(w, http.StatusOK, reportResponse{
		ReportID:     report.ID,
		ScanID:       report.ScanID,
		FeedbackType: report.FeedbackType,
		Status:       report.Status,
		Message:      "Thank you for your feedback. It helps us improve.",
	})
}
