package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apimiddleware "scamscan/internal/api/middleware"
	"scamscan/internal/domain/models"
	"scamscan/pkg/logger"
)

type stubReportStore struct {
	created *models.Report
	err     error
}

func (s *stubReportStore) CreateReport(_ context.Context, report *models.Report) error {
	if s.err != nil {
		return s.err
	}
	report.ID = uuid.New()
	report.Status = models.ReportPending
	report.CreatedAt = time.Now()
	s.created = report
	return nil
}

func testHandlerLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func submitReport(t *testing.T, store ReportStore, callerID uuid.UUID, body string) *httptest.ResponseRecorder {
	t.Helper()

	h := NewReportHandler(store, testHandlerLogger())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/report", strings.NewReader(body))
	ctx := context.WithValue(req.Context(), apimiddleware.ContextKeyAPIKeyID, callerID)
	rec := httptest.NewRecorder()

	h.Submit(rec, req.WithContext(ctx))
	return rec
}

func TestSubmitReportStoresFeedback(t *testing.T) {
	store := &stubReportStore{}
	scanID := uuid.New()
	callerID := uuid.New()

	body := `{"scan_id":"` + scanID.String() + `","feedback_type":"false_positive","comment":"this is my bank's real domain"}`
	rec := submitReport(t, store, callerID, body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp reportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, scanID, resp.ScanID)
	assert.Equal(t, models.FeedbackFalsePositive, resp.FeedbackType)
	assert.Equal(t, models.ReportPending, resp.Status)
	assert.NotEqual(t, uuid.Nil, resp.ReportID)
	assert.Equal(t, "Thank you for your feedback. It helps us improve.", resp.Message)

	require.NotNil(t, store.created)
	assert.Equal(t, callerID, store.created.APIKeyID)
	assert.Equal(t, "this is my bank's real domain", store.created.Comment)
}

func TestSubmitReportRejectsUnknownFeedbackType(t *testing.T) {
	store := &stubReportStore{}

	body := `{"scan_id":"` + uuid.New().String() + `","feedback_type":"angry"}`
	rec := submitReport(t, store, uuid.New(), body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid feedback_type")
	assert.Nil(t, store.created)
}

func TestSubmitReportRejectsMalformedScanID(t *testing.T) {
	store := &stubReportStore{}

	rec := submitReport(t, store, uuid.New(), `{"scan_id":"not-a-uuid","feedback_type":"helpful"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid scan id")
	assert.Nil(t, store.created)
}

func TestSubmitReportRejectsOversizedComment(t *testing.T) {
	store := &stubReportStore{}

	body := `{"scan_id":"` + uuid.New().String() + `","feedback_type":"helpful","comment":"` +
		strings.Repeat("a", maxReportCommentLength+1) + `"}`
	rec := submitReport(t, store, uuid.New(), body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "comment too long")
	assert.Nil(t, store.created)
}
