package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"scamscan/internal/domain/models"
	"scamscan/internal/infrastructure/database"
	"scamscan/pkg/logger"
)

// ReportRepository persists caller feedback on scan results
type ReportRepository struct {
	db     *database.PostgresDB
	logger *logger.Logger
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *database.PostgresDB, log *logger.Logger) *ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: log.WithComponent("report_repository"),
	}
}

// CreateReport inserts a feedback report. The foreign key on scan_id
// rejects reports against scans that do not exist.
func (r *ReportRepository) CreateReport(ctx context.Context, report *models.Report) error {
	err := r.db.Pool().QueryRow(ctx,
		`INSERT INTO reports (scan_id, api_key_id, feedback_type, comment, contact_email)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, status, created_at`,
		report.ScanID,
		report.APIKeyID,
		string(report.FeedbackType),
		nullIfEmpty(report.Comment),
		nullIfEmpty(report.ContactEmail),
	).Scan(&report.ID, &report.Status, &report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

const getReportColumns = `
	id, scan_id, api_key_id, feedback_type, comment, contact_email,
	status, reviewed_by, review_notes, created_at, reviewed_at`

// GetReport returns a report by ID, or nil when none exists
func (r *ReportRepository) GetReport(ctx context.Context, reportID uuid.UUID) (*models.Report, error) {
	row := r.db.Pool().QueryRow(ctx,
		`SELECT`+getReportColumns+` FROM reports WHERE id = $1`, reportID)

	report, err := scanReportRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}

// GetReportsForScan returns every report filed against a scan
func (r *ReportRepository) GetReportsForScan(ctx context.Context, scanID uuid.UUID) ([]models.Report, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT`+getReportColumns+` FROM reports WHERE scan_id = $1 ORDER BY created_at`, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		report, err := scanReportRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func scanReportRow(row pgx.Row) (*models.Report, error) {
	var (
		report       models.Report
		comment      *string
		contactEmail *string
		reviewedBy   *string
		reviewNotes  *string
	)

	err := row.Scan(
		&report.ID,
		&report.ScanID,
		&report.APIKeyID,
		&report.FeedbackType,
		&comment,
		&contactEmail,
		&report.Status,
		&reviewedBy,
		&reviewNotes,
		&report.CreatedAt,
		&report.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}

	report.Comment = deref(comment)
	report.ContactEmail = deref(contactEmail)
	report.ReviewedBy = deref(reviewedBy)
	report.ReviewNotes = deref(reviewNotes)
	return &report, nil
}
