// Package repository implements PostgreSQL persistence for scans,
// cards, and abuse records using raw pgx queries.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"scamscan/internal/domain/models"
	"scamscan/internal/infrastructure/database"
	"scamscan/pkg/logger"
)

// ScanRepository persists scans and their child records
type ScanRepository struct {
	db     *database.PostgresDB
	logger *logger.Logger
}

// NewScanRepository creates a new scan repository
func NewScanRepository(db *database.PostgresDB, log *logger.Logger) *ScanRepository {
	return &ScanRepository{
		db:     db,
		logger: log.WithComponent("scan_repository"),
	}
}

const insertScanQuery = `
INSERT INTO scans (
	id, api_key_id, content_type, channel, category, locale,
	raw_content, content_hash, risk_score, risk_level, scam_type,
	explanation, evidence, actions, checks_performed,
	checks_not_available, confidence_note, processing_time_ms,
	model_used, content_expires_at, created_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
	$12, $13, $14, $15, $16, $17, $18, $19, $20, $21
)`

// CreateScan inserts the scan together with its entity and threat-result
// child rows in one transaction. Either everything commits or nothing
// does; a scan must never exist without its derived records.
func (r *ScanRepository) CreateScan(ctx context.Context, scan *models.Scan, entities []models.ScanEntity, results []models.ThreatCheckResult) error {
	evidence, err := json.Marshal(scan.Evidence)
	if err != nil {
		return fmt.Errorf("failed to marshal evidence: %w", err)
	}

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertScanQuery,
			scan.ID,
			scan.APIKeyID,
			string(scan.ContentType),
			nullIfEmpty(string(scan.Channel)),
			string(scan.Category),
			scan.Locale,
			nullIfEmpty(scan.RawContent),
			scan.ContentHash,
			scan.RiskScore,
			string(scan.RiskLevel),
			nullIfEmpty(string(scan.ScamType)),
			nullIfEmpty(scan.Explanation),
			evidence,
			textArray(scan.Actions),
			textArray(scan.ChecksPerformed),
			textArray(scan.ChecksNotAvailable),
			nullIfEmpty(scan.ConfidenceNote),
			scan.ProcessingTimeMS,
			nullIfEmpty(scan.ModelUsed),
			nullIfZero(scan.ContentExpiresAt),
			scan.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert scan: %w", err)
		}

		batch := &pgx.Batch{}
		for _, e := range entities {
			batch.Queue(
				`INSERT INTO scan_entities (scan_id, entity_type, value) VALUES ($1, $2, $3)`,
				scan.ID, e.EntityType, e.Value,
			)
		}
		for _, tr := range results {
			details, err := json.Marshal(tr.Details)
			if err != nil {
				return fmt.Errorf("failed to marshal threat details: %w", err)
			}
			batch.Queue(
				`INSERT INTO threat_results (scan_id, source, is_threat, threat_type, confidence, details, response_time_ms)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				scan.ID, string(tr.Source), tr.IsThreat, nullIfEmpty(tr.ThreatType),
				tr.Confidence, details, tr.ResponseTimeMS,
			)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert scan children: %w", err)
		}
		return nil
	})
}

const getScanQuery = `
SELECT
	id, api_key_id, content_type, channel, category, locale,
	content_hash, risk_score, risk_level, scam_type, explanation,
	evidence, actions, checks_performed, checks_not_available,
	confidence_note, processing_time_ms, model_used, created_at
FROM scans
WHERE id = $1 AND api_key_id = $2`

// GetScan returns a scan scoped to its owning API key, or nil when no
// such scan exists. Raw content is deliberately never read back.
func (r *ScanRepository) GetScan(ctx context.Context, scanID, apiKeyID uuid.UUID) (*models.Scan, error) {
	var (
		scan           models.Scan
		channel        *string
		scamType       *string
		explanation    *string
		confidenceNote *string
		modelUsed      *string
		evidence       []byte
	)

	err := r.db.Pool().QueryRow(ctx, getScanQuery, scanID, apiKeyID).Scan(
		&scan.ID,
		&scan.APIKeyID,
		&scan.ContentType,
		&channel,
		&scan.Category,
		&scan.Locale,
		&scan.ContentHash,
		&scan.RiskScore,
		&scan.RiskLevel,
		&scamType,
		&explanation,
		&evidence,
		&scan.Actions,
		&scan.ChecksPerformed,
		&scan.ChecksNotAvailable,
		&confidenceNote,
		&scan.ProcessingTimeMS,
		&modelUsed,
		&scan.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}

	scan.Channel = models.Channel(deref(channel))
	scan.ScamType = models.ScamType(deref(scamType))
	scan.Explanation = deref(explanation)
	scan.ConfidenceNote = deref(confidenceNote)
	scan.ModelUsed = deref(modelUsed)

	if len(evidence) > 0 {
		if err := json.Unmarshal(evidence, &scan.Evidence); err != nil {
			return nil, fmt.Errorf("failed to unmarshal evidence: %w", err)
		}
	}

	return &scan, nil
}

// PurgeExpiredContent nulls out raw content past its retention window.
// Derived fields and the content hash survive; only the content itself
// is dropped.
func (r *ScanRepository) PurgeExpiredContent(ctx context.Context) (int64, error) {
	tag, err := r.db.Pool().Exec(ctx,
		`UPDATE scans SET raw_content = NULL
		 WHERE raw_content IS NOT NULL AND content_expires_at < now()`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired content: %w", err)
	}
	if tag.RowsAffected() > 0 {
		r.logger.Info().Int64("scans", tag.RowsAffected()).Msg("purged expired raw content")
	}
	return tag.RowsAffected(), nil
}
