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

// AbuseRepository reads per-caller abuse records. The records are
// written by a periodic scoring job outside the scan path.
type AbuseRepository struct {
	db     *database.PostgresDB
	logger *logger.Logger
}

// NewAbuseRepository creates a new abuse repository
func NewAbuseRepository(db *database.PostgresDB, log *logger.Logger) *AbuseRepository {
	return &AbuseRepository{
		db:     db,
		logger: log.WithComponent("abuse_repository"),
	}
}

// GetAbuseScore returns the abuse record for an API key, or nil when the
// caller has none
func (r *AbuseRepository) GetAbuseScore(ctx context.Context, apiKeyID uuid.UUID) (*models.AbuseScore, error) {
	var record models.AbuseScore

	err := r.db.Pool().QueryRow(ctx,
		`SELECT api_key_id, score, scan_count, flagged_ratio, similarity_ratio, entity_reuse_ratio, response_level, updated_at
		 FROM abuse_scores WHERE api_key_id = $1`,
		apiKeyID,
	).Scan(
		&record.APIKeyID,
		&record.Score,
		&record.ScanCount,
		&record.FlaggedRatio,
		&record.SimilarityRatio,
		&record.EntityReuseRatio,
		&record.ResponseLevel,
		&record.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get abuse score: %w", err)
	}

	return &record, nil
}
