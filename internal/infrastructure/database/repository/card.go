package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"scamscan/internal/domain/models"
	"scamscan/internal/infrastructure/database"
	"scamscan/pkg/logger"
)

// CardRepository persists shareable scam cards
type CardRepository struct {
	db     *database.PostgresDB
	logger *logger.Logger
}

// NewCardRepository creates a new card repository
func NewCardRepository(db *database.PostgresDB, log *logger.Logger) *CardRepository {
	return &CardRepository{
		db:     db,
		logger: log.WithComponent("card_repository"),
	}
}

// CreateCard inserts a card in its own transaction scope. The unique
// constraint on scan_id enforces at most one card per scan.
func (r *CardRepository) CreateCard(ctx context.Context, card *models.ScamCard) error {
	err := r.db.Pool().QueryRow(ctx,
		`INSERT INTO scam_cards (scan_id, short_id, title, summary, risk_level, risk_score, scam_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		card.ScanID,
		card.ShortID,
		card.Title,
		card.Summary,
		string(card.RiskLevel),
		card.RiskScore,
		nullIfEmpty(string(card.ScamType)),
	).Scan(&card.ID, &card.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert scam card: %w", err)
	}
	return nil
}

// GetCardByShortID returns a card by its public identifier, or nil when
// none exists
func (r *CardRepository) GetCardByShortID(ctx context.Context, shortID string) (*models.ScamCard, error) {
	var (
		card     models.ScamCard
		scamType *string
	)

	err := r.db.Pool().QueryRow(ctx,
		`SELECT id, scan_id, short_id, title, summary, risk_level, risk_score, scam_type, view_count, share_count, created_at
		 FROM scam_cards WHERE short_id = $1`,
		shortID,
	).Scan(
		&card.ID,
		&card.ScanID,
		&card.ShortID,
		&card.Title,
		&card.Summary,
		&card.RiskLevel,
		&card.RiskScore,
		&scamType,
		&card.ViewCount,
		&card.ShareCount,
		&card.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scam card: %w", err)
	}

	card.ScamType = models.ScamType(deref(scamType))
	return &card, nil
}

// IncrementViewCount bumps the persisted view counter
func (r *CardRepository) IncrementViewCount(ctx context.Context, shortID string) error {
	_, err := r.db.Pool().Exec(ctx,
		`UPDATE scam_cards SET view_count = view_count + 1 WHERE short_id = $1`,
		shortID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return nil
}
