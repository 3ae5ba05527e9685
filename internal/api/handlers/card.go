package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"scamscan/internal/domain/models"
	"scamscan/internal/infrastructure/cache"
	"scamscan/internal/infrastructure/database/repository"
	"scamscan/pkg/logger"
)

// CardHandler serves public scam cards
type CardHandler struct {
	cards  *repository.CardRepository
	cache  *cache.RedisCache
	logger *logger.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cards *repository.CardRepository, c *cache.RedisCache, log *logger.Logger) *CardHandler {
	return &CardHandler{
		cards:  cards,
		cache:  c,
		logger: log.WithComponent("card_handler"),
	}
}

type cardResponse struct {
	CardID    string           `json:"card_id"`
	Title     string           `json:"title"`
	Summary   string           `json:"summary"`
	RiskLevel models.RiskLevel `json:"risk_level"`
	RiskScore int              `json:"risk_score"`
	ScamType  models.ScamType  `json:"scam_type,omitempty"`
	ViewCount int64            `json:"view_count"`
	CreatedAt time.Time        `json:"created_at"`
}

// Get handles GET /card/{shortID}. Public, no auth.
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	shortID := chi.URLParam(r, "shortID")

	card, err := h.cards.GetCardByShortID(r.Context(), shortID)
	if err != nil {
		h.logger.Error().Err(err).Str("short_id", shortID).Msg("card lookup failed")
		respondError(w, http.StatusInternalServerError, "card lookup failed")
		return
	}
	if card == nil {
		respondError(w, http.StatusNotFound, "card not found")
		return
	}

	// Redis holds the live counter; the scam_cards row is a best-effort
	// mirror so counts survive a cache flush
	views := card.ViewCount + 1
	if h.cache != nil {
		if v, err := h.cache.IncrementCardViews(r.Context(), shortID); err == nil && v > views {
			views = v
		}
	}
	if err := h.cards.IncrementViewCount(r.Context(), shortID); err != nil {
		h.logger.Warn().Err(err).Str("short_id", shortID).Msg("failed to persist view count")
	}

	respondJSON(w, http.StatusOK, cardResponse{
		CardID:    card.ShortID,
		Title:     card.Title,
		Summary:   card.Summary,
		RiskLevel: card.RiskLevel,
		RiskScore: card.RiskScore,
		ScamType:  card.ScamType,
		ViewCount: views,
		CreatedAt: card.CreatedAt,
	})
}
