package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/internal/store"
	"github.com/tradedeck/backend/pkg/logger"
	"github.com/tradedeck/backend/pkg/redis"
)

// ScoreHandler serves score snapshots.
type ScoreHandler struct {
	scores contracts.ScoreRepository
	cache  *redis.Cache
	logger *logger.Logger
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(scores contracts.ScoreRepository, cache *redis.Cache, log *logger.Logger) *ScoreHandler {
	return &ScoreHandler{
		scores: scores,
		cache:  cache,
		logger: log,
	}
}

// Latest returns the most recent score snapshot, served from cache when
// fresh.
// GET /api/scores/latest
func (h *ScoreHandler) Latest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cached contracts.ScoreRecord
	if hit, err := h.cache.Get(ctx, redis.LatestScoresKey(), &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, &cached)
		return
	}

	record, err := h.scores.Latest(ctx)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "No scores computed yet")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get latest scores")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve scores")
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// History returns score snapshots in a time range.
// GET /api/scores/history?from=2026-08-01&to=2026-08-26&limit=100
func (h *ScoreHandler) History(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r, 30*24*time.Hour)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := parseLimit(r, 100)

	records, err := h.scores.History(r.Context(), from, to, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get score history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve score history")
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// parseDateRange reads from/to query params (YYYY-MM-DD). Defaults to the
// trailing window ending now.
func parseDateRange(r *http.Request, defaultWindow time.Duration) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.Add(-defaultWindow)
	to := now

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, errors.New("invalid 'from' date, expected YYYY-MM-DD")
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, errors.New("invalid 'to' date, expected YYYY-MM-DD")
		}
		// Inclusive end of day
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	if to.Before(from) {
		return from, to, errors.New("'to' must not be before 'from'")
	}

	return from, to, nil
}

func parseLimit(r *http.Request, fallback int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return fallback
	}
	limit, err := strconv.Atoi(v)
	if err != nil || limit <= 0 || limit > 1000 {
		return fallback
	}
	return limit
}
