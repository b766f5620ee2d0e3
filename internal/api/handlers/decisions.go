package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/internal/decision"
	"github.com/tradedeck/backend/internal/store"
	"github.com/tradedeck/backend/pkg/logger"
)

// DecisionHandler runs sizing decisions and serves the decision log.
type DecisionHandler struct {
	setups    contracts.SetupRepository
	scores    contracts.ScoreRepository
	decisions contracts.DecisionRepository
	service   *decision.Service
	logger    *logger.Logger
}

// NewDecisionHandler creates a new decision handler.
func NewDecisionHandler(
	setups contracts.SetupRepository,
	scores contracts.ScoreRepository,
	decisions contracts.DecisionRepository,
	service *decision.Service,
	log *logger.Logger,
) *DecisionHandler {
	return &DecisionHandler{
		setups:    setups,
		scores:    scores,
		decisions: decisions,
		service:   service,
		logger:    log,
	}
}

// decideRequest optionally overrides the score snapshot; when Scores is
// empty the latest persisted snapshot is used.
type decideRequest struct {
	Scores contracts.ScoreSnapshot `json:"scores,omitempty"`
}

// Decide sizes a position for one setup.
// POST /api/setups/{id}/decide
func (h *DecisionHandler) Decide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid setup id")
		return
	}

	setup, err := h.setups.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Setup not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load setup")
		respondError(w, http.StatusInternalServerError, "Failed to load setup")
		return
	}

	var req decideRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	scores := req.Scores
	if len(scores) == 0 {
		latest, err := h.scores.Latest(ctx)
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusConflict, "No scores available; supply scores or run the score job first")
			return
		}
		if err != nil {
			h.logger.WithError(err).Error("Failed to load latest scores")
			respondError(w, http.StatusInternalServerError, "Failed to load scores")
			return
		}
		scores = latest.Scores
	}

	record, err := h.service.Decide(ctx, setup, scores)
	if err != nil {
		var derr decision.DecisionError
		if errors.As(err, &derr) {
			respondError(w, http.StatusUnprocessableEntity, derr.Message)
			return
		}
		h.logger.WithError(err).Error("Decision failed")
		respondError(w, http.StatusInternalServerError, "Decision failed")
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// previewRequest names the setup to dry-run.
type previewRequest struct {
	SetupID int64                   `json:"setup_id"`
	Scores  contracts.ScoreSnapshot `json:"scores,omitempty"`
}

// Preview sizes a position without writing to the decision log.
// POST /api/decisions/preview
func (h *DecisionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	setup, err := h.setups.GetByID(ctx, req.SetupID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Setup not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load setup")
		respondError(w, http.StatusInternalServerError, "Failed to load setup")
		return
	}

	scores := req.Scores
	if len(scores) == 0 {
		latest, err := h.scores.Latest(ctx)
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusConflict, "No scores available; supply scores or run the score job first")
			return
		}
		if err != nil {
			h.logger.WithError(err).Error("Failed to load latest scores")
			respondError(w, http.StatusInternalServerError, "Failed to load scores")
			return
		}
		scores = latest.Scores
	}

	record, err := h.service.Preview(setup, scores)
	if err != nil {
		var derr decision.DecisionError
		if errors.As(err, &derr) {
			respondError(w, http.StatusUnprocessableEntity, derr.Message)
			return
		}
		h.logger.WithError(err).Error("Decision preview failed")
		respondError(w, http.StatusInternalServerError, "Decision preview failed")
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// List returns recent decisions.
// GET /api/decisions?setup_id=7&limit=50
func (h *DecisionHandler) List(w http.ResponseWriter, r *http.Request) {
	var setupID int64
	if v := r.URL.Query().Get("setup_id"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid setup_id")
			return
		}
		setupID = parsed
	}

	records, err := h.decisions.List(r.Context(), setupID, parseLimit(r, 50))
	if err != nil {
		h.logger.WithError(err).Error("Failed to list decisions")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve decisions")
		return
	}

	respondJSON(w, http.StatusOK, records)
}
