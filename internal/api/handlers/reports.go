package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tradedeck/backend/internal/ai"
	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/internal/store"
	"github.com/tradedeck/backend/pkg/logger"
)

// ReportHandler serves stored narratives and generates them on demand.
type ReportHandler struct {
	reports   contracts.ReportRepository
	setups    contracts.SetupRepository
	scores    contracts.ScoreRepository
	market    contracts.MarketDataRepository
	decisions contracts.DecisionRepository
	generator *ai.ReportGenerator
	logger    *logger.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(
	reports contracts.ReportRepository,
	setups contracts.SetupRepository,
	scores contracts.ScoreRepository,
	market contracts.MarketDataRepository,
	decisions contracts.DecisionRepository,
	generator *ai.ReportGenerator,
	log *logger.Logger,
) *ReportHandler {
	return &ReportHandler{
		reports:   reports,
		setups:    setups,
		scores:    scores,
		market:    market,
		decisions: decisions,
		generator: generator,
		logger:    log,
	}
}

// Latest returns the most recent report of a kind.
// GET /api/reports/{kind}/latest
func (h *ReportHandler) Latest(w http.ResponseWriter, r *http.Request) {
	kind := contracts.ReportKind(mux.Vars(r)["kind"])
	if !contracts.ValidReportKind(kind) {
		respondError(w, http.StatusBadRequest, "Unknown report kind")
		return
	}

	report, err := h.reports.Latest(r.Context(), kind)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "No report generated yet")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get report")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve report")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// List returns recent reports of a kind.
// GET /api/reports/{kind}?limit=10
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := contracts.ReportKind(mux.Vars(r)["kind"])
	if !contracts.ValidReportKind(kind) {
		respondError(w, http.StatusBadRequest, "Unknown report kind")
		return
	}

	reports, err := h.reports.List(r.Context(), kind, parseLimit(r, 10))
	if err != nil {
		h.logger.WithError(err).Error("Failed to list reports")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve reports")
		return
	}

	respondJSON(w, http.StatusOK, reports)
}

// generateRequest names the setup for setup-kind reports.
type generateRequest struct {
	SetupName string `json:"setup_name,omitempty"`
}

// Generate produces a narrative on demand.
// POST /api/reports/{kind}/generate
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind := contracts.ReportKind(mux.Vars(r)["kind"])
	if !contracts.ValidReportKind(kind) {
		respondError(w, http.StatusBadRequest, "Unknown report kind")
		return
	}

	var req generateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	input, err := h.collectInput(ctx, kind, req)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Setup not found")
			return
		}
		h.logger.WithError(err).Error("Failed to collect report input")
		respondError(w, http.StatusInternalServerError, "Failed to collect report input")
		return
	}

	report, err := h.generator.Generate(ctx, kind, input)
	if err != nil {
		h.logger.WithError(err).Error("Report generation failed")
		respondError(w, http.StatusBadGateway, "Report generation failed")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) collectInput(ctx context.Context, kind contracts.ReportKind, req generateRequest) (ai.ReportInput, error) {
	var input ai.ReportInput

	if kind == contracts.ReportSetup {
		if req.SetupName == "" {
			return input, store.ErrNotFound
		}
		setup, err := h.setups.GetByName(ctx, req.SetupName)
		if err != nil {
			return input, err
		}
		input.Setup = setup
	}

	if latest, err := h.scores.Latest(ctx); err == nil {
		input.Scores = latest
	}
	if market, err := h.market.LatestValues(ctx); err == nil {
		input.Market = market
	}
	if decisions, err := h.decisions.List(ctx, 0, 20); err == nil {
		input.Decisions = decisions
	}

	return input, nil
}
