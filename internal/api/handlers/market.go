package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/pkg/logger"
)

// MarketHandler serves raw indicator observations.
type MarketHandler struct {
	market contracts.MarketDataRepository
	logger *logger.Logger
}

// NewMarketHandler creates a new market data handler.
func NewMarketHandler(market contracts.MarketDataRepository, log *logger.Logger) *MarketHandler {
	return &MarketHandler{
		market: market,
		logger: log,
	}
}

// Latest returns the most recent observation of every indicator.
// GET /api/market/latest
func (h *MarketHandler) Latest(w http.ResponseWriter, r *http.Request) {
	latest, err := h.market.LatestValues(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get latest market data")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve market data")
		return
	}

	respondJSON(w, http.StatusOK, latest)
}

// History returns one indicator's observations in a time range.
// GET /api/market/{name}/history?from=2026-08-01&to=2026-08-26
func (h *MarketHandler) History(w http.ResponseWriter, r *http.Request) {
	name := pathName(r)
	if name == "" {
		respondError(w, http.StatusBadRequest, "Indicator name required")
		return
	}

	from, to, err := parseDateRange(r, 7*24*time.Hour)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	values, err := h.market.History(r.Context(), name, from, to)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get market data history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve market data history")
		return
	}

	respondJSON(w, http.StatusOK, values)
}

func pathName(r *http.Request) string {
	return mux.Vars(r)["name"]
}
