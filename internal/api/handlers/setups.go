package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/internal/curve"
	"github.com/tradedeck/backend/internal/store"
	"github.com/tradedeck/backend/pkg/logger"
)

// SetupHandler handles setup management endpoints.
type SetupHandler struct {
	setups contracts.SetupRepository
	logger *logger.Logger
}

// NewSetupHandler creates a new setup handler.
func NewSetupHandler(setups contracts.SetupRepository, log *logger.Logger) *SetupHandler {
	return &SetupHandler{
		setups: setups,
		logger: log,
	}
}

// setupRequest is the write payload. The decision curve stays raw so the
// structural validation rules apply to the JSON as sent, before anything is
// coerced into a typed Curve.
type setupRequest struct {
	Name            string                               `json:"name"`
	ExecutionMode   contracts.ExecutionMode              `json:"execution_mode"`
	BaseAmount      float64                              `json:"base_amount"`
	DecisionCurve   json.RawMessage                      `json:"decision_curve,omitempty"`
	PauseConditions map[string]contracts.PauseCondition  `json:"pause_conditions,omitempty"`
	Active          *bool                                `json:"active,omitempty"`
}

func (req *setupRequest) toSetup() (*contracts.Setup, error) {
	setup := &contracts.Setup{
		Name:            req.Name,
		ExecutionMode:   req.ExecutionMode,
		BaseAmount:      req.BaseAmount,
		PauseConditions: req.PauseConditions,
		Active:          true,
	}
	if req.Active != nil {
		setup.Active = *req.Active
	}

	if len(req.DecisionCurve) > 0 {
		parsed, err := curve.ParseDecisionCurve(req.DecisionCurve)
		if err != nil {
			return nil, err
		}
		setup.DecisionCurve = parsed
	}

	return setup, nil
}

// List returns all setups.
// GET /api/setups?active=true
func (h *SetupHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	setups, err := h.setups.List(r.Context(), activeOnly)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list setups")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve setups")
		return
	}

	respondJSON(w, http.StatusOK, setups)
}

// Get returns one setup by id.
// GET /api/setups/{id}
func (h *SetupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid setup id")
		return
	}

	setup, err := h.setups.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Setup not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get setup")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve setup")
		return
	}

	respondJSON(w, http.StatusOK, setup)
}

// Create validates and stores a new setup. Curve validation failures come
// back as 400 with the violated rule's message.
// POST /api/setups
func (h *SetupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	setup, err := req.toSetup()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.setups.Create(r.Context(), setup)
	if err != nil {
		if isValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Failed to create setup")
		respondError(w, http.StatusInternalServerError, "Failed to create setup")
		return
	}

	h.logger.WithField("setup", created.Name).Info("Setup created")
	respondJSON(w, http.StatusCreated, created)
}

// Update validates and stores changes to an existing setup.
// PUT /api/setups/{id}
func (h *SetupHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid setup id")
		return
	}

	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	setup, err := req.toSetup()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	setup.ID = id

	updated, err := h.setups.Update(r.Context(), setup)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Setup not found")
		return
	}
	if err != nil {
		if isValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Failed to update setup")
		respondError(w, http.StatusInternalServerError, "Failed to update setup")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a setup.
// DELETE /api/setups/{id}
func (h *SetupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid setup id")
		return
	}

	err = h.setups.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Setup not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to delete setup")
		respondError(w, http.StatusInternalServerError, "Failed to delete setup")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Validate runs the full save-time validation against a setup payload
// without storing anything.
// POST /api/setups/validate
func (h *SetupHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	setup, err := req.toSetup()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.ValidateSetup(setup); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// isValidationError distinguishes defective input from storage failures.
// The store surfaces curve violations as CurveError and setup-shape
// violations as store.ValidationError.
func isValidationError(err error) bool {
	var cerr curve.CurveError
	var verr store.ValidationError
	return errors.As(err, &cerr) || errors.As(err, &verr)
}
