package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tradedeck/backend/internal/scheduler"
	"github.com/tradedeck/backend/pkg/logger"
)

// JobHandler exposes the scheduler's registered jobs over HTTP.
type JobHandler struct {
	scheduler *scheduler.Scheduler
	logger    *logger.Logger
}

// NewJobHandler creates a new job handler.
func NewJobHandler(sched *scheduler.Scheduler, log *logger.Logger) *JobHandler {
	return &JobHandler{
		scheduler: sched,
		logger:    log,
	}
}

// List returns the names of all registered jobs.
// GET /api/jobs
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.scheduler.GetAllJobs())
}

// Stats returns the execution statistics for all jobs.
// GET /api/jobs/stats
func (h *JobHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.scheduler.GetJobStats())
}

// History returns the execution history for one job.
// GET /api/jobs/{name}/history
func (h *JobHandler) History(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	history, err := h.scheduler.GetJobHistory(name)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, history.GetLatestResults(20))
}

// Run triggers a job immediately.
// POST /api/jobs/{name}/run
func (h *JobHandler) Run(w http.ResponseWriter, r *http.Request) {
	h.trigger(w, mux.Vars(r)["name"])
}

// Collect triggers an immediate market data poll.
// POST /api/market/collect
func (h *JobHandler) Collect(w http.ResponseWriter, r *http.Request) {
	h.trigger(w, "market_data")
}

func (h *JobHandler) trigger(w http.ResponseWriter, name string) {
	if err := h.scheduler.RunJob(name); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	h.logger.WithField("job", name).Info("Job triggered via API")
	respondJSON(w, http.StatusAccepted, map[string]string{
		"status": "triggered",
		"job":    name,
	})
}
