package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tradedeck/backend/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	runs     int
	failures int // fail the first N runs
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }

func (j *stubJob) Run(_ context.Context) error {
	j.runs++
	if j.runs <= j.failures {
		return errors.New("transient failure")
	}
	return nil
}

func newTestScheduler() *Scheduler {
	return New(logger.NewNop(), WithRetry(2, time.Millisecond), WithRunTimeout(time.Second))
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := newTestScheduler()

	job := &stubJob{name: "scores", schedule: "0 * * * * *"}
	if err := s.AddJob(job); err != nil {
		t.Fatalf("AddJob error: %v", err)
	}
	if err := s.AddJob(job); err == nil {
		t.Fatal("expected duplicate job error, got nil")
	}
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := newTestScheduler()

	job := &stubJob{name: "bad", schedule: "not a cron expression"}
	if err := s.AddJob(job); err == nil {
		t.Fatal("expected schedule parse error, got nil")
	}
}

func TestRunJobAndWaitRetries(t *testing.T) {
	s := newTestScheduler()

	job := &stubJob{name: "flaky", schedule: "0 * * * * *", failures: 2}
	if err := s.AddJob(job); err != nil {
		t.Fatal(err)
	}

	if err := s.RunJobAndWait("flaky"); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if job.runs != 3 {
		t.Errorf("runs = %d, want 3 (2 failures + 1 success)", job.runs)
	}

	history, err := s.GetJobHistory("flaky")
	if err != nil {
		t.Fatal(err)
	}
	if len(history.Results) != 1 || !history.Results[0].Success {
		t.Errorf("unexpected history: %+v", history.Results)
	}
}

func TestRunJobAndWaitExhaustsRetries(t *testing.T) {
	s := newTestScheduler()

	job := &stubJob{name: "broken", schedule: "0 * * * * *", failures: 100}
	if err := s.AddJob(job); err != nil {
		t.Fatal(err)
	}

	if err := s.RunJobAndWait("broken"); err == nil {
		t.Fatal("expected failure after exhausting retries")
	}
	// 1 initial attempt + 2 retries
	if job.runs != 3 {
		t.Errorf("runs = %d, want 3", job.runs)
	}

	stats := s.GetJobStats()
	if stats["broken"].FailureCount != 1 {
		t.Errorf("FailureCount = %d, want 1", stats["broken"].FailureCount)
	}
	if stats["broken"].SuccessRate != 0 {
		t.Errorf("SuccessRate = %v, want 0", stats["broken"].SuccessRate)
	}
}

func TestRunJobUnknownName(t *testing.T) {
	s := newTestScheduler()
	if err := s.RunJob("missing"); err == nil {
		t.Fatal("expected error for unknown job")
	}
	if err := s.RunJobAndWait("missing"); err == nil {
		t.Fatal("expected error for unknown job")
	}
}

func TestJobHistoryWindow(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+20; i++ {
		h.AddResult(JobResult{JobName: "x", Success: i%2 == 0})
	}

	if len(h.Results) != historyLimit {
		t.Errorf("history length = %d, want %d", len(h.Results), historyLimit)
	}
	if got := len(h.GetLatestResults(5)); got != 5 {
		t.Errorf("GetLatestResults(5) returned %d results", got)
	}
	if rate := h.GetSuccessRate(); rate != 0.5 {
		t.Errorf("SuccessRate = %v, want 0.5", rate)
	}
}
