package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/ShreyaSuvarna1/Veerpath/internal/jobs"
	"github.com/ShreyaSuvarna1/Veerpath/internal/observability"
)

type homeView struct {
	Jobs        []jobs.Record
	LastUpdated time.Time
}

// handleHome renders into a buffer so a failed render never sends a partial
// page.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	snap := s.cell.Load()
	s.log.Info("serving jobs", "jobs", len(snap.Jobs))

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, homeView{Jobs: snap.Jobs, LastUpdated: snap.UpdatedAt}); err != nil {
		s.log.Error("template rendering failed", "kind", observability.ErrorRender, "error", err)
		observability.IncError(observability.ErrorRender, "api")
		http.Error(w, "Failed to load page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

type healthResponse struct {
	Status      string   `json:"status"`
	JobCount    int      `json:"job_count"`
	LastUpdated *string  `json:"last_updated"`
	Services    []string `json:"services"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.cell.Load()
	service := "inactive"
	if s.sched != nil && s.sched.Running() {
		service = "scheduler"
	}
	respondJSON(w, http.StatusOK, healthResponse{
		Status:      "healthy",
		JobCount:    len(snap.Jobs),
		LastUpdated: timestamp(snap.UpdatedAt),
		Services:    []string{service},
	})
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	snap := s.cell.Load()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":        snap.Jobs,
		"total":        len(snap.Jobs),
		"last_updated": timestamp(snap.UpdatedAt),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.sched == nil || !s.sched.Trigger("manual") {
		respondError(w, http.StatusServiceUnavailable, "Scheduler is not running")
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

type statsResponse struct {
	observability.StatsSnapshot
	RefreshInProgress bool `json:"refresh_in_progress"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{StatsSnapshot: observability.Snapshot()}
	if s.runs != nil {
		resp.RefreshInProgress = s.runs.Busy()
	}
	respondJSON(w, http.StatusOK, resp)
}

func timestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	v := t.Format(time.RFC3339Nano)
	return &v
}
