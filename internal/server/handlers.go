package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/claude/liftscope/internal/progress"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r.Context())

	result, err := s.ingest.Ingest(r.Context(), r.Body, uid)
	if err != nil {
		s.log.Error("ingest error", "error", err)
		status := http.StatusBadRequest
		if result != nil && result.SessionsInserted > 0 {
			// Partial write before a storage failure.
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	// Completed sessions change the aggregates, so drop cached state.
	if result.SessionsCompleted > 0 {
		s.svc.ClearCache()
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.svc.ClearCache()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleExerciseList(w http.ResponseWriter, r *http.Request) {
	items := s.svc.ExerciseList(r.Context(), userIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleExerciseHierarchy(w http.ResponseWriter, r *http.Request) {
	groups := s.svc.ExerciseHierarchy(r.Context(), userIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleExerciseProgress(w http.ResponseWriter, r *http.Request) {
	key := progress.Key(chi.URLParam(r, "key"))
	prog := s.svc.Progress(r.Context(), userIDFromContext(r.Context()), key, parseTimeRange(r))
	if prog == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown exercise key"})
		return
	}
	writeJSON(w, http.StatusOK, prog)
}

func (s *Server) handleExerciseChart(w http.ResponseWriter, r *http.Request) {
	key := progress.Key(chi.URLParam(r, "key"))
	chart := s.svc.Chart(r.Context(), userIDFromContext(r.Context()), key, parseTimeRange(r))
	if chart == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown exercise key"})
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	dist := s.svc.BodyPartDistribution(r.Context(), userIDFromContext(r.Context()), parseTimeRange(r))
	writeJSON(w, http.StatusOK, dist)
}

func (s *Server) handleHeatMap(w http.ResponseWriter, r *http.Request) {
	hm := s.svc.HeatMap(r.Context(), userIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, hm)
}

func (s *Server) handlePRTimeline(w http.ResponseWriter, r *http.Request) {
	limit := progress.DefaultPRLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	items := s.svc.PRTimeline(r.Context(), userIDFromContext(r.Context()), limit)
	writeJSON(w, http.StatusOK, items)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseTimeRange reads the range query param, defaulting to the full
// history when absent or unrecognized.
func parseTimeRange(r *http.Request) progress.TimeRange {
	switch tr := progress.TimeRange(r.URL.Query().Get("range")); tr {
	case progress.RangeMonth, progress.RangeQuarter, progress.RangeHalfYear, progress.RangeYear, progress.RangeAll:
		return tr
	default:
		return progress.RangeAll
	}
}
