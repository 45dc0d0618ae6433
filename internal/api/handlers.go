package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/five82/tideline/internal/archive"
	"github.com/five82/tideline/internal/insight"
	"github.com/five82/tideline/internal/metrics"
	"github.com/five82/tideline/internal/timeline"
)

const (
	defaultLayoutWidth = 1200.0
	defaultLayoutZoom  = 1.0
)

type entryListResponse struct {
	Entries []archive.Entry `json:"entries"`
}

type tagListResponse struct {
	Tags []archive.Tag `json:"tags"`
}

type layoutResponse struct {
	timeline.Frame
	Matches []string `json:"matches,omitempty"`
}

type summaryRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// internalError logs err and answers with a generic message.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	s.logger.Error(operation, "error", err, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, operation)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) fetchEntries(r *http.Request) ([]archive.Entry, error) {
	entries, err := s.archive.FetchEntries(r.Context())
	if err != nil {
		return nil, err
	}
	metrics.ArchiveEntries.Set(float64(len(entries)))
	return entries, nil
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := archive.Search(r.Context(), s.archive, q)
	if err != nil {
		s.internalError(w, r, "failed to list entries", err)
		return
	}
	if entries == nil {
		entries = []archive.Entry{}
	}
	writeJSON(w, http.StatusOK, entryListResponse{Entries: entries})
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := archive.Get(r.Context(), s.archive, chi.URLParam(r, "id"))
	if errors.Is(err, archive.ErrNotFound) {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	if err != nil {
		s.internalError(w, r, "failed to get entry", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeEntry(w, r)
	if !ok {
		return
	}
	entry, err := s.archive.AddEntry(r.Context(), in)
	if err != nil {
		s.internalError(w, r, "failed to add entry", err)
		return
	}
	s.logger.Info("entry added", "id", entry.ID, "date", entry.Date)
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeEntry(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	entry, err := s.archive.UpdateEntry(r.Context(), id, in)
	if errors.Is(err, archive.ErrNotFound) {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	if err != nil {
		s.internalError(w, r, "failed to update entry", err)
		return
	}
	s.logger.Info("entry updated", "id", id, "date", entry.Date)
	writeJSON(w, http.StatusOK, entry)
}

// decodeEntry reads and validates a NewEntry body, answering 400 on failure.
func decodeEntry(w http.ResponseWriter, r *http.Request) (archive.NewEntry, bool) {
	var in archive.NewEntry
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return archive.NewEntry{}, false
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return archive.NewEntry{}, false
	}
	return in, true
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.archive.DeleteEntry(r.Context(), id)
	if errors.Is(err, archive.ErrNotFound) {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	if err != nil {
		s.internalError(w, r, "failed to delete entry", err)
		return
	}
	s.logger.Info("entry deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.archive.ListTags(r.Context())
	if err != nil {
		s.internalError(w, r, "failed to list tags", err)
		return
	}
	if tags == nil {
		tags = []archive.Tag{}
	}
	writeJSON(w, http.StatusOK, tagListResponse{Tags: tags})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	entries, err := s.fetchEntries(r)
	if err != nil {
		s.internalError(w, r, "failed to compute stats", err)
		return
	}
	tags, err := s.archive.ListTags(r.Context())
	if err != nil {
		s.internalError(w, r, "failed to compute stats", err)
		return
	}
	writeJSON(w, http.StatusOK, archive.ComputeStats(entries, tags, s.engine.Now(), s.engine.Location()))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	req := timeline.LayoutRequest{
		Zoom:           defaultLayoutZoom,
		ClientWidth:    defaultLayoutWidth,
		HoveredCluster: params.Get("hover"),
	}
	var err error
	if req.Zoom, err = floatParam(params.Get("zoom"), defaultLayoutZoom); err != nil {
		writeError(w, http.StatusBadRequest, "invalid zoom")
		return
	}
	if req.ClientWidth, err = floatParam(params.Get("width"), defaultLayoutWidth); err != nil || req.ClientWidth <= 0 {
		writeError(w, http.StatusBadRequest, "invalid width")
		return
	}
	if req.ScrollLeft, err = floatParam(params.Get("scroll"), 0); err != nil {
		writeError(w, http.StatusBadRequest, "invalid scroll")
		return
	}
	if focus := params.Get("focus"); focus != "" {
		t, err := archive.ParseDate(focus, s.engine.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid focus date")
			return
		}
		req.Focus = &t
	}
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := s.fetchEntries(r)
	if err != nil {
		s.internalError(w, r, "failed to build layout", err)
		return
	}
	req.Entries = entries
	frame := s.engine.Layout(req)
	metrics.LayoutClusters.Observe(float64(len(frame.Clusters)))

	resp := layoutResponse{Frame: frame}
	if q.Active() {
		for _, e := range entries {
			if q.Matches(e) {
				resp.Matches = append(resp.Matches, e.ID)
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.summarizer == nil {
		writeError(w, http.StatusServiceUnavailable, "summaries are not configured")
		return
	}
	var body summaryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	loc := s.engine.Location()
	req := insight.Request{Location: loc}
	if body.From != "" {
		t, err := archive.ParseDate(body.From, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date")
			return
		}
		req.From = t
	}
	if body.To != "" {
		t, err := archive.ParseDate(body.To, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date")
			return
		}
		req.To = timeline.EndOfDay(t)
	}

	entries, err := s.fetchEntries(r)
	if err != nil {
		s.internalError(w, r, "failed to summarize", err)
		return
	}
	req.Entries = entries

	summary, err := s.summarizer.Summarize(r.Context(), req)
	if errors.Is(err, insight.ErrNothingToSummarize) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, r, "failed to summarize", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// parseQuery reads q (free text) and repeated tag=name:#color filters.
func parseQuery(r *http.Request) (archive.Query, error) {
	params := r.URL.Query()
	q := archive.Query{Text: strings.TrimSpace(params.Get("q"))}
	for _, raw := range params["tag"] {
		i := strings.LastIndex(raw, ":")
		if i <= 0 || !archive.ValidColor(raw[i+1:]) {
			return archive.Query{}, fmt.Errorf("invalid tag filter %q (want name:#color)", raw)
		}
		q.Tags = append(q.Tags, archive.TagFilter{Name: raw[:i], Color: raw[i+1:]})
	}
	return q, nil
}

func floatParam(raw string, fallback float64) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", raw)
	}
	return v, nil
}
