package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"uscite/internal/core"
	"uscite/internal/services"
	"uscite/internal/storage"
)

// recordPayload is the request body for create and update. Amount is
// flexible: clients may send it as a JSON string or number.
type recordPayload struct {
	Amount   flexString `json:"amount"`
	Category string     `json:"category"`
	Note     string     `json:"note"`
	Date     string     `json:"date"`
}

func (p recordPayload) draft() core.Draft {
	return core.Draft{
		Amount:   string(p.Amount),
		Category: p.Category,
		Note:     p.Note,
		Date:     p.Date,
	}
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListRecords(w, r)
	case http.MethodPost:
		s.handleCreateRecord(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	window, category, ok := parseFilterParams(w, r)
	if !ok {
		return
	}

	overview, err := s.loadOverview(r, window, category)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load overview",
			"error", err, "window", string(window), "category", category)
		writeError(w, http.StatusInternalServerError, "could not load records")
		return
	}

	writeJSON(w, http.StatusOK, overviewResponse(overview))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	window, category, ok := parseFilterParams(w, r)
	if !ok {
		return
	}

	overview, err := s.loadOverview(r, window, category)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load summary",
			"error", err, "window", string(window), "category", category)
		writeError(w, http.StatusInternalServerError, "could not load summary")
		return
	}

	writeJSON(w, http.StatusOK, summaryJSON(overview.Summary))
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var payload recordPayload
	if !decodePayload(w, r, &payload) {
		return
	}

	id, err := s.service.AddExpense(r.Context(), payload.draft())
	if err != nil {
		if core.IsValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create record",
			"error", err, "category", payload.Category)
		writeError(w, http.StatusInternalServerError, "could not save record")
		return
	}

	s.overviewCache.Purge()

	slog.InfoContext(r.Context(), "Record created",
		"id", id, "category", payload.Category)

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleRecordByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/records/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "unknown record")
		return
	}

	switch r.Method {
	case http.MethodPut, http.MethodPost:
		s.handleUpdateRecord(w, r, id)
	case http.MethodDelete:
		s.handleDeleteRecord(w, r, id)
	default:
		w.Header().Set("Allow", "PUT, POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request, id int64) {
	var payload recordPayload
	if !decodePayload(w, r, &payload) {
		return
	}

	if err := s.service.EditExpense(r.Context(), id, payload.draft()); err != nil {
		switch {
		case core.IsValidationError(err):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, "unknown record")
		default:
			slog.ErrorContext(r.Context(), "Failed to update record", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "could not update record")
		}
		return
	}

	s.overviewCache.Purge()

	slog.InfoContext(r.Context(), "Record updated", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.service.RemoveExpense(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown record")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete record", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "could not delete record")
		return
	}

	s.overviewCache.Purge()

	slog.InfoContext(r.Context(), "Record deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// handleDatePreview formats a partially typed date for display and, once
// the input normalizes, includes the canonical form.
func (s *Server) handleDatePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	typed := r.URL.Query().Get("typed")
	formatted := core.FormatTyped(typed)

	resp := struct {
		Formatted string `json:"formatted"`
		Date      string `json:"date,omitempty"`
	}{
		Formatted: formatted,
	}
	// Only a fully typed YYYY-MM-DD shape carries a date. Normalizing
	// the raw input instead would read bare digit runs as timestamps.
	if len(formatted) == len(core.CanonicalDateLayout) {
		if normalized, ok := core.Normalize(formatted); ok {
			resp.Date = normalized
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) loadOverview(r *http.Request, window core.Window, category string) (services.Overview, error) {
	key := string(window) + "|" + category
	if cached, ok := s.overviewCache.Get(key); ok {
		return cached, nil
	}

	overview, err := s.service.Overview(r.Context(), window, category, time.Now())
	if err != nil {
		return services.Overview{}, err
	}

	s.overviewCache.Set(key, overview)
	return overview, nil
}

func parseFilterParams(w http.ResponseWriter, r *http.Request) (core.Window, string, bool) {
	window, ok := core.ParseWindow(r.URL.Query().Get("window"))
	if !ok {
		writeError(w, http.StatusBadRequest, "window must be one of all, week, month")
		return "", "", false
	}
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	return window, category, true
}

func decodePayload(w http.ResponseWriter, r *http.Request, payload *recordPayload) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
