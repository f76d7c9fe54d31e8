package http

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"

	"uscite/internal/core"
	"uscite/internal/services"
)

// flexString decodes a JSON string or number into a string, so clients
// can send amounts either quoted or bare.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}

	return fmt.Errorf("value must be a string or a number")
}

type recordJSON struct {
	ID          int64  `json:"id"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category"`
	Note        string `json:"note,omitempty"`
	Date        string `json:"date,omitempty"`
}

type categoryJSON struct {
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
}

type summaryResponse struct {
	Total      string         `json:"total"`
	TotalCents int64          `json:"total_cents"`
	ByCategory []categoryJSON `json:"by_category"`
}

type listResponse struct {
	Records []recordJSON    `json:"records"`
	Summary summaryResponse `json:"summary"`
}

func recordToJSON(rec core.Record) recordJSON {
	return recordJSON{
		ID:          rec.ID,
		Amount:      rec.Amount.Decimal(),
		AmountCents: rec.Amount.Cents,
		Category:    rec.Category,
		Note:        rec.Note,
		Date:        rec.Date,
	}
}

func summaryJSON(summary core.Summary) summaryResponse {
	byCategory := make([]categoryJSON, 0, len(summary.ByCategory))
	for _, cat := range summary.ByCategory {
		byCategory = append(byCategory, categoryJSON{
			Name:        cat.Name,
			Amount:      cat.Amount.Decimal(),
			AmountCents: cat.Amount.Cents,
		})
	}
	return summaryResponse{
		Total:      summary.Total.Decimal(),
		TotalCents: summary.Total.Cents,
		ByCategory: byCategory,
	}
}

func overviewResponse(overview services.Overview) listResponse {
	records := make([]recordJSON, 0, len(overview.Records))
	for _, rec := range overview.Records {
		records = append(records, recordToJSON(rec))
	}
	return listResponse{
		Records: records,
		Summary: summaryJSON(overview.Summary),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// clientIP prefers the first X-Forwarded-For hop when a proxy sits in
// front, falling back to the peer address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, found := strings.Cut(forwarded, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
