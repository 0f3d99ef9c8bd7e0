package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/golfmapper/coursemap/internal/report"
)

// Limits for the mappings listing.
const (
	DefaultMappingsLimit = 100
	MaxMappingsLimit     = 1000
)

// MappingsHandler serves a loaded mapping report.
type MappingsHandler struct {
	Doc *report.Document

	byID map[int64]int
}

// NewMappingsHandler indexes the report by used-course id.
func NewMappingsHandler(doc *report.Document) *MappingsHandler {
	h := &MappingsHandler{Doc: doc, byID: make(map[int64]int, len(doc.Mappings))}
	for i, e := range doc.Mappings {
		if _, dup := h.byID[e.Garmin.ID]; !dup {
			h.byID[e.Garmin.ID] = i
		}
	}
	return h
}

// MappingsResponse is one page of report entries.
type MappingsResponse struct {
	Total    int            `json:"total"`
	Count    int            `json:"count"`
	Mappings []report.Entry `json:"mappings"`
}

// ListMappings returns report entries in report order, optionally filtered by
// confidence level.
func (h *MappingsHandler) ListMappings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := clampLimit(parseIntParam(query.Get("limit"), DefaultMappingsLimit), MaxMappingsLimit)

	level := 0
	if s := query.Get("confidence"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 5 {
			http.Error(w, "confidence must be between 1 and 5", http.StatusBadRequest)
			return
		}
		level = n
	}

	resp := MappingsResponse{Mappings: []report.Entry{}}
	for _, e := range h.Doc.Mappings {
		if level != 0 && e.MatchQuality.ConfidenceLevel != level {
			continue
		}
		resp.Total++
		if len(resp.Mappings) < limit {
			resp.Mappings = append(resp.Mappings, e)
		}
	}
	resp.Count = len(resp.Mappings)

	writeJSON(w, http.StatusOK, resp)
}

// GetMapping returns the entry for one used course.
func (h *MappingsHandler) GetMapping(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}

	i, ok := h.byID[id]
	if !ok {
		http.Error(w, "Mapping not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.Doc.Mappings[i])
}

// SummaryResponse is the report metadata plus per-tier statistics.
type SummaryResponse struct {
	Metadata report.Metadata `json:"metadata"`
	Stats    report.Stats    `json:"stats"`
}

// GetSummary returns the report metadata and histogram.
func (h *MappingsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SummaryResponse{
		Metadata: h.Doc.Metadata,
		Stats:    report.Summarize(h.Doc),
	})
}
