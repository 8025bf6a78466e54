// Package analyze exposes the property analysis pipeline over HTTP.
package analyze

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/pipeline"
	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/report"
)

// Handler serves the analysis endpoints.
type Handler struct {
	analyzer *pipeline.Analyzer
}

func NewHandler(analyzer *pipeline.Analyzer) *Handler {
	return &Handler{analyzer: analyzer}
}

// HandleAnalyze runs a full analysis and returns it as JSON.
// POST /api/analyze
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.analyzer.AnalyzeProperty(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("url", req.PropertyURL).Msg("analysis failed")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleReport runs a full analysis and returns the rendered HTML report.
// POST /api/report
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.analyzer.AnalyzeProperty(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("url", req.PropertyURL).Msg("analysis failed")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	html, err := report.HTML(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// HandleHealth reports liveness.
// GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// decodeRequest applies CORS, method, and body validation shared by the two
// POST endpoints.
func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (pipeline.Request, bool) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return pipeline.Request{}, false
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return pipeline.Request{}, false
	}

	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return pipeline.Request{}, false
	}
	if req.PropertyURL == "" {
		writeError(w, http.StatusBadRequest, "property_url is required")
		return pipeline.Request{}, false
	}
	return req, true
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
