package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jusunglee/hypua"
	"github.com/jusunglee/hypua/internal/metrics"
	"github.com/jusunglee/hypua/internal/web/middleware"
)

type ConvertHandler struct {
	log *slog.Logger
}

func NewConvertHandler(log *slog.Logger) *ConvertHandler {
	return &ConvertHandler{log: log}
}

type convertRequest struct {
	Text string `json:"text"`
}

type convertResponse struct {
	Text    string      `json:"text"`
	Changed bool        `json:"changed"`
	Stats   hypua.Stats `json:"stats"`
}

func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	st := hypua.Analyze(req.Text)
	metrics.ObserveConversion("http", len(req.Text), st)
	annotateStats(r, st)
	if st.Unmapped > 0 {
		h.log.WarnContext(r.Context(), "unmapped legacy codepoints", "count", st.Unmapped)
	}

	writeJSON(w, http.StatusOK, convertResponse{
		Text:    hypua.ToIPFString(req.Text),
		Changed: st.Changed(),
		Stats:   st,
	})
}

// annotateStats adds the conversion counts to the request's access log line.
func annotateStats(r *http.Request, st hypua.Stats) {
	middleware.Annotate(r.Context(), slog.Int("legacy", st.Legacy), slog.Int("unmapped", st.Unmapped))
}
