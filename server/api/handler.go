package api

import (
	"encoding/json"
	"net/http"

	"github.com/adrianliechti/lahde/config"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	*config.Config
}

func New(cfg *config.Config) (*Handler, error) {
	h := &Handler{
		Config: cfg,
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.Post("/turn_response", h.handleTurnResponse)

	r.Get("/monitoring", h.handleMonitoring)

	r.Post("/vector_stores/ingest_url", h.handleIngestURL)
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJson(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err, message string) {
	writeJson(w, code, ErrorResponse{
		Error:   err,
		Message: message,
	})
}
