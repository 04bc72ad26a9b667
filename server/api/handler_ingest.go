package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/adrianliechti/lahde/pkg/ingest"
	"github.com/adrianliechti/lahde/pkg/scraper"
	"github.com/adrianliechti/lahde/pkg/vectorstore"
)

type IngestResponse struct {
	Success bool `json:"success"`

	VectorStoreID string           `json:"vector_store_id"`
	File          vectorstore.File `json:"file"`

	Attachment any `json:"attachment"`
}

func (h *Handler) handleIngestURL(w http.ResponseWriter, r *http.Request) {
	var req ingest.Request

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	result, err := h.Ingest.Ingest(r.Context(), req)

	if err != nil {
		slog.Error("url ingest failed", "url", req.URL, "error", err)

		switch {
		case errors.Is(err, ingest.ErrMissingURL):
			writeError(w, http.StatusBadRequest, "Missing required field: url", "")

		case errors.Is(err, ingest.ErrInvalidURL):
			writeError(w, http.StatusBadRequest, "Invalid url", "")

		case errors.Is(err, scraper.ErrFetch), errors.Is(err, scraper.ErrUnsupported):
			writeError(w, http.StatusBadRequest, "Failed to fetch URL", "")

		default:
			writeError(w, http.StatusInternalServerError, "Failed to ingest URL", "")
		}

		return
	}

	writeJson(w, http.StatusOK, IngestResponse{
		Success: true,

		VectorStoreID: result.VectorStoreID,
		File:          result.File,

		Attachment: attachmentBody(result.Attachment),
	})
}

func attachmentBody(a *vectorstore.Attachment) any {
	if a == nil {
		return nil
	}

	if len(a.Raw) > 0 && json.Valid(a.Raw) {
		return a.Raw
	}

	return map[string]string{
		"id":     a.ID,
		"status": a.Status,
	}
}
