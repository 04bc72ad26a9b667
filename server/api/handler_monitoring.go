package api

import (
	"net/http"

	"github.com/adrianliechti/lahde/pkg/interaction"
)

const (
	recentInteractions = 20
	previewLength      = 200
)

type MonitoringResponse struct {
	Stats interaction.Stats `json:"stats"`

	RecentInteractions []interaction.Record `json:"recentInteractions"`
}

func (h *Handler) handleMonitoring(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Monitoring.Authenticate(r.Context(), r); err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	records := h.Interactions.Recent(recentInteractions)

	for i := range records {
		records[i].UserMessage = interaction.Truncate(records[i].UserMessage, previewLength)
		records[i].AssistantResponse = interaction.Truncate(records[i].AssistantResponse, previewLength)
	}

	w.Header().Set("Cache-Control", "no-cache")

	writeJson(w, http.StatusOK, MonitoringResponse{
		Stats: h.Interactions.Stats(),

		RecentInteractions: records,
	})
}
