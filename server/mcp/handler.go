package mcp

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/adrianliechti/lahde/config"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type Handler struct {
	*config.Config

	once   sync.Once
	server *mcp.Server
	err    error
}

func New(cfg *config.Config) (*Handler, error) {
	h := &Handler{
		Config: cfg,
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.Handle("/mcp", h.handler())
}

func (h *Handler) getServer(r *http.Request) *mcp.Server {
	h.once.Do(func() {
		h.server, h.err = h.MCP.Server(r.Context())

		if h.err != nil {
			slog.Error("failed to create mcp server", "error", h.err)
		}
	})

	return h.server
}

func (h *Handler) handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(h.getServer, &mcp.StreamableHTTPOptions{
		Stateless: true,
	})
}
