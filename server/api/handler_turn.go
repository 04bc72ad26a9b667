package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/adrianliechti/lahde/pkg/auth"
	"github.com/adrianliechti/lahde/pkg/interaction"
	"github.com/adrianliechti/lahde/pkg/limiter"
	"github.com/adrianliechti/lahde/pkg/provider"
	"github.com/adrianliechti/lahde/pkg/relay"
	"github.com/adrianliechti/lahde/pkg/tool"
)

const rateLimitMessage = "Liian monta pyyntöä. Odota hetki ja yritä uudelleen."

type TurnRequest struct {
	Messages   []provider.Message `json:"messages"`
	ToolsState tool.State         `json:"toolsState"`
}

type RateLimitResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`

	ResetAt int64 `json:"resetAt"`
}

func (h *Handler) handleTurnResponse(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, err := h.Identifier.Authenticate(r.Context(), r)

	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	client := auth.Client(ctx)

	decision := h.RateLimit.Admit(client)
	writeRateLimitHeaders(w, decision)

	h.Metrics.RecordAdmission(ctx, decision.Allowed)

	if !decision.Allowed {
		slog.Warn("rate limit exceeded", "client", client, "reset_at", decision.ResetAt)

		retry := decision.RetryAfter(time.Now())
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))

		writeJson(w, http.StatusTooManyRequests, RateLimitResponse{
			Error:   "rate_limit_exceeded",
			Message: rateLimitMessage,

			ResetAt: decision.ResetAt.UnixMilli(),
		})

		return
	}

	var req TurnRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	state := h.Tools.Prepare(req.ToolsState)

	tools := h.Tools.Tools(state)

	// a grounded turn with nothing left to call falls back to auto
	choice := provider.ToolChoiceAuto

	if state.Grounded() && len(tools) > 0 {
		choice = provider.ToolChoiceRequired
	}

	input := &provider.Request{
		Model: h.Model,

		Instructions: h.Tools.Instructions(state),
		Messages:     req.Messages,

		Tools:      tools,
		ToolChoice: choice,

		ParallelToolCalls: false,
	}

	stream, err := h.Responder.Respond(ctx, input)

	if err != nil {
		slog.Error("upstream request failed", "client", client, "error", err)

		writeError(w, http.StatusInternalServerError, "upstream_failed", "Failed to get a response from the model")
		return
	}

	writer := relay.NewWriter(w)
	writer.Start(http.StatusOK)

	rl := relay.New(relay.WithValidator(h.Validator))

	turn, err := rl.Forward(ctx, stream, writer)

	if err != nil {
		if errors.Is(err, relay.ErrAborted) {
			slog.Info("turn aborted", "client", client, "error", err)
		}

		return
	}

	record := h.Interactions.Add(interaction.Record{
		UserMessage:       provider.LastUserMessage(req.Messages),
		AssistantResponse: turn.Text,

		Citations:  turn.Citations,
		Confidence: turn.Result.Confidence,
		Warnings:   turn.Result.Warnings,

		ResponseTime: time.Since(start).Milliseconds(),
		Client:       client,
	})

	h.Metrics.RecordInteraction(ctx, string(record.Confidence), record.Warnings)
}

func writeRateLimitHeaders(w http.ResponseWriter, d limiter.Decision) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.UnixMilli(), 10))
}
