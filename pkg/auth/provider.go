package auth

import (
	"context"
	"errors"
	"net/http"
)

type contextKey string

const (
	ClientContextKey contextKey = "auth.client"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

type Provider interface {
	Authenticate(ctx context.Context, r *http.Request) (context.Context, error)
}

// Client returns the client identifier stored in ctx, if any.
func Client(ctx context.Context) string {
	if client, ok := ctx.Value(ClientContextKey).(string); ok {
		return client
	}

	return ""
}
