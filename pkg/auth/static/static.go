package static

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/adrianliechti/lahde/pkg/auth"
)

var _ auth.Provider = (*Provider)(nil)

// Provider admits requests carrying a shared secret, either as the key query
// parameter or as a bearer token.
type Provider struct {
	token string
}

func New(token string) (*Provider, error) {
	return &Provider{
		token: token,
	}, nil
}

func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	if p.token == "" {
		return ctx, nil
	}

	token := r.URL.Query().Get("key")

	if header := r.Header.Get("Authorization"); token == "" && strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimPrefix(header, "Bearer ")
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(p.token)) != 1 {
		return ctx, auth.ErrUnauthorized
	}

	return ctx, nil
}
