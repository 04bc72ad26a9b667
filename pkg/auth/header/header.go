package header

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/adrianliechti/lahde/pkg/auth"
)

const DefaultClient = "default-client"

var _ auth.Provider = (*Provider)(nil)

// Provider identifies the calling client from proxy headers. It never rejects
// a request.
type Provider struct {
	forwardedHeader string
	realIPHeader    string
}

type Option func(*Provider)

func WithForwardedHeader(val string) Option {
	return func(p *Provider) {
		p.forwardedHeader = val
	}
}

func WithRealIPHeader(val string) Option {
	return func(p *Provider) {
		p.realIPHeader = val
	}
}

func New(opts ...Option) (*Provider, error) {
	p := &Provider{}

	for _, opt := range opts {
		opt(p)
	}

	if p.forwardedHeader == "" {
		p.forwardedHeader = "X-Forwarded-For"
	}

	if p.realIPHeader == "" {
		p.realIPHeader = "X-Real-IP"
	}

	return p, nil
}

func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	return context.WithValue(ctx, auth.ClientContextKey, p.Identify(r)), nil
}

// Identify returns the first X-Forwarded-For hop, then X-Real-IP, then the
// remote host, falling back to DefaultClient.
func (p *Provider) Identify(r *http.Request) string {
	if val := r.Header.Get(p.forwardedHeader); val != "" {
		first, _, _ := strings.Cut(val, ",")

		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if val := strings.TrimSpace(r.Header.Get(p.realIPHeader)); val != "" {
		return val
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}

	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}

	return DefaultClient
}
