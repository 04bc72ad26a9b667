package static

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/adrianliechti/lahde/pkg/auth"

	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	p, err := New("secret")
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
		header string
		ok     bool
	}{
		{"query key", "/api/monitoring?key=secret", "", true},
		{"bearer token", "/api/monitoring", "Bearer secret", true},
		{"wrong key", "/api/monitoring?key=guess", "", false},
		{"wrong key beats header", "/api/monitoring?key=guess", "Bearer secret", false},
		{"missing", "/api/monitoring", "", false},
		{"basic auth", "/api/monitoring", "Basic c2VjcmV0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)

			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			_, err := p.Authenticate(context.Background(), r)

			if tt.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, auth.ErrUnauthorized)
			}
		})
	}
}

func TestAuthenticateWithoutToken(t *testing.T) {
	p, err := New("")
	require.NoError(t, err)

	_, err = p.Authenticate(context.Background(), httptest.NewRequest("GET", "/api/monitoring", nil))
	require.NoError(t, err)
}
