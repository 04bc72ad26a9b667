package config

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type proxyConfig struct {
	URL string `yaml:"url"`
}

// httpClient returns the client for outbound calls. Requests are traced and
// routed through proxy when one is configured, otherwise through the
// environment proxy settings.
func httpClient(proxy *proxyConfig, timeout time.Duration) (*http.Client, error) {
	tr := http.DefaultTransport.(*http.Transport).Clone()

	if proxy != nil && proxy.URL != "" {
		u, err := url.Parse(proxy.URL)

		if err != nil {
			return nil, err
		}

		if u.Scheme == "" || u.Host == "" {
			return nil, errors.New("invalid proxy url: " + proxy.URL)
		}

		tr.Proxy = http.ProxyURL(u)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(tr),
	}, nil
}
