package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adrianliechti/lahde/pkg/scraper"
	"github.com/adrianliechti/lahde/pkg/scraper/web"

	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html>
<head>
  <title>Vuosiloma</title>
  <style>body { color: red; }</style>
  <script>var tracking = "<b>ignored</b>";</script>
</head>
<body>
  <noscript>Enable JavaScript</noscript>
  <h1>Vuosiloma</h1>
  <p>Lomaa kertyy&nbsp;2,5 päivää
     kuukaudessa.</p>
  <p>Kysy <a href="/hr">HR</a>:ltä &amp; esihenkilöltä.</p>
</body>
</html>`

func TestText(t *testing.T) {
	text, err := web.Text(strings.NewReader(page))
	require.NoError(t, err)

	require.Equal(t, "Vuosiloma Vuosiloma Lomaa kertyy 2,5 päivää kuukaudessa. Kysy HR :ltä & esihenkilöltä.", text)
}

func TestScrape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/handbook.pdf" {
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF-1.7"))
			return
		}

		if r.URL.Path != "/loma" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))

	defer server.Close()

	c, err := web.New()
	require.NoError(t, err)

	doc, err := c.Scrape(context.Background(), server.URL+"/loma", nil)
	require.NoError(t, err)

	require.Equal(t, server.URL+"/loma", doc.URL)
	require.Equal(t, "text/html", doc.ContentType)
	require.Contains(t, doc.Text, "Lomaa kertyy 2,5 päivää kuukaudessa.")
	require.NotContains(t, doc.Text, "tracking")
	require.NotContains(t, doc.Text, "JavaScript")

	_, err = c.Scrape(context.Background(), server.URL+"/missing", nil)
	require.ErrorIs(t, err, scraper.ErrFetch)

	_, err = c.Scrape(context.Background(), "://invalid", nil)
	require.ErrorIs(t, err, scraper.ErrFetch)

	_, err = c.Scrape(context.Background(), server.URL+"/handbook.pdf", nil)
	require.ErrorIs(t, err, scraper.ErrUnsupported)
}
