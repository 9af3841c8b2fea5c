package dvpage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/shanehull/dvwatch/internal/config"
)

const articlePage = `<!DOCTYPE html>
<html>
<head><title>Diversity Visa Program</title><style>.x { color: red; }</style></head>
<body>
  <nav>Home | Visas | Travel</nav>
  <article>
    <h1>Diversity Visa Program - Entry</h1>
    <p>The entry period for DV-2027 will open on
       <b>October 1, 2025</b>, and close on November 4, 2025.</p>
    <script>var tracking = "ignore me";</script>
  </article>
  <footer>Contact us</footer>
</body>
</html>`

func newTestFetcher(t *testing.T, url string, maxChars int) *Fetcher {
	t.Helper()
	return NewFetcher(config.PageConfig{
		URL:       url,
		UserAgent: "Mozilla/5.0 test-agent",
		Timeout:   2 * time.Second,
		MaxChars:  maxChars,
	}, nil)
}

func TestFetchExtractsArticleText(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	text, err := newTestFetcher(t, srv.URL, 15000).Fetch(context.Background())
	require.NoError(t, err)

	require.Equal(t, "Mozilla/5.0 test-agent", gotUA)
	require.Contains(t, text, "Diversity Visa Program - Entry")
	require.Contains(t, text, "DV-2027 will open on October 1, 2025, and close on November 4, 2025.")
	require.NotContains(t, text, "Home | Visas")
	require.NotContains(t, text, "Contact us")
	require.NotContains(t, text, "ignore me")
}

func TestFetchFallsBackToWholePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div>DV-2027 dates</div><div>Not yet</div></body></html>`))
	}))
	defer srv.Close()

	text, err := newTestFetcher(t, srv.URL, 15000).Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "DV-2027 dates\nNot yet", text)
}

func TestFetchNonOKStatusIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestFetcher(t, srv.URL, 15000).Fetch(context.Background())

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
	require.Contains(t, err.Error(), "503")
}

func TestFetchNetworkErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestFetcher(t, url, 15000).Fetch(context.Background())

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Zero(t, fetchErr.StatusCode)
	require.NotNil(t, fetchErr.Unwrap())
}

func TestFetchTruncatesText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<article>" + strings.Repeat("多", 50) + "</article>"))
	}))
	defer srv.Close()

	text, err := newTestFetcher(t, srv.URL, 10).Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("多", 10), text)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", Truncate("abcdef", 3))
	require.Equal(t, "abc", Truncate("abc", 3))
	require.Equal(t, "abc", Truncate("abc", 10))
	require.Equal(t, "日本", Truncate("日本語", 2))
	require.Equal(t, "", Truncate("", 5))
	require.Equal(t, "abc", Truncate("abc", 0))
}

func TestContentTextPicksFirstArticle(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<body><article>first</article><article>second</article></body>`))
	require.NoError(t, err)
	require.Equal(t, "first", ContentText(doc))
}
