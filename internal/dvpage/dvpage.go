/*
Package dvpage fetches the Diversity Visa entry page and reduces it to the
visible text of its main content region.
*/
package dvpage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"

	"github.com/shanehull/dvwatch/internal/config"
)

const contentSelector = "article"

var (
	whitespaceRun = regexp.MustCompile(`[\s\xA0]+`)
	spaceRun      = regexp.MustCompile(` {2,}`)
	blankLines    = regexp.MustCompile(`\n{3,}`)
)

// FetchError means the page could not be retrieved this run.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: received non-OK status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Fetcher struct {
	client   *resty.Client
	url      string
	maxChars int
	logger   *slog.Logger
}

func NewFetcher(cfg config.PageConfig, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}

	client := resty.New()
	client.SetHeader("User-Agent", cfg.UserAgent)
	client.SetTimeout(cfg.Timeout)

	return &Fetcher{
		client:   client,
		url:      cfg.URL,
		maxChars: cfg.MaxChars,
		logger:   logger,
	}
}

func (f *Fetcher) URL() string {
	return f.url
}

// Fetch returns the truncated page text or a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(f.url)
	if err != nil {
		return "", &FetchError{URL: f.url, Err: err}
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", &FetchError{URL: f.url, StatusCode: resp.StatusCode()}
	}

	doc, err := html.Parse(bytes.NewReader(resp.Body()))
	if err != nil {
		return "", &FetchError{URL: f.url, Err: fmt.Errorf("failed to parse HTML: %w", err)}
	}

	text := Truncate(ContentText(doc), f.maxChars)
	f.logger.Debug("fetched page", "url", f.url, "bytes", len(resp.Body()), "chars", len([]rune(text)))

	return text, nil
}

// ContentText returns the text of the first <article> element, or of the
// whole document when the page has none.
func ContentText(doc *html.Node) string {
	root := doc

	sel := goquery.NewDocumentFromNode(doc).Find(contentSelector).First()
	if sel.Length() > 0 {
		root = sel.Get(0)
	}

	return normalizeText(extractText(root))
}

func extractText(n *html.Node) string {
	var sb strings.Builder
	var extract func(*html.Node)

	extract = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(whitespaceRun.ReplaceAllString(n.Data, " "))
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			case "br", "p", "div", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
				defer sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}

	extract(n)
	return sb.String()
}

func normalizeText(text string) string {
	text = spaceRun.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}

// Truncate keeps at most maxChars characters without splitting a rune.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}

	count := 0
	for i := range text {
		if count == maxChars {
			return text[:i]
		}
		count++
	}
	return text
}
