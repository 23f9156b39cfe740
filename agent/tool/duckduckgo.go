package tool

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
)

const noDuckDuckGoResult = "No good DuckDuckGo Search Result was found"

// ddgThrottle spaces queries across every DuckDuckGo adapter in the process.
var ddgThrottle struct {
	mu   sync.Mutex
	last time.Time
}

type webResult struct {
	Title   string
	URL     string
	Snippet string
}

// DuckDuckGo searches the open web through DuckDuckGo's HTML endpoint.
type DuckDuckGo struct {
	fetch       fetcher
	endpoint    string
	topK        int
	maxChars    int
	minInterval time.Duration
}

func NewDuckDuckGo(cfg Config) *DuckDuckGo {
	return &DuckDuckGo{
		fetch:       newFetcher(cfg),
		endpoint:    cfg.duckDuckGoEndpoint(),
		topK:        cfg.TopKResults,
		maxChars:    cfg.MaxChars,
		minInterval: cfg.DuckDuckGoMinInterval,
	}
}

func (d *DuckDuckGo) Name() string { return ToolDuckDuckGo }

func (d *DuckDuckGo) Description() string {
	return "A wrapper around DuckDuckGo Search. Useful for answering questions about current events and general facts. Input should be a search query."
}

func (d *DuckDuckGo) Run(ctx context.Context, query string) (string, error) {
	q, err := normalizeQuery(query)
	if err != nil {
		return "", err
	}

	if err := d.wait(ctx); err != nil {
		return "", err
	}

	u, err := url.Parse(d.endpoint)
	if err != nil {
		return "", toolFailure(ToolDuckDuckGo, fmt.Errorf("invalid endpoint: %w", err))
	}
	params := u.Query()
	params.Set("q", q)
	u.RawQuery = params.Encode()

	body, err := d.fetch.get(ctx, u.String(), "text/html,application/xhtml+xml")
	if err != nil {
		return "", toolFailure(ToolDuckDuckGo, err)
	}

	results, err := parseDuckDuckGoResults(string(body), d.topK)
	if err != nil {
		return "", toolFailure(ToolDuckDuckGo, err)
	}
	if len(results) == 0 {
		return noDuckDuckGoResult, nil
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		text := r.Snippet
		if text == "" {
			text = r.Title
		}
		parts = append(parts, text)
	}
	return truncate(strings.Join(parts, "\n\n"), d.maxChars), nil
}

func (d *DuckDuckGo) wait(ctx context.Context) error {
	if d.minInterval <= 0 {
		return nil
	}
	ddgThrottle.mu.Lock()
	wait := time.Until(ddgThrottle.last.Add(d.minInterval))
	if wait < 0 {
		wait = 0
	}
	ddgThrottle.last = time.Now().Add(wait)
	ddgThrottle.mu.Unlock()

	if wait == 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// parseDuckDuckGoResults extracts organic results from the HTML result page.
func parseDuckDuckGoResults(htmlContent string, maxResults int) ([]webResult, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var results []webResult
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if maxResults > 0 && len(results) >= maxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" {
			class := attr(n, "class")
			if hasClass(class, "result") && !hasClass(class, "result--ad") {
				if r := extractResult(n); r.URL != "" && r.Title != "" {
					results = append(results, r)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return results, nil
}

func extractResult(n *html.Node) webResult {
	var r webResult
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			class := attr(n, "class")
			switch {
			case n.Data == "a" && hasClass(class, "result__a"):
				r.URL = unwrapRedirect(attr(n, "href"))
				r.Title = collapseSpace(textContent(n))
			case hasClass(class, "result__snippet"):
				r.Snippet = collapseSpace(textContent(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return r
}

// unwrapRedirect turns //duckduckgo.com/l/?uddg=<target> into <target>.
func unwrapRedirect(href string) string {
	href = strings.TrimSpace(href)
	if !strings.Contains(href, "duckduckgo.com/l/") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(classAttr, name string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == name {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
