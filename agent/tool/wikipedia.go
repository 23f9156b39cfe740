package tool

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const noWikipediaResult = "No good Wikipedia Search Result was found"

// Wikipedia looks up encyclopedia summaries through the MediaWiki action API.
type Wikipedia struct {
	fetch    fetcher
	endpoint string
	topK     int
	maxChars int
}

func NewWikipedia(cfg Config) *Wikipedia {
	return &Wikipedia{
		fetch:    newFetcher(cfg),
		endpoint: cfg.wikipediaEndpoint(),
		topK:     cfg.TopKResults,
		maxChars: cfg.MaxChars,
	}
}

func (w *Wikipedia) Name() string { return ToolWikipedia }

func (w *Wikipedia) Description() string {
	return "A wrapper around Wikipedia. Useful for general questions about people, places, companies, facts, historical events, or other subjects. Input should be a search query."
}

type wikiPage struct {
	index   int64
	title   string
	extract string
}

func (w *Wikipedia) Run(ctx context.Context, query string) (string, error) {
	q, err := normalizeQuery(query)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(w.endpoint)
	if err != nil {
		return "", toolFailure(ToolWikipedia, fmt.Errorf("invalid endpoint: %w", err))
	}
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("generator", "search")
	params.Set("gsrsearch", truncate(q, 300))
	params.Set("gsrlimit", strconv.Itoa(w.topK))
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	u.RawQuery = params.Encode()

	body, err := w.fetch.get(ctx, u.String(), "application/json")
	if err != nil {
		return "", toolFailure(ToolWikipedia, err)
	}
	if !gjson.ValidBytes(body) {
		return "", toolFailure(ToolWikipedia, fmt.Errorf("invalid json response"))
	}

	doc := gjson.ParseBytes(body)
	if msg := doc.Get("error.info"); msg.Exists() {
		return "", toolFailure(ToolWikipedia, fmt.Errorf("api error: %s", msg.String()))
	}

	var pages []wikiPage
	doc.Get("query.pages").ForEach(func(_, page gjson.Result) bool {
		if page.Get("missing").Exists() {
			return true
		}
		title := strings.TrimSpace(page.Get("title").String())
		if title == "" {
			return true
		}
		pages = append(pages, wikiPage{
			index:   page.Get("index").Int(),
			title:   title,
			extract: strings.TrimSpace(page.Get("extract").String()),
		})
		return true
	})
	if len(pages) == 0 {
		return noWikipediaResult, nil
	}
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].index < pages[j].index })
	if len(pages) > w.topK {
		pages = pages[:w.topK]
	}

	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if p.extract == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("Page: %s\nSummary: %s", p.title, p.extract))
	}
	if len(parts) == 0 {
		return noWikipediaResult, nil
	}
	return truncate(strings.Join(parts, "\n\n"), w.maxChars), nil
}
