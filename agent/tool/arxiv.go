package tool

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	noArxivResult      = "No good Arxiv Result was found"
	arxivMaxQueryChars = 300
)

var arxivIDPattern = regexp.MustCompile(`^(\d{4}\.\d{4,5}(v\d+)?|[a-z\-]+(\.[A-Z]{2})?/\d{7}(v\d+)?)$`)

// Arxiv searches preprint metadata through the arXiv export API.
type Arxiv struct {
	fetch    fetcher
	endpoint string
	topK     int
	maxChars int
}

func NewArxiv(cfg Config) *Arxiv {
	return &Arxiv{
		fetch:    newFetcher(cfg),
		endpoint: cfg.arxivEndpoint(),
		topK:     cfg.TopKResults,
		maxChars: cfg.MaxChars,
	}
}

func (a *Arxiv) Name() string { return ToolArxiv }

func (a *Arxiv) Description() string {
	return "A wrapper around Arxiv.org. Useful for questions about physics, mathematics, computer science, quantitative biology, quantitative finance, statistics, electrical engineering, and economics from scientific articles on arxiv.org. Input should be a search query."
}

type arxivFeed struct {
	XMLName xml.Name     `xml:"feed"`
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

func (a *Arxiv) Run(ctx context.Context, query string) (string, error) {
	q, err := normalizeQuery(query)
	if err != nil {
		return "", err
	}
	q = truncate(q, arxivMaxQueryChars)

	u, err := url.Parse(a.endpoint)
	if err != nil {
		return "", toolFailure(ToolArxiv, fmt.Errorf("invalid endpoint: %w", err))
	}
	params := url.Values{}
	if ids, ok := arxivIDs(q); ok {
		params.Set("id_list", strings.Join(ids, ","))
	} else {
		params.Set("search_query", "all:"+q)
	}
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(a.topK))
	u.RawQuery = params.Encode()

	body, err := a.fetch.get(ctx, u.String(), "application/atom+xml")
	if err != nil {
		return "", toolFailure(ToolArxiv, err)
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return "", toolFailure(ToolArxiv, fmt.Errorf("decode atom feed: %w", err))
	}

	parts := make([]string, 0, a.topK)
	for _, e := range feed.Entries {
		if len(parts) >= a.topK {
			break
		}
		title := collapseSpace(e.Title)
		// The API reports bad queries as a single entry titled "Error".
		if title == "" || title == "Error" {
			continue
		}
		parts = append(parts, formatArxivEntry(e, title))
	}
	if len(parts) == 0 {
		return noArxivResult, nil
	}
	return truncate(strings.Join(parts, "\n\n"), a.maxChars), nil
}

func formatArxivEntry(e arxivEntry, title string) string {
	published := strings.TrimSpace(e.Published)
	if len(published) >= 10 {
		published = published[:10]
	}
	names := make([]string, 0, len(e.Authors))
	for _, au := range e.Authors {
		if n := strings.TrimSpace(au.Name); n != "" {
			names = append(names, n)
		}
	}
	return fmt.Sprintf("Published: %s\nTitle: %s\nAuthors: %s\nSummary: %s",
		published, title, strings.Join(names, ", "), collapseSpace(e.Summary))
}

// arxivIDs reports whether every token in q looks like an arXiv identifier.
func arxivIDs(q string) ([]string, bool) {
	fields := strings.Fields(q)
	if len(fields) == 0 {
		return nil, false
	}
	for _, f := range fields {
		if !arxivIDPattern.MatchString(f) {
			return nil, false
		}
	}
	return fields, true
}
