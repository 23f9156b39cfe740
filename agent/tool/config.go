package tool

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
)

const (
	DefaultUserAgent = "ChativeSearchAssistant/1.0 (+https://github.com/tanpawarit/Chative-Search-Assistant)"
	defaultArxivURL  = "https://export.arxiv.org/api/query"
	defaultDDGURL    = "https://html.duckduckgo.com/html/"
)

type Config struct {
	TopKResults    int           `split_words:"true" default:"1"`
	MaxChars       int           `split_words:"true" default:"200"`
	Timeout        time.Duration `split_words:"true" default:"15s"`
	MaxRetries     uint64        `split_words:"true" default:"2"`
	RetryBaseDelay time.Duration `split_words:"true" default:"500ms"`
	UserAgent      string        `split_words:"true"`

	WikipediaLang string `split_words:"true" default:"en"`
	WikipediaURL  string `envconfig:"WIKIPEDIA_URL"`
	ArxivURL      string `envconfig:"ARXIV_URL"`
	DuckDuckGoURL string `envconfig:"DUCKDUCKGO_URL"`

	// DuckDuckGoMinInterval spaces out web searches across the whole process.
	DuckDuckGoMinInterval time.Duration `envconfig:"DUCKDUCKGO_MIN_INTERVAL" default:"1s"`
}

// DefaultConfig mirrors the envconfig defaults for callers that do not load
// the environment.
func DefaultConfig() Config {
	return Config{
		TopKResults:           1,
		MaxChars:              200,
		Timeout:               15 * time.Second,
		MaxRetries:            2,
		RetryBaseDelay:        500 * time.Millisecond,
		WikipediaLang:         "en",
		DuckDuckGoMinInterval: time.Second,
	}
}

func (c Config) Validate() error {
	if c.TopKResults <= 0 {
		return fmt.Errorf("%w: top k results must be > 0", contractx.ErrValidation)
	}
	if c.MaxChars <= 0 {
		return fmt.Errorf("%w: max chars must be > 0", contractx.ErrValidation)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be > 0", contractx.ErrValidation)
	}
	return nil
}

func (c Config) userAgent() string {
	if ua := strings.TrimSpace(c.UserAgent); ua != "" {
		return ua
	}
	return DefaultUserAgent
}

func (c Config) wikipediaEndpoint() string {
	if u := strings.TrimSpace(c.WikipediaURL); u != "" {
		return u
	}
	lang := strings.TrimSpace(c.WikipediaLang)
	if lang == "" {
		lang = "en"
	}
	return fmt.Sprintf("https://%s.wikipedia.org/w/api.php", lang)
}

func (c Config) arxivEndpoint() string {
	if u := strings.TrimSpace(c.ArxivURL); u != "" {
		return u
	}
	return defaultArxivURL
}

func (c Config) duckDuckGoEndpoint() string {
	if u := strings.TrimSpace(c.DuckDuckGoURL); u != "" {
		return u
	}
	return defaultDDGURL
}
