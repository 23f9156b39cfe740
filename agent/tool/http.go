package tool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"
)

const maxResponseSizeBytes = 2 << 20

type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("http status=%d body=%s", e.Code, e.Body)
}

type fetcher struct {
	client    *http.Client
	userAgent string
	retries   uint64
	baseDelay time.Duration
}

func newFetcher(cfg Config) fetcher {
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	return fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.userAgent(),
		retries:   cfg.MaxRetries,
		baseDelay: baseDelay,
	}
}

// get performs a GET, retrying transport errors, 429 and 5xx responses with
// exponential backoff.
func (f fetcher) get(ctx context.Context, rawURL string, accept string) ([]byte, error) {
	backoff := retry.WithCappedDuration(10*time.Second, retry.NewExponential(f.baseDelay))
	backoff = retry.WithMaxRetries(f.retries, backoff)

	var body []byte
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		raw, err := f.getOnce(ctx, rawURL, accept)
		if err == nil {
			body = raw
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var se *statusError
		if errors.As(err, &se) && se.Code != http.StatusTooManyRequests && se.Code < http.StatusInternalServerError {
			return err
		}
		log.Debug().Err(err).Int("attempt", attempt).Str("url", redactQuery(rawURL)).Msg("tool upstream call failed, retrying")
		return retry.RetryableError(err)
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (f fetcher) getOnce(ctx context.Context, rawURL string, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &statusError{Code: resp.StatusCode, Body: truncate(strings.TrimSpace(string(raw)), 200)}
	}
	return raw, nil
}

// truncate caps s at max runes. A non-positive max disables the cap.
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// collapseSpace folds runs of whitespace, including newlines, into one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func redactQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

func normalizeQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", errEmptyQuery
	}
	return q, nil
}
