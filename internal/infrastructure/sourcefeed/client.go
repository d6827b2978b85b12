package sourcefeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/statlink/internal/platform/logging"
	"github.com/riskibarqy/statlink/internal/platform/resilience"
	"github.com/riskibarqy/statlink/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxFeedBytes = 64 << 20

var errFeedTransient = crerr.New("source feed transient failure")

// Batches is the document a scraper drops for one ingestion run.
type Batches struct {
	Primary   []usecase.PrimaryBatch   `json:"primary"`
	Secondary []usecase.SecondaryBatch `json:"secondary"`
}

type ClientConfig struct {
	Timeout        time.Duration
	Retries        int
	Token          string
	RetryBackoff   time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client loads batch documents from local files or http(s) URLs.
type Client struct {
	http    *http.Client
	retries int
	backoff time.Duration
	token   string
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewClient(cfg ClientConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		retries: max(cfg.Retries, 0),
		backoff: backoff,
		token:   strings.TrimSpace(cfg.Token),
		breaker: resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		logger:  logger,
	}
}

// Load reads location as a URL when it has an http or https scheme and as a
// file path otherwise.
func (c *Client) Load(ctx context.Context, location string) (Batches, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return Batches{}, fmt.Errorf("%w: feed location is empty", usecase.ErrInvalidInput)
	}

	var (
		raw []byte
		err error
	)
	if isHTTPURL(location) {
		raw, err = c.fetch(ctx, location)
	} else {
		raw, err = readFile(location)
	}
	if err != nil {
		return Batches{}, err
	}

	var out Batches
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return Batches{}, fmt.Errorf("%w: decode feed %s: %v", usecase.ErrInvalidInput, location, err)
	}
	c.logger.InfoContext(ctx, "source feed loaded", "location", redactURL(location), "primary_batches", len(out.Primary), "secondary_batches", len(out.Secondary))
	return out, nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<(attempt-1))
			c.logger.WarnContext(ctx, "retrying source feed", "url", redactURL(rawURL), "attempt", attempt, "wait", wait.String(), "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, err := c.fetchOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !stderrors.Is(err, errFeedTransient) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: source feed %s failed after %d attempts: %v", usecase.ErrDependencyUnavailable, redactURL(rawURL), c.retries+1, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "source feed circuit breaker rejected request", "state", c.breaker.State())
		return nil, fmt.Errorf("%w: source feed is temporarily unavailable: %w", usecase.ErrDependencyUnavailable, err)
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attribute.String("statlink.feed_url", redactURL(rawURL)))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "create source feed request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: get %s: %v", errFeedTransient, redactURL(rawURL), err)
		if ctx.Err() != nil {
			callErr = ctx.Err()
		}
		c.recordCircuitResult(callErr)
		return nil, callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		callErr := fmt.Errorf("get %s status=%d body=%s", redactURL(rawURL), resp.StatusCode, strings.TrimSpace(string(raw)))
		if isRetryableStatus(resp.StatusCode) {
			callErr = fmt.Errorf("%w: %v", errFeedTransient, callErr)
		}
		c.recordCircuitResult(callErr)
		return nil, callErr
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	n, err := buf.ReadFrom(io.LimitReader(resp.Body, maxFeedBytes+1))
	if err != nil {
		callErr := fmt.Errorf("%w: read %s: %v", errFeedTransient, redactURL(rawURL), err)
		c.recordCircuitResult(callErr)
		return nil, callErr
	}
	if n > maxFeedBytes {
		c.recordCircuitResult(nil)
		return nil, fmt.Errorf("%w: feed %s exceeds %d bytes", usecase.ErrInvalidInput, redactURL(rawURL), maxFeedBytes)
	}

	c.recordCircuitResult(nil)
	return append([]byte(nil), buf.B...), nil
}

// recordCircuitResult counts only transient failures against the feed.
func (c *Client) recordCircuitResult(err error) {
	if err != nil && !stderrors.Is(err, errFeedTransient) {
		err = nil
	}
	c.breaker.Record(err)
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, crerr.Wrapf(err, "stat feed %s", path)
	}
	if info.Size() > maxFeedBytes {
		return nil, fmt.Errorf("%w: feed %s exceeds %d bytes", usecase.ErrInvalidInput, path, maxFeedBytes)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, crerr.Wrapf(err, "read feed %s", path)
	}
	return raw, nil
}

func isHTTPURL(location string) bool {
	parsed, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// redactURL drops userinfo and the query string, which may carry credentials.
func redactURL(location string) string {
	parsed, err := url.Parse(location)
	if err != nil || parsed.Host == "" {
		return location
	}
	parsed.User = nil
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
