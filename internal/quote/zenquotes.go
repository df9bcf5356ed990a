package quote

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const maxBody = 64 << 10

// ZenQuotes answers with this author when the caller is over its quota.
const zenQuotesAuthor = "zenquotes.io"

// ClientConfig configures Client.
type ClientConfig struct {
	Endpoint      string
	Timeout       time.Duration
	RatePerMinute float64 // 0 disables client-side limiting
	Burst         int
	HTTPClient    *http.Client
	Logger        *slog.Logger
}

// Client fetches quotes from a ZenQuotes-compatible endpoint, which returns
// either `[{"q": "...", "a": "..."}]` or a single object of the same shape.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

func NewClient(cfg ClientConfig) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
		http:     hc,
		logger:   logger,
	}
	if cfg.RatePerMinute > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerMinute/60), burst)
	}
	return c
}

// FetchQuote performs one request. It never blocks on the rate limiter: an
// exhausted budget is reported as ErrUnavailable straight away.
func (c *Client) FetchQuote(ctx context.Context) (Quote, error) {
	if c.limiter != nil && !c.limiter.Allow() {
		return Quote{}, fmt.Errorf("%w: rate limited", ErrUnavailable)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: build request: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Quote{}, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	q, err := parseZenQuotes(body)
	if err != nil {
		return Quote{}, err
	}
	c.logger.Debug("quote fetched", "author", q.Author, "elapsed", time.Since(start))
	return q, nil
}

func parseZenQuotes(body []byte) (Quote, error) {
	if !gjson.ValidBytes(body) {
		return Quote{}, fmt.Errorf("%w: malformed payload", ErrUnavailable)
	}
	root := gjson.ParseBytes(body)
	if root.IsArray() {
		root = root.Get("0")
	}
	q := Quote{
		Text:   strings.TrimSpace(root.Get("q").String()),
		Author: strings.TrimSpace(root.Get("a").String()),
	}
	if q.Empty() {
		return Quote{}, fmt.Errorf("%w: payload has no quote", ErrUnavailable)
	}
	if strings.EqualFold(q.Author, zenQuotesAuthor) {
		return Quote{}, fmt.Errorf("%w: upstream quota exceeded", ErrUnavailable)
	}
	return q, nil
}
