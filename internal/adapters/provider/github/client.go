// Package github provides a resilient GitHub REST v3 provider adapter
package github

import (
	"context"
	"math/rand"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	perr "repocred/internal/platform/errors"
	"repocred/internal/platform/logger"
)

const (
	baseURLDefault   = "https://api.github.com"
	defaultTimeout   = 10 * time.Second
	defaultUA        = "repocred-verification"
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
	pageSize         = 100
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Comma separated tokens passed in from CLI or config
	// Empty means tokenless which is very low quota so not recommended
	TokensCSV string

	// Retry config for transient responses; 4xx classes never retry
	MaxRetries int
	RetryBase  time.Duration
}

// Client is a minimal GitHub REST client with token rotation
// it implements provider.Provider
type Client struct {
	http   *http.Client
	opts   Options
	tokens []string
	cur    atomic.Int32
	log    logger.Logger
	now    func() time.Time
	sleep  func(time.Duration)
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	var toks []string
	for t := range strings.SplitSeq(strings.TrimSpace(o.TokensCSV), ",") {
		if t = strings.TrimSpace(t); t != "" {
			toks = append(toks, t)
		}
	}
	return &Client{
		http:   &http.Client{Timeout: o.Timeout},
		opts:   o,
		tokens: toks,
		log:    *logger.Named("github"),
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Name returns the provider key
func (c *Client) Name() string { return "github" }

// getToken returns the next token in a round robin rotation
func (c *Client) getToken() string {
	if len(c.tokens) == 0 {
		return ""
	}
	n := int(c.cur.Add(1))
	return c.tokens[n%len(c.tokens)]
}

// do issues a GET with auth headers and bounded retries for transient errors
// 4xx classes return immediately with a mapped platform error
func (c *Client) do(ctx context.Context, path string) (*http.Response, error) {
	url := c.opts.BaseURL + path
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "github new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/vnd.github.v3+json")
		if tok := c.getToken(); tok != "" {
			req.Header.Set("Authorization", "token "+tok)
		}

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !c.shouldRetry(attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "github do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("github transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		rem, reset, retryAfter := parseRateHeaders(resp.Header)
		c.log.Debug().
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Int("rate_remaining", rem).
			Time("rate_reset", reset).
			Int("retry_after_s", retryAfter).
			Msg("github http response")

		switch {
		case resp.StatusCode == http.StatusOK:
			return resp, nil

		case resp.StatusCode == http.StatusNotFound:
			_ = drainAndClose(resp.Body)
			return nil, perr.NotFoundf("repository not found or is private")

		case resp.StatusCode == http.StatusTooManyRequests,
			resp.StatusCode == http.StatusForbidden && rateLimited(resp.Header):
			// terminal for this call; surface the wait so callers can reschedule
			_ = drainAndClose(resp.Body)
			wait := computeWait(rem, reset, retryAfter, c.now())
			return nil, perr.WithRetryAfter(perr.RateLimitedf("github rate limited"), wait)

		case resp.StatusCode == http.StatusForbidden:
			// bare 403 means the token cannot see the repo; same caller
			// semantics as a private repository
			_ = drainAndClose(resp.Body)
			return nil, perr.NotFoundf("repository not found or is private")

		case resp.StatusCode >= http.StatusInternalServerError:
			if !c.shouldRetry(attempts) {
				_ = drainAndClose(resp.Body)
				return nil, perr.Unavailablef("github transient server error %d", resp.StatusCode)
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("github transient error retrying")
			_ = drainAndClose(resp.Body)
			c.sleep(back)
			attempts++
			continue

		default:
			_ = drainAndClose(resp.Body)
			return nil, perr.Internalf("github unexpected status %d", resp.StatusCode)
		}
	}
}

// backoff is exponential with a cap plus up to 50% jitter
func (c *Client) backoff(attempt int) time.Duration {
	ms := int64(c.opts.RetryBase / time.Millisecond)
	ms = ms << uint(attempt)
	if max := int64(30 * time.Second / time.Millisecond); ms > max {
		ms = max
	}
	d := time.Duration(ms) * time.Millisecond
	return d + time.Duration(rand.Int63n(int64(d)/2+1))
}

func (c *Client) shouldRetry(attempt int) bool {
	// attempts are zero based; MaxRetries counts total tries
	return attempt < c.opts.MaxRetries-1
}
