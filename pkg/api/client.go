package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/atlan-go/pkg/buildinfo"
	"github.com/matzehuels/atlan-go/pkg/cache"
	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/observability"
)

// RequestIDHeader carries a unique id per call so that failures can be traced
// in the tenant's logs.
const RequestIDHeader = "X-Atlan-Request-Id"

const (
	defaultTimeout    = 30 * time.Second
	defaultAttempts   = 3
	defaultRetryDelay = time.Second
	maxRetryAfter     = 30 * time.Second
)

// Options configures a [Client].
type Options struct {
	BaseURL    string            // tenant URL, e.g. https://acme.atlan.com
	APIKey     string            // bearer token
	HTTPClient *http.Client      // nil uses a client with a 30s timeout
	Headers    map[string]string // extra headers applied to every call
	UserAgent  string            // overrides the default Atlan-GoSDK/<version>

	Cache    cache.Cache   // nil disables caching
	Keyer    cache.Keyer   // nil uses a keyer scoped by tenant host
	CacheTTL time.Duration // TTL for entries written by Cached

	Attempts   int           // total attempts per call, default 3
	RetryDelay time.Duration // initial backoff, default 1s
}

// Client provides shared HTTP functionality for all Atlan services.
// It handles authentication, retry logic, error mapping and caching.
//
// A Client is safe for concurrent use.
type Client struct {
	http     *http.Client
	baseURL  *url.URL
	headers  map[string]string
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	attempts int
	delay    time.Duration
}

// NewClient validates opts and creates a Client.
func NewClient(opts Options) (*Client, error) {
	if err := errors.ValidateBaseURL(opts.BaseURL); err != nil {
		return nil, err
	}
	base, _ := url.Parse(strings.TrimRight(opts.BaseURL, "/"))

	headers := map[string]string{
		"Accept":           "application/json",
		"Content-Type":     "application/json",
		"User-Agent":       "Atlan-GoSDK/" + buildinfo.Version,
		"x-atlan-agent":    "sdk",
		"x-atlan-agent-id": "go",
	}
	if opts.UserAgent != "" {
		headers["User-Agent"] = opts.UserAgent
	}
	if opts.APIKey != "" {
		headers["Authorization"] = "Bearer " + opts.APIKey
	}
	for k, v := range opts.Headers {
		headers[k] = v
	}

	c := &Client{
		http:     opts.HTTPClient,
		baseURL:  base,
		headers:  headers,
		cache:    opts.Cache,
		keyer:    opts.Keyer,
		ttl:      opts.CacheTTL,
		attempts: opts.Attempts,
		delay:    opts.RetryDelay,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: defaultTimeout}
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	if c.keyer == nil {
		c.keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), "tenant:"+base.Host+":")
	}
	if c.attempts <= 0 {
		c.attempts = defaultAttempts
	}
	if c.delay <= 0 {
		c.delay = defaultRetryDelay
	}
	return c, nil
}

// BaseURL returns the tenant URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// Keyer returns the keyer used to build cache keys for this tenant.
func (c *Client) Keyer() cache.Keyer { return c.keyer }

// Request holds the variable parts of a call.
type Request struct {
	PathParams map[string]string // values for {placeholders} in the endpoint path
	Query      url.Values
	Body       any // JSON-encoded when non-nil
}

// Call performs ep and JSON-decodes the response into out.
// A nil out discards the body. Network failures, 429 and 5xx responses are
// retried; other failures are returned as *errors.Error immediately.
func (c *Client) Call(ctx context.Context, ep Endpoint, req Request, out any) error {
	target, err := c.resolve(ep, req)
	if err != nil {
		return err
	}

	var payload []byte
	if req.Body != nil {
		if payload, err = json.Marshal(req.Body); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRequest, err, "encode %s body", ep.Path)
		}
	}

	return cache.Retry(ctx, c.attempts, c.delay, func() error {
		body, err := c.do(ctx, ep.Method, target, payload)
		if err != nil {
			return err
		}
		if out == nil || len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return errors.Wrap(errors.ErrCodeAPI, err, "decode %s response", ep.Path)
		}
		return nil
	})
}

// Cached retrieves v from the cache under key or runs fetch and caches the
// result. If refresh is true the cache is bypassed, but the fresh value is
// still written back. fetch should populate v.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	hooks := observability.Cache()
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok && json.Unmarshal(data, v) == nil {
			hooks.OnCacheHit(ctx, key)
			return nil
		}
		hooks.OnCacheMiss(ctx, key)
	}
	if err := fetch(); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			hooks.OnCacheSet(ctx, key, len(data))
		}
	}
	return nil
}

// Invalidate removes key from the cache.
func (c *Client) Invalidate(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

func (c *Client) resolve(ep Endpoint, req Request) (string, error) {
	path, rawPath := ep.Path, ep.Path
	for k, v := range req.PathParams {
		if v == "" {
			return "", errors.New(errors.ErrCodeInvalidInput, "%s: empty value for {%s}", ep.Path, k)
		}
		path = strings.ReplaceAll(path, "{"+k+"}", v)
		rawPath = strings.ReplaceAll(rawPath, "{"+k+"}", url.PathEscape(v))
	}
	if strings.Contains(rawPath, "{") {
		return "", errors.New(errors.ErrCodeInvalidInput, "%s: missing path parameter", ep.Path)
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	u.RawPath = c.baseURL.EscapedPath() + rawPath
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}
	return u.String(), nil
}

func (c *Client) do(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, err, "build request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read %s response", path))
	}
	if err := c.checkStatus(ctx, resp, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) checkStatus(ctx context.Context, resp *http.Response, body []byte) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}

	apiErr := errors.FromStatus(code, body)
	switch {
	case code == http.StatusTooManyRequests:
		wait := retryAfter(resp.Header.Get("Retry-After"))
		apiErr.Cause = &errors.RateLimitedError{RetryAfter: int(wait / time.Second), Message: apiErr.Message}
		if wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(min(wait, maxRetryAfter)):
			}
		}
		return cache.Retryable(apiErr)
	case code >= 500:
		return cache.Retryable(apiErr)
	default:
		return apiErr
	}
}

func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		return time.Until(t)
	}
	return 0
}

// String implements fmt.Stringer for logging.
func (e Endpoint) String() string { return fmt.Sprintf("%s %s", e.Method, e.Path) }
