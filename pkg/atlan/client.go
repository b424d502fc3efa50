package atlan

import (
	"net/http"
	"os"
	"time"

	"github.com/matzehuels/atlan-go/pkg/api"
	"github.com/matzehuels/atlan-go/pkg/cache"
	"github.com/matzehuels/atlan-go/pkg/errors"
)

// Environment variables read by [ConfigFromEnv].
const (
	EnvBaseURL = "ATLAN_BASE_URL"
	EnvAPIKey  = "ATLAN_API_KEY"
)

// DefaultCacheTTL is how long typedefs and roles stay cached.
const DefaultCacheTTL = 10 * time.Minute

// Config holds the connection settings of a [Client].
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration // per HTTP request, default 30s
	MaxRetries int           // total attempts per call, default 3
	RetryDelay time.Duration // initial backoff, default 1s
	CacheTTL   time.Duration // default DefaultCacheTTL
	UserAgent  string
}

// ConfigFromEnv reads the tenant URL and API key from the environment.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		BaseURL: os.Getenv(EnvBaseURL),
		APIKey:  os.Getenv(EnvAPIKey),
	}
	if cfg.BaseURL == "" {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s is not set", EnvBaseURL)
	}
	if cfg.APIKey == "" {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s is not set", EnvAPIKey)
	}
	return cfg, nil
}

type options struct {
	httpClient *http.Client
	cache      cache.Cache
	keyer      cache.Keyer
	headers    map[string]string
}

// Option customizes a [Client].
type Option func(*options)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithCache stores typedefs and roles in c. Without it nothing is cached
// across clients.
func WithCache(c cache.Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithKeyer overrides how cache keys are built.
func WithKeyer(k cache.Keyer) Option {
	return func(o *options) { o.keyer = k }
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(o *options) {
		if o.headers == nil {
			o.headers = map[string]string{}
		}
		o.headers[key] = value
	}
}

// Client is the entry point to an Atlan tenant. Its services share one
// HTTP transport and cache. A Client is safe for concurrent use.
type Client struct {
	api *api.Client

	Assets   *AssetService
	Lineage  *LineageService
	Users    *UserService
	Groups   *GroupService
	Roles    *RoleService
	TypeDefs *TypeDefService

	TagCache   *TagCache
	RoleCache  *RoleCache
	GroupCache *GroupCache
}

// NewClient validates cfg and creates a Client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil && cfg.Timeout > 0 {
		o.httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	transport, err := api.NewClient(api.Options{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		HTTPClient: o.httpClient,
		Headers:    o.headers,
		UserAgent:  cfg.UserAgent,
		Cache:      o.cache,
		Keyer:      o.keyer,
		CacheTTL:   ttl,
		Attempts:   cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	})
	if err != nil {
		return nil, err
	}
	return newClient(transport), nil
}

// FromEnv creates a Client configured by [ConfigFromEnv].
func FromEnv(opts ...Option) (*Client, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewClient(cfg, opts...)
}

func newClient(transport *api.Client) *Client {
	c := &Client{api: transport}
	c.TypeDefs = &TypeDefService{api: transport}
	c.Roles = &RoleService{api: transport}
	c.Groups = &GroupService{api: transport}
	c.TagCache = newTagCache(c.TypeDefs)
	c.RoleCache = newRoleCache(c.Roles)
	c.GroupCache = newGroupCache(c.Groups)
	c.Users = &UserService{api: transport, roles: c.RoleCache}
	c.Assets = &AssetService{api: transport, tags: c.TagCache}
	c.Lineage = &LineageService{api: transport}
	return c
}

// API exposes the underlying transport for endpoints without a service method.
func (c *Client) API() *api.Client { return c.api }

// BaseURL returns the tenant URL.
func (c *Client) BaseURL() string { return c.api.BaseURL() }
