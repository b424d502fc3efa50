package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/atlan-go/pkg/cache"
	"github.com/matzehuels/atlan-go/pkg/errors"
)

func testClient(t *testing.T, serverURL string, opts ...func(*Options)) *Client {
	t.Helper()
	o := Options{
		BaseURL:    serverURL,
		APIKey:     "test-token",
		Attempts:   3,
		RetryDelay: time.Millisecond,
	}
	for _, fn := range opts {
		fn(&o)
	}
	c, err := NewClient(o)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return c
}

func TestNewClient(t *testing.T) {
	c := testClient(t, "https://acme.atlan.com/")

	if c.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if c.BaseURL() != "https://acme.atlan.com" {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
	if c.headers["Authorization"] != "Bearer test-token" {
		t.Error("NewClient() authorization header not set")
	}
	if _, ok := c.cache.(cache.NullCache); !ok {
		t.Errorf("default cache = %T, want NullCache", c.cache)
	}
	if got := c.Keyer().HTTPKey("roles", "x"); !strings.HasPrefix(got, "tenant:acme.atlan.com:") {
		t.Errorf("default keyer should be tenant scoped, got %q", got)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "acme.atlan.com"})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("NewClient() error = %v, want INVALID_CONFIG", err)
	}
}

func TestClientCallHeadersAndBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	var got http.Header
	var body payload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	c := testClient(t, server.URL, func(o *Options) {
		o.Headers = map[string]string{"X-Custom": "custom"}
	})

	var resp map[string]string
	err := c.Call(context.Background(), BulkUpdateEntities, Request{Body: payload{Name: "orders"}}, &resp)
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("response = %v", resp)
	}
	if body.Name != "orders" {
		t.Errorf("server received body %+v", body)
	}
	for header, want := range map[string]string{
		"Authorization":    "Bearer test-token",
		"Content-Type":     "application/json",
		"X-Atlan-Agent":    "sdk",
		"X-Atlan-Agent-Id": "go",
		"X-Custom":         "custom",
	} {
		if got.Get(header) != want {
			t.Errorf("header %s = %q, want %q", header, got.Get(header), want)
		}
	}
	if got.Get(RequestIDHeader) == "" {
		t.Error("request id header missing")
	}
	if !strings.HasPrefix(got.Get("User-Agent"), "Atlan-GoSDK/") {
		t.Errorf("User-Agent = %q", got.Get("User-Agent"))
	}
}

func TestClientCallPathAndQuery(t *testing.T) {
	var gotPath, gotRawPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRawPath = r.URL.EscapedPath()
		gotQuery = r.URL.Query().Get("attr:qualifiedName")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	q := url.Values{"attr:qualifiedName": {"default/snowflake/1/DB/SCH/T"}}
	err := c.Call(context.Background(), DeleteTagByUniqueAttr, Request{
		PathParams: map[string]string{"typeName": "Table", "tagName": "PII/Sensitive"},
		Query:      q,
	}, nil)
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}

	if gotPath != "/api/meta/entity/uniqueAttribute/type/Table/classification/PII/Sensitive" {
		t.Errorf("path = %q", gotPath)
	}
	if !strings.HasSuffix(gotRawPath, "/classification/PII%2FSensitive") {
		t.Errorf("raw path should escape the slash, got %q", gotRawPath)
	}
	if gotQuery != "default/snowflake/1/DB/SCH/T" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestClientCallMissingPathParam(t *testing.T) {
	c := testClient(t, "https://acme.atlan.com")

	err := c.Call(context.Background(), GetEntityByGUID, Request{}, nil)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing param error = %v", err)
	}

	err = c.Call(context.Background(), GetEntityByGUID, Request{PathParams: map[string]string{"guid": ""}}, nil)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty param error = %v", err)
	}
}

func TestClientCallNotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errorCode":"ATLAS-404-00-005","errorMessage":"guid not found"}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	err := c.Call(context.Background(), GetEntityByGUID, Request{PathParams: map[string]string{"guid": "abc"}}, &map[string]any{})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("Call() error = %v, want NOT_FOUND", err)
	}
	if errors.StatusOf(err) != http.StatusNotFound {
		t.Errorf("StatusOf() = %d", errors.StatusOf(err))
	}
	if calls.Load() != 1 {
		t.Errorf("404 should not be retried, calls = %d", calls.Load())
	}
}

func TestClientCallRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	var resp map[string]bool
	if err := c.Call(context.Background(), GetRoles, Request{}, &resp); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if !resp["ok"] || calls.Load() != 3 {
		t.Errorf("resp = %v, calls = %d", resp, calls.Load())
	}
}

func TestClientCallGivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := testClient(t, server.URL, func(o *Options) { o.Attempts = 2 })
	err := c.Call(context.Background(), GetRoles, Request{}, nil)
	if !errors.Is(err, errors.ErrCodeAPI) {
		t.Errorf("Call() error = %v, want API_ERROR", err)
	}
	if !cache.IsRetryable(err) {
		t.Error("5xx error should be marked retryable")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestClientCallRateLimited(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	if err := c.Call(context.Background(), GetRoles, Request{}, nil); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("429 should be retried, calls = %d", calls.Load())
	}
}

func TestClientCallEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	var resp map[string]any
	if err := c.Call(context.Background(), DeleteGroup, Request{PathParams: map[string]string{"id": "g1"}}, &resp); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if resp != nil {
		t.Errorf("resp should stay nil, got %v", resp)
	}
}

func TestClientCallInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	var resp map[string]any
	err := c.Call(context.Background(), GetRoles, Request{}, &resp)
	if !errors.Is(err, errors.ErrCodeAPI) {
		t.Errorf("Call() error = %v, want API_ERROR", err)
	}
}

func TestClientCallContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Call(ctx, GetRoles, Request{}, nil)
	if err != context.Canceled {
		t.Errorf("Call() error = %v, want context.Canceled", err)
	}
}

func TestClientCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := testClient(t, "https://acme.atlan.com", func(o *Options) {
		o.Cache = fc
		o.CacheTTL = time.Hour
	})

	type roles struct {
		Names []string `json:"names"`
	}
	ctx := context.Background()
	fetches := 0
	fetch := func(v *roles) func() error {
		return func() error {
			fetches++
			v.Names = []string{"$admin", "$member"}
			return nil
		}
	}

	var first roles
	if err := c.Cached(ctx, "roles", false, &first, fetch(&first)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	var second roles
	if err := c.Cached(ctx, "roles", false, &second, fetch(&second)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetches != 1 {
		t.Errorf("fetch count = %d, want 1", fetches)
	}
	if len(second.Names) != 2 {
		t.Errorf("cached value = %+v", second)
	}

	var third roles
	if err := c.Cached(ctx, "roles", true, &third, fetch(&third)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetches != 2 {
		t.Errorf("refresh should bypass cache, fetch count = %d", fetches)
	}

	if err := c.Invalidate(ctx, "roles"); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}
	var fourth roles
	_ = c.Cached(ctx, "roles", false, &fourth, fetch(&fourth))
	if fetches != 3 {
		t.Errorf("invalidated key should refetch, fetch count = %d", fetches)
	}
}

func TestClientCachedFetchError(t *testing.T) {
	c := testClient(t, "https://acme.atlan.com")
	var v string
	err := c.Cached(context.Background(), "k", false, &v, func() error {
		return errors.New(errors.ErrCodeNotFound, "nope")
	})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Cached() error = %v", err)
	}
}

func TestRetryAfter(t *testing.T) {
	if got := retryAfter(""); got != 0 {
		t.Errorf("retryAfter(\"\") = %v", got)
	}
	if got := retryAfter("3"); got != 3*time.Second {
		t.Errorf("retryAfter(\"3\") = %v", got)
	}
	if got := retryAfter("soon"); got != 0 {
		t.Errorf("retryAfter(\"soon\") = %v", got)
	}
	future := time.Now().Add(time.Minute).UTC().Format(http.TimeFormat)
	if got := retryAfter(future); got <= 0 || got > time.Minute {
		t.Errorf("retryAfter(date) = %v", got)
	}
}

func TestEndpointString(t *testing.T) {
	if got := IndexSearch.String(); got != "POST /api/meta/search/indexsearch" {
		t.Errorf("String() = %q", got)
	}
}
