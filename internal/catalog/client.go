// Package catalog is a thin client for the PokeAPI species catalog.
//
// It does no caching; callers key and cache results themselves (see
// internal/query). Non-2xx responses surface as *TransportError and are
// never retried.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/pokedex/internal/otel"
)

// DefaultBaseURL is the public PokeAPI v2 endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// maxBodyBytes bounds a single response body; /pokemon?limit=10000 is ~100KB.
const maxBodyBytes = 8 << 20

// TransportError reports a remote call that did not succeed.
type TransportError struct {
	Status int    // HTTP status
	Path   string // request path, e.g. "/type/fire"
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Status
	}
	return 0
}

// Client reads the remote catalog.
type Client struct {
	baseURL   string
	client    *http.Client
	timeout   time.Duration
	limiter   *rate.Limiter
	userAgent string
	log       *otel.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sends requests through hc. hc itself is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout bounds each request. It applies to a copy of the HTTP client,
// whichever option order is used.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRateLimit caps outgoing requests per second. Zero disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger attaches the event log.
func WithLogger(l *otel.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a Client for baseURL. An empty baseURL means DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 30 * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(5), 1),
		userAgent: "pokedex-tui/1.0 (+https://github.com/abelbrown/pokedex)",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 && c.timeout != c.client.Timeout {
		hc := *c.client
		hc.Timeout = c.timeout
		c.client = &hc
	}
	return c
}

// GetPage returns limit species starting at offset.
func (c *Client) GetPage(ctx context.Context, offset, limit int) (*PageResponse, error) {
	params := url.Values{}
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))

	var out PageResponse
	if err := c.getJSON(ctx, "/pokemon", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAll returns every species in one response; used for name search.
func (c *Client) GetAll(ctx context.Context) (*PageResponse, error) {
	return c.GetPage(ctx, 0, allLimit)
}

// GetCategories returns the list of types.
func (c *Client) GetCategories(ctx context.Context) (*CategoryList, error) {
	var out CategoryList
	if err := c.getJSON(ctx, "/type", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTypeMembers returns the species belonging to a type.
func (c *Client) GetTypeMembers(ctx context.Context, category string) (*TypeMembers, error) {
	if category == "" {
		return nil, errors.New("catalog: empty category")
	}
	var out TypeMembers
	if err := c.getJSON(ctx, "/type/"+url.PathEscape(category), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDetail returns the full record for an id or name.
func (c *Client) GetDetail(ctx context.Context, idOrName string) (*Detail, error) {
	if idOrName == "" {
		return nil, errors.New("catalog: empty id")
	}
	var out Detail
	if err := c.getJSON(ctx, "/pokemon/"+url.PathEscape(strings.ToLower(idOrName)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// getJSON performs a rate-limited GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	c.log.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindCatalogRequest, Comp: "catalog", Query: path})

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindCatalogError, Comp: "catalog", Query: path, Err: err.Error(), Dur: time.Since(start)})
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		terr := &TransportError{Status: resp.StatusCode, Path: path}
		c.log.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindCatalogError, Comp: "catalog", Query: path, Status: resp.StatusCode, Err: terr.Error(), Dur: time.Since(start)})
		return terr
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		c.log.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindCatalogError, Comp: "catalog", Query: path, Status: resp.StatusCode, Err: err.Error()})
		return fmt.Errorf("decode %s: %w", path, err)
	}

	c.log.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindCatalogResponse, Comp: "catalog", Query: path, Status: resp.StatusCode, Dur: time.Since(start)})
	return nil
}
