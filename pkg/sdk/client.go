package facetdex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kailas-cloud/facetdex/internal/domain"
	chiTransport "github.com/kailas-cloud/facetdex/internal/transport/chi"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// Client is the facetdex SDK entry point. It implements the catalog and
// search services consumed by View and Resolver.
type Client struct {
	base *url.URL
	http *http.Client
	cfg  *clientConfig
	obs  *observer
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	if baseURL == "" {
		return nil, errors.New("facetdex: server address required")
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("facetdex: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("facetdex: unsupported scheme %q", base.Scheme)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{}
	} else {
		cp := *hc
		hc = &cp
	}
	if hc.Timeout == 0 {
		hc.Timeout = cfg.timeout
	}
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	hc.Transport = otelhttp.NewTransport(next)

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	return &Client{base: base, http: hc, cfg: cfg, obs: obs}, nil
}

// ListProjects fetches the whole catalog in the given order.
func (c *Client) ListProjects(ctx context.Context, sort SortKey) (resp ListResponse, err error) {
	ctx, done := c.obs.start(ctx, "list_projects", attribute.String("sort", string(sort)))
	defer func() { done(err) }()

	q := url.Values{}
	if sort != "" {
		q.Set("sort", string(sort))
	}
	if err = c.do(ctx, http.MethodGet, "/projects", q, nil, &resp); err != nil {
		return ListResponse{}, err
	}
	if resp.Success && resp.Projects == nil {
		err = fmt.Errorf("%w: /projects: success without projects", ErrInvalidResponse)
		return ListResponse{}, err
	}
	return resp, nil
}

// SearchAllFields returns the projects with any field containing query.
func (c *Client) SearchAllFields(ctx context.Context, query string) (_ []Project, err error) {
	ctx, done := c.obs.start(ctx, "search")
	defer func() { done(err) }()

	var resp chiTransport.SearchResponse
	if err = c.do(ctx, http.MethodGet, "/search", url.Values{"q": {query}}, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Import stores projects on the server. Projects without an id are
// assigned one; the stored records are returned.
func (c *Client) Import(ctx context.Context, projects []Project) (_ []Project, err error) {
	ctx, done := c.obs.start(ctx, "import", attribute.Int("projects", len(projects)))
	defer func() { done(err) }()

	var resp chiTransport.ImportResponse
	body := chiTransport.ImportRequest{Projects: projects}
	if err = c.do(ctx, http.MethodPut, "/projects", nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

// do sends one request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	u := *c.base
	u.Path += path
	u.RawQuery = q.Encode()

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode/100 != 2 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", domain.ErrInvalidResponse, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Code: string(chiTransport.ErrorCodeInternalError)}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body chiTransport.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Code != "" {
		apiErr.Code = string(body.Code)
		apiErr.Message = body.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
