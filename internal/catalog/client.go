package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/livan116/shopcart-backend/pkg/config"
	pkgerrors "github.com/livan116/shopcart-backend/pkg/errors"
)

const (
	defaultBaseURL                  = "https://dummyjson.com"
	errorBodyReadLimit        int64 = 1024
	productsBodyReadLimit     int64 = 4 << 20
	defaultUpstreamTimeout          = 10 * time.Second
)

// UpstreamClient fetches product documents from the external catalog API.
type UpstreamClient struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*UpstreamClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *UpstreamClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewUpstreamClient builds the catalog client from configuration.
func NewUpstreamClient(cfg config.CatalogConfig, opts ...Option) *UpstreamClient {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = defaultUpstreamTimeout
	}

	client := &UpstreamClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// FetchProducts retrieves the full product listing document.
func (c *UpstreamClient) FetchProducts(ctx context.Context) (json.RawMessage, error) {
	return c.fetch(ctx, "products")
}

// FetchProduct retrieves a single product document by upstream ID.
func (c *UpstreamClient) FetchProduct(ctx context.Context, id string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return c.fetch(ctx, "products/"+url.PathEscape(trimmed))
}

func (c *UpstreamClient) fetch(ctx context.Context, path string) (json.RawMessage, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog client not configured")
	}

	endpoint := fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute catalog request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "catalog request failed")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, productsBodyReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read catalog response")
	}
	if !json.Valid(body) {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog returned invalid JSON")
	}
	return json.RawMessage(body), nil
}
