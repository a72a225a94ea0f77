package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/livan116/shopcart-backend/pkg/config"
	"github.com/livan116/shopcart-backend/pkg/logger"
)

type fetcher interface {
	FetchProducts(ctx context.Context) (json.RawMessage, error)
	FetchProduct(ctx context.Context, id string) (json.RawMessage, error)
}

type cacheStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

type cacheKeyer interface {
	CatalogCacheKey(parts ...string) string
}

// Service exposes the cached product catalog proxy.
type Service interface {
	ListProducts(ctx context.Context) (json.RawMessage, error)
	GetProduct(ctx context.Context, id string) (json.RawMessage, error)
}

type service struct {
	upstream fetcher
	cache    cacheStore
	keyer    cacheKeyer
	ttl      time.Duration
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies required to build a catalog service.
type ServiceParams struct {
	Upstream fetcher
	Cache    cacheStore
	Keyer    cacheKeyer
	Config   config.CatalogConfig
	Logger   *logger.Logger
}

// NewService constructs a catalog service. Cache is optional; without it
// every call goes to the upstream API.
func NewService(params ServiceParams) (Service, error) {
	if params.Upstream == nil {
		return nil, fmt.Errorf("catalog upstream client is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if (params.Cache == nil) != (params.Keyer == nil) {
		return nil, fmt.Errorf("cache store and keyer must be provided together")
	}
	return &service{
		upstream: params.Upstream,
		cache:    params.Cache,
		keyer:    params.Keyer,
		ttl:      params.Config.CacheTTL,
		logg:     params.Logger,
	}, nil
}

// ListProducts returns the full product listing, served from cache when fresh.
func (s *service) ListProducts(ctx context.Context) (json.RawMessage, error) {
	return s.cached(ctx, []string{"list"}, s.upstream.FetchProducts)
}

// GetProduct returns a single product document, served from cache when fresh.
func (s *service) GetProduct(ctx context.Context, id string) (json.RawMessage, error) {
	return s.cached(ctx, []string{"product", id}, func(ctx context.Context) (json.RawMessage, error) {
		return s.upstream.FetchProduct(ctx, id)
	})
}

// cached reads through the cache. Cache failures degrade to an upstream
// fetch rather than failing the request.
func (s *service) cached(ctx context.Context, keyParts []string, fetch func(ctx context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	var key string
	if s.cache != nil {
		key = s.keyer.CatalogCacheKey(keyParts...)
		if hit, err := s.cache.Get(ctx, key); err == nil && hit != "" {
			return json.RawMessage(hit), nil
		}
	}

	body, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, key, string(body), s.ttl); err != nil {
			s.logg.Warn(ctx, "failed to cache catalog response: "+err.Error())
		}
	}
	return body, nil
}
