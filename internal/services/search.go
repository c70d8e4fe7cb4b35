package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"niuniq/internal/entities"
	"niuniq/internal/repositories"
	apperrors "niuniq/pkg/errors"
	"niuniq/pkg/metrics"
)

const searchCacheKey = "search:product:%s"

// SearchCacheInvalidator drops cached search results for products that
// changed or disappeared.
type SearchCacheInvalidator interface {
	Invalidate(ctx context.Context, productIDs ...string)
}

type SearchServiceInterface interface {
	SearchCacheInvalidator
	SearchByProductID(ctx context.Context, productID string) (*entities.Product, error)
}

type SearchService struct {
	productRepo repositories.ProductRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	ttl         time.Duration
	logger      *zap.Logger
}

func NewSearchService(
	productRepo repositories.ProductRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	ttl time.Duration,
	logger *zap.Logger,
) SearchServiceInterface {
	return &SearchService{productRepo: productRepo, cacheRepo: cacheRepo, ttl: ttl, logger: logger}
}

func notRegistered() error {
	return apperrors.NewNotFoundError("Product not registered")
}

// SearchByProductID resolves the short public id printed under a QR code.
// Results are cached for ttl; cache failures fall through to the database.
func (s *SearchService) SearchByProductID(ctx context.Context, productID string) (*entities.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, notRegistered()
	}
	key := fmt.Sprintf(searchCacheKey, productID)

	if cached, err := s.cacheRepo.Get(ctx, key); err == nil {
		var product entities.Product
		if err := json.Unmarshal([]byte(cached), &product); err == nil {
			metrics.SearchCache.WithLabelValues("hit").Inc()
			return &product, nil
		}
		s.logger.Warn("discarding unreadable search cache entry", zap.String("key", key))
	} else if !errors.Is(err, repositories.ErrCacheMiss) {
		s.logger.Warn("search cache lookup failed", zap.Error(err))
	}
	metrics.SearchCache.WithLabelValues("miss").Inc()

	product, err := s.productRepo.FindByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, notRegistered()
		}
		return nil, err
	}

	if s.ttl > 0 {
		if payload, err := json.Marshal(product); err == nil {
			if err := s.cacheRepo.Set(ctx, key, payload, s.ttl); err != nil {
				s.logger.Warn("search cache write failed", zap.Error(err))
			}
		}
	}
	return product, nil
}

func (s *SearchService) Invalidate(ctx context.Context, productIDs ...string) {
	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		if id != "" {
			keys = append(keys, fmt.Sprintf(searchCacheKey, id))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := s.cacheRepo.Del(ctx, keys...); err != nil {
		s.logger.Warn("search cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
