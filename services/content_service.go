package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/business-partner/leads-backend/errors"
	"github.com/business-partner/leads-backend/logger"
	"github.com/business-partner/leads-backend/pkg/sanity"
)

// Cache keys of the content proxy. Revalidation deletes by this prefix.
const (
	contentKeyPrefix      = "content:"
	equipmentListCacheKey = contentKeyPrefix + "equipment:list"
	equipmentItemCacheKey = contentKeyPrefix + "equipment:item:%s"
	newsListCacheKey      = contentKeyPrefix + "news:list"
	newsItemCacheKey      = contentKeyPrefix + "news:item:%s"
)

// ContentService serves catalog and news content through a read-through
// Redis cache. Misses fall through to the content store; entries expire on
// their TTL or when revalidation flushes the prefix.
type ContentService struct {
	store       sanity.ClientInterface
	redisClient *redis.Client
	ttl         time.Duration
}

func NewContentService(store sanity.ClientInterface, redisClient *redis.Client, ttl time.Duration) *ContentService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ContentService{
		store:       store,
		redisClient: redisClient,
		ttl:         ttl,
	}
}

// cached runs fetch on cache miss and stores the encoded result. Redis
// being down degrades to uncached reads rather than failing the request.
func (s *ContentService) cached(ctx context.Context, key string, dest interface{}, fetch func() (interface{}, error)) error {
	log := logger.GetLogger()

	if s.redisClient != nil {
		raw, err := s.redisClient.Get(ctx, key).Bytes()
		if err == nil {
			if err := json.Unmarshal(raw, dest); err == nil {
				log.Debugw("Content cache hit", "key", key)
				return nil
			}
			log.Warnw("Discarding undecodable cache entry", "key", key)
		} else if err != redis.Nil {
			log.Warnw("Content cache read failed", "key", key, "error", err)
		}
	}

	value, err := fetch()
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode content for cache: %w", err)
	}
	if err := json.Unmarshal(encoded, dest); err != nil {
		return fmt.Errorf("decode content: %w", err)
	}

	if s.redisClient != nil {
		if err := s.redisClient.Set(ctx, key, encoded, s.ttl).Err(); err != nil {
			log.Warnw("Content cache write failed", "key", key, "error", err)
		}
	}
	return nil
}

// GetEquipmentList returns the full catalog, newest projection first.
func (s *ContentService) GetEquipmentList(ctx context.Context) ([]sanity.Equipment, error) {
	var items []sanity.Equipment
	err := s.cached(ctx, equipmentListCacheKey, &items, func() (interface{}, error) {
		var fetched []sanity.Equipment
		if err := s.store.Query(ctx, sanity.EquipmentListQuery, nil, &fetched); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ServerError, "Failed to load equipment catalog")
		}
		return fetched, nil
	})
	return items, err
}

// GetEquipmentBySlug returns one catalog item or a not-found error.
func (s *ContentService) GetEquipmentBySlug(ctx context.Context, slug string) (*sanity.Equipment, error) {
	key := fmt.Sprintf(equipmentItemCacheKey, slug)

	var item *sanity.Equipment
	err := s.cached(ctx, key, &item, func() (interface{}, error) {
		var fetched *sanity.Equipment
		if err := s.store.Query(ctx, sanity.EquipmentBySlugQuery, map[string]interface{}{"slug": slug}, &fetched); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ServerError, "Failed to load equipment item")
		}
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperrors.NotFound("Equipment", slug)
	}
	return item, nil
}

// GetNewsList returns published news, newest first.
func (s *ContentService) GetNewsList(ctx context.Context) ([]sanity.NewsPost, error) {
	var items []sanity.NewsPost
	err := s.cached(ctx, newsListCacheKey, &items, func() (interface{}, error) {
		var fetched []sanity.NewsPost
		if err := s.store.Query(ctx, sanity.NewsListQuery, nil, &fetched); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ServerError, "Failed to load news")
		}
		return fetched, nil
	})
	return items, err
}

// GetNewsBySlug returns one news article or a not-found error.
func (s *ContentService) GetNewsBySlug(ctx context.Context, slug string) (*sanity.NewsPost, error) {
	key := fmt.Sprintf(newsItemCacheKey, slug)

	var item *sanity.NewsPost
	err := s.cached(ctx, key, &item, func() (interface{}, error) {
		var fetched *sanity.NewsPost
		if err := s.store.Query(ctx, sanity.NewsBySlugQuery, map[string]interface{}{"slug": slug}, &fetched); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ServerError, "Failed to load news article")
		}
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperrors.NotFound("News article", slug)
	}
	return item, nil
}

// InvalidateAll drops every cached content entry. Called by revalidation
// after the content store reports a change.
func (s *ContentService) InvalidateAll(ctx context.Context) error {
	if s.redisClient == nil {
		return nil
	}

	log := logger.GetLogger()
	var deleted int64

	iter := s.redisClient.Scan(ctx, 0, contentKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			log.Warnw("Failed to delete cached content entry", "key", iter.Val(), "error", err)
			continue
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan content cache keys: %w", err)
	}

	log.Infow("Content cache invalidated", "deleted", deleted)
	return nil
}
