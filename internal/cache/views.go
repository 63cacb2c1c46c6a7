// Package cache 缓存首页视图（推荐用户等），关系变更后按用户失效
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/gin-social/internal/model"
)

// ViewCache 按用户缓存的读视图。Get 未命中返回 ok=false
type ViewCache interface {
	GetSuggestions(ctx context.Context, userID string) (items []model.UserSummary, ok bool, err error)
	SetSuggestions(ctx context.Context, userID string, items []model.UserSummary) error
	// InvalidateUser 清除该用户的所有缓存视图
	InvalidateUser(ctx context.Context, userID string) error
}

func suggestionsKey(userID string) string { return fmt.Sprintf("suggestions:%s", userID) }

type redisViewCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisViewCache(rdb *redis.Client, ttl time.Duration) ViewCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisViewCache{rdb: rdb, ttl: ttl}
}

func (c *redisViewCache) GetSuggestions(ctx context.Context, userID string) ([]model.UserSummary, bool, error) {
	data, err := c.rdb.Get(ctx, suggestionsKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []model.UserSummary
	if err := json.Unmarshal(data, &out); err != nil {
		// 脏数据当作未命中
		return nil, false, nil
	}
	return out, true, nil
}

func (c *redisViewCache) SetSuggestions(ctx context.Context, userID string, items []model.UserSummary) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, suggestionsKey(userID), payload, c.ttl).Err()
}

func (c *redisViewCache) InvalidateUser(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, suggestionsKey(userID)).Err()
}

type noopViewCache struct{}

// NewNoopViewCache Redis 未启用时使用
func NewNoopViewCache() ViewCache { return noopViewCache{} }

func (noopViewCache) GetSuggestions(context.Context, string) ([]model.UserSummary, bool, error) {
	return nil, false, nil
}
func (noopViewCache) SetSuggestions(context.Context, string, []model.UserSummary) error { return nil }
func (noopViewCache) InvalidateUser(context.Context, string) error                     { return nil }
