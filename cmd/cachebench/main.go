// cachebench 对比推荐列表在无缓存与 Redis 视图缓存下的读延迟，
// 读请求中穿插关注操作以触发缓存失效
package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/gin-social/config"
	"github.com/d60-Lab/gin-social/internal/cache"
	"github.com/d60-Lab/gin-social/internal/identity"
	"github.com/d60-Lab/gin-social/internal/model"
	"github.com/d60-Lab/gin-social/internal/repository"
	"github.com/d60-Lab/gin-social/internal/service"
	"github.com/d60-Lab/gin-social/pkg/database"
)

const (
	userCount   = 20000
	readers     = 50
	requests    = 9000
	followRatio = 0.05
)

type result struct {
	name      string
	durations []time.Duration
	total     time.Duration
}

func main() {
	ctx := context.Background()
	// 压测不校验令牌，未配置时填临时密钥以通过配置校验
	if os.Getenv("APP_IDENTITY_SECRET") == "" {
		_ = os.Setenv("APP_IDENTITY_SECRET", uuid.New().String())
	}
	cfg := must(config.Load())
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	db := must(database.InitDB(cfg))
	mustDo(database.AutoMigrate(db, model.All()...))

	fmt.Println("Setting up test data...")
	run := uuid.NewString()[:8]
	all := make([]model.User, userCount)
	for i := range all {
		id := uuid.NewString()
		all[i] = model.User{ID: id, ExternalID: "cb_" + id, Username: fmt.Sprintf("cb_%s_%d", run, i), Email: id[:8] + "@example.com"}
	}
	mustDo(db.CreateInBatches(&all, 1000).Error)
	sessions := make([]*identity.Session, readers)
	for i := range sessions {
		sessions[i] = &identity.Session{Subject: all[i].ExternalID}
	}

	rdb := must(cache.NewRedisClient(ctx, cfg.Redis))
	defer rdb.Close()

	userRepo := repository.NewUserRepository(db)
	users := service.NewUserService(userRepo)
	newStack := func(views cache.ViewCache) (service.SuggestionService, service.RelationshipService) {
		rel := service.NewRelationshipService(users, userRepo, repository.NewFollowRepository(db),
			repository.NewNotificationRepository(db), repository.NewTransactor(db), views, nil)
		return service.NewSuggestionService(users, userRepo, views, cfg.Suggestions), rel
	}

	noCacheSugg, noCacheRel := newStack(cache.NewNoopViewCache())
	noCache := run1(ctx, "no cache", sessions, all, noCacheSugg, noCacheRel)
	mustDo(rdb.FlushDB(ctx).Err())
	cachedSugg, cachedRel := newStack(cache.NewRedisViewCache(rdb, cfg.Suggestions.CacheTTL))
	cached := run1(ctx, "redis view cache", sessions, all, cachedSugg, cachedRel)

	for _, r := range []result{noCache, cached} {
		fmt.Printf("%-18s total=%v p50=%v p95=%v p99=%v\n",
			r.name, r.total, pct(r.durations, 0.50), pct(r.durations, 0.95), pct(r.durations, 0.99))
	}
}

func run1(ctx context.Context, name string, sessions []*identity.Session, all []model.User,
	sugg service.SuggestionService, rel service.RelationshipService) result {
	rng := rand.New(rand.NewSource(42))
	durs := make([]time.Duration, 0, requests)
	start := time.Now()
	for i := 0; i < requests; i++ {
		idx := rng.Intn(len(sessions))
		if rng.Float64() < followRatio {
			target := all[readers+rng.Intn(len(all)-readers)].ID
			_, _ = rel.Follow(ctx, all[idx].ID, target)
			continue
		}
		st := time.Now()
		if _, err := sugg.RandomUsers(ctx, sessions[idx]); err != nil {
			panic(err)
		}
		durs = append(durs, time.Since(st))
	}
	return result{name: name, durations: durs, total: time.Since(start)}
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	return xs[k]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}
