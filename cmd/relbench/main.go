// relbench 压测关注写入（关注边 + 通知同事务）与推荐查询
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
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

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
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
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func main() {
	// 压测不校验令牌，未配置时填临时密钥以通过配置校验
	if os.Getenv("APP_IDENTITY_SECRET") == "" {
		_ = os.Setenv("APP_IDENTITY_SECRET", uuid.New().String())
	}
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	if err := database.AutoMigrate(db, model.All()...); err != nil {
		panic(err)
	}

	N := envInt("N", 10000)
	CONC := envInt("CONC", 1)
	PAGE := envInt("PAGE", 50)

	userRepo := repository.NewUserRepository(db)
	users := service.NewUserService(userRepo)
	dispatcher := service.NewEventDispatcher(nil, nil, 100000)
	stop := dispatcher.Start(8)
	relSvc := service.NewRelationshipService(users, userRepo, repository.NewFollowRepository(db),
		repository.NewNotificationRepository(db), repository.NewTransactor(db), cache.NewNoopViewCache(), dispatcher)
	suggestions := service.NewSuggestionService(users, userRepo, cache.NewNoopViewCache(), cfg.Suggestions)

	ctx := context.Background()
	run := uuid.New().String()[:8]

	// u0 为大 V，其余用户都关注它
	celebSess := &identity.Session{Subject: "bench_" + run + "_celeb", Username: "celeb_" + run}
	celeb := must(users.SyncUser(ctx, celebSess))
	seeded := make([]model.User, N)
	const batch = 1000
	for i := 0; i < N; i++ {
		id := uuid.New().String()
		seeded[i] = model.User{ID: id, ExternalID: "bench_" + id, Username: "u" + id[:12], Email: id[:8] + "@example.com"}
	}
	for i := 0; i < N; i += batch {
		end := i + batch
		if end > N {
			end = N
		}
		sub := seeded[i:end]
		if err := db.Create(&sub).Error; err != nil {
			panic(err)
		}
	}

	landing := make([]time.Duration, 0, N)
	doneLanding := make(chan struct{})
	go func() {
		defer close(doneLanding)
		for {
			select {
			case d := <-dispatcher.Metrics():
				landing = append(landing, d)
				if len(landing) == N {
					return
				}
			case <-time.After(5 * time.Second):
				return
			}
		}
	}()

	maxQ := 0
	quitSample := make(chan struct{})
	doneSample := make(chan struct{})
	go func() {
		defer close(doneSample)
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if q := dispatcher.QueueLen(); q > maxQ {
					maxQ = q
				}
			case <-quitSample:
				return
			}
		}
	}()

	workers := CONC
	if workers > N {
		workers = N
	}
	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)

	var mu sync.Mutex
	latencies := make([]time.Duration, 0, N)
	failures := 0
	var wg sync.WaitGroup
	t0 := time.Now()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				st := time.Now()
				_, err := relSvc.Follow(ctx, seeded[i].ID, celeb.ID)
				d := time.Since(st)
				mu.Lock()
				latencies = append(latencies, d)
				if err != nil {
					failures++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	followDur := time.Since(t0)
	close(quitSample)
	<-doneSample

	// 重复关注走唯一键冲突路径
	t1 := time.Now()
	for i := 0; i < N; i++ {
		_, _ = relSvc.Follow(ctx, seeded[i].ID, celeb.ID)
	}
	dupDur := time.Since(t1)

	q0 := time.Now()
	_, _ = relSvc.ListFollowers(ctx, celeb.ID, 1, PAGE)
	followersDur := time.Since(q0)

	viewer := &identity.Session{Subject: seeded[0].ExternalID}
	suggRecs := make([]time.Duration, 0, 100)
	for i := 0; i < 100; i++ {
		st := time.Now()
		_, _ = suggestions.RandomUsers(ctx, viewer)
		suggRecs = append(suggRecs, time.Since(st))
	}

	drainStart := time.Now()
	_ = stop(ctx)
	drainDur := time.Since(drainStart)
	<-doneLanding

	fmt.Printf("N=%d, CONC=%d, PAGE=%d\n", N, CONC, PAGE)
	fmt.Printf("Follow (edge+notification tx) total: %v, per op: %v, p50: %v, p95: %v, p99: %v, failures: %d\n",
		followDur, followDur/time.Duration(N), pct(latencies, 0.50), pct(latencies, 0.95), pct(latencies, 0.99), failures)
	fmt.Printf("Duplicate follow total: %v, per op: %v\n", dupDur, dupDur/time.Duration(N))
	fmt.Printf("Query followers(%d) latency: %v\n", PAGE, followersDur)
	fmt.Printf("Suggestions p50: %v, p95: %v\n", pct(suggRecs, 0.50), pct(suggRecs, 0.95))
	if len(landing) > 0 {
		fmt.Printf("Event dispatch: samples=%d, p50=%v, p95=%v, p99=%v, maxQueue=%d, drain=%v\n",
			len(landing), pct(landing, 0.50), pct(landing, 0.95), pct(landing, 0.99), maxQ, drainDur)
	}
}
