package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-social/config"
	"github.com/d60-Lab/gin-social/internal/broker"
	"github.com/d60-Lab/gin-social/internal/cache"
	"github.com/d60-Lab/gin-social/internal/identity"
	"github.com/d60-Lab/gin-social/internal/model"
	"github.com/d60-Lab/gin-social/internal/realtime"
	"github.com/d60-Lab/gin-social/internal/repository"
	"github.com/d60-Lab/gin-social/internal/testutil"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[string][]realtime.Message
}

func (n *recordingNotifier) SendToUser(userID string, msg realtime.Message) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sent == nil {
		n.sent = map[string][]realtime.Message{}
	}
	n.sent[userID] = append(n.sent[userID], msg)
	return 1
}

func (n *recordingNotifier) count(userID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent[userID])
}

type fixture struct {
	db          *gorm.DB
	mr          *miniredis.Miniredis
	views       cache.ViewCache
	writer      *broker.MockWriter
	notifier    *recordingNotifier
	dispatcher  *EventDispatcher
	stop        func(context.Context) error
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	notifRepo   repository.NotificationRepository
	users       UserService
	relations   RelationshipService
	suggestions SuggestionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{db: testutil.NewDB(t)}

	f.mr = miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: f.mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	f.views = cache.NewRedisViewCache(rdb, time.Minute)

	f.writer = &broker.MockWriter{}
	f.notifier = &recordingNotifier{}
	f.dispatcher = NewEventDispatcher(broker.NewPublisherWithWriter(f.writer), f.notifier, 100)
	f.stop = f.dispatcher.Start(2)
	t.Cleanup(func() { _ = f.stop(context.Background()) })

	f.userRepo = repository.NewUserRepository(f.db)
	f.followRepo = repository.NewFollowRepository(f.db)
	f.notifRepo = repository.NewNotificationRepository(f.db)
	f.users = NewUserService(f.userRepo)
	f.relations = NewRelationshipService(f.users, f.userRepo, f.followRepo, f.notifRepo,
		repository.NewTransactor(f.db), f.views, f.dispatcher)
	f.suggestions = NewSuggestionService(f.users, f.userRepo, f.views,
		config.SuggestionsConfig{Limit: 3, Randomize: false})
	return f
}

// signIn 同步一个会话并返回它和本地用户
func (f *fixture) signIn(t *testing.T, handle string) (*identity.Session, *model.User) {
	t.Helper()
	sess := &identity.Session{Subject: "sub_" + handle, Username: handle, Emails: []string{handle + "@example.com"}}
	u, err := f.users.SyncUser(context.Background(), sess)
	require.NoError(t, err)
	require.NotNil(t, u)
	return sess, u
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}
