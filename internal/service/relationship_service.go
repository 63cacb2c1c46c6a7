package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-social/internal/cache"
	"github.com/d60-Lab/gin-social/internal/identity"
	"github.com/d60-Lab/gin-social/internal/model"
	"github.com/d60-Lab/gin-social/internal/repository"
	"github.com/d60-Lab/gin-social/pkg/logger"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ToggleResult 变更后的关注状态；NotificationID 仅在本次新建关注时非空
type ToggleResult struct {
	Following      bool   `json:"following"`
	NotificationID string `json:"notification_id,omitempty"`
}

// RelationshipService 关系链服务
type RelationshipService interface {
	// ToggleFollow 已关注则取消，否则关注并在同一事务内写 FOLLOW 通知
	ToggleFollow(ctx context.Context, sess *identity.Session, targetID string) (*ToggleResult, error)
	// Follow 确保 follower 关注了 followee，重复调用不报错
	Follow(ctx context.Context, followerID, followeeID string) (*ToggleResult, error)
	// Unfollow 确保关注不存在，返回是否真的删除了
	Unfollow(ctx context.Context, followerID, followeeID string) (bool, error)
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, error)
	ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]string, error)
}

type relationshipService struct {
	users         UserService
	userRepo      repository.UserRepository
	followRepo    repository.FollowRepository
	notifications repository.NotificationRepository
	tx            repository.Transactor
	views         cache.ViewCache
	dispatcher    *EventDispatcher
}

// NewRelationshipService dispatcher 可为 nil
func NewRelationshipService(
	users UserService,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	notifications repository.NotificationRepository,
	tx repository.Transactor,
	views cache.ViewCache,
	dispatcher *EventDispatcher,
) RelationshipService {
	if views == nil {
		views = cache.NewNoopViewCache()
	}
	return &relationshipService{
		users:         users,
		userRepo:      userRepo,
		followRepo:    followRepo,
		notifications: notifications,
		tx:            tx,
		views:         views,
		dispatcher:    dispatcher,
	}
}

func (s *relationshipService) ToggleFollow(ctx context.Context, sess *identity.Session, targetID string) (*ToggleResult, error) {
	callerID, err := s.users.ResolveUserID(ctx, sess)
	if err != nil {
		logger.Error("toggle follow: resolve caller failed", zap.Error(err))
		return nil, err
	}
	if callerID == "" {
		return nil, ErrUnauthenticated
	}
	if callerID == targetID {
		return nil, ErrFollowSelf
	}

	following, err := s.followRepo.Exists(ctx, callerID, targetID)
	if err != nil {
		logger.Error("toggle follow: check edge failed",
			zap.String("follower", callerID), zap.String("followee", targetID), zap.Error(err))
		return nil, fmt.Errorf("toggle follow: %w", err)
	}
	if following {
		if _, err := s.Unfollow(ctx, callerID, targetID); err != nil {
			return nil, err
		}
		return &ToggleResult{Following: false}, nil
	}
	return s.Follow(ctx, callerID, targetID)
}

func (s *relationshipService) Follow(ctx context.Context, followerID, followeeID string) (*ToggleResult, error) {
	if followerID == followeeID {
		return nil, ErrFollowSelf
	}
	ok, err := s.userRepo.Exists(ctx, followeeID)
	if err != nil {
		logger.Error("follow: check target failed", zap.String("followee", followeeID), zap.Error(err))
		return nil, fmt.Errorf("follow: %w", err)
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	var notificationID string
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := s.followRepo.Create(ctx, followerID, followeeID)
		if err != nil {
			return err
		}
		if !created {
			return errAlreadyFollowing
		}
		n := &model.Notification{
			ID:        uuid.New().String(),
			Type:      model.NotificationFollow,
			UserID:    followeeID,
			CreatorID: followerID,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			return err
		}
		notificationID = n.ID
		return nil
	})
	if errors.Is(err, errAlreadyFollowing) {
		return &ToggleResult{Following: true}, nil
	}
	if err != nil {
		logger.Error("follow: transaction failed",
			zap.String("follower", followerID), zap.String("followee", followeeID), zap.Error(err))
		return nil, fmt.Errorf("follow: %w", err)
	}

	s.afterMutation(ctx, FollowEvent{
		Type:           EventFollowCreated,
		ActorID:        followerID,
		TargetID:       followeeID,
		NotificationID: notificationID,
	})
	return &ToggleResult{Following: true, NotificationID: notificationID}, nil
}

func (s *relationshipService) Unfollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	removed, err := s.followRepo.Delete(ctx, followerID, followeeID)
	if err != nil {
		logger.Error("unfollow failed",
			zap.String("follower", followerID), zap.String("followee", followeeID), zap.Error(err))
		return false, fmt.Errorf("unfollow: %w", err)
	}
	if removed {
		s.afterMutation(ctx, FollowEvent{Type: EventFollowRemoved, ActorID: followerID, TargetID: followeeID})
	}
	return removed, nil
}

// afterMutation 失效缓存并异步投递事件，失败只记日志
func (s *relationshipService) afterMutation(ctx context.Context, ev FollowEvent) {
	if err := s.views.InvalidateUser(ctx, ev.ActorID); err != nil {
		logger.Warn("invalidate view cache failed", zap.String("user_id", ev.ActorID), zap.Error(err))
	}
	if s.dispatcher != nil {
		ev.At = time.Now()
		s.dispatcher.Enqueue(ev)
	}
}

func (s *relationshipService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followeeID)
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, error) {
	offset, limit := pageWindow(page, pageSize)
	items, err := s.followRepo.ListFollowings(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	res := make([]string, len(items))
	for i, it := range items {
		res[i] = it.FolloweeID
	}
	return res, nil
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]string, error) {
	offset, limit := pageWindow(page, pageSize)
	items, err := s.followRepo.ListFollowers(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	res := make([]string, len(items))
	for i, it := range items {
		res[i] = it.FollowerID
	}
	return res, nil
}

// pageWindow page 从 1 开始
func pageWindow(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return (page - 1) * pageSize, pageSize
}
