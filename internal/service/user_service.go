package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-social/internal/identity"
	"github.com/d60-Lab/gin-social/internal/model"
	"github.com/d60-Lab/gin-social/internal/repository"
	"github.com/d60-Lab/gin-social/pkg/logger"
)

// Profile 用户资料与计数
type Profile struct {
	User   *model.User      `json:"user"`
	Counts model.UserCounts `json:"counts"`
}

// UserService 本地用户与身份提供方会话的对应关系
type UserService interface {
	// SyncUser 首次见到的会话会创建本地用户；未登录返回 (nil, nil)
	SyncUser(ctx context.Context, sess *identity.Session) (*model.User, error)
	// CurrentUser 只读查询；未登录或未同步返回 (nil, nil)
	CurrentUser(ctx context.Context, sess *identity.Session) (*model.User, error)
	// ResolveUserID 只读查询；未登录或未同步返回 ("", nil)
	ResolveUserID(ctx context.Context, sess *identity.Session) (string, error)
	GetProfile(ctx context.Context, username string) (*Profile, error)
	Me(ctx context.Context, sess *identity.Session) (*Profile, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) SyncUser(ctx context.Context, sess *identity.Session) (*model.User, error) {
	if sess == nil || sess.Subject == "" {
		return nil, nil
	}

	u, err := s.users.FindByExternalID(ctx, sess.Subject)
	if err != nil {
		logger.Error("sync user: lookup failed", zap.String("subject", sess.Subject), zap.Error(err))
		return nil, fmt.Errorf("sync user: %w", err)
	}
	if u != nil {
		return u, nil
	}

	handle := sess.Handle()
	u = &model.User{
		ID:         uuid.New().String(),
		ExternalID: sess.Subject,
		Name:       sess.DisplayName(),
		Username:   handle,
		Email:      sess.PrimaryEmail(),
		Image:      sess.ImageURL,
	}
	for attempt := 0; attempt < 2; attempt++ {
		created, err := s.users.Create(ctx, u)
		if err != nil {
			logger.Error("sync user: create failed", zap.String("subject", sess.Subject), zap.Error(err))
			return nil, fmt.Errorf("sync user: %w", err)
		}
		if created {
			logger.Info("user synced", zap.String("user_id", u.ID), zap.String("username", u.Username))
			return u, nil
		}

		// 并发的首次同步先写入了同一个 subject
		existing, err := s.users.FindByExternalID(ctx, sess.Subject)
		if err != nil {
			logger.Error("sync user: re-read failed", zap.String("subject", sess.Subject), zap.Error(err))
			return nil, fmt.Errorf("sync user: %w", err)
		}
		if existing != nil {
			return existing, nil
		}

		// 用户名被其他人占用
		suffix := uuid.New().String()[:4]
		u.ID = uuid.New().String()
		u.Username = identity.SuffixHandle(handle, suffix)
	}

	logger.Warn("sync user: username unavailable", zap.String("subject", sess.Subject), zap.String("handle", handle))
	return nil, fmt.Errorf("sync user %s: %w", handle, ErrHandleTaken)
}

func (s *userService) CurrentUser(ctx context.Context, sess *identity.Session) (*model.User, error) {
	if sess == nil || sess.Subject == "" {
		return nil, nil
	}
	u, err := s.users.FindByExternalID(ctx, sess.Subject)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return u, nil
}

func (s *userService) ResolveUserID(ctx context.Context, sess *identity.Session) (string, error) {
	u, err := s.CurrentUser(ctx, sess)
	if err != nil || u == nil {
		return "", err
	}
	return u.ID, nil
}

func (s *userService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return s.profile(ctx, u)
}

func (s *userService) Me(ctx context.Context, sess *identity.Session) (*Profile, error) {
	u, err := s.SyncUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnauthenticated
	}
	return s.profile(ctx, u)
}

func (s *userService) profile(ctx context.Context, u *model.User) (*Profile, error) {
	counts, err := s.users.Counts(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("count user %s: %w", u.ID, err)
	}
	return &Profile{User: u, Counts: counts}, nil
}
