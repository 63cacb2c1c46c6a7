package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/d60-Lab/gin-social/config"
	"github.com/d60-Lab/gin-social/internal/cache"
	"github.com/d60-Lab/gin-social/internal/identity"
	"github.com/d60-Lab/gin-social/internal/model"
	"github.com/d60-Lab/gin-social/internal/repository"
	"github.com/d60-Lab/gin-social/pkg/logger"
)

// SuggestionService 首页“可能认识的人”
type SuggestionService interface {
	// RandomUsers 未登录时返回空列表
	RandomUsers(ctx context.Context, sess *identity.Session) ([]model.UserSummary, error)
}

type suggestionService struct {
	users     UserService
	repo      repository.UserRepository
	views     cache.ViewCache
	limit     int
	randomize bool
}

func NewSuggestionService(users UserService, repo repository.UserRepository, views cache.ViewCache, cfg config.SuggestionsConfig) SuggestionService {
	if views == nil {
		views = cache.NewNoopViewCache()
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = 3
	}
	return &suggestionService{users: users, repo: repo, views: views, limit: limit, randomize: cfg.Randomize}
}

func (s *suggestionService) RandomUsers(ctx context.Context, sess *identity.Session) ([]model.UserSummary, error) {
	userID, err := s.users.ResolveUserID(ctx, sess)
	if err != nil {
		logger.Error("suggestions: resolve caller failed", zap.Error(err))
		return nil, err
	}
	if userID == "" {
		return []model.UserSummary{}, nil
	}

	if items, ok, err := s.views.GetSuggestions(ctx, userID); err != nil {
		logger.Warn("suggestions: cache read failed", zap.String("user_id", userID), zap.Error(err))
	} else if ok {
		return items, nil
	}

	items, err := s.repo.Suggestions(ctx, userID, s.limit, s.randomize)
	if err != nil {
		logger.Error("suggestions: query failed", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("suggestions: %w", err)
	}
	if err := s.views.SetSuggestions(ctx, userID, items); err != nil {
		logger.Warn("suggestions: cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
	return items, nil
}
