package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-social/internal/identity"
	"github.com/d60-Lab/gin-social/internal/model"
	"github.com/d60-Lab/gin-social/internal/repository"
	"github.com/d60-Lab/gin-social/pkg/logger"
)

// PostService 发帖
type PostService interface {
	Create(ctx context.Context, sess *identity.Session, content, image string) (*model.Post, error)
}

type postService struct {
	users UserService
	posts repository.PostRepository
}

func NewPostService(users UserService, posts repository.PostRepository) PostService {
	return &postService{users: users, posts: posts}
}

func (s *postService) Create(ctx context.Context, sess *identity.Session, content, image string) (*model.Post, error) {
	authorID, err := s.users.ResolveUserID(ctx, sess)
	if err != nil {
		return nil, err
	}
	if authorID == "" {
		return nil, ErrUnauthenticated
	}

	content = strings.TrimSpace(content)
	if n := utf8.RuneCountInString(content); n == 0 || n > model.PostContentMaxLen {
		return nil, fmt.Errorf("%w: content must be 1-%d characters", ErrInvalidContent, model.PostContentMaxLen)
	}

	p := &model.Post{ID: uuid.New().String(), AuthorID: authorID, Content: content, Image: strings.TrimSpace(image)}
	if err := s.posts.Create(ctx, p); err != nil {
		logger.Error("create post failed", zap.String("author", authorID), zap.Error(err))
		return nil, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}
