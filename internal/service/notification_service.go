package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/gin-social/internal/identity"
	"github.com/d60-Lab/gin-social/internal/model"
	"github.com/d60-Lab/gin-social/internal/repository"
)

type NotificationService interface {
	List(ctx context.Context, sess *identity.Session, page, pageSize int) ([]model.NotificationView, error)
	UnreadCount(ctx context.Context, sess *identity.Session) (int64, error)
}

type notificationService struct {
	users UserService
	repo  repository.NotificationRepository
}

func NewNotificationService(users UserService, repo repository.NotificationRepository) NotificationService {
	return &notificationService{users: users, repo: repo}
}

func (s *notificationService) List(ctx context.Context, sess *identity.Session, page, pageSize int) ([]model.NotificationView, error) {
	userID, err := s.caller(ctx, sess)
	if err != nil {
		return nil, err
	}
	offset, limit := pageWindow(page, pageSize)
	items, err := s.repo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, sess *identity.Session) (int64, error) {
	userID, err := s.caller(ctx, sess)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

func (s *notificationService) caller(ctx context.Context, sess *identity.Session) (string, error) {
	userID, err := s.users.ResolveUserID(ctx, sess)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", ErrUnauthenticated
	}
	return userID, nil
}
