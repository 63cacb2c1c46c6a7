package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/gin-social/internal/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	// ListByUser 按时间倒序返回接收者的通知，附带触发者信息
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.NotificationView, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return conn(ctx, r.db).Create(n).Error
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.NotificationView, error) {
	db := conn(ctx, r.db)
	var items []model.Notification
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []model.NotificationView{}, nil
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, n := range items {
		if _, ok := seen[n.CreatorID]; ok {
			continue
		}
		seen[n.CreatorID] = struct{}{}
		ids = append(ids, n.CreatorID)
	}
	var creators []model.User
	if err := db.Where("id IN ?", ids).Find(&creators).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]model.User, len(creators))
	for _, u := range creators {
		byID[u.ID] = u
	}

	views := make([]model.NotificationView, len(items))
	for i, n := range items {
		views[i] = model.NotificationView{Notification: n}
		if u, ok := byID[n.CreatorID]; ok {
			views[i].Creator = model.UserSummary{ID: u.ID, Name: u.Name, Username: u.Username, Image: u.Image}
		}
	}
	return views, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&model.Notification{}).
		Where("user_id = ?", userID).
		Where(map[string]interface{}{"read": false}).
		Count(&cnt).Error
	return cnt, err
}
