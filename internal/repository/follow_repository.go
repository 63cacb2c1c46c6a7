package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/gin-social/internal/model"
)

type FollowRepository interface {
	// Create 插入关注边；边已存在时返回 created=false 且不报错
	Create(ctx context.Context, followerID, followeeID string) (created bool, err error)
	// Delete 删除关注边；不存在时 removed=false
	Delete(ctx context.Context, followerID, followeeID string) (removed bool, err error)
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFollowings(ctx context.Context, followerID string, offset, limit int) ([]*model.Follow, error)
	ListFollowers(ctx context.Context, followeeID string, offset, limit int) ([]*model.Follow, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowings(ctx context.Context, userID string) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followeeID string) (bool, error) {
	f := &model.Follow{ID: uuid.New().String(), FollowerID: followerID, FolloweeID: followeeID}
	// 唯一键冲突时不报错，通过 RowsAffected 区分是否真正插入
	res := conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID string) (bool, error) {
	res := conn(ctx, r.db).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	var cnt int64
	if err := conn(ctx, r.db).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) ListFollowings(ctx context.Context, followerID string, offset, limit int) ([]*model.Follow, error) {
	var res []*model.Follow
	err := conn(ctx, r.db).
		Where("follower_id = ?", followerID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *followRepository) ListFollowers(ctx context.Context, followeeID string, offset, limit int) ([]*model.Follow, error) {
	var res []*model.Follow
	err := conn(ctx, r.db).
		Where("followee_id = ?", followeeID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&model.Follow{}).Where("followee_id = ?", userID).Count(&cnt).Error
	return cnt, err
}

func (r *followRepository) CountFollowings(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&cnt).Error
	return cnt, err
}
