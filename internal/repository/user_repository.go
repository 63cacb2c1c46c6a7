package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/gin-social/internal/model"
)

// UserRepository 用户存取；Find* 未命中时返回 (nil, nil)
type UserRepository interface {
	// Create 插入用户；ExternalID 或 Username 冲突时 created=false
	Create(ctx context.Context, u *model.User) (created bool, err error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	Counts(ctx context.Context, id string) (model.UserCounts, error)
	// Suggestions 返回既不是 userID 本人、也未被其关注的用户
	Suggestions(ctx context.Context, userID string, limit int, randomize bool) ([]model.UserSummary, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) (bool, error) {
	res := conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(u)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	return r.findOne(ctx, "external_id = ?", externalID)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var u model.User
	err := conn(ctx, r.db).Where(query, arg).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := conn(ctx, r.db).Model(&model.User{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *userRepository) Counts(ctx context.Context, id string) (model.UserCounts, error) {
	var c model.UserCounts
	db := conn(ctx, r.db)
	if err := db.Model(&model.Follow{}).Where("followee_id = ?", id).Count(&c.Followers).Error; err != nil {
		return c, err
	}
	if err := db.Model(&model.Follow{}).Where("follower_id = ?", id).Count(&c.Following).Error; err != nil {
		return c, err
	}
	if err := db.Model(&model.Post{}).Where("author_id = ?", id).Count(&c.Posts).Error; err != nil {
		return c, err
	}
	return c, nil
}

func (r *userRepository) Suggestions(ctx context.Context, userID string, limit int, randomize bool) ([]model.UserSummary, error) {
	db := conn(ctx, r.db)
	followed := db.Session(&gorm.Session{NewDB: true}).
		Model(&model.Follow{}).
		Select("followee_id").
		Where("follower_id = ?", userID)

	q := db.Table("users AS u").
		Select("u.id, u.name, u.username, u.image, " +
			"(SELECT COUNT(*) FROM follows f WHERE f.followee_id = u.id) AS follower_count").
		Where("u.id <> ?", userID).
		Where("u.id NOT IN (?)", followed)
	if randomize {
		q = q.Order("RANDOM()")
	} else {
		q = q.Order("u.created_at ASC").Order("u.id ASC")
	}

	out := make([]model.UserSummary, 0, limit)
	if err := q.Limit(limit).Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
