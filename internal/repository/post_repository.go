package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/gin-social/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	return conn(ctx, r.db).Create(p).Error
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&model.Post{}).Where("author_id = ?", authorID).Count(&cnt).Error
	return cnt, err
}
