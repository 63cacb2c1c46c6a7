package model

import "time"

// PostContentMaxLen 单条内容上限
const PostContentMaxLen = 280

// Post 用户发布的内容
type Post struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AuthorID  string    `json:"author_id" gorm:"type:varchar(36);index:idx_post_author;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Image     string    `json:"image,omitempty" gorm:"type:varchar(1024)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) TableName() string { return "posts" }
