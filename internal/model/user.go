package model

import "time"

// User 本地用户，ExternalID 对应身份提供方的 subject
type User struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ExternalID string    `json:"-" gorm:"type:varchar(191);uniqueIndex:ux_user_external;not null"`
	Name       string    `json:"name" gorm:"type:varchar(255)"`
	Username   string    `json:"username" gorm:"type:varchar(64);uniqueIndex:ux_user_username;not null"`
	Email      string    `json:"email" gorm:"type:varchar(320);not null"`
	Image      string    `json:"image,omitempty" gorm:"type:varchar(1024)"`
	Bio        string    `json:"bio,omitempty" gorm:"type:text"`
	Location   string    `json:"location,omitempty" gorm:"type:varchar(255)"`
	Website    string    `json:"website,omitempty" gorm:"type:varchar(255)"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserSummary 推荐列表/通知里用到的精简用户信息
type UserSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Username      string `json:"username"`
	Image         string `json:"image,omitempty"`
	FollowerCount int64  `json:"follower_count"`
}

// UserCounts 关注、粉丝、发帖计数
type UserCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Posts     int64 `json:"posts"`
}

// All 返回需要迁移的全部模型
func All() []interface{} {
	return []interface{}{&User{}, &Follow{}, &Notification{}, &Post{}}
}
