// Package testutil 提供测试用的内存数据库
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/gin-social/internal/model"
)

// NewDB 返回已迁移的内存 sqlite；单连接保证所有查询看到同一个库
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// SeedUser 写入一个用户，username 同时用作 external id 的后缀
func SeedUser(t testing.TB, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{
		ID:         uuid.New().String(),
		ExternalID: "ext_" + username,
		Name:       username,
		Username:   username,
		Email:      username + "@example.com",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// SeedFollow 写入 follower -> followee 关注边
func SeedFollow(t testing.TB, db *gorm.DB, followerID, followeeID string) {
	t.Helper()
	require.NoError(t, db.Create(&model.Follow{
		ID:         uuid.New().String(),
		FollowerID: followerID,
		FolloweeID: followeeID,
	}).Error)
}
