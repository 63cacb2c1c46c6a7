package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/gin-social/internal/model"
	"github.com/d60-Lab/gin-social/internal/testutil"
)

func TestNotificationRepository_ListByUser(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()
	target := testutil.SeedUser(t, db, "target")
	a := testutil.SeedUser(t, db, "alice")
	b := testutil.SeedUser(t, db, "bob")

	base := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, &model.Notification{
		ID: "n1", Type: model.NotificationFollow, UserID: target.ID, CreatorID: a.ID, CreatedAt: base,
	}))
	require.NoError(t, repo.Create(ctx, &model.Notification{
		ID: "n2", Type: model.NotificationFollow, UserID: target.ID, CreatorID: b.ID, CreatedAt: base.Add(time.Second),
	}))
	require.NoError(t, repo.Create(ctx, &model.Notification{
		ID: "n3", Type: model.NotificationFollow, UserID: a.ID, CreatorID: b.ID, CreatedAt: base,
	}))

	views, err := repo.ListByUser(ctx, target.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "n2", views[0].ID)
	assert.Equal(t, "bob", views[0].Creator.Username)
	assert.Equal(t, "alice", views[1].Creator.Username)

	unread, err := repo.CountUnread(ctx, target.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	empty, err := repo.ListByUser(ctx, b.ID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
