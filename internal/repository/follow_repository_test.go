package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/gin-social/internal/model"
	"github.com/d60-Lab/gin-social/internal/testutil"
)

func TestFollowRepository_CreateIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	a := testutil.SeedUser(t, db, "alice")
	b := testutil.SeedUser(t, db, "bob")

	created, err := repo.Create(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, created, "duplicate edge must not be inserted")

	var cnt int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&cnt).Error)
	assert.EqualValues(t, 1, cnt)
}

func TestFollowRepository_DeleteAndExists(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	a := testutil.SeedUser(t, db, "alice")
	b := testutil.SeedUser(t, db, "bob")
	testutil.SeedFollow(t, db, a.ID, b.ID)

	ok, err := repo.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Exists(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, ok, "edges are directed")

	removed, err := repo.Delete(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFollowRepository_ListsAndCounts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	a := testutil.SeedUser(t, db, "alice")
	b := testutil.SeedUser(t, db, "bob")
	c := testutil.SeedUser(t, db, "carol")
	testutil.SeedFollow(t, db, a.ID, b.ID)
	testutil.SeedFollow(t, db, a.ID, c.ID)
	testutil.SeedFollow(t, db, c.ID, b.ID)

	following, err := repo.ListFollowings(ctx, a.ID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, following, 2)

	page, err := repo.ListFollowings(ctx, a.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	followers, err := repo.ListFollowers(ctx, b.ID, 0, 10)
	require.NoError(t, err)
	ids := []string{followers[0].FollowerID, followers[1].FollowerID}
	assert.ElementsMatch(t, []string{a.ID, c.ID}, ids)

	n, err := repo.CountFollowers(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	n, err = repo.CountFollowings(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := testutil.NewDB(t)
	follows := NewFollowRepository(db)
	notifications := NewNotificationRepository(db)
	tx := NewTransactor(db)
	ctx := context.Background()
	a := testutil.SeedUser(t, db, "alice")
	b := testutil.SeedUser(t, db, "bob")

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := follows.Create(ctx, a.ID, b.ID); err != nil {
			return err
		}
		if err := notifications.Create(ctx, &model.Notification{
			ID: "n1", Type: model.NotificationFollow, UserID: b.ID, CreatorID: a.ID,
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	ok, err := follows.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	unread, err := notifications.CountUnread(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestTransactor_CommitsAndNests(t *testing.T) {
	db := testutil.NewDB(t)
	follows := NewFollowRepository(db)
	tx := NewTransactor(db)
	ctx := context.Background()
	a := testutil.SeedUser(t, db, "alice")
	b := testutil.SeedUser(t, db, "bob")

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return tx.WithinTransaction(ctx, func(ctx context.Context) error {
			_, err := follows.Create(ctx, a.ID, b.ID)
			return err
		})
	})
	require.NoError(t, err)

	ok, err := follows.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
