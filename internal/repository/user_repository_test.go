package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/gin-social/internal/model"
	"github.com/d60-Lab/gin-social/internal/testutil"
)

func TestUserRepository_CreateConflict(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &model.User{ID: uuid.New().String(), ExternalID: "sub_1", Username: "alice", Email: "a@example.com"}
	created, err := repo.Create(ctx, u)
	require.NoError(t, err)
	assert.True(t, created)

	// 相同 external id
	dup := &model.User{ID: uuid.New().String(), ExternalID: "sub_1", Username: "alice2", Email: "a@example.com"}
	created, err = repo.Create(ctx, dup)
	require.NoError(t, err)
	assert.False(t, created)

	// 相同 username
	dup = &model.User{ID: uuid.New().String(), ExternalID: "sub_2", Username: "alice", Email: "b@example.com"}
	created, err = repo.Create(ctx, dup)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestUserRepository_Find(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	alice := testutil.SeedUser(t, db, "alice")

	got, err := repo.FindByExternalID(ctx, alice.ExternalID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice.ID, got.ID)

	got, err = repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice.ID, got.ID)

	got, err = repo.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err := repo.Exists(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserRepository_Counts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()
	a := testutil.SeedUser(t, db, "alice")
	b := testutil.SeedUser(t, db, "bob")
	c := testutil.SeedUser(t, db, "carol")
	testutil.SeedFollow(t, db, b.ID, a.ID)
	testutil.SeedFollow(t, db, c.ID, a.ID)
	testutil.SeedFollow(t, db, a.ID, b.ID)
	require.NoError(t, posts.Create(ctx, &model.Post{ID: uuid.New().String(), AuthorID: a.ID, Content: "hi"}))

	counts, err := repo.Counts(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UserCounts{Followers: 2, Following: 1, Posts: 1}, counts)

	n, err := posts.CountByAuthor(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUserRepository_SuggestionsExcludeSelfAndFollowed(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	me := testutil.SeedUser(t, db, "me")
	followed := testutil.SeedUser(t, db, "followed")
	x := testutil.SeedUser(t, db, "x")
	y := testutil.SeedUser(t, db, "y")
	testutil.SeedFollow(t, db, me.ID, followed.ID)
	testutil.SeedFollow(t, db, followed.ID, x.ID)
	testutil.SeedFollow(t, db, y.ID, x.ID)

	for _, randomize := range []bool{false, true} {
		got, err := repo.Suggestions(ctx, me.ID, 3, randomize)
		require.NoError(t, err)
		require.Len(t, got, 2)

		byID := map[string]model.UserSummary{}
		for _, s := range got {
			byID[s.ID] = s
		}
		assert.NotContains(t, byID, me.ID)
		assert.NotContains(t, byID, followed.ID)
		assert.EqualValues(t, 2, byID[x.ID].FollowerCount)
		assert.EqualValues(t, 0, byID[y.ID].FollowerCount)
		assert.Equal(t, "x", byID[x.ID].Username)
	}
}

func TestUserRepository_SuggestionsLimit(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	me := testutil.SeedUser(t, db, "me")
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		testutil.SeedUser(t, db, name)
	}

	got, err := repo.Suggestions(context.Background(), me.ID, 3, true)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
