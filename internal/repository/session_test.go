package repository

import (
	"context"
	"silkrhyme/internal/client"
	"silkrhyme/internal/model"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) SessionRepository {
	t.Helper()
	db, err := client.InitDBClient("sqlite://file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	return NewSessionRepository(db)
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	id := uuid.NewString()
	require.NoError(t, repo.Upsert(ctx, &model.AccountSession{ID: id, Token: "tok-1", Email: "a@example.com"}))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got.Token)
	assert.Equal(t, "a@example.com", got.Email)

	require.NoError(t, repo.Upsert(ctx, &model.AccountSession{ID: id, Token: "tok-2", Email: "a@example.com"}))
	got, err = repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", got.Token)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	require.NoError(t, repo.Upsert(ctx, &model.AccountSession{ID: "old", Token: "x", ExpiresAt: &past}))
	require.NoError(t, repo.Upsert(ctx, &model.AccountSession{ID: "new", Token: "y", ExpiresAt: &future}))
	require.NoError(t, repo.Upsert(ctx, &model.AccountSession{ID: "forever", Token: "z"}))

	n, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = repo.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = repo.Get(ctx, "new")
	assert.NoError(t, err)
	_, err = repo.Get(ctx, "forever")
	assert.NoError(t, err)
}
