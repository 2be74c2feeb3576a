package redisstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rispar0529/De-Sign/internal/workflow"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Skipping integration test: Redis unreachable: %v", err)
	}
	return client
}

func cleanup(t *testing.T, repo *SessionRepository, sess *workflow.Session) {
	t.Helper()
	t.Cleanup(func() {
		_ = repo.Delete(context.Background(), sess.Id.String())
	})
}

func TestRedisCreateGetRoundTrip(t *testing.T) {
	repo := NewSessionRepository(testClient(t))
	ctx := context.Background()

	sess := &workflow.Session{Id: uuid.New(), UserId: "redis-test-user", Stage: workflow.StageCreated}
	require.NoError(t, repo.Create(ctx, sess))
	cleanup(t, repo, sess)
	assert.Equal(t, int64(1), sess.Version)

	got, err := repo.Get(ctx, sess.Id.String())
	require.NoError(t, err)
	assert.Equal(t, sess.Id, got.Id)
	assert.Equal(t, workflow.StageCreated, got.Stage)

	err = repo.Create(ctx, sess)
	assert.ErrorIs(t, err, workflow.ErrDuplicateSession)
}

func TestRedisCompareAndSet(t *testing.T) {
	repo := NewSessionRepository(testClient(t))
	ctx := context.Background()

	sess := &workflow.Session{Id: uuid.New(), UserId: "redis-test-user", Stage: workflow.StageCreated}
	require.NoError(t, repo.Create(ctx, sess))
	cleanup(t, repo, sess)

	sess.Stage = workflow.StageIngested
	require.NoError(t, repo.CompareAndSet(ctx, 1, sess))
	assert.Equal(t, int64(2), sess.Version)

	// A writer still holding version 1 loses.
	stale := sess.Clone()
	stale.Version = 1
	stale.Stage = workflow.StageAnalyzed
	err := repo.CompareAndSet(ctx, 1, stale)
	assert.ErrorIs(t, err, workflow.ErrVersionConflict)

	got, err := repo.Get(ctx, sess.Id.String())
	require.NoError(t, err)
	assert.Equal(t, workflow.StageIngested, got.Stage)
	assert.Equal(t, int64(2), got.Version)
}

func TestRedisListByUser(t *testing.T) {
	repo := NewSessionRepository(testClient(t))
	ctx := context.Background()
	userId := "redis-list-user-" + uuid.NewString()

	for i := 0; i < 2; i++ {
		sess := &workflow.Session{Id: uuid.New(), UserId: userId, Stage: workflow.StageCreated}
		require.NoError(t, repo.Create(ctx, sess))
		cleanup(t, repo, sess)
	}

	sessions, err := repo.ListByUser(ctx, userId)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}
