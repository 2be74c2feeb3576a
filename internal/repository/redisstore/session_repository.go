package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rispar0529/De-Sign/internal/workflow"
)

const (
	sessionKeyPrefix = "design:session:"
	userIndexPrefix  = "design:user_sessions:"

	// Terminal sessions expire; live ones persist until the human answers.
	terminalRetention = 1 * time.Hour
)

// SessionRepository persists sessions in Redis so a restart between two
// human-gate round trips loses nothing. CompareAndSet runs as an optimistic
// WATCH transaction on the session key: if anyone else writes the key
// between read and commit the transaction fails and the caller observes a
// version conflict.
type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (r *SessionRepository) Create(ctx context.Context, session *workflow.Session) error {
	session.Version = 1
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	id := session.Id.String()
	ok, err := r.client.SetNX(ctx, sessionKey(id), payload, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return workflow.ErrDuplicateSession
	}
	return r.client.SAdd(ctx, userIndexPrefix+session.UserId, id).Err()
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*workflow.Session, error) {
	payload, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, workflow.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var session workflow.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) CompareAndSet(ctx context.Context, expectedVersion int64, session *workflow.Session) error {
	key := sessionKey(session.Id.String())

	txn := func(tx *redis.Tx) error {
		payload, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return workflow.ErrNotFound
		}
		if err != nil {
			return err
		}

		var current workflow.Session
		if err := json.Unmarshal(payload, &current); err != nil {
			return err
		}
		if current.Version != expectedVersion {
			return workflow.ErrVersionConflict
		}

		session.Version = expectedVersion + 1
		next, err := json.Marshal(session)
		if err != nil {
			return err
		}

		var expiration time.Duration
		if session.Stage.IsTerminal() {
			expiration = terminalRetention
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, expiration)
			return nil
		})
		return err
	}

	err := r.client.Watch(ctx, txn, key)
	if errors.Is(err, redis.TxFailedErr) {
		// Someone wrote the key between our read and commit.
		return workflow.ErrVersionConflict
	}
	return err
}

func (r *SessionRepository) ListByUser(ctx context.Context, userId string) ([]*workflow.Session, error) {
	ids, err := r.client.SMembers(ctx, userIndexPrefix+userId).Result()
	if err != nil {
		return nil, err
	}

	sessions := make([]*workflow.Session, 0, len(ids))
	for _, id := range ids {
		session, err := r.Get(ctx, id)
		if errors.Is(err, workflow.ErrNotFound) {
			// Expired terminal session still referenced by the index.
			continue
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	session, err := r.Get(ctx, id)
	if errors.Is(err, workflow.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, userIndexPrefix+session.UserId, id)
	_, err = pipe.Exec(ctx)
	return err
}
