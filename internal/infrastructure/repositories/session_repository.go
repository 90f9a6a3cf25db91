package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using
// Redis. Values are JSON with a TTL matching expiresAt; a per-user
// set indexes tokens so bulk revocation is a single pipelined call.
type SessionRepositoryImpl struct {
	client *redis.Client
	prefix string
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(client *redis.Client) domain.SessionRepository {
	return &SessionRepositoryImpl{
		client: client,
		prefix: "session:",
	}
}

func (r *SessionRepositoryImpl) key(token string) string {
	return r.prefix + token
}

func (r *SessionRepositoryImpl) userKey(userID string) string {
	return fmt.Sprintf("%suser:%s", r.prefix, userID)
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	if !session.ExpiresAt.After(session.CreatedAt) {
		return fmt.Errorf("session expiry %v not after creation %v", session.ExpiresAt, session.CreatedAt)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(session.Token), data, ttl)
	pipe.SAdd(ctx, r.userKey(session.UserID), session.Token)
	// The index outlives individual sessions slightly; stale members
	// are pruned on bulk deletion.
	pipe.Expire(ctx, r.userKey(session.UserID), ttl+time.Hour)
	_, err = pipe.Exec(ctx)
	return err
}

// FindByToken implements domain.SessionRepository. A session past its
// expiry is deleted lazily and reported as not found.
func (r *SessionRepositoryImpl) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if session.ExpiresAt.Before(time.Now()) {
		r.client.Del(ctx, r.key(token))
		r.client.SRem(ctx, r.userKey(session.UserID), token)
		return nil, domain.ErrSessionNotFound
	}

	return &session, nil
}

// Extend implements domain.SessionRepository, sliding expiresAt and
// updatedAt forward together with the Redis TTL.
func (r *SessionRepositoryImpl) Extend(ctx context.Context, token string, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.Set(ctx, r.key(token), data, time.Until(session.ExpiresAt)).Err()
}

// Delete implements domain.SessionRepository. Deleting an absent
// session is a no-op, which keeps logout idempotent.
func (r *SessionRepositoryImpl) Delete(ctx context.Context, token string) error {
	data, err := r.client.Get(ctx, r.key(token)).Result()
	if err == nil {
		var session domain.Session
		if json.Unmarshal([]byte(data), &session) == nil {
			r.client.SRem(ctx, r.userKey(session.UserID), token)
		}
	}
	return r.client.Del(ctx, r.key(token)).Err()
}

// DeleteAllForUser implements domain.SessionRepository as one bulk
// pipelined operation, leaving no window with a surviving session.
func (r *SessionRepositoryImpl) DeleteAllForUser(ctx context.Context, userID string) error {
	return r.deleteForUser(ctx, userID, "")
}

// DeleteAllForUserExcept implements domain.SessionRepository.
func (r *SessionRepositoryImpl) DeleteAllForUserExcept(ctx context.Context, userID, keepToken string) error {
	return r.deleteForUser(ctx, userID, keepToken)
}

func (r *SessionRepositoryImpl) deleteForUser(ctx context.Context, userID, keepToken string) error {
	tokens, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	pipe := r.client.TxPipeline()
	for _, token := range tokens {
		if token == keepToken {
			continue
		}
		pipe.Del(ctx, r.key(token))
		pipe.SRem(ctx, r.userKey(userID), token)
	}
	_, err = pipe.Exec(ctx)
	return err
}
