// Package auth implements the admin login gate: bcrypt password check,
// Redis-backed sessions, and the per-request auth context.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/xrofed/sebokehtub/pkg/redis"
	"github.com/xrofed/sebokehtub/pkg/utils"
)

// CookieName carries the opaque session token.
const CookieName = "sid"

const sessionKeyPrefix = "session:"

// ErrBadPassword is returned for a failed login attempt.
var ErrBadPassword = errors.New("wrong password")

// Sessions issues and validates opaque admin session tokens. Tokens live
// in Redis with a TTL; the cookie only ever holds the random ID.
type Sessions struct {
	rdb          *redis.Client
	password     string
	passwordHash string
	ttl          time.Duration
}

// NewSessions creates the session service. When passwordHash (bcrypt) is
// set it wins over the plaintext password.
func NewSessions(rdb *redis.Client, password, passwordHash string, ttl time.Duration) *Sessions {
	return &Sessions{rdb: rdb, password: password, passwordHash: passwordHash, ttl: ttl}
}

// TTL returns the session lifetime.
func (s *Sessions) TTL() time.Duration { return s.ttl }

// Login checks the password and, on success, creates a session token.
func (s *Sessions) Login(ctx context.Context, password string) (string, error) {
	if !s.checkPassword(password) {
		return "", ErrBadPassword
	}
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionKeyPrefix+token, "1", s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Valid reports whether token names a live session. Lookup failures
// count as unauthenticated rather than failing the request.
func (s *Sessions) Valid(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	err := s.rdb.Get(ctx, sessionKeyPrefix+token).Err()
	return err == nil
}

// Destroy removes a session token.
func (s *Sessions) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := s.rdb.Del(ctx, sessionKeyPrefix+token).Err()
	if errors.Is(err, goredis.Nil) {
		return nil
	}
	return err
}

func (s *Sessions) checkPassword(password string) bool {
	if s.passwordHash != "" {
		return utils.CheckPassword(password, s.passwordHash)
	}
	if s.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
}
