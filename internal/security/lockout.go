// Package security holds Redis-backed abuse protection: login lockout and
// per-IP request rate limiting. Both fail open when Redis misbehaves.
package security

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/billboardhub/billboard-market/internal/config"
	"github.com/billboardhub/billboard-market/internal/domain"
)

// LockedMessage is returned while an account is locked.
const LockedMessage = "account temporarily locked"

// Lockout locks an account after repeated failed logins. A nil client
// disables it.
type Lockout struct {
	client      redis.Cmdable
	maxAttempts int64
	window      time.Duration
	lockFor     time.Duration
	logger      *zap.Logger
}

// NewLockout builds the lockout from auth configuration.
func NewLockout(client redis.Cmdable, cfg config.AuthConfig, logger *zap.Logger) *Lockout {
	return &Lockout{
		client:      client,
		maxAttempts: int64(cfg.LockoutMaxAttempts),
		window:      time.Duration(cfg.LockoutWindowMinutes) * time.Minute,
		lockFor:     time.Duration(cfg.LockoutMinutes) * time.Minute,
		logger:      logger,
	}
}

func failKey(kind domain.PrincipalKind, identifier string) string {
	return fmt.Sprintf("login:fail:%s:%s", kind, identifier)
}

func lockKey(kind domain.PrincipalKind, identifier string) string {
	return fmt.Sprintf("login:lock:%s:%s", kind, identifier)
}

// Locked reports whether logins for identifier are currently refused.
func (l *Lockout) Locked(ctx context.Context, kind domain.PrincipalKind, identifier string) bool {
	if l == nil || l.client == nil {
		return false
	}
	n, err := l.client.Exists(ctx, lockKey(kind, identifier)).Result()
	if err != nil {
		l.logger.Warn("lockout check failed", zap.String("kind", string(kind)), zap.Error(err))
		return false
	}
	return n == 1
}

// RecordFailure counts a failed login and locks the account once the
// threshold is reached inside the window.
func (l *Lockout) RecordFailure(ctx context.Context, kind domain.PrincipalKind, identifier string) {
	if l == nil || l.client == nil {
		return
	}
	key := failKey(kind, identifier)
	attempts, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("lockout record failed", zap.String("kind", string(kind)), zap.Error(err))
		return
	}
	if attempts == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("lockout expire failed", zap.String("kind", string(kind)), zap.Error(err))
		}
	}
	if l.maxAttempts > 0 && attempts >= l.maxAttempts {
		if err := l.client.Set(ctx, lockKey(kind, identifier), "1", l.lockFor).Err(); err != nil {
			l.logger.Warn("lockout lock failed", zap.String("kind", string(kind)), zap.Error(err))
			return
		}
		l.logger.Info("account locked", zap.String("kind", string(kind)), zap.Duration("for", l.lockFor))
	}
}

// RecordSuccess clears failure counters and any lock.
func (l *Lockout) RecordSuccess(ctx context.Context, kind domain.PrincipalKind, identifier string) {
	if l == nil || l.client == nil {
		return
	}
	if err := l.client.Del(ctx, failKey(kind, identifier), lockKey(kind, identifier)).Err(); err != nil {
		l.logger.Warn("lockout reset failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}
