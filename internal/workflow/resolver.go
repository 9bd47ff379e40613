package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/meelsaw/database-final-assignment/internal/model"
)

// RoleResolver maps a caller identifier to a role with one read against the
// users table. An identifier matching no user resolves to RoleUnknown, never
// an error; the gates treat Unknown like any other mismatch. When a redis
// client is configured, resolved roles are cached with a TTL so repeated
// gates on the same caller skip the store round-trip.
type RoleResolver struct {
	store  Store
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRoleResolver(store Store, redisClient *redis.Client, ttl time.Duration, logger *zap.Logger) *RoleResolver {
	return &RoleResolver{store: store, redis: redisClient, ttl: ttl, logger: logger}
}

func (r *RoleResolver) Resolve(ctx context.Context, userID int64) (model.Role, error) {
	if role, ok := r.cachedRole(ctx, userID); ok {
		return role, nil
	}

	role, err := r.store.GetUserRole(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.RoleUnknown, nil
	}
	if err != nil {
		return model.RoleUnknown, err
	}
	if role != model.RoleUnknown {
		r.cacheRole(ctx, userID, role)
	}
	return role, nil
}

func (r *RoleResolver) cachedRole(ctx context.Context, userID int64) (model.Role, bool) {
	if r.redis == nil {
		return model.RoleUnknown, false
	}
	value, err := r.redis.Get(ctx, roleCacheKey(userID)).Result()
	if err == redis.Nil {
		return model.RoleUnknown, false
	}
	if err != nil {
		r.logger.Warn("role cache read failed", zap.Int64("userId", userID), zap.Error(err))
		return model.RoleUnknown, false
	}
	role := model.ParseRole(value)
	if role == model.RoleUnknown {
		return model.RoleUnknown, false
	}
	return role, true
}

func (r *RoleResolver) cacheRole(ctx context.Context, userID int64, role model.Role) {
	if r.redis == nil {
		return
	}
	if err := r.redis.Set(ctx, roleCacheKey(userID), role.String(), r.ttl).Err(); err != nil {
		r.logger.Warn("role cache write failed", zap.Int64("userId", userID), zap.Error(err))
	}
}

func roleCacheKey(userID int64) string {
	return fmt.Sprintf("user_role:%d", userID)
}
