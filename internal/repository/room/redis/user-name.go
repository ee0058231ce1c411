package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// userNameKey holds the last-used display name. It is independent of any
// room and shared by every client of the same storage instance.
const userNameKey = "userName"

func (r repo) SetUserName(ctx context.Context, name string) error {
	r.logger.DebugContext(ctx, "called", "method", "SetUserName", "name", name)
	if err := r.rc.Set(ctx, userNameKey, name, 0).Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) GetUserName(ctx context.Context) (string, error) {
	r.logger.DebugContext(ctx, "called", "method", "GetUserName")
	name, err := r.rc.Get(ctx, userNameKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}

		r.logger.DebugContext(ctx, "returned", "error", err)
		return "", err
	}

	return name, nil
}
