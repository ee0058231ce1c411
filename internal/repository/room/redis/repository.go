// Package redis stores each room as a single serialized record under one
// key. The adapter exposes plain get/set only: no transactions, no watches,
// no notifications. A write replaces the whole record, so concurrent writers
// are last-write-wins by construction.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scrumpoker/server/internal/domain"
	"github.com/scrumpoker/server/internal/repository/room"
)

type repo struct {
	rc      *redis.Client
	roomTTL time.Duration
	logger  *slog.Logger
}

// NewRepo wraps a redis client. roomTTL bounds the retention of abandoned
// rooms; every write refreshes it.
func NewRepo(rc *redis.Client, roomTTL time.Duration, logger *slog.Logger) *repo {
	return &repo{
		rc:      rc,
		roomTTL: roomTTL,
		logger:  logger,
	}
}

func (r repo) getRoomKey(roomId string) string {
	return "room_" + roomId
}

func (r repo) SetRoom(ctx context.Context, rm domain.Room) error {
	r.logger.DebugContext(ctx, "called", "method", "SetRoom", "room_id", rm.Id)
	data, err := json.Marshal(rm)
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	if err := r.rc.Set(ctx, r.getRoomKey(rm.Id), data, r.roomTTL).Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) GetRoom(ctx context.Context, roomId string) (domain.Room, error) {
	r.logger.DebugContext(ctx, "called", "method", "GetRoom", "room_id", roomId)
	data, err := r.rc.Get(ctx, r.getRoomKey(roomId)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.DebugContext(ctx, "returned", "error", room.ErrRoomNotFound)
			return domain.Room{}, room.ErrRoomNotFound
		}

		r.logger.DebugContext(ctx, "returned", "error", err)
		return domain.Room{}, err
	}

	var rm domain.Room
	if err := json.Unmarshal(data, &rm); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return domain.Room{}, err
	}

	return rm, nil
}
