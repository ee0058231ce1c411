// Package room implements the session mutation protocol. Every
// state-changing operation is a read-modify-write: load the current room
// record, apply a pure transformation, persist the whole record back, return
// the new value. There is no locking or compare-and-swap; two clients racing
// within the same poll window are last-write-wins.
package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/scrumpoker/server/internal/domain"
	roomRepo "github.com/scrumpoker/server/internal/repository/room"
	"github.com/scrumpoker/server/pkg/randstr"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
)

const roomIdLength = 10

type iRoomRepo interface {
	SetRoom(context.Context, domain.Room) error
	GetRoom(context.Context, string) (domain.Room, error)
	SetUserName(context.Context, string) error
	GetUserName(context.Context) (string, error)
}

type iGenerator interface {
	GenerateRandomString(length int) string
}

type Config struct {
	MembersLimit int
	PollInterval time.Duration
}

type service struct {
	roomRepo     iRoomRepo
	generator    iGenerator
	membersLimit int
	pollInterval time.Duration
	logger       *slog.Logger
}

func NewService(repo iRoomRepo, cfg *Config, logger *slog.Logger) *service {
	s := service{
		roomRepo:     repo,
		membersLimit: cfg.MembersLimit,
		pollInterval: cfg.PollInterval,
		logger:       logger,
	}

	// url-safe alphabet, ids are embedded in shareable links
	letterBytes := []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_")
	s.generator = randstr.New(letterBytes)

	return &s
}

func (s service) getRoom(ctx context.Context, roomId string) (domain.Room, error) {
	rm, err := s.roomRepo.GetRoom(ctx, roomId)
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return domain.Room{}, ErrRoomNotFound
		}

		return domain.Room{}, fmt.Errorf("failed to get room: %w", err)
	}

	return rm, nil
}

// GetRoom returns the current stored snapshot. Used at session entry and by
// every replication tick.
func (s service) GetRoom(ctx context.Context, roomId string) (domain.Room, error) {
	return s.getRoom(ctx, roomId)
}

// RememberName stores the last-used display name for form prefill.
func (s service) RememberName(ctx context.Context, name string) error {
	return s.roomRepo.SetUserName(ctx, name)
}

func (s service) RememberedName(ctx context.Context) (string, error) {
	return s.roomRepo.GetUserName(ctx)
}
