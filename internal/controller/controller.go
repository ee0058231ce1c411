package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/scrumpoker/server/internal/domain"
	"github.com/scrumpoker/server/internal/service/room"
	"github.com/scrumpoker/server/pkg/validator"
)

type iRoomService interface {
	CreateRoom(context.Context, *room.CreateRoomParams) (domain.Room, error)
	JoinRoom(context.Context, *room.JoinRoomParams) (domain.Room, error)
	GetRoom(context.Context, string) (domain.Room, error)
	CastVote(context.Context, *room.CastVoteParams) (domain.Room, error)
	SetRevealed(context.Context, *room.SetRevealedParams) (domain.Room, error)
	ResetRound(context.Context, *room.ResetRoundParams) (domain.Room, error)
	SetTopic(context.Context, *room.SetTopicParams) (domain.Room, error)
	ToggleVotingStatus(context.Context, *room.ToggleVotingStatusParams) (domain.Room, error)
	RememberName(context.Context, string) error
	RememberedName(context.Context) (string, error)
	NewSession(*room.SessionParams) *room.Session
}

type controller struct {
	roomService iRoomService
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	logger      *slog.Logger
}

func NewController(roomService iRoomService, logger *slog.Logger) *controller {
	return &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService: roomService,
		validate:    validator.NewValidator(),
		logger:      logger,
	}
}
