package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/scrumpoker/server/internal/domain"
	"github.com/scrumpoker/server/internal/service/room"
	"github.com/scrumpoker/server/pkg/rest"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// connWriter serializes writes to a ws connection. The replication loop and
// the message read loop both push snapshots, gorilla allows one writer at a
// time.
type connWriter struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newConnWriter(conn *websocket.Conn) *connWriter {
	return &connWriter{conn: conn}
}

func (w *connWriter) WriteJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.conn.WriteJSON(v)
}

// roomSession joins the caller into the room, upgrades the connection, and
// runs the replication session for as long as the socket stays open. The
// stream carries only this client's own mutations and what the poll loop
// observes; there is no cross-client push.
func (c controller) roomSession(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "name must not be blank"})
		return
	}

	joined, err := c.roomService.JoinRoom(r.Context(), &room.JoinRoomParams{
		RoomId: roomId,
		Name:   name,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.DebugContext(r.Context(), "upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	writer := newConnWriter(conn)

	sess := c.roomService.NewSession(&room.SessionParams{
		RoomId: roomId,
		Name:   name,
		Room:   joined,
		OnUpdate: func(rm domain.Room) {
			if err := writer.WriteJSON(Output{Type: "ROOM_UPDATED", Payload: roomPayload(rm)}); err != nil {
				c.logger.DebugContext(r.Context(), "failed to write snapshot", "error", err)
			}
		},
		OnEvicted: func() {
			writer.WriteJSON(Output{Type: "ROOM_NOT_FOUND"})
			conn.Close()
		},
	})

	ctx := c.withSession(r.Context(), sess)
	ctx = c.withWriter(ctx, writer)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess.Start(ctx)
	defer sess.Stop()

	if err := writer.WriteJSON(Output{Type: "ROOM_UPDATED", Payload: roomPayload(joined)}); err != nil {
		return
	}

	if err := c.getWSRouter().ServeConn(ctx, conn); err != nil {
		if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			c.logger.DebugContext(ctx, "ws session ended", "room_id", roomId, "name", name, "error", err)
		}
	}
}

type EmptyInput struct{}

func (c controller) handleAlive(_ context.Context, _ *websocket.Conn, _ EmptyInput) error {
	return nil
}

type castVoteInput struct {
	Vote domain.Vote `json:"vote"`
}

func (c controller) handleCastVote(ctx context.Context, _ *websocket.Conn, input castVoteInput) error {
	sess := c.getSessionFromCtx(ctx)
	if sess == nil {
		return errors.New("no session in context")
	}

	if !domain.IsValidVote(input.Vote) {
		return c.getWriterFromCtx(ctx).WriteJSON(Output{Type: "ERROR", Payload: rest.Envelope{"error": "unknown vote option"}})
	}

	updated, err := c.roomService.CastVote(ctx, &room.CastVoteParams{
		RoomId:     sess.RoomId(),
		SenderName: sess.Name(),
		Vote:       input.Vote,
	})
	if err != nil {
		return fmt.Errorf("failed to cast vote: %w", err)
	}

	sess.Adopt(updated)
	return nil
}

type setRevealedInput struct {
	Revealed bool `json:"revealed"`
}

func (c controller) handleSetRevealed(ctx context.Context, _ *websocket.Conn, input setRevealedInput) error {
	sess := c.getSessionFromCtx(ctx)
	if sess == nil {
		return errors.New("no session in context")
	}

	updated, err := c.roomService.SetRevealed(ctx, &room.SetRevealedParams{
		RoomId:     sess.RoomId(),
		SenderName: sess.Name(),
		Revealed:   input.Revealed,
	})
	if err != nil {
		return fmt.Errorf("failed to set revealed: %w", err)
	}

	sess.Adopt(updated)
	return nil
}

func (c controller) handleResetRound(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	sess := c.getSessionFromCtx(ctx)
	if sess == nil {
		return errors.New("no session in context")
	}

	updated, err := c.roomService.ResetRound(ctx, &room.ResetRoundParams{
		RoomId:     sess.RoomId(),
		SenderName: sess.Name(),
	})
	if err != nil {
		return fmt.Errorf("failed to reset round: %w", err)
	}

	sess.Adopt(updated)
	return nil
}

type setTopicInput struct {
	Topic string `json:"topic"`
}

func (c controller) handleSetTopic(ctx context.Context, _ *websocket.Conn, input setTopicInput) error {
	sess := c.getSessionFromCtx(ctx)
	if sess == nil {
		return errors.New("no session in context")
	}

	updated, err := c.roomService.SetTopic(ctx, &room.SetTopicParams{
		RoomId:     sess.RoomId(),
		SenderName: sess.Name(),
		Topic:      input.Topic,
	})
	if err != nil {
		return fmt.Errorf("failed to set topic: %w", err)
	}

	sess.Adopt(updated)
	return nil
}

type toggleVotingStatusInput struct {
	MemberName string `json:"member_name"`
}

func (c controller) handleToggleVotingStatus(ctx context.Context, _ *websocket.Conn, input toggleVotingStatusInput) error {
	sess := c.getSessionFromCtx(ctx)
	if sess == nil {
		return errors.New("no session in context")
	}

	updated, err := c.roomService.ToggleVotingStatus(ctx, &room.ToggleVotingStatusParams{
		RoomId:     sess.RoomId(),
		SenderName: sess.Name(),
		MemberName: input.MemberName,
	})
	if err != nil {
		return fmt.Errorf("failed to toggle voting status: %w", err)
	}

	sess.Adopt(updated)
	return nil
}
