package room

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/scrumpoker/server/internal/domain"
)

// Session is one client's view of a room: a local snapshot plus the
// replication loop that refreshes it. The loop re-reads the stored record on
// a fixed cadence and replaces the snapshot unconditionally; it is the only
// way this client observes other clients' writes.
type Session struct {
	roomId   string
	name     string
	svc      service
	interval time.Duration

	mu   sync.RWMutex
	room domain.Room

	onUpdate  func(domain.Room)
	onEvicted func()

	stop     chan struct{}
	stopOnce sync.Once
}

type SessionParams struct {
	RoomId string
	Name   string
	// Room is the snapshot adopted at join time.
	Room domain.Room
	// OnUpdate fires on every snapshot replacement, poll tick or local
	// mutation alike.
	OnUpdate func(domain.Room)
	// OnEvicted fires once when a poll finds the room gone from storage.
	OnEvicted func()
}

// NewSession creates a session for a client that has already joined the
// room. Call Start to begin replication.
func (s service) NewSession(params *SessionParams) *Session {
	return &Session{
		roomId:    params.RoomId,
		name:      params.Name,
		svc:       s,
		interval:  s.pollInterval,
		room:      params.Room,
		onUpdate:  params.OnUpdate,
		onEvicted: params.OnEvicted,
		stop:      make(chan struct{}),
	}
}

func (sess *Session) RoomId() string {
	return sess.roomId
}

func (sess *Session) Name() string {
	return sess.name
}

// Start launches the replication loop. It runs until the context is
// canceled, Stop is called, or the room disappears from storage.
func (sess *Session) Start(ctx context.Context) {
	go sess.run(ctx)
}

func (sess *Session) Stop() {
	sess.stopOnce.Do(func() {
		close(sess.stop)
	})
}

func (sess *Session) run(ctx context.Context) {
	ticker := time.NewTicker(sess.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sess.stop:
			return
		case <-ticker.C:
			rm, err := sess.svc.GetRoom(ctx, sess.roomId)
			if err != nil {
				if errors.Is(err, ErrRoomNotFound) {
					if sess.onEvicted != nil {
						sess.onEvicted()
					}
					return
				}

				// transient read failure, the next tick retries
				sess.svc.logger.DebugContext(ctx, "replication tick failed", "room_id", sess.roomId, "error", err)
				continue
			}

			sess.Adopt(rm)
		}
	}
}

// Adopt replaces the local snapshot. Mutation results are adopted through
// here as well, so the update callback is the single delivery path.
func (sess *Session) Adopt(rm domain.Room) {
	sess.mu.Lock()
	sess.room = rm
	sess.mu.Unlock()

	if sess.onUpdate != nil {
		sess.onUpdate(rm)
	}
}

func (sess *Session) Snapshot() domain.Room {
	sess.mu.RLock()
	defer sess.mu.RUnlock()

	return sess.room
}

// IsAdmin and IsVotingParticipant are recomputed from the current snapshot
// on every call, never cached, so a toggle by the admin takes effect within
// one poll period.
func (sess *Session) IsAdmin() bool {
	return sess.Snapshot().IsRoomAdmin(sess.name)
}

func (sess *Session) IsVotingParticipant() bool {
	return sess.Snapshot().IsVotingParticipant(sess.name)
}
