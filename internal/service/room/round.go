package room

import (
	"context"

	"github.com/scrumpoker/server/internal/domain"
)

// Admin-gated round operations. A non-admin sender gets the room back
// unchanged with no error; the original client behaves the same way and the
// ws/REST surface preserves that contract.

type SetRevealedParams struct {
	RoomId     string
	SenderName string
	Revealed   bool
}

func (s service) SetRevealed(ctx context.Context, params *SetRevealedParams) (domain.Room, error) {
	rm, err := s.getRoom(ctx, params.RoomId)
	if err != nil {
		return domain.Room{}, err
	}

	if !rm.IsRoomAdmin(params.SenderName) {
		s.logger.DebugContext(ctx, "reveal from non-admin ignored", "room_id", params.RoomId, "sender", params.SenderName)
		return rm, nil
	}

	rm.ShowVotes = params.Revealed

	if err := s.roomRepo.SetRoom(ctx, rm); err != nil {
		return domain.Room{}, err
	}

	return rm, nil
}

type ResetRoundParams struct {
	RoomId     string
	SenderName string
}

// ResetRound clears every member's vote and hides votes. The topic is left
// in place until the admin sets a new one.
func (s service) ResetRound(ctx context.Context, params *ResetRoundParams) (domain.Room, error) {
	rm, err := s.getRoom(ctx, params.RoomId)
	if err != nil {
		return domain.Room{}, err
	}

	if !rm.IsRoomAdmin(params.SenderName) {
		s.logger.DebugContext(ctx, "reset from non-admin ignored", "room_id", params.RoomId, "sender", params.SenderName)
		return rm, nil
	}

	for i := range rm.Members {
		rm.Members[i].Vote = nil
	}
	rm.ShowVotes = false

	if err := s.roomRepo.SetRoom(ctx, rm); err != nil {
		return domain.Room{}, err
	}

	return rm, nil
}

type SetTopicParams struct {
	RoomId     string
	SenderName string
	Topic      string
}

// SetTopic stores the topic verbatim, no trimming or validation.
func (s service) SetTopic(ctx context.Context, params *SetTopicParams) (domain.Room, error) {
	rm, err := s.getRoom(ctx, params.RoomId)
	if err != nil {
		return domain.Room{}, err
	}

	if !rm.IsRoomAdmin(params.SenderName) {
		s.logger.DebugContext(ctx, "set topic from non-admin ignored", "room_id", params.RoomId, "sender", params.SenderName)
		return rm, nil
	}

	rm.Topic = params.Topic

	if err := s.roomRepo.SetRoom(ctx, rm); err != nil {
		return domain.Room{}, err
	}

	return rm, nil
}
