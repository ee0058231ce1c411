package room

import (
	"context"

	"github.com/scrumpoker/server/internal/domain"
)

type CastVoteParams struct {
	RoomId     string
	SenderName string
	Vote       domain.Vote
}

// CastVote records the sender's vote for the current round. A sender that is
// not a member of the room is ignored and the room returned unchanged.
func (s service) CastVote(ctx context.Context, params *CastVoteParams) (domain.Room, error) {
	rm, err := s.getRoom(ctx, params.RoomId)
	if err != nil {
		return domain.Room{}, err
	}

	i := rm.MemberIndex(params.SenderName)
	if i < 0 {
		s.logger.DebugContext(ctx, "vote from non-member ignored", "room_id", params.RoomId, "sender", params.SenderName)
		return rm, nil
	}

	vote := params.Vote
	rm.Members[i].Vote = &vote

	if err := s.roomRepo.SetRoom(ctx, rm); err != nil {
		return domain.Room{}, err
	}

	return rm, nil
}

type ToggleVotingStatusParams struct {
	RoomId     string
	SenderName string
	MemberName string
}

// ToggleVotingStatus flips a member between voter and observer. Admin only;
// non-admin senders and unknown targets leave the room unchanged. Toggling
// the admin also mirrors the new value into adminIsVoting.
func (s service) ToggleVotingStatus(ctx context.Context, params *ToggleVotingStatusParams) (domain.Room, error) {
	rm, err := s.getRoom(ctx, params.RoomId)
	if err != nil {
		return domain.Room{}, err
	}

	if !rm.IsRoomAdmin(params.SenderName) {
		s.logger.DebugContext(ctx, "toggle from non-admin ignored", "room_id", params.RoomId, "sender", params.SenderName)
		return rm, nil
	}

	i := rm.MemberIndex(params.MemberName)
	if i < 0 {
		s.logger.DebugContext(ctx, "toggle of unknown member ignored", "room_id", params.RoomId, "member", params.MemberName)
		return rm, nil
	}

	rm.Members[i].IsVotingMember = !rm.Members[i].IsVotingMember
	if params.MemberName == rm.Admin {
		rm.AdminIsVoting = rm.Members[i].IsVotingMember
	}

	if err := s.roomRepo.SetRoom(ctx, rm); err != nil {
		return domain.Room{}, err
	}

	return rm, nil
}
