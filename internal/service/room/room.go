package room

import (
	"context"
	"time"

	"github.com/scrumpoker/server/internal/domain"
)

type CreateRoomParams struct {
	Name           string
	IsVotingMember bool
}

// CreateRoom builds a room with the creator as its single admin member and
// persists it. adminIsVoting mirrors the admin member's voting flag.
func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) (domain.Room, error) {
	rm := domain.Room{
		Id:            s.generator.GenerateRandomString(roomIdLength),
		Admin:         params.Name,
		AdminIsVoting: params.IsVotingMember,
		ShowVotes:     false,
		Created:       time.Now().UTC(),
		Members: []domain.Member{{
			Name:           params.Name,
			IsAdmin:        true,
			IsVotingMember: params.IsVotingMember,
		}},
	}

	s.logger.DebugContext(ctx, "creating room", "room_id", rm.Id, "admin", params.Name)
	if err := s.roomRepo.SetRoom(ctx, rm); err != nil {
		return domain.Room{}, err
	}

	return rm, nil
}

type JoinRoomParams struct {
	RoomId string
	Name   string
}

// JoinRoom appends a new voting member. Joining with a name that is already
// in the room is an idempotent rejoin: the existing member, including vote
// and role, is untouched, and the capacity check does not apply.
func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (domain.Room, error) {
	rm, err := s.getRoom(ctx, params.RoomId)
	if err != nil {
		return domain.Room{}, err
	}

	if _, ok := rm.FindMember(params.Name); ok {
		return rm, nil
	}

	if rm.IsFull(s.membersLimit) {
		return domain.Room{}, ErrRoomFull
	}

	rm.Members = append(rm.Members, domain.Member{
		Name:           params.Name,
		IsAdmin:        false,
		IsVotingMember: true,
	})

	if err := s.roomRepo.SetRoom(ctx, rm); err != nil {
		return domain.Room{}, err
	}

	return rm, nil
}
