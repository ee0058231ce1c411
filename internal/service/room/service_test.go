package room

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrumpoker/server/internal/domain"
	roomRedis "github.com/scrumpoker/server/internal/repository/room/redis"
)

func newTestService(t *testing.T, cfg *Config) *service {
	t.Helper()
	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	repo := roomRedis.NewRepo(rc, time.Hour, slog.Default())

	return NewService(repo, cfg, slog.Default())
}

func defaultTestService(t *testing.T) *service {
	return newTestService(t, &Config{MembersLimit: 25, PollInterval: 2 * time.Second})
}

func TestCreateRoom(t *testing.T) {
	service := defaultTestService(t)
	ctx := context.Background()

	rm, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "Alice", IsVotingMember: true})
	require.NoError(t, err)

	assert.Len(t, rm.Id, 10, "room id must be 10 characters")
	assert.Equal(t, "Alice", rm.Admin)
	assert.True(t, rm.AdminIsVoting)
	assert.False(t, rm.ShowVotes)
	assert.False(t, rm.Created.IsZero())

	require.Len(t, rm.Members, 1, "creator auto-joins")
	assert.True(t, rm.Members[0].IsAdmin)
	assert.Equal(t, rm.AdminIsVoting, rm.Members[0].IsVotingMember)
	assert.Nil(t, rm.Members[0].Vote)

	stored, err := service.GetRoom(ctx, rm.Id)
	require.NoError(t, err)
	assert.Equal(t, rm, stored)
}

func TestCreateRoomNonVotingAdmin(t *testing.T) {
	service := defaultTestService(t)

	rm, err := service.CreateRoom(context.Background(), &CreateRoomParams{Name: "Alice", IsVotingMember: false})
	require.NoError(t, err)
	assert.False(t, rm.AdminIsVoting)
	assert.False(t, rm.Members[0].IsVotingMember)
}

func TestJoinRoom(t *testing.T) {
	service := defaultTestService(t)
	ctx := context.Background()

	created, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "Alice", IsVotingMember: true})
	require.NoError(t, err)

	rm, err := service.JoinRoom(ctx, &JoinRoomParams{RoomId: created.Id, Name: "Bob"})
	require.NoError(t, err)
	require.Len(t, rm.Members, 2)
	assert.Equal(t, "Bob", rm.Members[1].Name)
	assert.False(t, rm.Members[1].IsAdmin)
	assert.True(t, rm.Members[1].IsVotingMember)
	assert.Nil(t, rm.Members[1].Vote)
}

func TestJoinRoomNotFound(t *testing.T) {
	service := defaultTestService(t)

	_, err := service.JoinRoom(context.Background(), &JoinRoomParams{RoomId: "missing", Name: "Bob"})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestJoinRoomIdempotentRejoin(t *testing.T) {
	service := defaultTestService(t)
	ctx := context.Background()

	created, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "Alice", IsVotingMember: true})
	require.NoError(t, err)
	_, err = service.JoinRoom(ctx, &JoinRoomParams{RoomId: created.Id, Name: "Bob"})
	require.NoError(t, err)
	voted, err := service.CastVote(ctx, &CastVoteParams{RoomId: created.Id, SenderName: "Bob", Vote: "8"})
	require.NoError(t, err)

	rejoined, err := service.JoinRoom(ctx, &JoinRoomParams{RoomId: created.Id, Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, voted, rejoined, "rejoin must not change the room, vote and role included")
}

func TestJoinRoomFull(t *testing.T) {
	service := newTestService(t, &Config{MembersLimit: 25, PollInterval: 2 * time.Second})
	ctx := context.Background()

	created, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "member0", IsVotingMember: true})
	require.NoError(t, err)
	for i := 1; i < 25; i++ {
		_, err := service.JoinRoom(ctx, &JoinRoomParams{RoomId: created.Id, Name: fmt.Sprintf("member%d", i)})
		require.NoError(t, err)
	}

	_, err = service.JoinRoom(ctx, &JoinRoomParams{RoomId: created.Id, Name: "member25"})
	assert.ErrorIs(t, err, ErrRoomFull)

	rm, err := service.GetRoom(ctx, created.Id)
	require.NoError(t, err)
	assert.Len(t, rm.Members, 25, "failed join must not change the member count")

	// rejoin with an existing name still succeeds at capacity
	rm, err = service.JoinRoom(ctx, &JoinRoomParams{RoomId: created.Id, Name: "member13"})
	require.NoError(t, err)
	assert.Len(t, rm.Members, 25)
}

func TestCastVote(t *testing.T) {
	service := defaultTestService(t)
	ctx := context.Background()

	created, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "Alice", IsVotingMember: true})
	require.NoError(t, err)

	rm, err := service.CastVote(ctx, &CastVoteParams{RoomId: created.Id, SenderName: "Alice", Vote: "5"})
	require.NoError(t, err)
	require.NotNil(t, rm.Members[0].Vote)
	assert.Equal(t, domain.Vote("5"), *rm.Members[0].Vote)

	// re-voting replaces the previous vote
	rm, err = service.CastVote(ctx, &CastVoteParams{RoomId: created.Id, SenderName: "Alice", Vote: "13"})
	require.NoError(t, err)
	assert.Equal(t, domain.Vote("13"), *rm.Members[0].Vote)
}

func TestCastVoteNonMemberIgnored(t *testing.T) {
	service := defaultTestService(t)
	ctx := context.Background()

	created, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "Alice", IsVotingMember: true})
	require.NoError(t, err)

	rm, err := service.CastVote(ctx, &CastVoteParams{RoomId: created.Id, SenderName: "Mallory", Vote: "21"})
	require.NoError(t, err, "a vote from a non-member is silently ignored")
	assert.Equal(t, created, rm)
}

func TestAdminOpsFromNonAdminAreNoOps(t *testing.T) {
	service := defaultTestService(t)
	ctx := context.Background()

	created, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "Alice", IsVotingMember: true})
	require.NoError(t, err)
	joined, err := service.JoinRoom(ctx, &JoinRoomParams{RoomId: created.Id, Name: "Bob"})
	require.NoError(t, err)

	rm, err := service.SetRevealed(ctx, &SetRevealedParams{RoomId: created.Id, SenderName: "Bob", Revealed: true})
	require.NoError(t, err)
	assert.Equal(t, joined, rm)

	rm, err = service.ResetRound(ctx, &ResetRoundParams{RoomId: created.Id, SenderName: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, joined, rm)

	rm, err = service.SetTopic(ctx, &SetTopicParams{RoomId: created.Id, SenderName: "Bob", Topic: "hijack"})
	require.NoError(t, err)
	assert.Equal(t, joined, rm)

	rm, err = service.ToggleVotingStatus(ctx, &ToggleVotingStatusParams{RoomId: created.Id, SenderName: "Bob", MemberName: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, joined, rm)
}

func TestSetTopicVerbatim(t *testing.T) {
	service := defaultTestService(t)
	ctx := context.Background()

	created, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "Alice", IsVotingMember: true})
	require.NoError(t, err)

	rm, err := service.SetTopic(ctx, &SetTopicParams{RoomId: created.Id, SenderName: "Alice", Topic: "  story 42  "})
	require.NoError(t, err)
	assert.Equal(t, "  story 42  ", rm.Topic, "topic is stored verbatim")
}

func TestToggleVotingStatus(t *testing.T) {
	service := defaultTestService(t)
	ctx := context.Background()

	created, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "Alice", IsVotingMember: true})
	require.NoError(t, err)
	_, err = service.JoinRoom(ctx, &JoinRoomParams{RoomId: created.Id, Name: "Bob"})
	require.NoError(t, err)

	rm, err := service.ToggleVotingStatus(ctx, &ToggleVotingStatusParams{RoomId: created.Id, SenderName: "Alice", MemberName: "Bob"})
	require.NoError(t, err)
	assert.False(t, rm.Members[1].IsVotingMember)
	assert.True(t, rm.AdminIsVoting, "toggling another member must not touch adminIsVoting")

	rm, err = service.ToggleVotingStatus(ctx, &ToggleVotingStatusParams{RoomId: created.Id, SenderName: "Alice", MemberName: "Bob"})
	require.NoError(t, err)
	assert.True(t, rm.Members[1].IsVotingMember)
}

func TestToggleVotingStatusAdminMirrorsRoom(t *testing.T) {
	service := defaultTestService(t)
	ctx := context.Background()

	created, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "Alice", IsVotingMember: true})
	require.NoError(t, err)

	rm, err := service.ToggleVotingStatus(ctx, &ToggleVotingStatusParams{RoomId: created.Id, SenderName: "Alice", MemberName: "Alice"})
	require.NoError(t, err)
	assert.False(t, rm.Members[0].IsVotingMember)
	assert.False(t, rm.AdminIsVoting, "adminIsVoting must mirror the admin member")
}

func TestToggleVotingStatusUnknownTarget(t *testing.T) {
	service := defaultTestService(t)
	ctx := context.Background()

	created, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "Alice", IsVotingMember: true})
	require.NoError(t, err)

	rm, err := service.ToggleVotingStatus(ctx, &ToggleVotingStatusParams{RoomId: created.Id, SenderName: "Alice", MemberName: "Nobody"})
	require.NoError(t, err)
	assert.Equal(t, created, rm)
}

func TestPlanningRound(t *testing.T) {
	service := defaultTestService(t)
	ctx := context.Background()

	created, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "Alice", IsVotingMember: true})
	require.NoError(t, err)
	assert.Equal(t, "Alice", created.Admin)
	assert.True(t, created.AdminIsVoting)
	require.Len(t, created.Members, 1)

	joined, err := service.JoinRoom(ctx, &JoinRoomParams{RoomId: created.Id, Name: "Bob"})
	require.NoError(t, err)
	require.Len(t, joined.Members, 2)

	_, err = service.CastVote(ctx, &CastVoteParams{RoomId: created.Id, SenderName: "Bob", Vote: "5"})
	require.NoError(t, err)
	voted, err := service.CastVote(ctx, &CastVoteParams{RoomId: created.Id, SenderName: "Alice", Vote: "8"})
	require.NoError(t, err)

	// votes are aggregated even while hidden
	assert.False(t, voted.ShowVotes)
	stats := domain.ComputeVoteStats(voted)
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.TotalVotes)
	assert.Equal(t, 2, stats.TotalVoters)
	assert.Equal(t, "6.5", stats.Average)

	revealed, err := service.SetRevealed(ctx, &SetRevealedParams{RoomId: created.Id, SenderName: "Alice", Revealed: true})
	require.NoError(t, err)
	assert.True(t, revealed.ShowVotes)

	reset, err := service.ResetRound(ctx, &ResetRoundParams{RoomId: created.Id, SenderName: "Alice"})
	require.NoError(t, err)
	assert.False(t, reset.ShowVotes)
	for _, m := range reset.Members {
		assert.Nil(t, m.Vote)
	}
	assert.Nil(t, domain.ComputeVoteStats(reset), "no stats after reset")
}

func TestRememberName(t *testing.T) {
	service := defaultTestService(t)
	ctx := context.Background()

	name, err := service.RememberedName(ctx)
	require.NoError(t, err)
	assert.Empty(t, name)

	require.NoError(t, service.RememberName(ctx, "Alice"))

	name, err = service.RememberedName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)
}
