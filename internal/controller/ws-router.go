package controller

import (
	"github.com/scrumpoker/server/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Handle("ALIVE", wsrouter.Typed(c.handleAlive))

	// round
	mux.Handle("CAST_VOTE", wsrouter.Typed(c.handleCastVote))
	mux.Handle("SET_REVEALED", wsrouter.Typed(c.handleSetRevealed))
	mux.Handle("RESET_ROUND", wsrouter.Typed(c.handleResetRound))
	mux.Handle("SET_TOPIC", wsrouter.Typed(c.handleSetTopic))

	// member
	mux.Handle("TOGGLE_VOTING_STATUS", wsrouter.Typed(c.handleToggleVotingStatus))

	return mux
}
