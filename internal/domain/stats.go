package domain

import (
	"fmt"
	"strconv"
)

type VoteStats struct {
	Counts      map[string]int `json:"counts"`
	Average     string         `json:"average"`
	TotalVotes  int            `json:"totalVotes"`
	TotalVoters int            `json:"totalVoters"`
}

// ComputeVoteStats derives the round statistics from a room snapshot.
// Observers are excluded entirely; the pass token is excluded from the
// average. Returns nil when no votes have been cast.
func ComputeVoteStats(room Room) *VoteStats {
	var votingMembers []Member
	for _, m := range room.Members {
		if m.IsVotingMember {
			votingMembers = append(votingMembers, m)
		}
	}

	var votes []Vote
	for _, m := range votingMembers {
		if m.Vote != nil {
			votes = append(votes, *m.Vote)
		}
	}

	if len(votes) == 0 {
		return nil
	}

	counts := make(map[string]int, len(VoteOptions))
	for _, option := range VoteOptions {
		counts[string(option)] = 0
	}
	for _, v := range votes {
		counts[string(v)]++
	}

	var sum float64
	var numericVotes int
	for _, v := range votes {
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			continue
		}

		sum += f
		numericVotes++
	}

	average := 0.0
	if numericVotes > 0 {
		average = sum / float64(numericVotes)
	}

	return &VoteStats{
		Counts:      counts,
		Average:     fmt.Sprintf("%.1f", average),
		TotalVotes:  len(votes),
		TotalVoters: len(votingMembers),
	}
}

// PercentFor returns the chart bar width for an option.
func (s VoteStats) PercentFor(option Vote) float64 {
	if s.TotalVoters == 0 {
		return 0
	}

	return float64(s.Counts[string(option)]) / float64(s.TotalVoters) * 100
}
