package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"
)

// PassVote is the non-numeric "break" option. It never counts toward the
// numeric average.
const PassVote Vote = "☕"

// VoteOptions is the fixed vote domain, in display order.
var VoteOptions = []Vote{"1", "2", "3", "5", "8", "13", "21", PassVote}

// Vote holds a single vote value. Numeric options are serialized as JSON
// numbers, the pass token as a JSON string, so stored records stay
// round-trippable with the original client format.
type Vote string

func (v Vote) IsNumeric() bool {
	_, err := strconv.ParseFloat(string(v), 64)
	return err == nil
}

func (v Vote) MarshalJSON() ([]byte, error) {
	if v.IsNumeric() {
		return []byte(v), nil
	}

	return json.Marshal(string(v))
}

func (v *Vote) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*v = Vote(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid vote value: %w", err)
	}

	*v = Vote(n.String())
	return nil
}

func IsValidVote(v Vote) bool {
	return slices.Contains(VoteOptions, v)
}

type Member struct {
	Name           string `json:"name"`
	IsAdmin        bool   `json:"isAdmin"`
	IsVotingMember bool   `json:"isVotingMember"`
	Vote           *Vote  `json:"vote"`
}

type Room struct {
	Id            string    `json:"id"`
	Admin         string    `json:"admin"`
	AdminIsVoting bool      `json:"adminIsVoting"`
	Members       []Member  `json:"members"`
	ShowVotes     bool      `json:"showVotes"`
	Topic         string    `json:"topic,omitempty"`
	Created       time.Time `json:"created"`
}

func (r Room) IsFull(membersLimit int) bool {
	return len(r.Members) >= membersLimit
}

func (r Room) FindMember(name string) (Member, bool) {
	i := r.MemberIndex(name)
	if i < 0 {
		return Member{}, false
	}

	return r.Members[i], true
}

// MemberIndex matches by exact name. Name is the member identity key within
// a room, case-sensitive.
func (r Room) MemberIndex(name string) int {
	return slices.IndexFunc(r.Members, func(m Member) bool {
		return m.Name == name
	})
}

func (r Room) IsRoomAdmin(name string) bool {
	return r.Admin == name
}

func (r Room) IsVotingParticipant(name string) bool {
	m, ok := r.FindMember(name)
	return ok && m.IsVotingMember
}
