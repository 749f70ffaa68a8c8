package response

import (
	"sort"
	"time"

	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/services/admission"
	"github.com/mcoot/pelada/internal/services/balancer"
)

// Response types never carry ratings or per-team rating sums.

// Player represents a player base entry in API responses
type Player struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		Name:     p.Name,
		Position: string(p.Position),
	}
}

// PlayersFromModel converts a list of players
func PlayersFromModel(players []model.Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return out
}

// PlayerList is the response for GET /players
type PlayerList struct {
	Players []Player `json:"players"`
	Count   int      `json:"count"`
}

// RosterEntry is one registered player
type RosterEntry struct {
	Name         string    `json:"name"`
	Position     string    `json:"position"`
	RegisteredAt time.Time `json:"registered_at"`
}

// RosterStatus is the current roster and its capacity
type RosterStatus struct {
	Players        []RosterEntry `json:"players"`
	Outfield       int           `json:"outfield"`
	Goalkeepers    int           `json:"goalkeepers"`
	MaxOutfield    int           `json:"max_outfield"`
	MaxGoalkeepers int           `json:"max_goalkeepers"`
	Remaining      int           `json:"remaining"`
	Closed         bool          `json:"closed"`
}

// RosterStatusFromModel converts an admission.Status
func RosterStatusFromModel(s *admission.Status) RosterStatus {
	entries := make([]RosterEntry, len(s.Entries))
	for i, e := range s.Entries {
		entries[i] = RosterEntry{
			Name:         e.Name,
			Position:     string(e.Position),
			RegisteredAt: e.RegisteredAt,
		}
	}
	return RosterStatus{
		Players:        entries,
		Outfield:       s.Outfield,
		Goalkeepers:    s.Goalkeepers,
		MaxOutfield:    s.Limits.MaxOutfield,
		MaxGoalkeepers: s.Limits.MaxGoalkeepers,
		Remaining:      s.Remaining,
		Closed:         s.Closed,
	}
}

// Rejection explains why a presence change was refused
type Rejection struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// SyncResult is the response for POST /roster/sync
type SyncResult struct {
	Accepted []string     `json:"accepted"`
	Rejected []Rejection  `json:"rejected"`
	Roster   RosterStatus `json:"roster"`
}

// PositionCount is the number of players per position on a team
type PositionCount struct {
	Goalkeeper int `json:"goalkeeper"`
	Defense    int `json:"defense"`
	Attack     int `json:"attack"`
}

// Team is one side of the split
type Team struct {
	Name    string        `json:"name"`
	Players []Player      `json:"players"`
	Counts  PositionCount `json:"counts"`
}

// Teams is the response for GET /teams
type Teams struct {
	Variant string  `json:"variant"`
	Score   float64 `json:"score"`
	Verdict string  `json:"verdict"`
	Teams   []Team  `json:"teams"`
}

// TeamsFromSummary converts a balancer summary. Each team lists its
// players by name.
func TeamsFromSummary(s *balancer.Summary) Teams {
	teams := make([]Team, 0, len(model.Teams))
	for _, t := range model.Teams {
		members := PlayersFromModel(s.Assignment.Members(t))
		sort.Slice(members, func(i, j int) bool {
			return members[i].Name < members[j].Name
		})
		c := s.Counts[t]
		teams = append(teams, Team{
			Name:    string(t),
			Players: members,
			Counts: PositionCount{
				Goalkeeper: c.Goalkeeper,
				Defense:    c.Defense,
				Attack:     c.Attack,
			},
		})
	}
	return Teams{
		Variant: string(s.Variant),
		Score:   s.Score,
		Verdict: s.Verdict,
		Teams:   teams,
	}
}
