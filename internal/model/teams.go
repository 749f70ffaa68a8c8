package model

// Team labels one side of the split
type Team string

const (
	TeamA Team = "Team A"
	TeamB Team = "Team B"
)

// Teams lists both teams in display order
var Teams = []Team{TeamA, TeamB}

// Other returns the opposing team
func (t Team) Other() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// Assignment places one player on a team
type Assignment struct {
	Player Player
	Team   Team
}

// TeamAssignment is the result of splitting the registered players.
// It is derived on demand and never persisted.
type TeamAssignment struct {
	Entries []Assignment
}

// TeamOf returns the team of the named player
func (a *TeamAssignment) TeamOf(name string) (Team, bool) {
	for _, e := range a.Entries {
		if e.Player.Name == name {
			return e.Team, true
		}
	}
	return "", false
}

// Members returns the players assigned to a team, in assignment order
func (a *TeamAssignment) Members(team Team) []Player {
	var players []Player
	for _, e := range a.Entries {
		if e.Team == team {
			players = append(players, e.Player)
		}
	}
	return players
}

// Len returns the number of assigned players
func (a *TeamAssignment) Len() int {
	return len(a.Entries)
}

// PositionCount is the number of players per position on a team
type PositionCount struct {
	Goalkeeper int
	Defense    int
	Attack     int
}

// Add increments the counter for a position
func (c *PositionCount) Add(pos Position) {
	switch pos {
	case PositionGoalkeeper:
		c.Goalkeeper++
	case PositionDefense:
		c.Defense++
	default:
		c.Attack++
	}
}

// Total returns the number of players counted
func (c PositionCount) Total() int {
	return c.Goalkeeper + c.Defense + c.Attack
}
