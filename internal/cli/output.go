package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/pelada/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		o.println(string(data))
	} else {
		o.println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.PlayerList:
		o.printPlayerList(v)
	case response.RosterStatus:
		o.printRosterStatus(v)
	case response.SyncResult:
		o.printSyncResult(v)
	case response.Teams:
		o.printTeams(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) println(s string) {
	_, _ = fmt.Fprintln(o.w, s)
}

func (o *Output) printPlayerList(l response.PlayerList) {
	o.printf("Players (%d):\n", l.Count)
	for _, p := range l.Players {
		o.printf("  - %s (%s)\n", p.Name, p.Position)
	}
}

func (o *Output) printRosterStatus(s response.RosterStatus) {
	state := "open"
	if s.Closed {
		state = "closed"
	}
	o.printf("Registration: %s\n", state)
	o.printf("Outfield: %d/%d\n", s.Outfield, s.MaxOutfield)
	o.printf("Goalkeepers: %d/%d\n", s.Goalkeepers, s.MaxGoalkeepers)
	o.printf("Remaining: %d\n", s.Remaining)
	o.printf("Players (%d):\n", len(s.Players))
	for _, p := range s.Players {
		o.printf("  - %s (%s) at %s\n", p.Name, p.Position, p.RegisteredAt.Format("2006-01-02 15:04"))
	}
}

func (o *Output) printSyncResult(r response.SyncResult) {
	if len(r.Accepted) > 0 {
		o.printf("Accepted: %s\n", strings.Join(r.Accepted, ", "))
	}
	for _, rej := range r.Rejected {
		o.printf("Rejected: %s: %s (%s)\n", rej.Name, rej.Reason, rej.Code)
	}
	o.println("")
	o.printRosterStatus(r.Roster)
}

func (o *Output) printTeams(t response.Teams) {
	o.printf("Variant: %s\n", t.Variant)
	o.printf("Balance: %.1f (%s)\n", t.Score, t.Verdict)
	for _, team := range t.Teams {
		o.printf("\n%s (%d GK, %d DEF, %d ATK):\n",
			team.Name, team.Counts.Goalkeeper, team.Counts.Defense, team.Counts.Attack)
		for _, p := range team.Players {
			o.printf("  - %s (%s)\n", p.Name, p.Position)
		}
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	o.printf("Status: %s\n", h.Status)
}
