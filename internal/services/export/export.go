// Package export writes a team assignment as a downloadable table.
// Ratings are not part of any exported row.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mcoot/pelada/internal/model"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for an unsupported export format
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat parses a format name; empty means CSV
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv; charset=utf-8"
}

// Row is one exported line
type Row struct {
	Name     string         `json:"name"`
	Position model.Position `json:"position"`
	Team     model.Team     `json:"team"`
}

// Rows lists the assignment by team, then by name
func Rows(a *model.TeamAssignment) []Row {
	rows := make([]Row, 0, len(a.Entries))
	for _, e := range a.Entries {
		rows = append(rows, Row{
			Name:     e.Player.Name,
			Position: e.Player.Position,
			Team:     e.Team,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Team != rows[j].Team {
			return rows[i].Team < rows[j].Team
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// WriteCSV writes the rows with a name,position,team header
func WriteCSV(w io.Writer, a *model.TeamAssignment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "position", "team"}); err != nil {
		return err
	}
	for _, r := range Rows(a) {
		if err := cw.Write([]string{r.Name, string(r.Position), string(r.Team)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the rows as a JSON array
func WriteJSON(w io.Writer, a *model.TeamAssignment) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Rows(a))
}

// Write writes the assignment in the given format
func Write(w io.Writer, format Format, a *model.TeamAssignment) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, a)
	case FormatJSON:
		return WriteJSON(w, a)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Filename is the suggested download name for the format
func Filename(format Format) string {
	return "teams." + string(format)
}
