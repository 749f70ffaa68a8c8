package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pelada/internal/model"
)

func sampleAssignment() *model.TeamAssignment {
	return &model.TeamAssignment{Entries: []model.Assignment{
		{Player: model.Player{Name: "Caio", Position: model.PositionAttack, Rating: 3}, Team: model.TeamA},
		{Player: model.Player{Name: "Ana", Position: model.PositionDefense, Rating: 5}, Team: model.TeamA},
		{Player: model.Player{Name: "Duda", Position: model.PositionGoalkeeper, Rating: 7.25}, Team: model.TeamB},
		{Player: model.Player{Name: "Bea", Position: model.PositionDefense, Rating: 5}, Team: model.TeamB},
	}}
}

func TestRowsOrderedByTeamThenName(t *testing.T) {
	rows := Rows(sampleAssignment())

	assert.Equal(t, []Row{
		{Name: "Ana", Position: model.PositionDefense, Team: model.TeamA},
		{Name: "Caio", Position: model.PositionAttack, Team: model.TeamA},
		{Name: "Bea", Position: model.PositionDefense, Team: model.TeamB},
		{Name: "Duda", Position: model.PositionGoalkeeper, Team: model.TeamB},
	}, rows)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleAssignment()))

	assert.Equal(t, "name,position,team\n"+
		"Ana,Defense,Team A\n"+
		"Caio,Attack,Team A\n"+
		"Bea,Defense,Team B\n"+
		"Duda,Goalkeeper,Team B\n", buf.String())
}

func TestWriteJSONHasNoRating(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleAssignment()))

	assert.NotContains(t, buf.String(), "rating")
	assert.NotContains(t, buf.String(), "7.25")

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 4)
	assert.Equal(t, map[string]string{"name": "Ana", "position": "Defense", "team": "Team A"}, rows[0])
}

func TestWriteEmptyAssignment(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, &model.TeamAssignment{}))
	assert.Equal(t, "name,position,team\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, FormatJSON, &model.TeamAssignment{}))
	assert.JSONEq(t, "[]", buf.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	assert.Equal(t, "application/json", f.ContentType())
	assert.Equal(t, "teams.json", Filename(f))

	_, err = ParseFormat("xlsx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
