package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pelada/internal/api"
	"github.com/mcoot/pelada/internal/api/response"
	"github.com/mcoot/pelada/internal/cli"
	"github.com/mcoot/pelada/internal/config"
	"github.com/mcoot/pelada/internal/factory"
	"github.com/mcoot/pelada/internal/mcpserver"
)

const playerBaseCSV = `Nome,Posição,Nota
Ana,Defesa,5
Bea,Defesa,5
Caio,Ataque,3
Duda,Goleiro,0
Edu,Atacante,4
Fabi,Defesa,2
Gil,Goleiro,3
Hugo,Goleiro,2
`

// cliRunner runs the CLI in-process against a server
type cliRunner struct {
	serverURL string
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(fullArgs)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func (r *cliRunner) runJSON(t *testing.T, result any, args ...string) {
	t.Helper()
	output, err := r.run(args...)
	require.NoError(t, err, output)
	require.NoError(t, json.Unmarshal([]byte(output), result), output)
}

// startTestServer serves the API and MCP endpoint from a CSV player base
func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "players.csv")
	require.NoError(t, os.WriteFile(path, []byte(playerBaseCSV), 0o600))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	factoryCfg, err := factory.ConfigFromEnv(&config.Config{
		StorageType:     factory.StorageTypeMemory,
		PlayerBasePath:  path,
		PlayerBaseSheet: "Banco",
		MaxOutfield:     4,
		MaxGoalkeepers:  2,
		BalancerVariant: "alternating",
	}, logger)
	require.NoError(t, err)

	app, err := factory.New(context.Background(), factoryCfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	require.NoError(t, app.PlayerBase.Load(context.Background()))

	router := api.NewRouter(api.RouterConfig{
		Logger:     logger,
		PlayerBase: app.PlayerBase,
		Admission:  app.Admission,
		Balancer:   app.Balancer,
		MCPHandler: mcpserver.New(app.Admission, app.Balancer, logger).Handler(),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func TestCLI_HealthCheck(t *testing.T) {
	server := startTestServer(t)
	runner := &cliRunner{serverURL: server.URL}

	output, err := runner.run("health")
	require.NoError(t, err)
	assert.Contains(t, output, "ok")
}

func TestCLI_PlayersList(t *testing.T) {
	server := startTestServer(t)
	runner := &cliRunner{serverURL: server.URL}

	var list response.PlayerList
	runner.runJSON(t, &list, "players", "list")
	assert.Equal(t, 8, list.Count)

	output, err := runner.run("players", "reload")
	require.NoError(t, err)
	assert.NotContains(t, strings.ToLower(output), "rating")
}

func TestCLI_MatchDayFlow(t *testing.T) {
	server := startTestServer(t)
	runner := &cliRunner{serverURL: server.URL}

	// Check players in one by one
	var status response.RosterStatus
	runner.runJSON(t, &status, "roster", "in", "Duda")
	assert.Equal(t, 1, status.Goalkeepers)
	runner.runJSON(t, &status, "roster", "in", "Gil")
	assert.Equal(t, 2, status.Goalkeepers)

	// Third goalkeeper is refused
	output, err := runner.run("roster", "in", "Hugo")
	require.Error(t, err)
	assert.Contains(t, output, "CAPACITY_EXCEEDED")

	// Sync the outfield players
	var result response.SyncResult
	runner.runJSON(t, &result, "roster", "sync", "Duda", "Gil", "Ana", "Bea", "Caio", "Edu", "Fabi")
	assert.Equal(t, []string{"Ana", "Bea", "Caio", "Edu"}, result.Accepted)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "Fabi", result.Rejected[0].Name)
	assert.Equal(t, 0, result.Roster.Remaining)

	// Close registration
	runner.runJSON(t, &status, "roster", "close")
	assert.True(t, status.Closed)
	output, err = runner.run("roster", "out", "Ana")
	require.Error(t, err)
	assert.Contains(t, output, "REGISTRATION_CLOSED")

	// Draw teams
	var teams response.Teams
	runner.runJSON(t, &teams, "teams", "show", "--variant", "shuffled", "--seed", "3")
	assert.Equal(t, "shuffled", teams.Variant)
	require.Len(t, teams.Teams, 2)
	for _, team := range teams.Teams {
		assert.Equal(t, 1, team.Counts.Goalkeeper)
		assert.Len(t, team.Players, 3)
	}

	// Export
	output, err = runner.run("teams", "export", "--variant", "shuffled", "--seed", "3")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(output), "\n")
	assert.Equal(t, "name,position,team", lines[0])
	assert.Len(t, lines, 7)

	file := filepath.Join(t.TempDir(), "teams.json")
	_, err = runner.run("teams", "export", "--format", "json", "--file", file)
	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"team"`)

	// Clear for next week, allowed while closed
	_, err = runner.run("roster", "clear")
	require.NoError(t, err)
	runner.runJSON(t, &status, "roster", "open")
	assert.False(t, status.Closed)
	assert.Empty(t, status.Players)
}

func TestCLI_TextOutput(t *testing.T) {
	server := startTestServer(t)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs([]string{"--server", server.URL, "roster", "in", "Ana"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Registration: open")
	assert.Contains(t, out.String(), "Outfield: 1/4")
	assert.Contains(t, out.String(), "Ana (Defense)")
}

func TestCLI_ErrorHandling(t *testing.T) {
	server := startTestServer(t)
	runner := &cliRunner{serverURL: server.URL}

	output, err := runner.run("roster", "in", "Zeca")
	require.Error(t, err)
	assert.Contains(t, output, "PLAYER_NOT_FOUND")

	output, err = runner.run("teams", "show", "--variant", "greedy")
	require.Error(t, err)
	assert.Contains(t, output, "INVALID_REQUEST")

	_, err = runner.run("roster", "in")
	require.Error(t, err)

	// Several names: the admitted ones stay registered
	output, err = runner.run("roster", "in", "Duda", "Gil", "Hugo")
	require.Error(t, err)
	assert.Contains(t, output, "Rejected: Hugo")
	assert.Contains(t, output, "1 of 3 changes rejected")

	unreachable := &cliRunner{serverURL: "http://127.0.0.1:1"}
	_, err = unreachable.run("health")
	require.Error(t, err)
}

func TestMCP_OverHTTP(t *testing.T) {
	server := startTestServer(t)
	ctx := context.Background()

	client := mcp.NewClient(&mcp.Implementation{Name: "e2e", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: server.URL + "/mcp"}, nil)
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "set_presence",
		Arguments: map[string]any{"name": "Ana", "present": true},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	resp, err := http.Get(server.URL + "/api/v1/roster")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var status response.RosterStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	require.Len(t, status.Players, 1)
	assert.Equal(t, "Ana", status.Players[0].Name)
}
