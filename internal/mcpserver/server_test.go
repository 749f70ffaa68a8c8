package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pelada/internal/api/response"
	"github.com/mcoot/pelada/internal/factory"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/testutil"
)

type ServerSuite struct {
	suite.Suite
	app     *factory.TestApp
	session *mcp.ClientSession
	ctx     context.Context
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	s.ctx = context.Background()
	s.app = factory.NewTestAppWithLimits(model.Limits{MaxOutfield: 4, MaxGoalkeepers: 2})
	s.app.LoadTestPlayers()

	srv := New(s.app.Admission, s.app.Balancer, testutil.NopLogger())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := srv.MCPServer().Connect(s.ctx, serverTransport, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	s.session, err = client.Connect(s.ctx, clientTransport, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = s.session.Close() })
}

func (s *ServerSuite) call(name string, args map[string]any) (string, bool) {
	res, err := s.session.CallTool(s.ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	s.Require().NoError(err)
	s.Require().NotEmpty(res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	s.Require().True(ok)
	return text.Text, res.IsError
}

func (s *ServerSuite) TestListsTools() {
	res, err := s.session.ListTools(s.ctx, nil)
	s.Require().NoError(err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	s.ElementsMatch([]string{"roster_status", "set_presence", "sync_roster", "team_split"}, names)
}

func (s *ServerSuite) TestSetPresenceThenStatus() {
	text, isErr := s.call("set_presence", map[string]any{"name": "Duda", "present": true})
	s.Require().False(isErr, text)

	text, isErr = s.call("roster_status", map[string]any{})
	s.Require().False(isErr, text)

	var status response.RosterStatus
	s.Require().NoError(json.Unmarshal([]byte(text), &status))
	s.Equal(1, status.Goalkeepers)
	s.Require().Len(status.Players, 1)
	s.Equal("Duda", status.Players[0].Name)
}

func (s *ServerSuite) TestSetPresenceReportsErrorCode() {
	text, isErr := s.call("set_presence", map[string]any{"name": "Zeca", "present": true})
	s.True(isErr)
	s.Contains(text, "PLAYER_NOT_FOUND")

	text, isErr = s.call("set_presence", map[string]any{"name": "", "present": true})
	s.True(isErr)
	s.Contains(text, "INVALID_REQUEST")
}

func (s *ServerSuite) TestSetPresenceRequiresName() {
	_, err := s.session.CallTool(s.ctx, &mcp.CallToolParams{
		Name:      "set_presence",
		Arguments: map[string]any{"present": true},
	})
	s.Require().Error(err)
	s.Contains(err.Error(), "name")
}

func (s *ServerSuite) TestSyncRoster() {
	text, isErr := s.call("sync_roster", map[string]any{"present": []string{"Duda", "Gil", "Hugo"}})
	s.Require().False(isErr, text)

	var result response.SyncResult
	s.Require().NoError(json.Unmarshal([]byte(text), &result))
	s.Equal([]string{"Duda", "Gil"}, result.Accepted)
	s.Require().Len(result.Rejected, 1)
	s.Equal("CAPACITY_EXCEEDED", result.Rejected[0].Code)
}

func (s *ServerSuite) TestTeamSplitHidesRatings() {
	_, err := s.app.Admission.Sync(s.ctx, []string{"Ana", "Bea", "Duda", "Gil"})
	s.Require().NoError(err)

	text, isErr := s.call("team_split", map[string]any{"variant": "shuffled", "seed": 7})
	s.Require().False(isErr, text)
	s.NotContains(strings.ToLower(text), "rating")

	var teams response.Teams
	s.Require().NoError(json.Unmarshal([]byte(text), &teams))
	s.Equal("shuffled", teams.Variant)
	s.Require().Len(teams.Teams, 2)
	for _, team := range teams.Teams {
		s.Equal(1, team.Counts.Goalkeeper)
		s.Equal(1, team.Counts.Defense)
	}
}

func (s *ServerSuite) TestTeamSplitUnknownVariant() {
	text, isErr := s.call("team_split", map[string]any{"variant": "greedy"})
	s.True(isErr)
	s.Contains(text, "INVALID_REQUEST")
}
