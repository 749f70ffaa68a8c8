// Package mcpserver exposes the roster and team split as MCP tools so an
// assistant can check players in and draw teams.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcoot/pelada/internal/api/apierr"
	"github.com/mcoot/pelada/internal/api/response"
	"github.com/mcoot/pelada/internal/services/admission"
	"github.com/mcoot/pelada/internal/services/balancer"
)

const (
	serverName    = "pelada"
	serverVersion = "0.1.0"
)

// SetPresenceArgs are the arguments of the set_presence tool
type SetPresenceArgs struct {
	Name    string `json:"name" jsonschema:"Player name as it appears in the player base (required)"`
	Present bool   `json:"present" jsonschema:"true to check in, false to check out"`
}

// SyncRosterArgs are the arguments of the sync_roster tool
type SyncRosterArgs struct {
	Present []string `json:"present" jsonschema:"Every player who should be on the roster"`
}

// TeamSplitArgs are the arguments of the team_split tool
type TeamSplitArgs struct {
	Variant string  `json:"variant,omitempty" jsonschema:"alternating or shuffled (default: server setting)"`
	Seed    *uint64 `json:"seed,omitempty" jsonschema:"Seed for a reproducible shuffled split"`
}

// EmptyArgs is used by tools without arguments
type EmptyArgs struct{}

// Server wires the roster services into an MCP server
type Server struct {
	server    *mcp.Server
	admission *admission.Controller
	balancer  *balancer.Service
	logger    *slog.Logger
}

// New creates the MCP server and registers its tools
func New(admission *admission.Controller, balancer *balancer.Service, logger *slog.Logger) *Server {
	s := &Server{
		server: mcp.NewServer(
			&mcp.Implementation{
				Name:    serverName,
				Version: serverVersion,
			},
			nil,
		),
		admission: admission,
		balancer:  balancer,
		logger:    logger.With(slog.String("component", "mcp")),
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "roster_status",
		Description: "Registered players, position counts and remaining slots",
	}, s.rosterStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_presence",
		Description: "Check a player in or out of the roster",
	}, s.setPresence)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sync_roster",
		Description: "Make the roster match a list of present players and report rejections",
	}, s.syncRoster)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "team_split",
		Description: "Split registered players into Team A and Team B with a balance score",
	}, s.teamSplit)

	return s
}

// MCPServer returns the underlying SDK server
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}

// Handler serves the tools over streamable HTTP
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

func (s *Server) rosterStatus(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, any, error) {
	status, err := s.admission.Status(ctx)
	if err != nil {
		return s.toolError("roster_status", err), nil, nil
	}
	return toolMarshal(response.RosterStatusFromModel(status))
}

func (s *Server) setPresence(ctx context.Context, req *mcp.CallToolRequest, args SetPresenceArgs) (*mcp.CallToolResult, any, error) {
	if args.Name == "" {
		return s.toolError("set_presence", apierr.NewInvalidRequestError("name is required")), nil, nil
	}
	if err := s.admission.SetPresence(ctx, args.Name, args.Present); err != nil {
		return s.toolError("set_presence", err), nil, nil
	}
	return s.rosterStatus(ctx, req, EmptyArgs{})
}

func (s *Server) syncRoster(ctx context.Context, req *mcp.CallToolRequest, args SyncRosterArgs) (*mcp.CallToolResult, any, error) {
	result, err := s.admission.Sync(ctx, args.Present)
	if err != nil {
		return s.toolError("sync_roster", err), nil, nil
	}
	status, err := s.admission.Status(ctx)
	if err != nil {
		return s.toolError("sync_roster", err), nil, nil
	}

	out := response.SyncResult{
		Accepted: result.Accepted,
		Rejected: make([]response.Rejection, len(result.Rejected)),
		Roster:   response.RosterStatusFromModel(status),
	}
	if out.Accepted == nil {
		out.Accepted = []string{}
	}
	for i, rej := range result.Rejected {
		out.Rejected[i] = response.Rejection{
			Name:   rej.Name,
			Code:   apierr.Code(rej.Reason),
			Reason: apierr.Message(rej.Reason),
		}
	}
	return toolMarshal(out)
}

func (s *Server) teamSplit(ctx context.Context, req *mcp.CallToolRequest, args TeamSplitArgs) (*mcp.CallToolResult, any, error) {
	opts := balancer.Options{Seed: args.Seed}
	if args.Variant != "" {
		variant, err := balancer.ParseVariant(args.Variant)
		if err != nil {
			return s.toolError("team_split", err), nil, nil
		}
		opts.Variant = variant
	}

	players, err := s.admission.Registered(ctx)
	if err != nil {
		return s.toolError("team_split", err), nil, nil
	}
	summary, err := s.balancer.Summarize(players, opts)
	if err != nil {
		return s.toolError("team_split", err), nil, nil
	}
	return toolMarshal(response.TeamsFromSummary(summary))
}

// toolError reports err to the caller using the same codes as the HTTP API
func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	code := apierr.Code(err)
	if code == apierr.CodeInternalError {
		s.logger.Error("tool failed", slog.String("tool", tool), slog.Any("error", err))
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %s: %s", code, apierr.Message(err))},
		},
	}
}

func toolMarshal(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}
