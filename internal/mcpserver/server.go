package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"fantasy-trends/internal/domain"
	"fantasy-trends/internal/trends"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultToolLimit = 20

// TrendTools is the read side of the trend service exposed as MCP tools.
type TrendTools interface {
	Players(ctx context.Context, req trends.PlayersRequest) (trends.PlayersView, error)
	Alerts(ctx context.Context, req trends.AlertsRequest) (trends.AlertsView, error)
	Sleepers(ctx context.Context, req trends.SleepersRequest) (trends.SleepersView, error)
	Favorites(ctx context.Context, req trends.FavoritesRequest) (trends.FavoritesView, error)
	Dashboard(ctx context.Context, week int) (trends.DashboardView, error)
	Compare(ctx context.Context, req trends.CompareRequest) (trends.CompareView, error)
	FindPlayers(ctx context.Context, name string, limit int) ([]domain.TrendRecord, error)
	PlayerHistory(ctx context.Context, playerID string) (trends.PlayerDetail, error)
}

type PlayersArgs struct {
	Position  string `json:"position,omitempty" jsonschema:"QB, RB, WR, TE, K or DST"`
	Team      string `json:"team,omitempty" jsonschema:"Team code, e.g. BUF"`
	Week      int    `json:"week,omitempty" jsonschema:"Week number (0 = all weeks)"`
	Search    string `json:"search,omitempty" jsonschema:"Case-insensitive player name substring"`
	Sort      string `json:"sort,omitempty" jsonschema:"Sort key (default percent_rostered)"`
	Direction string `json:"direction,omitempty" jsonschema:"asc or desc (default desc)"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum players (default 20)"`
}

type AlertsArgs struct {
	Mode     string `json:"mode,omitempty" jsonschema:"started_change, started_absolute, started_volatility or started_momentum"`
	Severity string `json:"severity,omitempty" jsonschema:"critical, high, medium or low"`
	Position string `json:"position,omitempty" jsonschema:"Position filter"`
	Team     string `json:"team,omitempty" jsonschema:"Team filter"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum alerts (default 20)"`
}

type SleepersArgs struct {
	Mode               string   `json:"mode,omitempty" jsonschema:"high_started, started_trending or balanced (default)"`
	Position           string   `json:"position,omitempty" jsonschema:"Position filter"`
	Team               string   `json:"team,omitempty" jsonschema:"Team filter"`
	MaxPercentRostered *float64 `json:"max_percent_rostered,omitempty" jsonschema:"Roster share cap (default 50)"`
	Limit              int      `json:"limit,omitempty" jsonschema:"Maximum sleepers (default 20)"`
}

type FavoritesArgs struct {
	Position string `json:"position,omitempty" jsonschema:"Position filter"`
	Team     string `json:"team,omitempty" jsonschema:"Team filter"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum players (default 20)"`
}

type DashboardArgs struct {
	Week int `json:"week,omitempty" jsonschema:"Week number (0 = latest)"`
}

type PlayerHistoryArgs struct {
	PlayerID string `json:"player_id,omitempty" jsonschema:"Player id; takes precedence over name"`
	Name     string `json:"name,omitempty" jsonschema:"Player name to search for"`
}

type CompareArgs struct {
	TeamA     string `json:"team_a" jsonschema:"First team code (required)"`
	TeamB     string `json:"team_b" jsonschema:"Second team code (required)"`
	Position  string `json:"position,omitempty" jsonschema:"Position filter"`
	Sort      string `json:"sort,omitempty" jsonschema:"player_name, percent_rostered, percent_started, adds or drops"`
	Direction string `json:"direction,omitempty" jsonschema:"asc or desc"`
}

type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Server struct {
	tracer   trace.Tracer
	trends   TrendTools
	server   *mcp.Server
	registry []ToolInfo
}

func New(tracer trace.Tracer, trendTools TrendTools, version string) *Server {
	s := &Server{
		tracer: tracer,
		trends: trendTools,
		server: mcp.NewServer(&mcp.Implementation{Name: "fantasy-trends", Version: version}, nil),
	}

	addTool(s, &mcp.Tool{
		Name:        "list_players",
		Description: "Current roster and start shares per player, filtered and sorted",
	}, s.listPlayers)
	addTool(s, &mcp.Tool{
		Name:        "list_alerts",
		Description: "Players with the biggest started-share moves, with severity counts",
	}, s.listAlerts)
	addTool(s, &mcp.Tool{
		Name:        "list_sleepers",
		Description: "Low-rostered players ranked by sleeper score",
	}, s.listSleepers)
	addTool(s, &mcp.Tool{
		Name:        "list_favorites",
		Description: "Players whose started share rose, ranked by increase",
	}, s.listFavorites)
	addTool(s, &mcp.Tool{
		Name:        "week_dashboard",
		Description: "Highlights, position averages and waiver activity for one week",
	}, s.weekDashboard)
	addTool(s, &mcp.Tool{
		Name:        "player_history",
		Description: "Full week-by-week history of one player with range metrics",
	}, s.playerHistory)
	addTool(s, &mcp.Tool{
		Name:        "compare_teams",
		Description: "Side-by-side current players of two NFL teams",
	}, s.compareTeams)
	return s
}

func addTool[T any](s *Server, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	s.registry = append(s.registry, ToolInfo{Name: tool.Name, Description: tool.Description})
	name := tool.Name
	mcp.AddTool(s.server, tool, func(ctx context.Context, req *mcp.CallToolRequest, args T) (*mcp.CallToolResult, any, error) {
		ctx, span := s.tracer.Start(ctx, "mcp."+name)
		defer span.End()
		span.SetAttributes(attribute.String("tool", name))
		return handler(ctx, req, args)
	})
}

// MCP returns the underlying server, e.g. for stdio or in-memory transports.
func (s *Server) MCP() *mcp.Server { return s.server }

func (s *Server) Tools() []ToolInfo {
	return append([]ToolInfo(nil), s.registry...)
}

// HTTPHandler serves the tools over streamable HTTP with JSON responses.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

func (s *Server) listPlayers(ctx context.Context, req *mcp.CallToolRequest, args PlayersArgs) (*mcp.CallToolResult, any, error) {
	dir, err := trends.ParseDirection(args.Direction)
	if err != nil {
		return toolError(err), nil, nil
	}
	view, err := s.trends.Players(ctx, trends.PlayersRequest{
		Criteria:  trends.Criteria{Position: upper(args.Position), Team: upper(args.Team), Week: args.Week, SearchText: args.Search},
		SortKey:   args.Sort,
		Direction: dir,
		Limit:     limitOrDefault(args.Limit),
	})
	return toolResult(view, err)
}

func (s *Server) listAlerts(ctx context.Context, req *mcp.CallToolRequest, args AlertsArgs) (*mcp.CallToolResult, any, error) {
	view, err := s.trends.Alerts(ctx, trends.AlertsRequest{
		Criteria: trends.Criteria{Position: upper(args.Position), Team: upper(args.Team), Severity: strings.ToLower(args.Severity)},
		Mode:     trends.AlertMode(strings.ToLower(args.Mode)),
		Latest:   true,
		Limit:    limitOrDefault(args.Limit),
	})
	return toolResult(view, err)
}

func (s *Server) listSleepers(ctx context.Context, req *mcp.CallToolRequest, args SleepersArgs) (*mcp.CallToolResult, any, error) {
	view, err := s.trends.Sleepers(ctx, trends.SleepersRequest{
		Criteria: trends.Criteria{Position: upper(args.Position), Team: upper(args.Team), MaxPercentRostered: args.MaxPercentRostered},
		Mode:     trends.SleeperMode(strings.ToLower(args.Mode)),
		Latest:   true,
		Limit:    limitOrDefault(args.Limit),
	})
	return toolResult(view, err)
}

func (s *Server) listFavorites(ctx context.Context, req *mcp.CallToolRequest, args FavoritesArgs) (*mcp.CallToolResult, any, error) {
	view, err := s.trends.Favorites(ctx, trends.FavoritesRequest{
		Criteria: trends.Criteria{Position: upper(args.Position), Team: upper(args.Team)},
		Latest:   true,
		Limit:    limitOrDefault(args.Limit),
	})
	return toolResult(view, err)
}

func (s *Server) weekDashboard(ctx context.Context, req *mcp.CallToolRequest, args DashboardArgs) (*mcp.CallToolResult, any, error) {
	view, err := s.trends.Dashboard(ctx, args.Week)
	return toolResult(view, err)
}

func (s *Server) playerHistory(ctx context.Context, req *mcp.CallToolRequest, args PlayerHistoryArgs) (*mcp.CallToolResult, any, error) {
	id := strings.TrimSpace(args.PlayerID)
	if id == "" {
		name := strings.TrimSpace(args.Name)
		if name == "" {
			return toolError(fmt.Errorf("player_id or name is required")), nil, nil
		}
		matches, err := s.trends.FindPlayers(ctx, name, 1)
		if err != nil {
			return toolError(err), nil, nil
		}
		if len(matches) == 0 {
			return toolError(fmt.Errorf("no player matching %q", name)), nil, nil
		}
		id = matches[0].PlayerID
	}
	detail, err := s.trends.PlayerHistory(ctx, id)
	return toolResult(detail, err)
}

func (s *Server) compareTeams(ctx context.Context, req *mcp.CallToolRequest, args CompareArgs) (*mcp.CallToolResult, any, error) {
	dir, err := trends.ParseDirection(args.Direction)
	if err != nil {
		return toolError(err), nil, nil
	}
	view, err := s.trends.Compare(ctx, trends.CompareRequest{
		TeamA:     args.TeamA,
		TeamB:     args.TeamB,
		Criteria:  trends.Criteria{Position: upper(args.Position)},
		SortKey:   args.Sort,
		Direction: dir,
	})
	return toolResult(view, err)
}

func toolResult(v any, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSONBytes(b), nil, nil
}

func toolJSONBytes(res []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func limitOrDefault(n int) int {
	if n <= 0 {
		return defaultToolLimit
	}
	return n
}
