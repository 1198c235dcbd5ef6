package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftScope", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftScope workout analytics server. Query per-exercise strength progress, training consistency, body-part volume distribution, and personal records. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetExerciseList, Handler: h.getExerciseList},
		server.ServerTool{Tool: toolGetExerciseHierarchy, Handler: h.getExerciseHierarchy},
		server.ServerTool{Tool: toolGetExerciseProgress, Handler: h.getExerciseProgress},
		server.ServerTool{Tool: toolGetChartData, Handler: h.getChartData},
		server.ServerTool{Tool: toolGetBodyPartDistribution, Handler: h.getBodyPartDistribution},
		server.ServerTool{Tool: toolGetTrainingHeatmap, Handler: h.getTrainingHeatmap},
		server.ServerTool{Tool: toolGetPRTimeline, Handler: h.getPRTimeline},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resExerciseList, Handler: h.exerciseList},
		server.ServerResource{Resource: resPRTimeline, Handler: h.prTimeline},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resExerciseList = mcp.NewResource(
	"liftscope://exercise_list",
	"Exercise List",
	mcp.WithResourceDescription("Every tracked exercise+equipment combination with session counts and most recent session dates"),
	mcp.WithMIMEType("application/json"),
)

var resPRTimeline = mcp.NewResource(
	"liftscope://pr_timeline",
	"PR Timeline",
	mcp.WithResourceDescription("Recent personal-record milestones (max weight at five or more reps)"),
	mcp.WithMIMEType("application/json"),
)
