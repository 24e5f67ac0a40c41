// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"sync/atomic"

	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Service is the part of the health service exposed as tools.
type Service interface {
	ComputeHealthScore(ctx context.Context, project string) schema.HealthScoreResult
	ProjectTrends(ctx context.Context, project string, limit int) schema.ProjectTrends
	Contributors(ctx context.Context, project string, topN int) (schema.ContributorsResult, error)
}

// toolState is swapped as a whole when the config is reloaded.
type toolState struct {
	svc        Service
	trendLimit int
	topN       int
}

// Server wraps the MCP server and the service its tools call.
type Server struct {
	mcp   *server.MCPServer
	state atomic.Pointer[toolState]
}

// NewServer initializes and configures the repohealth MCP server without starting it.
func NewServer(svc Service, cfg *contract.Config) *Server {
	s := &Server{
		mcp: server.NewMCPServer(
			"Repohealth Server",
			"1.0.0",
			server.WithLogging(),
		),
	}
	s.Reload(svc, cfg)

	s.mcp.AddTool(mcp.NewTool("get_health_score",
		mcp.WithDescription("Compute the composite health score, grade and dimension breakdown of a GitHub project."),
		mcp.WithString("project", mcp.Description("Project as owner/repo or owner_repo."), mcp.Required()),
	), s.handleGetHealthScore)

	s.mcp.AddTool(mcp.NewTool("get_project_trends",
		mcp.WithDescription("Reconstruct the cumulative star and fork series of a project from daily deltas."),
		mcp.WithString("project", mcp.Description("Project as owner/repo or owner_repo."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Number of most recent days per series.")),
	), s.handleGetProjectTrends)

	s.mcp.AddTool(mcp.NewTool("get_contributors",
		mcp.WithDescription("Rank the top pushers of a project with their share of all pushes."),
		mcp.WithString("project", mcp.Description("Project as owner/repo or owner_repo."), mcp.Required()),
		mcp.WithNumber("top", mcp.Description("Number of contributors to return, from 1 to 50.")),
	), s.handleGetContributors)

	return s
}

// Reload points every tool at svc and the defaults of cfg. In-flight calls finish on the previous service.
func (s *Server) Reload(svc Service, cfg *contract.Config) {
	s.state.Store(&toolState{
		svc:        svc,
		trendLimit: cfg.TrendLimit,
		topN:       cfg.TopN,
	})
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves the tools over stdin and stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}
