package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// projectArg returns the trimmed project argument or a tool error result.
func projectArg(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	project := strings.TrimSpace(request.GetString("project", ""))
	if project == "" {
		return "", mcp.NewToolResultError(contract.ErrEmptyProject.Error())
	}
	return project, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleGetHealthScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, errResult := projectArg(request)
	if errResult != nil {
		return errResult, nil
	}

	state := s.state.Load()
	return jsonResult(state.svc.ComputeHealthScore(ctx, project))
}

func (s *Server) handleGetProjectTrends(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, errResult := projectArg(request)
	if errResult != nil {
		return errResult, nil
	}

	state := s.state.Load()
	limit := request.GetInt("limit", state.trendLimit)
	if limit <= 0 || limit > contract.MaxTrendLimit {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be between 1 and %d, got %d", contract.MaxTrendLimit, limit)), nil
	}
	return jsonResult(state.svc.ProjectTrends(ctx, project, limit))
}

// contributorsPayload carries the chart next to the ranked list.
type contributorsPayload struct {
	schema.ContributorsResult
	Chart schema.ContributorChart `json:"chart"`
}

func (s *Server) handleGetContributors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, errResult := projectArg(request)
	if errResult != nil {
		return errResult, nil
	}

	state := s.state.Load()
	result, err := state.svc.Contributors(ctx, project, request.GetInt("top", state.topN))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid contributors request: %v", err)), nil
	}
	return jsonResult(contributorsPayload{ContributorsResult: result, Chart: result.Chart()})
}
