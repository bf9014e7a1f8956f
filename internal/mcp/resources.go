package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	// ── pagecraft://projects ───────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"pagecraft://projects",
		"All Projects",
		mcp.WithMIMEType("application/json"),
	), s.handleProjectsResource)

	// ── pagecraft://project/{projectId}/nodes ──────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"pagecraft://project/{projectId}/nodes",
			"Node Graph of a Project",
		),
		s.handleProjectNodesResource,
	)
}

func (s *Server) handleProjectsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	projects, err := s.projects.ListProjects()
	if err != nil {
		return nil, err
	}

	type projectSummary struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	var summaries []projectSummary
	for _, p := range projects {
		summaries = append(summaries, projectSummary{ID: p.ID, Name: p.Name})
	}

	data, _ := json.MarshalIndent(summaries, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "pagecraft://projects",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleProjectNodesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	projectID := extractProjectIDFromURI(uri)
	if projectID == "" {
		return nil, fmt.Errorf("could not extract projectId from URI: %s", uri)
	}

	if _, err := s.builder.Open(projectID); err != nil {
		return nil, err
	}
	nodes, err := s.builder.Nodes(projectID)
	if err != nil {
		return nil, err
	}

	data, _ := json.MarshalIndent(nodes, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// extractProjectIDFromURI extracts the project ID from
// "pagecraft://project/{id}/nodes".
func extractProjectIDFromURI(uri string) string {
	const prefix = "pagecraft://project/"
	const suffix = "/nodes"
	if len(uri) > len(prefix)+len(suffix) {
		middle := uri[len(prefix):]
		if idx := indexOf(middle, '/'); idx > 0 {
			return middle[:idx]
		}
	}
	return ""
}

func indexOf(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}
