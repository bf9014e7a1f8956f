package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerProjectTools() {
	// ── list_projects ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List all projects in the workspace"),
	), s.handleListProjects)

	// ── create_project ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_project",
		mcp.WithDescription("Create a new project and make it the active one"),
		mcp.WithString("name",
			mcp.Description("Name of the new project"),
			mcp.Required(),
		),
	), s.handleCreateProject)

	// ── rename_project ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rename_project",
		mcp.WithDescription("Rename a project"),
		mcp.WithString("projectId", mcp.Description("Project ID"), mcp.Required()),
		mcp.WithString("name", mcp.Description("New project name"), mcp.Required()),
	), s.handleRenameProject)

	// ── set_active_project ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_active_project",
		mcp.WithDescription("Set the active project for subsequent tool calls. Tools that accept projectId will default to this."),
		mcp.WithString("projectId",
			mcp.Description("ID of the project to make active"),
			mcp.Required(),
		),
	), s.handleSetActiveProject)

	// ── get_nodes ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_nodes",
		mcp.WithDescription("Get the full node collection of a project, including all viewport copies and dynamic variants"),
		mcp.WithString("projectId", mcp.Description("Project ID (optional, defaults to active project)")),
	), s.handleGetNodes)

	// ── delete_project (destructive) ───────────────────
	s.mcp.AddTool(mcp.NewTool("delete_project",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a project with its document and undo history."),
		mcp.WithString("projectId", mcp.Description("Project ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteProject)
}

func (s *Server) handleListProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := s.projects.ListProjects()
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return jsonResult(projects)
}

func (s *Server) handleCreateProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	project, err := s.projects.CreateProject(name)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	// Auto-set as active project
	s.activeProjectID = project.ID
	s.emitter.Emit(ctx, "mcp:project-activated", map[string]string{"projectId": project.ID})
	return jsonResult(project)
}

func (s *Server) handleRenameProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("projectId", "")
	name := req.GetString("name", "")
	if projectID == "" || name == "" {
		return nil, fmt.Errorf("projectId and name are required")
	}
	if err := s.projects.RenameProject(projectID, name); err != nil {
		return nil, fmt.Errorf("rename project: %w", err)
	}
	return textResult(fmt.Sprintf("Project %s renamed to %q", projectID, name)), nil
}

func (s *Server) handleSetActiveProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("projectId", "")
	if projectID == "" {
		return nil, fmt.Errorf("projectId is required")
	}
	if _, err := s.builder.Open(projectID); err != nil {
		return nil, fmt.Errorf("open project: %w", err)
	}
	s.activeProjectID = projectID
	s.emitter.Emit(ctx, "mcp:project-activated", map[string]string{"projectId": projectID})
	return textResult(fmt.Sprintf("Active project set to %s", projectID)), nil
}

func (s *Server) handleGetNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := s.resolveProject(req.GetArguments())
	if err != nil {
		return nil, err
	}
	nodes, err := s.builder.Nodes(projectID)
	if err != nil {
		return nil, fmt.Errorf("get nodes: %w", err)
	}
	return jsonResult(nodes)
}

func (s *Server) handleDeleteProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("projectId", "")
	if projectID == "" {
		return nil, fmt.Errorf("projectId is required")
	}
	if err := s.builder.Close(projectID); err != nil {
		return nil, fmt.Errorf("close project: %w", err)
	}
	if err := s.projects.DeleteProject(projectID); err != nil {
		return nil, fmt.Errorf("delete project: %w", err)
	}
	if s.activeProjectID == projectID {
		s.activeProjectID = ""
	}
	return textResult(fmt.Sprintf("Project %s deleted", projectID)), nil
}
