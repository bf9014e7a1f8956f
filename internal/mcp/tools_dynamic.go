package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pagecraft/internal/domain"
)

func (s *Server) registerDynamicTools() {
	// ── mark_dynamic ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("mark_dynamic",
		mcp.WithDescription("Promote a node to a dynamic component. Its viewport counterparts join the same component family."),
		mcp.WithString("projectId", mcp.Description("Project ID (optional, defaults to active project)")),
		mcp.WithString("nodeId", mcp.Description("Node to promote"), mcp.Required()),
	), s.handleMarkDynamic)

	// ── create_variant ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_variant",
		mcp.WithDescription("Add a named variant to a dynamic component (e.g. Hover, Pressed). The variant is replicated to every viewport."),
		mcp.WithString("projectId", mcp.Description("Project ID (optional, defaults to active project)")),
		mcp.WithString("dynamicId", mcp.Description("Dynamic component root"), mcp.Required()),
		mcp.WithString("name", mcp.Description("Variant name (optional)")),
	), s.handleCreateVariant)

	// ── set_connection ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_connection",
		mcp.WithDescription("Wire an interaction between dynamic nodes, e.g. click on the base switches to a variant. One connection per target and trigger across the family; a repeat call rewires it."),
		mcp.WithString("projectId", mcp.Description("Project ID (optional, defaults to active project)")),
		mcp.WithString("sourceId", mcp.Description("Node the interaction starts from"), mcp.Required()),
		mcp.WithString("targetId", mcp.Description("Node the interaction transitions to"), mcp.Required()),
		mcp.WithString("type", mcp.Description("Trigger: click, hover or mouseLeave"), mcp.Required()),
	), s.handleSetConnection)

	// ── enter_dynamic_mode ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("enter_dynamic_mode",
		mcp.WithDescription("Stage a dynamic component for isolated editing, detaching it from page flow while remembering its placement"),
		mcp.WithString("projectId", mcp.Description("Project ID (optional, defaults to active project)")),
		mcp.WithString("nodeId", mcp.Description("Component root to stage"), mcp.Required()),
	), s.handleEnterDynamicMode)

	// ── exit_dynamic_mode ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("exit_dynamic_mode",
		mcp.WithDescription("Restore a staged dynamic component to its saved page placement"),
		mcp.WithString("projectId", mcp.Description("Project ID (optional, defaults to active project)")),
		mcp.WithString("nodeId", mcp.Description("Component root to restore"), mcp.Required()),
	), s.handleExitDynamicMode)

	// ── sync_variants ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("sync_variants",
		mcp.WithDescription("Replay a structural edit made under one dynamic node across its whole component family"),
		mcp.WithString("projectId", mcp.Description("Project ID (optional, defaults to active project)")),
		mcp.WithString("nodeId", mcp.Description("Node whose subtree changed"), mcp.Required()),
	), s.handleSyncVariants)

	// ── sync_from_viewport ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("sync_from_viewport",
		mcp.WithDescription("Promote one viewport to the source of truth and rebuild the others from it, discarding their structural divergence"),
		mcp.WithString("projectId", mcp.Description("Project ID (optional, defaults to active project)")),
		mcp.WithString("viewportId", mcp.Description("Viewport to promote"), mcp.Required()),
	), s.handleSyncFromViewport)
}

func (s *Server) handleMarkDynamic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := s.resolveProject(req.GetArguments())
	if err != nil {
		return nil, err
	}
	nodeID := req.GetString("nodeId", "")
	if nodeID == "" {
		return nil, fmt.Errorf("nodeId is required")
	}
	if err := s.builder.MarkDynamic(ctx, projectID, nodeID); err != nil {
		return nil, fmt.Errorf("mark dynamic: %w", err)
	}
	s.flush(projectID)
	return textResult(fmt.Sprintf("Node %s is now a dynamic component", nodeID)), nil
}

func (s *Server) handleCreateVariant(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := s.resolveProject(req.GetArguments())
	if err != nil {
		return nil, err
	}
	dynamicID := req.GetString("dynamicId", "")
	if dynamicID == "" {
		return nil, fmt.Errorf("dynamicId is required")
	}
	newID, err := s.builder.CreateVariant(ctx, projectID, dynamicID, req.GetString("name", ""))
	if err != nil {
		return nil, fmt.Errorf("create variant: %w", err)
	}
	if newID == "" {
		return nil, fmt.Errorf("node %s is not a dynamic component", dynamicID)
	}
	s.flush(projectID)
	return jsonResult(map[string]string{"nodeId": newID})
}

func (s *Server) handleSetConnection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := s.resolveProject(req.GetArguments())
	if err != nil {
		return nil, err
	}
	sourceID := req.GetString("sourceId", "")
	targetID := req.GetString("targetId", "")
	if sourceID == "" || targetID == "" {
		return nil, fmt.Errorf("sourceId and targetId are required")
	}
	connType := domain.ConnectionType(req.GetString("type", ""))
	switch connType {
	case domain.ConnectionClick, domain.ConnectionHover, domain.ConnectionMouseLeave:
	default:
		return nil, fmt.Errorf("unknown connection type %q", connType)
	}
	if err := s.builder.SetConnection(ctx, projectID, sourceID, targetID, connType); err != nil {
		return nil, fmt.Errorf("set connection: %w", err)
	}
	s.flush(projectID)
	return textResult(fmt.Sprintf("Connected %s to %s on %s", sourceID, targetID, connType)), nil
}

func (s *Server) handleEnterDynamicMode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := s.resolveProject(req.GetArguments())
	if err != nil {
		return nil, err
	}
	nodeID := req.GetString("nodeId", "")
	if nodeID == "" {
		return nil, fmt.Errorf("nodeId is required")
	}
	if err := s.builder.EnterDynamicMode(ctx, projectID, nodeID); err != nil {
		return nil, fmt.Errorf("enter dynamic mode: %w", err)
	}
	s.flush(projectID)
	return textResult(fmt.Sprintf("Component %s staged for editing", nodeID)), nil
}

func (s *Server) handleExitDynamicMode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := s.resolveProject(req.GetArguments())
	if err != nil {
		return nil, err
	}
	nodeID := req.GetString("nodeId", "")
	if nodeID == "" {
		return nil, fmt.Errorf("nodeId is required")
	}
	if err := s.builder.ExitDynamicMode(ctx, projectID, nodeID); err != nil {
		return nil, fmt.Errorf("exit dynamic mode: %w", err)
	}
	s.flush(projectID)
	return textResult(fmt.Sprintf("Component %s restored", nodeID)), nil
}

func (s *Server) handleSyncVariants(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := s.resolveProject(req.GetArguments())
	if err != nil {
		return nil, err
	}
	nodeID := req.GetString("nodeId", "")
	if nodeID == "" {
		return nil, fmt.Errorf("nodeId is required")
	}
	if err := s.builder.SyncVariants(ctx, projectID, nodeID); err != nil {
		return nil, fmt.Errorf("sync variants: %w", err)
	}
	s.flush(projectID)
	return textResult(fmt.Sprintf("Synced family of %s", nodeID)), nil
}

func (s *Server) handleSyncFromViewport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := s.resolveProject(req.GetArguments())
	if err != nil {
		return nil, err
	}
	viewportID := req.GetString("viewportId", "")
	if viewportID == "" {
		return nil, fmt.Errorf("viewportId is required")
	}
	if err := s.builder.SyncFromViewport(ctx, projectID, viewportID); err != nil {
		return nil, fmt.Errorf("sync from viewport: %w", err)
	}
	s.flush(projectID)
	return textResult(fmt.Sprintf("Viewports rebuilt from %s", viewportID)), nil
}
