package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"pagecraft/internal/domain"
	"pagecraft/internal/engine"
)

func (s *Server) registerNodeTools() {
	// ── insert_node ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("insert_node",
		mcp.WithDescription("Insert a node into the page. Placed inside a viewport it flows with the layout and is mirrored to the other breakpoints; placed outside it sits free on the canvas."),
		mcp.WithString("projectId", mcp.Description("Project ID (optional, defaults to active project)")),
		mcp.WithString("type",
			mcp.Description("Node type: frame, text, image or video"),
			mcp.Required(),
		),
		mcp.WithString("name", mcp.Description("Display name (optional)")),
		mcp.WithString("targetId",
			mcp.Description("Node to insert relative to (a viewport ID to place at the top level of a breakpoint)"),
			mcp.Required(),
		),
		mcp.WithString("placement", mcp.Description("inside (default), before or after the target")),
		mcp.WithBoolean("inViewport", mcp.Description("Whether the node belongs to viewport flow (default true)")),
		mcp.WithString("style", mcp.Description("Initial CSS styles as a JSON object, e.g. {\"width\":\"200px\"}")),
		mcp.WithNumber("x", mcp.Description("Canvas X for free placement (optional)")),
		mcp.WithNumber("y", mcp.Description("Canvas Y for free placement (optional)")),
	), s.handleInsertNode)

	// ── update_style ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_style",
		mcp.WithDescription("Patch CSS styles on one or more nodes. Edits on the canonical viewport propagate to the other breakpoints unless a property was overridden there."),
		mcp.WithString("projectId", mcp.Description("Project ID (optional, defaults to active project)")),
		mcp.WithString("nodeIds",
			mcp.Description("Comma-separated node IDs to patch"),
			mcp.Required(),
		),
		mcp.WithString("style",
			mcp.Description("Style patch as a JSON object, e.g. {\"background\":\"#3b82f6\",\"borderRadius\":\"8px\"}"),
			mcp.Required(),
		),
		mcp.WithString("stateKey", mcp.Description("Interaction state bag to write into instead of the base style (e.g. hovered)")),
	), s.handleUpdateStyle)

	// ── move_node ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_node",
		mcp.WithDescription("Move a node into a new parent, reorder it within its flow, or place it freely on the canvas"),
		mcp.WithString("projectId", mcp.Description("Project ID (optional, defaults to active project)")),
		mcp.WithString("nodeId", mcp.Description("Node to move"), mcp.Required()),
		mcp.WithString("targetId", mcp.Description("New parent or sibling (optional for pure canvas moves)")),
		mcp.WithString("placement", mcp.Description("inside, before or after the target")),
		mcp.WithNumber("index", mcp.Description("Child index within the target (default -1 appends)")),
		mcp.WithBoolean("inViewport", mcp.Description("Whether the node stays in viewport flow (default true)")),
		mcp.WithNumber("x", mcp.Description("Canvas X for free placement (optional)")),
		mcp.WithNumber("y", mcp.Description("Canvas Y for free placement (optional)")),
	), s.handleMoveNode)

	// ── duplicate_node ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_node",
		mcp.WithDescription("Duplicate a node beside itself. Duplicating a dynamic component root creates a new variant of it instead of a plain copy."),
		mcp.WithString("projectId", mcp.Description("Project ID (optional, defaults to active project)")),
		mcp.WithString("nodeId", mcp.Description("Node to duplicate"), mcp.Required()),
		mcp.WithString("direction", mcp.Description("Offset direction: left, right (default), top or bottom")),
		mcp.WithNumber("width", mcp.Description("Element width used for the offset (optional)")),
		mcp.WithNumber("height", mcp.Description("Element height used for the offset (optional)")),
	), s.handleDuplicateNode)

	// ── rename_node ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rename_node",
		mcp.WithDescription("Rename a node across all of its viewport copies"),
		mcp.WithString("projectId", mcp.Description("Project ID (optional, defaults to active project)")),
		mcp.WithString("nodeId", mcp.Description("Node to rename"), mcp.Required()),
		mcp.WithString("name", mcp.Description("New name"), mcp.Required()),
	), s.handleRenameNode)

	// ── lock_node ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("lock_node",
		mcp.WithDescription("Lock or unlock a node against canvas editing"),
		mcp.WithString("projectId", mcp.Description("Project ID (optional, defaults to active project)")),
		mcp.WithString("nodeId", mcp.Description("Node to toggle"), mcp.Required()),
		mcp.WithBoolean("locked", mcp.Description("true to lock, false to unlock"), mcp.Required()),
	), s.handleLockNode)

	// ── media_to_frame ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("media_to_frame",
		mcp.WithDescription("Convert an image or video node into a container frame, optionally nesting a dropped node inside it"),
		mcp.WithString("projectId", mcp.Description("Project ID (optional, defaults to active project)")),
		mcp.WithString("mediaId", mcp.Description("Image or video node to convert"), mcp.Required()),
		mcp.WithString("droppedId", mcp.Description("Node to nest inside the new frame (optional)")),
	), s.handleMediaToFrame)

	// ── delete_node (destructive) ──────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_node",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a node. By default children are re-parented; set subtree to remove them too. Viewport copies of the node disappear as well."),
		mcp.WithString("projectId", mcp.Description("Project ID (optional, defaults to active project)")),
		mcp.WithString("nodeId", mcp.Description("Node to delete"), mcp.Required()),
		mcp.WithBoolean("subtree", mcp.Description("Delete descendants too (default false)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteNode)

	// ── visible_nodes ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("visible_nodes",
		mcp.WithDescription("Derive the node set a canvas mode would render: inViewport, outOfViewport, or dynamicMode for editing one component in isolation"),
		mcp.WithString("projectId", mcp.Description("Project ID (optional, defaults to active project)")),
		mcp.WithString("mode", mcp.Description("inViewport (default), outOfViewport or dynamicMode")),
		mcp.WithString("dynamicId", mcp.Description("Component entry node (dynamicMode only)")),
		mcp.WithString("viewportId", mcp.Description("Active viewport to resolve the component in (dynamicMode only)")),
	), s.handleVisibleNodes)
}

func parseStyle(raw string) (domain.Style, error) {
	if raw == "" {
		return nil, nil
	}
	var style domain.Style
	if err := json.Unmarshal([]byte(raw), &style); err != nil {
		return nil, fmt.Errorf("parse style JSON: %w", err)
	}
	return style, nil
}

func (s *Server) handleInsertNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	projectID, err := s.resolveProject(args)
	if err != nil {
		return nil, err
	}

	nodeType := domain.NodeType(req.GetString("type", ""))
	switch nodeType {
	case domain.NodeTypeFrame, domain.NodeTypeText, domain.NodeTypeImage, domain.NodeTypeVideo:
	default:
		return nil, fmt.Errorf("unknown node type %q", nodeType)
	}
	targetID := req.GetString("targetId", "")
	if targetID == "" {
		return nil, fmt.Errorf("targetId is required")
	}

	style, err := parseStyle(req.GetString("style", ""))
	if err != nil {
		return nil, err
	}
	if style == nil {
		style = domain.Style{}
	}

	node := domain.Node{
		ID:    uuid.New().String(),
		Type:  nodeType,
		Name:  req.GetString("name", ""),
		Style: style,
	}
	if _, ok := args["x"]; ok {
		node.Position = &domain.Point{X: getFloat(args, "x", 0), Y: getFloat(args, "y", 0)}
	}

	place := engine.Placement(req.GetString("placement", string(engine.PlaceInside)))
	inViewport := req.GetBool("inViewport", true)

	if err := s.builder.InsertNode(ctx, projectID, node, targetID, place, inViewport); err != nil {
		return nil, fmt.Errorf("insert node: %w", err)
	}
	s.flush(projectID)
	return jsonResult(map[string]string{"nodeId": node.ID})
}

func (s *Server) handleUpdateStyle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	projectID, err := s.resolveProject(args)
	if err != nil {
		return nil, err
	}

	ids := splitIDs(req.GetString("nodeIds", ""))
	if len(ids) == 0 {
		return nil, fmt.Errorf("nodeIds is required")
	}
	patch, err := parseStyle(req.GetString("style", ""))
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("style patch is empty")
	}

	if err := s.builder.UpdateStyle(ctx, projectID, ids, patch, req.GetString("stateKey", "")); err != nil {
		return nil, fmt.Errorf("update style: %w", err)
	}
	s.flush(projectID)
	return textResult(fmt.Sprintf("Styled %d node(s)", len(ids))), nil
}

func (s *Server) handleMoveNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	projectID, err := s.resolveProject(args)
	if err != nil {
		return nil, err
	}

	nodeID := req.GetString("nodeId", "")
	if nodeID == "" {
		return nil, fmt.Errorf("nodeId is required")
	}

	opts := engine.MoveOptions{
		TargetID: req.GetString("targetId", ""),
		Place:    engine.Placement(req.GetString("placement", string(engine.PlaceInside))),
		Index:    int(getFloat(args, "index", -1)),
	}
	if _, ok := args["x"]; ok {
		opts.Position = &domain.Point{X: getFloat(args, "x", 0), Y: getFloat(args, "y", 0)}
	}

	if err := s.builder.MoveNode(ctx, projectID, nodeID, req.GetBool("inViewport", true), opts); err != nil {
		return nil, fmt.Errorf("move node: %w", err)
	}
	s.flush(projectID)
	return textResult(fmt.Sprintf("Moved node %s", nodeID)), nil
}

func (s *Server) handleDuplicateNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	projectID, err := s.resolveProject(args)
	if err != nil {
		return nil, err
	}

	nodeID := req.GetString("nodeId", "")
	if nodeID == "" {
		return nil, fmt.Errorf("nodeId is required")
	}
	dir := engine.Direction(req.GetString("direction", string(engine.DirRight)))
	size := engine.Size{
		Width:  getFloat(args, "width", 0),
		Height: getFloat(args, "height", 0),
	}

	newID, err := s.builder.DuplicateNode(ctx, projectID, nodeID, dir, size)
	if err != nil {
		return nil, fmt.Errorf("duplicate node: %w", err)
	}
	if newID == "" {
		return nil, fmt.Errorf("node %s not found", nodeID)
	}
	s.flush(projectID)
	return jsonResult(map[string]string{"nodeId": newID})
}

func (s *Server) handleRenameNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := s.resolveProject(req.GetArguments())
	if err != nil {
		return nil, err
	}
	nodeID := req.GetString("nodeId", "")
	name := req.GetString("name", "")
	if nodeID == "" || name == "" {
		return nil, fmt.Errorf("nodeId and name are required")
	}
	if err := s.builder.RenameNode(ctx, projectID, nodeID, name); err != nil {
		return nil, fmt.Errorf("rename node: %w", err)
	}
	s.flush(projectID)
	return textResult(fmt.Sprintf("Node %s renamed to %q", nodeID, name)), nil
}

func (s *Server) handleLockNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := s.resolveProject(req.GetArguments())
	if err != nil {
		return nil, err
	}
	nodeID := req.GetString("nodeId", "")
	if nodeID == "" {
		return nil, fmt.Errorf("nodeId is required")
	}
	locked := req.GetBool("locked", false)
	if err := s.builder.SetLocked(ctx, projectID, nodeID, locked); err != nil {
		return nil, fmt.Errorf("lock node: %w", err)
	}
	s.flush(projectID)
	if locked {
		return textResult(fmt.Sprintf("Node %s locked", nodeID)), nil
	}
	return textResult(fmt.Sprintf("Node %s unlocked", nodeID)), nil
}

func (s *Server) handleMediaToFrame(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := s.resolveProject(req.GetArguments())
	if err != nil {
		return nil, err
	}
	mediaID := req.GetString("mediaId", "")
	if mediaID == "" {
		return nil, fmt.Errorf("mediaId is required")
	}
	if err := s.builder.MediaToFrame(ctx, projectID, mediaID, req.GetString("droppedId", "")); err != nil {
		return nil, fmt.Errorf("media to frame: %w", err)
	}
	s.flush(projectID)
	return textResult(fmt.Sprintf("Converted %s into a frame", mediaID)), nil
}

func (s *Server) handleDeleteNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := s.resolveProject(req.GetArguments())
	if err != nil {
		return nil, err
	}
	nodeID := req.GetString("nodeId", "")
	if nodeID == "" {
		return nil, fmt.Errorf("nodeId is required")
	}

	if req.GetBool("subtree", false) {
		err = s.builder.RemoveSubtree(ctx, projectID, nodeID)
	} else {
		err = s.builder.RemoveNode(ctx, projectID, nodeID)
	}
	if err != nil {
		return nil, fmt.Errorf("delete node: %w", err)
	}
	s.flush(projectID)
	return textResult(fmt.Sprintf("Deleted node %s", nodeID)), nil
}

func (s *Server) handleVisibleNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := s.resolveProject(req.GetArguments())
	if err != nil {
		return nil, err
	}
	mode := engine.Mode(req.GetString("mode", string(engine.ModeInViewport)))
	nodes, err := s.builder.VisibleNodes(projectID, mode, req.GetString("dynamicId", ""), req.GetString("viewportId", ""))
	if err != nil {
		return nil, fmt.Errorf("visible nodes: %w", err)
	}
	return jsonResult(nodes)
}
