package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("build_section",
		mcp.WithPromptDescription("Guide through building a responsive page section out of frames and text"),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("What the section is about"),
			mcp.RequiredArgument(),
		),
	), s.handleBuildSectionPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("interactive_component",
		mcp.WithPromptDescription("Turn a node into a dynamic component with variants and interaction wiring"),
		mcp.WithArgument("nodeId",
			mcp.ArgumentDescription("Node to make interactive"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("behavior",
			mcp.ArgumentDescription("Desired behavior (e.g. 'highlight on hover', 'expand on click')"),
			mcp.RequiredArgument(),
		),
	), s.handleInteractiveComponentPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("responsive_review",
		mcp.WithPromptDescription("Review how a page adapts across the desktop, tablet and mobile viewports"),
		mcp.WithArgument("focus",
			mcp.ArgumentDescription("What to pay attention to (e.g. typography, spacing)"),
			mcp.RequiredArgument(),
		),
	), s.handleResponsiveReviewPrompt)
}

func (s *Server) handleBuildSectionPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := req.Params.Arguments["topic"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Build a page section about: %s", topic),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Build a page section about "%s" in the active project. Follow these steps:

1. Use get_nodes to find the viewport roots, then insert a frame (insert_node with placement "inside" the widest viewport) as the section container
2. Give the container layout styles with update_style: display flex, a sensible flexDirection, gap and padding
3. Insert text nodes for the heading and body copy, and image frames where media belongs
4. Check the result on the narrower breakpoints with visible_nodes and adjust per-viewport styles where the shared layout does not hold up

Edits on the widest viewport propagate automatically; only restyle the narrow copies where they genuinely need to differ.`, topic),
				},
			},
		},
	}, nil
}

func (s *Server) handleInteractiveComponentPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	nodeID := req.Params.Arguments["nodeId"]
	behavior := req.Params.Arguments["behavior"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Make %s interactive: %s", nodeID, behavior),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Make node "%s" interactive with this behavior: %s. Follow these steps:

1. Use mark_dynamic to promote the node into a dynamic component
2. Use create_variant to add a variant for each interaction state the behavior needs
3. Restyle each variant with update_style so it visually expresses its state
4. Wire the transitions with set_connection (click, hover, mouseLeave) from the base to the variants and back
5. Use sync_variants after any structural edit inside the component so all variants stay aligned

The component spans every viewport; variants and connections you create replicate automatically.`, nodeID, behavior),
				},
			},
		},
	}, nil
}

func (s *Server) handleResponsiveReviewPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	focus := req.Params.Arguments["focus"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Responsive review focused on: %s", focus),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Review how the active project adapts across its viewports, focusing on %s. Follow these steps:

1. Use get_nodes to list the viewport roots and their widths
2. For each viewport, walk its subtree and compare the styles of corresponding nodes (they share a sharedId)
3. Point out places where the shared desktop styling breaks down on narrow widths
4. Apply fixes with update_style targeting only the narrow viewport's copies, so the override sticks and later desktop edits do not clobber it

Summarize what you changed per viewport when done.`, focus),
				},
			},
		},
	}, nil
}
