package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"pagecraft/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// EventEmitter pushes events toward an attached frontend. In standalone
// stdio mode the app layer passes a no-op implementation.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// Server is the MCP server for the Pagecraft builder.
// It exposes tools, resources, and prompts so AI agents can drive the
// node graph: insert and move nodes, restyle them, build dynamic
// components with variants, and wire interactions.
type Server struct {
	mcp     *server.MCPServer
	emitter EventEmitter

	// Services (injected from app layer)
	builder  *service.BuilderService
	projects *service.ProjectService

	// Active project context (set by set_active_project tool)
	activeProjectID string
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter  EventEmitter
	Builder  *service.BuilderService
	Projects *service.ProjectService
}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	s := &Server{
		emitter:  deps.Emitter,
		builder:  deps.Builder,
		projects: deps.Projects,
	}

	s.mcp = server.NewMCPServer(
		"pagecraft-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerProjectTools()
	s.registerNodeTools()
	s.registerDynamicTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// flush persists the project immediately so a GUI process sharing the
// database sees the edit on its next poll.
func (s *Server) flush(projectID string) {
	if err := s.builder.Flush(projectID); err != nil {
		log.Printf("[MCP] flush %s: %v", projectID, err)
	}
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// resolveProject returns the projectID from tool args or falls back to
// the active project, and makes sure a builder session is open for it.
func (s *Server) resolveProject(args map[string]any) (string, error) {
	projectID := ""
	if pid, ok := args["projectId"].(string); ok && pid != "" {
		projectID = pid
	} else if s.activeProjectID != "" {
		projectID = s.activeProjectID
	}
	if projectID == "" {
		return "", fmt.Errorf("no projectId provided and no active project set (use set_active_project first)")
	}
	if _, err := s.builder.Open(projectID); err != nil {
		return "", err
	}
	return projectID, nil
}

func boolPtr(v bool) *bool { return &v }

func getFloat(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}
