package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	mcpserver "pagecraft/internal/mcp"
	"pagecraft/internal/service"
	"pagecraft/internal/storage"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// It initializes storage, services, and runs the MCP server until interrupted.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "pagecraft")
	dbPath := filepath.Join(dataDir, "pagecraft.db")

	db, err := storage.New(dbPath, filepath.Join(dataDir, "assets"))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	emitter := noopEmitter{}

	docs := storage.NewDocumentStore(db)
	builder := service.NewBuilderService(docs, emitter)
	projects := service.NewProjectService(storage.NewProjectStore(db), docs, storage.NewUndoStore(db))

	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter:  emitter,
		Builder:  builder,
		Projects: projects,
	})

	// Every tool call flushes before returning, so the GUI process (if
	// one is running) picks the change up through its document poll.
	log.Println("[MCP] Starting standalone stdio server...")
	if err := mcpSrv.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
