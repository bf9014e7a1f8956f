package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"pagecraft/internal/assets"
	"pagecraft/internal/service"
	"pagecraft/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context

	db          *storage.DB
	projects    *storage.ProjectStore
	docs        *storage.DocumentStore
	undos       *storage.UndoStore
	assetStore  *storage.AssetStore
	builder     *service.BuilderService
	projectSvc  *service.ProjectService
	autosave    *service.Autosave
	assetWatch  *assets.Watcher
	docWatcher  *projectWatcher
	windowSizes *service.WindowSettingsService

	geometry *geometryCache
}

// New creates a new App.
func New() *App {
	return &App{geometry: newGeometryCache()}
}

// Emit implements service.EventEmitter over the Wails event bus.
func (a *App) Emit(_ context.Context, event string, data any) {
	if a.ctx == nil {
		return
	}
	wailsRuntime.EventsEmit(a.ctx, event, data)
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "pagecraft")
	dbPath := filepath.Join(dataDir, "pagecraft.db")

	db, err := storage.New(dbPath, filepath.Join(dataDir, "assets"))
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open database: %v", err)
		return
	}

	a.db = db
	a.projects = storage.NewProjectStore(db)
	a.docs = storage.NewDocumentStore(db)
	a.undos = storage.NewUndoStore(db)
	a.assetStore = storage.NewAssetStore(db)
	a.windowSizes = service.NewWindowSettingsService(db)

	a.builder = service.NewBuilderService(a.docs, a)
	a.projectSvc = service.NewProjectService(a.projects, a.docs, a.undos)

	a.autosave = service.NewAutosave(a.builder)
	if err := a.autosave.Start(""); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to start autosave: %v", err)
	}

	a.assetWatch = assets.NewWatcher(db.AssetsDir(), a)
	if err := a.assetWatch.Start(ctx); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to start asset watcher: %v", err)
	}

	// Detects document writes from the standalone MCP process so the
	// frontend refreshes.
	a.docWatcher = newProjectWatcher(ctx, a)
	a.docWatcher.Start()
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.docWatcher != nil {
		a.docWatcher.Stop()
	}
	if a.assetWatch != nil {
		a.assetWatch.Stop()
	}
	if a.autosave != nil {
		stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		a.autosave.Stop(stopCtx)
		cancel()
	}
	if a.builder != nil {
		if err := a.builder.FlushAll(); err != nil {
			wailsRuntime.LogErrorf(ctx, "Final flush failed: %v", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}

// ============================================================
// Window size persistence
// ============================================================

// LoadWindowSize returns the persisted window dimensions.
func (a *App) LoadWindowSize() service.WindowSize {
	return a.windowSizes.LoadWindowSize()
}

// SaveWindowSize persists the current window dimensions.
func (a *App) SaveWindowSize(width, height int) error {
	return a.windowSizes.SaveWindowSize(width, height)
}
