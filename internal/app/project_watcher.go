package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// projectWatcher polls the database for changes to the active project,
// detecting external modifications (e.g. from the MCP standalone
// process) and emitting Wails events so the frontend auto-refreshes.
type projectWatcher struct {
	ctx context.Context
	app *App
	mu  sync.Mutex
	// Active project tracking
	projectID string
	lastDoc   string // document updated_at fingerprint
	// Project list tracking (sidebar refresh)
	lastProjectList string // projects fingerprint (count + max updated_at)
	stopCh          chan struct{}
}

func newProjectWatcher(ctx context.Context, app *App) *projectWatcher {
	return &projectWatcher{ctx: ctx, app: app}
}

// SetProject updates the watched project ID. Called when the user
// opens a project.
func (w *projectWatcher) SetProject(projectID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.projectID = projectID
	// Reset tracked state when switching projects
	w.lastDoc = ""
	w.lastProjectList = ""
}

// Start begins the polling loop. Should be called once on app startup.
func (w *projectWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.pollLoop()
}

// Stop terminates the polling loop.
func (w *projectWatcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
	}
}

func (w *projectWatcher) pollLoop() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-w.stopCh:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *projectWatcher) check() {
	w.mu.Lock()
	projectID := w.projectID
	w.mu.Unlock()

	db := w.app.db.Conn()

	// ── Check document updated_at ───────────────────────
	var docFingerprint string
	if projectID != "" {
		db.QueryRow(`SELECT COALESCE(updated_at, '') FROM documents WHERE project_id = ?`, projectID).Scan(&docFingerprint)
	}

	// ── Check project list changes (sidebar) ────────────
	var projectCount int
	var projectsMaxUpdated string
	var listFingerprint string
	err := db.QueryRow(`SELECT COUNT(*), COALESCE(MAX(updated_at), '') FROM projects`).Scan(&projectCount, &projectsMaxUpdated)
	if err == nil {
		listFingerprint = fmt.Sprintf("%d:%s", projectCount, projectsMaxUpdated)
	}

	w.mu.Lock()
	docChanged := w.lastDoc != "" && docFingerprint != "" && w.lastDoc != docFingerprint
	listChanged := w.lastProjectList != "" && listFingerprint != "" && w.lastProjectList != listFingerprint
	if docFingerprint != "" {
		w.lastDoc = docFingerprint
	}
	if listFingerprint != "" {
		w.lastProjectList = listFingerprint
	}
	w.mu.Unlock()

	// A dirty in-memory session already reflects the edit; the poll is
	// only for writes that bypassed this process.
	if docChanged && w.app.builder.DirtyCount() == 0 {
		wailsRuntime.EventsEmit(w.ctx, "mcp:document-changed", map[string]string{"projectId": projectID})
	}
	if listChanged {
		wailsRuntime.EventsEmit(w.ctx, "mcp:projects-changed", nil)
	}
}
