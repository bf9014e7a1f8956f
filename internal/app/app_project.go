package app

import (
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"pagecraft/internal/domain"
)

// ============================================================
// Projects
// ============================================================

func (a *App) ListProjects() ([]domain.Project, error) {
	return a.projectSvc.ListProjects()
}

func (a *App) CreateProject(name string) (*domain.Project, error) {
	return a.projectSvc.CreateProject(name)
}

func (a *App) RenameProject(id, name string) error {
	return a.projectSvc.RenameProject(id, name)
}

// GetProjectState opens a project session and returns metadata plus
// the node collection the canvas renders.
func (a *App) GetProjectState(projectID string) (*domain.ProjectState, error) {
	wailsRuntime.LogInfof(a.ctx, "[GetProjectState] loading project: %s", projectID)
	p, err := a.projectSvc.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	nodes, err := a.builder.Open(projectID)
	if err != nil {
		return nil, err
	}
	if nodes == nil {
		nodes = []domain.Node{}
	}
	a.docWatcher.SetProject(projectID)
	return &domain.ProjectState{Project: *p, Nodes: nodes}, nil
}

// CloseProject flushes and drops the project's node session.
func (a *App) CloseProject(projectID string) error {
	a.geometry.Clear()
	return a.builder.Close(projectID)
}

// SaveCamera persists the canvas pan/zoom.
func (a *App) SaveCamera(projectID string, x, y, zoom float64) error {
	return a.projectSvc.SaveCamera(projectID, x, y, zoom)
}

func (a *App) DeleteProject(id string) error {
	if err := a.builder.Close(id); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "close before delete: %v", err)
	}
	if err := a.assetStore.DeleteAssetsByProject(id); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "delete assets: %v", err)
	}
	a.removeAssetDir(id)
	return a.projectSvc.DeleteProject(id)
}
