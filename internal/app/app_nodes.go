package app

import (
	"pagecraft/internal/domain"
	"pagecraft/internal/engine"
)

// ============================================================
// Node graph bindings
// ============================================================

// InsertNode adds a node relative to a target and resyncs viewports.
func (a *App) InsertNode(projectID string, node domain.Node, targetID string, place engine.Placement, inViewport bool) error {
	return a.builder.InsertNode(a.ctx, projectID, node, targetID, place, inViewport)
}

// UpdateNodeStyle patches styles on the given nodes. stateKey routes
// non-positional properties into a dynamic state bag.
func (a *App) UpdateNodeStyle(projectID string, ids []string, patch domain.Style, stateKey string) error {
	return a.builder.UpdateStyle(a.ctx, projectID, ids, patch, stateKey)
}

// MoveNode re-places a node on the free canvas or into a flow.
func (a *App) MoveNode(projectID, id string, inViewport bool, opts engine.MoveOptions) error {
	return a.builder.MoveNode(a.ctx, projectID, id, inViewport, opts)
}

func (a *App) RemoveNode(projectID, id string) error {
	a.geometry.Forget(id)
	return a.builder.RemoveNode(a.ctx, projectID, id)
}

func (a *App) RemoveNodeSubtree(projectID, id string) error {
	a.geometry.Forget(id)
	return a.builder.RemoveSubtree(a.ctx, projectID, id)
}

// DuplicateNode copies a node beside itself. When the frontend omits
// the element size, the measured bounding box stands in.
func (a *App) DuplicateNode(projectID, id string, dir engine.Direction, size engine.Size) (string, error) {
	if size == (engine.Size{}) {
		if box, ok := a.geometry.BoundingBox(id); ok {
			size = engine.Size{Width: box.Width, Height: box.Height}
		}
	}
	return a.builder.DuplicateNode(a.ctx, projectID, id, dir, size)
}

func (a *App) RenameNode(projectID, id, name string) error {
	return a.builder.RenameNode(a.ctx, projectID, id, name)
}

func (a *App) SetNodeLocked(projectID, id string, locked bool) error {
	return a.builder.SetLocked(a.ctx, projectID, id, locked)
}

// MediaToFrame converts an image/video node into a container frame,
// optionally nesting the dropped node inside it.
func (a *App) MediaToFrame(projectID, mediaID, droppedID string) error {
	return a.builder.MediaToFrame(a.ctx, projectID, mediaID, droppedID)
}

// SyncFromViewport promotes one viewport to the source of truth.
func (a *App) SyncFromViewport(projectID, viewportID string) error {
	return a.builder.SyncFromViewport(a.ctx, projectID, viewportID)
}

// VisibleNodes derives the render set for a canvas mode.
func (a *App) VisibleNodes(projectID string, mode engine.Mode, dynamicID, activeViewportID string) ([]domain.Node, error) {
	return a.builder.VisibleNodes(projectID, mode, dynamicID, activeViewportID)
}
