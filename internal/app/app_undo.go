package app

import (
	"pagecraft/internal/domain"
	"pagecraft/internal/storage"
)

// ============================================================
// Undo Tree
// ============================================================

func (a *App) LoadUndoTree(projectID string) (*storage.UndoTree, error) {
	return a.undos.LoadTree(projectID)
}

func (a *App) PushUndoNode(projectID, nodeID, parentID, label, snapshotJSON string) (*storage.UndoNode, error) {
	return a.undos.PushNode(projectID, nodeID, parentID, label, snapshotJSON)
}

func (a *App) GoToUndoNode(projectID, nodeID string) error {
	return a.undos.GoTo(projectID, nodeID)
}

// RestoreSnapshot replaces the project's node collection with an undo
// snapshot.
func (a *App) RestoreSnapshot(projectID string, nodes []domain.Node) error {
	return a.builder.RestoreSnapshot(a.ctx, projectID, nodes)
}
