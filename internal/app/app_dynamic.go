package app

import "pagecraft/internal/domain"

// ============================================================
// Dynamic components and variants
// ============================================================

// MarkDynamic promotes a node (and its viewport counterparts) to a
// dynamic component family.
func (a *App) MarkDynamic(projectID, id string) error {
	return a.builder.MarkDynamic(a.ctx, projectID, id)
}

// CreateVariant adds a named variant to a dynamic component.
func (a *App) CreateVariant(projectID, dynamicID, name string) (string, error) {
	return a.builder.CreateVariant(a.ctx, projectID, dynamicID, name)
}

// SetConnection upserts an interaction edge on a dynamic node.
func (a *App) SetConnection(projectID, sourceID, targetID string, connType domain.ConnectionType) error {
	return a.builder.SetConnection(a.ctx, projectID, sourceID, targetID, connType)
}

// EnterDynamicMode stages a component for isolated editing.
func (a *App) EnterDynamicMode(projectID, id string) error {
	return a.builder.EnterDynamicMode(a.ctx, projectID, id)
}

// ExitDynamicMode restores a staged component to its saved placement.
func (a *App) ExitDynamicMode(projectID, id string) error {
	return a.builder.ExitDynamicMode(a.ctx, projectID, id)
}

// SyncVariants replays an edit across its dynamic family.
func (a *App) SyncVariants(projectID, nodeID string) error {
	return a.builder.SyncVariants(a.ctx, projectID, nodeID)
}
