package app

import (
	"sync"

	"pagecraft/internal/engine"
)

// ============================================================
// Geometry reporting
// ============================================================

// geometryCache holds the bounding boxes the frontend has measured.
// The backend has no DOM; real pixel geometry only exists in the
// webview, so the canvas reports it here and the engine reads it back
// through the GeometryProvider interface.
type geometryCache struct {
	mu    sync.RWMutex
	boxes map[string]engine.Rect
}

func newGeometryCache() *geometryCache {
	return &geometryCache{boxes: make(map[string]engine.Rect)}
}

// BoundingBox implements engine.GeometryProvider.
func (g *geometryCache) BoundingBox(nodeID string) (engine.Rect, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	box, ok := g.boxes[nodeID]
	return box, ok
}

func (g *geometryCache) Report(nodeID string, box engine.Rect) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.boxes[nodeID] = box
}

func (g *geometryCache) Forget(nodeID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.boxes, nodeID)
}

func (g *geometryCache) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.boxes = make(map[string]engine.Rect)
}

// ReportGeometry records one measured bounding box. The frontend calls
// this after layout settles for nodes it expects the backend to reason
// about (duplication offsets, drop targets).
func (a *App) ReportGeometry(nodeID string, box engine.Rect) {
	a.geometry.Report(nodeID, box)
}

// ReportGeometryBatch records many boxes in one call.
func (a *App) ReportGeometryBatch(boxes map[string]engine.Rect) {
	for id, box := range boxes {
		a.geometry.Report(id, box)
	}
}
