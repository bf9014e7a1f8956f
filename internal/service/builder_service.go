package service

import (
	"context"
	"fmt"
	"sync"

	"pagecraft/internal/domain"
	"pagecraft/internal/engine"
)

// ─────────────────────────────────────────────────────────────
// Builder Service — per-project node graph sessions
// ─────────────────────────────────────────────────────────────

// Event names emitted toward the frontend.
const (
	EventNodesChanged   = "builder:nodes-changed"
	EventVariantCreated = "builder:variant-created"
)

// NodesChangedPayload accompanies EventNodesChanged.
type NodesChangedPayload struct {
	ProjectID string        `json:"projectId"`
	Nodes     []domain.Node `json:"nodes"`
}

// BuilderService owns one engine.Store per open project and routes
// every mutation through it. Structural edits are followed by the
// matching synchronization pass before the result is announced, so the
// frontend always receives a consistent cross-viewport state.
//
// All mutations for a project run under one lock; the engine itself is
// single-threaded by design.
type BuilderService struct {
	docs    domain.DocumentStore
	emitter EventEmitter

	mu   sync.Mutex
	open map[string]*session
}

type session struct {
	store *engine.Store
	dirty bool
}

// NewBuilderService creates a BuilderService.
func NewBuilderService(docs domain.DocumentStore, emitter EventEmitter) *BuilderService {
	return &BuilderService{
		docs:    docs,
		emitter: emitter,
		open:    make(map[string]*session),
	}
}

// Open loads a project's node collection into a live session. Opening
// an already-open project returns its current in-memory state, not the
// persisted one.
func (s *BuilderService) Open(projectID string) ([]domain.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.open[projectID]; ok {
		return sess.store.Nodes(), nil
	}

	nodes, err := s.docs.LoadNodes(projectID)
	if err != nil {
		return nil, fmt.Errorf("open project %s: %w", projectID, err)
	}
	store := engine.NewStore()
	store.Load(nodes)
	s.open[projectID] = &session{store: store}
	return store.Nodes(), nil
}

// Close flushes a dirty session and drops it.
func (s *BuilderService) Close(projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.open[projectID]
	if !ok {
		return nil
	}
	if sess.dirty {
		if err := s.docs.SaveNodes(projectID, sess.store.Nodes()); err != nil {
			return fmt.Errorf("flush on close: %w", err)
		}
	}
	delete(s.open, projectID)
	return nil
}

// Nodes returns the current collection snapshot for an open project.
func (s *BuilderService) Nodes(projectID string) ([]domain.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionOf(projectID)
	if err != nil {
		return nil, err
	}
	return sess.store.Nodes(), nil
}

// Flush persists a project's collection if it has unsaved edits.
func (s *BuilderService) Flush(projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked(projectID)
}

// FlushAll persists every dirty open project. Used by autosave and
// shutdown; the first storage error aborts the sweep.
func (s *BuilderService) FlushAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.open {
		if err := s.flushLocked(id); err != nil {
			return err
		}
	}
	return nil
}

// DirtyCount reports how many open projects carry unsaved edits.
func (s *BuilderService) DirtyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sess := range s.open {
		if sess.dirty {
			n++
		}
	}
	return n
}

func (s *BuilderService) flushLocked(projectID string) error {
	sess, ok := s.open[projectID]
	if !ok || !sess.dirty {
		return nil
	}
	if err := s.docs.SaveNodes(projectID, sess.store.Nodes()); err != nil {
		return fmt.Errorf("save project %s: %w", projectID, err)
	}
	sess.dirty = false
	return nil
}

func (s *BuilderService) sessionOf(projectID string) (*session, error) {
	sess, ok := s.open[projectID]
	if !ok {
		return nil, fmt.Errorf("project %s is not open", projectID)
	}
	return sess, nil
}

// mutate runs one mutation, resyncs, marks the session dirty and
// announces the new state.
func (s *BuilderService) mutate(ctx context.Context, projectID string, fn func(*engine.Store)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionOf(projectID)
	if err != nil {
		return err
	}
	fn(sess.store)
	sess.dirty = true
	s.emitter.Emit(ctx, EventNodesChanged, NodesChangedPayload{
		ProjectID: projectID,
		Nodes:     sess.store.Nodes(),
	})
	return nil
}

// resyncAround picks the follow-up pass for a structural edit at id:
// edits inside a dynamic system replay across the family, everything
// else reconciles the derived viewports.
func resyncAround(store *engine.Store, id string) {
	if n, ok := store.Node(id); ok && n.PartOfDynamicSystem() {
		store.SyncVariants(id)
		return
	}
	store.SyncViewports()
}

// ── Mutations ──────────────────────────────────────────────

// InsertNode adds a node relative to a target and resyncs.
func (s *BuilderService) InsertNode(ctx context.Context, projectID string, node domain.Node, targetID string, place engine.Placement, inViewport bool) error {
	return s.mutate(ctx, projectID, func(store *engine.Store) {
		store.Insert(node, targetID, place, inViewport)
		resyncAround(store, node.ID)
	})
}

// UpdateStyle patches styles on a result set. Style propagation is
// handled inside the engine; no structural resync is needed.
func (s *BuilderService) UpdateStyle(ctx context.Context, projectID string, ids []string, patch domain.Style, stateKey string) error {
	return s.mutate(ctx, projectID, func(store *engine.Store) {
		store.UpdateStyle(ids, patch, stateKey)
	})
}

// MoveNode re-places a node and resyncs around its landing spot.
func (s *BuilderService) MoveNode(ctx context.Context, projectID, id string, inViewport bool, opts engine.MoveOptions) error {
	return s.mutate(ctx, projectID, func(store *engine.Store) {
		store.Move(id, inViewport, opts)
		resyncAround(store, id)
	})
}

// RemoveNode deletes a single node, then reconciles viewports so
// derived copies of it disappear too.
func (s *BuilderService) RemoveNode(ctx context.Context, projectID, id string) error {
	return s.mutate(ctx, projectID, func(store *engine.Store) {
		store.Remove(id)
		store.SyncViewports()
	})
}

// RemoveSubtree deletes a node with its descendants.
func (s *BuilderService) RemoveSubtree(ctx context.Context, projectID, id string) error {
	return s.mutate(ctx, projectID, func(store *engine.Store) {
		store.RemoveSubtree(id)
		store.SyncViewports()
	})
}

// DuplicateNode copies a node; the new root id travels on the event
// payload for selection handoff.
func (s *BuilderService) DuplicateNode(ctx context.Context, projectID, id string, dir engine.Direction, size engine.Size) (string, error) {
	var newID string
	err := s.mutate(ctx, projectID, func(store *engine.Store) {
		newID = store.Duplicate(id, dir, size)
	})
	if err == nil && newID != "" {
		s.emitter.Emit(ctx, EventVariantCreated, map[string]string{"projectId": projectID, "nodeId": newID})
	}
	return newID, err
}

// CreateVariant adds a named variant to a dynamic component.
func (s *BuilderService) CreateVariant(ctx context.Context, projectID, dynamicID, name string) (string, error) {
	var newID string
	err := s.mutate(ctx, projectID, func(store *engine.Store) {
		newID = store.CreateVariant(dynamicID, name)
	})
	return newID, err
}

// SetConnection upserts an interaction edge on a dynamic node.
func (s *BuilderService) SetConnection(ctx context.Context, projectID, sourceID, targetID string, t domain.ConnectionType) error {
	return s.mutate(ctx, projectID, func(store *engine.Store) {
		store.SetConnection(sourceID, targetID, t)
	})
}

// MediaToFrame converts an image or video node into a container frame.
func (s *BuilderService) MediaToFrame(ctx context.Context, projectID, mediaID, droppedID string) error {
	return s.mutate(ctx, projectID, func(store *engine.Store) {
		store.MediaToFrame(mediaID, droppedID)
		resyncAround(store, mediaID)
	})
}

// SetLocked toggles the advisory lock flag.
func (s *BuilderService) SetLocked(ctx context.Context, projectID, id string, locked bool) error {
	return s.mutate(ctx, projectID, func(store *engine.Store) {
		store.SetLocked(id, locked)
	})
}

// RenameNode renames a node across its identity group.
func (s *BuilderService) RenameNode(ctx context.Context, projectID, id, name string) error {
	return s.mutate(ctx, projectID, func(store *engine.Store) {
		store.Rename(id, name)
	})
}

// MarkDynamic promotes a node to a dynamic component root.
func (s *BuilderService) MarkDynamic(ctx context.Context, projectID, id string) error {
	return s.mutate(ctx, projectID, func(store *engine.Store) {
		store.MarkDynamic(id)
	})
}

// EnterDynamicMode stages a component for isolated editing.
func (s *BuilderService) EnterDynamicMode(ctx context.Context, projectID, id string) error {
	return s.mutate(ctx, projectID, func(store *engine.Store) {
		store.EnterDynamicMode(id)
	})
}

// ExitDynamicMode restores a staged component.
func (s *BuilderService) ExitDynamicMode(ctx context.Context, projectID, id string) error {
	return s.mutate(ctx, projectID, func(store *engine.Store) {
		store.ExitDynamicMode(id)
	})
}

// SyncFromViewport promotes one viewport to the source of truth.
func (s *BuilderService) SyncFromViewport(ctx context.Context, projectID, viewportID string) error {
	return s.mutate(ctx, projectID, func(store *engine.Store) {
		store.SyncFromViewport(viewportID)
	})
}

// SyncVariants replays an edit across its dynamic family.
func (s *BuilderService) SyncVariants(ctx context.Context, projectID, nodeID string) error {
	return s.mutate(ctx, projectID, func(store *engine.Store) {
		store.SyncVariants(nodeID)
	})
}

// RestoreSnapshot replaces the collection wholesale (undo/redo jump).
func (s *BuilderService) RestoreSnapshot(ctx context.Context, projectID string, nodes []domain.Node) error {
	return s.mutate(ctx, projectID, func(store *engine.Store) {
		store.Load(nodes)
	})
}

// VisibleNodes derives the render set for a canvas mode.
func (s *BuilderService) VisibleNodes(projectID string, mode engine.Mode, dynamicID, activeViewportID string) ([]domain.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionOf(projectID)
	if err != nil {
		return nil, err
	}
	return sess.store.VisibleNodes(mode, dynamicID, activeViewportID), nil
}
