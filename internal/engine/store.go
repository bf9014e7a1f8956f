package engine

import "pagecraft/internal/domain"

// Store holds the authoritative node collection for one document and
// the derived relationship index. Every mutation goes through the pure
// operations and swaps in the new collection whole, so a snapshot
// handed out earlier stays valid; the index is rebuilt only after the
// mutation is finalized, never interleaved with it.
//
// The store is single-threaded by design: mutations run synchronously
// to completion on the event goroutine that serves the UI.
type Store struct {
	nodes Collection
	idx   *Index
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{idx: NewIndex(nil)}
}

// Load replaces the collection wholesale (open document, undo jump).
func (s *Store) Load(nodes []domain.Node) {
	s.commit(Collection(nodes).Clone())
}

func (s *Store) commit(c Collection) {
	s.nodes = c
	s.idx = NewIndex(c)
}

// Nodes returns the current snapshot. Callers treat it as read-only;
// the store never mutates a snapshot it has handed out.
func (s *Store) Nodes() []domain.Node {
	return s.nodes
}

// Node returns one node by id.
func (s *Store) Node(id string) (domain.Node, bool) {
	return s.idx.Node(id)
}

// Index exposes the relationship index for the current snapshot.
func (s *Store) Index() *Index {
	return s.idx
}

// Insert adds a node relative to a target.
func (s *Store) Insert(node domain.Node, targetID string, place Placement, inViewport bool) {
	s.commit(Insert(s.nodes, node, targetID, place, inViewport))
}

// UpdateStyle patches styles with cross-viewport propagation.
func (s *Store) UpdateStyle(ids []string, patch domain.Style, stateKey string) {
	s.commit(UpdateStyle(s.nodes, ids, patch, stateKey))
}

// Move re-places a node on the canvas or into a flow.
func (s *Store) Move(id string, inViewport bool, opts MoveOptions) {
	s.commit(Move(s.nodes, id, inViewport, opts))
}

// Remove deletes one node, no cascade.
func (s *Store) Remove(id string) {
	s.commit(Remove(s.nodes, id))
}

// RemoveSubtree deletes a node and its descendants.
func (s *Store) RemoveSubtree(id string) {
	s.commit(RemoveSubtree(s.nodes, id))
}

// Duplicate copies a node; for dynamic nodes the copy is a new variant
// replicated across viewports. Returns the new root id.
func (s *Store) Duplicate(id string, dir Direction, size Size) string {
	c, newID := Duplicate(s.nodes, id, dir, size)
	s.commit(c)
	return newID
}

// CreateVariant adds a named variant to a dynamic component.
func (s *Store) CreateVariant(dynamicID, name string) string {
	c, newID := CreateVariant(s.nodes, dynamicID, name)
	s.commit(c)
	return newID
}

// SetConnection upserts one interaction edge.
func (s *Store) SetConnection(sourceID, targetID string, t domain.ConnectionType) {
	s.commit(SetConnection(s.nodes, sourceID, targetID, t))
}

// MediaToFrame converts a media node into a container frame.
func (s *Store) MediaToFrame(mediaID, droppedID string) {
	s.commit(MediaToFrame(s.nodes, mediaID, droppedID))
}

// SetLocked toggles the advisory lock flag.
func (s *Store) SetLocked(id string, locked bool) {
	s.commit(SetLocked(s.nodes, id, locked))
}

// Rename sets a node's display name across its identity group.
func (s *Store) Rename(id, name string) {
	s.commit(Rename(s.nodes, id, name))
}

// MarkDynamic promotes a node to a dynamic component root.
func (s *Store) MarkDynamic(id string) {
	s.commit(MarkDynamic(s.nodes, id))
}

// EnterDynamicMode stages a dynamic component for isolated editing.
func (s *Store) EnterDynamicMode(id string) {
	s.commit(EnterDynamicMode(s.nodes, id))
}

// ExitDynamicMode restores a staged component to its saved placement.
func (s *Store) ExitDynamicMode(id string) {
	s.commit(ExitDynamicMode(s.nodes, id))
}

// SyncViewports reconciles derived viewports from the canonical one.
func (s *Store) SyncViewports() {
	s.commit(SyncViewports(s.nodes))
}

// SyncFromViewport promotes a viewport to the new source of truth.
func (s *Store) SyncFromViewport(viewportID string) {
	s.commit(SyncFromViewport(s.nodes, viewportID))
}

// SyncVariants replays an edit across a dynamic family.
func (s *Store) SyncVariants(nodeID string) {
	s.commit(SyncVariants(s.nodes, nodeID))
}

// CleanupDynamicConnections re-establishes connection consistency.
func (s *Store) CleanupDynamicConnections(familyID string) {
	s.commit(CleanupDynamicConnections(s.nodes, familyID))
}

// VisibleNodes derives the render set for a mode.
func (s *Store) VisibleNodes(mode Mode, dynamicID, activeViewportID string) []domain.Node {
	return VisibleNodes(s.nodes, mode, dynamicID, activeViewportID)
}
