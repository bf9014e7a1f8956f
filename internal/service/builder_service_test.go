package service_test

import (
	"context"
	"testing"

	"pagecraft/internal/domain"
	"pagecraft/internal/engine"
	"pagecraft/internal/service"
)

// ─────────────────────────────────────────────────────────────
// BuilderService tests
// ─────────────────────────────────────────────────────────────

// memDocs is an in-memory domain.DocumentStore.
type memDocs struct {
	nodes map[string][]domain.Node
	saves int
}

func newMemDocs() *memDocs {
	return &memDocs{nodes: make(map[string][]domain.Node)}
}

func (m *memDocs) LoadNodes(projectID string) ([]domain.Node, error) {
	return m.nodes[projectID], nil
}

func (m *memDocs) SaveNodes(projectID string, nodes []domain.Node) error {
	m.saves++
	m.nodes[projectID] = nodes
	return nil
}

func (m *memDocs) DeleteNodes(projectID string) error {
	delete(m.nodes, projectID)
	return nil
}

func seededViewports() []domain.Node {
	vp := func(id, name string, width int) domain.Node {
		return domain.Node{
			ID:            id,
			Type:          domain.NodeTypeFrame,
			IsViewport:    true,
			ViewportName:  name,
			ViewportWidth: width,
		}
	}
	return []domain.Node{
		vp("desktop", "Desktop", 1280),
		vp("tablet", "Tablet", 768),
		vp("mobile", "Mobile", 375),
	}
}

func openBuilder(t *testing.T) (*service.BuilderService, *memDocs, *service.MockEmitter) {
	t.Helper()
	docs := newMemDocs()
	docs.nodes["p1"] = seededViewports()
	emitter := &service.MockEmitter{}
	b := service.NewBuilderService(docs, emitter)
	if _, err := b.Open("p1"); err != nil {
		t.Fatalf("open: %v", err)
	}
	return b, docs, emitter
}

func TestBuilder_InsertResyncsAndEmits(t *testing.T) {
	b, _, emitter := openBuilder(t)
	ctx := context.Background()

	node := domain.Node{ID: "hero", Type: domain.NodeTypeFrame, Style: domain.Style{"position": "relative"}}
	if err := b.InsertNode(ctx, "p1", node, "desktop", engine.PlaceInside, true); err != nil {
		t.Fatalf("insert: %v", err)
	}

	nodes, err := b.Nodes("p1")
	if err != nil {
		t.Fatal(err)
	}
	// The structural edit must have been followed by a viewport sync:
	// tablet and mobile each gained a counterpart.
	perParent := map[string]int{}
	for _, n := range nodes {
		perParent[n.ParentID]++
	}
	if perParent["tablet"] != 1 || perParent["mobile"] != 1 {
		t.Errorf("counterparts per viewport = %v, want one each", perParent)
	}

	if len(emitter.Events) == 0 {
		t.Fatal("expected a nodes-changed event")
	}
	last := emitter.Events[len(emitter.Events)-1]
	if last.Event != service.EventNodesChanged {
		t.Errorf("event = %q", last.Event)
	}
	payload, ok := last.Data.(service.NodesChangedPayload)
	if !ok || payload.ProjectID != "p1" || len(payload.Nodes) != len(nodes) {
		t.Errorf("payload = %+v", last.Data)
	}
}

func TestBuilder_MutationRequiresOpenProject(t *testing.T) {
	b := service.NewBuilderService(newMemDocs(), &service.MockEmitter{})
	err := b.RemoveNode(context.Background(), "ghost", "n1")
	if err == nil {
		t.Fatal("expected an error for an unopened project")
	}
}

func TestBuilder_FlushOnlyWhenDirty(t *testing.T) {
	b, docs, _ := openBuilder(t)
	ctx := context.Background()

	if err := b.Flush("p1"); err != nil {
		t.Fatal(err)
	}
	if docs.saves != 0 {
		t.Fatalf("clean session flushed %d times", docs.saves)
	}

	node := domain.Node{ID: "hero", Type: domain.NodeTypeFrame}
	if err := b.InsertNode(ctx, "p1", node, "desktop", engine.PlaceInside, true); err != nil {
		t.Fatal(err)
	}
	if got := b.DirtyCount(); got != 1 {
		t.Fatalf("dirty count = %d, want 1", got)
	}

	if err := b.Flush("p1"); err != nil {
		t.Fatal(err)
	}
	if docs.saves != 1 {
		t.Fatalf("saves = %d, want 1", docs.saves)
	}
	if b.DirtyCount() != 0 {
		t.Error("flush must clear the dirty flag")
	}

	// Unchanged since the flush: no second write.
	if err := b.FlushAll(); err != nil {
		t.Fatal(err)
	}
	if docs.saves != 1 {
		t.Fatalf("saves after no-op FlushAll = %d, want 1", docs.saves)
	}
}

func TestBuilder_CloseFlushesDirtySession(t *testing.T) {
	b, docs, _ := openBuilder(t)
	ctx := context.Background()

	node := domain.Node{ID: "hero", Type: domain.NodeTypeFrame}
	if err := b.InsertNode(ctx, "p1", node, "desktop", engine.PlaceInside, true); err != nil {
		t.Fatal(err)
	}
	if err := b.Close("p1"); err != nil {
		t.Fatal(err)
	}
	if docs.saves != 1 {
		t.Fatalf("saves = %d, want flush on close", docs.saves)
	}

	found := false
	for _, n := range docs.nodes["p1"] {
		if n.ID == "hero" {
			found = true
		}
	}
	if !found {
		t.Error("persisted document missing the inserted node")
	}
}

func TestBuilder_OpenPrefersLiveSession(t *testing.T) {
	b, docs, _ := openBuilder(t)
	ctx := context.Background()

	node := domain.Node{ID: "hero", Type: domain.NodeTypeFrame}
	if err := b.InsertNode(ctx, "p1", node, "desktop", engine.PlaceInside, true); err != nil {
		t.Fatal(err)
	}

	// Re-open before any flush: must see the unsaved edit, not the
	// persisted snapshot.
	nodes, err := b.Open("p1")
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, n := range nodes {
		if n.ID == "hero" {
			found = true
		}
	}
	if !found {
		t.Error("re-open dropped unsaved edits")
	}
	if docs.saves != 0 {
		t.Error("re-open must not write")
	}
}

func TestBuilder_DuplicateReturnsNewID(t *testing.T) {
	b, _, emitter := openBuilder(t)
	ctx := context.Background()

	node := domain.Node{ID: "hero", Type: domain.NodeTypeFrame}
	if err := b.InsertNode(ctx, "p1", node, "desktop", engine.PlaceInside, true); err != nil {
		t.Fatal(err)
	}
	newID, err := b.DuplicateNode(ctx, "p1", "hero", engine.DirRight, engine.Size{Width: 100})
	if err != nil {
		t.Fatal(err)
	}
	if newID == "" || newID == "hero" {
		t.Fatalf("new id = %q", newID)
	}
	last := emitter.Events[len(emitter.Events)-1]
	if last.Event != service.EventVariantCreated {
		t.Errorf("event = %q, want creation announcement", last.Event)
	}
}
