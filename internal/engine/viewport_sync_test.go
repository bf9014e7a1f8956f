package engine_test

import (
	"testing"

	"pagecraft/internal/domain"
	"pagecraft/internal/engine"
)

func TestSyncViewportsCreatesCounterparts(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("f1", "", ""), "desktop", engine.PlaceInside, true)

	c = engine.SyncViewports(c)

	shared := get(t, c, "f1").SharedID
	group := sharedGroup(c, shared)
	if len(group) != 3 {
		t.Fatalf("shared group size = %d, want 3 (one per viewport)", len(group))
	}
	for _, vp := range []string{"tablet", "mobile"} {
		kids := childrenOf(c, vp)
		if len(kids) != 1 {
			t.Fatalf("%s children = %v, want exactly one counterpart", vp, kids)
		}
		n := get(t, c, kids[0])
		if n.SharedID != shared {
			t.Errorf("%s counterpart sharedId = %q, want %q", vp, n.SharedID, shared)
		}
		if len(n.IndependentStyles) != 0 {
			t.Errorf("%s counterpart has independent styles %v, want none", vp, n.IndependentStyles)
		}
		if n.ID == "f1" {
			t.Error("counterpart must be a distinct node")
		}
	}
	assertAcyclic(t, c)
}

func TestSyncViewportsIdempotent(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("f1", "", ""), "desktop", engine.PlaceInside, true)
	c = engine.Insert(c, text("t1", "", ""), "f1", engine.PlaceInside, true)

	once := engine.SyncViewports(c)
	twice := engine.SyncViewports(once)

	if len(once) != len(twice) {
		t.Fatalf("second sync changed node count: %d -> %d", len(once), len(twice))
	}
	for _, n := range once {
		m, ok := twice.Get(n.ID)
		if !ok {
			t.Fatalf("node %q lost identity on second sync", n.ID)
		}
		if m.ParentID != n.ParentID {
			t.Errorf("node %q parent changed: %q -> %q", n.ID, n.ParentID, m.ParentID)
		}
		for k, v := range n.Style {
			if m.Style[k] != v {
				t.Errorf("node %q style[%s] changed: %q -> %q", n.ID, k, v, m.Style[k])
			}
		}
	}
}

func TestSyncViewportsPreservesIdentity(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("f1", "", ""), "desktop", engine.PlaceInside, true)
	c = engine.SyncViewports(c)

	counterpartID := childrenOf(c, "tablet")[0]

	// A non-structural style edit on the canonical node, then re-sync.
	c = engine.UpdateStyle(c, []string{"f1"}, domain.Style{"background": "teal"}, "")
	c = engine.SyncViewports(c)

	kids := childrenOf(c, "tablet")
	if len(kids) != 1 || kids[0] != counterpartID {
		t.Fatalf("counterpart id changed across sync: %v, want [%s]", kids, counterpartID)
	}
	if got := get(t, c, counterpartID).Style["background"]; got != "teal" {
		t.Errorf("counterpart background = %q, want synced teal", got)
	}
}

func TestSyncViewportsNestedStructure(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("hero", "", ""), "desktop", engine.PlaceInside, true)
	c = engine.Insert(c, text("title", "", ""), "hero", engine.PlaceInside, true)
	c = engine.Insert(c, text("subtitle", "", ""), "hero", engine.PlaceInside, true)

	c = engine.SyncViewports(c)

	heroShared := get(t, c, "hero").SharedID
	for _, vp := range []string{"tablet", "mobile"} {
		kids := childrenOf(c, vp)
		if len(kids) != 1 {
			t.Fatalf("%s should have one root child, got %v", vp, kids)
		}
		heroCopy := get(t, c, kids[0])
		if heroCopy.SharedID != heroShared {
			t.Fatalf("%s hero sharedId mismatch", vp)
		}
		inner := childrenOf(c, heroCopy.ID)
		if len(inner) != 2 {
			t.Fatalf("%s hero children = %v, want two", vp, inner)
		}
	}
	assertAcyclic(t, c)
}

func TestSyncViewportsRemovesStale(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("f1", "", ""), "desktop", engine.PlaceInside, true)
	c = engine.SyncViewports(c)

	// Remove the canonical node; derived copies are now stale.
	c = engine.RemoveSubtree(c, "f1")
	c = engine.SyncViewports(c)

	for _, vp := range []string{"tablet", "mobile"} {
		if kids := childrenOf(c, vp); len(kids) != 0 {
			t.Errorf("%s still has stale children %v", vp, kids)
		}
	}
}

func TestSyncViewportsSkipsPlaceholders(t *testing.T) {
	c := threeViewports()
	ph := domain.Node{ID: "ph", Type: domain.NodeTypePlaceholder, ParentID: "desktop", InViewport: true}
	c = append(c, ph)

	c = engine.SyncViewports(c)

	for _, vp := range []string{"tablet", "mobile"} {
		for _, kid := range childrenOf(c, vp) {
			if get(t, c, kid).Type == domain.NodeTypePlaceholder {
				t.Errorf("placeholder synced into %s", vp)
			}
		}
	}
}

func TestSyncViewportsPreservesDynamicSubtrees(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("f1", "", ""), "desktop", engine.PlaceInside, true)
	c = engine.SyncViewports(c)

	// Make the tablet counterpart's subtree dynamic, then re-sync.
	tabletHero := childrenOf(c, "tablet")[0]
	c = engine.MarkDynamic(c, tabletHero)
	before := get(t, c, tabletHero)

	c = engine.SyncViewports(c)

	after, ok := c.Get(tabletHero)
	if !ok {
		t.Fatal("dynamic node clobbered by viewport sync")
	}
	if !after.IsDynamic || after.DynamicFamilyID != before.DynamicFamilyID {
		t.Error("dynamic flags must survive viewport sync")
	}
}

func TestSyncFromViewportPromotesSource(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("f1", "", ""), "desktop", engine.PlaceInside, true)
	c = engine.SyncViewports(c)

	// Author a tablet-only node, then promote tablet.
	c = engine.Insert(c, frame("tabOnly", "", ""), "tablet", engine.PlaceInside, true)
	c = engine.SyncFromViewport(c, "tablet")

	tabOnlyShared := get(t, c, "tabOnly").SharedID
	for _, vp := range []string{"desktop", "mobile"} {
		found := false
		for _, kid := range childrenOf(c, vp) {
			if get(t, c, kid).SharedID == tabOnlyShared {
				found = true
			}
		}
		if !found {
			t.Errorf("promoted node missing from %s", vp)
		}
	}
	assertAcyclic(t, c)
}

func TestSyncViewportsNoViewportsIsNoop(t *testing.T) {
	c := engine.Collection{frame("loose", "", "")}
	if got := engine.SyncViewports(c); len(got) != 1 {
		t.Error("sync with no viewports must be a no-op")
	}
}
