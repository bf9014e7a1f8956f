package engine_test

import (
	"testing"

	"pagecraft/internal/domain"
	"pagecraft/internal/engine"
)

// withKid extends dynamicFixture with a text child under the desktop
// dynamic root, synced into every sibling instance.
func withKid(t *testing.T) (engine.Collection, string) {
	t.Helper()
	c, family := dynamicFixture(t)
	c = engine.Insert(c, text("kid", "", ""), "card", engine.PlaceInside, true)
	c = engine.SyncVariants(c, "kid")
	return c, family
}

// counterpartUnder returns the ids of rootID's children carrying
// sharedID.
func counterpartUnder(c engine.Collection, rootID, sharedID string) []string {
	var out []string
	for _, id := range childrenOf(c, rootID) {
		if n, _ := c.Get(id); n.SharedID == sharedID {
			out = append(out, id)
		}
	}
	return out
}

func TestSyncVariantsCreatesCounterparts(t *testing.T) {
	c, _ := withKid(t)
	shared := get(t, c, "kid").SharedID

	for _, vp := range []string{"tablet", "mobile"} {
		root := childrenOf(c, vp)[0]
		matches := counterpartUnder(c, root, shared)
		if len(matches) != 1 {
			t.Fatalf("%s root counterparts = %v, want exactly one", vp, matches)
		}
		n := get(t, c, matches[0])
		if n.DynamicParentID == "" || n.DynamicViewportID != vp {
			t.Errorf("%s counterpart tags: parent=%q viewport=%q", vp, n.DynamicParentID, n.DynamicViewportID)
		}
	}
	assertAcyclic(t, c)
}

func TestSyncVariantsUpdatesInPlace(t *testing.T) {
	c, _ := withKid(t)
	shared := get(t, c, "kid").SharedID
	tabletRoot := childrenOf(c, "tablet")[0]
	before := counterpartUnder(c, tabletRoot, shared)[0]

	c = engine.UpdateStyle(c, []string{"kid"}, domain.Style{"color": "red"}, "")
	c = engine.SyncVariants(c, "kid")

	matches := counterpartUnder(c, tabletRoot, shared)
	if len(matches) != 1 || matches[0] != before {
		t.Fatalf("re-sync must reuse the counterpart, got %v want [%s]", matches, before)
	}
	if got := get(t, c, before).Style["color"]; got != "red" {
		t.Errorf("counterpart color = %q, want red", got)
	}
}

func TestSyncVariantsRespectsIndependentOverrides(t *testing.T) {
	c, _ := withKid(t)
	shared := get(t, c, "kid").SharedID
	tabletRoot := childrenOf(c, "tablet")[0]
	cp := counterpartUnder(c, tabletRoot, shared)[0]

	// A tablet-local edit masks the key on the counterpart.
	c = engine.UpdateStyle(c, []string{cp}, domain.Style{"color": "blue"}, "")
	c = engine.UpdateStyle(c, []string{"kid"}, domain.Style{"color": "red"}, "")
	c = engine.SyncVariants(c, "kid")

	if got := get(t, c, cp).Style["color"]; got != "blue" {
		t.Errorf("masked key overwritten: color = %q, want blue", got)
	}
}

func TestSyncVariantsCollapsesDuplicates(t *testing.T) {
	c, _ := withKid(t)
	shared := get(t, c, "kid").SharedID
	tabletRoot := childrenOf(c, "tablet")[0]

	// Forge a second counterpart, as an interrupted earlier sync could.
	forged := text("forged", tabletRoot, shared)
	forged.DynamicParentID = tabletRoot
	forged.DynamicViewportID = "tablet"
	c = append(c, forged)

	c = engine.SyncVariants(c, "kid")

	matches := counterpartUnder(c, tabletRoot, shared)
	if len(matches) != 1 {
		t.Fatalf("counterparts after repair = %v, want one survivor", matches)
	}
}

func TestSyncVariantsSkipsUnresolvableTarget(t *testing.T) {
	c, _ := dynamicFixture(t)
	c = engine.Insert(c, frame("mid", "", ""), "card", engine.PlaceInside, true)
	c = engine.Insert(c, text("leaf", "", ""), "mid", engine.PlaceInside, true)

	tabletRoot := childrenOf(c, "tablet")[0]

	// mid has no tablet counterpart yet, so the leaf edit cannot find
	// its destination parent there and the target is skipped whole.
	synced := engine.SyncVariants(c, "leaf")
	if kids := childrenOf(synced, tabletRoot); len(kids) != 0 {
		t.Fatalf("tablet root gained %v despite an unresolvable chain", kids)
	}

	// Once mid itself syncs, the whole frame subtree lands.
	synced = engine.SyncVariants(c, "mid")
	midKids := childrenOf(synced, tabletRoot)
	if len(midKids) != 1 {
		t.Fatalf("tablet root children = %v, want synced mid", midKids)
	}
	leafShared := get(t, synced, "leaf").SharedID
	if got := counterpartUnder(synced, midKids[0], leafShared); len(got) != 1 {
		t.Error("frame sync must recurse into children")
	}
}

func TestSyncVariantsReachesNamedVariants(t *testing.T) {
	c, _ := withKid(t)
	c, variantID := engine.CreateVariant(c, "card", "Hover")

	c = engine.Insert(c, text("kid2", "", ""), "card", engine.PlaceInside, true)
	c = engine.SyncVariants(c, "kid2")

	shared := get(t, c, "kid2").SharedID
	if got := counterpartUnder(c, variantID, shared); len(got) != 1 {
		t.Errorf("variant counterparts = %v, want one", got)
	}
}

func TestSyncVariantsFromVariantSide(t *testing.T) {
	c, _ := withKid(t)
	c, variantID := engine.CreateVariant(c, "card", "Hover")

	shared := get(t, c, "kid").SharedID
	vKid := counterpartUnder(c, variantID, shared)
	if len(vKid) != 1 {
		t.Fatalf("variant missing kid clone: %v", vKid)
	}

	c = engine.UpdateStyle(c, []string{vKid[0]}, domain.Style{"fontWeight": "bold"}, "")
	c = engine.SyncVariants(c, vKid[0])

	if got := get(t, c, "kid").Style["fontWeight"]; got != "bold" {
		t.Errorf("edit under a variant must reach the dynamic root, got %q", got)
	}
}

func TestSyncVariantsOutsideDynamicSystemIsNoop(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("plain", "", ""), "desktop", engine.PlaceInside, true)
	got := engine.SyncVariants(c, "plain")
	if len(got) != len(c) {
		t.Error("expected no-op for a non-dynamic edit")
	}
}
