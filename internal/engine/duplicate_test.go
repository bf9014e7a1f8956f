package engine_test

import (
	"testing"

	"pagecraft/internal/domain"
	"pagecraft/internal/engine"
)

func TestDuplicatePlainSubtree(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("box", "", ""), "desktop", engine.PlaceInside, true)
	c = engine.Insert(c, text("label", "", ""), "box", engine.PlaceInside, true)

	c, copyID := engine.Duplicate(c, "box", engine.DirRight, engine.Size{Width: 100})
	if copyID == "" {
		t.Fatal("expected a new root id")
	}

	src := get(t, c, "box")
	dup := get(t, c, copyID)
	if dup.SharedID == src.SharedID {
		t.Error("plain duplicate must mint a fresh sharedId")
	}
	if dup.IsVariant || dup.IsDynamic {
		t.Error("plain duplicate must not join a dynamic system")
	}
	kids := childrenOf(c, copyID)
	if len(kids) != 1 {
		t.Fatalf("duplicate children = %v, want the cloned label", kids)
	}
	if get(t, c, kids[0]).SharedID == get(t, c, "label").SharedID {
		t.Error("cloned child must carry a fresh sharedId too")
	}
}

func TestDuplicateDynamicCreatesVariant(t *testing.T) {
	c, family := dynamicFixture(t)
	c = engine.UpdateStyle(c, []string{"card"}, domain.Style{"left": "100px", "top": "50px"}, "")

	c, variantID := engine.Duplicate(c, "card", engine.DirRight, engine.Size{Width: 300})
	if variantID == "" {
		t.Fatal("expected a variant id")
	}

	v := get(t, c, variantID)
	if !v.IsVariant || v.VariantInfo == nil {
		t.Fatal("duplicate of a dynamic root must be a named variant")
	}
	if v.SharedID != get(t, c, "card").SharedID {
		t.Error("variant root keeps the source's cross-tree identity")
	}
	if v.DynamicFamilyID != family {
		t.Error("variant must stay in the source family")
	}
	// element width 300 plus the fixed 200 gap, to the right of x=100.
	if got := v.Style["left"]; got != "600px" {
		t.Errorf("variant left = %q, want 600px", got)
	}
	if got := v.Style["top"]; got != "50px" {
		t.Errorf("variant top = %q, want 50px", got)
	}
	if v.Style["position"] != "absolute" {
		t.Error("variant root floats on the canvas")
	}
}

func TestVariantReplicatesAcrossViewports(t *testing.T) {
	c, family := dynamicFixture(t)

	c, variantID := engine.Duplicate(c, "card", engine.DirRight, engine.Size{Width: 300})
	info := get(t, c, variantID).VariantInfo

	perViewport := map[string]int{}
	for _, n := range c {
		if n.DynamicFamilyID != family || !n.IsVariant || n.DynamicParentID != "" {
			continue
		}
		if n.VariantInfo == nil || n.VariantInfo.ID != info.ID {
			continue
		}
		perViewport[n.DynamicViewportID]++
	}
	if len(perViewport) != 3 {
		t.Fatalf("variant present in %d viewports, want 3", len(perViewport))
	}
	for vp, count := range perViewport {
		if count != 1 {
			t.Errorf("viewport %s holds %d instances of the variant, want 1", vp, count)
		}
	}
}

func TestCreateVariantNamed(t *testing.T) {
	c, _ := dynamicFixture(t)

	c, id := engine.CreateVariant(c, "card", "Hover")
	if id == "" {
		t.Fatal("expected a variant id")
	}
	v := get(t, c, id)
	if v.VariantInfo == nil || v.VariantInfo.Name != "Hover" {
		t.Errorf("variant name = %+v, want Hover", v.VariantInfo)
	}
}

func TestCreateVariantRejectsPlainNode(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("plain", "", ""), "desktop", engine.PlaceInside, true)

	got, id := engine.CreateVariant(c, "plain", "Nope")
	if id != "" || len(got) != len(c) {
		t.Error("plain nodes cannot grow variants")
	}
}

func TestDuplicateMissingSourceIsNoop(t *testing.T) {
	c := threeViewports()
	got, id := engine.Duplicate(c, "ghost", engine.DirRight, engine.Size{})
	if id != "" || len(got) != len(c) {
		t.Error("expected no-op")
	}
}
