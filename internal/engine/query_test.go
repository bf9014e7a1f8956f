package engine_test

import (
	"testing"

	"pagecraft/internal/domain"
	"pagecraft/internal/engine"
)

func idsOf(nodes []domain.Node) map[string]bool {
	out := map[string]bool{}
	for _, n := range nodes {
		out[n.ID] = true
	}
	return out
}

func TestVisibleNodesPartitions(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("flow", "", ""), "desktop", engine.PlaceInside, true)
	c = engine.Insert(c, frame("free", "", ""), "", engine.PlaceInside, false)

	in := idsOf(engine.VisibleNodes(c, engine.ModeInViewport, "", ""))
	for _, want := range []string{"desktop", "tablet", "mobile", "flow"} {
		if !in[want] {
			t.Errorf("in-viewport set missing %q", want)
		}
	}
	if in["free"] {
		t.Error("free node leaked into the in-viewport set")
	}

	out := idsOf(engine.VisibleNodes(c, engine.ModeOutOfViewport, "", ""))
	if !out["free"] || out["flow"] || out["desktop"] {
		t.Errorf("out-of-viewport set = %v", out)
	}
}

func TestVisibleNodesHidesDynamicDescendants(t *testing.T) {
	c, _ := withKid(t)

	in := idsOf(engine.VisibleNodes(c, engine.ModeInViewport, "", ""))
	if !in["card"] {
		t.Error("dynamic root must stay visible on the normal canvas")
	}
	if in["kid"] {
		t.Error("dynamic descendants render only in dynamic mode")
	}
}

func TestVisibleNodesDedupes(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("flow", "", ""), "desktop", engine.PlaceInside, true)
	ghost := frame("flow", "desktop", "")
	ghost.Name = "late write"
	c = append(c, ghost)

	nodes := engine.VisibleNodes(c, engine.ModeInViewport, "", "")
	count := 0
	var name string
	for _, n := range nodes {
		if n.ID == "flow" {
			count++
			name = n.Name
		}
	}
	if count != 1 {
		t.Fatalf("duplicate id rendered %d times", count)
	}
	if name != "late write" {
		t.Errorf("dedupe kept %q, want the last write", name)
	}
}

func TestVisibleNodesDynamicMode(t *testing.T) {
	c, _ := withKid(t)
	c, variantID := engine.CreateVariant(c, "card", "Hover")

	nodes := engine.VisibleNodes(c, engine.ModeDynamic, "card", "desktop")
	if len(nodes) == 0 || nodes[0].ID != "card" {
		t.Fatal("base instance must lead the render order")
	}
	got := idsOf(nodes)
	if !got["kid"] {
		t.Error("base subtree missing")
	}
	if !got[variantID] {
		t.Error("named variant missing")
	}
	tabletRoot := childrenOf(c, "tablet")[0]
	if got[tabletRoot] {
		t.Error("another viewport's instance leaked in")
	}
}

func TestVisibleNodesDynamicModeResolvesViewport(t *testing.T) {
	c, _ := withKid(t)
	tabletRoot := childrenOf(c, "tablet")[0]

	// Entry id is the desktop instance; the active viewport redirects
	// resolution to its tablet counterpart.
	nodes := engine.VisibleNodes(c, engine.ModeDynamic, "card", "tablet")
	if len(nodes) == 0 {
		t.Fatal("empty render set")
	}
	if nodes[0].ID != tabletRoot {
		t.Fatalf("base = %s, want tablet instance %s", nodes[0].ID, tabletRoot)
	}
	if idsOf(nodes)["card"] {
		t.Error("desktop instance leaked into tablet dynamic mode")
	}
}

func TestVisibleNodesDynamicModeStagedRoot(t *testing.T) {
	c, _ := withKid(t)
	c = engine.EnterDynamicMode(c, "card")

	nodes := engine.VisibleNodes(c, engine.ModeDynamic, "card", "desktop")
	got := idsOf(nodes)
	if !got["card"] || !got["kid"] {
		t.Errorf("staged subtree incomplete: %v", got)
	}
}

func TestVisibleNodesMissingEntry(t *testing.T) {
	c := threeViewports()
	if nodes := engine.VisibleNodes(c, engine.ModeDynamic, "ghost", "desktop"); nodes != nil {
		t.Errorf("expected nil for a missing entry, got %v", nodes)
	}
}
