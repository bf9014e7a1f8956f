package engine_test

import (
	"testing"

	"pagecraft/internal/domain"
	"pagecraft/internal/engine"
)

func TestInsertInside(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("f1", "", ""), "desktop", engine.PlaceInside, true)

	f := get(t, c, "f1")
	if f.ParentID != "desktop" {
		t.Errorf("ParentID = %q, want desktop", f.ParentID)
	}
	if !f.InViewport {
		t.Error("expected InViewport")
	}
	if f.SharedID == "" {
		t.Error("expected a sharedId to be generated on viewport insert")
	}
}

func TestInsertBeforeAfter(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("a", "", ""), "desktop", engine.PlaceInside, true)
	c = engine.Insert(c, frame("b", "", ""), "desktop", engine.PlaceInside, true)

	c = engine.Insert(c, frame("mid", "", ""), "b", engine.PlaceBefore, true)
	kids := childrenOf(c, "desktop")
	want := []string{"a", "mid", "b"}
	for i, id := range want {
		if kids[i] != id {
			t.Fatalf("sibling order = %v, want %v", kids, want)
		}
	}

	c = engine.Insert(c, frame("last", "", ""), "mid", engine.PlaceAfter, true)
	kids = childrenOf(c, "desktop")
	if kids[2] != "last" {
		t.Errorf("sibling order after = %v, want last at index 2", kids)
	}
}

func TestInsertMissingTargetDetachesToRoot(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("f1", "", ""), "nope", engine.PlaceInside, false)

	f := get(t, c, "f1")
	if f.ParentID != "" {
		t.Errorf("ParentID = %q, want detached root", f.ParentID)
	}
}

func TestInsertTypeCleanup(t *testing.T) {
	tests := []struct {
		name     string
		nodeType domain.NodeType
		gone     string
		kept     string
	}{
		{"image strips text", domain.NodeTypeImage, "text", "src"},
		{"text strips src", domain.NodeTypeText, "src", "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := domain.Node{
				ID:    "n1",
				Type:  tt.nodeType,
				Style: domain.Style{"text": "hello", "src": "/a.png"},
			}
			c := engine.Insert(threeViewports(), n, "desktop", engine.PlaceInside, true)
			got := get(t, c, "n1")
			if _, ok := got.Style[tt.gone]; ok {
				t.Errorf("style %q should be stripped for %s nodes", tt.gone, tt.nodeType)
			}
			if _, ok := got.Style[tt.kept]; !ok {
				t.Errorf("style %q should survive for %s nodes", tt.kept, tt.nodeType)
			}
		})
	}
}

func TestInsertIntoOwnDescendantIsNoop(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("outer", "", ""), "desktop", engine.PlaceInside, true)
	c = engine.Insert(c, frame("inner", "", ""), "outer", engine.PlaceInside, true)

	before := len(c)
	got := engine.Insert(c, get(t, c, "outer"), "inner", engine.PlaceInside, true)
	if len(got) != before {
		t.Fatalf("expected no-op, collection grew to %d", len(got))
	}
	if get(t, got, "outer").ParentID != "desktop" {
		t.Error("outer should keep its parent")
	}
	assertAcyclic(t, got)
}

func TestRemoveDoesNotCascade(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("parent", "", ""), "desktop", engine.PlaceInside, true)
	c = engine.Insert(c, frame("child", "", ""), "parent", engine.PlaceInside, true)

	c = engine.Remove(c, "parent")
	if _, ok := c.Get("parent"); ok {
		t.Fatal("parent should be removed")
	}
	if _, ok := c.Get("child"); !ok {
		t.Fatal("child must survive a non-cascading remove")
	}
}

func TestRemoveSubtreeCascades(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("parent", "", ""), "desktop", engine.PlaceInside, true)
	c = engine.Insert(c, frame("child", "", ""), "parent", engine.PlaceInside, true)
	c = engine.Insert(c, text("grand", "", ""), "child", engine.PlaceInside, true)

	c = engine.RemoveSubtree(c, "parent")
	for _, id := range []string{"parent", "child", "grand"} {
		if _, ok := c.Get(id); ok {
			t.Errorf("node %q should be gone", id)
		}
	}
	if _, ok := c.Get("desktop"); !ok {
		t.Error("viewport must survive")
	}
}

func TestRemoveMissingIsNoop(t *testing.T) {
	c := threeViewports()
	if got := engine.Remove(c, "ghost"); len(got) != len(c) {
		t.Error("removing a missing id must be a no-op")
	}
}

func TestRenamePropagatesAcrossIdentity(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("f1", "", ""), "desktop", engine.PlaceInside, true)
	c = engine.SyncViewports(c)

	c = engine.Rename(c, "f1", "Hero")
	shared := get(t, c, "f1").SharedID
	for _, n := range sharedGroup(c, shared) {
		if n.Name != "Hero" {
			t.Errorf("counterpart %q name = %q, want Hero", n.ID, n.Name)
		}
	}
}

func TestSetLocked(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("f1", "", ""), "desktop", engine.PlaceInside, true)
	c = engine.SetLocked(c, "f1", true)
	if !get(t, c, "f1").IsLocked {
		t.Error("expected locked")
	}
	c = engine.SetLocked(c, "f1", false)
	if get(t, c, "f1").IsLocked {
		t.Error("expected unlocked")
	}
}

func TestMediaToFrame(t *testing.T) {
	c := threeViewports()
	img := domain.Node{ID: "img1", Type: domain.NodeTypeImage, Style: domain.Style{"src": "/hero.png"}}
	c = engine.Insert(c, img, "desktop", engine.PlaceInside, true)
	c = engine.Insert(c, text("t1", "", ""), "desktop", engine.PlaceInside, true)

	c = engine.MediaToFrame(c, "img1", "t1")

	got := get(t, c, "img1")
	if got.Type != domain.NodeTypeFrame {
		t.Fatalf("type = %q, want frame", got.Type)
	}
	if got.Style["backgroundImage"] != "/hero.png" {
		t.Errorf("backgroundImage = %q, want /hero.png", got.Style["backgroundImage"])
	}
	if _, ok := got.Style["src"]; ok {
		t.Error("src should move out of the style bag")
	}
	dropped := get(t, c, "t1")
	if dropped.ParentID != "img1" {
		t.Errorf("dropped ParentID = %q, want img1", dropped.ParentID)
	}
	if dropped.Style["position"] != "relative" {
		t.Errorf("dropped position = %q, want relative", dropped.Style["position"])
	}
}

func TestMediaToFrameRejectsNonMedia(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("f1", "", ""), "desktop", engine.PlaceInside, true)
	got := engine.MediaToFrame(c, "f1", "")
	if get(t, got, "f1").Type != domain.NodeTypeFrame {
		t.Error("frame should be left alone")
	}
}

func TestCollectionCopyOnWrite(t *testing.T) {
	c := threeViewports()
	c = engine.Insert(c, frame("f1", "", ""), "desktop", engine.PlaceInside, true)

	snapshot := c
	snapLen := len(snapshot)
	width := get(t, snapshot, "f1").Style["width"]

	c = engine.UpdateStyle(c, []string{"f1"}, domain.Style{"width": "500px"}, "")
	c = engine.Remove(c, "f1")

	if len(snapshot) != snapLen {
		t.Fatal("earlier snapshot changed length")
	}
	if got := get(t, snapshot, "f1").Style["width"]; got != width {
		t.Errorf("earlier snapshot mutated: width %q -> %q", width, got)
	}
}
