package engine_test

import (
	"testing"

	"pagecraft/internal/domain"
	"pagecraft/internal/engine"
)

// Builders for test collections. Viewports follow the usual trio:
// desktop is the widest and therefore the canonical sync source.

func viewport(id, name string, width int) domain.Node {
	return domain.Node{
		ID:            id,
		Type:          domain.NodeTypeFrame,
		IsViewport:    true,
		ViewportName:  name,
		ViewportWidth: width,
		Style:         domain.Style{"width": "100%"},
	}
}

func frame(id, parentID, sharedID string) domain.Node {
	return domain.Node{
		ID:         id,
		Type:       domain.NodeTypeFrame,
		ParentID:   parentID,
		SharedID:   sharedID,
		InViewport: parentID != "",
		Style:      domain.Style{"position": "relative"},
	}
}

func text(id, parentID, sharedID string) domain.Node {
	n := frame(id, parentID, sharedID)
	n.Type = domain.NodeTypeText
	return n
}

// threeViewports returns desktop (canonical), tablet, mobile.
func threeViewports() engine.Collection {
	return engine.Collection{
		viewport("desktop", "Desktop", 1280),
		viewport("tablet", "Tablet", 768),
		viewport("mobile", "Mobile", 375),
	}
}

func get(t *testing.T, c engine.Collection, id string) domain.Node {
	t.Helper()
	n, ok := c.Get(id)
	if !ok {
		t.Fatalf("node %q not found", id)
	}
	return n
}

// childrenOf returns ids with the given parent, in collection order.
func childrenOf(c engine.Collection, parentID string) []string {
	var out []string
	for _, n := range c {
		if n.ParentID == parentID {
			out = append(out, n.ID)
		}
	}
	return out
}

// sharedGroup returns every node carrying sharedID.
func sharedGroup(c engine.Collection, sharedID string) []domain.Node {
	var out []domain.Node
	for _, n := range c {
		if n.SharedID == sharedID {
			out = append(out, n)
		}
	}
	return out
}

// assertAcyclic walks every node's parent chain and fails if any node
// is its own ancestor.
func assertAcyclic(t *testing.T, c engine.Collection) {
	t.Helper()
	for _, n := range c {
		seen := map[string]bool{}
		cur := n.ID
		for cur != "" {
			if seen[cur] {
				t.Fatalf("cycle through node %q starting at %q", cur, n.ID)
			}
			seen[cur] = true
			i := c.IndexOf(cur)
			if i < 0 {
				break
			}
			cur = c[i].ParentID
		}
	}
}
