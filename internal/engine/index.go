package engine

import "pagecraft/internal/domain"

// Index is the derived relationship cache over one collection
// snapshot: id lookup, parent→children adjacency, shared-identity and
// dynamic-family groups. It is rebuilt after every finalized mutation
// and is never the source of truth.
type Index struct {
	c                Collection
	pos              map[string]int
	children         map[string][]string
	bySharedID       map[string][]string
	byFamily         map[string][]string
	byOriginalParent map[string][]string
}

// NewIndex builds the index for a collection snapshot.
func NewIndex(c Collection) *Index {
	ix := &Index{
		c:                c,
		pos:              make(map[string]int, len(c)),
		children:         make(map[string][]string),
		bySharedID:       make(map[string][]string),
		byFamily:         make(map[string][]string),
		byOriginalParent: make(map[string][]string),
	}
	for i := range c {
		n := &c[i]
		// Duplicate ids can appear after upstream bugs; last write wins.
		ix.pos[n.ID] = i
	}
	for i := range c {
		n := &c[i]
		if ix.pos[n.ID] != i {
			continue
		}
		if n.ParentID != "" {
			ix.children[n.ParentID] = append(ix.children[n.ParentID], n.ID)
		}
		if n.OriginalParentID != "" {
			ix.byOriginalParent[n.OriginalParentID] = append(ix.byOriginalParent[n.OriginalParentID], n.ID)
		}
		if n.SharedID != "" {
			ix.bySharedID[n.SharedID] = append(ix.bySharedID[n.SharedID], n.ID)
		}
		if n.DynamicFamilyID != "" {
			ix.byFamily[n.DynamicFamilyID] = append(ix.byFamily[n.DynamicFamilyID], n.ID)
		}
	}
	return ix
}

// at returns a pointer into the indexed collection, nil on a miss.
// Internal only: callers must not retain it across mutations.
func (ix *Index) at(id string) *domain.Node {
	if id == "" {
		return nil
	}
	i, ok := ix.pos[id]
	if !ok {
		return nil
	}
	return &ix.c[i]
}

// Node returns a copy of the node with the given id.
func (ix *Index) Node(id string) (domain.Node, bool) {
	n := ix.at(id)
	if n == nil {
		return domain.Node{}, false
	}
	return n.Clone(), true
}

// Children returns the ids of a node's children in sibling order.
func (ix *Index) Children(id string) []string {
	return ix.children[id]
}

// SharedGroup returns every node id carrying the given sharedId.
func (ix *Index) SharedGroup(sharedID string) []string {
	return ix.bySharedID[sharedID]
}

// Family returns every node id in a dynamic family.
func (ix *Index) Family(familyID string) []string {
	return ix.byFamily[familyID]
}

// FindParentViewport walks the parent chain until a viewport root is
// found. Dynamic and variant nodes short-circuit through their
// recorded dynamicViewportId. Returns nil when the node is not under
// any viewport.
func (ix *Index) FindParentViewport(id string) *domain.Node {
	n := ix.at(id)
	if n == nil {
		return nil
	}
	if n.DynamicViewportID != "" {
		if vp := ix.at(n.DynamicViewportID); vp != nil && vp.IsViewport {
			c := vp.Clone()
			return &c
		}
	}
	seen := map[string]bool{}
	for n != nil && !seen[n.ID] {
		seen[n.ID] = true
		if n.IsViewport {
			c := n.Clone()
			return &c
		}
		n = ix.at(ix.lineageParent(n))
	}
	return nil
}

// lineageParent resolves a node's parent for ancestry walks: the live
// edge, then the staged originalParentId, then the placement saved
// when the node was detached for dynamic editing.
func (ix *Index) lineageParent(n *domain.Node) string {
	if n.ParentID != "" {
		return n.ParentID
	}
	if n.OriginalParentID != "" {
		return n.OriginalParentID
	}
	if n.OriginalState != nil {
		return n.OriginalState.ParentID
	}
	return ""
}

// IsWithinViewport reports whether the node or any ancestor is
// viewport-flagged, variant-linked, or was staged out of a viewport
// for dynamic editing.
func (ix *Index) IsWithinViewport(id string) bool {
	n := ix.at(id)
	seen := map[string]bool{}
	for n != nil && !seen[n.ID] {
		seen[n.ID] = true
		if n.IsViewport || n.InViewport || n.IsVariant || n.DynamicViewportID != "" {
			return true
		}
		if n.OriginalState != nil && n.OriginalState.InViewport {
			return true
		}
		n = ix.at(ix.lineageParent(n))
	}
	return false
}

// IsAncestor reports whether ancestorID appears on id's parent chain.
func (ix *Index) IsAncestor(ancestorID, id string) bool {
	if ancestorID == "" || id == "" {
		return false
	}
	n := ix.at(id)
	seen := map[string]bool{}
	for n != nil && !seen[n.ID] {
		seen[n.ID] = true
		if n.ParentID == ancestorID {
			return true
		}
		n = ix.at(n.ParentID)
	}
	return false
}

// Descendants returns every node id reachable from id via parent
// edges, breadth-first, excluding id itself.
func (ix *Index) Descendants(id string) []string {
	var out []string
	queue := append([]string(nil), ix.children[id]...)
	seen := map[string]bool{}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		queue = append(queue, ix.children[cur]...)
	}
	return out
}

// LineageDescendants walks both parent and original-parent edges.
// While a subtree is staged for dynamic editing its parent edges are
// nulled, so reachability has to consider the recorded original
// parents too.
func (ix *Index) LineageDescendants(id string) []string {
	var out []string
	queue := []string{id}
	seen := map[string]bool{id: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, edges := range [][]string{ix.children[cur], ix.byOriginalParent[cur]} {
			for _, child := range edges {
				if seen[child] {
					continue
				}
				seen[child] = true
				out = append(out, child)
				queue = append(queue, child)
			}
		}
	}
	return out
}

// Subtree returns id plus its parent-edge descendants in breadth-first
// order, skipping placeholder nodes.
func (ix *Index) Subtree(id string) []string {
	root := ix.at(id)
	if root == nil {
		return nil
	}
	out := []string{id}
	for _, d := range ix.Descendants(id) {
		if n := ix.at(d); n != nil && n.Type != domain.NodeTypePlaceholder {
			out = append(out, d)
		}
	}
	return out
}
