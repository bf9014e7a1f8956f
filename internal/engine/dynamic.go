package engine

import "pagecraft/internal/domain"

// MarkDynamic promotes a node to the canonical root of a dynamic
// component. Its descendants are linked to it, and every same-identity
// counterpart in other viewports becomes a dynamic root of the same
// family, one per viewport. Family and shared ids are assigned on
// first need and never reassigned.
func MarkDynamic(c Collection, id string) Collection {
	ix := NewIndex(c)
	node := ix.at(id)
	if node == nil || node.IsDynamic {
		return c
	}

	out := c.Clone()
	ox := NewIndex(out)

	familyID := node.DynamicFamilyID
	if familyID == "" {
		familyID = newID()
	}
	sharedID := node.SharedID
	if sharedID == "" {
		sharedID = newID()
	}

	roots := []string{id}
	if node.SharedID != "" {
		roots = ix.SharedGroup(node.SharedID)
	}
	for _, rid := range roots {
		root := ox.at(rid)
		if root == nil {
			continue
		}
		root.IsDynamic = true
		root.SharedID = sharedID
		root.DynamicFamilyID = familyID
		if vp := ox.FindParentViewport(rid); vp != nil {
			root.DynamicViewportID = vp.ID
		}
		for _, did := range ox.Descendants(rid) {
			d := ox.at(did)
			if d == nil {
				continue
			}
			d.DynamicParentID = rid
			d.DynamicFamilyID = familyID
			if d.SharedID == "" {
				d.SharedID = newID()
			}
			d.DynamicViewportID = root.DynamicViewportID
		}
	}
	return out
}

// SetConnection upserts one interaction edge on the source node. At
// most one connection per (source, type): a later write replaces any
// earlier one of the same type.
func SetConnection(c Collection, sourceID, targetID string, t domain.ConnectionType) Collection {
	i := c.IndexOf(sourceID)
	if i < 0 || c.IndexOf(targetID) < 0 {
		return c
	}
	out := c.Clone()
	n := &out[i]
	kept := n.DynamicConnections[:0]
	for _, conn := range n.DynamicConnections {
		if conn.Type != t {
			kept = append(kept, conn)
		}
	}
	n.DynamicConnections = append(kept, domain.Connection{
		SourceID: sourceID,
		TargetID: targetID,
		Type:     t,
	})
	return out
}

// CleanupDynamicConnections rebuilds connection consistency across a
// dynamic family: one connection per (target, type) pair family-wide,
// first holder wins, redundant entries discarded. Bulk duplication
// replays connections onto clones, so this runs after it to stop
// connection-count drift.
func CleanupDynamicConnections(c Collection, familyID string) Collection {
	if familyID == "" {
		return c
	}
	out := c.Clone()
	type key struct {
		target string
		t      domain.ConnectionType
	}
	seen := map[key]bool{}
	for i := range out {
		n := &out[i]
		if n.DynamicFamilyID != familyID || len(n.DynamicConnections) == 0 {
			continue
		}
		kept := n.DynamicConnections[:0]
		for _, conn := range n.DynamicConnections {
			k := key{conn.TargetID, conn.Type}
			if seen[k] {
				continue
			}
			seen[k] = true
			kept = append(kept, conn)
		}
		if len(kept) == 0 {
			n.DynamicConnections = nil
		} else {
			n.DynamicConnections = kept
		}
	}
	return out
}

// EnterDynamicMode stages a dynamic component for isolated editing.
// The root and every same-identity counterpart across viewports are
// detached to root simultaneously, each saving its pre-mode placement;
// their descendants record their parent in originalParentId and drop
// the live parent edge for the duration of the mode.
func EnterDynamicMode(c Collection, id string) Collection {
	ix := NewIndex(c)
	node := ix.at(id)
	if node == nil {
		return c
	}

	roots := []string{id}
	if node.SharedID != "" {
		roots = ix.SharedGroup(node.SharedID)
	}

	out := c.Clone()
	ox := NewIndex(out)
	for _, rid := range roots {
		root := ox.at(rid)
		if root == nil || root.OriginalState != nil {
			continue
		}
		state := &domain.OriginalState{
			ParentID:   root.ParentID,
			InViewport: root.InViewport,
		}
		if root.Position != nil {
			p := *root.Position
			state.Position = &p
		}
		root.OriginalState = state
		root.ParentID = ""
		root.InViewport = false
		if root.DynamicPosition == nil && root.Position != nil {
			p := *root.Position
			root.DynamicPosition = &p
		}
		for _, did := range ox.Descendants(rid) {
			d := ox.at(did)
			if d == nil || d.ParentID == "" {
				continue
			}
			d.OriginalParentID = d.ParentID
			d.ParentID = ""
		}
	}
	return out
}

// ExitDynamicMode restores every staged counterpart of the component
// to its saved placement: parent edge and viewport membership come
// back from originalState, style position resets to the flow default,
// and the transient state is cleared.
func ExitDynamicMode(c Collection, id string) Collection {
	ix := NewIndex(c)
	node := ix.at(id)
	if node == nil {
		return c
	}

	roots := []string{id}
	if node.SharedID != "" {
		roots = ix.SharedGroup(node.SharedID)
	}

	out := c.Clone()
	ox := NewIndex(out)
	for _, rid := range roots {
		root := ox.at(rid)
		if root == nil || root.OriginalState == nil {
			continue
		}
		// Restore descendants first: their lineage is only reachable
		// through originalParentId while the root is staged.
		for _, did := range ox.LineageDescendants(rid) {
			d := ox.at(did)
			if d == nil || d.OriginalParentID == "" || d.ParentID != "" {
				continue
			}
			d.ParentID = d.OriginalParentID
		}
		state := root.OriginalState
		if ox.at(state.ParentID) != nil {
			root.ParentID = state.ParentID
		} else {
			root.ParentID = ""
		}
		root.InViewport = state.InViewport
		if state.Position != nil {
			p := *state.Position
			root.Position = &p
		}
		if root.Style == nil {
			root.Style = domain.Style{}
		}
		root.Style["position"] = "relative"
		root.OriginalState = nil
		root.DynamicPosition = nil
	}
	return out
}
