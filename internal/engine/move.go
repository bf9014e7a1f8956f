package engine

import "pagecraft/internal/domain"

// MoveOptions carries the splice target for an in-flow move. Index,
// when non-negative and Place is inside, picks the sibling slot under
// the target; otherwise the node is appended after existing children.
type MoveOptions struct {
	TargetID string        `json:"targetId"`
	Place    Placement     `json:"position"`
	Index    int           `json:"index"`
	Position *domain.Point `json:"point,omitempty"`
}

// Move toggles a node between free-canvas placement and in-flow
// placement, or re-splices it under a new target.
//
// Out of viewport: position becomes absolute, the parent edge is
// cleared, and the explicit canvas point is recorded. Into a flow:
// position becomes relative, a sharedId is assigned on first need, and
// the node is spliced relative to the target exactly like Insert.
//
// Moving a node into itself or its own descendant is a silent no-op.
// Callers landing a node inside a dynamic or variant target follow up
// with SyncVariants so the subtree gains counterparts.
func Move(c Collection, id string, inViewport bool, opts MoveOptions) Collection {
	ix := NewIndex(c)
	if ix.at(id) == nil {
		return c
	}
	if opts.TargetID == id || ix.IsAncestor(id, opts.TargetID) {
		return c
	}

	out := c.Clone()
	i := out.IndexOf(id)
	node := out[i].Clone()

	if !inViewport {
		if node.Style == nil {
			node.Style = domain.Style{}
		}
		node.Style["position"] = "absolute"
		node.ParentID = ""
		node.InViewport = false
		if opts.Position != nil {
			p := *opts.Position
			node.Position = &p
		}
		out[i] = node
		return out
	}

	if node.Style == nil {
		node.Style = domain.Style{}
	}
	node.Style["position"] = "relative"
	node.InViewport = true
	if node.SharedID == "" {
		node.SharedID = newID()
	}

	out = out.removeAt(i)
	target := out.IndexOf(opts.TargetID)
	if opts.TargetID == "" || target < 0 {
		node.ParentID = ""
		return append(out, node)
	}

	switch opts.Place {
	case PlaceBefore, PlaceAfter:
		node.ParentID = out[target].ParentID
		if p := out.IndexOf(node.ParentID); p >= 0 {
			parent := out[p]
			inheritDynamicContext(&node, &parent)
		}
		at := target
		if opts.Place == PlaceAfter {
			at++
		}
		return out.insertAt(at, node)
	default: // inside
		node.ParentID = opts.TargetID
		tn := out[target]
		inheritDynamicContext(&node, &tn)
		if opts.Index >= 0 {
			if at := siblingSlot(out, opts.TargetID, opts.Index); at >= 0 {
				return out.insertAt(at, node)
			}
		}
		return append(out, node)
	}
}

// siblingSlot returns the collection position of the index-th child of
// parentID, or -1 when the index is past the last child.
func siblingSlot(c Collection, parentID string, index int) int {
	seen := 0
	for i := range c {
		if c[i].ParentID != parentID {
			continue
		}
		if seen == index {
			return i
		}
		seen++
	}
	return -1
}
