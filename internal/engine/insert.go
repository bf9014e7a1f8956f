package engine

import "pagecraft/internal/domain"

// Placement says where a node lands relative to its insertion target.
type Placement string

const (
	PlaceInside Placement = "inside"
	PlaceBefore Placement = "before"
	PlaceAfter  Placement = "after"
)

// Insert adds a node to the collection. A missing or empty target
// detaches the node to root rather than failing: an interactive editor
// prefers a visible-but-misplaced node over losing the drop.
//
// Inserting a node inside itself or its own descendant is rejected as
// a silent no-op; the caller's tree is returned unchanged.
func Insert(c Collection, node domain.Node, targetID string, place Placement, inViewport bool) Collection {
	ix := NewIndex(c)
	if targetID == node.ID || ix.IsAncestor(node.ID, targetID) {
		return c
	}

	node = node.Clone()
	node.InViewport = inViewport
	cleanupForType(&node)

	if inViewport && node.SharedID == "" {
		node.SharedID = newID()
	}

	out := c.Clone()
	target := ix.at(targetID)
	if targetID == "" || target == nil {
		node.ParentID = ""
		return append(out, node)
	}

	switch place {
	case PlaceInside:
		node.ParentID = targetID
		inheritDynamicContext(&node, target)
		// Appending at collection end makes it the last child: sibling
		// order is relative collection order.
		return append(out, node)
	case PlaceBefore, PlaceAfter:
		node.ParentID = target.ParentID
		if parent := ix.at(target.ParentID); parent != nil {
			inheritDynamicContext(&node, parent)
		}
		i := out.IndexOf(targetID)
		if i < 0 {
			return append(out, node)
		}
		if place == PlaceAfter {
			i++
		}
		return out.insertAt(i, node)
	default:
		node.ParentID = ""
		return append(out, node)
	}
}

// inheritDynamicContext links a node landing inside a dynamic or
// variant subtree to that subtree's root, family, and variant
// identity, so later variant syncs can find and replay it.
func inheritDynamicContext(node, parent *domain.Node) {
	if !parent.PartOfDynamicSystem() {
		return
	}
	switch {
	case parent.IsDynamic, parent.IsVariant && parent.DynamicParentID == "":
		node.DynamicParentID = parent.ID
	default:
		node.DynamicParentID = parent.DynamicParentID
	}
	node.DynamicFamilyID = parent.DynamicFamilyID
	node.DynamicViewportID = parent.DynamicViewportID
	if parent.IsVariant {
		node.IsVariant = true
		node.VariantParentID = parent.VariantParentID
		if parent.VariantInfo != nil {
			v := *parent.VariantInfo
			node.VariantInfo = &v
		}
	}
}

// cleanupForType strips style fields that don't belong to the node's
// type: media nodes carry no text payload and text nodes no src.
func cleanupForType(n *domain.Node) {
	if n.Style == nil {
		return
	}
	switch n.Type {
	case domain.NodeTypeImage, domain.NodeTypeVideo:
		delete(n.Style, "text")
	case domain.NodeTypeText:
		delete(n.Style, "src")
	case domain.NodeTypeFrame, domain.NodeTypePlaceholder:
	}
}

// Remove deletes exactly one node. It deliberately does not cascade to
// children: callers that want subtree deletion remove descendants
// explicitly, which keeps a stray id from silently wiping a tree.
// Children of the removed node become danglers and are treated as
// detached roots by readers.
func Remove(c Collection, id string) Collection {
	i := c.IndexOf(id)
	if i < 0 {
		return c
	}
	return c.Clone().removeAt(i)
}

// RemoveSubtree deletes a node and every parent-edge descendant. This
// is the explicit cascade built on Remove for callers that do want it.
func RemoveSubtree(c Collection, id string) Collection {
	ix := NewIndex(c)
	if ix.at(id) == nil {
		return c
	}
	doomed := map[string]bool{id: true}
	for _, d := range ix.Descendants(id) {
		doomed[d] = true
	}
	return c.Clone().without(doomed)
}

// SetLocked toggles interactive-mutation protection on a node. The
// flag is advisory: the interaction layer checks it, the engine does
// not enforce it.
func SetLocked(c Collection, id string, locked bool) Collection {
	i := c.IndexOf(id)
	if i < 0 {
		return c
	}
	out := c.Clone()
	out[i].IsLocked = locked
	return out
}

// Rename sets a node's display name, propagating to every counterpart
// sharing its identity so layer panels agree across viewports.
func Rename(c Collection, id, name string) Collection {
	i := c.IndexOf(id)
	if i < 0 {
		return c
	}
	out := c.Clone()
	shared := out[i].SharedID
	out[i].Name = name
	if shared == "" {
		return out
	}
	for j := range out {
		if out[j].SharedID == shared {
			out[j].Name = name
		}
	}
	return out
}
