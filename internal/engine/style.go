package engine

import "pagecraft/internal/domain"

// positionalProps are the placement/dimension style keys. They always
// land in the base style, never in a per-state bag.
var positionalProps = map[string]bool{
	"left":     true,
	"top":      true,
	"right":    true,
	"bottom":   true,
	"width":    true,
	"height":   true,
	"position": true,
}

// UpdateStyle patches the style of every target node and propagates
// the patch across shared-identity and variant counterparts.
//
// Edits made in a non-canonical viewport mark the touched keys
// independent on that node, exempting them from future viewport
// synchronization, and do not propagate. Canonical edits propagate to
// every counterpart, each receiver keeping its own independent keys.
//
// A non-empty stateKey ("hovered") routes non-positional properties
// into the node's per-state bag; positional properties always apply to
// the base style.
func UpdateStyle(c Collection, ids []string, patch domain.Style, stateKey string) Collection {
	if len(patch) == 0 || len(ids) == 0 {
		return c
	}
	out := c.Clone()
	ix := NewIndex(out)
	canonical := out.CanonicalViewport()

	for _, id := range ids {
		node := ix.at(id)
		if node == nil {
			continue
		}

		if vp := ix.FindParentViewport(id); vp != nil && canonical != nil &&
			vp.ID != canonical.ID && vp.ViewportWidth != canonical.ViewportWidth {
			if node.IndependentStyles == nil {
				node.IndependentStyles = map[string]bool{}
			}
			for k := range patch {
				node.IndependentStyles[k] = true
			}
		}

		applyPatch(node, patch, stateKey, nil)

		// Propagate only while at least one touched key is unmasked on
		// the edited node; a fully-independent edit stays local.
		if allMasked(node.IndependentStyles, patch) {
			continue
		}

		receivers := map[string]bool{}
		if node.SharedID != "" {
			for _, rid := range ix.SharedGroup(node.SharedID) {
				receivers[rid] = true
			}
		}
		if node.DynamicFamilyID != "" && node.VariantInfo != nil {
			for _, rid := range ix.Family(node.DynamicFamilyID) {
				if r := ix.at(rid); r != nil && r.VariantInfo != nil && r.VariantInfo.ID == node.VariantInfo.ID {
					receivers[rid] = true
				}
			}
		}
		delete(receivers, id)

		for rid := range receivers {
			r := ix.at(rid)
			if r == nil {
				continue
			}
			applyPatch(r, patch, stateKey, r.IndependentStyles)
			cascadeDimensions(ix, r, patch)
		}
		cascadeDimensions(ix, node, patch)
	}
	return out
}

// applyPatch writes patch onto n, skipping masked keys.
func applyPatch(n *domain.Node, patch domain.Style, stateKey string, mask map[string]bool) {
	for k, v := range patch {
		if mask[k] {
			continue
		}
		if stateKey != "" && !positionalProps[k] {
			if n.DynamicStates == nil {
				n.DynamicStates = map[string]domain.Style{}
			}
			bag := n.DynamicStates[stateKey]
			if bag == nil {
				bag = domain.Style{}
				n.DynamicStates[stateKey] = bag
			}
			bag[k] = v
			continue
		}
		if n.Style == nil {
			n.Style = domain.Style{}
		}
		n.Style[k] = v
	}
}

// cascadeDimensions runs after a dimension change on a frame. Children
// of an in-flow frame must stay position:relative; a variant child
// found with a stale absolute offset is forced back.
func cascadeDimensions(ix *Index, n *domain.Node, patch domain.Style) {
	if n.Type != domain.NodeTypeFrame {
		return
	}
	if _, w := patch["width"]; !w {
		if _, h := patch["height"]; !h {
			return
		}
	}
	for _, cid := range ix.Children(n.ID) {
		child := ix.at(cid)
		if child == nil || child.Style == nil {
			continue
		}
		if child.Style["position"] == "absolute" && child.PartOfDynamicSystem() {
			child.Style["position"] = "relative"
		}
	}
}

// allMasked reports whether every patch key is independent on n.
func allMasked(mask map[string]bool, patch domain.Style) bool {
	if len(mask) == 0 {
		return false
	}
	for k := range patch {
		if !mask[k] {
			return false
		}
	}
	return true
}
