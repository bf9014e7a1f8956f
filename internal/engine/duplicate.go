package engine

import (
	"strconv"

	"pagecraft/internal/domain"
)

// Direction is the side a duplicate lands on relative to its source.
type Direction string

const (
	DirLeft   Direction = "left"
	DirRight  Direction = "right"
	DirTop    Direction = "top"
	DirBottom Direction = "bottom"
)

// variantGap is the fixed spacing between a dynamic node and a freshly
// duplicated variant.
const variantGap = 200

// Duplicate copies a node. For a dynamic root or variant the copy
// becomes a new named variant, replicated into every other viewport
// counterpart of the family; for an ordinary node it is a plain
// subtree copy with fresh identity. Returns the new root's id, or ""
// when the source is missing.
func Duplicate(c Collection, id string, dir Direction, size Size) (Collection, string) {
	ix := NewIndex(c)
	node := ix.at(id)
	if node == nil {
		return c, ""
	}
	if node.IsDynamic || node.IsVariant {
		return createVariant(c, id, "", dir, size)
	}
	return duplicatePlain(c, id, dir, size)
}

// CreateVariant promotes a copy of a dynamic root into a tracked named
// variant without an on-canvas duplicate gesture. Dimensions are read
// from the node's own style.
func CreateVariant(c Collection, dynamicID, name string) (Collection, string) {
	ix := NewIndex(c)
	node := ix.at(dynamicID)
	if node == nil || (!node.IsDynamic && !node.IsVariant) {
		return c, ""
	}
	return createVariant(c, dynamicID, name, DirRight, nodeSize(node))
}

// duplicatePlain copies a non-dynamic subtree: fresh ids, fresh shared
// ids, offset beside the original.
func duplicatePlain(c Collection, id string, dir Direction, size Size) (Collection, string) {
	ix := NewIndex(c)
	src := ix.at(id)
	if size == (Size{}) {
		size = nodeSize(src)
	}

	out := c.Clone()
	idMap := map[string]string{}
	var clones []domain.Node
	for _, sid := range append([]string{id}, ix.Descendants(id)...) {
		n := ix.at(sid)
		if n == nil {
			continue
		}
		clone := n.Clone()
		clone.ID = newID()
		if clone.SharedID != "" {
			clone.SharedID = newID()
		}
		idMap[sid] = clone.ID
		if mapped, ok := idMap[n.ParentID]; ok {
			clone.ParentID = mapped
		}
		clones = append(clones, clone)
	}
	if len(clones) == 0 {
		return c, ""
	}

	pos := offsetPoint(nodePoint(src), dir, size)
	placeAt(&clones[0], pos)
	return append(out, clones...), clones[0].ID
}

// createVariant clones the origin subtree into a new variant of its
// dynamic family and replicates the same variant, under the same
// cross-viewport variant id, into every other viewport counterpart.
func createVariant(c Collection, originID, name string, dir Direction, size Size) (Collection, string) {
	out := c.Clone()
	ix := NewIndex(out)
	origin := ix.at(originID)
	if origin == nil {
		return c, ""
	}

	// Resolve the dynamic root the variant hangs off.
	rootID := originID
	if origin.IsVariant && origin.VariantParentID != "" {
		if ix.at(origin.VariantParentID) != nil {
			rootID = origin.VariantParentID
		}
	}
	root := ix.at(rootID)
	if root.SharedID == "" {
		root.SharedID = newID()
	}
	if root.DynamicFamilyID == "" {
		root.DynamicFamilyID = newID()
	}
	family := root.DynamicFamilyID

	if name == "" {
		name = defaultVariantName(out, family)
	}
	info := domain.VariantInfo{ID: newID(), Name: name}
	if size == (Size{}) {
		size = nodeSize(origin)
	}

	originPos := nodePoint(origin)
	newPos := offsetPoint(originPos, dir, size)
	clones := cloneVariantTree(ix, originID, rootID, root.DynamicViewportID, family, info)
	if len(clones) == 0 {
		return c, ""
	}
	placeAt(&clones[0], newPos)
	newVariantID := clones[0].ID
	out = append(out, clones...)

	// Replicate across every other viewport counterpart of the family.
	for _, cpID := range ix.Family(family) {
		cp := ix.at(cpID)
		if cp == nil || !cp.IsDynamic || cp.ID == rootID {
			continue
		}
		cpPos := variantPlacement(ix, root, cp, family, newPos)
		cpClones := cloneVariantTree(ix, originID, cp.ID, cp.DynamicViewportID, family, info)
		if len(cpClones) == 0 {
			continue
		}
		placeAt(&cpClones[0], cpPos)
		out = append(out, cpClones...)
	}

	return CleanupDynamicConnections(out, family), newVariantID
}

// cloneVariantTree copies the origin subtree as one variant instance:
// fresh id per node, same sharedId per corresponding original (the
// cross-tree identity), variant tags throughout.
func cloneVariantTree(ix *Index, originID, rootID, viewportID, familyID string, info domain.VariantInfo) []domain.Node {
	idMap := map[string]string{}
	var clones []domain.Node
	order := append([]string{originID}, ix.Descendants(originID)...)
	for _, sid := range order {
		src := ix.at(sid)
		if src == nil {
			continue
		}
		if src.SharedID == "" {
			// First need: the original must carry the identity the
			// copy shares, or later syncs cannot match them.
			src.SharedID = newID()
		}
		clone := src.Clone()
		clone.ID = newID()
		clone.IsDynamic = false
		clone.IsVariant = true
		v := info
		clone.VariantInfo = &v
		clone.VariantParentID = rootID
		clone.VariantResponsiveID = info.ID
		clone.DynamicFamilyID = familyID
		clone.DynamicViewportID = viewportID
		clone.IndependentStyles = nil
		clone.DynamicConnections = nil
		clone.OriginalState = nil
		idMap[sid] = clone.ID
		if sid == originID {
			clone.ParentID = ""
			clone.OriginalParentID = ""
			clone.DynamicParentID = ""
			clone.InViewport = false
		} else {
			parent := src.ParentID
			if parent == "" {
				parent = src.OriginalParentID
			}
			if mapped, ok := idMap[parent]; ok {
				clone.ParentID = mapped
				clone.OriginalParentID = mapped
			} else {
				clone.ParentID = idMap[originID]
				clone.OriginalParentID = idMap[originID]
			}
			clone.DynamicParentID = idMap[originID]
		}
		clones = append(clones, clone)
	}
	return clones
}

// variantPlacement picks where a replicated variant lands in another
// viewport counterpart: when a sibling variant already exists on both
// sides, the new variant keeps the same relative offset to it;
// otherwise the origin-side offset is applied to the counterpart root.
func variantPlacement(ix *Index, originRoot, cp *domain.Node, familyID string, newPos domain.Point) domain.Point {
	for _, mid := range ix.Family(familyID) {
		sv := ix.at(mid)
		if sv == nil || !sv.IsVariant || sv.VariantInfo == nil {
			continue
		}
		if sv.DynamicViewportID != originRoot.DynamicViewportID || sv.DynamicParentID != "" {
			// Only variant roots in the origin viewport anchor the match.
			continue
		}
		cv := counterpartVariant(ix, familyID, sv.VariantInfo.ID, cp.DynamicViewportID)
		if cv == nil {
			continue
		}
		svPos := nodePoint(sv)
		cvPos := nodePoint(cv)
		return domain.Point{X: cvPos.X + (newPos.X - svPos.X), Y: cvPos.Y + (newPos.Y - svPos.Y)}
	}
	rootPos := nodePoint(originRoot)
	cpPos := nodePoint(cp)
	return domain.Point{X: cpPos.X + (newPos.X - rootPos.X), Y: cpPos.Y + (newPos.Y - rootPos.Y)}
}

// counterpartVariant finds the variant-root instance of variantID
// living in the given viewport, nil when absent.
func counterpartVariant(ix *Index, familyID, variantID, viewportID string) *domain.Node {
	for _, mid := range ix.Family(familyID) {
		n := ix.at(mid)
		if n == nil || !n.IsVariant || n.VariantInfo == nil || n.DynamicParentID != "" {
			continue
		}
		if n.VariantInfo.ID == variantID && n.DynamicViewportID == viewportID {
			return n
		}
	}
	return nil
}

// defaultVariantName numbers variants within a family: "Variant 2" is
// the family's second state after the base.
func defaultVariantName(c Collection, familyID string) string {
	seen := map[string]bool{}
	for i := range c {
		n := &c[i]
		if n.DynamicFamilyID == familyID && n.IsVariant && n.VariantInfo != nil {
			seen[n.VariantInfo.ID] = true
		}
	}
	return "Variant " + strconv.Itoa(len(seen)+2)
}

// offsetPoint shifts a point by element size plus the variant gap in
// the given direction.
func offsetPoint(p domain.Point, dir Direction, size Size) domain.Point {
	switch dir {
	case DirLeft:
		return domain.Point{X: p.X - size.Width - variantGap, Y: p.Y}
	case DirTop:
		return domain.Point{X: p.X, Y: p.Y - size.Height - variantGap}
	case DirBottom:
		return domain.Point{X: p.X, Y: p.Y + size.Height + variantGap}
	default:
		return domain.Point{X: p.X + size.Width + variantGap, Y: p.Y}
	}
}

// placeAt pins a clone root at an absolute canvas point.
func placeAt(n *domain.Node, p domain.Point) {
	pt := p
	n.Position = &pt
	if n.Style == nil {
		n.Style = domain.Style{}
	}
	n.Style["position"] = "absolute"
	n.Style["left"] = px(p.X)
	n.Style["top"] = px(p.Y)
}
