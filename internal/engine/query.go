package engine

import "pagecraft/internal/domain"

// Mode selects which node subset the canvas renders.
type Mode string

const (
	ModeDynamic       Mode = "dynamicMode"
	ModeInViewport    Mode = "inViewport"
	ModeOutOfViewport Mode = "outOfViewport"
)

// VisibleNodes derives the render set for a mode. Normal modes exclude
// dynamic descendants and variants and partition by viewport
// membership. Dynamic mode resolves the base instance for the active
// viewport, then returns it with its variants and both subtrees,
// base-instance nodes ordered before variant nodes.
func VisibleNodes(c Collection, mode Mode, dynamicID, activeViewportID string) []domain.Node {
	deduped := dedupeByID(c)
	if mode != ModeDynamic {
		var out []domain.Node
		for i := range deduped {
			n := &deduped[i]
			if n.IsDynamicDescendant() {
				continue
			}
			inFlow := n.InViewport || n.IsViewport
			if (mode == ModeInViewport) == inFlow {
				out = append(out, n.Clone())
			}
		}
		return out
	}

	ix := NewIndex(deduped)
	base := resolveDynamicBase(ix, dynamicID, activeViewportID)
	if base == nil {
		return nil
	}

	var out []domain.Node
	seen := map[string]bool{}
	add := func(id string) {
		if seen[id] {
			return
		}
		if n := ix.at(id); n != nil {
			seen[id] = true
			out = append(out, n.Clone())
		}
	}

	// Base instance first so default z-order favors it.
	add(base.ID)
	for _, did := range ix.LineageDescendants(base.ID) {
		add(did)
	}
	for _, mid := range ix.Family(base.DynamicFamilyID) {
		v := ix.at(mid)
		if v == nil || !v.IsVariant || v.DynamicParentID != "" {
			continue
		}
		if v.DynamicViewportID != base.DynamicViewportID {
			continue
		}
		add(mid)
		for _, did := range ix.LineageDescendants(mid) {
			add(did)
		}
	}
	return out
}

// dedupeByID drops duplicate ids defensively; the last write wins.
func dedupeByID(c Collection) Collection {
	pos := map[string]int{}
	out := make(Collection, 0, len(c))
	for i := range c {
		if at, dup := pos[c[i].ID]; dup {
			out[at] = c[i]
			continue
		}
		pos[c[i].ID] = len(out)
		out = append(out, c[i])
	}
	return out
}

// resolveDynamicBase locates the component instance to edit for the
// active viewport, cascading: direct id, sharedId match, responsive
// variant key, family root, then staged-lineage viewport search.
func resolveDynamicBase(ix *Index, dynamicID, activeViewportID string) *domain.Node {
	entry := ix.at(dynamicID)
	if entry == nil {
		return nil
	}
	if activeViewportID == "" || entry.DynamicViewportID == activeViewportID {
		return entry
	}

	if entry.SharedID != "" {
		for _, mid := range ix.SharedGroup(entry.SharedID) {
			if n := ix.at(mid); n != nil && n.IsDynamic && n.DynamicViewportID == activeViewportID {
				return n
			}
		}
	}

	if entry.VariantResponsiveID != "" {
		for i := range ix.c {
			n := &ix.c[i]
			if n.VariantResponsiveID == entry.VariantResponsiveID && n.DynamicViewportID == activeViewportID && n.DynamicParentID == "" {
				return n
			}
		}
	}

	if entry.DynamicFamilyID != "" {
		for _, mid := range ix.Family(entry.DynamicFamilyID) {
			if n := ix.at(mid); n != nil && n.IsDynamic && n.DynamicViewportID == activeViewportID {
				return n
			}
		}
		// Last resort: a family member whose staged lineage still
		// reaches the active viewport through original parents.
		for _, mid := range ix.Family(entry.DynamicFamilyID) {
			n := ix.at(mid)
			if n == nil || !n.IsDynamic {
				continue
			}
			if vp := ix.FindParentViewport(mid); vp != nil && vp.ID == activeViewportID {
				return n
			}
		}
	}
	return entry
}
