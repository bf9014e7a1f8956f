package engine

import (
	"sort"

	"pagecraft/internal/domain"
)

// SyncVariants propagates a structural or style edit made under one
// instance of a dynamic component to every sibling instance: the other
// viewports' dynamic roots and every named variant. The edit's
// position is located by walking the ancestor chain up to the dynamic
// root, then replayed at the corresponding depth of each sync target
// by sharedId matching. A target where any chain level fails to
// resolve is skipped whole; there is no partial sync.
//
// Before anything is created, duplicate counterparts that slipped in
// through earlier partial syncs are detected and collapsed.
func SyncVariants(c Collection, editedID string) Collection {
	ix := NewIndex(c)
	edited := ix.at(editedID)
	if edited == nil {
		return c
	}

	chain, origin := ancestorChainToRoot(ix, edited)
	if origin == nil {
		return c
	}
	family := origin.DynamicFamilyID
	if family == "" {
		return c
	}

	out := c.Clone()
	if edited.SharedID == "" {
		i := out.IndexOf(editedID)
		out[i].SharedID = newID()
	}
	sharedID := out[out.IndexOf(editedID)].SharedID

	var targets []string
	for _, mid := range NewIndex(out).Family(family) {
		n, _ := out.Get(mid)
		if mid == origin.ID {
			continue
		}
		if n.IsDynamic || (n.IsVariant && n.DynamicParentID == "") {
			targets = append(targets, mid)
		}
	}

	for _, tid := range targets {
		out = collapseDuplicates(out, tid, sharedID)
	}

	for _, tid := range targets {
		ox := NewIndex(out)
		target := ox.at(tid)
		if target == nil {
			continue
		}
		corr := resolveCorrespondent(ox, target, chain)
		if corr == "" {
			continue
		}
		out = reconcileInto(out, editedID, corr, tid)
	}
	return out
}

// ancestorChainToRoot walks upward from the edited node, collecting
// the intermediate ancestors (bottom-up) until a dynamic root or
// variant root is found. Nil origin means the edit is not part of a
// dynamic system.
func ancestorChainToRoot(ix *Index, edited *domain.Node) ([]domain.Node, *domain.Node) {
	var chain []domain.Node
	cur := edited.ParentID
	if cur == "" {
		cur = edited.OriginalParentID
	}
	seen := map[string]bool{}
	for cur != "" && !seen[cur] {
		seen[cur] = true
		n := ix.at(cur)
		if n == nil {
			return nil, nil
		}
		if n.IsDynamic || (n.IsVariant && n.DynamicParentID == "") {
			return chain, n
		}
		chain = append(chain, n.Clone())
		cur = n.ParentID
		if cur == "" {
			cur = n.OriginalParentID
		}
	}
	return nil, nil
}

// resolveCorrespondent walks the ancestor chain top-down on the target
// side, matching each level by sharedId. Empty result means some level
// had no counterpart and the target must be skipped.
func resolveCorrespondent(ix *Index, target *domain.Node, chain []domain.Node) string {
	corr := target.ID
	for i := len(chain) - 1; i >= 0; i-- {
		match := childBySharedID(ix, corr, chain[i].SharedID)
		if match == "" {
			return ""
		}
		corr = match
	}
	return corr
}

// childBySharedID finds the child of parentID (live or staged lineage)
// carrying the given sharedId.
func childBySharedID(ix *Index, parentID, sharedID string) string {
	if sharedID == "" {
		return ""
	}
	for _, edges := range [][]string{ix.Children(parentID), ix.byOriginalParent[parentID]} {
		for _, cid := range edges {
			if n := ix.at(cid); n != nil && n.SharedID == sharedID {
				return cid
			}
		}
	}
	return ""
}

// collapseDuplicates repairs the at-most-one-counterpart invariant:
// when more than one node with the edited sharedId claims to live
// under one sync target, the direct child of the target survives;
// remaining ties break on smallest id. Losers go, descendants
// included.
func collapseDuplicates(c Collection, targetID, sharedID string) Collection {
	ix := NewIndex(c)
	var candidates []string
	for _, nid := range ix.SharedGroup(sharedID) {
		if nid == targetID {
			continue
		}
		if underLineage(ix, targetID, nid) {
			candidates = append(candidates, nid)
		}
	}
	if len(candidates) <= 1 {
		return c
	}

	sort.Strings(candidates)
	keep := candidates[0]
	for _, cid := range candidates {
		n := ix.at(cid)
		if n.ParentID == targetID || n.OriginalParentID == targetID {
			keep = cid
			break
		}
	}

	doomed := map[string]bool{}
	for _, cid := range candidates {
		if cid == keep {
			continue
		}
		doomed[cid] = true
		for _, did := range ix.LineageDescendants(cid) {
			doomed[did] = true
		}
	}
	return c.Clone().without(doomed)
}

// underLineage reports whether id sits in targetID's subtree, walking
// live parents with staged-lineage fallback.
func underLineage(ix *Index, targetID, id string) bool {
	n := ix.at(id)
	seen := map[string]bool{}
	for n != nil && !seen[n.ID] {
		seen[n.ID] = true
		parent := n.ParentID
		if parent == "" {
			parent = n.OriginalParentID
		}
		if parent == targetID {
			return true
		}
		n = ix.at(parent)
	}
	return false
}

// reconcileInto is the create-or-update-by-sharedId step, shared by
// the top-level edit and the recursive frame-children case. A child of
// dstParent with the source's sharedId is updated in place (keeping
// its id and independent styles); a missing one is cloned fresh and
// tagged for the target's viewport and, when the target is a variant,
// its variant identity.
func reconcileInto(c Collection, srcID, dstParentID, targetID string) Collection {
	ix := NewIndex(c)
	src := ix.at(srcID)
	target := ix.at(targetID)
	if src == nil || target == nil || ix.at(dstParentID) == nil {
		return c
	}

	out := c
	existing := childBySharedID(ix, dstParentID, src.SharedID)
	var dstID string
	if existing != "" {
		out = out.Clone()
		d := &out[out.IndexOf(existing)]
		d.Type = src.Type
		d.Name = src.Name
		d.IsLocked = src.IsLocked
		for k, v := range src.Style {
			if d.IndependentStyles[k] {
				continue
			}
			if d.Style == nil {
				d.Style = domain.Style{}
			}
			d.Style[k] = v
		}
		dstID = existing
	} else {
		clone := src.Clone()
		clone.ID = newID()
		clone.ParentID = dstParentID
		clone.OriginalParentID = dstParentID
		clone.IsDynamic = false
		clone.DynamicParentID = targetID
		clone.DynamicFamilyID = target.DynamicFamilyID
		clone.DynamicViewportID = target.DynamicViewportID
		clone.IndependentStyles = nil
		clone.DynamicConnections = nil
		clone.OriginalState = nil
		if target.IsVariant {
			clone.IsVariant = true
			if target.VariantInfo != nil {
				v := *target.VariantInfo
				clone.VariantInfo = &v
				clone.VariantResponsiveID = v.ID
			}
			clone.VariantParentID = target.VariantParentID
		} else {
			clone.IsVariant = false
			clone.VariantInfo = nil
			clone.VariantParentID = ""
			clone.VariantResponsiveID = ""
		}
		out = append(out.Clone(), clone)
		dstID = clone.ID
	}

	// A frame's own children must appear, once each, under every
	// corresponding frame; the same helper recurses so duplicate
	// detection lives in one place.
	if src.Type == domain.NodeTypeFrame {
		ox := NewIndex(out)
		childIDs := append([]string{}, ox.Children(srcID)...)
		childIDs = append(childIDs, ox.byOriginalParent[srcID]...)
		seen := map[string]bool{}
		for _, cid := range childIDs {
			if seen[cid] || cid == dstID {
				continue
			}
			seen[cid] = true
			out = reconcileInto(out, cid, dstID, targetID)
		}
	}
	return out
}
