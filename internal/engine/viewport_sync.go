package engine

import "pagecraft/internal/domain"

// SyncViewports reconciles every non-canonical viewport subtree
// against the canonical one: stale derived nodes are removed, missing
// counterparts created, styles copied wholesale, then each old node's
// independent properties re-applied. A node whose sharedId already had
// a counterpart in a viewport keeps that counterpart's id, so
// selection state in the UI survives the pass. Dynamic subtrees are
// never touched: they are edited through SyncVariants.
//
// The pass is idempotent: with no intervening edits a second run is a
// structural and stylistic no-op.
func SyncViewports(c Collection) Collection {
	canonical := c.CanonicalViewport()
	if canonical == nil {
		return c
	}
	out := c
	for _, vp := range c.Viewports() {
		if vp.ID == canonical.ID {
			continue
		}
		out = syncViewportPair(out, canonical.ID, vp.ID, true)
	}
	return out
}

// SyncFromViewport promotes an arbitrary viewport's subtree to the new
// source of truth and replicates it to every other viewport, canonical
// included. Clones always get fresh ids and empty independent-style
// sets: the promoted subtree has no historical counterparts to honor.
func SyncFromViewport(c Collection, sourceViewportID string) Collection {
	src, ok := c.Get(sourceViewportID)
	if !ok || !src.IsViewport {
		return c
	}
	out := c
	for _, vp := range c.Viewports() {
		if vp.ID == sourceViewportID {
			continue
		}
		out = syncViewportPair(out, sourceViewportID, vp.ID, false)
	}
	return out
}

// syncViewportPair rebuilds dstRoot's subtree from srcRoot's. With
// reuseIDs set, a destination node with a matching sharedId donates
// its id and its independent style properties to the clone.
func syncViewportPair(c Collection, srcRootID, dstRootID string, reuseIDs bool) Collection {
	ix := NewIndex(c)
	if ix.at(srcRootID) == nil || ix.at(dstRootID) == nil {
		return c
	}

	srcSub := ix.Subtree(srcRootID)
	dstSub := ix.Subtree(dstRootID)

	oldByShared := map[string]domain.Node{}
	removals := map[string]bool{}
	for _, id := range dstSub {
		if id == dstRootID {
			continue
		}
		n := ix.at(id)
		if n == nil || n.PartOfDynamicSystem() {
			continue
		}
		if n.SharedID != "" {
			if _, taken := oldByShared[n.SharedID]; !taken {
				oldByShared[n.SharedID] = n.Clone()
			}
		}
		removals[id] = true
	}

	out := c.Clone().without(removals)

	// Subtree order is breadth-first, so a parent's clone id is always
	// in the remap table before its children resolve against it.
	idMap := map[string]string{srcRootID: dstRootID}
	for _, id := range srcSub {
		if id == srcRootID {
			continue
		}
		src := ix.at(id)
		if src == nil || src.PartOfDynamicSystem() {
			continue
		}

		clone := src.Clone()
		old, existed := oldByShared[src.SharedID]
		if reuseIDs && existed {
			clone.ID = old.ID
			clone.IndependentStyles = nil
			for k := range old.IndependentStyles {
				if clone.IndependentStyles == nil {
					clone.IndependentStyles = map[string]bool{}
				}
				clone.IndependentStyles[k] = true
				if v, ok := old.Style[k]; ok {
					if clone.Style == nil {
						clone.Style = domain.Style{}
					}
					clone.Style[k] = v
				}
			}
		} else {
			clone.ID = newID()
			clone.IndependentStyles = nil
		}

		if src.ParentID == srcRootID {
			clone.ParentID = dstRootID
		} else if mapped, ok := idMap[src.ParentID]; ok {
			clone.ParentID = mapped
		} else {
			// Unresolvable parent: detach to root, visible but safe.
			clone.ParentID = ""
		}
		clone.InViewport = true
		idMap[src.ID] = clone.ID
		out = append(out, clone)
	}
	return out
}
