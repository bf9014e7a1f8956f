package engine

import "pagecraft/internal/domain"

// MediaToFrame converts an image or video node in place into a frame
// so other nodes can be nested inside it. The node keeps its id; the
// media src moves into the matching background style field. When a
// node is being dropped into the media at the same time it becomes the
// new frame's child, reset to flow placement.
func MediaToFrame(c Collection, mediaID, droppedID string) Collection {
	ix := NewIndex(c)
	media := ix.at(mediaID)
	if media == nil {
		return c
	}
	if media.Type != domain.NodeTypeImage && media.Type != domain.NodeTypeVideo {
		return c
	}

	out := c.Clone()
	i := out.IndexOf(mediaID)
	n := &out[i]
	if n.Style == nil {
		n.Style = domain.Style{}
	}
	if src, ok := n.Style["src"]; ok {
		key := "backgroundImage"
		if n.Type == domain.NodeTypeVideo {
			key = "backgroundVideo"
		}
		n.Style[key] = src
		delete(n.Style, "src")
	}
	n.Type = domain.NodeTypeFrame

	if droppedID == "" || droppedID == mediaID || ix.IsAncestor(droppedID, mediaID) {
		return out
	}
	j := out.IndexOf(droppedID)
	if j < 0 {
		return out
	}
	dropped := &out[j]
	dropped.ParentID = mediaID
	dropped.InViewport = n.InViewport
	dropped.Position = nil
	if dropped.Style == nil {
		dropped.Style = domain.Style{}
	}
	dropped.Style["position"] = "relative"
	if dropped.InViewport && dropped.SharedID == "" {
		dropped.SharedID = newID()
	}
	return out
}
