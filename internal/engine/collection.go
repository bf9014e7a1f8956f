// Package engine is the node graph core of the builder: a copy-on-write
// node collection, the mutation operations over it, and the viewport
// and variant synchronization passes. Every operation takes a
// collection and returns a new one; a caller's previous reference is
// never mutated.
package engine

import (
	"github.com/google/uuid"

	"pagecraft/internal/domain"
)

// Collection is the authoritative node set. Slice order is meaningful:
// within one parent, sibling render order is relative collection order.
type Collection []domain.Node

// newID mints an opaque node identifier.
func newID() string {
	return uuid.New().String()
}

// Clone deep-copies the collection.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for i := range c {
		out[i] = c[i].Clone()
	}
	return out
}

// IndexOf returns the position of the node with the given id, or -1.
func (c Collection) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns a copy of the node with the given id.
func (c Collection) Get(id string) (domain.Node, bool) {
	if i := c.IndexOf(id); i >= 0 {
		return c[i].Clone(), true
	}
	return domain.Node{}, false
}

// insertAt splices node into a cloned collection at position i.
func (c Collection) insertAt(i int, n domain.Node) Collection {
	if i < 0 || i > len(c) {
		i = len(c)
	}
	out := make(Collection, 0, len(c)+1)
	out = append(out, c[:i]...)
	out = append(out, n)
	out = append(out, c[i:]...)
	return out
}

// removeAt returns a cloned collection without position i.
func (c Collection) removeAt(i int) Collection {
	out := make(Collection, 0, len(c)-1)
	out = append(out, c[:i]...)
	out = append(out, c[i+1:]...)
	return out
}

// without returns a cloned collection dropping every id in the set.
func (c Collection) without(ids map[string]bool) Collection {
	out := make(Collection, 0, len(c))
	for i := range c {
		if !ids[c[i].ID] {
			out = append(out, c[i])
		}
	}
	return out
}

// CanonicalViewport returns the synchronization source: the widest
// viewport root, ties broken by collection order. Nil when the
// collection has no viewports.
func (c Collection) CanonicalViewport() *domain.Node {
	best := -1
	for i := range c {
		if !c[i].IsViewport {
			continue
		}
		if best == -1 || c[i].ViewportWidth > c[best].ViewportWidth {
			best = i
		}
	}
	if best == -1 {
		return nil
	}
	n := c[best].Clone()
	return &n
}

// Viewports returns every viewport root in collection order.
func (c Collection) Viewports() []domain.Node {
	var out []domain.Node
	for i := range c {
		if c[i].IsViewport {
			out = append(out, c[i].Clone())
		}
	}
	return out
}
