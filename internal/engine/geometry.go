package engine

import (
	"fmt"
	"strconv"
	"strings"

	"pagecraft/internal/domain"
)

// Rect is a measured bounding box in canvas pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// GeometryProvider supplies pixel measurements for nodes. The engine
// has no ambient DOM access; anything needing real geometry receives
// this interface, injected by the rendering host.
type GeometryProvider interface {
	BoundingBox(nodeID string) (Rect, bool)
}

// Size is an element's pixel dimensions, passed by callers into
// duplication offset math.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// px renders a pixel style value.
func px(v float64) string {
	return fmt.Sprintf("%gpx", v)
}

// parsePx reads a "123px" (or bare numeric) style value.
func parsePx(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// nodePoint resolves a node's canvas position: the explicit position
// when present, else the left/top style pair.
func nodePoint(n *domain.Node) domain.Point {
	if n.Position != nil {
		return *n.Position
	}
	var p domain.Point
	if n.Style != nil {
		if x, ok := parsePx(n.Style["left"]); ok {
			p.X = x
		}
		if y, ok := parsePx(n.Style["top"]); ok {
			p.Y = y
		}
	}
	return p
}

// nodeSize resolves a node's dimensions from its style bag.
func nodeSize(n *domain.Node) Size {
	var s Size
	if n.Style != nil {
		if w, ok := parsePx(n.Style["width"]); ok {
			s.Width = w
		}
		if h, ok := parsePx(n.Style["height"]); ok {
			s.Height = h
		}
	}
	return s
}
