package domain

// NodeType tags a node with its visual element kind.
type NodeType string

const (
	NodeTypeFrame       NodeType = "frame"
	NodeTypeText        NodeType = "text"
	NodeTypeImage       NodeType = "image"
	NodeTypeVideo       NodeType = "video"
	NodeTypePlaceholder NodeType = "placeholder"
)

// Style is the flexible property bag of a node: dimensions, colors,
// text payload, media src. Values are CSS-shaped strings ("300px").
type Style map[string]string

// Point is an explicit canvas position for non-flow placement.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// VariantInfo names an alternate state of a dynamic component.
// ID is the cross-viewport key: the "same" variant in two viewport
// counterparts carries the same VariantInfo.ID.
type VariantInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ConnectionType is the interaction trigger of a dynamic connection.
type ConnectionType string

const (
	ConnectionClick      ConnectionType = "click"
	ConnectionHover      ConnectionType = "hover"
	ConnectionMouseLeave ConnectionType = "mouseLeave"
)

// Connection wires an interaction transition between dynamic nodes.
// A node holds at most one connection per (source, type).
type Connection struct {
	SourceID string         `json:"sourceId"`
	TargetID string         `json:"targetId"`
	Type     ConnectionType `json:"type"`
}

// OriginalState captures a node's placement before it was detached for
// dynamic editing, so exiting dynamic mode can restore it.
type OriginalState struct {
	ParentID   string `json:"parentId"`
	InViewport bool   `json:"inViewport"`
	Position   *Point `json:"position,omitempty"`
}

// Node is one visual element of a page. Nodes form trees rooted at
// viewports (breakpoint containers) or free-floating canvas roots.
type Node struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Name     string   `json:"name,omitempty"`
	Style    Style    `json:"style"`
	ParentID string   `json:"parentId,omitempty"`
	Position *Point   `json:"position,omitempty"`

	// Viewport membership and breakpoint roots.
	InViewport    bool   `json:"inViewport"`
	IsViewport    bool   `json:"isViewport,omitempty"`
	ViewportWidth int    `json:"viewportWidth,omitempty"`
	ViewportName  string `json:"viewportName,omitempty"`

	// SharedID links structurally-corresponding nodes across viewport
	// and variant subtrees. Assigned once, never regenerated.
	SharedID string `json:"sharedId,omitempty"`

	// IndependentStyles marks locally-overridden properties that
	// viewport synchronization must not overwrite.
	IndependentStyles map[string]bool `json:"independentStyles,omitempty"`

	// Dynamic component linkage.
	IsDynamic         bool   `json:"isDynamic,omitempty"`
	DynamicParentID   string `json:"dynamicParentId,omitempty"`
	DynamicFamilyID   string `json:"dynamicFamilyId,omitempty"`
	DynamicViewportID string `json:"dynamicViewportId,omitempty"`

	// Variant linkage.
	IsVariant          bool         `json:"isVariant,omitempty"`
	VariantParentID    string       `json:"variantParentId,omitempty"`
	VariantInfo        *VariantInfo `json:"variantInfo,omitempty"`
	VariantResponsiveID string      `json:"variantResponsiveId,omitempty"`

	// Interaction wiring between dynamic nodes and variants.
	DynamicConnections []Connection `json:"dynamicConnections,omitempty"`

	// Per-interaction-state style bags ("hovered", "pressed").
	DynamicStates map[string]Style `json:"dynamicStates,omitempty"`

	// Transient placement saved while the node is staged for dynamic
	// editing; cleared when dynamic editing ends.
	OriginalState    *OriginalState `json:"originalState,omitempty"`
	OriginalParentID string         `json:"originalParentId,omitempty"`
	DynamicPosition  *Point         `json:"dynamicPosition,omitempty"`

	IsLocked bool `json:"isLocked,omitempty"`
}

// Clone returns a deep copy: mutating the copy's maps, slices, and
// pointer fields leaves the original untouched.
func (n Node) Clone() Node {
	c := n
	if n.Style != nil {
		c.Style = make(Style, len(n.Style))
		for k, v := range n.Style {
			c.Style[k] = v
		}
	}
	if n.IndependentStyles != nil {
		c.IndependentStyles = make(map[string]bool, len(n.IndependentStyles))
		for k, v := range n.IndependentStyles {
			c.IndependentStyles[k] = v
		}
	}
	if n.DynamicStates != nil {
		c.DynamicStates = make(map[string]Style, len(n.DynamicStates))
		for state, style := range n.DynamicStates {
			s := make(Style, len(style))
			for k, v := range style {
				s[k] = v
			}
			c.DynamicStates[state] = s
		}
	}
	if n.DynamicConnections != nil {
		c.DynamicConnections = append([]Connection(nil), n.DynamicConnections...)
	}
	if n.Position != nil {
		p := *n.Position
		c.Position = &p
	}
	if n.DynamicPosition != nil {
		p := *n.DynamicPosition
		c.DynamicPosition = &p
	}
	if n.VariantInfo != nil {
		v := *n.VariantInfo
		c.VariantInfo = &v
	}
	if n.OriginalState != nil {
		o := *n.OriginalState
		if n.OriginalState.Position != nil {
			p := *n.OriginalState.Position
			o.Position = &p
		}
		c.OriginalState = &o
	}
	return c
}

// IsDynamicDescendant reports whether the node belongs to a dynamic
// subtree without being its root: a variant, or a node linked to a
// dynamic root via DynamicParentID or VariantParentID.
func (n Node) IsDynamicDescendant() bool {
	if n.IsDynamic {
		return false
	}
	return n.IsVariant || n.DynamicParentID != "" || n.VariantParentID != ""
}

// PartOfDynamicSystem reports whether the node is a dynamic root, a
// variant, or any descendant of either.
func (n Node) PartOfDynamicSystem() bool {
	return n.IsDynamic || n.IsVariant || n.DynamicParentID != "" || n.VariantParentID != ""
}
