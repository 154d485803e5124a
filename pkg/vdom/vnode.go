package vdom

import "fmt"

// KindText is the reserved kind for text nodes. The text itself is carried
// in the "textContent" prop.
const KindText = "text"

// Reserved prop names.
const (
	childrenProp = "children"
	textProp     = "textContent"
	classAlias   = "className"
	refProp      = "ref"
)

// Props holds a node's properties: attributes, event handlers and the
// injected "children" entry.
type Props map[string]any

// Ctor is the stateful component capability: a constructor from props to a
// live component instance.
type Ctor func(props Props) Component

// Func is the functional component capability: a pure transform from props
// to a rendered node.
type Func func(props Props) *VNode

// VNode is an immutable description of a UI node. Re-rendering always
// produces a new VNode; nothing mutates one in place except the bound
// back-reference the reconciler attaches after instantiating a component.
type VNode struct {
	Kind     string // tag name or KindText; empty for component nodes
	Ctor     Ctor   // stateful component constructor, nil otherwise
	Fn       Func   // functional component, nil otherwise
	Props    Props
	Children []*VNode

	// bound points to the live component instance whose render produced
	// this node. Set by the reconciler, never by New.
	bound Component
}

// IsComponent reports whether the node describes a component rather than a
// concrete element or text node.
func (v *VNode) IsComponent() bool { return v.Ctor != nil || v.Fn != nil }

// IsText reports whether the node is a text node.
func (v *VNode) IsText() bool { return v.Kind == KindText }

// Bound returns the component instance attached to this node, or nil when
// the node was not produced by a stateful component render.
func (v *VNode) Bound() Component { return v.bound }

// Text returns the node's text content (text nodes only).
func (v *VNode) Text() string { return attrString(v.Props[textProp]) }

// New builds a VNode. kind is a tag name (KindText reserved), a Ctor or a
// Func. Child arguments flatten recursively: a []*VNode or []any entry
// contributes its elements in order, and anything that is not a node becomes
// a text node carrying its formatted value under "textContent". The final
// child list is injected into props under "children"; a caller-supplied
// "children" prop takes precedence over the injected entry.
func New(kind any, props Props, children ...any) *VNode {
	node := &VNode{}
	switch k := kind.(type) {
	case string:
		node.Kind = k
	case Ctor:
		node.Ctor = k
	case func(Props) Component:
		node.Ctor = k
	case Func:
		node.Fn = k
	case func(Props) *VNode:
		node.Fn = k
	default:
		panic(fmt.Sprintf("vdom: unsupported node kind %T", kind))
	}

	kids := make([]*VNode, 0, len(children))
	var flatten func(arg any)
	flatten = func(arg any) {
		switch c := arg.(type) {
		case nil:
			// Skipped, allows conditional children.
		case *VNode:
			if c != nil {
				kids = append(kids, c)
			}
		case []*VNode:
			for _, e := range c {
				flatten(e)
			}
		case []any:
			for _, e := range c {
				flatten(e)
			}
		default:
			kids = append(kids, Text(fmt.Sprint(c)))
		}
	}
	for _, arg := range children {
		flatten(arg)
	}

	merged := make(Props, len(props)+1)
	merged[childrenProp] = kids
	for k, v := range props {
		merged[k] = v
	}
	node.Props = merged
	node.Children = kids
	return node
}

// Text creates a text node.
func Text(content string) *VNode {
	return New(KindText, Props{textProp: content})
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}
