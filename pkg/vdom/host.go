package vdom

// Event is delivered to listeners registered through the host adapter.
type Event struct {
	Type    string   // lowercase event name ("click", "input", ...)
	Target  HostNode // node the listener was registered on
	Value   string   // current value for input-style events
	Checked bool
}

// Listener handles a host event.
type Listener func(Event)

// Host creates nodes in the live display tree. It is the factory half of
// the host tree adapter; the core materializes nodes through nothing else.
type Host interface {
	CreateElement(tag string) HostNode
	CreateText(text string) HostNode
}

// HostNode is the live counterpart of a VNode. The reconciler drives the
// display tree exclusively through this capability set; any platform that
// can satisfy it can be patched by the core.
type HostNode interface {
	// Text content, for text nodes.
	Text() string
	SetText(text string)

	// Generic attribute channel.
	Attr(name string) (string, bool)
	SetAttr(name, value string)
	RemoveAttr(name string)

	// Direct-state channel for interactive runtime state ("value",
	// "checked") that the declarative attribute channel cannot represent.
	Prop(name string) any
	SetProp(name string, value any)

	// Listener registration. At most one listener per lowercase event name;
	// AddListener replaces silently, RemoveListener of an unknown name is a
	// no-op.
	AddListener(event string, l Listener)
	RemoveListener(event string)

	// Tree structure.
	Parent() HostNode
	NextSibling() HostNode
	ChildCount() int
	ChildAt(i int) HostNode
	InsertBefore(child, ref HostNode) // nil ref appends at the end
	RemoveChild(child HostNode)

	// The virtual node that most recently described this host node.
	// Overwritten on every update; the sole state the reconciler needs to
	// locate on a host node.
	Rendered() *VNode
	SetRendered(v *VNode)
}
