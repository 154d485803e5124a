// Package hosttest provides an in-memory host tree for exercising the
// reconciler without a real display. Every adapter call the reconciler makes
// is appended to an op log, so tests can assert not just on the resulting
// tree but on exactly which mutations produced it.
package hosttest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fern-ui/fern/pkg/vdom"
)

// OpKind identifies a recorded host mutation.
type OpKind string

const (
	OpCreateElement  OpKind = "createElement"
	OpCreateText     OpKind = "createText"
	OpSetText        OpKind = "setText"
	OpSetAttr        OpKind = "setAttr"
	OpRemoveAttr     OpKind = "removeAttr"
	OpSetProp        OpKind = "setProp"
	OpAddListener    OpKind = "addListener"
	OpRemoveListener OpKind = "removeListener"
	OpInsert         OpKind = "insert"
	OpRemove         OpKind = "remove"
)

// Op is one recorded adapter call.
type Op struct {
	Kind  OpKind
	Node  *Node
	Name  string // attribute, prop or event name
	Value string
}

func (o Op) String() string {
	if o.Name != "" {
		return fmt.Sprintf("%s(%s=%q)", o.Kind, o.Name, o.Value)
	}
	return string(o.Kind)
}

// Tree is an in-memory host tree implementing vdom.Host.
type Tree struct {
	ops    []Op
	nextID int
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// Container creates a detached element node to render into.
func (t *Tree) Container(tag string) *Node {
	n := t.newNode(tag, "")
	// Container creation is caller setup, not a reconciler mutation.
	t.ops = t.ops[:len(t.ops)-1]
	return n
}

// Ops returns the mutations recorded so far.
func (t *Tree) Ops() []Op {
	return append([]Op(nil), t.ops...)
}

// Count returns how many recorded mutations match kind.
func (t *Tree) Count(kind OpKind) int {
	n := 0
	for _, op := range t.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset clears the op log. The tree itself is untouched.
func (t *Tree) Reset() {
	t.ops = t.ops[:0]
}

func (t *Tree) record(kind OpKind, n *Node, name, value string) {
	t.ops = append(t.ops, Op{Kind: kind, Node: n, Name: name, Value: value})
}

func (t *Tree) newNode(tag, text string) *Node {
	t.nextID++
	n := &Node{
		tree:      t,
		id:        t.nextID,
		tag:       tag,
		text:      text,
		attrs:     map[string]string{},
		props:     map[string]any{},
		listeners: map[string]vdom.Listener{},
	}
	if tag == "" {
		t.record(OpCreateText, n, "", text)
	} else {
		t.record(OpCreateElement, n, "", tag)
	}
	return n
}

// CreateElement implements vdom.Host.
func (t *Tree) CreateElement(tag string) vdom.HostNode {
	return t.newNode(tag, "")
}

// CreateText implements vdom.Host.
func (t *Tree) CreateText(text string) vdom.HostNode {
	return t.newNode("", text)
}

// Node is one in-memory host node.
type Node struct {
	tree      *Tree
	id        int
	tag       string // "" for text nodes
	text      string
	attrs     map[string]string
	props     map[string]any
	listeners map[string]vdom.Listener
	children  []*Node
	parent    *Node
	rendered  *vdom.VNode
}

// ID returns the node's creation sequence number.
func (n *Node) ID() int { return n.id }

// TagName returns the element tag, or "" for text nodes.
func (n *Node) TagName() string { return n.tag }

// IsText reports whether this is a text node.
func (n *Node) IsText() bool { return n.tag == "" }

// Fire synthesizes a host event on this node. It invokes the registered
// listener for ev.Type, if any, filling in the target.
func (n *Node) Fire(ev vdom.Event) bool {
	l, ok := n.listeners[ev.Type]
	if !ok {
		return false
	}
	ev.Target = n
	l(ev)
	return true
}

// ListenerEvents returns the event names with a registered listener, sorted.
func (n *Node) ListenerEvents() []string {
	names := make([]string, 0, len(n.listeners))
	for name := range n.listeners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// vdom.HostNode implementation.

func (n *Node) Text() string { return n.text }

func (n *Node) SetText(text string) {
	n.text = text
	n.tree.record(OpSetText, n, "", text)
}

func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *Node) SetAttr(name, value string) {
	n.attrs[name] = value
	n.tree.record(OpSetAttr, n, name, value)
}

func (n *Node) RemoveAttr(name string) {
	delete(n.attrs, name)
	n.tree.record(OpRemoveAttr, n, name, "")
}

func (n *Node) Prop(name string) any { return n.props[name] }

func (n *Node) SetProp(name string, value any) {
	n.props[name] = value
	n.tree.record(OpSetProp, n, name, fmt.Sprint(value))
}

func (n *Node) AddListener(event string, l vdom.Listener) {
	n.listeners[event] = l
	n.tree.record(OpAddListener, n, event, "")
}

func (n *Node) RemoveListener(event string) {
	if _, ok := n.listeners[event]; !ok {
		return
	}
	delete(n.listeners, event)
	n.tree.record(OpRemoveListener, n, event, "")
}

func (n *Node) Parent() vdom.HostNode {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) NextSibling() vdom.HostNode {
	if n.parent == nil {
		return nil
	}
	for i, c := range n.parent.children {
		if c == n && i+1 < len(n.parent.children) {
			return n.parent.children[i+1]
		}
	}
	return nil
}

func (n *Node) ChildCount() int { return len(n.children) }

func (n *Node) ChildAt(i int) vdom.HostNode {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *Node) InsertBefore(child, ref vdom.HostNode) {
	c := child.(*Node)
	if c.parent != nil {
		c.parent.detach(c)
	}
	c.parent = n
	if ref == nil {
		n.children = append(n.children, c)
	} else {
		r := ref.(*Node)
		inserted := false
		for i, existing := range n.children {
			if existing == r {
				n.children = append(n.children[:i], append([]*Node{c}, n.children[i:]...)...)
				inserted = true
				break
			}
		}
		if !inserted {
			n.children = append(n.children, c)
		}
	}
	n.tree.record(OpInsert, c, "", "")
}

func (n *Node) RemoveChild(child vdom.HostNode) {
	c := child.(*Node)
	n.detach(c)
	n.tree.record(OpRemove, c, "", "")
}

func (n *Node) detach(c *Node) {
	for i, existing := range n.children {
		if existing == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

func (n *Node) Rendered() *vdom.VNode { return n.rendered }

func (n *Node) SetRendered(v *vdom.VNode) { n.rendered = v }

// String renders the subtree as HTML-ish text for readable test failures.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n.IsText() {
		b.WriteString(n.text)
		return
	}
	b.WriteByte('<')
	b.WriteString(n.tag)
	keys := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%q", k, n.attrs[k])
	}
	b.WriteByte('>')
	for _, c := range n.children {
		c.write(b)
	}
	b.WriteString("</" + n.tag + ">")
}
