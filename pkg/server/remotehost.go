package server

import (
	"strconv"

	"github.com/fern-ui/fern/pkg/protocol"
	"github.com/fern-ui/fern/pkg/vdom"
)

// RemoteHost is a vdom.Host whose nodes live in the client's document. It
// keeps a server-side mirror of the tree (so the reconciler can navigate and
// dispatch events) and buffers every mutation as a protocol op for the next
// flush.
//
// A RemoteHost is owned by a single session goroutine; it is not safe for
// concurrent use.
type RemoteHost struct {
	nextID uint64
	nodes  map[uint64]*remoteNode
	root   *remoteNode
	ops    []protocol.Op
}

// NewRemoteHost creates a host whose root container has node id 0 on the
// client.
func NewRemoteHost() *RemoteHost {
	h := &RemoteHost{nodes: map[uint64]*remoteNode{}}
	h.root = &remoteNode{host: h, tag: "root"}
	h.nodes[0] = h.root
	return h
}

// Root returns the container node to render into.
func (h *RemoteHost) Root() vdom.HostNode {
	return h.root
}

// Flush returns the buffered ops and clears the buffer.
func (h *RemoteHost) Flush() []protocol.Op {
	ops := h.ops
	h.ops = nil
	return ops
}

// Pending returns the number of buffered ops.
func (h *RemoteHost) Pending() int {
	return len(h.ops)
}

// Dispatch routes a client event to the listener registered on the target
// node. It reports whether a listener ran; stale node ids (the node was
// removed while the event was in flight) are ignored.
func (h *RemoteHost) Dispatch(ev *protocol.Event) bool {
	node, ok := h.nodes[ev.Node]
	if !ok {
		return false
	}
	l, ok := node.listeners[ev.Name]
	if !ok {
		return false
	}
	l(vdom.Event{
		Type:    ev.Name,
		Target:  node,
		Value:   ev.Value,
		Checked: ev.Checked,
	})
	return true
}

func (h *RemoteHost) push(op protocol.Op) {
	h.ops = append(h.ops, op)
}

func (h *RemoteHost) newNode(tag, text string) *remoteNode {
	h.nextID++
	n := &remoteNode{host: h, id: h.nextID, tag: tag, text: text}
	h.nodes[n.id] = n
	return n
}

// CreateElement implements vdom.Host.
func (h *RemoteHost) CreateElement(tag string) vdom.HostNode {
	n := h.newNode(tag, "")
	h.push(protocol.Op{Code: protocol.OpCreateElement, Node: n.id, Name: tag})
	return n
}

// CreateText implements vdom.Host.
func (h *RemoteHost) CreateText(text string) vdom.HostNode {
	n := h.newNode("", text)
	h.push(protocol.Op{Code: protocol.OpCreateText, Node: n.id, Value: text})
	return n
}

// remoteNode mirrors one client-side node.
type remoteNode struct {
	host *RemoteHost
	id   uint64
	tag  string // "" for text nodes

	text      string
	attrs     map[string]string
	props     map[string]any
	listeners map[string]vdom.Listener

	parent   *remoteNode
	children []*remoteNode
	rendered *vdom.VNode
}

// ID returns the node's wire id.
func (n *remoteNode) ID() uint64 { return n.id }

func (n *remoteNode) Text() string { return n.text }

func (n *remoteNode) SetText(text string) {
	n.text = text
	n.host.push(protocol.Op{Code: protocol.OpSetText, Node: n.id, Value: text})
}

func (n *remoteNode) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *remoteNode) SetAttr(name, value string) {
	if n.attrs == nil {
		n.attrs = map[string]string{}
	}
	n.attrs[name] = value
	n.host.push(protocol.Op{Code: protocol.OpSetAttr, Node: n.id, Name: name, Value: value})
}

func (n *remoteNode) RemoveAttr(name string) {
	delete(n.attrs, name)
	n.host.push(protocol.Op{Code: protocol.OpRemoveAttr, Node: n.id, Name: name})
}

func (n *remoteNode) Prop(name string) any {
	return n.props[name]
}

func (n *remoteNode) SetProp(name string, value any) {
	if n.props == nil {
		n.props = map[string]any{}
	}
	n.props[name] = value
	n.host.push(protocol.Op{Code: protocol.OpSetProp, Node: n.id, Name: name, Value: propWireValue(value)})
}

func (n *remoteNode) AddListener(event string, l vdom.Listener) {
	if n.listeners == nil {
		n.listeners = map[string]vdom.Listener{}
	}
	n.listeners[event] = l
	n.host.push(protocol.Op{Code: protocol.OpAddListener, Node: n.id, Name: event})
}

func (n *remoteNode) RemoveListener(event string) {
	if _, ok := n.listeners[event]; !ok {
		return
	}
	delete(n.listeners, event)
	n.host.push(protocol.Op{Code: protocol.OpRemoveListener, Node: n.id, Name: event})
}

func (n *remoteNode) Parent() vdom.HostNode {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *remoteNode) NextSibling() vdom.HostNode {
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

func (n *remoteNode) ChildCount() int { return len(n.children) }

func (n *remoteNode) ChildAt(i int) vdom.HostNode {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *remoteNode) InsertBefore(child, ref vdom.HostNode) {
	c := child.(*remoteNode)
	if c.parent != nil {
		c.parent.detach(c)
	}
	c.parent = n

	var refID uint64
	if ref != nil {
		r := ref.(*remoteNode)
		refID = r.id
		inserted := false
		for i, existing := range n.children {
			if existing == r {
				n.children = append(n.children[:i], append([]*remoteNode{c}, n.children[i:]...)...)
				inserted = true
				break
			}
		}
		if !inserted {
			n.children = append(n.children, c)
		}
	} else {
		n.children = append(n.children, c)
	}
	n.host.push(protocol.Op{Code: protocol.OpInsertBefore, Parent: n.id, Node: c.id, Ref: refID})
}

func (n *remoteNode) RemoveChild(child vdom.HostNode) {
	c := child.(*remoteNode)
	n.detach(c)
	c.release()
	n.host.push(protocol.Op{Code: protocol.OpRemoveChild, Parent: n.id, Node: c.id})
}

func (n *remoteNode) detach(c *remoteNode) {
	for i, existing := range n.children {
		if existing == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// release drops the subtree from the id table so stale event ids stop
// resolving.
func (n *remoteNode) release() {
	delete(n.host.nodes, n.id)
	for _, c := range n.children {
		c.release()
	}
}

func (n *remoteNode) Rendered() *vdom.VNode { return n.rendered }

func (n *remoteNode) SetRendered(v *vdom.VNode) { n.rendered = v }

// propWireValue renders a direct-state prop value for the wire. The client
// only needs strings and booleans here.
func propWireValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case nil:
		return ""
	default:
		return ""
	}
}
