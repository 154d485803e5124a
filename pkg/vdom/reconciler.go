package vdom

import "fmt"

// Reconciler drives one host tree from virtual node descriptions. It owns no
// hidden global state: the only correspondence it relies on is the
// description each host node carries, so independent trees reconcile with
// independent Reconciler values.
type Reconciler struct {
	host Host
}

// NewReconciler returns a reconciler that materializes nodes through h.
func NewReconciler(h Host) *Reconciler {
	return &Reconciler{host: h}
}

// Render reconciles tree against the first child of container, mounting
// fresh when the container is empty. Everything, including component
// lifecycle callbacks, runs to completion on the caller's stack.
func (r *Reconciler) Render(tree *VNode, container HostNode) {
	var existing HostNode
	if container.ChildCount() > 0 {
		existing = container.ChildAt(0)
	}
	r.RenderAt(tree, container, existing)
}

// RenderAt reconciles tree against a specific host node under container.
func (r *Reconciler) RenderAt(tree *VNode, container, existing HostNode) {
	r.reconcile(tree, container, existing)
}

// reconcile is the central recursive procedure: it compares the new node
// against the description attached to the host node occupying its position
// and applies the minimal mutations.
func (r *Reconciler) reconcile(n *VNode, parent, old HostNode) HostNode {
	var oldDesc *VNode
	if old != nil {
		oldDesc = old.Rendered()
	}

	switch {
	case n.Ctor != nil:
		var chain []Component
		if oldDesc != nil && oldDesc.bound != nil {
			chain = instanceChain(oldDesc.bound)
		}
		return r.reconcileComponent(n, parent, old, chain)
	case n.Fn != nil:
		// Functional components carry no instance: resolve the transform
		// and keep diffing against whatever it rendered last time.
		resolved := n.Fn(n.Props)
		resolved.bound = n.bound
		return r.reconcile(resolved, parent, old)
	case oldDesc != nil && oldDesc.Kind == n.Kind:
		return r.update(n, old, oldDesc)
	default:
		return r.mount(n, parent, old)
	}
}

// instanceChain collects the component instances anchored at one host
// position, outermost first. The host description records the innermost
// instance; owner links lead outward.
func instanceChain(inner Component) []Component {
	var chain []Component
	for c := inner; c != nil; c = c.base().owner {
		chain = append(chain, c)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// reconcileComponent handles a stateful component position. chain holds the
// instances previously mounted at this position from the current nesting
// depth inward; a constructor match with its head is an update, anything
// else is a fresh mount replacing the occupant.
func (r *Reconciler) reconcileComponent(n *VNode, parent, old HostNode, chain []Component) HostNode {
	if len(chain) == 0 || !sameCtor(chain[0].base().ctor, n.Ctor) {
		if len(chain) > 0 {
			// Sever the owner link so the occupant's teardown stops at
			// this depth and never reaches still-live outer instances.
			chain[0].base().owner = nil
		}
		return r.mount(n, parent, old)
	}

	inst := chain[0]
	b := inst.base()
	inst.ComponentWillReceiveProps(n.Props)
	if !inst.ShouldComponentUpdate(n.Props, b.state) {
		return old
	}
	prevProps := b.props
	inst.ComponentWillUpdate(n.Props, b.state)
	b.props = n.Props
	node := r.renderInto(inst, parent, old, chain[1:])
	inst.ComponentDidUpdate(prevProps)
	return node
}

// renderInto reconciles what inst renders against the occupant and re-anchors
// inst on the resulting host node. inner holds the instances inst's previous
// render left mounted at this position, outermost first.
func (r *Reconciler) renderInto(inst Component, parent, old HostNode, inner []Component) HostNode {
	next := inst.Render()
	for next.Fn != nil {
		next = next.Fn(next.Props)
	}
	next.bound = inst

	var node HostNode
	if next.Ctor != nil {
		node = r.reconcileComponent(next, parent, old, inner)
	} else {
		node = r.reconcile(next, parent, old)
	}
	inst.base().host = node
	return node
}

// update patches a host node in place: same non-component kind on both
// sides. Children reconcile positionally by index; an insertion or deletion
// in the middle shifts every following sibling into "changed in place".
func (r *Reconciler) update(n *VNode, node HostNode, oldDesc *VNode) HostNode {
	if n.IsText() {
		if n.Text() != oldDesc.Text() {
			node.SetText(n.Text())
		}
	} else {
		patchProps(node, n.Props, oldDesc.Props)
	}
	node.SetRendered(n)

	for i, child := range n.Children {
		var occupant HostNode
		if i < node.ChildCount() {
			occupant = node.ChildAt(i)
		}
		r.reconcile(child, node, occupant)
	}

	// Trim surplus trailing children, highest index first.
	for i := node.ChildCount() - 1; i >= len(n.Children); i-- {
		r.unmount(node.ChildAt(i), node)
	}
	return node
}

// mount realizes a brand-new subtree at old's position, replacing it. The
// old occupant's teardown runs before the new node is inserted.
func (r *Reconciler) mount(n *VNode, parent, old HostNode) HostNode {
	switch {
	case n.Ctor != nil:
		inst := n.Ctor(n.Props)
		b := inst.base()
		b.props = n.Props
		b.ctor = n.Ctor
		b.rec = r
		b.self = inst
		b.owner = n.bound
		if b.state == nil {
			b.state = State{}
		}
		inst.ComponentWillMount()
		rendered := inst.Render()
		rendered.bound = inst
		node := r.mount(rendered, parent, old)
		b.host = node
		inst.ComponentDidMount()
		if ref, ok := n.Props[refProp]; ok {
			callRef(ref, inst)
		}
		return node
	case n.Fn != nil:
		resolved := n.Fn(n.Props)
		resolved.bound = n.bound
		return r.mount(resolved, parent, old)
	}

	var node HostNode
	if n.IsText() {
		node = r.host.CreateText(n.Text())
	} else {
		node = r.host.CreateElement(n.Kind)
		patchProps(node, n.Props, Props{})
	}
	node.SetRendered(n)

	var ref HostNode
	if old != nil {
		ref = old.NextSibling()
		r.unmount(old, parent)
	}
	parent.InsertBefore(node, ref)

	if n.bound != nil {
		n.bound.base().host = node
	}
	for _, child := range n.Children {
		r.mount(child, node, nil)
	}
	if rf, ok := n.Props[refProp]; ok {
		callRef(rf, node)
	}
	return node
}

// unmount tears a host node down: lifecycle end first, children before
// parent, listeners cleared, then detachment.
func (r *Reconciler) unmount(node, parent HostNode) {
	desc := node.Rendered()
	if desc == nil {
		parent.RemoveChild(node)
		return
	}
	if desc.bound != nil {
		for _, inst := range instanceChain(desc.bound) {
			inst.ComponentWillUnmount()
			ib := inst.base()
			if ref, ok := ib.props[refProp]; ok {
				callRef(ref, nil)
			}
			// A detached instance must not reconcile against a removed
			// host node; SetState after unmount becomes a plain merge.
			ib.host = nil
		}
	}
	for i := node.ChildCount() - 1; i >= 0; i-- {
		r.unmount(node.ChildAt(i), node)
	}
	if ref, ok := desc.Props[refProp]; ok {
		callRef(ref, nil)
	}
	for name := range desc.Props {
		if isEventProp(name) {
			node.RemoveListener(eventName(name))
		}
	}
	parent.RemoveChild(node)
}

// rerender re-reconciles a component's subtree in place against its host
// anchor. This is the SetState path; the ShouldComponentUpdate gate is
// bypassed entirely for self-triggered updates.
func (r *Reconciler) rerender(c Component) {
	b := c.base()
	if b.host == nil {
		// Not mounted yet: the merged state is simply picked up by the
		// first render.
		return
	}

	// Components rendered by c at the same host position must match level
	// by level, so hand renderInto the part of the chain inside c.
	var inner []Component
	if desc := b.host.Rendered(); desc != nil && desc.bound != nil {
		chain := instanceChain(desc.bound)
		for i := range chain {
			if chain[i] == c {
				inner = chain[i+1:]
				break
			}
		}
	}

	node := r.renderInto(c, b.host.Parent(), b.host, inner)
	for o := b.owner; o != nil; o = o.base().owner {
		o.base().host = node
	}
}

// callRef invokes a ref callback with the mounted value, or with nil on
// detachment.
func callRef(ref, v any) {
	switch f := ref.(type) {
	case func(HostNode):
		n, _ := v.(HostNode)
		f(n)
	case func(Component):
		c, _ := v.(Component)
		f(c)
	case func(any):
		f(v)
	default:
		panic(fmt.Sprintf("vdom: ref is not callable: %T", ref))
	}
}
