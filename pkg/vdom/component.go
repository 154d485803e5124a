package vdom

import (
	"fmt"
	"reflect"
)

// State is a component's state bag. SetState merges into it, never replaces
// it wholesale.
type State map[string]any

// Component is a live stateful component instance. Concrete components embed
// Base, implement Render, and override only the lifecycle hooks they need.
//
// Hook call order is fixed: ComponentWillMount, Render, host insertion,
// ComponentDidMount on mount; ComponentWillReceiveProps, then — gated by
// ShouldComponentUpdate — ComponentWillUpdate, Render, ComponentDidUpdate on
// a prop-driven update; ComponentWillUnmount once, before host removal.
type Component interface {
	Render() *VNode

	ComponentWillMount()
	ComponentDidMount()
	ComponentWillReceiveProps(next Props)
	ShouldComponentUpdate(next Props, state State) bool
	ComponentWillUpdate(next Props, state State)
	ComponentDidUpdate(prev Props)
	ComponentWillUnmount()

	base() *Base
}

// Base carries the runtime half of a component: current props, merged state
// and the host anchor. Every lifecycle hook defaults to a no-op except
// ShouldComponentUpdate.
type Base struct {
	props     Props
	state     State
	prevState State

	host HostNode
	ctor Ctor
	rec  *Reconciler
	self Component

	// owner is the component whose render produced this one directly,
	// nil when this component was described inside an element tree.
	// Components stacked at one host position form an owner chain.
	owner Component
}

func (b *Base) base() *Base { return b }

// Props returns the current props. The reconciler replaces them wholesale on
// every accepted update; there is no merging.
func (b *Base) Props() Props { return b.props }

// State returns the current state bag.
func (b *Base) State() State {
	if b.state == nil {
		b.state = State{}
	}
	return b.state
}

// PrevState returns the snapshot taken immediately before the most recent
// state merge.
func (b *Base) PrevState() State { return b.prevState }

// GetHostElement returns the host node this component is anchored to, or nil
// before the first mount completes.
func (b *Base) GetHostElement() HostNode { return b.host }

// SetState merges update into the component's state and synchronously
// re-reconciles the component's subtree before returning. update is either a
// State (or plain map) merged shallowly over the current state, or a
// func(State, Props) State evaluated against the current state first.
//
// The ShouldComponentUpdate gate does not apply to self-triggered updates.
// callback is accepted for API compatibility but never invoked: the update
// has fully applied by the time SetState returns, so there is no deferred
// notification path.
func (b *Base) SetState(update any, callback ...func()) {
	snapshot := make(State, len(b.state))
	for k, v := range b.state {
		snapshot[k] = v
	}
	b.prevState = snapshot

	var partial State
	switch u := update.(type) {
	case nil:
	case State:
		partial = u
	case map[string]any:
		partial = State(u)
	case func(State, Props) State:
		partial = u(b.state, b.props)
	default:
		panic(fmt.Sprintf("vdom: unsupported SetState update %T", update))
	}
	if b.state == nil {
		b.state = make(State, len(partial))
	}
	for k, v := range partial {
		b.state[k] = v
	}

	if b.rec != nil && b.self != nil {
		b.rec.rerender(b.self)
	}
	_ = callback
}

// Lifecycle defaults. Components override what they need.

func (b *Base) ComponentWillMount()                  {}
func (b *Base) ComponentDidMount()                   {}
func (b *Base) ComponentWillReceiveProps(next Props) {}

// ShouldComponentUpdate gates prop-driven updates. The default passes
// whenever props or state changed by reference.
func (b *Base) ShouldComponentUpdate(next Props, state State) bool {
	return !sameMap(b.props, next) || !sameMap(b.state, state)
}

func (b *Base) ComponentWillUpdate(next Props, state State) {}
func (b *Base) ComponentDidUpdate(prev Props)               {}
func (b *Base) ComponentWillUnmount()                       {}

// sameMap reports whether two maps share the same underlying storage.
func sameMap[M ~map[string]any](a, b M) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// sameCtor reports whether two constructors are the same function reference.
// Go functions are not comparable with ==, so identity is the code pointer:
// two closures over one function literal compare equal.
func sameCtor(a, b Ctor) bool {
	if a == nil || b == nil {
		return false
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
