package server

import (
	"testing"

	"github.com/fern-ui/fern/pkg/protocol"
	"github.com/fern-ui/fern/pkg/vdom"
)

func TestRemoteHostBuffersMountOps(t *testing.T) {
	host := NewRemoteHost()
	rec := vdom.NewReconciler(host)

	rec.Render(vdom.Div(vdom.ID("box"),
		vdom.Button(vdom.OnClick(func() {}), "go"),
	), host.Root())

	ops := host.Flush()
	if len(ops) == 0 {
		t.Fatal("mount produced no ops")
	}
	if host.Pending() != 0 {
		t.Errorf("Pending() after Flush = %d, want 0", host.Pending())
	}
	if again := host.Flush(); again != nil {
		t.Errorf("second Flush returned %d ops, want none", len(again))
	}

	counts := map[protocol.OpCode]int{}
	for _, op := range ops {
		counts[op.Code]++
	}
	if counts[protocol.OpCreateElement] != 2 { // div, button
		t.Errorf("CreateElement count = %d, want 2", counts[protocol.OpCreateElement])
	}
	if counts[protocol.OpCreateText] != 1 { // "go"
		t.Errorf("CreateText count = %d, want 1", counts[protocol.OpCreateText])
	}
	if counts[protocol.OpInsertBefore] != 3 {
		t.Errorf("InsertBefore count = %d, want 3", counts[protocol.OpInsertBefore])
	}
	if counts[protocol.OpAddListener] != 1 {
		t.Errorf("AddListener count = %d, want 1", counts[protocol.OpAddListener])
	}

	// The root insert targets the client's mount point, node id 0.
	for _, op := range ops {
		if op.Code == protocol.OpInsertBefore && op.Parent == 0 {
			return
		}
	}
	t.Error("no insert against the root container")
}

type remoteCounter struct {
	vdom.Base
}

func (c *remoteCounter) Render() *vdom.VNode {
	count, _ := c.State()["count"].(int)
	return vdom.Div(
		vdom.Span(vdom.Textf("%d", count)),
		vdom.Button(vdom.OnClick(func() {
			c.SetState(vdom.State{"count": count + 1})
		}), "add"),
	)
}

func newRemoteCounter(vdom.Props) vdom.Component { return &remoteCounter{} }

func findListener(ops []protocol.Op, event string) (uint64, bool) {
	for _, op := range ops {
		if op.Code == protocol.OpAddListener && op.Name == event {
			return op.Node, true
		}
	}
	return 0, false
}

func TestRemoteHostDispatch(t *testing.T) {
	host := NewRemoteHost()
	rec := vdom.NewReconciler(host)
	rec.Render(vdom.New(vdom.Ctor(newRemoteCounter), nil), host.Root())

	btn, ok := findListener(host.Flush(), "click")
	if !ok {
		t.Fatal("no click listener op in the mount batch")
	}

	if !host.Dispatch(&protocol.Event{Node: btn, Name: "click"}) {
		t.Fatal("Dispatch missed the registered listener")
	}

	ops := host.Flush()
	var set *protocol.Op
	for i := range ops {
		if ops[i].Code == protocol.OpSetText {
			set = &ops[i]
		}
	}
	if set == nil {
		t.Fatalf("click produced no SetText, ops: %v", ops)
	}
	if set.Value != "1" {
		t.Errorf("SetText value = %q, want 1", set.Value)
	}

	if host.Dispatch(&protocol.Event{Node: 9999, Name: "click"}) {
		t.Error("Dispatch hit an unknown node id")
	}
	if host.Dispatch(&protocol.Event{Node: btn, Name: "keydown"}) {
		t.Error("Dispatch hit an unregistered event")
	}
}

func TestRemoveChildReleasesIDs(t *testing.T) {
	host := NewRemoteHost()
	rec := vdom.NewReconciler(host)

	rec.Render(vdom.Div(
		vdom.Button(vdom.OnClick(func() {}), "a"),
		vdom.Button(vdom.OnClick(func() {}), "b"),
	), host.Root())

	mount := host.Flush()
	var listenerNodes []uint64
	for _, op := range mount {
		if op.Code == protocol.OpAddListener {
			listenerNodes = append(listenerNodes, op.Node)
		}
	}
	if len(listenerNodes) != 2 {
		t.Fatalf("listener ops = %d, want 2", len(listenerNodes))
	}

	rec.Render(vdom.Div(
		vdom.Button(vdom.OnClick(func() {}), "a"),
	), host.Root())
	host.Flush()

	// The trimmed button's id must no longer dispatch.
	if host.Dispatch(&protocol.Event{Node: listenerNodes[1], Name: "click"}) {
		t.Error("removed node still dispatches")
	}
	if !host.Dispatch(&protocol.Event{Node: listenerNodes[0], Name: "click"}) {
		t.Error("surviving node stopped dispatching")
	}
}
