// Package vdom is a minimal UI reconciliation core: it turns immutable
// virtual node trees into incremental mutations against a live host tree.
//
// The package has three moving parts:
//
//   - The virtual node model: New builds immutable VNode descriptions from a
//     kind (tag name or component), props and children.
//   - The component runtime: stateful components embed Base, implement
//     Render, and override whichever lifecycle hooks they need. SetState
//     merges state and re-reconciles the component's subtree synchronously.
//   - The reconciler: Render walks a new tree against whatever host node
//     currently occupies each position, patching attributes and listeners,
//     recursing into children positionally by index.
//
// The live display tree is reached exclusively through the Host and HostNode
// interfaces, so the core carries no platform binding. pkg/hosttest provides
// an in-memory implementation; pkg/server forwards the same calls to a
// browser over WebSocket.
//
// Children are always compared positionally: there is no keyed
// reconciliation. Updates apply synchronously on the caller's stack; there
// is no batching or scheduling.
package vdom
