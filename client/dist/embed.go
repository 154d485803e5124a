package clientdist

import _ "embed"

// FernJS is the thin client JavaScript bundle.
//
// It is served by the framework at "/client.js": it opens the WebSocket,
// applies mutation batches to the document and reports user events back.
//
//go:embed fern.js
var FernJS []byte
