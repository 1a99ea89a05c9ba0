// Package server provides the HTTP surface for chatcast.
//
// This package is internal to chatcast and handles all HTTP concerns:
//
//   - Publishing: form submissions at "/message" are validated and published
//   - Server-Sent Events: the live message stream at "/events"
//   - Stats: a JSON snapshot of the hub at "/api/stats"
//   - Client assets: the chat page and any static files at "/"
//
// Each SSE connection owns one hub cursor for its whole lifetime and releases
// it when the client disconnects or the server shuts down. The server
// supports graceful shutdown via context cancellation, with a 5-second
// timeout for in-flight requests.
//
// Users of the chatcast library should not need to interact with this
// package directly. The server is started automatically by [chatcast.Chatcast.Start].
package server
