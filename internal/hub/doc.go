// Package hub provides the in-memory broadcast hub for chatcast.
//
// This package is internal to chatcast and holds the only shared state in the
// process: a fixed-capacity ring of the most recently published messages and
// a monotonically increasing publish sequence. Any number of readers consume
// the ring at their own pace through private cursors.
//
// The main components are:
//
//   - [Hub]: Mutex-guarded ring buffer with non-blocking publish
//   - [Cursor]: A subscriber's read position into the hub's sequence
//   - [Message]: The broadcast value (room, username, message)
//   - [LagError]: Reported when a cursor was overrun by the ring
//
// Publishers never block and never fail. A reader that falls more than the
// ring's capacity behind loses the evicted messages and resumes at the oldest
// retained entry; it is never disconnected for being slow.
//
// Users of the chatcast library should not need to interact with this
// package directly. The hub is created by [chatcast.New].
package hub
