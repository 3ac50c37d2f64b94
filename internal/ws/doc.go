// Package ws streams terminal output to the front end and accepts
// keystrokes over a single multiplexed WebSocket per client.
//
// Message Types (Client → Server):
//   - subscribe: attach to a session and receive its replay window
//   - unsubscribe: detach from a session
//   - write: base64 keystrokes for a session
//   - resize: new PTY geometry for a session
//   - kill: terminate a session
//   - ping: keep-alive
//
// Message Types (Server → Client):
//   - system: connection established, carries conn_id
//   - replay: buffered output for a freshly attached session, with the
//     next sequence offset
//   - output: live output chunk with its sequence offset
//   - exit: session left the running state, carries the reason
//   - pong: keep-alive reply
//   - error: request failed
//
// Output bytes are base64 in both directions. Sequence offsets are absolute
// byte positions in the session's output stream; a client that received a
// replay up to seq N can discard any output frame below N.
package ws
