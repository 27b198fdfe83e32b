package core

// Frame is one raw outbound payload (a JSON-encoded event).
type Frame []byte

// SignalConnection is the transport endpoint the session broadcasts to.
// Owned by the adapter; the adapter must Close() it. TrySend never blocks.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
