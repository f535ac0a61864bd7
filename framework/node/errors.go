package node

import "errors"

// transport errors
var (
	ErrNotConnected     = errors.New("node: not connected to the message bus")
	ErrPublishFailed    = errors.New("node: publish failed")
	ErrWriteChanFull    = errors.New("node: write channel is full")
	ErrConnectionClosed = errors.New("node: connection closed")
)
