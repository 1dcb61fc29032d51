package inet

import "errors"

var (
	// ErrInvalidPort is returned for a port index outside 0..2.
	ErrInvalidPort = errors.New("invalid port")
	// ErrNodeNotFound is returned when an operation addresses a dead agent.
	ErrNodeNotFound = errors.New("node not found")
	// ErrInvalidNet is returned by Check when the wire table is inconsistent.
	ErrInvalidNet = errors.New("invalid net")
	// ErrNotImplemented is returned for an eraser meeting a non-eraser.
	ErrNotImplemented = errors.New("not implemented")
	// ErrStepLimit is returned by ReduceWithLimit when redexes remain.
	ErrStepLimit = errors.New("step limit reached")
)
