package worker

import "errors"

var (
	// ErrPoolClosed is returned by Run and TryRun after Close
	ErrPoolClosed = errors.New("worker pool closed")

	// ErrPoolFull is returned by TryRun when no queue slot is free
	ErrPoolFull = errors.New("worker pool saturated")
)
