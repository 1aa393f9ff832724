package platform

import (
	"errors"
)

var (
	// ErrNotFound is returned when product record doesn't exist.
	ErrNotFound = errors.New("product record not found")
	// ErrInvalidRecord is returned when discovered product misses required data.
	ErrInvalidRecord = errors.New("invalid product record")
	// ErrInvalidPriority is returned when priority is out of 1-10 range.
	ErrInvalidPriority = errors.New("priority out of range")
	// ErrTerminalStatus is returned when outcome is applied to skipped record.
	ErrTerminalStatus = errors.New("record is in terminal status")
	// ErrInsufficientData is returned when there are not enough snapshots to compute metrics.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrUnknownMessage is returned when received message type is not supported.
	ErrUnknownMessage = errors.New("unknown message type")
)
