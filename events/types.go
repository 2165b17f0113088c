package events

import (
	"time"

	"nipow/block"
)

// EventType is an enum-like string type for chain events
type EventType string

const (
	EventHeadChanged EventType = "HeadChanged"
)

// ChainEvent represents any event that occurs on the local chain
type ChainEvent interface {
	Type() EventType
	Timestamp() time.Time
	BlockHash() string
}

// HeadChanged fires when the main chain head moves, either by extension
// or by a rebranch to a heavier fork.
type HeadChanged struct {
	head      *block.Block
	rebranch  bool
	timestamp time.Time
}

func NewHeadChanged(head *block.Block, rebranch bool) *HeadChanged {
	return &HeadChanged{
		head:      head,
		rebranch:  rebranch,
		timestamp: time.Now(),
	}
}

func (e *HeadChanged) Type() EventType {
	return EventHeadChanged
}

func (e *HeadChanged) Timestamp() time.Time {
	return e.timestamp
}

func (e *HeadChanged) BlockHash() string {
	return e.head.Hash().Hex()
}

func (e *HeadChanged) Head() *block.Block {
	return e.head
}

func (e *HeadChanged) Height() uint64 {
	return e.head.Height()
}

// Rebranch reports whether the head moved through a reorg rather than a
// simple extension.
func (e *HeadChanged) Rebranch() bool {
	return e.rebranch
}
