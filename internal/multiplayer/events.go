package multiplayer

import "github.com/vovakirdan/brick-arcade/internal/core"

// SessionEvent is something a room tells one of its sessions.
type SessionEvent interface {
	sessionEvent()
}

// JoinedEvent confirms a session's seat in a room.
type JoinedEvent struct {
	Code string
	Slot int
}

func (JoinedEvent) sessionEvent() {}

// MembersEvent is sent to everyone when a session joins or leaves.
type MembersEvent struct {
	Slots [core.MaxPlayers]bool // occupied seats
}

func (MembersEvent) sessionEvent() {}

// FrameEvent carries the latest rendered frame.
type FrameEvent struct {
	Frame Frame
}

func (FrameEvent) sessionEvent() {}

// ClosedEvent is the last event a session receives from a room.
type ClosedEvent struct {
	Reason CloseReason
}

func (ClosedEvent) sessionEvent() {}
