// Package multiplayer hosts co-op rooms: several SSH sessions share one
// game, each driving its own player slot. A room owns the game and ticks it
// on its own goroutine; sessions talk to it through channels only.
package multiplayer

import (
	"github.com/google/uuid"

	"github.com/vovakirdan/brick-arcade/internal/core"
)

// SessionID uniquely identifies a connected session.
type SessionID string

// NewSessionID returns a fresh random session ID.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// RoomID uniquely identifies a room for its whole lifetime. Codes can be
// reused after a room closes; IDs are not.
type RoomID string

// Frame is one rendered tick of a room.
type Frame struct {
	Tick      uint64
	Mode      string
	Level     int
	TeamScore int
	Players   int
	Screen    *core.Screen
}

// CloseReason says why a room stopped.
type CloseReason int

const (
	CloseEmpty    CloseReason = iota // every session left
	CloseQuit                        // Quit chosen in the game menu
	CloseIdle                        // no input for too long
	CloseShutdown                    // server stopping
)

func (r CloseReason) String() string {
	switch r {
	case CloseEmpty:
		return "empty"
	case CloseQuit:
		return "quit"
	case CloseIdle:
		return "idle"
	case CloseShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}
