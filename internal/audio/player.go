// Package audio plays the game's sound cues through a beep mixer. When no
// audio backend is available the player disables itself and every cue is
// dropped silently.
package audio

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/settings"
)

const sampleRate = beep.SampleRate(44100)

// SettingsSource supplies the current audio settings.
type SettingsSource interface {
	Current() settings.Settings
}

// Player implements the game's audio service.
type Player struct {
	mu       sync.Mutex
	mixer    *beep.Mixer
	started  bool
	disabled atomic.Bool

	src SettingsSource
	log *log.Logger

	// output replaces the speaker; used by tests.
	output func(beep.Streamer)
}

// Option configures a Player.
type Option func(*Player)

// WithSettings makes volume and mute follow src.
func WithSettings(src SettingsSource) Option {
	return func(p *Player) { p.src = src }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Player) { p.log = l }
}

// WithOutput sends cues to fn instead of the speaker.
func WithOutput(fn func(beep.Streamer)) Option {
	return func(p *Player) { p.output = fn }
}

// New creates a player. Call Start before playing.
func New(opts ...Option) *Player {
	p := &Player{
		mixer: &beep.Mixer{},
		log:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start opens the speaker. Failure disables the player instead of
// returning an error, so games run the same without sound.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.disabled.Load() {
		return
	}
	if p.output != nil {
		p.started = true
		return
	}

	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		p.log.Warn("audio unavailable", "err", err)
		p.disabled.Store(true)
		return
	}
	speaker.Play(p.mixer)
	p.started = true
}

// Disabled reports whether the backend failed to start.
func (p *Player) Disabled() bool {
	return p.disabled.Load()
}

// PlayCue queues a cue. It never blocks on audio output.
func (p *Player) PlayCue(cue core.Cue) {
	if p.disabled.Load() {
		return
	}
	vol := 0.7
	if p.src != nil {
		a := p.src.Current().Audio
		if a.Muted {
			return
		}
		vol = a.Volume
	}
	if vol <= 0 {
		return
	}

	s := CueStreamer(cue, vol, sampleRate)
	if s == nil {
		return
	}

	p.mu.Lock()
	started, out := p.started, p.output
	p.mu.Unlock()
	if !started {
		return
	}

	if out != nil {
		out(s)
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close stops playback.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started || p.output != nil {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.started = false
}
