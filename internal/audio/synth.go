package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/vovakirdan/brick-arcade/internal/core"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveTriangle
)

// oscillator streams a fixed-length tone, optionally sliding in pitch.
type oscillator struct {
	freq, slide float64 // Hz, Hz per second
	phase       float64
	length      int
	pos         int
	wave        Wave
	rate        beep.SampleRate
}

// NewOscillator creates a tone of the given length. slide bends the
// frequency linearly over time.
func NewOscillator(freq, slide float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{freq: freq, slide: slide, length: rate.N(d), wave: wave, rate: rate}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if o.pos >= o.length {
			return i, i > 0
		}

		var v float64
		switch o.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case WaveTriangle:
			v = 4*math.Abs(o.phase-0.5) - 1
		}
		samples[i][0] = v
		samples[i][1] = v

		t := float64(o.pos) / float64(o.rate)
		f := max(o.freq+o.slide*t, 20)
		o.phase += f / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope fades a stream in and out linearly.
type envelope struct {
	s                    beep.Streamer
	pos, attack, release int
	total                int
}

// NewEnvelope shapes s with an attack and a release inside d.
func NewEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{s: s, total: rate.N(d), attack: rate.N(attack), release: rate.N(release)}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.attack > 0 && e.pos < e.attack {
			vol = float64(e.pos) / float64(e.attack)
		}
		if left := e.total - e.pos; e.release > 0 && left < e.release {
			vol = math.Max(float64(left)/float64(e.release), 0)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// withVolume scales s linearly; zero or less is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// note is one segment of a cue.
type note struct {
	freq, slide float64
	dur         time.Duration
	wave        Wave
}

// cueNotes lists the notes of each cue, played in sequence.
var cueNotes = [core.CueCount][]note{
	core.CueBrickHit:   {{freq: 660, dur: 35 * time.Millisecond, wave: WaveSquare}},
	core.CueBrickBreak: {{freq: 880, slide: -2400, dur: 70 * time.Millisecond, wave: WaveSquare}},
	core.CuePaddleHit:  {{freq: 330, dur: 40 * time.Millisecond, wave: WaveTriangle}},
	core.CueWallHit:    {{freq: 220, dur: 25 * time.Millisecond, wave: WaveTriangle}},
	core.CuePowerUp: {
		{freq: 523.25, dur: 60 * time.Millisecond, wave: WaveSine},
		{freq: 783.99, dur: 90 * time.Millisecond, wave: WaveSine},
	},
	core.CueLifeLost: {{freq: 392, slide: -900, dur: 300 * time.Millisecond, wave: WaveSquare}},
	core.CueLevelClear: {
		{freq: 523.25, dur: 90 * time.Millisecond, wave: WaveSquare},
		{freq: 659.25, dur: 90 * time.Millisecond, wave: WaveSquare},
		{freq: 783.99, dur: 180 * time.Millisecond, wave: WaveSquare},
	},
	core.CueGameOver: {
		{freq: 392, dur: 150 * time.Millisecond, wave: WaveTriangle},
		{freq: 311.13, dur: 150 * time.Millisecond, wave: WaveTriangle},
		{freq: 261.63, slide: -200, dur: 350 * time.Millisecond, wave: WaveTriangle},
	},
	core.CueMenuMove:   {{freq: 1046.5, dur: 20 * time.Millisecond, wave: WaveSine}},
	core.CueMenuSelect: {{freq: 1318.5, dur: 50 * time.Millisecond, wave: WaveSine}},
}

const (
	attack  = 3 * time.Millisecond
	release = 15 * time.Millisecond
)

// CueStreamer builds the sound for cue at the given volume. Unknown cues
// yield nil.
func CueStreamer(cue core.Cue, vol float64, rate beep.SampleRate) beep.Streamer {
	if cue < 0 || int(cue) >= len(cueNotes) {
		return nil
	}
	notes := cueNotes[cue]
	parts := make([]beep.Streamer, len(notes))
	for i, n := range notes {
		osc := NewOscillator(n.freq, n.slide, n.dur, n.wave, rate)
		parts[i] = NewEnvelope(osc, n.dur, attack, min(release, n.dur/2), rate)
	}
	return withVolume(beep.Seq(parts...), vol*0.5)
}

// CueDuration is the total length of a cue.
func CueDuration(cue core.Cue) time.Duration {
	if cue < 0 || int(cue) >= len(cueNotes) {
		return 0
	}
	var d time.Duration
	for _, n := range cueNotes[cue] {
		d += n.dur
	}
	return d
}
