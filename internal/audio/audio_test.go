package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/settings"
)

func drain(s beep.Streamer) (n int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		k, ok := s.Stream(buf)
		for i := 0; i < k; i++ {
			peak = max(peak, buf[i][0], -buf[i][0])
		}
		n += k
		if !ok {
			return n, peak
		}
	}
}

func TestOscillatorLength(t *testing.T) {
	rate := beep.SampleRate(8000)
	osc := NewOscillator(440, 0, 100*time.Millisecond, WaveSquare, rate)

	n, peak := drain(osc)
	if n != rate.N(100*time.Millisecond) {
		t.Errorf("streamed %d samples, want %d", n, rate.N(100*time.Millisecond))
	}
	if peak != 1 {
		t.Errorf("square peak = %v, want 1", peak)
	}
	if osc.Err() != nil {
		t.Errorf("Err() = %v", osc.Err())
	}
}

func TestWavesInRange(t *testing.T) {
	rate := beep.SampleRate(8000)
	for _, w := range []Wave{WaveSine, WaveSquare, WaveTriangle} {
		osc := NewOscillator(330, -500, 50*time.Millisecond, w, rate)
		buf := make([][2]float64, 400)
		n, _ := osc.Stream(buf)
		for i := 0; i < n; i++ {
			if buf[i][0] < -1 || buf[i][0] > 1 || buf[i][0] != buf[i][1] {
				t.Fatalf("wave %d sample %d = %v", w, i, buf[i])
			}
		}
	}
}

func TestEnvelopeFades(t *testing.T) {
	rate := beep.SampleRate(1000)
	d := 100 * time.Millisecond
	one := beep.StreamerFunc(func(s [][2]float64) (int, bool) {
		for i := range s {
			s[i] = [2]float64{1, 1}
		}
		return len(s), true
	})
	env := NewEnvelope(one, d, 10*time.Millisecond, 10*time.Millisecond, rate)

	buf := make([][2]float64, 100)
	n, _ := env.Stream(buf)
	if n != 100 {
		t.Fatalf("streamed %d samples, want 100", n)
	}
	if buf[0][0] != 0 {
		t.Errorf("first sample = %v, want silent attack start", buf[0][0])
	}
	if buf[50][0] != 1 {
		t.Errorf("sustain sample = %v, want 1", buf[50][0])
	}
	if buf[99][0] > 0.2 {
		t.Errorf("last sample = %v, want faded", buf[99][0])
	}
}

func TestEveryCueHasSound(t *testing.T) {
	rate := beep.SampleRate(8000)
	for c := core.Cue(0); int(c) < core.CueCount; c++ {
		s := CueStreamer(c, 1, rate)
		if s == nil {
			t.Fatalf("%s has no streamer", c)
		}
		n, peak := drain(s)
		if want := rate.N(CueDuration(c)); n != want {
			t.Errorf("%s streamed %d samples, want %d", c, n, want)
		}
		if peak == 0 {
			t.Errorf("%s is silent", c)
		}
	}
	if CueStreamer(core.Cue(99), 1, rate) != nil {
		t.Error("unknown cue produced a streamer")
	}
}

func TestPlayerFollowsSettings(t *testing.T) {
	mgr := settings.NewManager(settings.Defaults())
	var played int
	p := New(WithSettings(mgr), WithOutput(func(beep.Streamer) { played++ }))

	p.PlayCue(core.CueBrickHit)
	if played != 0 {
		t.Fatal("cue played before Start")
	}

	p.Start()
	p.PlayCue(core.CueBrickHit)
	if played != 1 {
		t.Fatalf("played = %d, want 1", played)
	}

	mgr.Set(func(s *settings.Settings) { s.Audio.Muted = true })
	if err := mgr.Apply(); err != nil {
		t.Fatal(err)
	}
	p.PlayCue(core.CueBrickHit)

	mgr.Set(func(s *settings.Settings) { s.Audio.Muted, s.Audio.Volume = false, 0 })
	mgr.Apply()
	p.PlayCue(core.CueBrickHit)

	if played != 1 {
		t.Errorf("played = %d after mute and zero volume, want 1", played)
	}
	p.Close()
}
