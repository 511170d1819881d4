package breakout

import (
	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/registry"
	"github.com/vovakirdan/brick-arcade/internal/settings"
)

// SettingsProvider exposes committed and pending settings with staged edits.
type SettingsProvider interface {
	Current() settings.Settings
	Pending() settings.Settings
	Begin()
	Set(fn func(*settings.Settings))
	Apply() error
	Cancel()
}

// HighScoreService is the local leaderboard.
type HighScoreService interface {
	Qualifies(score int) bool
	Submit(entry core.ScoreEntry) error
	Top(limit int) ([]core.ScoreEntry, error)
}

// AudioService plays short cues.
type AudioService interface {
	PlayCue(cue core.Cue)
}

// DisplayModeService applies display settings on the host.
type DisplayModeService interface {
	ApplyDisplay(d settings.DisplaySettings)
}

// Load wires optional collaborators from loc. Anything missing is skipped;
// without a settings provider an in-memory one with defaults is used.
func (g *Game) Load(loc registry.Locator) {
	if sp, ok := registry.Get[SettingsProvider](loc, registry.Settings); ok {
		g.settings = sp
	}
	if hs, ok := registry.Get[HighScoreService](loc, registry.HighScores); ok {
		g.scores = hs
	}
	if a, ok := registry.Get[AudioService](loc, registry.Audio); ok {
		g.audio = a
	}
	if d, ok := registry.Get[DisplayModeService](loc, registry.Display); ok {
		g.display = d
		d.ApplyDisplay(g.settings.Current().Display)
	}
	g.log.Debug("services loaded",
		"scores", g.scores != nil, "audio", g.audio != nil, "display", g.display != nil)
}

func (g *Game) cue(c core.Cue) {
	if g.audio != nil {
		g.audio.PlayCue(c)
	}
}
