package breakout

import "github.com/vovakirdan/brick-arcade/internal/core"

// Mode names the active screen.
type Mode int

const (
	ModeMenu Mode = iota
	ModeSettings
	ModePlaying
	ModeLevelInterstitial
	ModePaused
	ModeHighScores
	ModeNameEntry
	ModeGameOver
	ModeDebugJumpLevel
)

func (m Mode) String() string {
	switch m {
	case ModeMenu:
		return "menu"
	case ModeSettings:
		return "settings"
	case ModePlaying:
		return "playing"
	case ModeLevelInterstitial:
		return "interstitial"
	case ModePaused:
		return "paused"
	case ModeHighScores:
		return "highscores"
	case ModeNameEntry:
		return "name-entry"
	case ModeGameOver:
		return "game-over"
	case ModeDebugJumpLevel:
		return "debug-jump"
	default:
		return "unknown"
	}
}

// state is the sum type of screens. Each variant carries only its own data.
type state interface {
	mode() Mode
}

type menuState struct{ cursor int }

type settingsState struct{ cursor int }

type playingState struct{}

type interstitialState struct {
	cleared   int     // level just finished
	remaining float64 // seconds until auto-advance
	prompt    bool    // wait for confirm only
}

type pausedState struct{ cursor int }

type highScoresState struct {
	entries []core.ScoreEntry
	err     bool
}

type nameEntryState struct {
	score  int
	name   []rune
	cursor int
}

type gameOverState struct {
	score     int
	submitted bool
}

type debugJumpState struct{ level int }

func (menuState) mode() Mode         { return ModeMenu }
func (settingsState) mode() Mode     { return ModeSettings }
func (playingState) mode() Mode      { return ModePlaying }
func (interstitialState) mode() Mode { return ModeLevelInterstitial }
func (pausedState) mode() Mode       { return ModePaused }
func (highScoresState) mode() Mode   { return ModeHighScores }
func (nameEntryState) mode() Mode    { return ModeNameEntry }
func (gameOverState) mode() Mode     { return ModeGameOver }
func (debugJumpState) mode() Mode    { return ModeDebugJumpLevel }

// event drives transitions between states.
type event interface {
	isEvent()
}

type (
	evStart          struct{ level int }
	evOpenSettings   struct{}
	evOpenHighScores struct{}
	evOpenJump       struct{}
	evBack           struct{}
	evPause          struct{}
	evResume         struct{}
	evLevelCleared   struct {
		level  int
		delay  float64
		prompt bool
	}
	evAdvance   struct{}
	evGameEnded struct {
		score     int
		qualifies bool
	}
	evNameDone struct{ submitted bool }
)

func (evStart) isEvent()          {}
func (evOpenSettings) isEvent()   {}
func (evOpenHighScores) isEvent() {}
func (evOpenJump) isEvent()       {}
func (evBack) isEvent()           {}
func (evPause) isEvent()          {}
func (evResume) isEvent()         {}
func (evLevelCleared) isEvent()   {}
func (evAdvance) isEvent()        {}
func (evGameEnded) isEvent()      {}
func (evNameDone) isEvent()       {}

// transition is the complete table of legal mode changes. Events that are
// not legal in the current state leave it unchanged.
func transition(cur state, ev event) state {
	switch s := cur.(type) {
	case menuState:
		switch ev.(type) {
		case evStart:
			return playingState{}
		case evOpenSettings:
			return settingsState{}
		case evOpenHighScores:
			return highScoresState{}
		case evOpenJump:
			return debugJumpState{}
		}

	case settingsState, highScoresState, debugJumpState:
		switch ev.(type) {
		case evBack:
			return menuState{}
		case evStart:
			if _, ok := s.(debugJumpState); ok {
				return playingState{}
			}
		}

	case playingState:
		switch e := ev.(type) {
		case evPause:
			return pausedState{}
		case evLevelCleared:
			return interstitialState{cleared: e.level, remaining: e.delay, prompt: e.prompt}
		case evGameEnded:
			if e.qualifies {
				return nameEntryState{score: e.score}
			}
			return gameOverState{score: e.score}
		}

	case pausedState:
		switch ev.(type) {
		case evResume:
			return playingState{}
		case evBack:
			return menuState{}
		}

	case interstitialState:
		switch ev.(type) {
		case evAdvance:
			return playingState{}
		case evBack:
			return menuState{}
		}

	case nameEntryState:
		if e, ok := ev.(evNameDone); ok {
			return gameOverState{score: s.score, submitted: e.submitted}
		}

	case gameOverState:
		switch ev.(type) {
		case evBack:
			return menuState{}
		case evOpenHighScores:
			return highScoresState{}
		}
	}
	return cur
}
