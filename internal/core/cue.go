package core

// Cue names a sound the game asks the audio service to play.
type Cue int

const (
	CueBrickHit Cue = iota
	CueBrickBreak
	CuePaddleHit
	CueWallHit
	CuePowerUp
	CueLifeLost
	CueLevelClear
	CueGameOver
	CueMenuMove
	CueMenuSelect
	cueCount
)

// CueCount is the number of defined cues.
const CueCount = int(cueCount)

var cueNames = [...]string{
	CueBrickHit:   "brick-hit",
	CueBrickBreak: "brick-break",
	CuePaddleHit:  "paddle-hit",
	CueWallHit:    "wall-hit",
	CuePowerUp:    "power-up",
	CueLifeLost:   "life-lost",
	CueLevelClear: "level-clear",
	CueGameOver:   "game-over",
	CueMenuMove:   "menu-move",
	CueMenuSelect: "menu-select",
}

func (c Cue) String() string {
	if c < 0 || int(c) >= len(cueNames) {
		return "unknown"
	}
	return cueNames[c]
}
