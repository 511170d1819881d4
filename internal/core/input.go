package core

// MaxPlayers is the number of player slots every frame carries input for.
const MaxPlayers = 4

// TouchPhase describes where a touch is in its lifecycle.
type TouchPhase int

const (
	TouchBegan TouchPhase = iota
	TouchMoved
	TouchEnded
)

// TouchEvent is a pointer contact in viewport pixels.
type TouchEvent struct {
	X, Y  float64
	Phase TouchPhase
}

// PlayerInput is one player's normalized intent for a single frame.
// Booleans carry the held state of each control; edges are derived by the
// consumer with an EdgeDetector. Frontends map devices onto this and never
// pass raw key state further in.
type PlayerInput struct {
	MoveX float64 // -1 (left) .. 1 (right)

	Left, Right, Up, Down bool
	Confirm, Back         bool
	Serve, Catch, Pause   bool

	Text    []rune // typed characters, for name entry
	Touches []TouchEvent
}

// Axis returns the horizontal intent, combining the analog axis with the
// digital left/right controls.
func (in PlayerInput) Axis() float64 {
	x := in.MoveX
	if in.Left {
		x--
	}
	if in.Right {
		x++
	}
	return ClampF(x, -1, 1)
}

// Merge ORs held controls of o into in. Used when several device events
// arrive between two simulation ticks.
func (in PlayerInput) Merge(o PlayerInput) PlayerInput {
	if o.MoveX != 0 {
		in.MoveX = o.MoveX
	}
	in.Left = in.Left || o.Left
	in.Right = in.Right || o.Right
	in.Up = in.Up || o.Up
	in.Down = in.Down || o.Down
	in.Confirm = in.Confirm || o.Confirm
	in.Back = in.Back || o.Back
	in.Serve = in.Serve || o.Serve
	in.Catch = in.Catch || o.Catch
	in.Pause = in.Pause || o.Pause
	in.Text = append(in.Text, o.Text...)
	in.Touches = append(in.Touches, o.Touches...)
	return in
}

// EdgeDetector tracks one logical control across frames.
type EdgeDetector struct {
	prev, cur bool
}

// Update feeds the control's held state for the current frame.
func (e *EdgeDetector) Update(held bool) {
	e.prev = e.cur
	e.cur = held
}

// Pressed reports a false->true transition this frame.
func (e EdgeDetector) Pressed() bool { return e.cur && !e.prev }

// Released reports a true->false transition this frame.
func (e EdgeDetector) Released() bool { return !e.cur && e.prev }

// Held reports whether the control is down this frame.
func (e EdgeDetector) Held() bool { return e.cur }

// Reset forgets history so a control held across a mode change does not
// register as a fresh press.
func (e *EdgeDetector) Reset(held bool) {
	e.prev = held
	e.cur = held
}

// Controls bundles the edge detectors for one player's digital inputs.
type Controls struct {
	Left, Right, Up, Down EdgeDetector
	Confirm, Back         EdgeDetector
	Serve, Catch, Pause   EdgeDetector
}

// Update advances all detectors from a frame of input.
func (c *Controls) Update(in PlayerInput) {
	c.Left.Update(in.Left || in.MoveX < -0.5)
	c.Right.Update(in.Right || in.MoveX > 0.5)
	c.Up.Update(in.Up)
	c.Down.Update(in.Down)
	c.Confirm.Update(in.Confirm)
	c.Back.Update(in.Back)
	c.Serve.Update(in.Serve)
	c.Catch.Update(in.Catch)
	c.Pause.Update(in.Pause)
}

// Settle marks every control's current state as already seen.
func (c *Controls) Settle() {
	for _, e := range []*EdgeDetector{
		&c.Left, &c.Right, &c.Up, &c.Down,
		&c.Confirm, &c.Back, &c.Serve, &c.Catch, &c.Pause,
	} {
		e.Reset(e.cur)
	}
}
