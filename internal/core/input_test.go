package core

import "testing"

func TestEdgeDetector(t *testing.T) {
	var e EdgeDetector

	steps := []struct {
		held                    bool
		pressed, released, down bool
	}{
		{false, false, false, false},
		{true, true, false, true},
		{true, false, false, true},
		{false, false, true, false},
		{false, false, false, false},
		{true, true, false, true},
	}

	for i, s := range steps {
		e.Update(s.held)
		if e.Pressed() != s.pressed {
			t.Errorf("step %d: Pressed() = %v, expected %v", i, e.Pressed(), s.pressed)
		}
		if e.Released() != s.released {
			t.Errorf("step %d: Released() = %v, expected %v", i, e.Released(), s.released)
		}
		if e.Held() != s.down {
			t.Errorf("step %d: Held() = %v, expected %v", i, e.Held(), s.down)
		}
	}
}

func TestControlsSettleSuppressesEdge(t *testing.T) {
	var c Controls
	c.Update(PlayerInput{Confirm: true})
	if !c.Confirm.Pressed() {
		t.Fatal("expected Confirm press")
	}

	c.Settle()
	if c.Confirm.Pressed() {
		t.Error("Settle should clear the pending press")
	}
	if !c.Confirm.Held() {
		t.Error("Settle should keep the held state")
	}
}

func TestPlayerInputAxis(t *testing.T) {
	tests := []struct {
		name string
		in   PlayerInput
		want float64
	}{
		{"idle", PlayerInput{}, 0},
		{"left key", PlayerInput{Left: true}, -1},
		{"analog", PlayerInput{MoveX: 0.4}, 0.4},
		{"clamped", PlayerInput{MoveX: 0.8, Right: true}, 1},
		{"both keys", PlayerInput{Left: true, Right: true}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Axis(); got != tc.want {
				t.Errorf("Axis() = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestPlayerInputMerge(t *testing.T) {
	a := PlayerInput{Left: true, Text: []rune("A")}
	b := PlayerInput{Serve: true, Text: []rune("B")}

	m := a.Merge(b)
	if !m.Left || !m.Serve {
		t.Errorf("Merge lost held controls: %+v", m)
	}
	if string(m.Text) != "AB" {
		t.Errorf("Merge text = %q, expected %q", string(m.Text), "AB")
	}
}
