package registry

import "testing"

type greeter interface{ Greet() string }

type english struct{}

func (english) Greet() string { return "hello" }

func TestGetTyped(t *testing.T) {
	s := New()
	s.Register("greeter", english{})
	s.Register("number", 42)

	g, ok := Get[greeter](s, "greeter")
	if !ok || g.Greet() != "hello" {
		t.Fatalf("Get[greeter] = %v, %v", g, ok)
	}

	if _, ok := Get[greeter](s, "number"); ok {
		t.Error("mistyped service should not resolve")
	}
	if _, ok := Get[greeter](s, "missing"); ok {
		t.Error("missing service should not resolve")
	}
	if _, ok := Get[greeter](nil, "greeter"); ok {
		t.Error("nil locator should not resolve")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	s := New()
	s.Register("a", 1)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	s.Register("a", 2)
}

func TestNamesSorted(t *testing.T) {
	s := New()
	s.Register(Settings, 1)
	s.Register(Audio, 2)
	s.Register(HighScores, 3)

	names := s.Names()
	want := []string{Audio, HighScores, Settings}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() = %v, expected %v", names, want)
		}
	}
}
