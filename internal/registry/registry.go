// Package registry provides the service locator the game core uses to find
// its optional collaborators. Frontends register what they have; the core
// looks services up by name and skips what is missing.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Well-known service names.
const (
	Settings   = "settings"
	HighScores = "highscores"
	Audio      = "audio"
	Display    = "display"
)

// Locator resolves a service by name.
type Locator interface {
	Lookup(name string) (any, bool)
}

// Services is a concurrency-safe Locator.
type Services struct {
	mu       sync.RWMutex
	services map[string]any
}

// New creates an empty service set.
func New() *Services {
	return &Services{services: make(map[string]any)}
}

// Register adds a service. Panics if the name is taken or svc is nil,
// both of which are wiring bugs.
func (s *Services) Register(name string, svc any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if svc == nil {
		panic(fmt.Sprintf("registry: nil service %q", name))
	}
	if _, exists := s.services[name]; exists {
		panic(fmt.Sprintf("registry: service %q already registered", name))
	}
	s.services[name] = svc
}

// Lookup returns the service registered under name.
func (s *Services) Lookup(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, ok := s.services[name]
	return svc, ok
}

// Names returns the registered service names, sorted.
func (s *Services) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.services))
	for name := range s.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get looks up name and asserts it to T. A missing or mistyped service
// yields the zero value and false.
func Get[T any](loc Locator, name string) (T, bool) {
	var zero T
	if loc == nil {
		return zero, false
	}
	svc, ok := loc.Lookup(name)
	if !ok {
		return zero, false
	}
	typed, ok := svc.(T)
	return typed, ok
}
