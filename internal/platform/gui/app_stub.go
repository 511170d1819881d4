//go:build !ebiten

package gui

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brick-arcade/internal/config"
	"github.com/vovakirdan/brick-arcade/internal/core"
)

// Run reports ErrUnavailable: this build has no window support.
func Run(config.BreakoutConfig, core.RuntimeConfig, Services, Options, *log.Logger) error {
	return ErrUnavailable
}
