package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brick-arcade/internal/audio"
	"github.com/vovakirdan/brick-arcade/internal/platform/gui"
	"github.com/vovakirdan/brick-arcade/internal/storage"
)

var flagScale float64

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Play in a window",
	Long: `Open the game in a desktop window with mouse, touch and gamepad
support. Requires a binary built with -tags ebiten.

Window keys:
  F11  - Toggle fullscreen
  F12  - Save a PNG screenshot to ~/.brickarcade/screenshots

Examples:
  go build -tags ebiten ./cmd/brickarcade
  brickarcade gui
  brickarcade gui --scale 2`,
	Args: cobra.NoArgs,
	Run:  runGUI,
}

func init() {
	guiCmd.Flags().Float64Var(&flagScale, "scale", 0, "Window pixels per game pixel (0 = settings value)")
}

func runGUI(_ *cobra.Command, _ []string) {
	err := playWindow()
	if errors.Is(err, gui.ErrUnavailable) {
		fmt.Fprintln(os.Stderr, "This binary has no window support.")
		fmt.Fprintln(os.Stderr, "Rebuild with: go build -tags ebiten ./cmd/brickarcade")
		fmt.Fprintln(os.Stderr, "or play in the terminal with: brickarcade play")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

func playWindow() error {
	l := newLogger(os.Stderr, "brickarcade")
	cfg := loadConfig()
	mgr := openSettings(l)

	svc := gui.Services{Settings: mgr}
	if store := openStore(l); store != nil {
		defer store.Close()
		svc.Scores = storage.NewLeaderboard(store, cfg.Gameplay.HighScoreSlots)
	}

	player := audio.New(audio.WithSettings(mgr), audio.WithLogger(l))
	player.Start()
	defer player.Close()
	if !player.Disabled() {
		svc.Audio = player
	}

	opts := gui.DefaultOptions()
	opts.Scale = mgr.Current().Display.Scale
	if flagScale > 0 {
		opts.Scale = flagScale
	}

	return gui.Run(cfg, runtimeConfig(), svc, opts, l)
}
