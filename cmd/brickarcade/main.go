// brickarcade is a brick-breaking arcade game for the terminal, with
// shared co-op rooms over SSH.
//
// Usage:
//
//	brickarcade play         - Play locally in the terminal
//	brickarcade gui          - Play in a window (ebiten builds)
//	brickarcade serve        - Start the SSH lobby and optional HTTP API
//	brickarcade scores       - Browse the leaderboard and co-op history
//	brickarcade level        - Print or render a generated level
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Level seed (0 = use the saved setting)
//	--db <path>         - Set database path (default: ~/.brickarcade/scores.db)
//	--config <path>     - Tuning YAML overriding the built-in defaults
//	--settings <path>   - Player settings file (YAML or TOML)
//	--debug             - Enable the level-jump menu and debug logging
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/brick-arcade/internal/config"
	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/settings"
	"github.com/vovakirdan/brick-arcade/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagSettings string
	flagDebug    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "brickarcade",
	Short: "Brick Arcade - break bricks in your terminal, alone or together",
	Long: `Brick Arcade is a brick-breaking game for the terminal. Levels are
generated from a seed, up to four players can share a paddle row, and
co-op rooms can be hosted over SSH.

Available commands:
  play     - Play locally in the terminal
  gui      - Play in a window (needs a build with -tags ebiten)
  serve    - Host co-op rooms over SSH, with an optional HTTP API
  scores   - Browse the leaderboard and co-op history
  level    - Print or render a generated level

Examples:
  brickarcade play
  brickarcade play --players 2 --difficulty hard
  brickarcade serve --ssh :2222 --http :8080
  brickarcade scores list
  brickarcade level --seed 7 --level 3 --png level3.png`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Level seed (0 = use the saved setting)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.brickarcade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a tuning YAML file")
	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", "", "Path to the settings file (default ~/.brickarcade/settings.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable level jumping and debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(guiCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(levelCmd)
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func runtimeConfig() core.RuntimeConfig {
	rt := core.DefaultConfig()
	if flagFPS > 0 {
		rt.TickRate = flagFPS
	}
	rt.Seed = flagSeed
	rt.Debug = flagDebug
	return rt
}

func loadConfig() config.BreakoutConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	return cfg
}

func settingsPath() string {
	if flagSettings != "" {
		return flagSettings
	}
	return config.UserPath("settings.yaml")
}

// openSettings loads the settings file. A missing home directory falls back
// to in-memory defaults that are never saved.
func openSettings(l *log.Logger) *settings.Manager {
	path := settingsPath()
	if path == "" {
		l.Warn("no home directory; settings will not be saved")
		return settings.NewManager(settings.Defaults())
	}
	mgr, err := settings.Open(path)
	if err != nil {
		l.Warn("settings unreadable, using defaults", "path", path, "err", err)
		return settings.NewManager(settings.Defaults())
	}
	return mgr
}

// openStore opens the score database, or returns nil and logs when it
// cannot. The game still runs without a leaderboard.
func openStore(l *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		l.Warn("scores disabled", "db", flagDBPath, "err", err)
		return nil
	}
	return store
}

func logLevel() log.Level {
	if flagDebug {
		return log.DebugLevel
	}
	return log.InfoLevel
}

func newLogger(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           logLevel(),
	})
}

// fileLogger writes to ~/.brickarcade/brickarcade.log so log lines do not
// tear the full-screen UI. The returned closer is never nil.
func fileLogger() (*log.Logger, func()) {
	path := config.UserPath("brickarcade.log")
	if path == "" {
		return log.New(io.Discard), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	return newLogger(f, "brickarcade"), func() { f.Close() }
}

// isTerminal reports whether stdin and stdout are both a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
