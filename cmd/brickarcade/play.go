package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brick-arcade/internal/audio"
	"github.com/vovakirdan/brick-arcade/internal/config"
	"github.com/vovakirdan/brick-arcade/internal/platform/tui"
	"github.com/vovakirdan/brick-arcade/internal/settings"
	"github.com/vovakirdan/brick-arcade/internal/storage"
)

var (
	flagPlayers    int
	flagDifficulty string
	flagOwned      bool
	flagMute       bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start a local game in the terminal.

Controls:
  A/D or Left/Right  - Move paddle (player one)
  Space              - Serve / release a caught ball
  C                  - Catch
  J/L, I, O          - Player two move, serve, catch
  Enter/Esc          - Menu select / back
  P                  - Pause
  ?                  - Toggle help
  Ctrl+S             - Save a PNG screenshot
  Ctrl+C             - Quit

Difficulty options:
  casual, beginner, easy, normal, hard, expert, extreme (or 0-6)

--players, --difficulty and --owned are saved to the settings file
like a change made in the settings menu.

Examples:
  brickarcade play
  brickarcade play --players 2 --owned
  brickarcade play --difficulty extreme --seed 42
  brickarcade play --config ./my-breakout.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagPlayers, "players", 0, "Number of local players (1-4)")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty: casual, beginner, easy, normal, hard, expert, extreme")
	playCmd.Flags().BoolVar(&flagOwned, "owned", false, "Give each player their own bricks")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound for this run")
}

func runPlay(cmd *cobra.Command, _ []string) {
	if err := playTerminal(cmd); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

func playTerminal(cmd *cobra.Command) error {
	if !isTerminal() {
		return errors.New("play needs an interactive terminal; try 'brickarcade serve' for remote play")
	}
	l, closeLog := fileLogger()
	defer closeLog()

	cfg := loadConfig()
	mgr := openSettings(l)
	if err := applyPlayOverrides(cmd, mgr); err != nil {
		return err
	}

	var svc tui.Services
	svc.Settings = mgr

	if store := openStore(l); store != nil {
		defer store.Close()
		svc.Scores = storage.NewLeaderboard(store, cfg.Gameplay.HighScoreSlots)
	}

	if !flagMute {
		player := audio.New(audio.WithSettings(mgr), audio.WithLogger(l))
		player.Start()
		defer player.Close()
		if !player.Disabled() {
			svc.Audio = player
		}
	}

	l.Info("starting local game", "players", mgr.Current().Gameplay.Players, "seed", flagSeed)
	return tui.Run(cfg, runtimeConfig(), svc, l)
}

// applyPlayOverrides commits the flags the user set into the settings.
func applyPlayOverrides(cmd *cobra.Command, mgr *settings.Manager) error {
	flags := cmd.Flags()
	changed := false

	if flags.Changed("players") {
		if flagPlayers < 1 || flagPlayers > 4 {
			return fmt.Errorf("--players must be between 1 and 4, got %d", flagPlayers)
		}
		mgr.Set(func(s *settings.Settings) { s.Gameplay.Players = flagPlayers })
		changed = true
	}
	if flags.Changed("difficulty") {
		d, err := config.ParseDifficulty(flagDifficulty)
		if err != nil {
			return err
		}
		mgr.Set(func(s *settings.Settings) { s.Gameplay.Difficulty = int(d) })
		changed = true
	}
	if flags.Changed("owned") {
		mgr.Set(func(s *settings.Settings) { s.Gameplay.OwnedBricks = flagOwned })
		changed = true
	}

	if !changed {
		return nil
	}
	if err := mgr.Apply(); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
