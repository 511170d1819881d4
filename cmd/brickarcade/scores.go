package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brick-arcade/internal/platform/tui"
	"github.com/vovakirdan/brick-arcade/internal/storage"
)

var (
	flagScoreLimit int
	flagClearYes   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Browse the leaderboard and co-op history",
	Long: `Open the interactive scoreboard. Tab switches between the
leaderboard and the co-op room history.

Subcommands print plain text for scripts. When stdout is not a
terminal the leaderboard is printed instead.

Examples:
  brickarcade scores
  brickarcade scores list --limit 20
  brickarcade scores rooms
  brickarcade scores stats
  brickarcade scores clear --yes`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		store := mustOpenStore()
		defer store.Close()
		if !isTerminal() {
			scores, err := store.TopScores(10)
			if err != nil {
				fail("retrieving scores: %v", err)
			}
			printScores(os.Stdout, scores)
			return
		}
		if err := tui.RunScoreboard(store); err != nil {
			fail("%v", err)
		}
	},
}

var scoresListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the leaderboard",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		store := mustOpenStore()
		defer store.Close()
		scores, err := store.TopScores(flagScoreLimit)
		if err != nil {
			fail("retrieving scores: %v", err)
		}
		printScores(os.Stdout, scores)
	},
}

var scoresRoomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "Print recent co-op room games",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		store := mustOpenStore()
		defer store.Close()
		runs, err := store.RecentRoomRuns(flagScoreLimit)
		if err != nil {
			fail("retrieving room history: %v", err)
		}
		printRoomRuns(os.Stdout, runs)
	},
}

var scoresStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print leaderboard totals",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		store := mustOpenStore()
		defer store.Close()
		st, err := store.Stats()
		if err != nil {
			fail("%v", err)
		}
		printStats(os.Stdout, st)
	},
}

var scoresClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every leaderboard entry",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		if !flagClearYes {
			fail("refusing to clear the leaderboard without --yes")
		}
		store := mustOpenStore()
		defer store.Close()
		if err := store.ClearScores(); err != nil {
			fail("%v", err)
		}
		fmt.Println("Leaderboard cleared.")
	},
}

func init() {
	for _, c := range []*cobra.Command{scoresListCmd, scoresRoomsCmd} {
		c.Flags().IntVarP(&flagScoreLimit, "limit", "n", 10, "Number of rows to print")
	}
	scoresClearCmd.Flags().BoolVar(&flagClearYes, "yes", false, "Confirm deletion")

	scoresCmd.AddCommand(scoresListCmd, scoresRoomsCmd, scoresStatsCmd, scoresClearCmd)
}

func mustOpenStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening scores database: %v", err)
	}
	return store
}

func printScores(w io.Writer, scores []storage.ScoreRecord) {
	fmt.Fprintln(w, "High Scores - Brick Arcade")
	fmt.Fprintln(w)

	if len(scores) == 0 {
		fmt.Fprintln(w, "No scores recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Play 'brickarcade play' to set the first high score!")
		return
	}

	fmt.Fprintf(w, "  %-4s  %-10s  %-8s  %-5s  %-7s  %-10s  %s\n", "Rank", "Name", "Score", "Level", "Players", "Difficulty", "Date")
	fmt.Fprintf(w, "  %-4s  %-10s  %-8s  %-5s  %-7s  %-10s  %s\n", "----", "----", "-----", "-----", "-------", "----------", "----")
	for i, s := range scores {
		fmt.Fprintf(w, "  %-4d  %-10s  %-8d  %-5d  %-7d  %-10s  %s\n",
			i+1, s.Name, s.Score, s.Level+1, s.Players, s.Difficulty, s.At.Local().Format("2006-01-02 15:04"))
	}
}

func printRoomRuns(w io.Writer, runs []storage.RoomRun) {
	fmt.Fprintln(w, "Co-op Rooms - Brick Arcade")
	fmt.Fprintln(w)

	if len(runs) == 0 {
		fmt.Fprintln(w, "No co-op games recorded yet.")
		return
	}

	fmt.Fprintf(w, "  %-6s  %-7s  %-10s  %-5s  %-10s  %-9s  %-8s  %s\n", "Room", "Players", "Team score", "Level", "Difficulty", "Ended", "Time", "Date")
	fmt.Fprintf(w, "  %-6s  %-7s  %-10s  %-5s  %-10s  %-9s  %-8s  %s\n", "----", "-------", "----------", "-----", "----------", "-----", "----", "----")
	for _, r := range runs {
		fmt.Fprintf(w, "  %-6s  %-7d  %-10d  %-5d  %-10s  %-9s  %-8s  %s\n",
			r.Code, r.Players, r.TeamScore, r.Level+1, r.Difficulty, r.EndReason,
			time.Duration(r.Duration)*time.Second, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}

func printStats(w io.Writer, st storage.Stats) {
	fmt.Fprintf(w, "Games recorded: %d\n", st.TotalGames)
	if st.TotalGames == 0 {
		return
	}
	fmt.Fprintf(w, "Best score:     %d\n", st.HighScore)
	fmt.Fprintf(w, "Average score:  %.0f\n", st.AverageScore)
	fmt.Fprintf(w, "Best level:     %d\n", st.BestLevel+1)
	if !st.LastPlayed.IsZero() {
		fmt.Fprintf(w, "Last played:    %s\n", st.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
}
