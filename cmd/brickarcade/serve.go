package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brick-arcade/internal/api"
	"github.com/vovakirdan/brick-arcade/internal/multiplayer"
	"github.com/vovakirdan/brick-arcade/internal/platform/tui"
	"github.com/vovakirdan/brick-arcade/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagRoomIdle    int
	flagHTTPAddr    string
	flagCORSOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host co-op rooms over SSH",
	Long: `Start an SSH server where every connection gets a lobby: play solo,
create a co-op room, or join one with its code.

All sessions share the server's leaderboard, and every finished room
game is recorded in the co-op history.

With --http the server also exposes a JSON API with the leaderboard,
level previews, open rooms and a WebSocket spectator stream.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.brickarcade/host_key

Examples:
  brickarcade serve                           # Listen on :23234 with auto-generated key
  brickarcade serve --ssh :2222               # Listen on port 2222
  brickarcade serve --http :8080              # Also serve the HTTP API
  brickarcade serve --host-key ./my_host_key  # Use specific host key
  brickarcade serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().IntVar(&flagRoomIdle, "room-idle", 10, "Minutes an empty room stays open (0 = until shutdown)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP API address (empty = disabled)")
	serveCmd.Flags().StringSliceVar(&flagCORSOrigins, "cors-origin", nil, "Allowed browser origins for the HTTP API")
}

func runServe(_ *cobra.Command, _ []string) {
	if err := serve(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func serve() error {
	l := newLogger(os.Stderr, "brickarcade")
	cfg := loadConfig()
	mgr := openSettings(l)
	rt := runtimeConfig()

	hubCfg := multiplayer.DefaultHubConfig()
	hubCfg.Game = cfg
	hubCfg.Settings = mgr.Current()
	hubCfg.Room.TickRate = rt.TickRate
	hubCfg.Room.IdleTimeout = time.Duration(flagRoomIdle) * time.Minute
	hubCfg.Logger = l.WithPrefix("rooms")

	deps := tui.SessionDeps{
		Game:     cfg,
		Runtime:  rt,
		Settings: mgr.Current(),
		Logger:   l.WithPrefix("ssh"),
	}

	store := openStore(l)
	if store != nil {
		defer store.Close()
		board := storage.NewLeaderboard(store, cfg.Gameplay.HighScoreSlots)
		hubCfg.Scores = board
		hubCfg.Saver = store
		deps.Scores = board
	}

	hub := multiplayer.NewHub(hubCfg)
	defer hub.Shutdown()
	deps.Hub = hub

	sshCfg := tui.DefaultSSHServerConfig()
	sshCfg.Address = flagSSHAddr
	sshCfg.HostKeyPath = flagHostKey
	sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute

	sshServer, err := tui.NewSSHServer(sshCfg, deps)
	if err != nil {
		return err
	}

	var httpServer *api.Server
	if flagHTTPAddr != "" {
		rc := api.RouterConfig{
			Rooms:       hub,
			Game:        cfg,
			CORSOrigins: flagCORSOrigins,
			Logger:      l.WithPrefix("http"),
		}
		if store != nil {
			rc.Scores = store
		}
		srvCfg := api.DefaultServerConfig()
		srvCfg.Address = flagHTTPAddr
		httpServer = api.NewServer(srvCfg, rc)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting brickarcade SSH server on %s\n", sshCfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(sshCfg.Address))
	if httpServer != nil {
		fmt.Printf("HTTP API on %s\n", flagHTTPAddr)
	}
	fmt.Println("Press Ctrl+C to stop")

	return serveAll(ctx, stop, sshServer, httpServer)
}

type listener interface {
	ListenAndServe(ctx context.Context) error
}

// serveAll runs every server until ctx is done or one of them fails, then
// cancels the rest and waits for them.
func serveAll(ctx context.Context, cancel context.CancelFunc, sshSrv *tui.SSHServer, httpSrv *api.Server) error {
	servers := []listener{sshSrv}
	if httpSrv != nil {
		servers = append(servers, httpSrv)
	}

	errc := make(chan error, len(servers))
	for _, s := range servers {
		go func() { errc <- s.ListenAndServe(ctx) }()
	}

	var first error
	for range servers {
		err := <-errc
		if err != nil && !errors.Is(err, context.Canceled) && first == nil {
			first = err
		}
		cancel()
	}
	return first
}

func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
