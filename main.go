// Command evolve runs the Evolution Merge Game.
//
// Subcommands:
//  1. "serve" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "play" – plays a round in the terminal, by hand or with the bot
//  4. "leaderboard" – shows or resets the leaderboards
//  5. "validate" – checks a catalog directory, optionally exporting the built-in catalog first
//
// Flags control host/port, debug logging and optional ngrok tunneling for
// easy external access during development. Game settings come from EVOLVE_*
// environment variables, optionally loaded from a .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/evolution-merge-game/api"
	"github.com/wricardo/evolution-merge-game/bot"
	"github.com/wricardo/evolution-merge-game/game/config"
	"github.com/wricardo/evolution-merge-game/game/leaderboard"
	"github.com/wricardo/evolution-merge-game/game/service"
	"github.com/wricardo/evolution-merge-game/game/session"
	"github.com/wricardo/evolution-merge-game/storage"
	"github.com/wricardo/evolution-merge-game/storage/file"
	"github.com/wricardo/evolution-merge-game/storage/memory"
	"github.com/wricardo/evolution-merge-game/storage/redis"
	"github.com/wricardo/evolution-merge-game/storage/sqlite"
	"github.com/wricardo/evolution-merge-game/terminal"
	"github.com/wricardo/evolution-merge-game/transport/mcp"
	"github.com/wricardo/evolution-merge-game/transport/websocket"
	"github.com/wricardo/evolution-merge-game/validate"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Evolution Merge Game Server"
)

// main loads .env and runs the command tree
func main() {
	envErr := godotenv.Load()

	cmd := newCommand(envErr)
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runtime carries what the Before hook prepares for every subcommand
type runtime struct {
	envErr   error
	logger   *zap.Logger
	settings config.Settings
}

func newCommand(envErr error) *cli.Command {
	rt := &runtime{envErr: envErr}

	serve := &cli.Command{
		Name:  "serve",
		Usage: "Run HTTP server with API, WebSocket, and MCP endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Action: rt.runServe,
	}

	return &cli.Command{
		Name:    "evolve",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging", Sources: cli.EnvVars("EVOLVE_DEBUG")},
		},
		Before: rt.before,
		After:  rt.after,
		Action: rt.runServe,
		Commands: []*cli.Command{
			serve,
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "api-url", Value: "http://localhost:8080", Usage: "External API to reuse when reachable"},
				},
				Action: rt.runStdioMCP,
			},
			{
				Name:  "play",
				Usage: "Play a round in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "player", Usage: "Player name (required unless resuming)"},
					&cli.StringFlag{Name: "difficulty", Value: "easy", Usage: "easy, medium or hard"},
					&cli.BoolFlag{Name: "resume", Usage: "Continue the saved round"},
					&cli.BoolFlag{Name: "auto", Usage: "Let the bot play"},
					&cli.DurationFlag{Name: "move-delay", Value: bot.DefaultMoveDelay, Usage: "Pause between bot moves"},
				},
				Action: rt.runPlay,
			},
			{
				Name:  "leaderboard",
				Usage: "Show or reset the leaderboards",
				Commands: []*cli.Command{
					{
						Name:      "show",
						Usage:     "Show one difficulty or all of them",
						ArgsUsage: "[difficulty]",
						Action:    rt.runLeaderboardShow,
					},
					{
						Name:   "reset",
						Usage:  "Delete every entry",
						Action: rt.runLeaderboardReset,
					},
				},
			},
			{
				Name:      "validate",
				Usage:     "Validate a catalog directory",
				ArgsUsage: "[dir]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "export-defaults", Usage: "Write the built-in catalog to dir before validating"},
				},
				Action: rt.runValidate,
			},
		},
	}
}

// before builds the logger and loads settings
func (rt *runtime) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error
	if cmd.Bool("debug") {
		rt.logger, err = zap.NewDevelopment()
	} else {
		rt.logger, err = zap.NewProduction()
	}
	if err != nil {
		return ctx, fmt.Errorf("failed to create logger: %w", err)
	}

	// Only log if it's not a "file not found" error
	if rt.envErr == nil {
		rt.logger.Info("Loaded environment variables from .env file")
	} else if !errors.Is(rt.envErr, os.ErrNotExist) {
		rt.logger.Warn("Error loading .env file", zap.Error(rt.envErr))
	}

	rt.settings, err = config.LoadSettings()
	if err != nil {
		return ctx, err
	}
	return ctx, nil
}

func (rt *runtime) after(ctx context.Context, cmd *cli.Command) error {
	if rt.logger != nil {
		_ = rt.logger.Sync()
	}
	return nil
}

// services bundles the wired game stack
type services struct {
	game        service.GameService
	configs     *config.Manager
	leaderboard *leaderboard.Manager
	store       storage.Store
}

// Close saves the active round and releases the store
func (s *services) Close(ctx context.Context) error {
	err := s.game.Close(ctx)
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	return err
}

// initializeServices wires the catalog, store, persistence, leaderboard and game service
func initializeServices(ctx context.Context, settings config.Settings, logger *zap.Logger) (*services, error) {
	configs, err := config.NewManager(settings.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	store, err := openStore(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	persistence := session.NewStorePersistence(store, configs.Catalog(), logger)
	sessions := session.NewManager(persistence,
		session.WithAutosaveInterval(settings.AutosaveInterval),
		session.WithLogger(logger))
	board := leaderboard.NewManager(store, leaderboard.WithLogger(logger))

	game := service.NewGameService(configs, sessions, board,
		service.WithLogger(logger),
		service.WithTimings(service.Timings{
			Tick:            settings.TickInterval,
			RejectDelay:     settings.RejectDelay,
			AdvanceDelay:    settings.AdvanceDelay,
			DismissDelay:    settings.DismissDelay,
			NotificationTTL: settings.NotificationTTL,
		}),
		service.WithLeaderboardPolicy(settings.LeaderboardPolicy),
		service.WithPlacementWhileLocked(settings.AllowPlaceWhileLocked),
	)

	return &services{
		game:        game,
		configs:     configs,
		leaderboard: board,
		store:       store,
	}, nil
}

// openStore opens the backend selected by EVOLVE_STORE
func openStore(ctx context.Context, settings config.Settings) (storage.Store, error) {
	kind, err := storage.ParseKind(settings.Store)
	if err != nil {
		return nil, err
	}

	var store storage.Store
	switch kind {
	case storage.KindSQLite:
		if dir := filepath.Dir(settings.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
		store, err = sqlite.Open(settings.SQLitePath)
	case storage.KindRedis:
		store, err = redis.Open(ctx, settings.RedisURL, redis.DefaultPrefix)
	case storage.KindMemory:
		store = memory.New()
	default:
		store, err = file.New(settings.DataDir)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// newMCPHandler serves MCP JSON-RPC messages over HTTP POST
func newMCPHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// newRouter combines the API server with the /mcp endpoint
func newRouter(apiServer *api.Server, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", newMCPHandler(mcpClient))
	return mainRouter
}

// runServe starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled (via flag or environment), it also provisions a public tunnel.
func (rt *runtime) runServe(ctx context.Context, cmd *cli.Command) error {
	logger := rt.logger
	logger.Info("Starting server", zap.String("app", AppName), zap.String("version", Version))

	svcs, err := initializeServices(ctx, rt.settings, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)
	unsubscribe := svcs.game.Subscribe(hub.Publish)
	defer unsubscribe()

	apiServer := api.NewServer(svcs.game, hub, logger)

	host, port := cmd.String("host"), cmd.Int("port")
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = 8080
	}
	addr := net.JoinHostPort(host, fmt.Sprint(port))
	mcpClient := mcp.NewClient("http://" + addr)
	mainRouter := newRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Info("HTTP server listening",
			zap.String("addr", addr),
			zap.String("api", fmt.Sprintf("http://%s/api", addr)),
			zap.String("websocket", fmt.Sprintf("ws://%s/ws", addr)),
			zap.String("mcp", fmt.Sprintf("http://%s/mcp", addr)))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rt.runNgrok(ctx, cmd, mainRouter)
		}()
	}

	select {
	case sig := <-stop:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	case err = <-serveErr:
		logger.Error("Server stopped unexpectedly", zap.Error(err))
	case <-ctx.Done():
	}
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", zap.Error(err))
	}
	if err := svcs.Close(shutdownCtx); err != nil {
		logger.Warn("Failed to close services", zap.Error(err))
	}

	wg.Wait()
	logger.Info("Server stopped")
	return err
}

// runNgrok serves the router through an ngrok tunnel until ctx is cancelled
func (rt *runtime) runNgrok(ctx context.Context, cmd *cli.Command, handler http.Handler) {
	logger := rt.logger

	authToken := cmd.String("ngrok-auth")
	if authToken == "" {
		logger.Warn("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	logger.Info("Starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if domain := cmd.String("ngrok-domain"); domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		logger.Info("Using custom ngrok domain", zap.String("domain", domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Error("Failed to start ngrok tunnel", zap.Error(err))
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warn("Failed to close ngrok tunnel", zap.Error(err))
		}
	}()

	ngrokURL := tun.URL()
	logger.Info("Ngrok tunnel established",
		zap.String("url", ngrokURL),
		zap.String("api", ngrokURL+"/api"),
		zap.String("websocket", ngrokURL+"/ws"),
		zap.String("mcp", ngrokURL+"/mcp"))

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		logger.Warn("Ngrok server error", zap.Error(err))
	}
	logger.Info("Ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server.
// It tries to reuse an external API at --api-url; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func (rt *runtime) runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	logger := rt.logger
	externalURL := cmd.String("api-url")

	baseURL := externalURL
	if !apiAvailable(externalURL) {
		logger.Info("No external API server found, starting internal HTTP server", zap.String("checked", externalURL))

		svcs, err := initializeServices(ctx, rt.settings, logger)
		if err != nil {
			return err
		}
		defer svcs.Close(context.Background())

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		httpServer := &http.Server{Handler: api.NewServer(svcs.game, nil, logger)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				logger.Warn("Internal HTTP server error", zap.Error(err))
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
	}

	logger.Info("MCP stdio server ready", zap.String("api", baseURL))
	return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
}

// apiAvailable probes the health endpoint of an API server
func apiAvailable(baseURL string) bool {
	if baseURL == "" {
		return false
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// runPlay starts or resumes a round and hands it to the terminal controller or the bot
func (rt *runtime) runPlay(ctx context.Context, cmd *cli.Command) error {
	// Keep the terminal clean; warnings still surface
	logger := rt.logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel))

	svcs, err := initializeServices(ctx, rt.settings, logger)
	if err != nil {
		return err
	}
	defer svcs.Close(context.Background())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.Bool("resume") {
		_, err = svcs.game.ResumeRound(ctx)
	} else {
		_, err = svcs.game.StartRound(ctx, cmd.String("player"), cmd.String("difficulty"))
	}
	if err != nil {
		return err
	}

	if !cmd.Bool("auto") {
		return terminal.NewController(svcs.game, os.Stdin, os.Stdout).Run(ctx)
	}

	renderer := terminal.NewRenderer()
	b := bot.New(svcs.game, bot.NewStrategy(svcs.configs.Catalog()),
		bot.WithLogger(rt.logger),
		bot.WithDelays(cmd.Duration("move-delay"), bot.DefaultSettleDelay))

	round, err := b.Play(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if round != nil {
		fmt.Println(renderer.Round(round))
	}
	return err
}

// runLeaderboardShow prints one or all leaderboards
func (rt *runtime) runLeaderboardShow(ctx context.Context, cmd *cli.Command) error {
	svcs, err := initializeServices(ctx, rt.settings, rt.logger)
	if err != nil {
		return err
	}
	defer svcs.Close(ctx)

	var boards []*service.LeaderboardInfo
	if d := cmd.Args().First(); d != "" {
		board, err := svcs.game.GetLeaderboard(ctx, d)
		if err != nil {
			return err
		}
		boards = append(boards, board)
	} else if boards, err = svcs.game.GetLeaderboards(ctx); err != nil {
		return err
	}

	fmt.Println(terminal.NewRenderer().Leaderboards(boards))
	return nil
}

func (rt *runtime) runLeaderboardReset(ctx context.Context, cmd *cli.Command) error {
	svcs, err := initializeServices(ctx, rt.settings, rt.logger)
	if err != nil {
		return err
	}
	defer svcs.Close(ctx)

	if err := svcs.game.ResetLeaderboard(ctx); err != nil {
		return err
	}
	fmt.Println("Leaderboard reset")
	return nil
}

// runValidate validates a catalog directory and exits non-zero on errors
func (rt *runtime) runValidate(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.Args().First()
	if dir == "" {
		dir = rt.settings.ConfigDir
	}
	if dir == "" {
		return fmt.Errorf("no catalog directory given (argument or EVOLVE_CONFIG_DIR)")
	}

	if cmd.Bool("export-defaults") {
		catalog, err := config.DefaultCatalog()
		if err != nil {
			return err
		}
		if err := config.SaveCatalog(dir, catalog); err != nil {
			return err
		}
		rt.logger.Info("Exported built-in catalog", zap.String("dir", dir))
	}

	if !validate.Report(os.Stdout, validate.Dir(dir)) {
		return fmt.Errorf("catalog %s has errors", dir)
	}
	return nil
}
