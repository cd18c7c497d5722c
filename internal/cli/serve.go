package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablescape/foodweb/pkg/layout"
	"github.com/tablescape/foodweb/pkg/session"
)

// sessionSweepInterval is how often expired in-memory sessions are swept.
const sessionSweepInterval = 15 * time.Minute

// serveCommand creates the serve command for running the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		seed      int64
	)

	cmd := &cobra.Command{
		Use:   "serve [dataset]",
		Short: "Serve the diagram over HTTP",
		Long: `Serve the diagram over HTTP.

Each browser gets its own disclosure state, tracked by a session cookie.
Sessions live in process memory by default; pass --redis to share them
across instances.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := c.resolveSource(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") && c.Config.Server.Addr != "" {
				addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("redis") {
				redisAddr = c.Config.Server.Redis
			}
			if !cmd.Flags().Changed("seed") {
				seed = c.Config.Seed
			}
			return c.runServe(cmd.Context(), source, addr, redisAddr, uint64(seed))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for shared session storage")
	cmd.Flags().Int64Var(&seed, "seed", int64(layout.DefaultSeed), "layout seed for factor scatter")

	return cmd
}

// runServe loads the dataset and runs the server until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, source, addr, redisAddr string, seed uint64) error {
	g, err := c.loadGraph(ctx, source)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", source, err)
	}

	store, cleanup, err := c.newSessionStore(ctx, redisAddr)
	if err != nil {
		return err
	}
	defer cleanup()

	engine := layout.New(c.Config.Frame(), seed)
	srv := NewServer(g, engine, store, c.Logger)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving", "addr", addr)
		printInfo("Serving at %s", displayURL(addr))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newSessionStore picks the session backend and starts the expiry sweeper
// for the in-memory store.
func (c *CLI) newSessionStore(ctx context.Context, redisAddr string) (session.Store, func(), error) {
	if redisAddr != "" {
		store, err := session.NewRedisStore(ctx, redisAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("session store: %w", err)
		}
		c.Logger.Info("using redis session store", "addr", redisAddr)
		return store, func() { _ = store.Close() }, nil
	}

	store := session.NewMemoryStore()
	sweepCtx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				_ = store.Cleanup(sweepCtx)
			}
		}
	}()
	return store, cancel, nil
}

// displayURL turns a listen address into a clickable URL.
func displayURL(addr string) string {
	if addr == "" || addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
