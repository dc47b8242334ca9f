package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/hnx/internal/server"
	"github.com/desertthunder/hnx/internal/session"
	"github.com/desertthunder/hnx/internal/shared"
	"github.com/desertthunder/hnx/internal/web"
	"github.com/urfave/cli/v3"
)

// newRouter wires the page handler behind the standard middleware stack.
func (r *Runner) newRouter(h server.Handler) *server.BasicRouter {
	router := server.NewBasicRouter()
	router.Use(server.Recover(r.logger), server.RequestID(), server.Logging(r.logger))
	router.Handler(h)
	return router
}

func newWebHandler(r *Runner, s *session.Session, secret string) (*web.Handler, error) {
	h, err := web.NewHandler(s, r.newEngine(s), secret, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return h, nil
}

// Serve starts the local page server and blocks until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.Port = port
	}

	s, err := r.openSession()
	if err != nil {
		return err
	}

	h, err := newWebHandler(r, s, cfg.SessionSecret)
	if err != nil {
		return err
	}

	if _, err := s.Bootstrap(ctx); err != nil {
		r.logger.Warn("failed to load stories", "error", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Addr()
	if cmd.Bool("open") {
		go func() {
			if err := shared.OpenBrowser("http://" + addr); err != nil {
				r.logger.Warn("failed to open browser automatically", "error", err)
			}
		}()
	}

	return server.Run(ctx, addr, r.newRouter(h), r.logger)
}
