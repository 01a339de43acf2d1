package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/amaumene/gomovies/internal/constants"
	"github.com/amaumene/gomovies/internal/controller"
	"github.com/amaumene/gomovies/internal/handlers"
	"github.com/amaumene/gomovies/internal/middleware"
	"github.com/amaumene/gomovies/internal/session"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP and WebSocket server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Listen port (overrides PORT)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.String("config"), c.Bool("debug"), c.String("port"))
		},
	}
}

func serve(ctx context.Context, configPath string, debug bool, port string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configPath, debug)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.requireToken(); err != nil {
		return err
	}
	if port == "" {
		port = a.cfg.Port
	}

	a.container.Trending.Load(ctx)

	sessions := session.NewManager(func() *controller.Controller {
		return a.container.NewController(a.controllerOptions())
	}, a.cfg.MaxSessions, a.cfg.SessionTTL.Duration, a.logger)
	defer sessions.Close()

	a.container.Cleanup.Register("sessions", sessions)
	if err := a.container.Cleanup.Start(ctx); err != nil {
		return fmt.Errorf("starting cleanup: %w", err)
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(a.logger), middleware.CORS(), middleware.Gzip())
	handlers.New(a.container, sessions, a.cfg).RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Infof("[App] starting HTTP server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Infof("[App] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
