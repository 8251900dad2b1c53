package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"sushidraft/cmd/sushidraft/shared"
	"sushidraft/internal/game"
	"sushidraft/internal/randutil"
	"sushidraft/internal/server"
)

// ServerCmd contains server configuration. Flags override the config file.
type ServerCmd struct {
	Addr             string `kong:"help='Listen address (overrides config)'"`
	Config           string `kong:"default='sushidraft.hcl',help='Path to HCL config file'"`
	Debug            bool   `kong:"help='Enable debug logging'"`
	CountdownSeconds int    `kong:"help='Per-turn countdown in seconds (overrides config)'"`
	Seed             *int64 `kong:"help='Deterministic RNG seed (optional)'"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.CountdownSeconds > 0 {
		cfg.Game.CountdownSeconds = c.CountdownSeconds
	}
	if c.Seed != nil {
		cfg.Game.Seed = c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := shared.SetupLogger(c.Debug)
	if !c.Debug {
		logger.SetLevel(shared.ParseLevel(cfg.Server.LogLevel))
	}

	var seed int64
	if cfg.Game.Seed != nil {
		seed = *cfg.Game.Seed
		logger.Info("Using deterministic seed", "seed", seed)
	} else {
		seed = time.Now().UnixNano()
	}
	rng := randutil.New(seed)

	session := game.NewSession(game.Config{
		MinPlayers:       cfg.Game.MinPlayers,
		MaxPlayers:       cfg.Game.MaxPlayers,
		CountdownSeconds: cfg.Game.CountdownSeconds,
	}, quartz.NewReal(), rng, logger)

	addr := cfg.ListenAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	srv := server.NewServer(logger)
	service := server.NewGameService(session, srv, logger)
	srv.SetGameService(service)
	srv.Run()

	httpSrv := &http.Server{Addr: addr, Handler: srv.Handler()}

	ctx := shared.SetupSignalHandler(logger)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Listening", "addr", addr, "countdown", cfg.Game.CountdownSeconds)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Stop()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
