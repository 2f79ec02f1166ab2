// Package main provides the entry point for redstub-server.
//
// redstub-server exposes an in-memory, Redis-compatible command
// executor over the RESP wire protocol. It is meant as a drop-in test
// double for client code that speaks the Redis dialect.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/barthorre/redstub-go/internal/core/command"
	"github.com/barthorre/redstub-go/internal/infra/buildinfo"
	"github.com/barthorre/redstub-go/internal/infra/shutdown"
	"github.com/barthorre/redstub-go/internal/server/config"
	"github.com/barthorre/redstub-go/internal/server/respserver"
	"github.com/barthorre/redstub-go/internal/telemetry/logger"
	"github.com/barthorre/redstub-go/internal/telemetry/metric"
)

func main() {
	app := &cli.App{
		Name:    "redstub-server",
		Usage:   "in-memory Redis-compatible test double",
		Version: buildinfo.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to YAML configuration file",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "RESP listener address (overrides config)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (overrides config)",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "seed for the random-pick stream",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	configFile := c.String("config")
	cfg, err := config.NewLoader(config.WithConfigFile(configFile)).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if level := c.String("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if seed := c.Uint64("seed"); seed != 0 {
		cfg.Executor.Seed = seed
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	logger.SetDefault(log)

	log.Info("starting redstub-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"addr", cfg.Server.Addr)

	var execOpts []command.Option
	execOpts = append(execOpts, command.WithLogger(log))
	switch {
	case cfg.Executor.Seed != 0:
		execOpts = append(execOpts, command.WithSeed(cfg.Executor.Seed))
	case cfg.Executor.SeedPhrase != "":
		execOpts = append(execOpts, command.WithSeedPhrase(cfg.Executor.SeedPhrase))
	}
	exec := command.New(execOpts...)

	metrics := metric.NewRegistry()
	srv, err := respserver.New(exec, cfg, log, metrics)
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout, log)
	shutdownHandler.OnShutdown("resp server", func(ctx context.Context) error {
		return srv.Shutdown(ctx)
	})

	if cfg.Server.MetricsAddr != "" {
		metricsSrv := &http.Server{
			Addr:    cfg.Server.MetricsAddr,
			Handler: metrics.Handler(),
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server failed", "error", err)
			}
		}()
		shutdownHandler.OnShutdown("metrics server", func(ctx context.Context) error {
			return metricsSrv.Shutdown(ctx)
		})
	}

	if configFile != "" {
		watcher, err := config.NewWatcher(configFile, log)
		if err != nil {
			log.Warn("config watcher unavailable", "error", err)
		} else {
			go watcher.Start()
			shutdownHandler.OnShutdown("config watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- shutdownHandler.Wait()
	}()

	select {
	case err := <-errCh:
		return err
	case err := <-waitCh:
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info("redstub-server stopped")
		return nil
	}
}
