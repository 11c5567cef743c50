// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/go-core-stack/zerokit-admin-client/pkg/client"
	"github.com/go-core-stack/zerokit-admin-client/pkg/config"
	"github.com/go-core-stack/zerokit-admin-client/pkg/proxy"
)

var flagMethod = &cli.StringFlag{
	Name:  "method",
	Value: http.MethodPost,
	Usage: "HTTP method of the admin call (GET, HEAD, POST, PUT, DELETE, OPTIONS)",
}

var flagPath = &cli.StringFlag{
	Name:     "path",
	Usage:    "Endpoint path with query, e.g. /api/v4/admin/user/init-user-registration",
	Required: true,
}

var flagData = &cli.StringFlag{
	Name:  "data",
	Usage: "Raw request payload; omit to send no body",
}

var flagContentType = &cli.StringFlag{
	Name:  "content-type",
	Value: client.ContentTypeJSON,
	Usage: "Content type of the payload",
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	app := &cli.App{
		Name:           "zkadmin",
		Usage:          "signed calls against the ZeroKit tenant admin API",
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run a local proxy that signs every forwarded request",
				Action: func(cCtx *cli.Context) error {
					cfg, c, err := setup()
					if err != nil {
						return err
					}
					return serve(cCtx.Context, cfg, c)
				},
			},
			{
				Name:  "call",
				Usage: "perform a single signed call and print the response body",
				Flags: []cli.Flag{flagMethod, flagPath, flagData, flagContentType},
				Action: func(cCtx *cli.Context) error {
					_, c, err := setup()
					if err != nil {
						return err
					}

					var payload []byte
					if cCtx.IsSet(flagData.Name) {
						payload = []byte(cCtx.String(flagData.Name))
					}

					body, err := c.Do(cCtx.Context,
						cCtx.String(flagMethod.Name),
						cCtx.String(flagPath.Name),
						payload,
						cCtx.String(flagContentType.Name))
					if err != nil {
						return err
					}

					_, err = fmt.Fprintln(os.Stdout, string(body))
					return err
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("zkadmin failed")
	}
}

// setup loads the environment configuration, applies the log level and
// builds the admin client.
func setup() (config.Config, *client.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load configuration: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log.Logger = log.Level(level)

	c, err := client.NewFromConfig(cfg)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("construct admin client: %w", err)
	}

	return cfg, c, nil
}

func serve(ctx context.Context, cfg config.Config, c *client.Client) error {
	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      proxy.New(c),
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	go func() {
		log.Info().
			Str("listen_addr", cfg.ListenAddr).
			Object("identity", c.Identity()).
			Msg("starting admin signing proxy")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("proxy server exited unexpectedly")
		}
	}()

	waitForShutdown(ctx, server, cfg.GracefulShutdownTimeout)
	return nil
}

func waitForShutdown(ctx context.Context, srv *http.Server, timeout time.Duration) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	log.Info().Msg("shutting down admin signing proxy")

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed; forcing close")
		if closeErr := srv.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("forced close failed")
		}
	}

	log.Info().Msg("proxy stopped")
}
