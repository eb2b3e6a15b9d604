package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MuhammadNoman15/kyle-automation/internal/di"
	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"
	"github.com/MuhammadNoman15/kyle-automation/internal/infrastructure/config"
	"github.com/MuhammadNoman15/kyle-automation/internal/infrastructure/env"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "intake",
		Short:         "Create jobs on the intake web form from JSON payloads",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newFillCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer()
			if err != nil {
				return err
			}
			defer container.Close()

			if addr == "" {
				addr = container.Config.HTTPAddr
			}
			return serve(cmd.Context(), container, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from HTTP_ADDR)")
	return cmd
}

func newFillCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Run one intake job from a JSON payload file and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readPayload(file)
			if err != nil {
				return err
			}

			container, err := buildContainer()
			if err != nil {
				return err
			}
			defer container.Close()

			payload, err := container.Validator.Validate(map[string]any(doc))
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), container.Config.JobTimeout)
			defer cancel()

			result, runErr := container.Intake.Run(ctx, payload)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			return runErr
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the JSON job payload")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func buildContainer() (*di.Container, error) {
	cfg, err := config.Load(env.NewEnvService())
	if err != nil {
		return nil, err
	}
	return di.NewContainer(cfg)
}

func readPayload(path string) (entity.Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	var payload entity.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid payload %s: %w", path, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("invalid payload %s: expected a JSON object", path)
	}
	return payload, nil
}

func serve(ctx context.Context, container *di.Container, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		container.Logger.Info("HTTP server listening", "addr", addr, "version", Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	container.Logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), container.Config.JobTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
