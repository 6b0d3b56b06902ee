package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/torna-mcp/internal/config"
	chiTransport "github.com/kailas-cloud/torna-mcp/internal/transport/chi"
	mcpTransport "github.com/kailas-cloud/torna-mcp/internal/transport/mcp"
	"github.com/kailas-cloud/torna-mcp/internal/version"
)

const (
	envFlagName = "env"
	envFlagDesc = "configuration environment (local, dev, prod)"

	defaultCheckKeyword = "user"
	checkListLimit      = 5
)

func newRootCommand() *cobra.Command {
	var env string

	root := &cobra.Command{
		Use:          "torna-mcp",
		Short:        "Serve Torna API documentation over HTTP and MCP",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&env, envFlagName, config.GetEnv(), envFlagDesc)

	root.AddCommand(
		newServeCommand(&env),
		newStdioCommand(&env),
		newCheckCommand(&env),
		newVersionCommand(),
	)
	return root
}

func newServeCommand(env *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*env)
			if err != nil {
				return err
			}
			defer a.close()
			return runServe(cmd.Context(), a)
		},
	}
}

func newStdioCommand(env *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Run the MCP tool server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*env)
			if err != nil {
				return err
			}
			defer a.close()

			server := mcpTransport.NewServer(a.docs, a.cfg.MCP.Name, version.Version, a.logger)
			if err := server.Serve(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("mcp server stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}
}

func newCheckCommand(env *string) *cobra.Command {
	var (
		projectID string
		keyword   string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Test connectivity to the Torna platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*env)
			if err != nil {
				return err
			}
			defer a.close()
			return runCheck(cmd.Context(), a.docs, cmd.OutOrStdout(), projectID, keyword)
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "project id (default: torna.project_id)")
	cmd.Flags().StringVar(&keyword, "keyword", defaultCheckKeyword, "keyword for the search step")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "torna-mcp "+version.String())
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	server := chiTransport.NewServer(a.docs, a.health, a.logger, version.Version)

	addr := fmt.Sprintf(":%d", a.cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(a.cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(a.cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(a.cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			a.logger.Error("HTTP server error", zap.Error(err))
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		a.logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("error during shutdown", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}

	a.logger.Info("server stopped gracefully")
	return nil
}
