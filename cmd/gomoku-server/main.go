// Command gomoku-server runs the WebSocket/JSON Gomoku engine server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/meridion/gomoku-engine/internal/config"
	"github.com/meridion/gomoku-engine/internal/gamelog"
	"github.com/meridion/gomoku-engine/internal/transport"
)

const shutdownTimeout = 5 * time.Second

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gomoku-server",
		Short: "Serves the Gomoku engine over a WebSocket/JSON protocol",
		RunE:  runServer,
	}
	config.BindFlags(cmd.Flags())
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("gomoku-server (development build)")
		},
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("main: invalid log level: %w", err)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		Level(level).
		With().
		Timestamp().
		Logger()

	searchLog, err := gamelog.Open(cfg.GameLogPath, log)
	if err != nil {
		return fmt.Errorf("main: opening game log: %w", err)
	}
	defer searchLog.Close()

	server := transport.NewServer(log, searchLog, cfg.SearchDepth)

	mux := http.NewServeMux()
	mux.Handle("/ws", server)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("main: server failed: %w", err)
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(ctx)
}
