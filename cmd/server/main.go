package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	padel "github.com/goliatone/go-padel"
	"github.com/goliatone/go-padel/internal/logging"
	"github.com/goliatone/go-padel/pkg/interfaces"
)

var moduleBuilder = buildModule

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runServer(ctx, os.Args[1:]); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func buildModule(configPath string) (*padel.Module, error) {
	cfg, err := padel.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return padel.New(cfg)
}

// runServer serves the API until ctx is cancelled, then drains in-flight
// requests within the configured shutdown timeout.
func runServer(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("padel-server", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a config file (yaml, json or toml); PADEL_* env vars apply on top")
	addr := fs.String("addr", "", "Listen address (defaults to server.address)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(*configPath)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	api, err := module.HTTPServer()
	if err != nil {
		return fmt.Errorf("build http server: %w", err)
	}

	cfg := module.Config().Server
	if *addr != "" {
		cfg.Address = *addr
	}
	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Address, err)
	}

	srv := &http.Server{
		Handler:           api.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	logger := logging.HTTPLogger(module.Container().LoggerProvider())
	return serve(ctx, srv, listener, cfg.ShutdownTimeout, logger)
}

func serve(ctx context.Context, srv *http.Server, listener net.Listener, shutdownTimeout time.Duration, logger interfaces.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http.server.listening", "addr", listener.Addr().String())
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("http.server.shutdown", "timeout", shutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
