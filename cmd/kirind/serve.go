package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	kirinconfig "github.com/kirinldap/kirin/internal/config"
	"github.com/kirinldap/kirin/internal/engine"
	"github.com/kirinldap/kirin/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the LDAP listener",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, _, err := kirinconfig.Load(configFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: logging.ParseFormat(cfg.Logging.Format),
	})

	engineConfig := &engine.Config{
		HandlerFactory: newDefaultHandlerFactory(),
		NamingContexts: cfg.Server.NamingContexts,
		Logger:         logger,
		Stats:          engine.NewStats(),
	}

	var tlsConfig *tls.Config
	if cfg.Server.TLSCertFile != "" && cfg.Server.TLSKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("loading TLS material: %w", err)
		}
		tlsConfig = &tls.Config{Certificates: []tls.Certificate{cert}}
	}

	acceptor := &engine.TCPAcceptor{
		Addr:      cfg.Server.Address,
		TLSConfig: tlsConfig,
		Config:    engineConfig,
		Logger:    logger,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("listening", "address", cfg.Server.Address)
	errCh := make(chan error, 1)
	go func() { errCh <- acceptor.Serve(ctx) }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("accept loop: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
		return acceptor.Shutdown(context.Background())
	}
}
