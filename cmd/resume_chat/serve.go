package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-chat/internal/chat"
	"github.com/jonathan/resume-chat/internal/config"
	"github.com/jonathan/resume-chat/internal/observability"
	"github.com/jonathan/resume-chat/internal/server"
	"github.com/jonathan/resume-chat/internal/server/ratelimit"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the chat session, template preview, PDF export and payment endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := buildServer(ctx, cfg, jwtConfig, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer cleanup()

	return srv.Run(ctx)
}

// buildServer wires the assistant, session store, payments and exporter into the API server.
func buildServer(ctx context.Context, cfg *config.Config, jwtConfig *config.JWTConfig, logger *logrus.Logger) (*server.Server, func(), error) {
	sessions := chat.NewStore(newAssistant(cfg, logger), observability.Component(logger, "chat"))

	var service server.Payments
	cleanup := func() {}
	if cfg.Payments.Required {
		store, closeStore, err := newPaymentStore(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		cleanup = closeStore
		service = newPaymentService(store, cfg, logger)
	}

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		RequirePayment: cfg.Payments.Required,
		CORSOrigins:    cfg.CORSOrigins,
		ExportTimeout:  cfg.Export.Timeout,
		RateLimit: ratelimit.NewConfig(ratelimit.Settings{
			Enabled:       cfg.RateLimit.Enabled,
			DefaultLimit:  cfg.RateLimit.DefaultLimit,
			DefaultWindow: cfg.RateLimit.DefaultWindow,
			Whitelist:     cfg.RateLimit.Whitelist,
			Blacklist:     cfg.RateLimit.Blacklist,
		}),
	}, server.Deps{
		Sessions: sessions,
		Payments: service,
		Exporter: newExporter(cfg, logger),
		Tokens:   server.NewJWTService(jwtConfig).AsTokenValidator(),
		Logger:   observability.Component(logger, "server"),
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return srv, cleanup, nil
}
