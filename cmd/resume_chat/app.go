package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/resume-chat/internal/config"
	"github.com/jonathan/resume-chat/internal/db"
	"github.com/jonathan/resume-chat/internal/export"
	"github.com/jonathan/resume-chat/internal/llm"
	"github.com/jonathan/resume-chat/internal/observability"
	"github.com/jonathan/resume-chat/internal/payments"
	"github.com/jonathan/resume-chat/internal/rendering"
	"github.com/jonathan/resume-chat/internal/schemas"
	"github.com/jonathan/resume-chat/internal/types"
)

// loadRuntime reads configuration and builds the logger every command shares.
func loadRuntime() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newAssistant builds the Gemini-backed assistant over the configured key pool.
func newAssistant(cfg *config.Config, logger *logrus.Logger) *llm.Assistant {
	models := llm.DefaultGeminiConfig().
		WithModel(llm.ChatTier, cfg.Gemini.ChatModel).
		WithModel(llm.ExtractionTier, cfg.Gemini.ExtractionModel)

	pool := llm.NewKeyPool(cfg.Gemini.APIKeys)
	if pool.Len() == 0 {
		observability.Component(logger, "llm").Warn("no Gemini API keys configured, the assistant will only report missing credentials")
	}
	return llm.NewAssistant(pool, llm.NewClientFactory(models), llm.WithLogger(observability.Component(logger, "llm")))
}

func newExporter(cfg *config.Config, logger *logrus.Logger) *export.ChromeExporter {
	return export.NewChromeExporter(export.Options{
		ChromePath: cfg.Export.ChromePath,
		Timeout:    cfg.Export.Timeout,
	}, observability.Component(logger, "export"))
}

// newPaymentStore connects to Postgres when DATABASE_URL is set and falls back to an
// in-memory store otherwise. The returned func releases the connection.
func newPaymentStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (payments.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		observability.Component(logger, "payments").Warn("DATABASE_URL not set, payment records are kept in memory")
		return payments.NewMemoryStore(), func() {}, nil
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}
	return database, database.Close, nil
}

func newPaymentService(store payments.Store, cfg *config.Config, logger *logrus.Logger) *payments.Service {
	if !cfg.Payments.GatewayConfigured() {
		observability.Component(logger, "payments").Warn("Instamojo credentials missing, payment creation will fail")
	}
	gateway := payments.NewInstamojoGateway(
		cfg.Payments.InstamojoBaseURL,
		cfg.Payments.InstamojoAPIKey,
		cfg.Payments.InstamojoAuthToken,
		nil,
	)
	return payments.NewService(gateway, store, payments.Config{
		Amount:      cfg.Payments.Amount,
		Purpose:     cfg.Payments.Purpose,
		RedirectURL: cfg.Payments.RedirectURL,
	}, observability.Component(logger, "payments"))
}

// readDocument loads a schema-valid ResumeDocument from a JSON file.
func readDocument(path string) (*types.ResumeDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := schemas.ValidateResumeDocument(string(content)); err != nil {
		return nil, err
	}
	var doc types.ResumeDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return doc.Normalize(), nil
}

// writeDocument renders doc with template id to path. A .pdf path goes through exporter and
// reports the page count; anything else is written as HTML.
func writeDocument(ctx context.Context, exporter export.Exporter, doc *types.ResumeDocument, id types.TemplateID, path string) (int, error) {
	if isPDF(path) {
		return writePDF(ctx, exporter, doc, id, path)
	}
	return 0, writeHTML(doc, id, path)
}

func writeHTML(doc *types.ResumeDocument, id types.TemplateID, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := rendering.Render(f, doc, id); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writePDF(ctx context.Context, exporter export.Exporter, doc *types.ResumeDocument, id types.TemplateID, path string) (int, error) {
	result, _, err := export.Document(ctx, exporter, doc, id)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, result.PDF, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return result.Pages, nil
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
