package di

import (
	"fmt"
	"net/http"

	"github.com/MuhammadNoman15/kyle-automation/internal/adapter/httpapi"
	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/input"
	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"
	"github.com/MuhammadNoman15/kyle-automation/internal/infrastructure/browser/rod"
	"github.com/MuhammadNoman15/kyle-automation/internal/infrastructure/config"
	"github.com/MuhammadNoman15/kyle-automation/internal/infrastructure/diagnostics"
	"github.com/MuhammadNoman15/kyle-automation/internal/infrastructure/fieldmap"
	"github.com/MuhammadNoman15/kyle-automation/internal/infrastructure/logger"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/intake"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/locator"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/popup"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/section"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/setter"
)

const serviceName = "kyle-automation"

type Container struct {
	Config    *config.AppConfig
	Logger    output.LoggerPort
	Catalog   output.FieldCatalog
	Sessions  output.SessionFactory
	Intake    input.JobIntake
	Validator *httpapi.Validator
	Router    http.Handler
}

func NewContainer(cfg *config.AppConfig) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	catalog, err := fieldmap.Load(cfg.FieldMapFile)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to load field map: %w", err)
	}

	sessions := rod.NewSessionFactory(cfg.Browser, log)

	var diag output.DiagnosticsPort
	if cfg.DiagnosticsDir != "" {
		diag = diagnostics.NewRecorder(cfg.DiagnosticsDir, log)
	}

	filler := section.New(setter.New(locator.New(cfg.Intake.ElementTimeout)))
	uc := intake.New(cfg.Intake, sessions, catalog, filler, popup.New(cfg.Popups), diag, log)

	validator, err := httpapi.NewValidator(catalog.ServiceOptions())
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}
	handler := httpapi.NewHandler(uc, validator, log, cfg.JobTimeout)
	router := httpapi.NewRouter(handler, httpapi.AccessLogger(serviceName, cfg.Logger.Format != "console"))

	return &Container{
		Config:    cfg,
		Logger:    log,
		Catalog:   catalog,
		Sessions:  sessions,
		Intake:    uc,
		Validator: validator,
		Router:    router,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}
