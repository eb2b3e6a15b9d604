package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/input"
	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"
	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/popup"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/section"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/setter"
)

var _ input.JobIntake = (*UseCase)(nil)

const (
	defaultElementTimeout = 10 * time.Second
	defaultLoginTimeout   = 15 * time.Second
	defaultSubmitTimeout  = 30 * time.Second
	defaultPollInterval   = 500 * time.Millisecond
)

type Config struct {
	LoginURL     string
	CreateJobURL string

	CompanyID string
	Username  string
	Password  string

	ElementTimeout time.Duration
	Settle         time.Duration
	LoginTimeout   time.Duration
	SubmitTimeout  time.Duration
	PollInterval   time.Duration
}

func (c *Config) applyDefaults() {
	if c.ElementTimeout <= 0 {
		c.ElementTimeout = defaultElementTimeout
	}
	if c.LoginTimeout <= 0 {
		c.LoginTimeout = defaultLoginTimeout
	}
	if c.SubmitTimeout <= 0 {
		c.SubmitTimeout = defaultSubmitTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
}

type UseCase struct {
	cfg         Config
	sessions    output.SessionFactory
	catalog     output.FieldCatalog
	filler      *section.Filler
	popups      *popup.Dismisser
	diagnostics output.DiagnosticsPort
	logger      output.LoggerPort
}

func New(
	cfg Config,
	sessions output.SessionFactory,
	catalog output.FieldCatalog,
	filler *section.Filler,
	popups *popup.Dismisser,
	diagnostics output.DiagnosticsPort,
	logger output.LoggerPort,
) *UseCase {
	cfg.applyDefaults()
	return &UseCase{
		cfg:         cfg,
		sessions:    sessions,
		catalog:     catalog,
		filler:      filler,
		popups:      popups,
		diagnostics: diagnostics,
		logger:      logger,
	}
}

// Run performs one complete intake: open a browser, log in, fill every
// section present in the payload, submit and read the new job's ids. The
// browser is closed exactly once whatever happens.
func (uc *UseCase) Run(ctx context.Context, payload entity.Payload) (*entity.SubmissionResult, error) {
	runID := uuid.NewString()
	log := uc.logger.WithField("run_id", runID)
	result := &entity.SubmissionResult{Stages: []entity.Stage{entity.StageInit}}

	session, err := uc.sessions.Open(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", entity.ErrSessionUnavailable, err)
		uc.fail(result, log, err)
		result.Stages = append(result.Stages, entity.StageClosed)
		return result, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("Session close failed", "error", err)
		}
		result.Stages = append(result.Stages, entity.StageClosed)
		log.Info("Session closed", "stages", result.Stages)
	}()

	page := session.Page()
	fc := &setter.FormContext{
		Page:    page,
		Timeout: uc.cfg.ElementTimeout,
		Settle:  uc.cfg.Settle,
		Logger:  log,
	}

	if err := uc.run(ctx, fc, payload, result); err != nil {
		uc.captureDiagnostics(ctx, page, runID, log)
		uc.fail(result, log, err)
		return result, err
	}
	return result, nil
}

func (uc *UseCase) run(ctx context.Context, fc *setter.FormContext, payload entity.Payload, result *entity.SubmissionResult) error {
	if err := uc.login(ctx, fc); err != nil {
		return err
	}
	result.Stages = append(result.Stages, entity.StageAuthenticated)

	report := uc.popups.Dismiss(ctx, fc.Page, fc.Logger)
	fc.Logger.Info("Popups handled", "scans", report.Scans, "dismissed", report.Dismissed, "exhausted", report.Exhausted)

	if err := uc.navigate(ctx, fc); err != nil {
		return err
	}
	result.Stages = append(result.Stages, entity.StageNavigated)

	if err := uc.fill(ctx, fc, payload, result); err != nil {
		return err
	}
	result.Stages = append(result.Stages, entity.StageFilled)

	if err := uc.submit(ctx, fc); err != nil {
		return err
	}
	result.Stages = append(result.Stages, entity.StageSubmitted)

	landing := uc.awaitLanding(ctx, fc)
	result.LandingURL = landing
	result.Identifiers = extractIdentifiers(landing, fc.Logger)
	result.Stages = append(result.Stages, entity.StageExtracted)

	result.Success = true
	fc.Logger.Info("Job submitted", "landing_url", landing, "identifiers", result.Identifiers)
	return nil
}

// fill drives the sections in their fixed order. A failed mode switch only
// aborts its own section. The run still fails once every section is done, so
// the job is never submitted.
func (uc *UseCase) fill(ctx context.Context, fc *setter.FormContext, payload entity.Payload, result *entity.SubmissionResult) error {
	var switchErr error
	for _, name := range entity.SectionOrder {
		data, ok := payload.Section(name)
		if !ok {
			continue
		}
		spec, ok := uc.catalog.Section(name)
		if !ok {
			fc.Logger.Warn("No field table for section", "section", name)
			continue
		}

		report, err := uc.filler.FillSection(ctx, fc, spec, data)
		result.Sections = append(result.Sections, report)
		if err != nil {
			if !errors.Is(err, entity.ErrDiscriminatorSwitch) {
				return err
			}
			if switchErr == nil {
				switchErr = err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return switchErr
}

func (uc *UseCase) fail(result *entity.SubmissionResult, log output.LoggerPort, err error) {
	result.Success = false
	result.ErrorMessage = err.Error()
	result.Identifiers = nil
	result.Stages = append(result.Stages, entity.StageFailed)
	log.Error("Intake failed", "error", err, "stages", result.Stages)
}

func (uc *UseCase) captureDiagnostics(ctx context.Context, page output.Page, runID string, log output.LoggerPort) {
	if uc.diagnostics == nil {
		return
	}
	files, err := uc.diagnostics.Capture(context.WithoutCancel(ctx), page, runID)
	if err != nil {
		log.Warn("Diagnostics capture failed", "error", err)
		return
	}
	log.Info("Diagnostics captured", "files", files)
}

// pollURL re-reads the page URL until match accepts it or timeout elapses.
// The last URL seen is returned either way.
func (uc *UseCase) pollURL(ctx context.Context, page output.Page, timeout time.Duration, match func(string) bool) (string, bool) {
	deadline := time.Now().Add(timeout)
	var last string
	for {
		url, err := page.CurrentURL(ctx)
		if err == nil {
			last = url
			if match(url) {
				return url, true
			}
		}
		if !time.Now().Before(deadline) || !setter.Wait(ctx, uc.cfg.PollInterval) {
			return last, false
		}
	}
}
