package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"
	"github.com/MuhammadNoman15/kyle-automation/internal/infrastructure/browser/rod"
	"github.com/MuhammadNoman15/kyle-automation/internal/infrastructure/logger"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/intake"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/popup"
)

var ErrMissingConfig = errors.New("missing required configuration")

const (
	KeyHTTPAddr       = "HTTP_ADDR"
	KeyLoginURL       = "LOGIN_URL"
	KeyCreateJobURL   = "CREATE_JOB_URL"
	KeyCompanyID      = "INTAKE_COMPANY_ID"
	KeyUsername       = "INTAKE_USERNAME"
	KeyPassword       = "INTAKE_PASSWORD"
	KeyHeadless       = "BROWSER_HEADLESS"
	KeyBrowserBin     = "BROWSER_BIN"
	KeyNoSandbox      = "BROWSER_NO_SANDBOX"
	KeyStealth        = "BROWSER_STEALTH"
	KeyWaitTimeout    = "WAIT_TIMEOUT"
	KeySettleDelay    = "SETTLE_DELAY"
	KeyLoginTimeout   = "LOGIN_TIMEOUT"
	KeySubmitTimeout  = "SUBMIT_TIMEOUT"
	KeyJobTimeout     = "JOB_TIMEOUT"
	KeyPopupScans     = "POPUP_MAX_SCANS"
	KeyLogLevel       = "LOG_LEVEL"
	KeyLogFormat      = "LOG_FORMAT"
	KeyLogFile        = "LOG_FILE"
	KeyDiagnosticsDir = "DIAGNOSTICS_DIR"
	KeyFieldMapFile   = "FIELD_MAP_FILE"
)

var requiredKeys = []string{KeyLoginURL, KeyCreateJobURL, KeyCompanyID, KeyUsername, KeyPassword}

type AppConfig struct {
	HTTPAddr   string
	JobTimeout time.Duration

	Intake  intake.Config
	Browser rod.Config
	Popups  popup.Config
	Logger  logger.Config

	// DiagnosticsDir is empty when failure artifacts are disabled.
	DiagnosticsDir string
	// FieldMapFile overrides the embedded field table when set.
	FieldMapFile string
}

// Load assembles the application config. Every missing required key is
// named in the returned error.
func Load(env output.ConfigPort) (*AppConfig, error) {
	var missing []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(env.Get(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	browser := rod.DefaultConfig()
	browser.Headless = env.GetBool(KeyHeadless, browser.Headless)
	browser.Bin = env.Get(KeyBrowserBin)
	browser.NoSandbox = env.GetBool(KeyNoSandbox, browser.NoSandbox)
	browser.Stealth = env.GetBool(KeyStealth, browser.Stealth)
	browser.Timeout = env.GetDuration(KeyWaitTimeout, browser.Timeout)

	popups := popup.DefaultConfig()
	popups.MaxScans = env.GetInt(KeyPopupScans, popups.MaxScans)

	log := logger.DefaultConfig()
	log.Level = env.GetWithDefault(KeyLogLevel, log.Level)
	log.Format = env.GetWithDefault(KeyLogFormat, log.Format)
	log.File = env.Get(KeyLogFile)

	cfg := &AppConfig{
		HTTPAddr:   env.GetWithDefault(KeyHTTPAddr, ":5000"),
		JobTimeout: env.GetDuration(KeyJobTimeout, 5*time.Minute),
		Intake: intake.Config{
			LoginURL:       env.Get(KeyLoginURL),
			CreateJobURL:   env.Get(KeyCreateJobURL),
			CompanyID:      env.Get(KeyCompanyID),
			Username:       env.Get(KeyUsername),
			Password:       env.Get(KeyPassword),
			ElementTimeout: env.GetDuration(KeyWaitTimeout, 10*time.Second),
			Settle:         env.GetDuration(KeySettleDelay, time.Second),
			LoginTimeout:   env.GetDuration(KeyLoginTimeout, 15*time.Second),
			SubmitTimeout:  env.GetDuration(KeySubmitTimeout, 30*time.Second),
		},
		Browser:        browser,
		Popups:         popups,
		Logger:         log,
		DiagnosticsDir: env.GetWithDefault(KeyDiagnosticsDir, "diagnostics"),
		FieldMapFile:   env.Get(KeyFieldMapFile),
	}
	return cfg, nil
}
