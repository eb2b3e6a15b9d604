package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

var _ output.SessionFactory = (*SessionFactory)(nil)
var _ output.Session = (*Session)(nil)

const (
	defaultTimeout    = 10 * time.Second
	defaultSlowMotion = 0
)

type Config struct {
	Headless   bool
	Bin        string
	NoSandbox  bool
	SlowMotion time.Duration
	Timeout    time.Duration
	Trace      bool
	// Stealth patches the usual headless fingerprints before any page loads.
	Stealth    bool
}

func DefaultConfig() Config {
	return Config{
		Headless:   true,
		NoSandbox:  false,
		SlowMotion: defaultSlowMotion,
		Timeout:    defaultTimeout,
		Stealth:    true,
	}
}

// SessionFactory launches one Chrome process per Open call.
type SessionFactory struct {
	cfg Config
	log output.LoggerPort
}

func NewSessionFactory(cfg Config, log output.LoggerPort) *SessionFactory {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &SessionFactory{cfg: cfg, log: log}
}

func (f *SessionFactory) Open(ctx context.Context) (output.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := launcher.New().
		Headless(f.cfg.Headless).
		NoSandbox(f.cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("disable-dev-shm-usage").
		Set("window-size", "1920,1080")
	if f.cfg.Bin != "" {
		l = l.Bin(f.cfg.Bin)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(url).
		Trace(f.cfg.Trace).
		SlowMotion(f.cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := f.newPage(browser)
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if f.log != nil {
		f.log.Debug("Browser session opened", "headless", f.cfg.Headless, "stealth", f.cfg.Stealth, "control_url", url)
	}

	return &Session{
		browser:  browser,
		launcher: l,
		page:     &Page{page: page, timeout: f.cfg.Timeout},
	}, nil
}

func (f *SessionFactory) newPage(browser *rod.Browser) (*rod.Page, error) {
	if f.cfg.Stealth {
		return stealth.Page(browser)
	}
	return browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
}

type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *Page

	once sync.Once
	err  error
}

func (s *Session) Page() output.Page {
	return s.page
}

// Close shuts the browser and kills the Chrome process. Later calls return
// the first call's result.
func (s *Session) Close() error {
	s.once.Do(func() {
		if s.browser != nil {
			if err := s.browser.Close(); err != nil {
				s.err = fmt.Errorf("failed to close browser: %w", err)
			}
		}
		if s.launcher != nil {
			s.launcher.Kill()
			s.launcher.Cleanup()
		}
	})
	return s.err
}
