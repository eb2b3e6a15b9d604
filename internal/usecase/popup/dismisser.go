package popup

import (
	"context"
	"time"

	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"
	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/locator"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/setter"
)

const (
	defaultMaxScans      = 5
	defaultEscapePresses = 3
	defaultPause         = 500 * time.Millisecond
)

var defaultPopupSelectors = []string{
	"//div[contains(@class, 'modal') and contains(@style, 'display: block')]",
	"//div[contains(@class, 'modal') and not(contains(@style, 'display: none'))]",
	"//div[contains(@class, 'popup')]",
	"//div[contains(@class, 'dialog')]",
	"//div[contains(@class, 'overlay')]",
	"//div[@role='dialog']",
	"//div[contains(@class, 'ui-dialog')]",
	"//div[contains(@id, 'popup')]",
	"//div[contains(@id, 'modal')]",
}

// Announcement dialogs the host application shows after login.
var defaultPopupIDs = []string{
	"fe068648-9018-90c3-4d38-d203bd76795d",
	"b0c2df4f-24fe-e545-2fa8-b6b19f9ae171",
}

var defaultCloseSelectors = []string{
	".//button[contains(@class, 'close')]",
	".//button[contains(@aria-label, 'Close')]",
	".//button[contains(text(), 'Close')]",
	".//button[contains(text(), 'Cancel')]",
	".//button[contains(text(), '×')]",
	".//button[contains(text(), 'X')]",
	".//span[contains(@class, 'close')]",
	".//a[contains(@class, 'close')]",
	".//i[contains(@class, 'close')]",
	".//button[contains(@onclick, 'close')]",
	".//input[@type='button' and contains(@value, 'Close')]",
	".//input[@type='button' and contains(@value, 'Cancel')]",
}

const (
	genericButtonSelector = ".//button[@type='button'] | .//input[@type='button']"
	overlaySelector       = "//div[contains(@class, 'overlay') or contains(@class, 'backdrop')]"
)

type Config struct {
	PopupSelectors []string
	PopupIDs       []string
	CloseSelectors []string
	MaxScans       int
	EscapePresses  int
	Pause          time.Duration
}

func DefaultConfig() Config {
	return Config{
		PopupSelectors: defaultPopupSelectors,
		PopupIDs:       defaultPopupIDs,
		CloseSelectors: defaultCloseSelectors,
		MaxScans:       defaultMaxScans,
		EscapePresses:  defaultEscapePresses,
		Pause:          defaultPause,
	}
}

type Report struct {
	AlertDismissed bool
	Scans          int
	Dismissed      int
	// Exhausted is set when popups were still showing after the last scan.
	Exhausted bool
}

type Dismisser struct {
	cfg    Config
	popups []entity.Locator
}

func New(cfg Config) *Dismisser {
	if cfg.MaxScans <= 0 {
		cfg.MaxScans = defaultMaxScans
	}
	if len(cfg.CloseSelectors) == 0 {
		cfg.CloseSelectors = defaultCloseSelectors
	}

	d := &Dismisser{cfg: cfg}
	for _, sel := range cfg.PopupSelectors {
		d.popups = append(d.popups, entity.Locator{By: entity.ByXPath, Value: sel})
	}
	for _, id := range cfg.PopupIDs {
		d.popups = append(d.popups, entity.Locator{By: entity.ByXPath, Value: "//*[@id=" + locator.Literal(id) + "]"})
	}
	return d
}

// Dismiss clears native alerts and in-page dialogs. It is best-effort and
// bounded: at most MaxScans scans, whatever the page keeps showing.
func (d *Dismisser) Dismiss(ctx context.Context, page output.Page, log output.LoggerPort) Report {
	var report Report

	if ok, err := page.DismissAlert(ctx); err != nil {
		log.Debug("Alert check failed", "error", err)
	} else if ok {
		report.AlertDismissed = true
		log.Info("Native alert dismissed")
	}

	for report.Scans < d.cfg.MaxScans {
		if ctx.Err() != nil {
			break
		}
		report.Scans++

		popup, which := d.findVisible(ctx, page)
		if popup == nil {
			log.Debug("No popups left", "scan", report.Scans)
			break
		}

		method := d.close(popup)
		if method != "" {
			report.Dismissed++
		}
		log.Info("Popup handled", "scan", report.Scans, "selector", which.Value, "method", method)

		if report.Scans == d.cfg.MaxScans {
			if next, _ := d.findVisible(ctx, page); next != nil {
				report.Exhausted = true
				log.Warn("Popups still visible after max scans", "scans", report.Scans)
			}
			break
		}
		setter.Wait(ctx, d.cfg.Pause)
	}

	d.cleanup(ctx, page, log)
	return report
}

func (d *Dismisser) findVisible(ctx context.Context, page output.Page) (output.Element, entity.Locator) {
	for _, loc := range d.popups {
		els, err := page.FindAll(ctx, loc)
		if err != nil {
			continue
		}
		for _, el := range els {
			if visible, _ := el.Visible(); visible {
				return el, loc
			}
		}
	}
	return nil, entity.Locator{}
}

// close tries explicit close controls, then any plain button, then hides
// and finally removes the popup. It returns the method that worked.
func (d *Dismisser) close(popup output.Element) string {
	for _, sel := range d.cfg.CloseSelectors {
		if clickFirst(popup, sel) {
			return "close-button"
		}
	}
	if clickFirst(popup, genericButtonSelector) {
		return "generic-button"
	}
	if err := popup.Hide(); err == nil {
		return "hide"
	}
	if err := popup.Remove(); err == nil {
		return "remove"
	}
	return ""
}

func clickFirst(popup output.Element, selector string) bool {
	buttons, err := popup.FindWithin(entity.Locator{By: entity.ByXPath, Value: selector})
	if err != nil {
		return false
	}
	for _, b := range buttons {
		visible, _ := b.Visible()
		enabled, _ := b.Enabled()
		if !visible || !enabled {
			continue
		}
		if err := b.Click(); err == nil {
			return true
		}
	}
	return false
}

func (d *Dismisser) cleanup(ctx context.Context, page output.Page, log output.LoggerPort) {
	for i := 0; i < d.cfg.EscapePresses; i++ {
		if err := page.PressEscape(ctx); err != nil {
			log.Debug("Escape press failed", "error", err)
			break
		}
	}

	overlays, err := page.FindAll(ctx, entity.Locator{By: entity.ByXPath, Value: overlaySelector})
	if err != nil {
		return
	}
	hidden := 0
	for _, o := range overlays {
		if visible, _ := o.Visible(); visible && o.Hide() == nil {
			hidden++
		}
	}
	if hidden > 0 {
		log.Debug("Hid leftover overlays", "count", hidden)
	}
}
