package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"
)

var _ output.DiagnosticsPort = (*Recorder)(nil)

// Recorder writes a screenshot and the cleaned page markup for a failed run.
type Recorder struct {
	dir   string
	clean *CleanConfig
	log   output.LoggerPort
	now   func() time.Time
}

func NewRecorder(dir string, log output.LoggerPort) *Recorder {
	return &Recorder{
		dir:   dir,
		clean: &DefaultCleanConfig,
		log:   log,
		now:   time.Now,
	}
}

// Capture stores whatever artifacts the page still yields. It returns the
// written paths and the joined errors of the artifacts that failed.
func (r *Recorder) Capture(ctx context.Context, page output.Page, label string) ([]string, error) {
	if page == nil {
		return nil, errors.New("no page to capture")
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create diagnostics dir: %w", err)
	}

	base := filepath.Join(r.dir, fmt.Sprintf("%s-%s", r.now().UTC().Format("20060102T150405"), label))

	var files []string
	var errs []error

	if shot, err := page.Screenshot(ctx); err != nil {
		errs = append(errs, err)
	} else {
		path := base + "." + shot.Format
		if err := os.WriteFile(path, shot.Data, 0o644); err != nil {
			errs = append(errs, err)
		} else {
			files = append(files, path)
		}
	}

	if raw, err := page.HTML(ctx); err != nil {
		errs = append(errs, err)
	} else {
		markup, err := CleanPage(raw, r.clean)
		if err != nil {
			r.log.Debug("Keeping raw markup", "error", err)
			markup = raw
		}
		path := base + ".html"
		if err := os.WriteFile(path, []byte(markup), 0o644); err != nil {
			errs = append(errs, err)
		} else {
			files = append(files, path)
		}
	}

	return files, errors.Join(errs...)
}
