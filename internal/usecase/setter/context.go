package setter

import (
	"context"
	"time"

	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"
)

// FormContext is the per-request handle every filler works against. It is
// never shared between requests.
type FormContext struct {
	Page    output.Page
	Timeout time.Duration
	Settle  time.Duration
	Logger  output.LoggerPort
}

// Wait blocks for d or until ctx is done. It reports whether the full
// duration elapsed with ctx still live.
func Wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
