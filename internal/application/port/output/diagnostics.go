package output

import "context"

// DiagnosticsPort captures failure artifacts from a live page.
type DiagnosticsPort interface {
	Capture(ctx context.Context, page Page, label string) ([]string, error)
}
