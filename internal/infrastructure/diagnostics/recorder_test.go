package diagnostics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MuhammadNoman15/kyle-automation/internal/infrastructure/logger"
	"github.com/MuhammadNoman15/kyle-automation/internal/simdom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Capture(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")
	rec := NewRecorder(dir, logger.NewNop())
	rec.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC) }

	page := simdom.NewPage()
	page.Body = `<html><body><input id="txtPassword" type="password" value="s3cret"><div id="err">Login failed</div></body></html>`

	files, err := rec.Capture(context.Background(), page, "run-1")
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, filepath.Join(dir, "20240309T140500-run-1.jpeg"), files[0])
	assert.Equal(t, filepath.Join(dir, "20240309T140500-run-1.html"), files[1])

	markup, err := os.ReadFile(files[1])
	require.NoError(t, err)
	assert.Contains(t, string(markup), "Login failed")
	assert.NotContains(t, string(markup), "s3cret")
}

func TestRecorder_CaptureNilPage(t *testing.T) {
	rec := NewRecorder(t.TempDir(), logger.NewNop())

	files, err := rec.Capture(context.Background(), nil, "run-2")
	assert.Error(t, err)
	assert.Empty(t, files)
}
