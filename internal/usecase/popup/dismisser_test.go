package popup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"
	"github.com/MuhammadNoman15/kyle-automation/internal/infrastructure/logger"
	"github.com/MuhammadNoman15/kyle-automation/internal/simdom"
)

func testDismisser() *Dismisser {
	cfg := DefaultConfig()
	cfg.Pause = 0
	return New(cfg)
}

func xpath(v string) entity.Locator {
	return entity.Locator{By: entity.ByXPath, Value: v}
}

func TestDismiss_NothingToDo(t *testing.T) {
	page := simdom.NewPage()

	r := testDismisser().Dismiss(context.Background(), page, logger.NewNop())

	assert.False(t, r.AlertDismissed)
	assert.Equal(t, 1, r.Scans)
	assert.Zero(t, r.Dismissed)
	assert.False(t, r.Exhausted)
	assert.Equal(t, defaultEscapePresses, page.Escapes)
}

func TestDismiss_AlertThenCloseButton(t *testing.T) {
	page := simdom.NewPage()
	page.Alerts = 1
	closeBtn := &simdom.Element{OnClick: func(p *simdom.Page) {}}
	modal := page.Add(xpath(defaultPopupSelectors[2]), &simdom.Element{
		Children: map[entity.Locator][]*simdom.Element{
			xpath(".//button[contains(text(), 'Close')]"): {closeBtn},
		},
	})
	closeBtn.OnClick = func(*simdom.Page) { modal.Hidden = true }

	r := testDismisser().Dismiss(context.Background(), page, logger.NewNop())

	assert.True(t, r.AlertDismissed)
	assert.Equal(t, 1, r.Dismissed)
	assert.Equal(t, 2, r.Scans)
	assert.False(t, r.Exhausted)
	assert.True(t, modal.Hidden)
}

func TestDismiss_GenericButtonBeforeHide(t *testing.T) {
	page := simdom.NewPage()
	btn := &simdom.Element{}
	modal := page.Add(xpath(defaultPopupSelectors[5]), &simdom.Element{
		Children: map[entity.Locator][]*simdom.Element{
			xpath(genericButtonSelector): {{Hidden: true}, btn},
		},
	})
	btn.OnClick = func(*simdom.Page) { modal.Hidden = true }

	r := testDismisser().Dismiss(context.Background(), page, logger.NewNop())

	assert.Equal(t, 1, r.Dismissed)
	assert.True(t, page.Called("click "+genericButtonSelector))
	assert.False(t, page.Called("hide"))
}

func TestDismiss_HideWhenNoButtons(t *testing.T) {
	page := simdom.NewPage()
	announcement := page.Add(xpath("//*[@id='"+defaultPopupIDs[0]+"']"), &simdom.Element{})

	r := testDismisser().Dismiss(context.Background(), page, logger.NewNop())

	assert.Equal(t, 1, r.Dismissed)
	assert.True(t, announcement.Hidden)
}

func TestDismiss_RegeneratingPopupIsBounded(t *testing.T) {
	page := simdom.NewPage()
	generated := 0
	page.Generate(xpath(defaultPopupSelectors[3]), func() []*simdom.Element {
		generated++
		return []*simdom.Element{{}}
	})

	r := testDismisser().Dismiss(context.Background(), page, logger.NewNop())

	assert.Equal(t, defaultMaxScans, r.Scans)
	assert.Equal(t, defaultMaxScans, r.Dismissed)
	assert.True(t, r.Exhausted)
	assert.Equal(t, defaultMaxScans+1, generated)
}

func TestDismiss_HidesLeftoverOverlays(t *testing.T) {
	page := simdom.NewPage()
	overlay := page.Add(xpath(overlaySelector), &simdom.Element{})

	testDismisser().Dismiss(context.Background(), page, logger.NewNop())

	assert.True(t, overlay.Hidden)
}

func TestNew_Defaults(t *testing.T) {
	d := New(Config{})
	require.Equal(t, defaultMaxScans, d.cfg.MaxScans)
	assert.Empty(t, d.popups)

	d = New(DefaultConfig())
	assert.Len(t, d.popups, len(defaultPopupSelectors)+len(defaultPopupIDs))
}
