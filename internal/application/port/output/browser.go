package output

import (
	"context"
	"time"

	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"
)

type SessionFactory interface {
	Open(ctx context.Context) (Session, error)
}

// Session owns one browser process. Close is safe to call more than once.
type Session interface {
	Page() Page
	Close() error
}

type Page interface {
	Navigate(ctx context.Context, url string) error
	Redirect(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)

	Find(ctx context.Context, loc entity.Locator, timeout time.Duration) (Element, error)
	FindAll(ctx context.Context, loc entity.Locator) ([]Element, error)

	CallWidget(ctx context.Context, call entity.WidgetCall) error
	DismissAlert(ctx context.Context) (bool, error)
	PressEscape(ctx context.Context) error

	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	HTML(ctx context.Context) (string, error)
}

type Element interface {
	Visible() (bool, error)
	Enabled() (bool, error)
	Text() (string, error)
	Checked() (bool, error)

	Type(text string) error
	SelectByText(text string) error
	SelectByValue(value string) error
	Click() error
	DoubleClick() error
	ScriptClick() error
	SetValue(value string) error
	Hide() error
	Remove() error

	FindWithin(loc entity.Locator) ([]Element, error)
}
