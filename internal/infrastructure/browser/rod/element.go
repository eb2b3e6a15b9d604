package rod

import (
	"errors"
	"fmt"
	"time"

	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"
	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.Element = (*Element)(nil)

var ErrOptionNotFound = errors.New("option not found")

const (
	enabledScript  = `() => !this.disabled`
	checkedScript  = `() => !!this.checked`
	clickScript    = `() => this.click()`
	hideScript     = `() => { this.style.display = 'none'; }`
	setValueScript = `(v) => {
		this.value = v;
		this.dispatchEvent(new Event('input', { bubbles: true }));
		this.dispatchEvent(new Event('change', { bubbles: true }));
	}`
	selectValueScript = `(v) => {
		const opt = Array.from(this.options || []).find(o => o.value === v);
		if (!opt) {
			return false;
		}
		this.value = v;
		this.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	}`
)

// Element wraps a rod element. Actions that wait for the element to become
// interactable are bounded by timeout.
type Element struct {
	el      *rod.Element
	timeout time.Duration
}

func (e *Element) bounded() (*rod.Element, func()) {
	if e.timeout <= 0 {
		return e.el, func() {}
	}
	el := e.el.Timeout(e.timeout)
	return el, func() { el.CancelTimeout() }
}

func (e *Element) Visible() (bool, error) {
	return e.el.Visible()
}

func (e *Element) Enabled() (bool, error) {
	res, err := e.el.Eval(enabledScript)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

func (e *Element) Text() (string, error) {
	return e.el.Text()
}

func (e *Element) Checked() (bool, error) {
	res, err := e.el.Eval(checkedScript)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

// Type replaces the current contents with text.
func (e *Element) Type(text string) error {
	el, done := e.bounded()
	defer done()
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select text failed: %w", err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

func (e *Element) SelectByText(text string) error {
	el, done := e.bounded()
	defer done()
	if err := el.Select([]string{text}, true, rod.SelectorTypeText); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrOptionNotFound, text, err)
	}
	return nil
}

func (e *Element) SelectByValue(value string) error {
	res, err := e.el.Eval(selectValueScript, value)
	if err != nil {
		return fmt.Errorf("select failed: %w", err)
	}
	if !res.Value.Bool() {
		return fmt.Errorf("%w: %q", ErrOptionNotFound, value)
	}
	return nil
}

func (e *Element) Click() error {
	el, done := e.bounded()
	defer done()
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (e *Element) DoubleClick() error {
	el, done := e.bounded()
	defer done()
	if err := el.Click(proto.InputMouseButtonLeft, 2); err != nil {
		return fmt.Errorf("double click failed: %w", err)
	}
	return nil
}

func (e *Element) ScriptClick() error {
	if _, err := e.el.Eval(clickScript); err != nil {
		return fmt.Errorf("script click failed: %w", err)
	}
	return nil
}

func (e *Element) SetValue(value string) error {
	if _, err := e.el.Eval(setValueScript, value); err != nil {
		return fmt.Errorf("assign value failed: %w", err)
	}
	return nil
}

func (e *Element) Hide() error {
	_, err := e.el.Eval(hideScript)
	return err
}

func (e *Element) Remove() error {
	return e.el.Remove()
}

func (e *Element) FindWithin(loc entity.Locator) ([]output.Element, error) {
	var els rod.Elements
	var err error
	switch loc.By {
	case entity.ByXPath:
		els, err = e.el.ElementsX(loc.Value)
	case entity.ByID, entity.ByName, entity.ByCSS:
		els, err = e.el.Elements(cssSelector(loc))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocator, loc)
	}
	if err != nil {
		return nil, err
	}
	return wrapElements(els, e.timeout), nil
}
