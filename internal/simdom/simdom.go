// Package simdom is an in-memory page used to exercise the form use cases
// without a browser. Elements are registered under the exact locator the
// code under test is expected to look up.
//
// It exists for tests only. Production code must not import it; the service
// always drives a real browser through the rod adapter.
package simdom

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"
	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"
)

var (
	ErrNotFound    = errors.New("simdom: element not found")
	ErrNoWidget    = errors.New("simdom: widget runtime unavailable")
	ErrNotEditable = errors.New("simdom: element not editable")
	ErrNoOption    = errors.New("simdom: option not found")
)

var _ output.Page = (*Page)(nil)
var _ output.Element = (*Element)(nil)
var _ output.Session = (*Session)(nil)
var _ output.SessionFactory = (*Factory)(nil)

type Option struct {
	Text  string
	Value string
}

type Page struct {
	mu sync.Mutex

	URL           string
	Body          string
	Alerts        int
	WidgetRuntime bool
	Routes        map[string]string
	NavigateErr   error
	RedirectOnly  bool

	elements   map[entity.Locator][]*Element
	generators map[entity.Locator]func() []*Element
	widgets    map[string]bool
	widgetErr  map[string]error

	// WidgetValues holds the last value passed to each widget control.
	WidgetValues map[string]string
	Calls        []string
	Lookups      []entity.Locator
	Escapes      int
}

func NewPage() *Page {
	return &Page{
		URL:          "about:blank",
		Routes:       make(map[string]string),
		elements:     make(map[entity.Locator][]*Element),
		generators:   make(map[entity.Locator]func() []*Element),
		widgets:      make(map[string]bool),
		widgetErr:    make(map[string]error),
		WidgetValues: make(map[string]string),
	}
}

// Add registers el under loc and returns it for chaining.
func (p *Page) Add(loc entity.Locator, el *Element) *Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	el.page = p
	el.loc = loc
	p.elements[loc] = append(p.elements[loc], el)
	return el
}

func (p *Page) AddID(id string, el *Element) *Element {
	return p.Add(entity.Locator{By: entity.ByID, Value: id}, el)
}

// Drop forgets every element registered under loc.
func (p *Page) Drop(loc entity.Locator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.elements, loc)
}

// Generate makes every FindAll on loc return a fresh set of elements.
func (p *Page) Generate(loc entity.Locator, gen func() []*Element) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generators[loc] = func() []*Element {
		els := gen()
		for _, el := range els {
			el.page = p
			el.loc = loc
		}
		return els
	}
}

// Widget registers a client-side control. A non-nil err makes calls fail.
func (p *Page) Widget(controlID string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.widgets[controlID] = true
	if err != nil {
		p.widgetErr[controlID] = err
	}
}

func (p *Page) record(format string, args ...any) {
	p.Calls = append(p.Calls, fmt.Sprintf(format, args...))
}

// Called reports whether any recorded call starts with prefix.
func (p *Page) Called(prefix string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.Calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

// LookedUp reports whether any lookup value contains fragment.
func (p *Page) LookedUp(fragment string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, l := range p.Lookups {
		if strings.Contains(l.Value, fragment) {
			return true
		}
	}
	return false
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("navigate %s", url)
	if p.NavigateErr != nil {
		return p.NavigateErr
	}
	if p.RedirectOnly {
		return nil
	}
	p.URL = p.route(url)
	return nil
}

func (p *Page) Redirect(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("redirect %s", url)
	p.URL = p.route(url)
	return nil
}

func (p *Page) route(url string) string {
	if to, ok := p.Routes[url]; ok {
		return to
	}
	return url
}

func (p *Page) CurrentURL(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.URL, nil
}

func (p *Page) SetURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.URL = url
}

func (p *Page) Find(ctx context.Context, loc entity.Locator, timeout time.Duration) (output.Element, error) {
	els, err := p.FindAll(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, loc)
	}
	return els[0], nil
}

func (p *Page) FindAll(ctx context.Context, loc entity.Locator) ([]output.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.Lookups = append(p.Lookups, loc)
	var els []*Element
	if gen, ok := p.generators[loc]; ok {
		p.mu.Unlock()
		els = gen()
		p.mu.Lock()
	} else {
		els = p.elements[loc]
	}
	p.mu.Unlock()

	out := make([]output.Element, 0, len(els))
	for _, el := range els {
		if !el.removed {
			out = append(out, el)
		}
	}
	return out, nil
}

func (p *Page) CallWidget(ctx context.Context, call entity.WidgetCall) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.WidgetRuntime || !p.widgets[call.ControlID] {
		return fmt.Errorf("%w: %s", ErrNoWidget, call.ControlID)
	}
	if err := p.widgetErr[call.ControlID]; err != nil {
		return err
	}
	p.record("widget %s %s %s", call.ControlID, call.Method, call.Value)
	p.WidgetValues[call.ControlID] = call.Value
	return nil
}

func (p *Page) DismissAlert(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Alerts == 0 {
		return false, nil
	}
	p.Alerts--
	p.record("alert dismissed")
	return true, nil
}

func (p *Page) PressEscape(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Escapes++
	return nil
}

func (p *Page) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	return &entity.Screenshot{Data: []byte("jpeg"), Format: "jpeg", Width: 1, Height: 1}, nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Body, nil
}

type Element struct {
	page *Page
	loc  entity.Locator

	Label    string
	Value    string
	Options  []Option
	IsToggle bool
	IsRadio  bool
	Check    bool
	Hidden   bool
	Disabled bool
	// Stuck keeps a checkbox from changing state when clicked.
	Stuck bool

	// FailClick makes native clicks fail while scripted clicks still work.
	FailClick bool
	// FailType makes typing fail even on an editable element.
	FailType bool
	OnClick  func(p *Page)

	Children map[entity.Locator][]*Element

	removed bool
}

func (e *Element) Locator() entity.Locator { return e.loc }

func (e *Element) Removed() bool { return e.removed }

func (e *Element) rec(format string, args ...any) {
	if e.page == nil {
		return
	}
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	e.page.record(format, args...)
}

func (e *Element) Visible() (bool, error) { return !e.Hidden && !e.removed, nil }
func (e *Element) Enabled() (bool, error) { return !e.Disabled, nil }
func (e *Element) Checked() (bool, error) { return e.Check, nil }

func (e *Element) Text() (string, error) {
	if e.Label != "" {
		return e.Label, nil
	}
	return e.Value, nil
}

func (e *Element) Type(text string) error {
	if e.Hidden || e.Disabled || e.removed || e.FailType {
		return fmt.Errorf("%w: %s", ErrNotEditable, e.loc)
	}
	e.Value = text
	e.rec("type %s %s", e.loc.Value, text)
	return nil
}

func (e *Element) SelectByText(text string) error {
	for _, o := range e.Options {
		if o.Text == text {
			e.Value = o.Value
			e.rec("select-text %s %s", e.loc.Value, text)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrNoOption, text)
}

func (e *Element) SelectByValue(value string) error {
	for _, o := range e.Options {
		if o.Value == value {
			e.Value = o.Value
			e.rec("select-value %s %s", e.loc.Value, value)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrNoOption, value)
}

func (e *Element) Click() error {
	if e.FailClick || e.Hidden || e.removed {
		return fmt.Errorf("%w: %s", ErrNotEditable, e.loc)
	}
	e.rec("click %s", e.loc.Value)
	e.activate()
	return nil
}

func (e *Element) DoubleClick() error {
	if e.Hidden || e.removed {
		return fmt.Errorf("%w: %s", ErrNotEditable, e.loc)
	}
	e.rec("dblclick %s", e.Label)
	return nil
}

func (e *Element) ScriptClick() error {
	if e.removed {
		return fmt.Errorf("%w: %s", ErrNotFound, e.loc)
	}
	e.rec("script-click %s", e.loc.Value)
	e.activate()
	return nil
}

func (e *Element) activate() {
	switch {
	case e.Stuck:
	case e.IsRadio:
		e.Check = true
	case e.IsToggle:
		e.Check = !e.Check
	}
	if e.OnClick != nil && e.page != nil {
		e.OnClick(e.page)
	}
}

func (e *Element) SetValue(value string) error {
	if e.removed {
		return fmt.Errorf("%w: %s", ErrNotFound, e.loc)
	}
	e.Value = value
	e.rec("assign %s %s", e.loc.Value, value)
	return nil
}

func (e *Element) Hide() error {
	e.Hidden = true
	e.rec("hide %s", e.loc.Value)
	return nil
}

func (e *Element) Remove() error {
	e.removed = true
	e.rec("remove %s", e.loc.Value)
	return nil
}

func (e *Element) FindWithin(loc entity.Locator) ([]output.Element, error) {
	var out []output.Element
	for _, c := range e.Children[loc] {
		if c.page == nil {
			c.page = e.page
			c.loc = loc
		}
		if !c.removed {
			out = append(out, c)
		}
	}
	return out, nil
}

type Session struct {
	page   *Page
	mu     sync.Mutex
	Closes int
}

func NewSession(p *Page) *Session { return &Session{page: p} }

func (s *Session) Page() output.Page { return s.page }

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closes++
	return nil
}

type Factory struct {
	Session *Session
	Err     error
	Opened  int
}

func (f *Factory) Open(ctx context.Context) (output.Session, error) {
	f.Opened++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Session, nil
}
