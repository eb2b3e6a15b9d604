package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"
	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var _ output.Page = (*Page)(nil)

var ErrUnsupportedLocator = errors.New("unsupported locator")

const maxScreenshotWidth = 1280

// widgetScript drives a client-side control through the page's $find registry.
const widgetScript = `(id, method, value) => {
	if (typeof $find !== 'function') {
		throw new Error('widget runtime unavailable');
	}
	const c = $find(id);
	if (!c) {
		throw new Error('widget not found: ' + id);
	}
	switch (method) {
	case 'set_value':
		c.set_value(value);
		break;
	case 'set_text':
		c.set_text(value);
		break;
	case 'set_date':
		if (typeof c.set_selectedDate === 'function') {
			c.set_selectedDate(new Date(value));
		} else {
			c.set_value(new Date(value));
		}
		break;
	case 'select_tree_text': {
		const tree = typeof c.get_embeddedTree === 'function' ? c.get_embeddedTree() : null;
		const node = tree ? tree.findNodeByText(value) : null;
		if (!node) {
			throw new Error('tree node not found: ' + value);
		}
		node.select();
		if (typeof c.set_text === 'function') {
			c.set_text(value);
		}
		break;
	}
	default:
		throw new Error('unknown widget method: ' + method);
	}
}`

const redirectScript = `(url) => { window.location.href = url; }`

type Page struct {
	page    *rod.Page
	timeout time.Duration
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	pg := p.page.Context(ctx)
	if err := pg.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := pg.Timeout(p.timeout).WaitLoad(); err != nil {
		return fmt.Errorf("page load failed: %w", err)
	}
	return nil
}

func (p *Page) Redirect(ctx context.Context, url string) error {
	pg := p.page.Context(ctx).Timeout(p.timeout)
	wait := pg.WaitNavigation(proto.PageLifecycleEventNameLoad)
	if _, err := pg.Eval(redirectScript, url); err != nil {
		return fmt.Errorf("redirect failed: %w", err)
	}
	wait()
	return nil
}

func (p *Page) CurrentURL(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("failed to read page info: %w", err)
	}
	return info.URL, nil
}

func (p *Page) Find(ctx context.Context, loc entity.Locator, timeout time.Duration) (output.Element, error) {
	if timeout <= 0 {
		timeout = p.timeout
	}
	pg := p.page.Context(ctx).Timeout(timeout)

	var el *rod.Element
	var err error
	switch loc.By {
	case entity.ByID, entity.ByName, entity.ByCSS:
		el, err = pg.Element(cssSelector(loc))
	case entity.ByXPath:
		el, err = pg.ElementX(loc.Value)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocator, loc)
	}
	if err != nil {
		return nil, fmt.Errorf("element not found: %s: %w", loc, err)
	}
	return &Element{el: el.Context(ctx), timeout: p.timeout}, nil
}

func (p *Page) FindAll(ctx context.Context, loc entity.Locator) ([]output.Element, error) {
	pg := p.page.Context(ctx)

	var els rod.Elements
	var err error
	switch loc.By {
	case entity.ByID, entity.ByName, entity.ByCSS:
		els, err = pg.Elements(cssSelector(loc))
	case entity.ByXPath:
		els, err = pg.ElementsX(loc.Value)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocator, loc)
	}
	if err != nil {
		return nil, fmt.Errorf("element query failed: %s: %w", loc, err)
	}
	return wrapElements(els, p.timeout), nil
}

func (p *Page) CallWidget(ctx context.Context, call entity.WidgetCall) error {
	_, err := p.page.Context(ctx).Timeout(p.timeout).Eval(widgetScript, call.ControlID, call.Method, call.Value)
	if err != nil {
		return fmt.Errorf("widget %s %s failed: %w", call.ControlID, call.Method, err)
	}
	return nil
}

// DismissAlert accepts a pending JavaScript dialog. It reports false when no
// dialog is showing.
func (p *Page) DismissAlert(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := proto.PageHandleJavaScriptDialog{Accept: true}.Call(p.page.Context(ctx))
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (p *Page) PressEscape(ctx context.Context) error {
	if err := p.page.Context(ctx).KeyActions().Press(input.Escape).Do(); err != nil {
		return fmt.Errorf("failed to press Escape: %w", err)
	}
	return nil
}

func (p *Page) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	imgBytes, err := p.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxScreenshotWidth {
		img = imaging.Resize(img, maxScreenshotWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	html, err := p.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return html, nil
}

func cssSelector(loc entity.Locator) string {
	switch loc.By {
	case entity.ByID:
		return `[id="` + cssQuote(loc.Value) + `"]`
	case entity.ByName:
		return `[name="` + cssQuote(loc.Value) + `"]`
	}
	return loc.Value
}

func cssQuote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func wrapElements(els rod.Elements, timeout time.Duration) []output.Element {
	out := make([]output.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &Element{el: el, timeout: timeout})
	}
	return out
}
