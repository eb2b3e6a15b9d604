package setter

import (
	"context"
	"strings"
	"time"

	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"
	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/locator"
)

const transferButtonTimeout = time.Second

var listItemLocator = entity.Locator{By: entity.ByCSS, Value: "li"}

type transferResult struct {
	moved   int
	missing []string
}

// transfer moves every wanted item from the source list box. It fails only
// when nothing at all could be moved, so the next strategy gets a chance.
func (s *Setter) transfer(ctx context.Context, fc *FormContext, st entity.Strategy, listID string, items []string) (transferResult, error) {
	var res transferResult

	list, err := fc.Page.Find(ctx, st.Locator, st.Timeout)
	if err != nil {
		return res, err
	}
	options, err := list.FindWithin(listItemLocator)
	if err != nil {
		return res, err
	}

	for _, want := range items {
		opt := matchItem(options, want)
		if opt == nil {
			fc.Logger.Warn("List item not found", "list", listID, "item", want)
			res.missing = append(res.missing, want)
			continue
		}
		if err := s.moveItem(ctx, fc, listID, opt); err != nil {
			fc.Logger.Warn("List item not transferred", "list", listID, "item", want, "error", err)
			res.missing = append(res.missing, want)
			continue
		}
		res.moved++
	}

	if res.moved == 0 {
		return res, errNothingMoved
	}
	return res, nil
}

func (s *Setter) moveItem(ctx context.Context, fc *FormContext, listID string, item output.Element) error {
	if err := item.Click(); err == nil {
		if btn, err := fc.Page.Find(ctx, transferButton(listID), transferButtonTimeout); err == nil {
			if err := btn.Click(); err == nil {
				return nil
			}
		}
	}
	return item.DoubleClick()
}

func transferButton(listID string) entity.Locator {
	lit := locator.Literal(listID)
	return entity.Locator{
		By: entity.ByXPath,
		Value: "//*[@id=" + lit + "]//*[contains(@class,'rlbTransferFrom')]" +
			" | //*[@id=" + lit + "]//*[contains(@title,'To Right')]",
	}
}

// matchItem prefers an exact label match and falls back to a substring one.
func matchItem(options []output.Element, want string) output.Element {
	var partial output.Element
	needle := strings.ToLower(want)
	for _, opt := range options {
		text, err := opt.Text()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == want {
			return opt
		}
		if partial == nil && strings.Contains(strings.ToLower(text), needle) {
			partial = opt
		}
	}
	return partial
}
