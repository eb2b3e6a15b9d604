package locator

import (
	"fmt"
	"strings"
	"time"

	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"
)

// Suffixes the host framework appends to a widget's client id. Order matters:
// only the first match is stripped.
var widgetSuffixes = []string{"_dateInput", "_Input", "_text", "_ClientState"}

// Resolver turns a field id and widget kind into the ordered strategies the
// setter should try. It never touches a page.
type Resolver struct {
	DefaultTimeout time.Duration
}

func New(defaultTimeout time.Duration) *Resolver {
	return &Resolver{DefaultTimeout: defaultTimeout}
}

func (r *Resolver) Resolve(elementID string, kind entity.WidgetKind, timeout time.Duration) []entity.Strategy {
	if timeout <= 0 {
		timeout = r.DefaultTimeout
	}
	b := builder{id: elementID, timeout: timeout}

	switch kind {
	case entity.WidgetPlainText:
		b.add("id-type", byID(elementID), entity.ActionType)
		b.add("name-type", byName(elementID), entity.ActionType)
		b.add("xpath-input-type", byXPath("//input[@id="+Literal(elementID)+"]"), entity.ActionType)
		b.add("xpath-textarea-type", byXPath("//textarea[@id="+Literal(elementID)+"]"), entity.ActionType)
		b.add("widget-set-value", byWidget(elementID), entity.ActionWidgetSetValue)
		b.add("dom-assign", byID(elementID), entity.ActionAssignValue)

	case entity.WidgetMaskedPhone:
		b.add("widget-set-value", byWidget(BaseID(elementID)), entity.ActionWidgetSetValue)
		b.add("id-type", byID(elementID), entity.ActionType)
		b.add("name-type", byName(elementID), entity.ActionType)
		b.add("dom-assign", byID(elementID), entity.ActionAssignValue)

	case entity.WidgetDropdown:
		b.add("id-select-text", byID(elementID), entity.ActionSelectText)
		b.add("id-select-value", byID(elementID), entity.ActionSelectValue)
		b.add("name-select-text", byName(elementID), entity.ActionSelectText)
		b.add("widget-set-text", byWidget(BaseID(elementID)), entity.ActionWidgetSetText)
		b.add("id-open-pick", byID(elementID), entity.ActionOpenAndPick)

	case entity.WidgetTelerikCombo:
		b.add("widget-set-text", byWidget(BaseID(elementID)), entity.ActionWidgetSetText)
		b.add("id-open-pick", byID(elementID), entity.ActionOpenAndPick)
		b.add("dom-assign", byID(elementID), entity.ActionAssignValue)

	case entity.WidgetTelerikDate:
		b.add("widget-set-date", byWidget(BaseID(elementID)), entity.ActionWidgetSetDate)
		b.add("id-type", byID(elementID), entity.ActionType)
		b.add("dom-assign", byID(elementID), entity.ActionAssignValue)

	case entity.WidgetTreeDropdown:
		b.add("widget-select-tree", byWidget(BaseID(elementID)), entity.ActionWidgetSelectTree)
		b.add("id-open-pick", byID(elementID), entity.ActionOpenAndPick)
		b.add("widget-set-text", byWidget(BaseID(elementID)), entity.ActionWidgetSetText)

	case entity.WidgetCheckbox:
		b.add("id-toggle", byID(elementID), entity.ActionToggle)
		b.add("name-toggle", byName(elementID), entity.ActionToggle)
		b.add("xpath-checkbox-toggle", byXPath("//input[@type='checkbox'][@id="+Literal(elementID)+"]"), entity.ActionToggle)

	case entity.WidgetTransferList:
		b.add("id-transfer", byID(elementID), entity.ActionTransfer)
		b.add("xpath-transfer", byXPath("//*[@id="+Literal(elementID)+"]"), entity.ActionTransfer)
	}

	return b.out
}

// BaseID strips the first known widget suffix from an element id.
func BaseID(elementID string) string {
	for _, suffix := range widgetSuffixes {
		if strings.HasSuffix(elementID, suffix) && len(elementID) > len(suffix) {
			return strings.TrimSuffix(elementID, suffix)
		}
	}
	return elementID
}

// Literal renders s as an XPath 1.0 string literal. XPath has no escape
// sequences, so strings holding both quote kinds become a concat() call.
func Literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	args := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			args = append(args, `"'"`)
		}
		if p != "" {
			args = append(args, "'"+p+"'")
		}
	}
	return fmt.Sprintf("concat(%s)", strings.Join(args, ", "))
}

type builder struct {
	id      string
	timeout time.Duration
	out     []entity.Strategy
}

func (b *builder) add(name string, loc entity.Locator, action entity.Action) {
	b.out = append(b.out, entity.Strategy{
		Name:    name,
		Locator: loc,
		Action:  action,
		Timeout: b.timeout,
	})
}

func byID(id string) entity.Locator     { return entity.Locator{By: entity.ByID, Value: id} }
func byName(id string) entity.Locator   { return entity.Locator{By: entity.ByName, Value: id} }
func byXPath(x string) entity.Locator   { return entity.Locator{By: entity.ByXPath, Value: x} }
func byWidget(id string) entity.Locator { return entity.Locator{By: entity.ByWidget, Value: id} }
