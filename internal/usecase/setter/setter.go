package setter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"
	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/locator"
)

const pickTimeout = 2 * time.Second

var (
	errNotInteractable = errors.New("element not visible or disabled")
	errNoPick          = errors.New("no visible list item matched")
	errStateUnchanged  = errors.New("checkbox state did not change")
	errNothingMoved    = errors.New("no list items transferred")
)

type Setter struct {
	resolver *locator.Resolver
}

func New(resolver *locator.Resolver) *Setter {
	return &Setter{resolver: resolver}
}

// SetValue drives a single control. Strategies are tried in order and the
// first one that works wins. It never returns an error: failures are
// reported in the outcome.
func (s *Setter) SetValue(ctx context.Context, fc *FormContext, d entity.FieldDescriptor, value any) entity.FillOutcome {
	out := entity.FillOutcome{Field: d.LogicalName}
	if entity.IsEmpty(value) {
		return out
	}
	out.Attempted = true

	log := fc.Logger.WithFields(map[string]any{"field": d.LogicalName, "kind": d.Kind})

	var (
		text  string
		want  bool
		items []string
	)
	switch d.Kind {
	case entity.WidgetCheckbox:
		b, ok := entity.Bool(value)
		if !ok {
			out.Detail = fmt.Sprintf("value %v is not a boolean", value)
			log.Warn("Checkbox value rejected", "value", value)
			return out
		}
		want = b
	case entity.WidgetTransferList:
		items = entity.StringList(value)
		if len(items) == 0 {
			out.Attempted = false
			return out
		}
	default:
		v, ok := entity.ScalarString(value)
		if !ok {
			out.Detail = fmt.Sprintf("unsupported value type %T", value)
			log.Warn("Value rejected", "type", fmt.Sprintf("%T", value))
			return out
		}
		text = v
		if d.Kind == entity.WidgetMaskedPhone {
			text = FormatPhone(text)
		}
	}

	var lastErr error
	for _, st := range s.resolver.Resolve(d.ElementID, d.Kind, fc.Timeout) {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		var err error
		switch st.Action {
		case entity.ActionToggle:
			err = s.toggle(ctx, fc, st, want)
		case entity.ActionTransfer:
			var res transferResult
			res, err = s.transfer(ctx, fc, st, d.ElementID, items)
			if err == nil {
				out.MethodUsed = st.Name
				out.Succeeded = len(res.missing) == 0
				if !out.Succeeded {
					out.Detail = "not transferred: " + strings.Join(res.missing, ", ")
				}
				log.Info("Transfer list filled", "method", st.Name, "moved", res.moved, "missing", res.missing)
				return out
			}
		default:
			err = s.apply(ctx, fc, st, text)
		}

		if err == nil {
			out.Succeeded = true
			out.MethodUsed = st.Name
			log.Debug("Field set", "method", st.Name)
			return out
		}
		lastErr = err
		log.Debug("Strategy failed", "method", st.Name, "error", err)
	}

	if lastErr != nil {
		out.Detail = lastErr.Error()
	} else {
		out.Detail = "no strategies for widget kind"
	}
	log.Warn("Could not set field", "element_id", d.ElementID, "error", out.Detail)
	return out
}

func (s *Setter) apply(ctx context.Context, fc *FormContext, st entity.Strategy, text string) error {
	switch st.Action {
	case entity.ActionWidgetSetValue:
		return fc.Page.CallWidget(ctx, entity.WidgetCall{ControlID: st.Locator.Value, Method: entity.WidgetMethodSetValue, Value: text})
	case entity.ActionWidgetSetText:
		return fc.Page.CallWidget(ctx, entity.WidgetCall{ControlID: st.Locator.Value, Method: entity.WidgetMethodSetText, Value: text})
	case entity.ActionWidgetSetDate:
		return fc.Page.CallWidget(ctx, entity.WidgetCall{ControlID: st.Locator.Value, Method: entity.WidgetMethodSetDate, Value: text})
	case entity.ActionWidgetSelectTree:
		return fc.Page.CallWidget(ctx, entity.WidgetCall{ControlID: st.Locator.Value, Method: entity.WidgetMethodSelectTreeText, Value: text})
	}

	el, err := fc.Page.Find(ctx, st.Locator, st.Timeout)
	if err != nil {
		return err
	}

	switch st.Action {
	case entity.ActionType:
		if !interactable(el) {
			return errNotInteractable
		}
		return el.Type(text)
	case entity.ActionSelectText:
		return el.SelectByText(text)
	case entity.ActionSelectValue:
		return el.SelectByValue(text)
	case entity.ActionAssignValue:
		return el.SetValue(text)
	case entity.ActionOpenAndPick:
		return s.openAndPick(ctx, fc, el, text)
	}
	return fmt.Errorf("unsupported action %s", st.Action)
}

func (s *Setter) openAndPick(ctx context.Context, fc *FormContext, el output.Element, text string) error {
	if err := el.Click(); err != nil {
		if err := el.ScriptClick(); err != nil {
			return fmt.Errorf("open list: %w", err)
		}
	}
	Wait(ctx, fc.Settle)

	for _, loc := range pickLocators(text) {
		items, err := fc.Page.FindAll(ctx, loc)
		if err != nil {
			continue
		}
		for _, item := range items {
			if visible, _ := item.Visible(); !visible {
				continue
			}
			if err := item.Click(); err == nil {
				return nil
			}
		}
	}
	return errNoPick
}

func (s *Setter) toggle(ctx context.Context, fc *FormContext, st entity.Strategy, want bool) error {
	el, err := fc.Page.Find(ctx, st.Locator, st.Timeout)
	if err != nil {
		return err
	}
	return SetChecked(el, want)
}

// SetChecked clicks el only when its state differs from want.
func SetChecked(el output.Element, want bool) error {
	cur, err := el.Checked()
	if err != nil {
		return err
	}
	if cur == want {
		return nil
	}
	if err := el.Click(); err != nil {
		if err := el.ScriptClick(); err != nil {
			return err
		}
	}
	if now, err := el.Checked(); err != nil || now != want {
		return errStateUnchanged
	}
	return nil
}

func interactable(el output.Element) bool {
	visible, err := el.Visible()
	if err != nil || !visible {
		return false
	}
	enabled, err := el.Enabled()
	return err == nil && enabled
}

// pickLocators finds open dropdown entries containing text, plain list items
// first and then combo box items.
func pickLocators(text string) []entity.Locator {
	lit := locator.Literal(text)
	return []entity.Locator{
		{By: entity.ByXPath, Value: "//li[contains(text(), " + lit + ")]"},
		{By: entity.ByXPath, Value: "//li[contains(@class,'rcbItem') and contains(text(), " + lit + ")]"},
	}
}
