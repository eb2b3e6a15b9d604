package section

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"
	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/setter"
)

type Filler struct {
	setter *setter.Setter
}

func New(s *setter.Setter) *Filler {
	return &Filler{setter: s}
}

// FillSection drives one section in table order. The only error it returns
// is a failed mode switch, which aborts the section.
func (f *Filler) FillSection(ctx context.Context, fc *setter.FormContext, spec entity.SectionSpec, payload entity.SectionPayload) (entity.SectionReport, error) {
	report := entity.SectionReport{Section: spec.Name}
	log := fc.Logger.WithField("section", string(spec.Name))

	fields := spec.Fields
	var variantFields []entity.FieldDescriptor

	if d := spec.Discriminator; d != nil {
		value := discriminatorValue(payload[d.Field], d.Default)
		report.Variant = value

		variant, ok := d.Variant(value)
		if !ok {
			err := fmt.Errorf("%w: %s has no variant %q", entity.ErrDiscriminatorSwitch, d.Field, value)
			report.Err = err.Error()
			return report, err
		}
		if variant.Switch != nil {
			if err := f.applySwitch(ctx, fc, variant.Switch); err != nil {
				err = fmt.Errorf("%w: %s=%s: %v", entity.ErrDiscriminatorSwitch, d.Field, value, err)
				report.Err = err.Error()
				log.Error("Mode switch failed", "variant", value, "error", err)
				return report, err
			}
			settle := d.Settle
			if settle <= 0 {
				settle = fc.Settle
			}
			setter.Wait(ctx, settle)
		}
		log.Info("Section variant selected", "variant", value)
		variantFields = variant.Fields
	}

	logUnknownKeys(log, spec, variantFields, payload)

	for _, d := range fields {
		report.Outcomes = append(report.Outcomes, f.fillField(ctx, fc, d, payload[d.LogicalName], "")...)
	}
	for _, d := range variantFields {
		report.Outcomes = append(report.Outcomes, f.fillField(ctx, fc, d, payload[d.LogicalName], "")...)
	}

	attempted, succeeded := report.Counts()
	log.Info("Section filled", "attempted", attempted, "succeeded", succeeded)
	return report, nil
}

func (f *Filler) fillField(ctx context.Context, fc *setter.FormContext, d entity.FieldDescriptor, value any, prefix string) []entity.FillOutcome {
	path := prefix + d.LogicalName

	switch {
	case d.IsNested():
		m, _ := value.(map[string]any)
		var out []entity.FillOutcome
		for _, child := range d.Children {
			out = append(out, f.fillField(ctx, fc, child, m[child.LogicalName], path+".")...)
		}
		return out

	case d.IsGroup():
		return f.fillGroup(ctx, fc, d, value, path)
	}

	o := f.setter.SetValue(ctx, fc, d, value)
	o.Field = path
	return []entity.FillOutcome{o}
}

// fillGroup checks one box per selected option. Unselected options are left
// as they are.
func (f *Filler) fillGroup(ctx context.Context, fc *setter.FormContext, d entity.FieldDescriptor, value any, path string) []entity.FillOutcome {
	var out []entity.FillOutcome
	for _, label := range entity.StringList(value) {
		id := optionID(d.Options, label)
		if id == "" {
			fc.Logger.Warn("Unknown option", "field", path, "option", label, "available", d.OptionLabels())
			out = append(out, entity.FillOutcome{
				Field:     path + "." + label,
				Attempted: true,
				Detail:    "unknown option",
			})
			continue
		}
		o := f.setter.SetValue(ctx, fc, entity.FieldDescriptor{
			LogicalName: label,
			ElementID:   id,
			Kind:        entity.WidgetCheckbox,
		}, true)
		o.Field = path + "." + label
		out = append(out, o)
	}
	return out
}

func (f *Filler) applySwitch(ctx context.Context, fc *setter.FormContext, sw *entity.ModeSwitch) error {
	el, err := fc.Page.Find(ctx, entity.Locator{By: entity.ByID, Value: sw.ElementID}, fc.Timeout)
	if err != nil {
		return err
	}
	return setter.SetChecked(el, sw.Checked)
}

func optionID(options []entity.FieldOption, label string) string {
	for _, o := range options {
		if o.Label == label {
			return o.ElementID
		}
	}
	for _, o := range options {
		if strings.EqualFold(o.Label, label) {
			return o.ElementID
		}
	}
	return ""
}

func discriminatorValue(v any, def string) string {
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t)
	case string:
		if s := strings.TrimSpace(t); s != "" {
			if b, ok := entity.Bool(s); ok && (def == "true" || def == "false") {
				return strconv.FormatBool(b)
			}
			return s
		}
	}
	return def
}

func logUnknownKeys(log output.LoggerPort, spec entity.SectionSpec, variantFields []entity.FieldDescriptor, payload entity.SectionPayload) {
	known := make(map[string]bool, len(spec.Fields)+len(variantFields)+len(spec.Ignore)+1)
	for _, d := range spec.Fields {
		known[d.LogicalName] = true
	}
	for _, d := range variantFields {
		known[d.LogicalName] = true
	}
	for _, name := range spec.Ignore {
		known[strings.SplitN(name, ".", 2)[0]] = true
	}
	if spec.Discriminator != nil {
		known[spec.Discriminator.Field] = true
		for _, v := range spec.Discriminator.Variants {
			for _, d := range v.Fields {
				known[d.LogicalName] = true
			}
		}
	}

	var unknown []string
	for k := range payload {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		log.Info("Ignoring unmapped payload keys", "keys", unknown)
	}
}
