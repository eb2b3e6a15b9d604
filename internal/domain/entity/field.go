package entity

import "fmt"

type WidgetKind string

const (
	WidgetPlainText    WidgetKind = "plain_text"
	WidgetMaskedPhone  WidgetKind = "masked_phone"
	WidgetDropdown     WidgetKind = "dropdown"
	WidgetTelerikCombo WidgetKind = "telerik_combo"
	WidgetTelerikDate  WidgetKind = "telerik_date"
	WidgetTreeDropdown WidgetKind = "tree_dropdown"
	WidgetCheckbox     WidgetKind = "checkbox"
	WidgetTransferList WidgetKind = "transfer_list"
)

var widgetKinds = map[WidgetKind]struct{}{
	WidgetPlainText:    {},
	WidgetMaskedPhone:  {},
	WidgetDropdown:     {},
	WidgetTelerikCombo: {},
	WidgetTelerikDate:  {},
	WidgetTreeDropdown: {},
	WidgetCheckbox:     {},
	WidgetTransferList: {},
}

func (k WidgetKind) Valid() bool {
	_, ok := widgetKinds[k]
	return ok
}

func (k WidgetKind) String() string {
	return string(k)
}

// FieldDescriptor binds a payload key to a UI control. Options is set for
// checkbox groups (option label -> checkbox id), Children for nested objects
// such as phone numbers.
type FieldDescriptor struct {
	LogicalName string
	ElementID   string
	Kind        WidgetKind
	Options     []FieldOption
	Children    []FieldDescriptor
}

type FieldOption struct {
	Label     string
	ElementID string
}

func (d FieldDescriptor) IsGroup() bool {
	return len(d.Options) > 0
}

func (d FieldDescriptor) IsNested() bool {
	return len(d.Children) > 0
}

func (d FieldDescriptor) Validate() error {
	switch {
	case d.LogicalName == "":
		return fmt.Errorf("field descriptor without logical name")
	case d.IsNested():
		for _, c := range d.Children {
			if err := c.Validate(); err != nil {
				return fmt.Errorf("%s: %w", d.LogicalName, err)
			}
		}
		return nil
	case d.IsGroup():
		for _, o := range d.Options {
			if o.Label == "" || o.ElementID == "" {
				return fmt.Errorf("%s: option needs label and element id", d.LogicalName)
			}
		}
		return nil
	case d.ElementID == "":
		return fmt.Errorf("%s: missing element id", d.LogicalName)
	case !d.Kind.Valid():
		return fmt.Errorf("%s: unknown widget kind %q", d.LogicalName, d.Kind)
	}
	return nil
}

// OptionLabels returns group option labels in declared order.
func (d FieldDescriptor) OptionLabels() []string {
	labels := make([]string, 0, len(d.Options))
	for _, o := range d.Options {
		labels = append(labels, o.Label)
	}
	return labels
}
