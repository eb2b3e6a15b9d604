package entity

import (
	"fmt"
	"time"
)

type By string

const (
	ByID     By = "id"
	ByName   By = "name"
	ByXPath  By = "xpath"
	ByCSS    By = "css"
	ByWidget By = "widget"
)

// Locator identifies a control. ByWidget values are client-side component
// ids, resolved through the page's widget runtime instead of the DOM.
type Locator struct {
	By    By
	Value string
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.By, l.Value)
}

type Action string

const (
	ActionType             Action = "type"
	ActionSelectText       Action = "select_text"
	ActionSelectValue      Action = "select_value"
	ActionOpenAndPick      Action = "open_and_pick"
	ActionAssignValue      Action = "assign_value"
	ActionWidgetSetValue   Action = "widget_set_value"
	ActionWidgetSetText    Action = "widget_set_text"
	ActionWidgetSetDate    Action = "widget_set_date"
	ActionWidgetSelectTree Action = "widget_select_tree"
	ActionToggle           Action = "toggle"
	ActionTransfer         Action = "transfer"
)

type Strategy struct {
	Name    string
	Locator Locator
	Action  Action
	Timeout time.Duration
}

// Widget runtime methods understood by the page adapter.
const (
	WidgetMethodSetValue       = "set_value"
	WidgetMethodSetText        = "set_text"
	WidgetMethodSetDate        = "set_date"
	WidgetMethodSelectTreeText = "select_tree_text"
)

type WidgetCall struct {
	ControlID string
	Method    string
	Value     string
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
