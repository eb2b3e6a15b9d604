package locator

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"
)

func names(strategies []entity.Strategy) []string {
	out := make([]string, 0, len(strategies))
	for _, s := range strategies {
		out = append(out, s.Name)
	}
	return out
}

func TestResolve_PlainTextOrder(t *testing.T) {
	r := New(5 * time.Second)

	got := r.Resolve("ctl00_JobName", entity.WidgetPlainText, 0)

	assert.Equal(t, []string{
		"id-type", "name-type", "xpath-input-type", "xpath-textarea-type", "widget-set-value", "dom-assign",
	}, names(got))
	assert.Equal(t, entity.Locator{By: entity.ByXPath, Value: "//input[@id='ctl00_JobName']"}, got[2].Locator)
	for _, s := range got {
		assert.Equal(t, 5*time.Second, s.Timeout)
	}
}

func TestResolve_WidgetStrategiesUseBaseID(t *testing.T) {
	r := New(time.Second)

	combo := r.Resolve("ctl00_Source_Input", entity.WidgetTelerikCombo, 0)
	require.NotEmpty(t, combo)
	assert.Equal(t, entity.Locator{By: entity.ByWidget, Value: "ctl00_Source"}, combo[0].Locator)
	assert.Equal(t, entity.Locator{By: entity.ByID, Value: "ctl00_Source_Input"}, combo[1].Locator)

	date := r.Resolve("ctl00_DateOfLoss_dateInput", entity.WidgetTelerikDate, 0)
	assert.Equal(t, []string{"widget-set-date", "id-type", "dom-assign"}, names(date))
	assert.Equal(t, "ctl00_DateOfLoss", date[0].Locator.Value)

	phone := r.Resolve("ctl00_Phone_text", entity.WidgetMaskedPhone, 0)
	assert.Equal(t, []string{"widget-set-value", "id-type", "name-type", "dom-assign"}, names(phone))
	assert.Equal(t, "ctl00_Phone", phone[0].Locator.Value)
}

func TestResolve_PerKindOrders(t *testing.T) {
	r := New(time.Second)

	tests := []struct {
		kind entity.WidgetKind
		want []string
	}{
		{entity.WidgetDropdown, []string{"id-select-text", "id-select-value", "name-select-text", "widget-set-text", "id-open-pick"}},
		{entity.WidgetTreeDropdown, []string{"widget-select-tree", "id-open-pick", "widget-set-text"}},
		{entity.WidgetCheckbox, []string{"id-toggle", "name-toggle", "xpath-checkbox-toggle"}},
		{entity.WidgetTransferList, []string{"id-transfer", "xpath-transfer"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, names(r.Resolve("x_Input", tt.kind, 0)))
		})
	}
}

func TestResolve_ExplicitTimeoutWins(t *testing.T) {
	r := New(time.Second)
	got := r.Resolve("a", entity.WidgetCheckbox, 3*time.Second)
	assert.Equal(t, 3*time.Second, got[0].Timeout)
}

func TestResolve_UnknownKind(t *testing.T) {
	assert.Empty(t, New(time.Second).Resolve("a", entity.WidgetKind("slider"), 0))
}

func TestBaseID(t *testing.T) {
	assert.Equal(t, "ctl00_X", BaseID("ctl00_X_dateInput"))
	assert.Equal(t, "ctl00_X", BaseID("ctl00_X_Input"))
	assert.Equal(t, "ctl00_X", BaseID("ctl00_X_text"))
	assert.Equal(t, "ctl00_X", BaseID("ctl00_X_ClientState"))
	assert.Equal(t, "ctl00_X_text", BaseID("ctl00_X_text_Input"))
	assert.Equal(t, "plain", BaseID("plain"))
	assert.Equal(t, "_Input", BaseID("_Input"))
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, "'abc'", Literal("abc"))
	assert.Equal(t, `"O'Brien"`, Literal("O'Brien"))
	assert.Equal(t, `concat('say "hi" it', "'", 's')`, Literal(`say "hi" it's`))
}

func TestResolve_CheckboxStrategies(t *testing.T) {
	got := New(2*time.Second).Resolve("CheckBox_SelfPay", entity.WidgetCheckbox, 0)

	want := []entity.Strategy{
		{Name: "id-toggle", Locator: entity.Locator{By: entity.ByID, Value: "CheckBox_SelfPay"}, Action: entity.ActionToggle, Timeout: 2 * time.Second},
		{Name: "name-toggle", Locator: entity.Locator{By: entity.ByName, Value: "CheckBox_SelfPay"}, Action: entity.ActionToggle, Timeout: 2 * time.Second},
		{Name: "xpath-checkbox-toggle", Locator: entity.Locator{By: entity.ByXPath, Value: "//input[@type='checkbox'][@id='CheckBox_SelfPay']"}, Action: entity.ActionToggle, Timeout: 2 * time.Second},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("checkbox strategies mismatch (-want +got):\n%s", diff)
	}
}
