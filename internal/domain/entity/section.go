package entity

import "time"

type SectionName string

const (
	SectionGeneralInformation    SectionName = "generalInformation"
	SectionCustomerInformation   SectionName = "customerInformation"
	SectionJobAddressInformation SectionName = "jobAddressInformation"
	SectionInternalParticipants  SectionName = "internalParticipants"
	SectionExternalParticipants  SectionName = "externalParticipants"
	SectionPolicyInformation     SectionName = "policyInformation"
	SectionDivision              SectionName = "division"
	SectionPaymentServices       SectionName = "paymentServices"
	SectionLossDescription       SectionName = "lossDescriptionAndSpecialInstruction"
)

// SectionOrder is the order in which sections are driven on the intake form.
var SectionOrder = []SectionName{
	SectionGeneralInformation,
	SectionCustomerInformation,
	SectionJobAddressInformation,
	SectionInternalParticipants,
	SectionExternalParticipants,
	SectionPolicyInformation,
	SectionDivision,
	SectionPaymentServices,
	SectionLossDescription,
}

type SwitchKind string

const (
	SwitchRadio    SwitchKind = "radio"
	SwitchCheckbox SwitchKind = "checkbox"
)

// ModeSwitch is the control that reveals a variant's fields on the host page.
type ModeSwitch struct {
	ElementID string
	Kind      SwitchKind
	Checked   bool
}

type SectionVariant struct {
	Value  string
	Switch *ModeSwitch
	Fields []FieldDescriptor
}

type Discriminator struct {
	Field    string
	Default  string
	Settle   time.Duration
	Variants []SectionVariant
}

func (d *Discriminator) Variant(value string) (SectionVariant, bool) {
	for _, v := range d.Variants {
		if v.Value == value {
			return v, true
		}
	}
	return SectionVariant{}, false
}

// SectionSpec is the static field table for one payload section. The mode
// switch is applied first, then Fields, then the chosen variant's fields.
// Ignore lists payload keys (dotted for nested ones) accepted without a control.
type SectionSpec struct {
	Name          SectionName
	Fields        []FieldDescriptor
	Discriminator *Discriminator
	Ignore        []string
}

func (s SectionSpec) Field(name string) (FieldDescriptor, bool) {
	for _, f := range s.Fields {
		if f.LogicalName == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}
