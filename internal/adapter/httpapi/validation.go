package httpapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	CustomerIndividual = "Individual"
	CustomerCompany    = "Company"
)

var requiredSections = []entity.SectionName{
	entity.SectionGeneralInformation,
	entity.SectionCustomerInformation,
	entity.SectionDivision,
}

// payloadSchema covers value types only. Presence rules are checked in Go so
// the caller gets a message naming the missing part.
const payloadSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"generalInformation": {"type": "object"},
		"customerInformation": {
			"type": "object",
			"properties": {
				"customerType": {"type": "string"},
				"mainPhoneNumber": {"type": "object"},
				"secondaryPhoneNumber": {"type": "object"}
			}
		},
		"jobAddressInformation": {"type": "object"},
		"internalParticipants": {"type": "object"},
		"externalParticipants": {"type": "object"},
		"policyInformation": {"type": "object"},
		"division": {
			"type": "object",
			"properties": {
				"servicesSelected": {"type": "array", "items": {"type": "string"}}
			}
		},
		"paymentServices": {"type": "object"},
		"lossDescriptionAndSpecialInstruction": {"type": "object"}
	}
}`

const schemaURL = "intake://payload.schema.json"

// ValidationError is a payload problem reported to the caller as HTTP 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type Validator struct {
	schema   *jsonschema.Schema
	services []string
}

// NewValidator compiles the payload schema. services lists the selectable
// division services quoted back when none are chosen.
func NewValidator(services []string) (*Validator, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(payloadSchema)); err != nil {
		return nil, fmt.Errorf("failed to add payload schema: %w", err)
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile payload schema: %w", err)
	}
	return &Validator{schema: schema, services: services}, nil
}

// Validate checks a decoded JSON document and returns it as a payload.
func (v *Validator) Validate(doc any) (entity.Payload, error) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, invalid("Invalid JSON format. Expected a JSON object with the intake form structure.")
	}

	for _, name := range requiredSections {
		if _, ok := obj[string(name)]; !ok {
			return nil, invalid("Missing required section: %s", name)
		}
	}

	if err := v.schema.Validate(obj); err != nil {
		return nil, invalid("Invalid form data: %s", schemaMessage(err))
	}

	payload := entity.Payload(obj)

	customer, _ := payload.Section(entity.SectionCustomerInformation)
	customerType, present := customer["customerType"]
	if !present {
		return nil, invalid("Missing customerType in customerInformation")
	}
	if s, _ := customerType.(string); s != CustomerIndividual && s != CustomerCompany {
		return nil, invalid("customerType must be '%s' or '%s'", CustomerIndividual, CustomerCompany)
	}

	division, _ := payload.Section(entity.SectionDivision)
	if len(entity.StringList(division["servicesSelected"])) == 0 {
		return nil, invalid("At least one service must be selected in division.servicesSelected. Available services: %s",
			strings.Join(v.services, ", "))
	}

	return payload, nil
}

// schemaMessage reports the deepest failing location of a schema error.
func schemaMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, ve.Message)
}
