package validation

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator"

	"github.com/jo-hoe/schoolbook/internal/backend/database"
)

var (
	// contactPattern is applied to the raw value before numeric coercion.
	contactPattern = regexp.MustCompile(`^[0-9]{10}$`)
	emailPattern   = regexp.MustCompile(`(?i)^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)
)

// Submission is the inbound school payload before validation.
type Submission struct {
	Name    string        `json:"name" validate:"required"`
	Address string        `json:"address" validate:"required"`
	City    string        `json:"city" validate:"required"`
	State   string        `json:"state" validate:"required"`
	Contact ContactNumber `json:"contact" validate:"required,contact"`
	Email   string        `json:"email_id" validate:"required,emailshape"`
	Image   string        `json:"image"` // optional, passed through opaquely
}

// ContactNumber preserves the submitted digits for validation while
// accepting either a JSON string or a JSON number on the wire.
type ContactNumber string

func (c *ContactNumber) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*c = ContactNumber(value)
		return nil
	}
	if trimmed == "null" {
		*c = ""
		return nil
	}
	*c = ContactNumber(trimmed)
	return nil
}

// ValidationError enumerates every failed field at once so a caller can
// fix the whole payload in a single round trip.
type ValidationError struct {
	MissingFields []string          `json:"missing_fields,omitempty"`
	InvalidFields map[string]string `json:"invalid_fields,omitempty"`
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.MissingFields) > 0 {
		parts = append(parts, fmt.Sprintf("missing fields: %s", strings.Join(e.MissingFields, ", ")))
	}
	for field, message := range e.InvalidFields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

// NewStructValidator returns a validator carrying the wire-name mapping
// and the custom contact/email rules, for callers outside this package
// that validate structs tagged with them.
func NewStructValidator() *validator.Validate {
	return newValidator()
}

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their wire names, not Go struct names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("contact", func(fl validator.FieldLevel) bool {
		return contactPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("failed to register contact validation: %v", err))
	}
	if err := v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("failed to register email validation: %v", err))
	}
	return v
}

// ValidateSubmission checks required fields and formats and, on success,
// returns a normalized record with the contact coerced to an integer.
// Image constraints are not re-checked here; the ingest pipeline already
// enforced them when the reference was produced.
func ValidateSubmission(submission *Submission) (*database.School, error) {
	normalized := Submission{
		Name:    strings.TrimSpace(submission.Name),
		Address: strings.TrimSpace(submission.Address),
		City:    strings.TrimSpace(submission.City),
		State:   strings.TrimSpace(submission.State),
		Contact: ContactNumber(strings.TrimSpace(string(submission.Contact))),
		Email:   strings.TrimSpace(submission.Email),
		Image:   strings.TrimSpace(submission.Image),
	}

	if err := validate.Struct(&normalized); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, fmt.Errorf("failed to validate submission: %w", err)
		}
		return nil, buildValidationError(validationErrors)
	}

	contact, err := strconv.ParseInt(string(normalized.Contact), 10, 64)
	if err != nil {
		// Unreachable after the 10-digit check; kept as a guard.
		return nil, &ValidationError{InvalidFields: map[string]string{
			"contact": "contact must be a number",
		}}
	}

	return &database.School{
		Name:    normalized.Name,
		Address: normalized.Address,
		City:    normalized.City,
		State:   normalized.State,
		Contact: contact,
		Email:   normalized.Email,
		Image:   normalized.Image,
	}, nil
}

func buildValidationError(validationErrors validator.ValidationErrors) *ValidationError {
	result := &ValidationError{InvalidFields: map[string]string{}}
	for _, fieldError := range validationErrors {
		field := fieldError.Field()
		switch {
		case fieldError.Tag() == "required":
			result.MissingFields = append(result.MissingFields, field)
		case field == "contact":
			result.InvalidFields[field] = "contact must be exactly 10 digits"
		case field == "email_id":
			result.InvalidFields[field] = "email must look like name@example.com"
		default:
			result.InvalidFields[field] = fmt.Sprintf("failed %s constraint", fieldError.Tag())
		}
	}
	if len(result.InvalidFields) == 0 {
		result.InvalidFields = nil
	}
	return result
}
