// internal/common/validation/profile.go

// Package validation checks the shape of incoming onboarding profiles at the
// trigger boundary. A profile that fails here is rejected synchronously with
// the full error list; nothing reaches the generation pipeline.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// profileSchema is the declared shape of an onboarding profile. Unknown
// fields are tolerated; only the fields the pipeline reads are constrained.
const profileSchema = `{
	"type": "object",
	"required": ["experience", "primaryFocus"],
	"properties": {
		"experience": {
			"type": "string",
			"enum": ["beginner", "intermediate", "advanced"]
		},
		"primaryFocus": {
			"type": "string",
			"minLength": 1
		},
		"sessionMinutes": {
			"type": "integer",
			"minimum": 15,
			"maximum": 240
		},
		"daysPerWeek": {
			"type": "integer",
			"minimum": 1,
			"maximum": 7
		},
		"equipmentAccess": {
			"type": "string",
			"enum": ["full_gym", "home_basic", "bodyweight_only"]
		},
		"priorityMuscles": {
			"type": "array",
			"items": {"type": "string"}
		},
		"personalRecords": {
			"type": "object",
			"additionalProperties": {"type": "number"}
		}
	}
}`

var compiledProfileSchema = gojsonschema.NewStringLoader(profileSchema)

// FieldError is a single profile shape violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateProfile validates raw profile JSON against the declared schema and
// returns every violation. A nil slice means the profile is well-formed.
func ValidateProfile(raw []byte) ([]FieldError, error) {
	result, err := gojsonschema.Validate(compiledProfileSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("profile schema validation: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	fieldErrors := make([]FieldError, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   resultErr.Field(),
			Message: resultErr.Description(),
		})
	}
	return fieldErrors, nil
}
