package models

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Messages surfaced to the user when a hike fails validation.
const (
	MsgNameRequired     = "Name is required"
	MsgLocationRequired = "Location is required"
	MsgLengthPositive   = "Length must be greater than zero"
)

// ValidationError carries a user-facing message for a rejected record.
// It is surfaced to the caller for display, never logged as a system fault.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ValidateHike checks the fixed rule set for hike creation and update.
// Rules run in order and the first violation wins; a nil return means valid.
func ValidateHike(h *Hike) *ValidationError {
	if err := validation.Validate(strings.TrimSpace(h.Name),
		validation.Required.Error(MsgNameRequired)); err != nil {
		return &ValidationError{Message: MsgNameRequired}
	}
	if err := validation.Validate(strings.TrimSpace(h.Location),
		validation.Required.Error(MsgLocationRequired)); err != nil {
		return &ValidationError{Message: MsgLocationRequired}
	}
	// Min skips zero values (ozzo treats them as empty), so Required
	// catches the zero case under the same message.
	if err := validation.Validate(h.LengthKm,
		validation.Required.Error(MsgLengthPositive),
		validation.Min(0.0).Exclusive().Error(MsgLengthPositive)); err != nil {
		return &ValidationError{Message: MsgLengthPositive}
	}
	if err := validation.Validate(strings.TrimSpace(h.Difficulty),
		validation.Required.Error("Difficulty is required")); err != nil {
		return &ValidationError{Message: "Difficulty is required"}
	}
	return nil
}

// ValidateObservation checks that an observation has non-blank text and a
// hike to belong to.
func ValidateObservation(o *Observation) *ValidationError {
	if o.HikeID <= 0 {
		return &ValidationError{Message: "Hike is required"}
	}
	if err := validation.Validate(strings.TrimSpace(o.Text),
		validation.Required.Error("Text is required")); err != nil {
		return &ValidationError{Message: "Text is required"}
	}
	return nil
}

// ValidatePlace gates weather lookups by place name before any network
// call: blank names and names shorter than two characters are rejected
// as distinct failures.
func ValidatePlace(place string) *ValidationError {
	trimmed := strings.TrimSpace(place)
	if trimmed == "" {
		return &ValidationError{Message: "Place is required"}
	}
	if len([]rune(trimmed)) < 2 {
		return &ValidationError{Message: "Place must be at least 2 characters"}
	}
	return nil
}

// ValidateCoordinates gates weather lookups by coordinate pair.
func ValidateCoordinates(lat, lon float64) *ValidationError {
	if err := validation.Validate(lat, validation.Min(-90.0), validation.Max(90.0)); err != nil {
		return &ValidationError{Message: "Latitude must be between -90 and 90"}
	}
	if err := validation.Validate(lon, validation.Min(-180.0), validation.Max(180.0)); err != nil {
		return &ValidationError{Message: "Longitude must be between -180 and 180"}
	}
	return nil
}
