package models

import "regexp"

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

// ValidateHexColor accepts the 3- or 6-digit "#rgb" / "#rrggbb" forms.
func ValidateHexColor(value string) error {
	if !hexColorPattern.MatchString(value) {
		return &ValidationError{Field: "color", Message: value + " is not an HEX code"}
	}
	return nil
}

// ValidateAmount enforces the positive-integer constraint shared by
// ingredient amounts and cooking time.
func ValidateAmount(field string, value int) error {
	if value < 1 {
		return &ValidationError{Field: field, Message: "must be greater than or equal to 1"}
	}
	return nil
}
