package helper

import (
	"encoding/base64"
	"strings"

	"github.com/google/uuid"

	"recipebox/models"
)

// DecodeInlineImage parses a self-describing inline image of the form
// "data:image/<ext>;base64,<payload>" into raw bytes plus a generated
// filename carrying the declared extension. Any decode failure is a
// validation error naming the field.
func DecodeInlineImage(field, data string) ([]byte, string, error) {
	badEncoding := &models.ValidationError{Field: field, Message: "expected a base64 data URI"}

	rest, ok := strings.CutPrefix(data, "data:")
	if !ok {
		return nil, "", badEncoding
	}
	meta, payload, ok := strings.Cut(rest, ";base64,")
	if !ok || payload == "" {
		return nil, "", badEncoding
	}

	ext := "png"
	if _, sub, ok := strings.Cut(meta, "/"); ok && sub != "" {
		ext = sub
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", &models.ValidationError{Field: field, Message: "invalid base64 payload"}
	}

	return raw, uuid.NewString() + "." + ext, nil
}
