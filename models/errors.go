package models

import "fmt"

// ValidationError reports a bad field value or an unresolvable reference
// such as an unknown tag id.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PermissionError reports a write attempt by a user who is not the
// author of the target.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}

// ConflictError reports a duplicate add or a self-referential operation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NotFoundError reports a missing entity or relation. Entity indicates
// the recipe/user/tag itself was not found (404); otherwise the miss is
// a relation remove, surfaced as a 400 like a duplicate add.
type NotFoundError struct {
	Resource string
	Entity   bool
}

func (e *NotFoundError) Error() string {
	return e.Resource + " does not exist"
}
