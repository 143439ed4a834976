package domain

import "github.com/google/uuid"

// BulkOutcome reports what happened to one member of a bulk operation.
// Bulk verbs are best effort: members fail independently and the batch
// never rolls back.
type BulkOutcome struct {
	TaskID uuid.UUID
	OK     bool
	Error  string
}
