package scheduling

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// InvalidRangeError rejects a request whose date range is not well ordered,
// such as a departure before an arrival. It is a local failure, never retried.
type InvalidRangeError struct {
	Field   string
	Message string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldError is a single field-keyed validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError batches all validation failures of a request so callers can
// report them together rather than one at a time.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// ConflictKind identifies what a proposed booking collided with.
type ConflictKind string

const (
	ConflictKindBooking  ConflictKind = "booking"
	ConflictKindVoid     ConflictKind = "void"
	ConflictKindArchived ConflictKind = "archived"
)

// Conflict is a business-level rejection of a proposed placement. It is a
// result value, not a system error: callers translate it into an
// "already booked" style response.
type Conflict struct {
	Kind         ConflictKind `json:"kind"`
	BedspaceID   uuid.UUID    `json:"bedspaceId"`
	BookingID    *uuid.UUID   `json:"bookingId,omitempty"`
	VoidPeriodID *uuid.UUID   `json:"voidPeriodId,omitempty"`
}

// Message renders a human-readable description of the conflict.
func (c *Conflict) Message() string {
	switch c.Kind {
	case ConflictKindBooking:
		return fmt.Sprintf("dates conflict with an existing booking %s on bedspace %s", c.BookingID, c.BedspaceID)
	case ConflictKindVoid:
		return fmt.Sprintf("dates conflict with a void period %s on bedspace %s", c.VoidPeriodID, c.BedspaceID)
	case ConflictKindArchived:
		return fmt.Sprintf("bedspace %s is archived before the proposed departure", c.BedspaceID)
	}
	return "conflict"
}
