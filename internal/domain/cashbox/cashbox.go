package cashbox

import (
	"time"

	"github.com/google/uuid"

	"github.com/mercatto/pos/internal/domain/shared/valueobject"
)

// Status describes where a till is in its lifecycle
type Status string

const (
	// StatusClosed covers both a never-opened till and a settled one
	StatusClosed Status = "CLOSED"
	StatusOpen   Status = "OPEN"
)

// Cashbox is a till record as the retail backend reports it. A till is open
// iff it has been opened and not yet closed; at most one till is open at a
// time, enforced by the backend.
type Cashbox struct {
	ID            uuid.UUID
	Name          string
	InitialAmount valueobject.Money
	OpenedAt      *time.Time
	ClosedAt      *time.Time
	ClosedAmount  *valueobject.Money
}

// IsOpen reports whether the till is currently open
func (c *Cashbox) IsOpen() bool {
	return c != nil && c.OpenedAt != nil && c.ClosedAt == nil
}

// Status returns the lifecycle status
func (c *Cashbox) Status() Status {
	if c.IsOpen() {
		return StatusOpen
	}
	return StatusClosed
}

// FindOpen returns the open till from a backend listing, or nil when every
// till is closed.
func FindOpen(boxes []Cashbox) *Cashbox {
	for idx := range boxes {
		if boxes[idx].IsOpen() {
			return &boxes[idx]
		}
	}
	return nil
}
