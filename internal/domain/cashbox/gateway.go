package cashbox

import (
	"context"

	"github.com/google/uuid"

	"github.com/mercatto/pos/internal/domain/shared/valueobject"
)

// NewEntry is a financial entry to post, optionally tagged to a till
type NewEntry struct {
	Type      EntryType
	Category  string
	Amount    valueobject.Money
	CashboxID *uuid.UUID
}

// Gateway is the retail backend's till surface
type Gateway interface {
	Create(ctx context.Context, name string, initialAmount valueobject.Money) (*Cashbox, error)
	Open(ctx context.Context, id uuid.UUID) error
	Close(ctx context.Context, id uuid.UUID, closedAmount valueobject.Money) error
	List(ctx context.Context) ([]Cashbox, error)
	Report(ctx context.Context, id uuid.UUID) (*Report, error)
}

// LedgerGateway posts financial entries (fund, sangria, reforço, surplus,
// shortage) to the retail backend.
type LedgerGateway interface {
	CreateEntry(ctx context.Context, entry NewEntry) error
}
