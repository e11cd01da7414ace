package sale

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mercatto/pos/internal/domain/shared/valueobject"
)

// ComposedSale is the persistence shape handed to the sales backend after a
// successful Compose: per-line redistributed unit prices plus the enabled
// payment split.
type ComposedSale struct {
	CustomerID *uuid.UUID
	Items      []ComposedItem
	Payments   []ComposedPayment
	Notes      *string
}

// ComposedItem is one persisted line
type ComposedItem struct {
	ProductID uuid.UUID
	Quantity  int64
	UnitPrice valueobject.Money
}

// ComposedPayment is one persisted payment
type ComposedPayment struct {
	Method PaymentMethod
	Amount valueobject.Money
	Notes  *string
}

// Sale is the persisted record the backend returns on success
type Sale struct {
	ID          uuid.UUID
	TotalAmount valueobject.Money
	CreatedAt   time.Time
}

// Customer is the registry record; BalanceDue is the outstanding fiado debt
// shown while the store-credit payment method is enabled.
type Customer struct {
	ID         uuid.UUID
	Name       string
	Phone      string
	Email      string
	BalanceDue valueobject.Money
}

// SalesGateway persists a composed sale on the retail backend. The backend
// re-validates stock and pricing server-side; this engine is the UX gate.
type SalesGateway interface {
	CreateSale(ctx context.Context, composed ComposedSale) (*Sale, error)
}

// CustomerGateway reads customer records from the retail backend
type CustomerGateway interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
}
