package sale

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercatto/pos/internal/domain/shared"
	"github.com/mercatto/pos/internal/domain/shared/valueobject"
)

// LineItem is one distinct product inside a draft sale.
// MaxQuantity is nil when the catalog does not track stock for the product.
// EffectiveUnitPrice is nil until the overall discount has been allocated;
// once set it overrides UnitPrice for totals and persistence.
type LineItem struct {
	ProductID          uuid.UUID
	Name               string
	SKU                string
	UnitPrice          valueobject.Money
	Quantity           int64
	MaxQuantity        *decimal.Decimal
	Discount           *Discount
	EffectiveUnitPrice *valueobject.Money
}

// NewLineItem creates a line item with the catalog sale price at add time
func NewLineItem(productID uuid.UUID, name, sku string, unitPrice valueobject.Money, quantity int64, maxQuantity *decimal.Decimal) (*LineItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if maxQuantity != nil && decimal.NewFromInt(quantity).GreaterThan(*maxQuantity) {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Quantity exceeds available stock for "+name)
	}
	return &LineItem{
		ProductID:   productID,
		Name:        name,
		SKU:         sku,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		MaxQuantity: maxQuantity,
	}, nil
}

// ItemTotals is the per-item breakdown used by the summary and the
// allocation pass.
type ItemTotals struct {
	Base          valueobject.Money
	DiscountValue valueobject.Money
	Subtotal      valueobject.Money
}

// Totals computes the item's base, applied discount and subtotal.
// Percent discounts are applied per unit and scaled by quantity, which is
// arithmetically the same as applying them to the base. Absolute discounts
// are a total-item amount. Subtotal is floored at zero.
func (i *LineItem) Totals() ItemTotals {
	base := i.UnitPrice.MultiplyByInt(i.Quantity)
	discountValue := i.Discount.AmountOff(base)

	subtotal := base.MustSubtract(discountValue)
	if subtotal.IsNegative() {
		subtotal = valueobject.ZeroBRL()
	}
	return ItemTotals{Base: base, DiscountValue: discountValue, Subtotal: subtotal}
}

// Validate checks the invariants the UI must satisfy before advancing:
// positive quantity within stock and a discount inside its legal range.
func (i *LineItem) Validate() error {
	if i.Quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.MaxQuantity != nil && decimal.NewFromInt(i.Quantity).GreaterThan(*i.MaxQuantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Quantity exceeds available stock for "+i.Name)
	}
	base := i.UnitPrice.MultiplyByInt(i.Quantity)
	return i.Discount.Validate(base)
}

// EffectivePrice returns the unit price to persist: the redistributed price
// when the overall discount has been allocated, the catalog price otherwise.
func (i *LineItem) EffectivePrice() valueobject.Money {
	if i.EffectiveUnitPrice != nil {
		return *i.EffectiveUnitPrice
	}
	return i.UnitPrice
}

// clone returns a copy so allocation never mutates the caller's items
func (i LineItem) clone() LineItem {
	out := i
	if i.MaxQuantity != nil {
		mq := *i.MaxQuantity
		out.MaxQuantity = &mq
	}
	if i.Discount != nil {
		d := *i.Discount
		out.Discount = &d
	}
	if i.EffectiveUnitPrice != nil {
		p := *i.EffectiveUnitPrice
		out.EffectiveUnitPrice = &p
	}
	return out
}
