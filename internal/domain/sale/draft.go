package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercatto/pos/internal/domain/shared"
	"github.com/mercatto/pos/internal/domain/shared/valueobject"
)

// CustomerRef is the slice of the customer record the draft needs on screen
type CustomerRef struct {
	ID    uuid.UUID
	Name  string
	Phone string
}

// SaleDraft is the in-progress sale owned by a single checkout flow.
// Items keep insertion order, one entry per distinct product; adding a
// product that is already present increments its quantity instead. The
// draft is never shared between flows, so no locking applies.
type SaleDraft struct {
	ID              uuid.UUID
	Customer        *CustomerRef
	Items           []LineItem
	OverallDiscount *Discount
	Payments        []PaymentLine
	CreatedAt       time.Time
}

// NewSaleDraft creates an empty draft with one disabled payment line per
// supported method, matching the payment step layout.
func NewSaleDraft() *SaleDraft {
	payments := make([]PaymentLine, 0, len(PaymentMethods))
	for _, m := range PaymentMethods {
		payments = append(payments, PaymentLine{Method: m, Amount: valueobject.ZeroBRL()})
	}
	return &SaleDraft{
		ID:        uuid.New(),
		Items:     make([]LineItem, 0),
		Payments:  payments,
		CreatedAt: time.Now(),
	}
}

// SetCustomer selects the customer for the sale
func (d *SaleDraft) SetCustomer(ref CustomerRef) error {
	if ref.ID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	d.Customer = &ref
	return nil
}

// AddItem adds quantity units of a product to the draft. If the product is
// already present the existing line's quantity is incremented. The stock
// guard rejects the whole operation, with no mutation, when the combined
// quantity would exceed the tracked stock.
func (d *SaleDraft) AddItem(productID uuid.UUID, name, sku string, unitPrice valueobject.Money, quantity int64, maxQuantity *decimal.Decimal) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for idx := range d.Items {
		if d.Items[idx].ProductID != productID {
			continue
		}
		existing := &d.Items[idx]
		combined := existing.Quantity + quantity
		if existing.MaxQuantity != nil && decimal.NewFromInt(combined).GreaterThan(*existing.MaxQuantity) {
			return shared.NewDomainError("INSUFFICIENT_STOCK", "Quantity exceeds available stock for "+existing.Name)
		}
		existing.Quantity = combined
		return nil
	}

	item, err := NewLineItem(productID, name, sku, unitPrice, quantity, maxQuantity)
	if err != nil {
		return err
	}
	d.Items = append(d.Items, *item)
	return nil
}

// RemoveItem drops a product's line from the draft
func (d *SaleDraft) RemoveItem(productID uuid.UUID) error {
	for idx := range d.Items {
		if d.Items[idx].ProductID == productID {
			d.Items = append(d.Items[:idx], d.Items[idx+1:]...)
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Product is not in the draft")
}

// UpdateItemQuantity replaces a line's quantity, re-checking the stock guard
func (d *SaleDraft) UpdateItemQuantity(productID uuid.UUID, quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	item := d.item(productID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Product is not in the draft")
	}
	if item.MaxQuantity != nil && decimal.NewFromInt(quantity).GreaterThan(*item.MaxQuantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Quantity exceeds available stock for "+item.Name)
	}
	item.Quantity = quantity
	return nil
}

// SetItemDiscount sets or clears (nil) a line-level discount
func (d *SaleDraft) SetItemDiscount(productID uuid.UUID, discount *Discount) error {
	item := d.item(productID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Product is not in the draft")
	}
	if discount != nil {
		base := item.UnitPrice.MultiplyByInt(item.Quantity)
		if err := discount.Validate(base); err != nil {
			return err
		}
	}
	item.Discount = discount
	return nil
}

// SetOverallDiscount sets or clears (nil) the sale-level discount
func (d *SaleDraft) SetOverallDiscount(discount *Discount) error {
	if discount != nil && !discount.Mode.IsValid() {
		return shared.NewDomainError("INVALID_DISCOUNT_MODE", "Discount mode must be percent or value")
	}
	d.OverallDiscount = discount
	return nil
}

// SetPayment enables or disables one method's line and records its amount
func (d *SaleDraft) SetPayment(method PaymentMethod, enabled bool, amount valueobject.Money) error {
	for idx := range d.Payments {
		if d.Payments[idx].Method != method {
			continue
		}
		d.Payments[idx].Enabled = enabled
		if enabled {
			d.Payments[idx].Amount = amount
		} else {
			d.Payments[idx].Amount = valueobject.ZeroBRL()
		}
		return nil
	}
	return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+string(method))
}

// Summary derives the current money breakdown of the draft
func (d *SaleDraft) Summary() SaleSummary {
	return ComputeSummary(d.Items, d.OverallDiscount)
}

// ValidateItems checks the product-step invariants for every line
func (d *SaleDraft) ValidateItems() error {
	if len(d.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot proceed without items")
	}
	for idx := range d.Items {
		if err := d.Items[idx].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePayments checks the payment split against the current total
func (d *SaleDraft) ValidatePayments() error {
	return ValidatePayments(d.Summary().Total, d.Payments)
}

// Compose validates the whole draft and produces the persistence shape:
// every item carries its redistributed unit price, every enabled payment
// its amount rounded to centavos.
func (d *SaleDraft) Compose() (*ComposedSale, error) {
	if err := d.ValidateItems(); err != nil {
		return nil, err
	}
	summary := d.Summary()
	if err := ValidatePayments(summary.Total, d.Payments); err != nil {
		return nil, err
	}

	allocated := AllocateOverallDiscount(d.Items, summary.OverallDiscountApplied)

	composed := &ComposedSale{
		Items:    make([]ComposedItem, 0, len(allocated)),
		Payments: make([]ComposedPayment, 0, len(d.Payments)),
	}
	if d.Customer != nil {
		id := d.Customer.ID
		composed.CustomerID = &id
	}
	for idx := range allocated {
		composed.Items = append(composed.Items, ComposedItem{
			ProductID: allocated[idx].ProductID,
			Quantity:  allocated[idx].Quantity,
			UnitPrice: allocated[idx].EffectivePrice(),
		})
	}
	for _, p := range d.Payments {
		if !p.Enabled {
			continue
		}
		composed.Payments = append(composed.Payments, ComposedPayment{
			Method: p.Method,
			Amount: p.Amount.Round(2),
		})
	}
	return composed, nil
}

func (d *SaleDraft) item(productID uuid.UUID) *LineItem {
	for idx := range d.Items {
		if d.Items[idx].ProductID == productID {
			return &d.Items[idx]
		}
	}
	return nil
}
