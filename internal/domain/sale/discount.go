package sale

import (
	"github.com/shopspring/decimal"

	"github.com/mercatto/pos/internal/domain/shared"
	"github.com/mercatto/pos/internal/domain/shared/valueobject"
)

// DiscountMode discriminates how a discount value is interpreted
type DiscountMode string

const (
	// DiscountPercent interprets the value as a percentage of the base amount
	DiscountPercent DiscountMode = "percent"
	// DiscountAbsolute interprets the value as a total monetary amount
	DiscountAbsolute DiscountMode = "value"
)

// IsValid checks if the mode is a known DiscountMode
func (m DiscountMode) IsValid() bool {
	return m == DiscountPercent || m == DiscountAbsolute
}

var hundred = decimal.NewFromInt(100)

// Discount is a tagged value: a percentage in [0,100] or an absolute amount.
// Values outside the valid range are clamped at application time, never
// rejected, so a half-typed input cannot produce a negative subtotal.
type Discount struct {
	Mode  DiscountMode
	Value decimal.Decimal
}

// NewDiscount creates a discount after validating the mode
func NewDiscount(mode DiscountMode, value decimal.Decimal) (*Discount, error) {
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_MODE", "Discount mode must be percent or value")
	}
	return &Discount{Mode: mode, Value: value}, nil
}

// AmountOff returns the monetary discount this produces against base.
// Percent values clamp to [0,100]; absolute values clamp to [0, base].
func (d *Discount) AmountOff(base valueobject.Money) valueobject.Money {
	if d == nil {
		return valueobject.ZeroBRL()
	}
	switch d.Mode {
	case DiscountPercent:
		percent := clampDecimal(d.Value, decimal.Zero, hundred)
		return base.Multiply(percent.Div(hundred))
	case DiscountAbsolute:
		value := d.Value
		if value.IsNegative() {
			value = decimal.Zero
		}
		if value.GreaterThan(base.Amount()) {
			value = base.Amount()
		}
		return valueobject.NewMoneyBRL(value)
	}
	return valueobject.ZeroBRL()
}

// Validate reports whether the raw value is inside the mode's legal range
// against the given base amount. Used by the UI boundary before advancing;
// AmountOff itself always clamps.
func (d *Discount) Validate(base valueobject.Money) error {
	if d == nil {
		return nil
	}
	if d.Value.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount value cannot be negative")
	}
	switch d.Mode {
	case DiscountPercent:
		if d.Value.GreaterThan(hundred) {
			return shared.NewDomainError("INVALID_DISCOUNT", "Percent discount cannot exceed 100")
		}
	case DiscountAbsolute:
		if d.Value.GreaterThan(base.Amount()) {
			return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the item subtotal")
		}
	default:
		return shared.NewDomainError("INVALID_DISCOUNT_MODE", "Discount mode must be percent or value")
	}
	return nil
}

func clampDecimal(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
