package sale

import (
	"github.com/shopspring/decimal"

	"github.com/mercatto/pos/internal/domain/shared"
	"github.com/mercatto/pos/internal/domain/shared/valueobject"
)

// PaymentMethod is the wire value the retail backend expects
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "dinheiro"
	PaymentPix         PaymentMethod = "pix"
	PaymentCard        PaymentMethod = "cartao"
	PaymentStoreCredit PaymentMethod = "fiado"
)

// PaymentMethods lists all supported methods in presentation order
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentPix, PaymentCard, PaymentStoreCredit}

// IsValid checks if the method is one the backend accepts
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentPix, PaymentCard, PaymentStoreCredit:
		return true
	}
	return false
}

// PaymentLine is one method's slice of the split. Amount is only meaningful
// while Enabled is true.
type PaymentLine struct {
	Method  PaymentMethod
	Enabled bool
	Amount  valueobject.Money
}

// ReconcileTolerance absorbs the rounding that percent discounts introduce.
// Fixed at 0.05 currency units, not configurable.
var ReconcileTolerance = decimal.RequireFromString("0.05")

// Reconciliation is the result of checking a payment split against the total
type Reconciliation struct {
	TotalPayments valueobject.Money
	Diff          valueobject.Money
	Valid         bool
}

// Reconcile checks that the enabled payment lines cover the sale total.
// Valid requires at least one enabled line, every enabled amount strictly
// positive, and |total - sum| within the tolerance.
func Reconcile(total valueobject.Money, payments []PaymentLine) Reconciliation {
	sum := valueobject.ZeroBRL()
	enabled := 0
	allPositive := true
	for _, p := range payments {
		if !p.Enabled {
			continue
		}
		enabled++
		if !p.Amount.IsPositive() {
			allPositive = false
			continue
		}
		sum = sum.MustAdd(p.Amount)
	}

	diff := total.MustSubtract(sum)
	valid := enabled > 0 &&
		allPositive &&
		diff.Abs().Amount().LessThanOrEqual(ReconcileTolerance)

	return Reconciliation{TotalPayments: sum, Diff: diff, Valid: valid}
}

// ValidatePayments runs Reconcile and converts the outcome into the domain
// error the confirmation step surfaces.
func ValidatePayments(total valueobject.Money, payments []PaymentLine) error {
	for _, p := range payments {
		if p.Enabled && !p.Method.IsValid() {
			return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+string(p.Method))
		}
	}
	if !Reconcile(total, payments).Valid {
		return shared.ErrPaymentMismatch
	}
	return nil
}
