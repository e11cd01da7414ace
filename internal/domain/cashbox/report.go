package cashbox

import (
	"github.com/mercatto/pos/internal/domain/shared/valueobject"
)

// EntryType is the financial entry type on the wire
type EntryType string

const (
	EntryRevenue EntryType = "receita"
	EntryExpense EntryType = "despesa"
)

// Categories for automatic till entries
const (
	CategoryFund     = "Fundo de Caixa"
	CategorySangria  = "Sangria"
	CategoryReforco  = "Reforco"
	CategorySurplus  = "Sobra de Caixa"
	CategoryShortage = "Falta de Caixa"
)

// PaymentTotal is one method's share of the period's receipts
type PaymentTotal struct {
	Method string
	Amount valueobject.Money
}

// Entry is one financial entry inside the report
type Entry struct {
	Type     EntryType
	Category string
	Amount   valueobject.Money
}

// Report is what the reporting backend derives for an open till: receipts
// by payment method, the period's entries, and the cash expected in the
// drawer.
type Report struct {
	Payments     []PaymentTotal
	Entries      []Entry
	ExpectedCash valueobject.Money
}

// CountDiff classifies the counted-versus-expected difference at close.
// The diff is rounded to two decimal places before classification.
type CountDiff struct {
	Amount valueobject.Money // signed, rounded
}

// NewCountDiff computes the close diff from the counted drawer amount and
// the last fetched report.
func NewCountDiff(counted valueobject.Money, expected valueobject.Money) CountDiff {
	diff := counted.MustSubtract(expected).Round(2)
	return CountDiff{Amount: diff}
}

// IsSurplus reports a positive diff (drawer has more than expected)
func (d CountDiff) IsSurplus() bool {
	return d.Amount.IsPositive()
}

// IsShortage reports a negative diff (drawer has less than expected)
func (d CountDiff) IsShortage() bool {
	return d.Amount.IsNegative()
}

// CorrectingEntry returns the entry that settles the diff, or nil when the
// drawer matched and nothing should be posted.
func (d CountDiff) CorrectingEntry() *Entry {
	switch {
	case d.IsSurplus():
		return &Entry{Type: EntryRevenue, Category: CategorySurplus, Amount: d.Amount}
	case d.IsShortage():
		return &Entry{Type: EntryExpense, Category: CategoryShortage, Amount: d.Amount.Abs()}
	}
	return nil
}
