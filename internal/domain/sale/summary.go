package sale

import (
	"github.com/shopspring/decimal"

	"github.com/mercatto/pos/internal/domain/shared/valueobject"
)

// SaleSummary is the derived money breakdown of a draft; it is recomputed
// from the items on every call and never stored.
type SaleSummary struct {
	Subtotal               valueobject.Money
	ItemDiscountTotal      valueobject.Money
	OverallDiscountApplied valueobject.Money
	Total                  valueobject.Money
}

// ComputeSummary derives the chargeable total from the line items and the
// optional overall discount. The overall discount is measured against the
// total after item-level discounts and re-clamped so the total can never go
// negative, even if the inputs were edited out from under it.
func ComputeSummary(items []LineItem, overall *Discount) SaleSummary {
	subtotal := valueobject.ZeroBRL()
	itemDiscount := valueobject.ZeroBRL()
	for idx := range items {
		totals := items[idx].Totals()
		subtotal = subtotal.MustAdd(totals.Base)
		itemDiscount = itemDiscount.MustAdd(totals.DiscountValue)
	}
	afterItems := subtotal.MustSubtract(itemDiscount)

	applied := overall.AmountOff(afterItems)
	if greater, _ := applied.GreaterThan(afterItems); greater {
		applied = afterItems
	}

	total := afterItems.MustSubtract(applied)
	if total.IsNegative() {
		total = valueobject.ZeroBRL()
	}

	return SaleSummary{
		Subtotal:               subtotal,
		ItemDiscountTotal:      itemDiscount,
		OverallDiscountApplied: applied,
		Total:                  total,
	}
}

// AllocateOverallDiscount spreads a single overall discount back across the
// line items so persistence sees a consistent per-line unit price.
//
// The allocation is greedy and sequential in item order: each item absorbs
// as much of the remaining discount as its post-item-discount subtotal
// allows, and the walk stops once the discount is exhausted. If rounding
// somehow leaves a residue after a full pass, the residue is forced onto the
// first item against its original subtotal, floored at zero. Items the walk
// never reached keep their own post-item-discount unit price.
//
// The first-item bias is deliberate: persisted unit prices must match what
// the operator saw on screen, so the order-dependent result is part of the
// contract, not an artifact to fair-split away.
func AllocateOverallDiscount(items []LineItem, applied valueobject.Money) []LineItem {
	result := make([]LineItem, len(items))
	for idx := range items {
		result[idx] = items[idx].clone()
	}
	if len(result) == 0 || !applied.IsPositive() {
		return fillUntouched(result)
	}

	remaining := applied
	for idx := range result {
		subtotal := result[idx].Totals().Subtotal
		if !subtotal.IsPositive() {
			continue
		}
		take, err := subtotal.Min(remaining)
		if err != nil {
			continue
		}
		newUnit := perUnit(subtotal.MustSubtract(take), result[idx].Quantity)
		result[idx].EffectiveUnitPrice = &newUnit
		remaining = remaining.MustSubtract(take)
		if !remaining.IsPositive() {
			break
		}
	}

	if remaining.IsPositive() && len(result) > 0 {
		first := &result[0]
		subtotal := first.Totals().Subtotal
		newSubtotal := subtotal.MustSubtract(remaining)
		if newSubtotal.IsNegative() {
			newSubtotal = valueobject.ZeroBRL()
		}
		newUnit := perUnit(newSubtotal, first.Quantity)
		first.EffectiveUnitPrice = &newUnit
	}

	return fillUntouched(result)
}

// fillUntouched gives every item without an allocated price its own
// post-item-discount unit price, so the composed sale is uniform.
func fillUntouched(items []LineItem) []LineItem {
	for idx := range items {
		if items[idx].EffectiveUnitPrice != nil {
			continue
		}
		unit := perUnit(items[idx].Totals().Subtotal, items[idx].Quantity)
		items[idx].EffectiveUnitPrice = &unit
	}
	return items
}

func perUnit(subtotal valueobject.Money, quantity int64) valueobject.Money {
	if quantity <= 0 {
		quantity = 1
	}
	unit, err := subtotal.Divide(decimal.NewFromInt(quantity))
	if err != nil {
		return valueobject.ZeroBRL()
	}
	return unit
}
