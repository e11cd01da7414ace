package sale

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercatto/pos/internal/domain/shared/valueobject"
)

func mustItem(t *testing.T, price string, qty int64) LineItem {
	t.Helper()
	item, err := NewLineItem(uuid.New(), "item", "", brl(price), qty, nil)
	require.NoError(t, err)
	return *item
}

func TestComputeSummary(t *testing.T) {
	t.Run("overall percent discount against post-item total", func(t *testing.T) {
		items := []LineItem{mustItem(t, "10.00", 3)}
		overall := &Discount{Mode: DiscountPercent, Value: decimal.NewFromInt(10)}

		s := ComputeSummary(items, overall)
		assert.Equal(t, "30.00", s.Subtotal.StringFixed(2))
		assert.Equal(t, "0.00", s.ItemDiscountTotal.StringFixed(2))
		assert.Equal(t, "3.00", s.OverallDiscountApplied.StringFixed(2))
		assert.Equal(t, "27.00", s.Total.StringFixed(2))
	})

	t.Run("item and overall discounts stack", func(t *testing.T) {
		a := mustItem(t, "20.00", 2)
		a.Discount = &Discount{Mode: DiscountAbsolute, Value: decimal.NewFromInt(2)}
		b := mustItem(t, "15.00", 1)

		s := ComputeSummary([]LineItem{a, b}, nil)
		assert.Equal(t, "55.00", s.Subtotal.StringFixed(2))
		assert.Equal(t, "2.00", s.ItemDiscountTotal.StringFixed(2))
		assert.Equal(t, "53.00", s.Total.StringFixed(2))
	})

	t.Run("overall absolute discount clamps to remaining total", func(t *testing.T) {
		items := []LineItem{mustItem(t, "10.00", 1)}
		overall := &Discount{Mode: DiscountAbsolute, Value: decimal.NewFromInt(999)}

		s := ComputeSummary(items, overall)
		assert.Equal(t, "10.00", s.OverallDiscountApplied.StringFixed(2))
		assert.True(t, s.Total.IsZero())
	})

	t.Run("empty draft is all zeros", func(t *testing.T) {
		s := ComputeSummary(nil, nil)
		assert.True(t, s.Subtotal.IsZero())
		assert.True(t, s.Total.IsZero())
	})

	t.Run("recompute is idempotent", func(t *testing.T) {
		items := []LineItem{mustItem(t, "19.90", 7), mustItem(t, "3.33", 2)}
		overall := &Discount{Mode: DiscountPercent, Value: decimal.RequireFromString("12.5")}

		first := ComputeSummary(items, overall)
		second := ComputeSummary(items, overall)
		assert.True(t, first.Total.Equals(second.Total))
		assert.True(t, first.OverallDiscountApplied.Equals(second.OverallDiscountApplied))
	})
}

func composedTotal(items []LineItem) valueobject.Money {
	total := valueobject.ZeroBRL()
	for idx := range items {
		total = total.MustAdd(items[idx].EffectivePrice().MultiplyByInt(items[idx].Quantity))
	}
	return total
}

func TestAllocateOverallDiscount(t *testing.T) {
	t.Run("no discount leaves post-item prices", func(t *testing.T) {
		a := mustItem(t, "20.00", 2)
		a.Discount = &Discount{Mode: DiscountPercent, Value: decimal.NewFromInt(10)}

		out := AllocateOverallDiscount([]LineItem{a}, valueobject.ZeroBRL())
		require.Len(t, out, 1)
		assert.Equal(t, "18.00", out[0].EffectivePrice().StringFixed(2))
	})

	t.Run("single item absorbs the whole discount", func(t *testing.T) {
		items := []LineItem{mustItem(t, "10.00", 3)}
		out := AllocateOverallDiscount(items, brl("3.00"))
		assert.Equal(t, "9.00", out[0].EffectivePrice().StringFixed(2))
	})

	t.Run("greedy walk in item order", func(t *testing.T) {
		items := []LineItem{mustItem(t, "10.00", 1), mustItem(t, "20.00", 1)}
		out := AllocateOverallDiscount(items, brl("15.00"))

		// first line absorbs its full 10.00, second the remaining 5.00
		assert.Equal(t, "0.00", out[0].EffectivePrice().StringFixed(2))
		assert.Equal(t, "15.00", out[1].EffectivePrice().StringFixed(2))
	})

	t.Run("conservation across the composed lines", func(t *testing.T) {
		a := mustItem(t, "19.90", 3)
		a.Discount = &Discount{Mode: DiscountPercent, Value: decimal.NewFromInt(15)}
		b := mustItem(t, "7.77", 2)
		c := mustItem(t, "101.13", 1)
		items := []LineItem{a, b, c}

		overall := &Discount{Mode: DiscountPercent, Value: decimal.NewFromInt(10)}
		summary := ComputeSummary(items, overall)
		out := AllocateOverallDiscount(items, summary.OverallDiscountApplied)

		diff := composedTotal(out).MustSubtract(summary.Total).Abs()
		assert.True(t, diff.Amount().LessThanOrEqual(decimal.RequireFromString("0.05")),
			"composed total %s drifted from summary total %s", composedTotal(out).StringFixed(2), summary.Total.StringFixed(2))
	})

	t.Run("input items are never mutated", func(t *testing.T) {
		items := []LineItem{mustItem(t, "10.00", 2)}
		_ = AllocateOverallDiscount(items, brl("5.00"))
		assert.Nil(t, items[0].EffectiveUnitPrice)
	})

	t.Run("discount larger than every subtotal zeroes the lines", func(t *testing.T) {
		items := []LineItem{mustItem(t, "10.00", 1), mustItem(t, "5.00", 1)}

		// summary clamps to 15.00 before allocation, mirror that here
		out := AllocateOverallDiscount(items, brl("15.00"))
		assert.Equal(t, "0.00", out[0].EffectivePrice().StringFixed(2))
		assert.Equal(t, "0.00", out[1].EffectivePrice().StringFixed(2))
	})

	t.Run("items skipped by an exhausted walk keep their price", func(t *testing.T) {
		items := []LineItem{mustItem(t, "30.00", 1), mustItem(t, "12.50", 2)}
		out := AllocateOverallDiscount(items, brl("10.00"))

		assert.Equal(t, "20.00", out[0].EffectivePrice().StringFixed(2))
		assert.Equal(t, "12.50", out[1].EffectivePrice().StringFixed(2))
	})
}
