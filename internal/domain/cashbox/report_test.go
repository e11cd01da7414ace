package cashbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercatto/pos/internal/domain/shared/valueobject"
)

func brl(s string) valueobject.Money {
	m, err := valueobject.NewMoneyBRLFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func TestNewCountDiff(t *testing.T) {
	t.Run("surplus", func(t *testing.T) {
		diff := NewCountDiff(brl("105.00"), brl("100.00"))
		assert.True(t, diff.IsSurplus())
		assert.False(t, diff.IsShortage())
		assert.Equal(t, "5.00", diff.Amount.StringFixed(2))
	})

	t.Run("shortage", func(t *testing.T) {
		diff := NewCountDiff(brl("95.00"), brl("100.00"))
		assert.True(t, diff.IsShortage())
		assert.Equal(t, "-5.00", diff.Amount.StringFixed(2))
	})

	t.Run("exact match", func(t *testing.T) {
		diff := NewCountDiff(brl("100.00"), brl("100.00"))
		assert.False(t, diff.IsSurplus())
		assert.False(t, diff.IsShortage())
	})

	t.Run("rounds to centavos before classifying", func(t *testing.T) {
		diff := NewCountDiff(brl("100.004"), brl("100.00"))
		assert.False(t, diff.IsSurplus())
		assert.True(t, diff.Amount.IsZero())
	})
}

func TestCountDiffCorrectingEntry(t *testing.T) {
	t.Run("surplus posts revenue", func(t *testing.T) {
		entry := NewCountDiff(brl("105.00"), brl("100.00")).CorrectingEntry()
		require.NotNil(t, entry)
		assert.Equal(t, EntryRevenue, entry.Type)
		assert.Equal(t, CategorySurplus, entry.Category)
		assert.Equal(t, "5.00", entry.Amount.StringFixed(2))
	})

	t.Run("shortage posts expense with positive amount", func(t *testing.T) {
		entry := NewCountDiff(brl("95.00"), brl("100.00")).CorrectingEntry()
		require.NotNil(t, entry)
		assert.Equal(t, EntryExpense, entry.Type)
		assert.Equal(t, CategoryShortage, entry.Category)
		assert.Equal(t, "5.00", entry.Amount.StringFixed(2))
	})

	t.Run("match posts nothing", func(t *testing.T) {
		assert.Nil(t, NewCountDiff(brl("100.00"), brl("100.00")).CorrectingEntry())
	})
}
