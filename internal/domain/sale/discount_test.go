package sale

import (
	"testing"

	"github.com/shopspring/decimal"
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

func TestNewDiscount(t *testing.T) {
	t.Run("accepts percent and value modes", func(t *testing.T) {
		for _, mode := range []DiscountMode{DiscountPercent, DiscountAbsolute} {
			d, err := NewDiscount(mode, decimal.NewFromInt(10))
			require.NoError(t, err)
			assert.Equal(t, mode, d.Mode)
		}
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		_, err := NewDiscount("fraction", decimal.NewFromInt(10))
		assert.Error(t, err)
	})
}

func TestDiscountAmountOff(t *testing.T) {
	base := brl("200.00")

	t.Run("percent of base", func(t *testing.T) {
		d := &Discount{Mode: DiscountPercent, Value: decimal.NewFromInt(10)}
		assert.Equal(t, "20.00", d.AmountOff(base).StringFixed(2))
	})

	t.Run("percent above 100 clamps to base", func(t *testing.T) {
		d := &Discount{Mode: DiscountPercent, Value: decimal.NewFromInt(150)}
		assert.Equal(t, "200.00", d.AmountOff(base).StringFixed(2))
	})

	t.Run("negative percent clamps to zero", func(t *testing.T) {
		d := &Discount{Mode: DiscountPercent, Value: decimal.NewFromInt(-5)}
		assert.True(t, d.AmountOff(base).IsZero())
	})

	t.Run("absolute within base passes through", func(t *testing.T) {
		d := &Discount{Mode: DiscountAbsolute, Value: decimal.RequireFromString("35.50")}
		assert.Equal(t, "35.50", d.AmountOff(base).StringFixed(2))
	})

	t.Run("absolute above base clamps to base", func(t *testing.T) {
		d := &Discount{Mode: DiscountAbsolute, Value: decimal.NewFromInt(999)}
		assert.Equal(t, "200.00", d.AmountOff(base).StringFixed(2))
	})

	t.Run("negative absolute clamps to zero", func(t *testing.T) {
		d := &Discount{Mode: DiscountAbsolute, Value: decimal.NewFromInt(-1)}
		assert.True(t, d.AmountOff(base).IsZero())
	})

	t.Run("nil discount is zero", func(t *testing.T) {
		var d *Discount
		assert.True(t, d.AmountOff(base).IsZero())
	})
}

func TestDiscountValidate(t *testing.T) {
	base := brl("100.00")

	t.Run("percent over 100 is rejected", func(t *testing.T) {
		d := &Discount{Mode: DiscountPercent, Value: decimal.NewFromInt(101)}
		assert.Error(t, d.Validate(base))
	})

	t.Run("absolute over base is rejected", func(t *testing.T) {
		d := &Discount{Mode: DiscountAbsolute, Value: decimal.RequireFromString("100.01")}
		assert.Error(t, d.Validate(base))
	})

	t.Run("negative value is rejected", func(t *testing.T) {
		d := &Discount{Mode: DiscountPercent, Value: decimal.NewFromInt(-1)}
		assert.Error(t, d.Validate(base))
	})

	t.Run("boundary values pass", func(t *testing.T) {
		assert.NoError(t, (&Discount{Mode: DiscountPercent, Value: decimal.NewFromInt(100)}).Validate(base))
		assert.NoError(t, (&Discount{Mode: DiscountAbsolute, Value: decimal.NewFromInt(100)}).Validate(base))
		var d *Discount
		assert.NoError(t, d.Validate(base))
	})
}
