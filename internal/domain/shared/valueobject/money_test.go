package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), BRL)
		require.NoError(t, err)
		assert.Equal(t, BRL, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyBRLFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyBRLFromString("123.45")
		require.NoError(t, err)
		assert.Equal(t, BRL, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyBRLFromString("not-a-number")
		assert.Error(t, err)
	})
}

func TestFromCentavos(t *testing.T) {
	m := FromCentavos(2700)
	assert.Equal(t, "27.00", m.StringFixed(2))
	assert.Equal(t, int64(2700), m.Centavos())
}

func TestMoneyFromDigits(t *testing.T) {
	t.Run("digit buffer becomes centavos", func(t *testing.T) {
		m, err := MoneyFromDigits("2700")
		require.NoError(t, err)
		assert.Equal(t, "27.00", m.StringFixed(2))
	})

	t.Run("leading zeros are harmless", func(t *testing.T) {
		m, err := MoneyFromDigits("005")
		require.NoError(t, err)
		assert.Equal(t, "0.05", m.StringFixed(2))
	})

	t.Run("formatted input strips to digits", func(t *testing.T) {
		m, err := MoneyFromDigits("R$ 12,34")
		require.NoError(t, err)
		assert.Equal(t, "12.34", m.StringFixed(2))
	})

	t.Run("empty buffer is zero", func(t *testing.T) {
		m, err := MoneyFromDigits("")
		require.NoError(t, err)
		assert.True(t, m.IsZero())
	})

	t.Run("round-trips through Digits", func(t *testing.T) {
		m, err := MoneyFromDigits("123456")
		require.NoError(t, err)
		assert.Equal(t, "123456", m.Digits())
	})
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyBRL(decimal.NewFromFloat(10.50))
	b := NewMoneyBRL(decimal.NewFromFloat(4.25))

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "14.75", sum.StringFixed(2))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "6.25", diff.StringFixed(2))
	})

	t.Run("add rejects currency mismatch", func(t *testing.T) {
		usd := Zero(USD)
		_, err := a.Add(usd)
		assert.Error(t, err)
	})

	t.Run("multiply by int", func(t *testing.T) {
		assert.Equal(t, "31.50", a.MultiplyByInt(3).StringFixed(2))
	})

	t.Run("divide", func(t *testing.T) {
		half, err := a.Divide(decimal.NewFromInt(2))
		require.NoError(t, err)
		assert.Equal(t, "5.25", half.StringFixed(2))
	})

	t.Run("divide by zero fails", func(t *testing.T) {
		_, err := a.Divide(decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("operations do not mutate the receiver", func(t *testing.T) {
		_ = a.MustAdd(b)
		_ = a.Negate()
		assert.Equal(t, "10.50", a.StringFixed(2))
	})
}

func TestMoneyComparisons(t *testing.T) {
	small := FromCentavos(100)
	big := FromCentavos(200)

	less, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, less)

	min, err := small.Min(big)
	require.NoError(t, err)
	assert.True(t, min.Equals(small))

	max, err := small.Max(big)
	require.NoError(t, err)
	assert.True(t, max.Equals(big))

	assert.True(t, FromCentavos(100).Equals(NewMoneyBRL(decimal.NewFromInt(1))))
}

func TestMoneyCentavosRounding(t *testing.T) {
	m := NewMoneyBRL(decimal.RequireFromString("10.005"))
	assert.Equal(t, int64(1001), m.Centavos())

	m = NewMoneyBRL(decimal.RequireFromString("10.004"))
	assert.Equal(t, int64(1000), m.Centavos())
}

func TestMoneyDisplay(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "R$ 0,00"},
		{"27", "R$ 27,00"},
		{"1234.56", "R$ 1.234,56"},
		{"1234567.89", "R$ 1.234.567,89"},
		{"-42.10", "-R$ 42,10"},
	}
	for _, tt := range tests {
		m, err := NewMoneyBRLFromString(tt.amount)
		require.NoError(t, err)
		assert.Equal(t, tt.want, m.Display())
	}
}

func TestMoneyJSON(t *testing.T) {
	t.Run("marshals amount and currency", func(t *testing.T) {
		m := FromCentavos(1050)
		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"10.5","currency":"BRL"}`, string(data))
	})

	t.Run("unmarshal defaults currency to BRL", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"99.90"}`), &m)
		require.NoError(t, err)
		assert.Equal(t, BRL, m.Currency())
		assert.Equal(t, "99.90", m.StringFixed(2))
	})

	t.Run("unmarshal rejects bad amount", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"abc"}`), &m)
		assert.Error(t, err)
	})
}
