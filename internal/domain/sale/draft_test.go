package sale

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleDraftNew(t *testing.T) {
	draft := NewSaleDraft()
	assert.NotEqual(t, uuid.Nil, draft.ID)
	assert.Empty(t, draft.Items)
	require.Len(t, draft.Payments, len(PaymentMethods))
	for idx, p := range draft.Payments {
		assert.Equal(t, PaymentMethods[idx], p.Method)
		assert.False(t, p.Enabled)
		assert.True(t, p.Amount.IsZero())
	}
}

func TestSaleDraftAddItem(t *testing.T) {
	t.Run("same product merges into one line", func(t *testing.T) {
		draft := NewSaleDraft()
		productID := uuid.New()
		stock := decimal.NewFromInt(10)

		require.NoError(t, draft.AddItem(productID, "Feijao", "FJ-1", brl("8.50"), 2, &stock))
		require.NoError(t, draft.AddItem(productID, "Feijao", "FJ-1", brl("8.50"), 3, &stock))

		require.Len(t, draft.Items, 1)
		assert.Equal(t, int64(5), draft.Items[0].Quantity)
	})

	t.Run("merge beyond stock rejects without mutation", func(t *testing.T) {
		draft := NewSaleDraft()
		productID := uuid.New()
		stock := decimal.NewFromInt(4)

		require.NoError(t, draft.AddItem(productID, "Feijao", "FJ-1", brl("8.50"), 3, &stock))
		err := draft.AddItem(productID, "Feijao", "FJ-1", brl("8.50"), 2, &stock)

		assert.Error(t, err)
		require.Len(t, draft.Items, 1)
		assert.Equal(t, int64(3), draft.Items[0].Quantity)
	})

	t.Run("distinct products keep insertion order", func(t *testing.T) {
		draft := NewSaleDraft()
		first, second := uuid.New(), uuid.New()
		require.NoError(t, draft.AddItem(first, "A", "", brl("1.00"), 1, nil))
		require.NoError(t, draft.AddItem(second, "B", "", brl("2.00"), 1, nil))

		require.Len(t, draft.Items, 2)
		assert.Equal(t, first, draft.Items[0].ProductID)
		assert.Equal(t, second, draft.Items[1].ProductID)
	})
}

func TestSaleDraftUpdateAndRemove(t *testing.T) {
	draft := NewSaleDraft()
	productID := uuid.New()
	stock := decimal.NewFromInt(5)
	require.NoError(t, draft.AddItem(productID, "A", "", brl("10.00"), 1, &stock))

	t.Run("quantity update within stock", func(t *testing.T) {
		require.NoError(t, draft.UpdateItemQuantity(productID, 5))
		assert.Equal(t, int64(5), draft.Items[0].Quantity)
	})

	t.Run("quantity update above stock fails", func(t *testing.T) {
		assert.Error(t, draft.UpdateItemQuantity(productID, 6))
		assert.Equal(t, int64(5), draft.Items[0].Quantity)
	})

	t.Run("discount above line base fails", func(t *testing.T) {
		d := &Discount{Mode: DiscountAbsolute, Value: decimal.NewFromInt(51)}
		assert.Error(t, draft.SetItemDiscount(productID, d))
		assert.Nil(t, draft.Items[0].Discount)
	})

	t.Run("clearing discount with nil", func(t *testing.T) {
		d := &Discount{Mode: DiscountPercent, Value: decimal.NewFromInt(5)}
		require.NoError(t, draft.SetItemDiscount(productID, d))
		require.NoError(t, draft.SetItemDiscount(productID, nil))
		assert.Nil(t, draft.Items[0].Discount)
	})

	t.Run("remove unknown product fails", func(t *testing.T) {
		assert.Error(t, draft.RemoveItem(uuid.New()))
	})

	t.Run("remove drops the line", func(t *testing.T) {
		require.NoError(t, draft.RemoveItem(productID))
		assert.Empty(t, draft.Items)
	})
}

func TestSaleDraftPayments(t *testing.T) {
	draft := NewSaleDraft()

	t.Run("enable records the amount", func(t *testing.T) {
		require.NoError(t, draft.SetPayment(PaymentPix, true, brl("12.00")))
		for _, p := range draft.Payments {
			if p.Method == PaymentPix {
				assert.True(t, p.Enabled)
				assert.Equal(t, "12.00", p.Amount.StringFixed(2))
			}
		}
	})

	t.Run("disable clears the amount", func(t *testing.T) {
		require.NoError(t, draft.SetPayment(PaymentPix, false, brl("12.00")))
		for _, p := range draft.Payments {
			if p.Method == PaymentPix {
				assert.False(t, p.Enabled)
				assert.True(t, p.Amount.IsZero())
			}
		}
	})

	t.Run("unknown method fails", func(t *testing.T) {
		assert.Error(t, draft.SetPayment("cheque", true, brl("1.00")))
	})
}

func TestSaleDraftCompose(t *testing.T) {
	newDraft := func(t *testing.T) *SaleDraft {
		t.Helper()
		draft := NewSaleDraft()
		require.NoError(t, draft.SetCustomer(CustomerRef{ID: uuid.New(), Name: "Maria"}))
		require.NoError(t, draft.AddItem(uuid.New(), "A", "", brl("10.00"), 3, nil))
		require.NoError(t, draft.SetOverallDiscount(&Discount{Mode: DiscountPercent, Value: decimal.NewFromInt(10)}))
		return draft
	}

	t.Run("composed sale carries redistributed prices", func(t *testing.T) {
		draft := newDraft(t)
		require.NoError(t, draft.SetPayment(PaymentCash, true, brl("27.00")))

		composed, err := draft.Compose()
		require.NoError(t, err)
		require.NotNil(t, composed.CustomerID)
		require.Len(t, composed.Items, 1)
		assert.Equal(t, "9.00", composed.Items[0].UnitPrice.StringFixed(2))
		require.Len(t, composed.Payments, 1)
		assert.Equal(t, PaymentCash, composed.Payments[0].Method)
		assert.Equal(t, "27.00", composed.Payments[0].Amount.StringFixed(2))
	})

	t.Run("compose fails on unreconciled payments", func(t *testing.T) {
		draft := newDraft(t)
		require.NoError(t, draft.SetPayment(PaymentCash, true, brl("20.00")))
		_, err := draft.Compose()
		assert.Error(t, err)
	})

	t.Run("compose fails without items", func(t *testing.T) {
		draft := NewSaleDraft()
		_, err := draft.Compose()
		assert.Error(t, err)
	})

	t.Run("compose leaves the draft untouched", func(t *testing.T) {
		draft := newDraft(t)
		require.NoError(t, draft.SetPayment(PaymentCash, true, brl("27.00")))
		_, err := draft.Compose()
		require.NoError(t, err)
		assert.Nil(t, draft.Items[0].EffectiveUnitPrice)
	})
}
