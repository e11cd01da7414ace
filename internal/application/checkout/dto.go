package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercatto/pos/internal/domain/sale"
	"github.com/mercatto/pos/internal/domain/shared"
	"github.com/mercatto/pos/internal/domain/shared/valueobject"
)

// AddItemRequest carries the product snapshot the terminal holds when the
// operator picks a product. Stock is optional; absent means untracked.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	SKU       string    `json:"sku"`
	UnitPrice string    `json:"unit_price" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
	Stock     *string   `json:"stock"`
}

func (r AddItemRequest) maxQuantity() *decimal.Decimal {
	if r.Stock == nil {
		return nil
	}
	d, err := decimal.NewFromString(*r.Stock)
	if err != nil {
		return nil
	}
	return &d
}

// DiscountRequest sets or clears a discount. A nil/empty mode clears.
type DiscountRequest struct {
	Mode  string `json:"mode"`
	Value string `json:"value"`
}

func (r DiscountRequest) discount() (*sale.Discount, error) {
	if r.Mode == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(r.Value)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount value is not a valid number")
	}
	return sale.NewDiscount(sale.DiscountMode(r.Mode), value)
}

// UpdateItemRequest patches a line. DiscountSet distinguishes "leave the
// discount alone" from "clear it".
type UpdateItemRequest struct {
	Quantity    *int64          `json:"quantity"`
	DiscountSet bool            `json:"discount_set"`
	Discount    DiscountRequest `json:"discount"`
}

func (r UpdateItemRequest) discount() (*sale.Discount, error) {
	return r.Discount.discount()
}

// PaymentRequest toggles one payment method line. The amount travels as the
// operator's raw digit buffer ("2700" -> 27.00).
type PaymentRequest struct {
	Method       string `json:"method" binding:"required,paymethod"`
	Enabled      bool   `json:"enabled"`
	AmountDigits string `json:"amount_digits"`
}

// ItemResponse is one draft line with its computed totals
type ItemResponse struct {
	ProductID     uuid.UUID `json:"product_id"`
	Name          string    `json:"name"`
	SKU           string    `json:"sku"`
	UnitPrice     string    `json:"unit_price"`
	Quantity      int64     `json:"quantity"`
	Stock         *string   `json:"stock,omitempty"`
	DiscountMode  string    `json:"discount_mode,omitempty"`
	DiscountValue string    `json:"discount_value,omitempty"`
	Base          string    `json:"base"`
	DiscountTotal string    `json:"discount_total"`
	Subtotal      string    `json:"subtotal"`
}

// PaymentResponse is one payment line of the split
type PaymentResponse struct {
	Method  string `json:"method"`
	Enabled bool   `json:"enabled"`
	Amount  string `json:"amount"`
}

// SummaryResponse is the derived money breakdown
type SummaryResponse struct {
	Subtotal        string `json:"subtotal"`
	ItemDiscount    string `json:"item_discount"`
	OverallDiscount string `json:"overall_discount"`
	Total           string `json:"total"`
	PaymentsTotal   string `json:"payments_total"`
	PaymentsDiff    string `json:"payments_diff"`
	PaymentsValid   bool   `json:"payments_valid"`
}

// DraftResponse is the full flow state the terminal renders
type DraftResponse struct {
	DraftID      uuid.UUID         `json:"draft_id"`
	Step         Step              `json:"step"`
	CustomerID   *uuid.UUID        `json:"customer_id,omitempty"`
	CustomerName string            `json:"customer_name,omitempty"`
	CustomerDebt string            `json:"customer_debt,omitempty"`
	Items        []ItemResponse    `json:"items"`
	Payments     []PaymentResponse `json:"payments"`
	Summary      SummaryResponse   `json:"summary"`
}

func moneyString(m valueobject.Money) string {
	return m.StringFixed(2)
}

func toDraftResponse(f *flow) DraftResponse {
	draft := f.draft
	summary := draft.Summary()
	rec := sale.Reconcile(summary.Total, draft.Payments)

	resp := DraftResponse{
		DraftID:  draft.ID,
		Step:     f.step,
		Items:    make([]ItemResponse, 0, len(draft.Items)),
		Payments: make([]PaymentResponse, 0, len(draft.Payments)),
		Summary: SummaryResponse{
			Subtotal:        moneyString(summary.Subtotal),
			ItemDiscount:    moneyString(summary.ItemDiscountTotal),
			OverallDiscount: moneyString(summary.OverallDiscountApplied),
			Total:           moneyString(summary.Total),
			PaymentsTotal:   moneyString(rec.TotalPayments),
			PaymentsDiff:    moneyString(rec.Diff),
			PaymentsValid:   rec.Valid,
		},
	}
	if draft.Customer != nil {
		id := draft.Customer.ID
		resp.CustomerID = &id
		resp.CustomerName = draft.Customer.Name
	}
	for idx := range draft.Items {
		item := &draft.Items[idx]
		totals := item.Totals()
		ir := ItemResponse{
			ProductID:     item.ProductID,
			Name:          item.Name,
			SKU:           item.SKU,
			UnitPrice:     moneyString(item.UnitPrice),
			Quantity:      item.Quantity,
			Base:          moneyString(totals.Base),
			DiscountTotal: moneyString(totals.DiscountValue),
			Subtotal:      moneyString(totals.Subtotal),
		}
		if item.MaxQuantity != nil {
			stock := item.MaxQuantity.String()
			ir.Stock = &stock
		}
		if item.Discount != nil {
			ir.DiscountMode = string(item.Discount.Mode)
			ir.DiscountValue = item.Discount.Value.String()
		}
		resp.Items = append(resp.Items, ir)
	}
	for _, p := range draft.Payments {
		resp.Payments = append(resp.Payments, PaymentResponse{
			Method:  string(p.Method),
			Enabled: p.Enabled,
			Amount:  moneyString(p.Amount),
		})
	}
	return resp
}
