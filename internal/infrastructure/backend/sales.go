package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercatto/pos/internal/domain/sale"
	"github.com/mercatto/pos/internal/domain/shared/valueobject"
)

// SalesClient implements sale.SalesGateway against the retail backend
type SalesClient struct {
	client *Client
}

// NewSalesClient creates a sales gateway
func NewSalesClient(client *Client) *SalesClient {
	return &SalesClient{client: client}
}

type saleItemPayload struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}

type salePaymentPayload struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
	Notes  *string `json:"notes"`
}

type salePayload struct {
	CustomerID *uuid.UUID           `json:"customer_id"`
	Items      []saleItemPayload    `json:"items"`
	Payments   []salePaymentPayload `json:"payments"`
	Notes      *string              `json:"notes,omitempty"`
}

type saleResponse struct {
	ID          uuid.UUID   `json:"id"`
	TotalAmount json.Number `json:"total_amount"`
	CreatedAt   time.Time   `json:"created_at"`
}

// CreateSale persists a composed sale
func (c *SalesClient) CreateSale(ctx context.Context, composed sale.ComposedSale) (*sale.Sale, error) {
	payload := salePayload{
		CustomerID: composed.CustomerID,
		Items:      make([]saleItemPayload, 0, len(composed.Items)),
		Payments:   make([]salePaymentPayload, 0, len(composed.Payments)),
		Notes:      composed.Notes,
	}
	for _, item := range composed.Items {
		payload.Items = append(payload.Items, saleItemPayload{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: wireAmount(item.UnitPrice),
		})
	}
	for _, p := range composed.Payments {
		payload.Payments = append(payload.Payments, salePaymentPayload{
			Method: string(p.Method),
			Amount: wireAmount(p.Amount),
			Notes:  p.Notes,
		})
	}

	var resp saleResponse
	if err := c.client.do(ctx, http.MethodPost, "/sales", payload, &resp, c.client.timeout); err != nil {
		return nil, err
	}
	total, err := moneyFromNumber(resp.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("parsing sale total: %w", err)
	}
	return &sale.Sale{ID: resp.ID, TotalAmount: total, CreatedAt: resp.CreatedAt}, nil
}

// wireAmount renders Money as the two-decimal JSON number the backend
// expects. Only the wire boundary converts out of exact decimals.
func wireAmount(m valueobject.Money) float64 {
	f, _ := m.Round(2).Amount().Float64()
	return f
}

func moneyFromNumber(n json.Number) (valueobject.Money, error) {
	if n == "" {
		return valueobject.ZeroBRL(), nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return valueobject.Money{}, err
	}
	return valueobject.NewMoneyBRL(d), nil
}
