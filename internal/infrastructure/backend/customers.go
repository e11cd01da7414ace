package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/mercatto/pos/internal/domain/sale"
)

// CustomersClient implements sale.CustomerGateway against the retail backend
type CustomersClient struct {
	client *Client
}

// NewCustomersClient creates a customer gateway
func NewCustomersClient(client *Client) *CustomersClient {
	return &CustomersClient{client: client}
}

type customerResponse struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Phone      string      `json:"phone"`
	Email      string      `json:"email"`
	BalanceDue json.Number `json:"balance_due"`
}

// GetCustomer reads one customer record, including the outstanding fiado
// balance shown during sale and cashbox flows.
func (c *CustomersClient) GetCustomer(ctx context.Context, id uuid.UUID) (*sale.Customer, error) {
	var resp customerResponse
	if err := c.client.do(ctx, http.MethodGet, "/customers/"+id.String(), nil, &resp, c.client.timeout); err != nil {
		return nil, err
	}
	balance, err := moneyFromNumber(resp.BalanceDue)
	if err != nil {
		return nil, fmt.Errorf("parsing customer balance: %w", err)
	}
	return &sale.Customer{
		ID:         resp.ID,
		Name:       resp.Name,
		Phone:      resp.Phone,
		Email:      resp.Email,
		BalanceDue: balance,
	}, nil
}
