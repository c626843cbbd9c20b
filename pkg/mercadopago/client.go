package mercadopago

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Payment is the subset of the MercadoPago payment resource the webhook
// processor needs. ExternalReference carries back the JSON blob the
// application attached at checkout time.
type Payment struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	TransactionAmount float64 `json:"transaction_amount"`
	CurrencyID        string  `json:"currency_id"`
	ExternalReference string  `json:"external_reference"`
}

// Client fetches payment details from the MercadoPago API. Webhook
// notifications only carry a payment id; the processor must call back
// for the full resource.
type Client interface {
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
}

type httpClient struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

func NewClient(baseURL, accessToken string) Client {
	return &httpClient{
		baseURL:     baseURL,
		accessToken: accessToken,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpClient) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, paymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mercado pago request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mercado pago returned status %d for payment %s", resp.StatusCode, paymentID)
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("failed to decode payment %s: %w", paymentID, err)
	}
	return &payment, nil
}
