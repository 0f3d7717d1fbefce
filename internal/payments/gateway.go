package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StatusCredit is the gateway status of a successful payment.
const StatusCredit = "Credit"

// DefaultInstamojoURL is the production API base.
const DefaultInstamojoURL = "https://www.instamojo.com/api/1.1"

// CreateParams describes a payment request
type CreateParams struct {
	Amount      string
	Purpose     string
	BuyerName   string
	Email       string
	RedirectURL string
}

// PaymentRequest is a created gateway payment request
type PaymentRequest struct {
	ID     string
	URL    string
	Status string
}

// PaymentStatus is the gateway's view of one payment against a request
type PaymentStatus struct {
	RequestID string
	PaymentID string
	Status    string
}

// Gateway creates and looks up payments at a payment provider
type Gateway interface {
	CreatePaymentRequest(ctx context.Context, params CreateParams) (*PaymentRequest, error)
	GetPayment(ctx context.Context, requestID, paymentID string) (*PaymentStatus, error)
}

// InstamojoGateway talks to the Instamojo v1.1 API
type InstamojoGateway struct {
	baseURL   string
	apiKey    string
	authToken string
	client    *http.Client
}

// NewInstamojoGateway creates a gateway client. An empty baseURL uses DefaultInstamojoURL.
func NewInstamojoGateway(baseURL, apiKey, authToken string, client *http.Client) *InstamojoGateway {
	if baseURL == "" {
		baseURL = DefaultInstamojoURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &InstamojoGateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		authToken: authToken,
		client:    client,
	}
}

type instamojoResponse struct {
	Success        bool            `json:"success"`
	Message        json.RawMessage `json:"message,omitempty"`
	PaymentRequest struct {
		ID      string `json:"id"`
		Status  string `json:"status"`
		LongURL string `json:"longurl"`
		Payment struct {
			PaymentID string `json:"payment_id"`
			Status    string `json:"status"`
		} `json:"payment"`
	} `json:"payment_request"`
}

// CreatePaymentRequest creates a one-off payment request and returns its checkout URL.
func (g *InstamojoGateway) CreatePaymentRequest(ctx context.Context, params CreateParams) (*PaymentRequest, error) {
	form := url.Values{}
	form.Set("amount", params.Amount)
	form.Set("purpose", params.Purpose)
	form.Set("redirect_url", params.RedirectURL)
	form.Set("allow_repeated_payments", "false")
	if params.BuyerName != "" {
		form.Set("buyer_name", params.BuyerName)
	}
	if params.Email != "" {
		form.Set("email", params.Email)
	}

	var resp instamojoResponse
	if err := g.do(ctx, "create", http.MethodPost, "/payment-requests/", strings.NewReader(form.Encode()), &resp); err != nil {
		return nil, err
	}
	if resp.PaymentRequest.LongURL == "" {
		return nil, &GatewayError{Op: "create", Message: "no payment URL returned"}
	}
	return &PaymentRequest{
		ID:     resp.PaymentRequest.ID,
		URL:    resp.PaymentRequest.LongURL,
		Status: resp.PaymentRequest.Status,
	}, nil
}

// GetPayment looks up a payment made against a request.
func (g *InstamojoGateway) GetPayment(ctx context.Context, requestID, paymentID string) (*PaymentStatus, error) {
	path := fmt.Sprintf("/payment-requests/%s/%s/", url.PathEscape(requestID), url.PathEscape(paymentID))

	var resp instamojoResponse
	if err := g.do(ctx, "lookup", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &PaymentStatus{
		RequestID: resp.PaymentRequest.ID,
		PaymentID: resp.PaymentRequest.Payment.PaymentID,
		Status:    resp.PaymentRequest.Payment.Status,
	}, nil
}

func (g *InstamojoGateway) do(ctx context.Context, op, method, path string, body io.Reader, out *instamojoResponse) error {
	if g.apiKey == "" || g.authToken == "" {
		return &GatewayError{Op: op, Cause: ErrNotConfigured}
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return &GatewayError{Op: op, Cause: err}
	}
	req.Header.Set("X-Api-Key", g.apiKey)
	req.Header.Set("X-Auth-Token", g.authToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return &GatewayError{Op: op, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &GatewayError{Op: op, StatusCode: resp.StatusCode, Cause: err}
	}
	if resp.StatusCode == http.StatusNotFound {
		return &GatewayError{Op: op, StatusCode: resp.StatusCode, Cause: ErrRequestNotFound}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &GatewayError{Op: op, StatusCode: resp.StatusCode, Message: "invalid response", Cause: err}
	}
	if resp.StatusCode >= 300 || !out.Success {
		return &GatewayError{Op: op, StatusCode: resp.StatusCode, Message: strings.Trim(string(out.Message), `"`)}
	}
	return nil
}
