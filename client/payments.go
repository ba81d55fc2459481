package client

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bodrovis/unitx/jsonapi"
)

// Payment is one of the five payment variants or an UnknownResource.
type Payment interface {
	ResourceID() string
	ResourceType() string
	isPayment()
}

// PaymentAttributes are shared by every payment variant.
type PaymentAttributes struct {
	Direction    string        `json:"direction"`
	Amount       int64         `json:"amount"`
	Description  string        `json:"description"`
	Status       string        `json:"status"`
	Reason       string        `json:"reason,omitempty"`
	Counterparty *Counterparty `json:"counterparty,omitempty"`
	Addenda      string        `json:"addenda,omitempty"`
	Tags         Tags          `json:"tags,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// Counterparty is the inline external party of an ACH or wire payment.
type Counterparty struct {
	RoutingNumber string   `json:"routingNumber"`
	AccountNumber string   `json:"accountNumber"`
	AccountType   string   `json:"accountType,omitempty"`
	Name          string   `json:"name"`
	Address       *Address `json:"address,omitempty"`
}

// ACHPayment is an ACH transfer to or from a counterparty.
type ACHPayment jsonapi.Resource[PaymentAttributes]

func (p ACHPayment) ResourceID() string   { return p.ID }
func (p ACHPayment) ResourceType() string { return p.Type }
func (ACHPayment) isPayment()             {}

// BookPayment moves funds between two Unit accounts.
type BookPayment jsonapi.Resource[PaymentAttributes]

func (p BookPayment) ResourceID() string   { return p.ID }
func (p BookPayment) ResourceType() string { return p.Type }
func (BookPayment) isPayment()             {}

// WirePayment is an outgoing wire.
type WirePayment jsonapi.Resource[PaymentAttributes]

func (p WirePayment) ResourceID() string   { return p.ID }
func (p WirePayment) ResourceType() string { return p.Type }
func (WirePayment) isPayment()             {}

// BillPayment pays a biller.
type BillPayment jsonapi.Resource[PaymentAttributes]

func (p BillPayment) ResourceID() string   { return p.ID }
func (p BillPayment) ResourceType() string { return p.Type }
func (BillPayment) isPayment()             {}

// CardToCardPayment pushes funds to an external card.
type CardToCardPayment jsonapi.Resource[PaymentAttributes]

func (p CardToCardPayment) ResourceID() string   { return p.ID }
func (p CardToCardPayment) ResourceType() string { return p.Type }
func (CardToCardPayment) isPayment()             {}

var paymentUnion = jsonapi.NewUnion[Payment]("payment").
	Register("achPayment", jsonapi.Variant(func(r jsonapi.Resource[PaymentAttributes]) Payment {
		return ACHPayment(r)
	})).
	Register("bookPayment", jsonapi.Variant(func(r jsonapi.Resource[PaymentAttributes]) Payment {
		return BookPayment(r)
	})).
	Register("wirePayment", jsonapi.Variant(func(r jsonapi.Resource[PaymentAttributes]) Payment {
		return WirePayment(r)
	})).
	Register("billPayment", jsonapi.Variant(func(r jsonapi.Resource[PaymentAttributes]) Payment {
		return BillPayment(r)
	})).
	Register("cardToCardPayment", jsonapi.Variant(func(r jsonapi.Resource[PaymentAttributes]) Payment {
		return CardToCardPayment(r)
	})).
	Fallback(unknownVariant[Payment])

// CreatePaymentAttributes covers ACH, book and wire payments.
type CreatePaymentAttributes struct {
	Amount         int64         `json:"amount"`
	Direction      string        `json:"direction,omitempty"`
	Description    string        `json:"description"`
	Counterparty   *Counterparty `json:"counterparty,omitempty"`
	Addenda        string        `json:"addenda,omitempty"`
	Tags           Tags          `json:"tags,omitempty"`
	IdempotencyKey string        `json:"idempotencyKey"`
}

// CreatePaymentRequest is the resource object sent to POST /payments.
// Type is "achPayment", "bookPayment" or "wirePayment".
type CreatePaymentRequest struct {
	Type          string                  `json:"type"`
	Attributes    CreatePaymentAttributes `json:"attributes"`
	Relationships jsonapi.Relationships   `json:"relationships"`
}

// UpdatePaymentRequest is the PATCH /payments/{id} body before wrapping.
type UpdatePaymentRequest struct {
	Type       string                  `json:"type"`
	Attributes UpdatePaymentAttributes `json:"attributes"`
}

// UpdatePaymentAttributes are the fields PATCH accepts.
type UpdatePaymentAttributes struct {
	Tags Tags `json:"tags"`
}

// ListPaymentsParams filters GET /payments.
type ListPaymentsParams struct {
	Page
	AccountID  *string
	CustomerID *string
	Tags       Tags
	Status     []string
	Type       []string
	Since      *time.Time
	Until      *time.Time
	Sort       *string
	Include    []string
}

func (p ListPaymentsParams) values() *query {
	return newQuery().
		page(p.Page).
		setString("filter[accountId]", p.AccountID).
		setString("filter[customerId]", p.CustomerID).
		setTags("filter[tags]", p.Tags).
		setList("filter[status]", p.Status).
		setList("filter[type]", p.Type).
		setTime("filter[since]", p.Since).
		setTime("filter[until]", p.Until).
		setString("sort", p.Sort).
		setInclude(p.Include)
}

// PaymentsResource wraps /payments.
type PaymentsResource struct {
	*Resource
}

// Create originates a payment. An empty IdempotencyKey is filled with a new
// random UUID on every call; pass your own key and reuse it on retries to
// have the API deduplicate them.
func (p *PaymentsResource) Create(ctx context.Context, req CreatePaymentRequest) (*Response[Payment], error) {
	if req.Attributes.IdempotencyKey == "" {
		req.Attributes.IdempotencyKey = uuid.NewString()
	}
	body := jsonapi.Envelope[CreatePaymentRequest]{Data: req}
	return fetchOne(ctx, p.Resource, http.MethodPost, "", body, nil, paymentUnion)
}

// Get fetches a payment; include may name "customer", "account" or "transaction".
func (p *PaymentsResource) Get(ctx context.Context, id string, include ...string) (*Response[Payment], error) {
	if err := requireID("get payment", "payment id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, p.Resource, http.MethodGet, "/"+id, nil, includeOpts(include), paymentUnion)
}

// List returns a page of payments.
func (p *PaymentsResource) List(ctx context.Context, params ListPaymentsParams) (*ListResponse[Payment], error) {
	return fetchMany(ctx, p.Resource, "", &RequestOptions{Params: params.values().values()}, paymentUnion)
}

// Update patches a payment's tags.
func (p *PaymentsResource) Update(ctx context.Context, id string, req UpdatePaymentRequest) (*Response[Payment], error) {
	if err := requireID("update payment", "payment id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, p.Resource, http.MethodPatch, "/"+id, req, nil, paymentUnion)
}

// Cancel cancels a payment that has not been sent yet.
func (p *PaymentsResource) Cancel(ctx context.Context, id string) (*Response[Payment], error) {
	if err := requireID("cancel payment", "payment id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, p.Resource, http.MethodPost, "/"+id+"/cancel", nil, nil, paymentUnion)
}
