package client

import (
	"context"
	"net/http"
	"time"

	"github.com/bodrovis/unitx/jsonapi"
)

// CounterpartyAttributes describe a saved external bank account.
type CounterpartyAttributes struct {
	Name          string    `json:"name"`
	RoutingNumber string    `json:"routingNumber"`
	AccountNumber string    `json:"accountNumber"`
	AccountType   string    `json:"accountType"`
	Type          string    `json:"type"`
	Permissions   string    `json:"permissions"`
	Bank          string    `json:"bank,omitempty"`
	Tags          Tags      `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SavedCounterparty is a resource of type achCounterparty.
type SavedCounterparty = jsonapi.Resource[CounterpartyAttributes]

// CreateCounterpartyAttributes are the fields of a new counterparty. With
// PlaidProcessorToken set, the account details come from Plaid instead.
type CreateCounterpartyAttributes struct {
	Name                string `json:"name"`
	RoutingNumber       string `json:"routingNumber,omitempty"`
	AccountNumber       string `json:"accountNumber,omitempty"`
	AccountType         string `json:"accountType,omitempty"`
	Type                string `json:"type"`
	PlaidProcessorToken string `json:"plaidProcessorToken,omitempty"`
	Permissions         string `json:"permissions,omitempty"`
	Tags                Tags   `json:"tags,omitempty"`
	IdempotencyKey      string `json:"idempotencyKey,omitempty"`
}

// CreateCounterpartyRequest is the resource object sent to POST /counterparties.
type CreateCounterpartyRequest struct {
	Type          string                       `json:"type"`
	Attributes    CreateCounterpartyAttributes `json:"attributes"`
	Relationships jsonapi.Relationships        `json:"relationships"`
}

// NewCounterpartyRequest saves an ACH counterparty for a customer.
func NewCounterpartyRequest(customerID string, attrs CreateCounterpartyAttributes) CreateCounterpartyRequest {
	typ := "achCounterparty"
	if attrs.PlaidProcessorToken != "" {
		typ = "achCounterpartyWithPlaid"
	}
	return CreateCounterpartyRequest{
		Type:       typ,
		Attributes: attrs,
		Relationships: jsonapi.Relationships{
			"customer": jsonapi.ToOne("customer", customerID),
		},
	}
}

// UpdateCounterpartyRequest is the PATCH /counterparties/{id} body before wrapping.
type UpdateCounterpartyRequest struct {
	Type       string                       `json:"type"`
	Attributes UpdateCounterpartyAttributes `json:"attributes"`
}

// UpdateCounterpartyAttributes are the fields PATCH accepts.
type UpdateCounterpartyAttributes struct {
	PlaidProcessorToken string `json:"plaidProcessorToken,omitempty"`
	VerifyName          *bool  `json:"verifyName,omitempty"`
	Permissions         string `json:"permissions,omitempty"`
	Tags                Tags   `json:"tags,omitempty"`
}

// CounterpartyBalanceAttributes is the Plaid-reported balance.
type CounterpartyBalanceAttributes struct {
	Balance   int64 `json:"balance"`
	Available int64 `json:"available,omitempty"`
}

// ListCounterpartiesParams filters GET /counterparties.
type ListCounterpartiesParams struct {
	Page
	CustomerID    *string
	AccountNumber *string
	RoutingNumber *string
	Tags          Tags
}

func (p ListCounterpartiesParams) values() *query {
	return newQuery().
		page(p.Page).
		setString("filter[customerId]", p.CustomerID).
		setString("filter[accountNumber]", p.AccountNumber).
		setString("filter[routingNumber]", p.RoutingNumber).
		setTags("filter[tags]", p.Tags)
}

// CounterpartiesResource wraps /counterparties.
type CounterpartiesResource struct {
	*Resource
}

// Create saves a counterparty, by account details or by Plaid token.
func (c *CounterpartiesResource) Create(ctx context.Context, req CreateCounterpartyRequest) (*Response[SavedCounterparty], error) {
	body := jsonapi.Envelope[CreateCounterpartyRequest]{Data: req}
	return fetchTyped[CounterpartyAttributes](ctx, c.Resource, http.MethodPost, "", body, nil)
}

// Get fetches a counterparty by id.
func (c *CounterpartiesResource) Get(ctx context.Context, id string) (*Response[SavedCounterparty], error) {
	if err := requireID("get counterparty", "counterparty id", id); err != nil {
		return nil, err
	}
	return fetchTyped[CounterpartyAttributes](ctx, c.Resource, http.MethodGet, "/"+id, nil, nil)
}

// List returns a page of counterparties.
func (c *CounterpartiesResource) List(ctx context.Context, params ListCounterpartiesParams) (*ListResponse[SavedCounterparty], error) {
	return fetchTypedList[CounterpartyAttributes](ctx, c.Resource, "", &RequestOptions{Params: params.values().values()})
}

// Update patches a counterparty.
func (c *CounterpartiesResource) Update(ctx context.Context, id string, req UpdateCounterpartyRequest) (*Response[SavedCounterparty], error) {
	if err := requireID("update counterparty", "counterparty id", id); err != nil {
		return nil, err
	}
	return fetchTyped[CounterpartyAttributes](ctx, c.Resource, http.MethodPatch, "/"+id, req, nil)
}

// Delete removes a counterparty. The request carries an explicit "{}" body.
func (c *CounterpartiesResource) Delete(ctx context.Context, id string) error {
	if err := requireID("delete counterparty", "counterparty id", id); err != nil {
		return err
	}
	return c.Resource.Delete(ctx, "/"+id, emptyBody(), nil)
}

// Balance returns the counterparty balance reported through Plaid.
func (c *CounterpartiesResource) Balance(ctx context.Context, id string) (*Response[jsonapi.Resource[CounterpartyBalanceAttributes]], error) {
	if err := requireID("counterparty balance", "counterparty id", id); err != nil {
		return nil, err
	}
	return fetchTyped[CounterpartyBalanceAttributes](ctx, c.Resource, http.MethodGet, "/"+id+"/balance", nil, nil)
}
