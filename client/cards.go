package client

import (
	"context"
	"net/http"
	"time"

	"github.com/bodrovis/unitx/jsonapi"
)

// Card is one of the four debit card variants or an UnknownResource.
type Card interface {
	ResourceID() string
	ResourceType() string
	isCard()
}

// CardAttributes are shared by every card variant. Physical cards also
// carry a shipping address; business cards carry the cardholder details.
type CardAttributes struct {
	Last4Digits     string    `json:"last4Digits"`
	ExpirationDate  string    `json:"expirationDate"`
	Status          string    `json:"status"`
	ShippingAddress *Address  `json:"shippingAddress,omitempty"`
	FullName        *FullName `json:"fullName,omitempty"`
	Email           string    `json:"email,omitempty"`
	Phone           *Phone    `json:"phone,omitempty"`
	Address         *Address  `json:"address,omitempty"`
	DateOfBirth     *Date     `json:"dateOfBirth,omitempty"`
	Design          string    `json:"design,omitempty"`
	Tags            Tags      `json:"tags,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// IndividualDebitCard is a physical debit card of an individual.
type IndividualDebitCard jsonapi.Resource[CardAttributes]

func (c IndividualDebitCard) ResourceID() string   { return c.ID }
func (c IndividualDebitCard) ResourceType() string { return c.Type }
func (IndividualDebitCard) isCard()                {}

// BusinessDebitCard is a physical debit card of a business.
type BusinessDebitCard jsonapi.Resource[CardAttributes]

func (c BusinessDebitCard) ResourceID() string   { return c.ID }
func (c BusinessDebitCard) ResourceType() string { return c.Type }
func (BusinessDebitCard) isCard()                {}

// IndividualVirtualDebitCard is a virtual debit card of an individual.
type IndividualVirtualDebitCard jsonapi.Resource[CardAttributes]

func (c IndividualVirtualDebitCard) ResourceID() string   { return c.ID }
func (c IndividualVirtualDebitCard) ResourceType() string { return c.Type }
func (IndividualVirtualDebitCard) isCard()                {}

// BusinessVirtualDebitCard is a virtual debit card of a business.
type BusinessVirtualDebitCard jsonapi.Resource[CardAttributes]

func (c BusinessVirtualDebitCard) ResourceID() string   { return c.ID }
func (c BusinessVirtualDebitCard) ResourceType() string { return c.Type }
func (BusinessVirtualDebitCard) isCard()                {}

var cardUnion = jsonapi.NewUnion[Card]("card").
	Register("individualDebitCard", jsonapi.Variant(func(r jsonapi.Resource[CardAttributes]) Card {
		return IndividualDebitCard(r)
	})).
	Register("businessDebitCard", jsonapi.Variant(func(r jsonapi.Resource[CardAttributes]) Card {
		return BusinessDebitCard(r)
	})).
	Register("individualVirtualDebitCard", jsonapi.Variant(func(r jsonapi.Resource[CardAttributes]) Card {
		return IndividualVirtualDebitCard(r)
	})).
	Register("businessVirtualDebitCard", jsonapi.Variant(func(r jsonapi.Resource[CardAttributes]) Card {
		return BusinessVirtualDebitCard(r)
	})).
	Fallback(unknownVariant[Card])

// CreateCardAttributes covers every card variant; fields a variant does not
// use stay empty and are omitted.
type CreateCardAttributes struct {
	ShippingAddress *Address  `json:"shippingAddress,omitempty"`
	FullName        *FullName `json:"fullName,omitempty"`
	Email           string    `json:"email,omitempty"`
	Phone           *Phone    `json:"phone,omitempty"`
	Address         *Address  `json:"address,omitempty"`
	DateOfBirth     *Date     `json:"dateOfBirth,omitempty"`
	SSN             string    `json:"ssn,omitempty"`
	Design          string    `json:"design,omitempty"`
	Tags            Tags      `json:"tags,omitempty"`
	IdempotencyKey  string    `json:"idempotencyKey,omitempty"`
}

// CreateCardRequest is the resource object sent to POST /cards.
type CreateCardRequest struct {
	Type          string                `json:"type"`
	Attributes    CreateCardAttributes  `json:"attributes"`
	Relationships jsonapi.Relationships `json:"relationships"`
}

// NewCardRequest issues a card of the given type against an account.
func NewCardRequest(cardType, accountID string, attrs CreateCardAttributes) CreateCardRequest {
	return CreateCardRequest{
		Type:       cardType,
		Attributes: attrs,
		Relationships: jsonapi.Relationships{
			"account": jsonapi.ToOne("depositAccount", accountID),
		},
	}
}

// UpdateCardRequest is the PATCH /cards/{id} body before wrapping.
type UpdateCardRequest struct {
	Type       string               `json:"type"`
	Attributes UpdateCardAttributes `json:"attributes"`
}

// UpdateCardAttributes are the fields PATCH accepts.
type UpdateCardAttributes struct {
	ShippingAddress *Address `json:"shippingAddress,omitempty"`
	Address         *Address `json:"address,omitempty"`
	Phone           *Phone   `json:"phone,omitempty"`
	Email           string   `json:"email,omitempty"`
	Design          string   `json:"design,omitempty"`
	Tags            Tags     `json:"tags,omitempty"`
}

// ReplaceCardAttributes optionally redirect the replacement card.
type ReplaceCardAttributes struct {
	ShippingAddress *Address `json:"shippingAddress,omitempty"`
}

// PinStatusAttributes report whether a PIN was set on the card.
type PinStatusAttributes struct {
	Status string `json:"status"`
}

// ListCardsParams filters GET /cards.
type ListCardsParams struct {
	Page
	AccountID  *string
	CustomerID *string
	Tags       Tags
	Status     []string
	Include    []string
}

func (p ListCardsParams) values() *query {
	return newQuery().
		page(p.Page).
		setString("filter[accountId]", p.AccountID).
		setString("filter[customerId]", p.CustomerID).
		setTags("filter[tags]", p.Tags).
		setList("filter[status]", p.Status).
		setInclude(p.Include)
}

// CardsResource wraps /cards.
type CardsResource struct {
	*Resource
}

// Create issues a card.
func (c *CardsResource) Create(ctx context.Context, req CreateCardRequest) (*Response[Card], error) {
	body := jsonapi.Envelope[CreateCardRequest]{Data: req}
	return fetchOne(ctx, c.Resource, http.MethodPost, "", body, nil, cardUnion)
}

// Get fetches a card; include may name "customer" or "account".
func (c *CardsResource) Get(ctx context.Context, id string, include ...string) (*Response[Card], error) {
	if err := requireID("get card", "card id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, c.Resource, http.MethodGet, "/"+id, nil, includeOpts(include), cardUnion)
}

// List returns a page of cards.
func (c *CardsResource) List(ctx context.Context, params ListCardsParams) (*ListResponse[Card], error) {
	return fetchMany(ctx, c.Resource, "", &RequestOptions{Params: params.values().values()}, cardUnion)
}

// Update patches a card.
func (c *CardsResource) Update(ctx context.Context, id string, req UpdateCardRequest) (*Response[Card], error) {
	if err := requireID("update card", "card id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, c.Resource, http.MethodPatch, "/"+id, req, nil, cardUnion)
}

// Freeze blocks a card temporarily.
func (c *CardsResource) Freeze(ctx context.Context, id string) (*Response[Card], error) {
	return c.action(ctx, "freeze card", id, "/freeze", nil)
}

// Unfreeze lifts a freeze.
func (c *CardsResource) Unfreeze(ctx context.Context, id string) (*Response[Card], error) {
	return c.action(ctx, "unfreeze card", id, "/unfreeze", nil)
}

// Close permanently closes a card.
func (c *CardsResource) Close(ctx context.Context, id string) (*Response[Card], error) {
	return c.action(ctx, "close card", id, "/close", nil)
}

// ReportStolen marks a card stolen.
func (c *CardsResource) ReportStolen(ctx context.Context, id string) (*Response[Card], error) {
	return c.action(ctx, "report stolen card", id, "/report-stolen", nil)
}

// ReportLost marks a card lost.
func (c *CardsResource) ReportLost(ctx context.Context, id string) (*Response[Card], error) {
	return c.action(ctx, "report lost card", id, "/report-lost", nil)
}

// Replace orders a replacement for a physical card.
func (c *CardsResource) Replace(ctx context.Context, id string, attrs ReplaceCardAttributes) (*Response[Card], error) {
	return c.action(ctx, "replace card", id, "/replace", jsonapi.Wrap("replaceCard", attrs))
}

func (c *CardsResource) action(ctx context.Context, op, id, suffix string, body any) (*Response[Card], error) {
	if err := requireID(op, "card id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, c.Resource, http.MethodPost, "/"+id+suffix, body, nil, cardUnion)
}

// PinStatus reports whether a PIN is set.
func (c *CardsResource) PinStatus(ctx context.Context, id string) (*Response[jsonapi.Resource[PinStatusAttributes]], error) {
	if err := requireID("card pin status", "card id", id); err != nil {
		return nil, err
	}
	return fetchTyped[PinStatusAttributes](ctx, c.Resource, http.MethodGet, "/"+id+"/secure-data/pin/status", nil, nil)
}
