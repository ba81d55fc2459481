package client

import (
	"context"
	"net/http"
	"time"

	"github.com/bodrovis/unitx/jsonapi"
)

// Event is a KnownEvent or an UnknownResource.
type Event interface {
	ResourceID() string
	ResourceType() string
	isEvent()
}

// EventAttributes are the attributes events commonly carry. Fields an
// event type does not send stay zero.
type EventAttributes struct {
	CreatedAt      time.Time `json:"createdAt"`
	Tags           Tags      `json:"tags,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Direction      string    `json:"direction,omitempty"`
	Amount         *int64    `json:"amount,omitempty"`
	Summary        string    `json:"summary,omitempty"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	NewStatus      string    `json:"newStatus,omitempty"`
}

// KnownEvent is any event type listed in eventTypes.
type KnownEvent jsonapi.Resource[EventAttributes]

func (e KnownEvent) ResourceID() string   { return e.ID }
func (e KnownEvent) ResourceType() string { return e.Type }
func (KnownEvent) isEvent()               {}

var eventTypes = []string{
	"account.closed",
	"account.frozen",
	"account.reopened",
	"account.unfrozen",
	"application.awaitingDocuments",
	"application.denied",
	"application.pendingReview",
	"application.canceled",
	"card.activated",
	"card.statusChanged",
	"customer.created",
	"customer.updated",
	"customer.archived",
	"document.approved",
	"document.rejected",
	"payment.clearing",
	"payment.sent",
	"payment.returned",
	"payment.rejected",
	"payment.canceled",
	"transaction.created",
	"transaction.updated",
	"authorization.created",
	"statements.created",
}

var eventUnion = newEventUnion()

func newEventUnion() *jsonapi.Union[Event] {
	u := jsonapi.NewUnion[Event]("event")
	decode := jsonapi.Variant(func(r jsonapi.Resource[EventAttributes]) Event {
		return KnownEvent(r)
	})
	for _, typ := range eventTypes {
		u.Register(typ, decode)
	}
	return u.Fallback(unknownVariant[Event])
}

// ListEventsParams filters GET /events.
type ListEventsParams struct {
	Page
	Type  []string
	Since *time.Time
	Until *time.Time
}

func (p ListEventsParams) values() *query {
	return newQuery().
		page(p.Page).
		setList("filter[type]", p.Type).
		setTime("filter[since]", p.Since).
		setTime("filter[until]", p.Until)
}

// EventsResource wraps /events.
type EventsResource struct {
	*Resource
}

// Get fetches an event by id.
func (e *EventsResource) Get(ctx context.Context, id string) (*Response[Event], error) {
	if err := requireID("get event", "event id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, e.Resource, http.MethodGet, "/"+id, nil, nil, eventUnion)
}

// List returns a page of events.
func (e *EventsResource) List(ctx context.Context, params ListEventsParams) (*ListResponse[Event], error) {
	return fetchMany(ctx, e.Resource, "", &RequestOptions{Params: params.values().values()}, eventUnion)
}

// Fire redelivers an event to every subscribed webhook.
func (e *EventsResource) Fire(ctx context.Context, id string) error {
	if err := requireID("fire event", "event id", id); err != nil {
		return err
	}
	return e.Post(ctx, "/"+id, emptyBody(), nil, nil)
}
