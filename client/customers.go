package client

import (
	"context"
	"net/http"
	"time"

	"github.com/bodrovis/unitx/jsonapi"
)

// Customer is an IndividualCustomer, a BusinessCustomer or an UnknownResource.
type Customer interface {
	ResourceID() string
	ResourceType() string
	isCustomer()
}

// IndividualCustomerAttributes describe a person.
type IndividualCustomerAttributes struct {
	FullName      FullName  `json:"fullName"`
	Email         string    `json:"email"`
	Phone         Phone     `json:"phone"`
	Address       Address   `json:"address"`
	DateOfBirth   Date      `json:"dateOfBirth"`
	SSN           string    `json:"ssn,omitempty"`
	Passport      string    `json:"passport,omitempty"`
	Nationality   string    `json:"nationality,omitempty"`
	Status        string    `json:"status"`
	ArchiveReason string    `json:"archiveReason,omitempty"`
	Tags          Tags      `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// BusinessCustomerAttributes describe a business.
type BusinessCustomerAttributes struct {
	Name                 string           `json:"name"`
	DBA                  string           `json:"dba,omitempty"`
	EIN                  string           `json:"ein"`
	EntityType           string           `json:"entityType"`
	StateOfIncorporation string           `json:"stateOfIncorporation"`
	Address              Address          `json:"address"`
	Phone                Phone            `json:"phone"`
	Contact              Contact          `json:"contact"`
	AuthorizedUsers      []AuthorizedUser `json:"authorizedUsers,omitempty"`
	Status               string           `json:"status"`
	ArchiveReason        string           `json:"archiveReason,omitempty"`
	Tags                 Tags             `json:"tags,omitempty"`
	CreatedAt            time.Time        `json:"createdAt"`
}

// Contact is the primary contact of a business.
type Contact struct {
	FullName FullName `json:"fullName"`
	Email    string   `json:"email"`
	Phone    Phone    `json:"phone"`
}

// AuthorizedUser may act on behalf of a customer.
type AuthorizedUser struct {
	FullName FullName `json:"fullName"`
	Email    string   `json:"email"`
	Phone    Phone    `json:"phone"`
}

// IndividualCustomer is a customer created from an individual application.
type IndividualCustomer jsonapi.Resource[IndividualCustomerAttributes]

func (c IndividualCustomer) ResourceID() string   { return c.ID }
func (c IndividualCustomer) ResourceType() string { return c.Type }
func (IndividualCustomer) isCustomer()            {}

// BusinessCustomer is a customer created from a business application.
type BusinessCustomer jsonapi.Resource[BusinessCustomerAttributes]

func (c BusinessCustomer) ResourceID() string   { return c.ID }
func (c BusinessCustomer) ResourceType() string { return c.Type }
func (BusinessCustomer) isCustomer()            {}

var customerUnion = jsonapi.NewUnion[Customer]("customer").
	Register("individualCustomer", jsonapi.Variant(func(r jsonapi.Resource[IndividualCustomerAttributes]) Customer {
		return IndividualCustomer(r)
	})).
	Register("businessCustomer", jsonapi.Variant(func(r jsonapi.Resource[BusinessCustomerAttributes]) Customer {
		return BusinessCustomer(r)
	})).
	Fallback(unknownVariant[Customer])

// UpdateCustomerRequest is the PATCH /customers/{id} body before wrapping.
// Type is "individualCustomer" or "businessCustomer".
type UpdateCustomerRequest struct {
	Type       string                   `json:"type"`
	Attributes UpdateCustomerAttributes `json:"attributes"`
}

// UpdateCustomerAttributes are the fields PATCH accepts.
type UpdateCustomerAttributes struct {
	Email           string           `json:"email,omitempty"`
	Phone           *Phone           `json:"phone,omitempty"`
	Address         *Address         `json:"address,omitempty"`
	DBA             string           `json:"dba,omitempty"`
	Contact         *Contact         `json:"contact,omitempty"`
	AuthorizedUsers []AuthorizedUser `json:"authorizedUsers,omitempty"`
	Tags            Tags             `json:"tags,omitempty"`
}

// ArchiveCustomerAttributes give the archive reason, e.g. "Inactive" or "FraudClientIdentified".
type ArchiveCustomerAttributes struct {
	Reason string `json:"reason,omitempty"`
}

// ListCustomersParams filters GET /customers.
type ListCustomersParams struct {
	Page
	Query  *string
	Email  *string
	Tags   Tags
	Status []string
	Sort   *string
}

func (p ListCustomersParams) values() *query {
	return newQuery().
		page(p.Page).
		setString("filter[query]", p.Query).
		setString("filter[email]", p.Email).
		setTags("filter[tags]", p.Tags).
		setList("filter[status]", p.Status).
		setString("sort", p.Sort)
}

// CustomersResource wraps /customers.
type CustomersResource struct {
	*Resource
}

// Get fetches a customer by id.
func (c *CustomersResource) Get(ctx context.Context, id string) (*Response[Customer], error) {
	if err := requireID("get customer", "customer id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, c.Resource, http.MethodGet, "/"+id, nil, nil, customerUnion)
}

// List returns a page of customers.
func (c *CustomersResource) List(ctx context.Context, params ListCustomersParams) (*ListResponse[Customer], error) {
	return fetchMany(ctx, c.Resource, "", &RequestOptions{Params: params.values().values()}, customerUnion)
}

// Update patches a customer.
func (c *CustomersResource) Update(ctx context.Context, id string, req UpdateCustomerRequest) (*Response[Customer], error) {
	if err := requireID("update customer", "customer id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, c.Resource, http.MethodPatch, "/"+id, req, nil, customerUnion)
}

// Archive archives a customer. Its accounts must be closed first.
func (c *CustomersResource) Archive(ctx context.Context, id string, attrs ArchiveCustomerAttributes) (*Response[Customer], error) {
	if err := requireID("archive customer", "customer id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, c.Resource, http.MethodPost, "/"+id+"/archive", jsonapi.Wrap("archiveCustomer", attrs), nil, customerUnion)
}
