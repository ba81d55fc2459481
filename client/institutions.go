package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bodrovis/unitx/jsonapi"
)

// InstitutionAttributes describe a bank found by routing number.
type InstitutionAttributes struct {
	RoutingNumber   string `json:"routingNumber"`
	Name            string `json:"name"`
	Address         string `json:"address,omitempty"`
	IsACHSupported  bool   `json:"isACHSupported"`
	IsWireSupported bool   `json:"isWireSupported"`
}

// Institution is a bank looked up by routing number.
type Institution = jsonapi.Resource[InstitutionAttributes]

// InstitutionsResource wraps /institutions.
type InstitutionsResource struct {
	*Resource
}

// Get looks up a nine digit ABA routing number.
func (i *InstitutionsResource) Get(ctx context.Context, routingNumber string) (*Response[Institution], error) {
	if len(routingNumber) != 9 {
		return nil, fmt.Errorf("get institution: routing number must have 9 digits, got %q", routingNumber)
	}
	return fetchTyped[InstitutionAttributes](ctx, i.Resource, http.MethodGet, "/"+routingNumber, nil, nil)
}
