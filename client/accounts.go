package client

import (
	"context"
	"net/http"
	"time"

	"github.com/bodrovis/unitx/jsonapi"
)

// Account is a DepositAccount, a CreditAccount or an UnknownResource.
type Account interface {
	ResourceID() string
	ResourceType() string
	isAccount()
}

// DepositAccountAttributes are the attributes of a depositAccount.
type DepositAccountAttributes struct {
	Name           string    `json:"name"`
	DepositProduct string    `json:"depositProduct"`
	RoutingNumber  string    `json:"routingNumber"`
	AccountNumber  string    `json:"accountNumber"`
	Currency       string    `json:"currency"`
	Balance        int64     `json:"balance"`
	Hold           int64     `json:"hold"`
	Available      int64     `json:"available"`
	Status         string    `json:"status"`
	CloseReason    string    `json:"closeReason,omitempty"`
	FreezeReason   string    `json:"freezeReason,omitempty"`
	Tags           Tags      `json:"tags,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

// CreditAccountAttributes are the attributes of a creditAccount.
type CreditAccountAttributes struct {
	Name         string    `json:"name"`
	CreditTerms  string    `json:"creditTerms"`
	Currency     string    `json:"currency"`
	CreditLimit  int64     `json:"creditLimit"`
	Balance      int64     `json:"balance"`
	Hold         int64     `json:"hold"`
	Available    int64     `json:"available"`
	Status       string    `json:"status"`
	CloseReason  string    `json:"closeReason,omitempty"`
	FreezeReason string    `json:"freezeReason,omitempty"`
	Tags         Tags      `json:"tags,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// DepositAccount is a checking or savings account holding customer funds.
type DepositAccount jsonapi.Resource[DepositAccountAttributes]

func (a DepositAccount) ResourceID() string   { return a.ID }
func (a DepositAccount) ResourceType() string { return a.Type }
func (DepositAccount) isAccount()             {}

// CreditAccount is a credit line account.
type CreditAccount jsonapi.Resource[CreditAccountAttributes]

func (a CreditAccount) ResourceID() string   { return a.ID }
func (a CreditAccount) ResourceType() string { return a.Type }
func (CreditAccount) isAccount()             {}

var accountUnion = jsonapi.NewUnion[Account]("account").
	Register("depositAccount", jsonapi.Variant(func(r jsonapi.Resource[DepositAccountAttributes]) Account {
		return DepositAccount(r)
	})).
	Register("creditAccount", jsonapi.Variant(func(r jsonapi.Resource[CreditAccountAttributes]) Account {
		return CreditAccount(r)
	})).
	Fallback(unknownVariant[Account])

// CreateDepositAccountAttributes is the payload for opening a deposit account.
type CreateDepositAccountAttributes struct {
	DepositProduct string `json:"depositProduct"`
	Tags           Tags   `json:"tags,omitempty"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

// CreateCreditAccountAttributes is the payload for opening a credit account.
type CreateCreditAccountAttributes struct {
	CreditTerms    string `json:"creditTerms"`
	CreditLimit    int64  `json:"creditLimit"`
	Tags           Tags   `json:"tags,omitempty"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

// CreateAccountRequest is the resource object sent to POST /accounts.
// Create wraps it in {"data": ...}.
type CreateAccountRequest struct {
	Type          string                `json:"type"`
	Attributes    any                   `json:"attributes"`
	Relationships jsonapi.Relationships `json:"relationships,omitempty"`
}

// NewDepositAccountRequest opens a deposit account for a customer.
func NewDepositAccountRequest(customerID string, attrs CreateDepositAccountAttributes) CreateAccountRequest {
	return CreateAccountRequest{
		Type:       "depositAccount",
		Attributes: attrs,
		Relationships: jsonapi.Relationships{
			"customer": jsonapi.ToOne("customer", customerID),
		},
	}
}

// NewCreditAccountRequest opens a credit account for a customer.
func NewCreditAccountRequest(customerID string, attrs CreateCreditAccountAttributes) CreateAccountRequest {
	return CreateAccountRequest{
		Type:       "creditAccount",
		Attributes: attrs,
		Relationships: jsonapi.Relationships{
			"customer": jsonapi.ToOne("customer", customerID),
		},
	}
}

// UpdateAccountRequest is the PATCH /accounts/{id} body before wrapping.
type UpdateAccountRequest struct {
	Type       string                  `json:"type"`
	Attributes UpdateAccountAttributes `json:"attributes"`
}

// UpdateAccountAttributes lists the mutable account fields.
type UpdateAccountAttributes struct {
	Tags           Tags   `json:"tags,omitempty"`
	DepositProduct string `json:"depositProduct,omitempty"`
	CreditLimit    *int64 `json:"creditLimit,omitempty"`
}

// CloseAccountAttributes explain why an account is closed.
// Reason is "ByCustomer", "Fraud" or "ByBank"; FraudReason applies to "Fraud".
type CloseAccountAttributes struct {
	Reason      string `json:"reason,omitempty"`
	FraudReason string `json:"fraudReason,omitempty"`
}

// FreezeAccountAttributes explain why an account is frozen.
type FreezeAccountAttributes struct {
	Reason     string `json:"reason"`
	ReasonText string `json:"reasonText,omitempty"`
}

// ListAccountsParams filters GET /accounts.
type ListAccountsParams struct {
	Page
	CustomerID  *string
	Tags        Tags
	Status      []string
	FromBalance *int64
	ToBalance   *int64
	Include     []string
}

func (p ListAccountsParams) values() *query {
	return newQuery().
		page(p.Page).
		setString("filter[customerId]", p.CustomerID).
		setTags("filter[tags]", p.Tags).
		setList("filter[status]", p.Status).
		setInt64("filter[fromBalance]", p.FromBalance).
		setInt64("filter[toBalance]", p.ToBalance).
		setInclude(p.Include)
}

// AccountLimitsAttributes are the current ACH, card and check deposit limits
// and the totals already consumed against them.
type AccountLimitsAttributes struct {
	ACH          *ACHLimits          `json:"ach,omitempty"`
	Card         *CardLimits         `json:"card,omitempty"`
	CheckDeposit *CheckDepositLimits `json:"checkDeposit,omitempty"`
}

// ACHLimits are the daily and monthly ACH debit and credit limits.
type ACHLimits struct {
	Limits struct {
		DailyDebit    int64 `json:"dailyDebit"`
		DailyCredit   int64 `json:"dailyCredit"`
		MonthlyDebit  int64 `json:"monthlyDebit"`
		MonthlyCredit int64 `json:"monthlyCredit"`
	} `json:"limits"`
	TotalsDaily struct {
		Debits  int64 `json:"debits"`
		Credits int64 `json:"credits"`
	} `json:"totalsDaily"`
	TotalsMonthly struct {
		Debits  int64 `json:"debits"`
		Credits int64 `json:"credits"`
	} `json:"totalsMonthly"`
}

// CardLimits are the daily card spending and withdrawal limits.
type CardLimits struct {
	Limits struct {
		DailyWithdrawal      int64 `json:"dailyWithdrawal"`
		DailyDeposit         int64 `json:"dailyDeposit"`
		DailyPurchase        int64 `json:"dailyPurchase"`
		DailyCardTransaction int64 `json:"dailyCardTransaction"`
	} `json:"limits"`
	TotalsDaily struct {
		Withdrawals      int64 `json:"withdrawals"`
		Deposits         int64 `json:"deposits"`
		Purchases        int64 `json:"purchases"`
		CardTransactions int64 `json:"cardTransactions"`
	} `json:"totalsDaily"`
}

// CheckDepositLimits are the check deposit limits.
type CheckDepositLimits struct {
	Limits struct {
		Daily   int64 `json:"daily"`
		Monthly int64 `json:"monthly"`
	} `json:"limits"`
	TotalsDaily   int64 `json:"totalsDaily"`
	TotalsMonthly int64 `json:"totalsMonthly"`
}

// AccountsResource wraps /accounts.
type AccountsResource struct {
	*Resource
}

// Create opens an account.
func (a *AccountsResource) Create(ctx context.Context, req CreateAccountRequest) (*Response[Account], error) {
	body := jsonapi.Envelope[CreateAccountRequest]{Data: req}
	return fetchOne(ctx, a.Resource, http.MethodPost, "", body, nil, accountUnion)
}

// Get fetches one account; include may name "customer".
func (a *AccountsResource) Get(ctx context.Context, id string, include ...string) (*Response[Account], error) {
	if err := requireID("get account", "account id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, a.Resource, http.MethodGet, "/"+id, nil, includeOpts(include), accountUnion)
}

// List pages through accounts.
func (a *AccountsResource) List(ctx context.Context, params ListAccountsParams) (*ListResponse[Account], error) {
	return fetchMany(ctx, a.Resource, "", &RequestOptions{Params: params.values().values()}, accountUnion)
}

// Update patches tags or product settings.
func (a *AccountsResource) Update(ctx context.Context, id string, req UpdateAccountRequest) (*Response[Account], error) {
	if err := requireID("update account", "account id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, a.Resource, http.MethodPatch, "/"+id, req, nil, accountUnion)
}

// Close closes a deposit account. Use CloseCredit for credit accounts.
func (a *AccountsResource) Close(ctx context.Context, id string, attrs CloseAccountAttributes) (*Response[Account], error) {
	return a.close(ctx, id, "depositAccountClose", attrs)
}

// CloseCredit closes a credit account.
func (a *AccountsResource) CloseCredit(ctx context.Context, id string, attrs CloseAccountAttributes) (*Response[Account], error) {
	return a.close(ctx, id, "creditAccountClose", attrs)
}

func (a *AccountsResource) close(ctx context.Context, id, typ string, attrs CloseAccountAttributes) (*Response[Account], error) {
	if err := requireID("close account", "account id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, a.Resource, http.MethodPost, "/"+id+"/close", jsonapi.Wrap(typ, attrs), nil, accountUnion)
}

// Reopen reopens an account closed by the customer.
func (a *AccountsResource) Reopen(ctx context.Context, id string) (*Response[Account], error) {
	if err := requireID("reopen account", "account id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, a.Resource, http.MethodPost, "/"+id+"/reopen", nil, nil, accountUnion)
}

// Freeze freezes an account.
func (a *AccountsResource) Freeze(ctx context.Context, id string, attrs FreezeAccountAttributes) (*Response[Account], error) {
	if err := requireID("freeze account", "account id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, a.Resource, http.MethodPost, "/"+id+"/freeze", jsonapi.Wrap("accountFreeze", attrs), nil, accountUnion)
}

// Unfreeze lifts a freeze.
func (a *AccountsResource) Unfreeze(ctx context.Context, id string) (*Response[Account], error) {
	if err := requireID("unfreeze account", "account id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, a.Resource, http.MethodPost, "/"+id+"/unfreeze", nil, nil, accountUnion)
}

// Limits returns the account's transfer limits.
func (a *AccountsResource) Limits(ctx context.Context, id string) (*Response[jsonapi.Resource[AccountLimitsAttributes]], error) {
	if err := requireID("account limits", "account id", id); err != nil {
		return nil, err
	}
	return fetchTyped[AccountLimitsAttributes](ctx, a.Resource, http.MethodGet, "/"+id+"/limits", nil, nil)
}
