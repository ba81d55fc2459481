package client

import (
	"context"
	"net/http"
	"time"

	"github.com/bodrovis/unitx/jsonapi"
)

// Transaction is a KnownTransaction or an UnknownResource.
type Transaction interface {
	ResourceID() string
	ResourceType() string
	isTransaction()
}

// TransactionAttributes hold the fields every transaction type shares plus
// the optional ones most types add.
type TransactionAttributes struct {
	Direction    string        `json:"direction"`
	Amount       int64         `json:"amount"`
	Balance      int64         `json:"balance"`
	Summary      string        `json:"summary"`
	Description  string        `json:"description,omitempty"`
	Counterparty *Counterparty `json:"counterparty,omitempty"`
	CardLast4    string        `json:"cardLast4Digits,omitempty"`
	Merchant     *Merchant     `json:"merchant,omitempty"`
	Reason       string        `json:"reason,omitempty"`
	Tags         Tags          `json:"tags,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// Merchant identifies the seller of a card transaction.
type Merchant struct {
	Name     string `json:"name"`
	Type     int    `json:"type"`
	Category string `json:"category"`
	Location string `json:"location,omitempty"`
}

// KnownTransaction is any transaction type listed in transactionTypes.
type KnownTransaction jsonapi.Resource[TransactionAttributes]

func (t KnownTransaction) ResourceID() string   { return t.ID }
func (t KnownTransaction) ResourceType() string { return t.Type }
func (KnownTransaction) isTransaction()         {}

var transactionTypes = []string{
	"originatedAchTransaction",
	"receivedAchTransaction",
	"returnedAchTransaction",
	"returnedReceivedAchTransaction",
	"dishonoredAchTransaction",
	"bookTransaction",
	"purchaseTransaction",
	"atmTransaction",
	"cardTransaction",
	"cardReversalTransaction",
	"feeTransaction",
	"feeReversalTransaction",
	"interestTransaction",
	"releaseTransaction",
	"adjustmentTransaction",
	"disputeTransaction",
	"checkDepositTransaction",
	"wireTransaction",
	"billPayTransaction",
	"rewardTransaction",
	"paymentAdvanceTransaction",
}

var transactionUnion = newTransactionUnion()

func newTransactionUnion() *jsonapi.Union[Transaction] {
	u := jsonapi.NewUnion[Transaction]("transaction")
	decode := jsonapi.Variant(func(r jsonapi.Resource[TransactionAttributes]) Transaction {
		return KnownTransaction(r)
	})
	for _, typ := range transactionTypes {
		u.Register(typ, decode)
	}
	return u.Fallback(unknownVariant[Transaction])
}

// UpdateTransactionRequest is the PATCH body before wrapping.
type UpdateTransactionRequest struct {
	Type       string                      `json:"type"`
	Attributes UpdateTransactionAttributes `json:"attributes"`
}

// UpdateTransactionAttributes are the fields PATCH accepts.
type UpdateTransactionAttributes struct {
	Tags Tags `json:"tags"`
}

// ListTransactionsParams filters GET /transactions.
type ListTransactionsParams struct {
	Page
	AccountID  *string
	CustomerID *string
	Query      *string
	Tags       Tags
	Type       []string
	Since      *time.Time
	Until      *time.Time
	CardID     *string
	Sort       *string
	Include    []string
}

func (p ListTransactionsParams) values() *query {
	return newQuery().
		page(p.Page).
		setString("filter[accountId]", p.AccountID).
		setString("filter[customerId]", p.CustomerID).
		setString("filter[query]", p.Query).
		setTags("filter[tags]", p.Tags).
		setList("filter[type]", p.Type).
		setTime("filter[since]", p.Since).
		setTime("filter[until]", p.Until).
		setString("filter[cardId]", p.CardID).
		setString("sort", p.Sort).
		setInclude(p.Include)
}

// TransactionsResource reads transactions. Single transactions live under
// their account, the list under /transactions.
type TransactionsResource struct {
	accounts     *Resource
	transactions *Resource
}

// Get fetches /accounts/{accountID}/transactions/{id}.
func (t *TransactionsResource) Get(ctx context.Context, accountID, id string, include ...string) (*Response[Transaction], error) {
	if err := requireID("get transaction", "account id", accountID); err != nil {
		return nil, err
	}
	if err := requireID("get transaction", "transaction id", id); err != nil {
		return nil, err
	}
	rel := "/" + accountID + "/transactions/" + id
	return fetchOne(ctx, t.accounts, http.MethodGet, rel, nil, includeOpts(include), transactionUnion)
}

// List returns a page of transactions across accounts.
func (t *TransactionsResource) List(ctx context.Context, params ListTransactionsParams) (*ListResponse[Transaction], error) {
	return fetchMany(ctx, t.transactions, "", &RequestOptions{Params: params.values().values()}, transactionUnion)
}

// Update patches the tags of /accounts/{accountID}/transactions/{id}.
func (t *TransactionsResource) Update(ctx context.Context, accountID, id string, req UpdateTransactionRequest) (*Response[Transaction], error) {
	if err := requireID("update transaction", "account id", accountID); err != nil {
		return nil, err
	}
	if err := requireID("update transaction", "transaction id", id); err != nil {
		return nil, err
	}
	rel := "/" + accountID + "/transactions/" + id
	return fetchOne(ctx, t.accounts, http.MethodPatch, rel, req, nil, transactionUnion)
}
