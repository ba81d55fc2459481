package client

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodrovis/unitx/jsonapi"
)

// StatementAttributes describe a monthly statement.
type StatementAttributes struct {
	Period string `json:"period"`
}

// Statement is a resource of type accountStatementDTO.
type Statement = jsonapi.Resource[StatementAttributes]

// ListStatementsParams filters GET /statements.
type ListStatementsParams struct {
	Page
	AccountID  *string
	CustomerID *string
	Sort       *string
}

func (p ListStatementsParams) values() *query {
	return newQuery().
		page(p.Page).
		setString("filter[accountId]", p.AccountID).
		setString("filter[customerId]", p.CustomerID).
		setString("sort", p.Sort)
}

// StatementsResource wraps /statements.
type StatementsResource struct {
	*Resource
}

// List returns a page of statements.
func (s *StatementsResource) List(ctx context.Context, params ListStatementsParams) (*ListResponse[Statement], error) {
	return fetchTypedList[StatementAttributes](ctx, s.Resource, "", &RequestOptions{Params: params.values().values()})
}

// HTML returns the rendered statement. customerID selects the customer on
// joint accounts and may be empty.
func (s *StatementsResource) HTML(ctx context.Context, id, customerID string) (string, error) {
	if err := requireID("statement html", "statement id", id); err != nil {
		return "", err
	}
	var out string
	opts := &RequestOptions{
		Params:   newQuery().setString("filter[customerId]", nonEmpty(customerID)).values(),
		Headers:  http.Header{"Accept": {"text/html"}},
		Encoding: EncodingText,
	}
	if err := s.Get(ctx, "/"+id+"/html", opts, &out); err != nil {
		return "", err
	}
	return out, nil
}

// PDF returns the statement as PDF bytes.
func (s *StatementsResource) PDF(ctx context.Context, id, customerID string) ([]byte, error) {
	if err := requireID("statement pdf", "statement id", id); err != nil {
		return nil, err
	}
	q := newQuery().setString("filter[customerId]", nonEmpty(customerID))
	return s.binary(ctx, "/"+id+"/pdf", q)
}

// BankVerificationPDF returns the bank verification letter of an account.
func (s *StatementsResource) BankVerificationPDF(ctx context.Context, accountID string, includeProofOfFunds bool) ([]byte, error) {
	if err := requireID("bank verification pdf", "account id", accountID); err != nil {
		return nil, err
	}
	q := newQuery().setBool("includeProofOfFunds", &includeProofOfFunds)
	return s.binary(ctx, "/"+accountID+"/bank/pdf", q)
}

func (s *StatementsResource) binary(ctx context.Context, rel string, q *query) ([]byte, error) {
	var out []byte
	opts := &RequestOptions{
		Params:   q.values(),
		Headers:  http.Header{"Accept": {"application/pdf"}},
		Encoding: EncodingBinary,
	}
	if err := s.Get(ctx, rel, opts, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DownloadPDF writes the statement PDF to destPath. The file appears only
// once the whole body was received.
func (s *StatementsResource) DownloadPDF(ctx context.Context, id, customerID, destPath string) error {
	if strings.TrimSpace(destPath) == "" {
		return fmt.Errorf("download statement: destination path is required")
	}
	data, err := s.PDF(ctx, id, customerID)
	if err != nil {
		return err
	}

	cleanPath := filepath.Clean(destPath)
	dir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("download statement: create dest: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".unitx-statement-*.pdf")
	if err != nil {
		return fmt.Errorf("download statement: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("download statement: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("download statement: close: %w", err)
	}
	if err := os.Rename(tmpPath, cleanPath); err != nil {
		return fmt.Errorf("download statement: rename: %w", err)
	}
	return nil
}

func nonEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
