// Package api defines the JSON contract of the remote ledger service. Both the
// HTTP client in internal/remote and the server in internal/server speak it.
package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moajmalnk/faisytkd/internal/common"
	"github.com/moajmalnk/faisytkd/internal/model"
)

// Collection paths.
const (
	AccountsPath     = "/api/accounts"
	CategoriesPath   = "/api/categories"
	TransactionsPath = "/api/transactions"
	SummaryPath      = "/api/summary"
	HealthPath       = "/health"

	// CompleteSuffix is appended to a transaction path to settle it.
	CompleteSuffix = "/complete"
)

// Account is an account row as served by the remote service.
type Account struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// AccountInput is the body of account create and update requests.
type AccountInput struct {
	Name   string          `json:"name" binding:"required"`
	Type   string          `json:"type" binding:"required,oneof=cash bank credit"`
	Amount decimal.Decimal `json:"amount"`
}

// Category is a category row.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
}

// CategoryInput is the body of category create and update requests.
type CategoryInput struct {
	Name  string `json:"name" binding:"required"`
	Type  string `json:"type" binding:"required,oneof=income expense"`
	Color string `json:"color"`
}

// Transaction is a transaction row. Collect, pay, income and expense items
// all live in the same collection, told apart by Kind.
type Transaction struct {
	ID         int64           `json:"id"`
	Kind       string          `json:"kind"`
	CategoryID *int64          `json:"category_id"`
	AccountID  *int64          `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
	Note       *string         `json:"note"`
	OccurredOn string          `json:"occurred_on"`
	Completed  bool            `json:"completed"`
	CreatedAt  string          `json:"created_at,omitempty"`
}

// TransactionInput is the body of transaction create and update requests.
type TransactionInput struct {
	Kind       string          `json:"kind" binding:"required,oneof=collect pay income expense"`
	CategoryID *int64          `json:"category_id,omitempty"`
	AccountID  *int64          `json:"account_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Note       *string         `json:"note,omitempty"`
	OccurredOn string          `json:"occurred_on" binding:"required"`
	Completed  bool            `json:"completed,omitempty"`
}

// CompleteInput settles a collect or pay transaction into an income or
// expense posted to AccountID.
type CompleteInput struct {
	AccountID  *int64 `json:"account_id"`
	OccurredOn string `json:"occurred_on" binding:"required"`
}

// ListResponse wraps a full collection.
type ListResponse[T any] struct {
	OK    bool   `json:"ok"`
	Items []T    `json:"items"`
	Error string `json:"error,omitempty"`
}

// Rejected reports the error message of an {"ok":false} body.
func (r ListResponse[T]) Rejected() (string, bool) {
	return r.Error, !r.OK
}

// CreatedResponse carries the server assigned id of a new row.
type CreatedResponse struct {
	OK    bool   `json:"ok"`
	ID    int64  `json:"id"`
	Error string `json:"error,omitempty"`
}

// Rejected reports the error message of an {"ok":false} body.
func (r CreatedResponse) Rejected() (string, bool) {
	return r.Error, !r.OK
}

// StatusResponse acknowledges a write or reports an error.
type StatusResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Rejected reports the error message of an {"ok":false} body.
func (r StatusResponse) Rejected() (string, bool) {
	return r.Error, !r.OK
}

// Validate checks fields the binding tags cannot express.
func (in AccountInput) Validate() error {
	if !model.AccountType(in.Type).Valid() {
		return fmt.Errorf("%w: account type %q", common.ErrInvalidInput, in.Type)
	}
	if in.Name == "" {
		return fmt.Errorf("%w: account name is required", common.ErrInvalidInput)
	}
	return nil
}

// Validate checks fields the binding tags cannot express.
func (in CategoryInput) Validate() error {
	if !model.CategoryKind(in.Type).Valid() {
		return fmt.Errorf("%w: category type %q", common.ErrInvalidInput, in.Type)
	}
	if in.Name == "" {
		return fmt.Errorf("%w: category name is required", common.ErrInvalidInput)
	}
	return nil
}

// Validate checks fields the binding tags cannot express.
func (in TransactionInput) Validate() error {
	if !model.Kind(in.Kind).Valid() {
		return fmt.Errorf("%w: transaction kind %q", common.ErrInvalidInput, in.Kind)
	}
	if in.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", common.ErrInvalidInput)
	}
	if _, err := time.Parse(model.DateLayout, in.OccurredOn); err != nil {
		return fmt.Errorf("%w: occurred_on %q: %w", common.ErrInvalidInput, in.OccurredOn, err)
	}
	return nil
}

// Validate checks the settlement date.
func (in CompleteInput) Validate() error {
	if _, err := time.Parse(model.DateLayout, in.OccurredOn); err != nil {
		return fmt.Errorf("%w: occurred_on %q: %w", common.ErrInvalidInput, in.OccurredOn, err)
	}
	return nil
}

// Transaction turns the input into a row with the given id.
func (in TransactionInput) Transaction(id int64) Transaction {
	return Transaction{
		ID:         id,
		Kind:       in.Kind,
		CategoryID: in.CategoryID,
		AccountID:  in.AccountID,
		Amount:     in.Amount,
		Note:       in.Note,
		OccurredOn: in.OccurredOn,
		Completed:  in.Completed,
	}
}
