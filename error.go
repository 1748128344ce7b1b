package bankledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInternalServer = errors.New("internal server error")
)

// ErrValidation reports malformed input, e.g., a bad SSN or an empty name.
type ErrValidation struct {
	Fields map[string]string `json:"fields"`
}

func (e ErrValidation) Error() string {
	return fmt.Sprintf("missing/invalid params: %v", e.Fields)
}

type ErrNotFound struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

func (e ErrNotFound) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

type ErrAlreadyExists struct {
	Kind string `json:"kind"`
	Key  string `json:"key"`
}

func (e ErrAlreadyExists) Error() string {
	return fmt.Sprintf("a %s already exists with %s", e.Kind, e.Key)
}

type ErrInsufficientFunds struct {
	AccountID int64           `json:"account_id"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
}

func (e ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("account %d cannot withstand a withdrawal of %s, only %s is available",
		e.AccountID, e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

type ErrOverdraftLimitExceeded struct {
	AccountID int64           `json:"account_id"`
	Requested decimal.Decimal `json:"requested"`
	Fee       decimal.Decimal `json:"fee"`
	Limit     decimal.Decimal `json:"limit"`
}

func (e ErrOverdraftLimitExceeded) Error() string {
	return fmt.Sprintf("withdrawal of %s from account %d brings the balance below the overdraft limit of %s",
		e.Requested.StringFixed(2), e.AccountID, e.Limit.StringFixed(2))
}

type ErrCreditLimitExceeded struct {
	CardNumber int64           `json:"card_number"`
	Requested  decimal.Decimal `json:"requested"`
	Headroom   decimal.Decimal `json:"headroom"`
}

func (e ErrCreditLimitExceeded) Error() string {
	return fmt.Sprintf("purchase of %s declined on card %d, you can spend %s more before maxing out",
		e.Requested.StringFixed(2), e.CardNumber, e.Headroom.StringFixed(2))
}

type ErrCredentialMismatch struct {
	CardNumber int64 `json:"card_number"`
}

func (e ErrCredentialMismatch) Error() string {
	return fmt.Sprintf("the CVV supplied does not match card %d, transaction declined", e.CardNumber)
}

// ErrInvalidInput reports an unrecognized answer from the overdraft
// confirmation port.
type ErrInvalidInput struct {
	Input string `json:"input"`
}

func (e ErrInvalidInput) Error() string {
	return fmt.Sprintf("input must be either %q or %q, got %q", "y", "n", e.Input)
}

// ErrStorage wraps an I/O failure from a Store backend. It is fatal to the
// operation that hit it, not to the process.
type ErrStorage struct {
	Op  string
	Err error
}

func (e ErrStorage) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e ErrStorage) Unwrap() error {
	return e.Err
}
