package bankledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// Account is the shared contract of both deposit-account variants. Withdraw
// policy differs per variant; everything else is common.
type Account interface {
	BankName() string
	AccountID() int64
	CustomerID() int64
	Balance() decimal.Decimal
	Deposit(amount decimal.Decimal) error
	Withdraw(amount decimal.Decimal) error
}

var (
	_ Account = (*SavingsAccount)(nil)
	_ Account = (*CheckingAccount)(nil)
)

type baseAccount struct {
	ledger     *Ledger
	bankName   string
	accountID  int64
	customerID int64
	balance    decimal.Decimal
}

func (a *baseAccount) BankName() string {
	return a.bankName
}

func (a *baseAccount) AccountID() int64 {
	return a.accountID
}

func (a *baseAccount) CustomerID() int64 {
	return a.customerID
}

func (a *baseAccount) Balance() decimal.Decimal {
	return a.balance
}

// setBalance updates the live balance and re-persists the bank document.
// The in-memory value is committed first; a store failure leaves the two
// out of sync until the next successful write (there is no write-ahead log).
func (a *baseAccount) setBalance(balance decimal.Decimal) error {
	a.balance = balance
	return a.ledger.persist(a.bankName, func(doc *Document) error {
		rec := doc.accountByID(a.accountID)
		if rec == nil {
			return ErrNotFound{Kind: "account", ID: a.accountID}
		}
		rec.Balance = balance
		return nil
	})
}

// Deposit credits the account. Amounts are expected to be positive; the
// service layer enforces that, the core applies whatever it is given.
func (a *baseAccount) Deposit(amount decimal.Decimal) error {
	if err := a.setBalance(a.balance.Add(amount)); err != nil {
		a.ledger.auditErr("deposit", err).Int64("account_id", a.accountID).Msg("deposit failed")
		return err
	}
	a.ledger.audit("deposit").
		Int64("account_id", a.accountID).
		Int64("customer_id", a.customerID).
		Str("amount", amount.StringFixed(2)).
		Str("balance", a.balance.StringFixed(2)).
		Msg("deposit applied")
	return nil
}

// SavingsTerms parameterizes a new savings account.
type SavingsTerms struct {
	StartingBalance decimal.Decimal `json:"starting_balance"`
	MinimumBalance  decimal.Decimal `json:"minimum_balance"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
}

// DefaultSavingsTerms opens with 500 on deposit, a 500 floor, and 0.5% APY.
func DefaultSavingsTerms() SavingsTerms {
	return SavingsTerms{
		StartingBalance: decimal.NewFromInt(500),
		MinimumBalance:  decimal.NewFromInt(500),
		InterestRate:    decimal.NewFromFloat(0.005),
	}
}

type SavingsAccount struct {
	baseAccount
	minimumBalance decimal.Decimal
	interestRate   decimal.Decimal
}

// OpenSavings allocates an account id (shared with checking accounts) and
// appends the record to the bank document. The owning customer is not
// required to exist.
func (b *Bank) OpenSavings(customerID int64, terms SavingsTerms) (*SavingsAccount, error) {
	acct := &SavingsAccount{
		baseAccount: baseAccount{
			ledger:     b.ledger,
			bankName:   b.name,
			customerID: customerID,
			balance:    terms.StartingBalance,
		},
		minimumBalance: terms.MinimumBalance,
		interestRate:   terms.InterestRate,
	}
	err := b.ledger.persist(b.name, func(doc *Document) error {
		acct.accountID = nextID(doc.accountIDs(), accountIDFloor)
		doc.Accounts = append(doc.Accounts, AccountRecord{
			AccountID:      acct.accountID,
			CustomerID:     customerID,
			Balance:        terms.StartingBalance,
			Type:           accountTypeSavings,
			MinimumBalance: terms.MinimumBalance,
			InterestRate:   terms.InterestRate,
		})
		return nil
	})
	if err != nil {
		b.ledger.auditErr("open_savings", err).Str("bank", b.name).Msg("savings account creation failed")
		return nil, err
	}

	b.ledger.reg.addSavings(acct)
	b.ledger.audit("open_savings").
		Str("bank", b.name).
		Int64("account_id", acct.accountID).
		Int64("customer_id", customerID).
		Msg("savings account created")
	return acct, nil
}

func (a *SavingsAccount) MinimumBalance() decimal.Decimal {
	return a.minimumBalance
}

func (a *SavingsAccount) InterestRate() decimal.Decimal {
	return a.interestRate
}

// Withdraw debits the account. The balance may never drop below the
// account's minimum balance; such requests fail with ErrInsufficientFunds
// and no state change.
func (a *SavingsAccount) Withdraw(amount decimal.Decimal) error {
	if a.minimumBalance.GreaterThan(a.balance.Sub(amount)) {
		err := ErrInsufficientFunds{
			AccountID: a.accountID,
			Requested: amount,
			Available: a.balance.Sub(a.minimumBalance),
		}
		a.ledger.auditErr("withdraw", err).Int64("account_id", a.accountID).Msg("withdrawal declined")
		return err
	}
	if err := a.setBalance(a.balance.Sub(amount)); err != nil {
		a.ledger.auditErr("withdraw", err).Int64("account_id", a.accountID).Msg("withdrawal failed")
		return err
	}
	a.ledger.audit("withdraw").
		Int64("account_id", a.accountID).
		Int64("customer_id", a.customerID).
		Str("amount", amount.StringFixed(2)).
		Str("balance", a.balance.StringFixed(2)).
		Msg("withdrawal applied")
	return nil
}

// NextMonth accrues one month of interest: balance += balance * (rate/12).
func (a *SavingsAccount) NextMonth() error {
	accrued := a.balance.Add(a.balance.Mul(a.interestRate.Div(monthsPerYear)))
	if err := a.setBalance(accrued); err != nil {
		a.ledger.auditErr("accrue_interest", err).Int64("account_id", a.accountID).Msg("interest accrual failed")
		return err
	}
	a.ledger.audit("accrue_interest").
		Int64("account_id", a.accountID).
		Str("balance", a.balance.StringFixed(2)).
		Msg("monthly interest applied")
	return nil
}

// CheckingTerms parameterizes a new checking account.
type CheckingTerms struct {
	StartingBalance decimal.Decimal `json:"starting_balance"`
	OverdraftLimit  decimal.Decimal `json:"overdraft_limit"`
	OverdraftFee    decimal.Decimal `json:"overdraft_fee"`
}

// DefaultCheckingTerms opens empty with a 100 overdraft limit and a 25 fee.
func DefaultCheckingTerms() CheckingTerms {
	return CheckingTerms{
		OverdraftLimit: decimal.NewFromInt(100),
		OverdraftFee:   decimal.NewFromInt(25),
	}
}

type CheckingAccount struct {
	baseAccount
	overdraftLimit decimal.Decimal
	overdraftFee   decimal.Decimal
}

func (b *Bank) OpenChecking(customerID int64, terms CheckingTerms) (*CheckingAccount, error) {
	acct := &CheckingAccount{
		baseAccount: baseAccount{
			ledger:     b.ledger,
			bankName:   b.name,
			customerID: customerID,
			balance:    terms.StartingBalance,
		},
		overdraftLimit: terms.OverdraftLimit,
		overdraftFee:   terms.OverdraftFee,
	}
	err := b.ledger.persist(b.name, func(doc *Document) error {
		acct.accountID = nextID(doc.accountIDs(), accountIDFloor)
		doc.Accounts = append(doc.Accounts, AccountRecord{
			AccountID:      acct.accountID,
			CustomerID:     customerID,
			Balance:        terms.StartingBalance,
			Type:           accountTypeChecking,
			OverdraftLimit: terms.OverdraftLimit,
			OverdraftFee:   terms.OverdraftFee,
		})
		return nil
	})
	if err != nil {
		b.ledger.auditErr("open_checking", err).Str("bank", b.name).Msg("checking account creation failed")
		return nil, err
	}

	b.ledger.reg.addChecking(acct)
	b.ledger.audit("open_checking").
		Str("bank", b.name).
		Int64("account_id", acct.accountID).
		Int64("customer_id", customerID).
		Msg("checking account created")
	return acct, nil
}

func (a *CheckingAccount) OverdraftLimit() decimal.Decimal {
	return a.overdraftLimit
}

func (a *CheckingAccount) OverdraftFee() decimal.Decimal {
	return a.overdraftFee
}

// Withdraw debits the account. A covered withdrawal applies as-is. When the
// balance cannot cover it, the fee-inclusive shortfall is checked against
// the overdraft limit; within the limit, the withdrawal plus fee applies
// only after the confirmation port answers yes. A "no" cancels with no
// state change.
func (a *CheckingAccount) Withdraw(amount decimal.Decimal) error {
	switch {
	case a.balance.GreaterThanOrEqual(amount):
		if err := a.setBalance(a.balance.Sub(amount)); err != nil {
			a.ledger.auditErr("withdraw", err).Int64("account_id", a.accountID).Msg("withdrawal failed")
			return err
		}
		a.ledger.audit("withdraw").
			Int64("account_id", a.accountID).
			Int64("customer_id", a.customerID).
			Str("amount", amount.StringFixed(2)).
			Str("balance", a.balance.StringFixed(2)).
			Msg("withdrawal applied")
		return nil

	case amount.Add(a.overdraftFee).Sub(a.balance).GreaterThanOrEqual(a.overdraftLimit):
		err := ErrOverdraftLimitExceeded{
			AccountID: a.accountID,
			Requested: amount,
			Fee:       a.overdraftFee,
			Limit:     a.overdraftLimit,
		}
		a.ledger.auditErr("withdraw", err).Int64("account_id", a.accountID).Msg("withdrawal declined")
		return err

	default:
		prompt := fmt.Sprintf("The requested withdrawal will incur an overdraft fee of %s. Would you like to continue (y/n)?",
			a.overdraftFee.StringFixed(2))
		answer, err := a.ledger.confirm(prompt)
		if err != nil {
			a.ledger.auditErr("withdraw", err).Int64("account_id", a.accountID).Msg("overdraft confirmation failed")
			return err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			if err := a.setBalance(a.balance.Sub(amount.Add(a.overdraftFee))); err != nil {
				a.ledger.auditErr("withdraw", err).Int64("account_id", a.accountID).Msg("withdrawal failed")
				return err
			}
			a.ledger.audit("withdraw").
				Int64("account_id", a.accountID).
				Int64("customer_id", a.customerID).
				Str("amount", amount.StringFixed(2)).
				Str("overdraft_fee", a.overdraftFee.StringFixed(2)).
				Str("balance", a.balance.StringFixed(2)).
				Msg("withdrawal applied with overdraft fee")
			return nil
		case "n", "no":
			a.ledger.audit("withdraw").
				Int64("account_id", a.accountID).
				Str("amount", amount.StringFixed(2)).
				Msg("withdrawal cancelled")
			return nil
		default:
			err := ErrInvalidInput{Input: answer}
			a.ledger.auditErr("withdraw", err).Int64("account_id", a.accountID).Msg("overdraft confirmation rejected")
			return err
		}
	}
}
