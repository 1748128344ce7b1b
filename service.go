package bankledger

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type CreateBankReq struct {
	Name string `json:"name"`
}

type CreateCustomerReq struct {
	Bank      string `json:"-"`
	SSN       int    `json:"ssn"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
}

type OpenAccountReq struct {
	Bank       string         `json:"-"`
	CustomerID int64          `json:"customer_id"`
	Type       string         `json:"type"` // "savings" or "checking"
	Savings    *SavingsTerms  `json:"savings,omitempty"`
	Checking   *CheckingTerms `json:"checking,omitempty"`
}

type OpenCardReq struct {
	Bank       string     `json:"-"`
	CustomerID int64      `json:"customer_id"`
	Terms      *CardTerms `json:"terms,omitempty"`
}

type ChargeReq struct {
	Bank      string          `json:"-"`
	AccountID int64           `json:"-"`
	Amount    decimal.Decimal `json:"amount"`
}

type BalanceReq struct {
	Bank      string
	AccountID int64
}

type SpendReq struct {
	Bank       string          `json:"-"`
	CardNumber int64           `json:"-"`
	Amount     decimal.Decimal `json:"amount"`
	CVV        int             `json:"cvv"`
	Note       string          `json:"note,omitempty"`
}

type PayReq struct {
	Bank       string          `json:"-"`
	CardNumber int64           `json:"-"`
	AccountID  int64           `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type StatementReq struct {
	Bank       string
	AccountID  int64
	CardNumber int64
}

// Service is the by-id surface a thin entry point (HTTP, CLI) talks to.
// It resolves live entities through the Ledger's registry and delegates to
// their operations.
type Service interface {
	CreateBank(CreateBankReq) error
	DeleteBank(name string) error
	NextMonth(bank string) error
	CreateCustomer(CreateCustomerReq) (*Customer, error)
	OpenAccount(OpenAccountReq) (Account, error)
	OpenCard(OpenCardReq) (*CreditCard, error)
	Deposit(ChargeReq) (*decimal.Decimal, error)
	Withdraw(ChargeReq) (*decimal.Decimal, error)
	Balance(BalanceReq) (*decimal.Decimal, error)
	Spend(SpendReq) (*decimal.Decimal, error)
	Pay(PayReq) (*decimal.Decimal, error)
	Statement(io.Writer, StatementReq) error
}

func NewService(ledger *Ledger, log *zerolog.Logger) *serviceImpl {
	return &serviceImpl{
		ledger: ledger,
		log:    log,
	}
}

type serviceImpl struct {
	ledger *Ledger
	log    *zerolog.Logger
}

var (
	_ Service = (*serviceImpl)(nil)
)

func (s *serviceImpl) CreateBank(req CreateBankReq) error {
	_, err := s.ledger.CreateBank(req.Name)
	return err
}

func (s *serviceImpl) DeleteBank(name string) error {
	b, err := s.ledger.reg.Bank(name)
	if err != nil {
		return err
	}
	return b.Destroy()
}

func (s *serviceImpl) NextMonth(bank string) error {
	b, err := s.ledger.reg.Bank(bank)
	if err != nil {
		return err
	}
	return b.NextMonth()
}

func (s *serviceImpl) CreateCustomer(req CreateCustomerReq) (*Customer, error) {
	b, err := s.ledger.reg.Bank(req.Bank)
	if err != nil {
		return nil, err
	}
	return b.NewCustomer(req.SSN, req.FirstName, req.LastName, req.Address)
}

func (s *serviceImpl) OpenAccount(req OpenAccountReq) (Account, error) {
	b, err := s.ledger.reg.Bank(req.Bank)
	if err != nil {
		return nil, err
	}
	switch req.Type {
	case "savings":
		terms := DefaultSavingsTerms()
		if req.Savings != nil {
			terms = *req.Savings
		}
		return b.OpenSavings(req.CustomerID, terms)
	case "checking":
		terms := DefaultCheckingTerms()
		if req.Checking != nil {
			terms = *req.Checking
		}
		return b.OpenChecking(req.CustomerID, terms)
	default:
		return nil, ErrValidation{Fields: map[string]string{"type": "must be savings or checking"}}
	}
}

func (s *serviceImpl) OpenCard(req OpenCardReq) (*CreditCard, error) {
	b, err := s.ledger.reg.Bank(req.Bank)
	if err != nil {
		return nil, err
	}
	terms := DefaultCardTerms()
	if req.Terms != nil {
		terms = *req.Terms
	}
	return b.OpenCard(req.CustomerID, terms)
}

func (s *serviceImpl) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	acct, err := s.ledger.reg.FindAccountByID(req.Bank, req.AccountID)
	if err != nil {
		return nil, err
	}
	if err := acct.Deposit(req.Amount); err != nil {
		return nil, err
	}
	bal := acct.Balance()
	return &bal, nil
}

func (s *serviceImpl) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	acct, err := s.ledger.reg.FindAccountByID(req.Bank, req.AccountID)
	if err != nil {
		return nil, err
	}
	if err := acct.Withdraw(req.Amount); err != nil {
		return nil, err
	}
	bal := acct.Balance()
	return &bal, nil
}

func (s *serviceImpl) Balance(req BalanceReq) (*decimal.Decimal, error) {
	acct, err := s.ledger.reg.FindAccountByID(req.Bank, req.AccountID)
	if err != nil {
		return nil, err
	}
	bal := acct.Balance()
	return &bal, nil
}

func (s *serviceImpl) Spend(req SpendReq) (*decimal.Decimal, error) {
	card, err := s.ledger.reg.FindCard(req.Bank, req.CardNumber)
	if err != nil {
		return nil, err
	}
	if err := card.Spend(req.Amount, req.CVV, req.Note); err != nil {
		return nil, err
	}
	cur := card.CurrentBalance()
	return &cur, nil
}

func (s *serviceImpl) Pay(req PayReq) (*decimal.Decimal, error) {
	card, err := s.ledger.reg.FindCard(req.Bank, req.CardNumber)
	if err != nil {
		return nil, err
	}
	if err := card.Pay(req.AccountID, req.Amount); err != nil {
		return nil, err
	}
	cur := card.CurrentBalance()
	return &cur, nil
}
