package bankledger

import (
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// CardTerms parameterizes a new credit card.
type CardTerms struct {
	CreditLimit decimal.Decimal `json:"credit_limit"`
	APR         decimal.Decimal `json:"apr"`
}

// DefaultCardTerms issues with a 1000 limit at 26% APR.
func DefaultCardTerms() CardTerms {
	return CardTerms{
		CreditLimit: decimal.NewFromInt(1000),
		APR:         decimal.NewFromFloat(0.26),
	}
}

// CreditCard tracks two balances: the statement balance (billed and due)
// and the current balance (total owed, always >= statement balance). The
// difference between the two is the unbilled spend of the open cycle.
type CreditCard struct {
	ledger           *Ledger
	bankName         string
	cardNumber       int64
	cvv              int
	customerID       int64
	creditLimit      decimal.Decimal
	apr              decimal.Decimal
	statementBalance decimal.Decimal
	currentBalance   decimal.Decimal
}

// OpenCard allocates a 16-digit card number, mints a random CVV, and
// appends the record to the bank document.
func (b *Bank) OpenCard(customerID int64, terms CardTerms) (*CreditCard, error) {
	card := &CreditCard{
		ledger:      b.ledger,
		bankName:    b.name,
		cvv:         100 + rand.Intn(900),
		customerID:  customerID,
		creditLimit: terms.CreditLimit,
		apr:         terms.APR,
	}
	err := b.ledger.persist(b.name, func(doc *Document) error {
		card.cardNumber = nextID(doc.cardNumbers(), cardNumberFloor)
		doc.CreditCards = append(doc.CreditCards, CardRecord{
			CardNumber:  card.cardNumber,
			CVV:         card.cvv,
			CustomerID:  customerID,
			CreditLimit: terms.CreditLimit,
			APR:         terms.APR,
		})
		return nil
	})
	if err != nil {
		b.ledger.auditErr("open_card", err).Str("bank", b.name).Msg("credit card creation failed")
		return nil, err
	}

	b.ledger.reg.addCard(card)
	b.ledger.audit("open_card").
		Str("bank", b.name).
		Int64("card_number", card.cardNumber).
		Int64("customer_id", customerID).
		Msg("credit card opened")
	return card, nil
}

func (c *CreditCard) BankName() string {
	return c.bankName
}

func (c *CreditCard) CustomerID() int64 {
	return c.customerID
}

func (c *CreditCard) CardNumber() int64 {
	return c.cardNumber
}

// FormattedNumber renders the card number in 4-digit groups.
func (c *CreditCard) FormattedNumber() string {
	s := fmt.Sprintf("%016d", c.cardNumber)
	return s[:4] + "-" + s[4:8] + "-" + s[8:12] + "-" + s[12:]
}

func (c *CreditCard) CVV() int {
	return c.cvv
}

func (c *CreditCard) CreditLimit() decimal.Decimal {
	return c.creditLimit
}

func (c *CreditCard) APR() decimal.Decimal {
	return c.apr
}

func (c *CreditCard) StatementBalance() decimal.Decimal {
	return c.statementBalance
}

func (c *CreditCard) CurrentBalance() decimal.Decimal {
	return c.currentBalance
}

func (c *CreditCard) persistBalances() error {
	return c.ledger.persist(c.bankName, func(doc *Document) error {
		rec := doc.cardByNumber(c.cardNumber)
		if rec == nil {
			return ErrNotFound{Kind: "credit card", ID: c.cardNumber}
		}
		rec.CurrentBalance = c.currentBalance
		rec.StatementBalance = c.statementBalance
		return nil
	})
}

// Spend puts a purchase on the card. The CVV is checked before the limit;
// a purchase that would push the current balance above the credit limit is
// declined with the remaining headroom in the error.
func (c *CreditCard) Spend(amount decimal.Decimal, cvv int, note string) error {
	if cvv != c.cvv {
		err := ErrCredentialMismatch{CardNumber: c.cardNumber}
		c.ledger.auditErr("spend", err).
			Int64("card_number", c.cardNumber).
			Str("amount", amount.StringFixed(2)).
			Msg("transaction declined")
		return err
	}
	if c.creditLimit.LessThan(c.currentBalance.Add(amount)) {
		err := ErrCreditLimitExceeded{
			CardNumber: c.cardNumber,
			Requested:  amount,
			Headroom:   c.creditLimit.Sub(c.currentBalance),
		}
		c.ledger.auditErr("spend", err).
			Int64("card_number", c.cardNumber).
			Str("amount", amount.StringFixed(2)).
			Msg("transaction declined")
		return err
	}

	c.currentBalance = c.currentBalance.Add(amount)
	c.statementBalance = c.statementBalance.Add(amount)
	if err := c.persistBalances(); err != nil {
		c.ledger.auditErr("spend", err).Int64("card_number", c.cardNumber).Msg("purchase persistence failed")
		return err
	}

	evt := c.ledger.audit("spend").
		Int64("card_number", c.cardNumber).
		Str("amount", amount.StringFixed(2)).
		Str("current_balance", c.currentBalance.StringFixed(2))
	if note != "" {
		evt = evt.Str("note", note)
	}
	evt.Msg("purchase made")
	return nil
}

// Pay applies a payment funded by a checking account of the same bank,
// resolved live through the registry. Cases, in order:
//
//  1. amount > current balance: full payoff, the account is debited for
//     exactly the current balance and both card balances zero out.
//  2. amount < unbilled spend: the current balance drops by amount, the
//     statement balance is untouched, and the account is NOT debited.
//     Callers that must not forgive the funds should pay at least the
//     unbilled amount.
//  3. otherwise: the current balance drops by amount, the statement
//     balance settles (to zero once covered), and the account is debited.
func (c *CreditCard) Pay(accountID int64, amount decimal.Decimal) error {
	acct, err := c.ledger.reg.FindCheckingAccount(c.bankName, accountID)
	if err != nil {
		c.ledger.auditErr("pay", err).Int64("card_number", c.cardNumber).Msg("payment failed")
		return err
	}

	if acct.Balance().LessThan(amount) {
		err := ErrInsufficientFunds{
			AccountID: accountID,
			Requested: amount,
			Available: acct.Balance(),
		}
		c.ledger.auditErr("pay", err).Int64("card_number", c.cardNumber).Msg("payment declined")
		return err
	}

	unbilled := c.currentBalance.Sub(c.statementBalance)
	switch {
	case amount.GreaterThan(c.currentBalance):
		if err := acct.Withdraw(c.currentBalance); err != nil {
			c.ledger.auditErr("pay", err).Int64("card_number", c.cardNumber).Msg("payment failed")
			return err
		}
		c.currentBalance = decimal.Zero
		c.statementBalance = decimal.Zero

	case amount.LessThan(unbilled):
		c.currentBalance = c.currentBalance.Sub(amount)

	default:
		if c.statementBalance.LessThanOrEqual(amount) {
			c.statementBalance = decimal.Zero
		} else {
			c.statementBalance = c.statementBalance.Add(unbilled.Sub(amount))
		}
		c.currentBalance = c.currentBalance.Sub(amount)
		if err := acct.Withdraw(amount); err != nil {
			c.ledger.auditErr("pay", err).Int64("card_number", c.cardNumber).Msg("payment failed")
			return err
		}
	}

	if err := c.persistBalances(); err != nil {
		c.ledger.auditErr("pay", err).Int64("card_number", c.cardNumber).Msg("payment persistence failed")
		return err
	}
	c.ledger.audit("pay").
		Int64("card_number", c.cardNumber).
		Int64("account_id", accountID).
		Str("amount", amount.StringFixed(2)).
		Str("statement_balance", c.statementBalance.StringFixed(2)).
		Str("current_balance", c.currentBalance.StringFixed(2)).
		Msg("payment applied")
	return nil
}

// NextMonth closes the billing cycle. With no spend since the last close,
// the current balance simply carries over and the statement reopens at
// zero. Otherwise only the unbilled portion accrues one month of interest:
// current = statement + unbilled * (1 + apr/12), statement = 0.
func (c *CreditCard) NextMonth() error {
	if c.currentBalance.Equal(c.statementBalance) {
		c.statementBalance = decimal.Zero
	} else {
		unbilled := c.currentBalance.Sub(c.statementBalance)
		c.currentBalance = c.statementBalance.Add(unbilled.Mul(one.Add(c.apr.Div(monthsPerYear))))
		c.statementBalance = decimal.Zero
	}
	if err := c.persistBalances(); err != nil {
		c.ledger.auditErr("close_statement", err).Int64("card_number", c.cardNumber).Msg("statement close failed")
		return err
	}
	c.ledger.audit("close_statement").
		Int64("card_number", c.cardNumber).
		Str("current_balance", c.currentBalance.StringFixed(2)).
		Msg("statement closed")
	return nil
}
