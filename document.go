package bankledger

import "github.com/shopspring/decimal"

// Floors for freshly allocated identifiers. Allocation is max+1 over the
// ids already present in the persisted document, so ids stay consistent
// even when the document is edited out of band.
const (
	customerIDFloor = 10001
	accountIDFloor  = 90001
	cardNumberFloor = 1234123412340001
)

// Account type tags stored in AccountRecord.Type.
const (
	accountTypeSavings  = "S"
	accountTypeChecking = "C"
)

type CustomerRecord struct {
	CustomerID int64  `json:"customer_id"`
	SSN        int    `json:"ssn"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address    string `json:"address"`
}

type AccountRecord struct {
	AccountID      int64           `json:"account_id"`
	CustomerID     int64           `json:"customer_id"`
	Balance        decimal.Decimal `json:"balance"`
	Type           string          `json:"type"`
	MinimumBalance decimal.Decimal `json:"minimum_balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	OverdraftLimit decimal.Decimal `json:"overdraft_limit"`
	OverdraftFee   decimal.Decimal `json:"overdraft_fee"`
}

type CardRecord struct {
	CardNumber       int64           `json:"card_number"`
	CVV              int             `json:"cvv"`
	CustomerID       int64           `json:"customer_id"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	APR              decimal.Decimal `json:"apr"`
	StatementBalance decimal.Decimal `json:"statement_balance"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
}

// Document is the whole persisted state of one bank. Stores replace it
// wholesale on every write; Revision counts writes and is the hook for
// optimistic versioning should a backend ever want to reject stale writes.
type Document struct {
	BankName    string           `json:"bank_name"`
	Revision    int64            `json:"revision"`
	Customers   []CustomerRecord `json:"customers"`
	Accounts    []AccountRecord  `json:"accounts"`
	CreditCards []CardRecord     `json:"credit_cards"`
}

func newDocument(bankName string) *Document {
	return &Document{
		BankName:    bankName,
		Customers:   []CustomerRecord{},
		Accounts:    []AccountRecord{},
		CreditCards: []CardRecord{},
	}
}

// nextID returns max(existing)+1, or floor when no ids exist yet.
func nextID(existing []int64, floor int64) int64 {
	next := floor
	for _, id := range existing {
		if id+1 > next {
			next = id + 1
		}
	}
	return next
}

func (d *Document) customerIDs() []int64 {
	ids := make([]int64, 0, len(d.Customers))
	for _, c := range d.Customers {
		ids = append(ids, c.CustomerID)
	}
	return ids
}

func (d *Document) accountIDs() []int64 {
	ids := make([]int64, 0, len(d.Accounts))
	for _, a := range d.Accounts {
		ids = append(ids, a.AccountID)
	}
	return ids
}

func (d *Document) cardNumbers() []int64 {
	nums := make([]int64, 0, len(d.CreditCards))
	for _, c := range d.CreditCards {
		nums = append(nums, c.CardNumber)
	}
	return nums
}

func (d *Document) customerByID(id int64) *CustomerRecord {
	for i := range d.Customers {
		if d.Customers[i].CustomerID == id {
			return &d.Customers[i]
		}
	}
	return nil
}

func (d *Document) customerBySSN(ssn int) *CustomerRecord {
	for i := range d.Customers {
		if d.Customers[i].SSN == ssn {
			return &d.Customers[i]
		}
	}
	return nil
}

func (d *Document) accountByID(id int64) *AccountRecord {
	for i := range d.Accounts {
		if d.Accounts[i].AccountID == id {
			return &d.Accounts[i]
		}
	}
	return nil
}

func (d *Document) cardByNumber(num int64) *CardRecord {
	for i := range d.CreditCards {
		if d.CreditCards[i].CardNumber == num {
			return &d.CreditCards[i]
		}
	}
	return nil
}
