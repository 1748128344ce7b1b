package bankledger

import "fmt"

type Customer struct {
	ledger     *Ledger
	bankName   string
	customerID int64
	ssn        int
	firstName  string
	lastName   string
	address    string
}

// NewCustomer validates the applicant, allocates a customer id, and appends
// the record to the bank document. The SSN must be nine digits and unique
// within the bank.
func (b *Bank) NewCustomer(ssn int, firstName, lastName, address string) (*Customer, error) {
	fields := make(map[string]string)
	if ssn < 100000000 || ssn > 999999999 {
		fields["ssn"] = fmt.Sprintf("%d is not a valid social security number", ssn)
	}
	if firstName == "" {
		fields["first_name"] = "must not be empty"
	}
	if lastName == "" {
		fields["last_name"] = "must not be empty"
	}
	if address == "" {
		fields["address"] = "must not be empty"
	}
	if len(fields) > 0 {
		err := ErrValidation{Fields: fields}
		b.ledger.auditErr("create_customer", err).Str("bank", b.name).Msg("customer creation failed")
		return nil, err
	}

	c := &Customer{
		ledger:    b.ledger,
		bankName:  b.name,
		ssn:       ssn,
		firstName: firstName,
		lastName:  lastName,
		address:   address,
	}
	err := b.ledger.persist(b.name, func(doc *Document) error {
		if doc.customerBySSN(ssn) != nil {
			return ErrAlreadyExists{Kind: "customer", Key: "the ssn supplied"}
		}
		c.customerID = nextID(doc.customerIDs(), customerIDFloor)
		doc.Customers = append(doc.Customers, CustomerRecord{
			CustomerID: c.customerID,
			SSN:        ssn,
			FirstName:  firstName,
			LastName:   lastName,
			Address:    address,
		})
		return nil
	})
	if err != nil {
		b.ledger.auditErr("create_customer", err).Str("bank", b.name).Msg("customer creation failed")
		return nil, err
	}

	b.ledger.reg.addCustomer(c)
	b.ledger.audit("create_customer").
		Str("bank", b.name).
		Int64("customer_id", c.customerID).
		Msg("customer created")
	return c, nil
}

func (c *Customer) BankName() string {
	return c.bankName
}

func (c *Customer) CustomerID() int64 {
	return c.customerID
}

// MaskedSSN returns the SSN with all but the last four digits obscured.
func (c *Customer) MaskedSSN() string {
	s := fmt.Sprintf("%09d", c.ssn)
	return "xxx-xx-" + s[5:]
}

func (c *Customer) FirstName() string {
	return c.firstName
}

func (c *Customer) LastName() string {
	return c.lastName
}

func (c *Customer) Address() string {
	return c.address
}

func (c *Customer) SetLastName(lastName string) error {
	if lastName == "" {
		err := ErrValidation{Fields: map[string]string{"last_name": "must not be empty"}}
		c.ledger.auditErr("update_customer", err).Int64("customer_id", c.customerID).Msg("last name change failed")
		return err
	}
	c.lastName = lastName
	err := c.ledger.persist(c.bankName, func(doc *Document) error {
		rec := doc.customerByID(c.customerID)
		if rec == nil {
			return ErrNotFound{Kind: "customer", ID: c.customerID}
		}
		rec.LastName = lastName
		return nil
	})
	if err != nil {
		c.ledger.auditErr("update_customer", err).Int64("customer_id", c.customerID).Msg("last name change failed")
		return err
	}
	c.ledger.audit("update_customer").
		Int64("customer_id", c.customerID).
		Str("last_name", lastName).
		Msg("customer changed their last name")
	return nil
}

func (c *Customer) SetAddress(address string) error {
	if address == "" {
		err := ErrValidation{Fields: map[string]string{"address": "must not be empty"}}
		c.ledger.auditErr("update_customer", err).Int64("customer_id", c.customerID).Msg("address change failed")
		return err
	}
	c.address = address
	err := c.ledger.persist(c.bankName, func(doc *Document) error {
		rec := doc.customerByID(c.customerID)
		if rec == nil {
			return ErrNotFound{Kind: "customer", ID: c.customerID}
		}
		rec.Address = address
		return nil
	})
	if err != nil {
		c.ledger.auditErr("update_customer", err).Int64("customer_id", c.customerID).Msg("address change failed")
		return err
	}
	c.ledger.audit("update_customer").
		Int64("customer_id", c.customerID).
		Str("address", address).
		Msg("customer changed their address")
	return nil
}

// Close removes the customer record from the bank document and deregisters
// the customer. Accounts are not cascade-deleted; the ids of any left open
// are returned so the caller can follow up.
func (c *Customer) Close() ([]int64, error) {
	c.ledger.reg.removeCustomer(c)
	var orphans []int64
	err := c.ledger.persist(c.bankName, func(doc *Document) error {
		for i := range doc.Customers {
			if doc.Customers[i].CustomerID == c.customerID {
				doc.Customers = append(doc.Customers[:i], doc.Customers[i+1:]...)
				break
			}
		}
		for _, acct := range doc.Accounts {
			if acct.CustomerID == c.customerID {
				orphans = append(orphans, acct.AccountID)
			}
		}
		return nil
	})
	if err != nil {
		c.ledger.auditErr("close_customer", err).Int64("customer_id", c.customerID).Msg("customer removal failed")
		return nil, err
	}
	c.ledger.audit("close_customer").
		Int64("customer_id", c.customerID).
		Ints64("orphaned_accounts", orphans).
		Msg("customer removed from the bank")
	return orphans, nil
}
