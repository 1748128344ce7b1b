package bankledger

// Bank is a handle on one persisted bank document. Entities are created
// through it and carry its name; destruction cascades to all of them.
type Bank struct {
	name   string
	ledger *Ledger
}

// CreateBank provisions an empty document for name and registers the bank
// as live. Fails with ErrAlreadyExists if a document for name exists.
func (l *Ledger) CreateBank(name string) (*Bank, error) {
	if name == "" {
		err := ErrValidation{Fields: map[string]string{"name": "must not be empty"}}
		l.auditErr("create_bank", err).Msg("bank creation failed")
		return nil, err
	}

	if err := l.store.Create(name, newDocument(name)); err != nil {
		l.auditErr("create_bank", err).Str("bank", name).Msg("bank creation failed")
		return nil, err
	}

	b := &Bank{name: name, ledger: l}
	l.reg.addBank(b)
	l.audit("create_bank").Str("bank", name).Msg("bank created")
	return b, nil
}

func (b *Bank) Name() string {
	return b.name
}

// NextMonth closes the month for the whole bank: every savings account
// accrues interest and every credit card rolls its statement. Each account
// and card is processed exactly once.
func (b *Bank) NextMonth() error {
	for _, acct := range b.ledger.reg.savingsOf(b.name) {
		if err := acct.NextMonth(); err != nil {
			return err
		}
	}
	for _, card := range b.ledger.reg.cardsOf(b.name) {
		if err := card.NextMonth(); err != nil {
			return err
		}
	}
	b.ledger.audit("next_month").Str("bank", b.name).Msg("month closed")
	return nil
}

// Destroy deregisters every entity belonging to the bank and deletes its
// document from the store.
func (b *Bank) Destroy() error {
	b.ledger.reg.dropBank(b.name)
	if err := b.ledger.store.Delete(b.name); err != nil {
		b.ledger.auditErr("destroy_bank", err).Str("bank", b.name).Msg("bank destruction failed")
		return err
	}
	b.ledger.audit("destroy_bank").Str("bank", b.name).Msg("bank destroyed")
	return nil
}
