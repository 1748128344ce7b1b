package bankledger

import "sync"

type entityKey struct {
	bank string
	id   int64
}

// Registry indexes the live in-memory entities of a Ledger session. Ids are
// only unique within a bank, so every index is keyed by (bank, id). Card
// payment resolves its paying account here rather than from the persisted
// document so it operates on the live balance.
type Registry struct {
	mu       sync.RWMutex
	banks    map[string]*Bank
	custs    map[entityKey]*Customer
	savings  map[entityKey]*SavingsAccount
	checking map[entityKey]*CheckingAccount
	cards    map[entityKey]*CreditCard
}

func NewRegistry() *Registry {
	return &Registry{
		banks:    make(map[string]*Bank),
		custs:    make(map[entityKey]*Customer),
		savings:  make(map[entityKey]*SavingsAccount),
		checking: make(map[entityKey]*CheckingAccount),
		cards:    make(map[entityKey]*CreditCard),
	}
}

func (r *Registry) Bank(name string) (*Bank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.banks[name]
	if !ok {
		return nil, ErrNotFound{Kind: "bank", Name: name}
	}
	return b, nil
}

// FindAccountByID resolves a live account of either variant.
func (r *Registry) FindAccountByID(bankName string, id int64) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := entityKey{bank: bankName, id: id}
	if acct, ok := r.checking[key]; ok {
		return acct, nil
	}
	if acct, ok := r.savings[key]; ok {
		return acct, nil
	}
	return nil, ErrNotFound{Kind: "account", ID: id}
}

// FindCheckingAccount resolves a live checking account, the only variant
// allowed to fund a card payment.
func (r *Registry) FindCheckingAccount(bankName string, id int64) (*CheckingAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acct, ok := r.checking[entityKey{bank: bankName, id: id}]
	if !ok {
		return nil, ErrNotFound{Kind: "checking account", ID: id}
	}
	return acct, nil
}

func (r *Registry) FindCard(bankName string, number int64) (*CreditCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	card, ok := r.cards[entityKey{bank: bankName, id: number}]
	if !ok {
		return nil, ErrNotFound{Kind: "credit card", ID: number}
	}
	return card, nil
}

func (r *Registry) FindCustomer(bankName string, id int64) (*Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.custs[entityKey{bank: bankName, id: id}]
	if !ok {
		return nil, ErrNotFound{Kind: "customer", ID: id}
	}
	return c, nil
}

func (r *Registry) addBank(b *Bank) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.banks[b.name] = b
}

func (r *Registry) addCustomer(c *Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custs[entityKey{bank: c.bankName, id: c.customerID}] = c
}

func (r *Registry) removeCustomer(c *Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.custs, entityKey{bank: c.bankName, id: c.customerID})
}

func (r *Registry) addSavings(a *SavingsAccount) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.savings[entityKey{bank: a.bankName, id: a.accountID}] = a
}

func (r *Registry) addChecking(a *CheckingAccount) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checking[entityKey{bank: a.bankName, id: a.accountID}] = a
}

func (r *Registry) addCard(c *CreditCard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards[entityKey{bank: c.bankName, id: c.cardNumber}] = c
}

func (r *Registry) savingsOf(bankName string) []*SavingsAccount {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var accts []*SavingsAccount
	for key, acct := range r.savings {
		if key.bank == bankName {
			accts = append(accts, acct)
		}
	}
	return accts
}

func (r *Registry) cardsOf(bankName string) []*CreditCard {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var cards []*CreditCard
	for key, card := range r.cards {
		if key.bank == bankName {
			cards = append(cards, card)
		}
	}
	return cards
}

// dropBank deregisters the bank and every entity belonging to it.
func (r *Registry) dropBank(bankName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.banks, bankName)
	for key := range r.custs {
		if key.bank == bankName {
			delete(r.custs, key)
		}
	}
	for key := range r.savings {
		if key.bank == bankName {
			delete(r.savings, key)
		}
	}
	for key := range r.checking {
		if key.bank == bankName {
			delete(r.checking, key)
		}
	}
	for key := range r.cards {
		if key.bank == bankName {
			delete(r.cards, key)
		}
	}
}
