package bankledger_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffabe/bankledger"
)

func newFileStore(t *testing.T) *bankledger.FileStore {
	t.Helper()
	nooplog := zerolog.Nop()
	store, err := bankledger.NewFileStore(t.TempDir(), &nooplog)
	require.NoError(t, err)
	return store
}

func TestFileStoreLoad(t *testing.T) {
	t.Run("missing bank returns ErrNotFound", func(tt *testing.T) {
		as := assert.New(tt)
		store := newFileStore(tt)

		_, err := store.Load("no such bank")
		nf := bankledger.ErrNotFound{}
		as.ErrorAs(err, &nf)
		as.Equal("no such bank", nf.Name)
	})

	t.Run("documents round-trip exactly", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		store := newFileStore(tt)

		doc := &bankledger.Document{
			BankName: "bank test",
			Revision: 3,
			Customers: []bankledger.CustomerRecord{
				{CustomerID: 10001, SSN: 123456789, FirstName: "Jeff", LastName: "Abe", Address: "1234 Main st"},
			},
			Accounts: []bankledger.AccountRecord{
				{
					AccountID:      90001,
					CustomerID:     10001,
					Balance:        decimal.RequireFromString("-26.00"),
					Type:           "C",
					OverdraftLimit: decimal.NewFromInt(100),
					OverdraftFee:   decimal.NewFromInt(25),
				},
			},
			CreditCards: []bankledger.CardRecord{
				{
					CardNumber:       1234123412340001,
					CVV:              123,
					CustomerID:       10001,
					CreditLimit:      decimal.NewFromInt(1000),
					APR:              decimal.RequireFromString("0.26"),
					StatementBalance: decimal.RequireFromString("50"),
					CurrentBalance:   decimal.RequireFromString("201.0833"),
				},
			},
		}
		reqrd.NoError(store.Create("bank test", doc))

		got, err := store.Load("bank test")
		reqrd.NoError(err)
		as.Equal(doc.BankName, got.BankName)
		as.Equal(doc.Revision, got.Revision)
		as.Equal(doc.Customers, got.Customers)
		reqrd.Len(got.Accounts, 1)
		as.True(got.Accounts[0].Balance.Equal(doc.Accounts[0].Balance))
		reqrd.Len(got.CreditCards, 1)
		as.True(got.CreditCards[0].CurrentBalance.Equal(doc.CreditCards[0].CurrentBalance))
		as.Equal(doc.CreditCards[0].CVV, got.CreditCards[0].CVV)
	})
}

func TestFileStoreCreate(t *testing.T) {
	as := assert.New(t)
	reqrd := require.New(t)
	store := newFileStore(t)

	doc := &bankledger.Document{BankName: "bank test"}
	reqrd.NoError(store.Create("bank test", doc))

	err := store.Create("bank test", doc)
	ae := bankledger.ErrAlreadyExists{}
	as.ErrorAs(err, &ae)
	as.Equal("bank test", ae.Key)
}

func TestFileStoreWrite(t *testing.T) {
	as := assert.New(t)
	reqrd := require.New(t)
	store := newFileStore(t)

	doc := &bankledger.Document{BankName: "bank test"}
	reqrd.NoError(store.Create("bank test", doc))

	doc.Revision = 7
	doc.Customers = []bankledger.CustomerRecord{{CustomerID: 10001, SSN: 123456789}}
	reqrd.NoError(store.Write("bank test", doc))

	got, err := store.Load("bank test")
	reqrd.NoError(err)
	as.Equal(int64(7), got.Revision)
	as.Len(got.Customers, 1)
}

func TestFileStoreDelete(t *testing.T) {
	as := assert.New(t)
	reqrd := require.New(t)
	store := newFileStore(t)

	reqrd.NoError(store.Create("bank test", &bankledger.Document{BankName: "bank test"}))
	reqrd.NoError(store.Delete("bank test"))

	nf := bankledger.ErrNotFound{}
	_, err := store.Load("bank test")
	as.ErrorAs(err, &nf)

	err = store.Delete("bank test")
	as.ErrorAs(err, &nf)
}
