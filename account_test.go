package bankledger_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffabe/bankledger"
)

func TestAccountIDAllocation(t *testing.T) {
	as := assert.New(t)
	reqrd := require.New(t)
	ledger := newTestLedger(t, nil)
	b, err := ledger.CreateBank("Second Bank and Trust")
	reqrd.NoError(err)
	jeff, err := b.NewCustomer(123456789, "Jeff", "Abe", "1234 Main st")
	reqrd.NoError(err)

	// savings and checking share one id namespace
	svgs, err := b.OpenSavings(jeff.CustomerID(), bankledger.DefaultSavingsTerms())
	reqrd.NoError(err)
	chk, err := b.OpenChecking(jeff.CustomerID(), bankledger.DefaultCheckingTerms())
	reqrd.NoError(err)
	svgs2, err := b.OpenSavings(jeff.CustomerID(), bankledger.DefaultSavingsTerms())
	reqrd.NoError(err)

	as.Equal(int64(90001), svgs.AccountID())
	as.Equal(int64(90002), chk.AccountID())
	as.Equal(int64(90003), svgs2.AccountID())
}

func TestSavingsWithdraw(t *testing.T) {
	as := assert.New(t)
	reqrd := require.New(t)
	ledger := newTestLedger(t, nil)
	b, err := ledger.CreateBank("Fourth Bank and Trust")
	reqrd.NoError(err)
	jeff, err := b.NewCustomer(123456789, "Jeff", "Abe", "1234 Main st")
	reqrd.NoError(err)

	terms := bankledger.DefaultSavingsTerms()
	terms.StartingBalance = decimal.NewFromInt(700)
	svgs, err := b.OpenSavings(jeff.CustomerID(), terms)
	reqrd.NoError(err)

	reqrd.NoError(svgs.Withdraw(decimal.NewFromInt(200)))
	as.Equal("500.00", svgs.Balance().StringFixed(2))

	err = svgs.Withdraw(decimal.NewFromInt(301))
	ife := bankledger.ErrInsufficientFunds{}
	reqrd.ErrorAs(err, &ife)
	as.Equal(svgs.AccountID(), ife.AccountID)
	as.Equal("301.00", ife.Requested.StringFixed(2))
	as.Equal("500.00", svgs.Balance().StringFixed(2))

	reqrd.NoError(svgs.Deposit(decimal.NewFromInt(100)))
	as.Equal("600.00", svgs.Balance().StringFixed(2))
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	as := assert.New(t)
	reqrd := require.New(t)
	ledger := newTestLedger(t, nil)
	b, err := ledger.CreateBank("Round Trip Bank")
	reqrd.NoError(err)

	svgs, err := b.OpenSavings(10001, bankledger.DefaultSavingsTerms())
	reqrd.NoError(err)

	before := svgs.Balance()
	amount := decimal.RequireFromString("123.45")
	reqrd.NoError(svgs.Deposit(amount))
	reqrd.NoError(svgs.Withdraw(amount))
	as.True(svgs.Balance().Equal(before), svgs.Balance().String())
}

func TestCheckingWithdraw(t *testing.T) {
	newChecking := func(tt *testing.T, confirm bankledger.ConfirmFunc) *bankledger.CheckingAccount {
		tt.Helper()
		reqrd := require.New(tt)
		ledger := newTestLedger(tt, confirm)
		b, err := ledger.CreateBank("Fifth Bank and Trust")
		reqrd.NoError(err)
		jeff, err := b.NewCustomer(123456789, "Jeff", "Abe", "1234 Main st")
		reqrd.NoError(err)
		terms := bankledger.DefaultCheckingTerms()
		terms.StartingBalance = decimal.NewFromInt(150)
		chk, err := b.OpenChecking(jeff.CustomerID(), terms)
		reqrd.NoError(err)
		return chk
	}

	t.Run("fee-inclusive shortfall at or past the limit is declined", func(tt *testing.T) {
		as := assert.New(tt)
		chk := newChecking(tt, nil)

		ole := bankledger.ErrOverdraftLimitExceeded{}
		as.ErrorAs(chk.Withdraw(decimal.NewFromInt(250)), &ole)
		as.ErrorAs(chk.Withdraw(decimal.NewFromInt(225)), &ole)
		as.Equal("150.00", chk.Balance().StringFixed(2))
	})

	t.Run("covered withdrawal applies without a fee", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		chk := newChecking(tt, nil)

		reqrd.NoError(chk.Withdraw(decimal.NewFromInt(50)))
		as.Equal("100.00", chk.Balance().StringFixed(2))
	})

	t.Run("confirmed overdraft applies the fee", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		sc := &scriptConfirm{answers: []string{"y", "n", "g"}}
		chk := newChecking(tt, sc.confirm)

		reqrd.NoError(chk.Withdraw(decimal.NewFromInt(50)))

		// yes: amount plus fee
		reqrd.NoError(chk.Withdraw(decimal.NewFromInt(101)))
		as.Equal("-26.00", chk.Balance().StringFixed(2))

		// no: cancelled, no state change
		reqrd.NoError(chk.Withdraw(decimal.NewFromInt(1)))
		as.Equal("-26.00", chk.Balance().StringFixed(2))

		// anything else: rejected
		iie := bankledger.ErrInvalidInput{}
		as.ErrorAs(chk.Withdraw(decimal.NewFromInt(1)), &iie)
		as.Equal("g", iie.Input)
		as.Equal("-26.00", chk.Balance().StringFixed(2))

		reqrd.NoError(chk.Deposit(decimal.NewFromInt(200)))
		as.Equal("174.00", chk.Balance().StringFixed(2))
	})

	t.Run("default port declines overdrafts", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		chk := newChecking(tt, nil)

		reqrd.NoError(chk.Withdraw(decimal.NewFromInt(160)))
		as.Equal("150.00", chk.Balance().StringFixed(2))
	})
}

func TestSavingsNextMonth(t *testing.T) {
	as := assert.New(t)
	reqrd := require.New(t)
	nooplog := zerolog.Nop()
	store, err := bankledger.NewFileStore(t.TempDir(), &nooplog)
	reqrd.NoError(err)
	ledger, err := bankledger.NewLedger(store, nil, &nooplog)
	reqrd.NoError(err)

	b, err := ledger.CreateBank("Interest Bank")
	reqrd.NoError(err)
	svgs, err := b.OpenSavings(10001, bankledger.DefaultSavingsTerms())
	reqrd.NoError(err)

	reqrd.NoError(b.NextMonth())

	// 500 * (1 + 0.005/12)
	as.Equal("500.21", svgs.Balance().Round(2).StringFixed(2))

	doc, err := store.Load("Interest Bank")
	reqrd.NoError(err)
	reqrd.Len(doc.Accounts, 1)
	as.True(doc.Accounts[0].Balance.Equal(svgs.Balance()))
}
