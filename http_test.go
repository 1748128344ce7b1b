package bankledger_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jeffabe/bankledger"
	"github.com/jeffabe/bankledger/mocks"
)

func TestHTTPDeposit(t *testing.T) {
	nooplog := zerolog.Nop()

	t.Run("returns the new balance on success", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		bal := decimal.NewFromInt(1234)
		svc.EXPECT().
			Deposit(gomock.AssignableToTypeOf(bankledger.ChargeReq{})).
			DoAndReturn(func(r bankledger.ChargeReq) (*decimal.Decimal, error) {
				return &bal, nil
			}).
			Times(1)

		hndlr := bankledger.NewHTTPHandler(svc, &nooplog)
		body := bytes.NewBufferString(`{"amount":1234.00}`)
		req := httptest.NewRequest(http.MethodPost, "/banks/bank-test/accounts/90001/deposit", body)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusOK, w.Code)
		resp := map[string]string{}
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		as.Nil(err)
		as.Contains(resp, "balance")
		as.Equal("1234", resp["balance"])
	})

	t.Run("returns 404 on a non-numeric account ID", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		hndlr := bankledger.NewHTTPHandler(svc, &nooplog)

		body := bytes.NewBufferString(`{"amount":1234.00}`)
		req := httptest.NewRequest(http.MethodPost, "/banks/bank-test/accounts/24j24g/deposit", body)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusNotFound, w.Code)
		resp := map[string]string{}
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		reqrd.Nil(err)
		as.Contains(resp, "path")
	})

	t.Run("returns 400 on a malformed request body", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		hndlr := bankledger.NewHTTPHandler(svc, &nooplog)

		body := bytes.NewBufferString(`{"amount":1234.00`)
		req := httptest.NewRequest(http.MethodPost, "/banks/bank-test/accounts/90001/deposit", body)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusBadRequest, w.Code)
		resp := map[string]map[string]string{}
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		reqrd.Nil(err)
		as.Contains(resp, "fields")
		as.Contains(resp["fields"], "request body")
	})
}

func TestHTTPWithdraw(t *testing.T) {
	nooplog := zerolog.Nop()

	t.Run("maps insufficient funds to 422", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Withdraw(gomock.AssignableToTypeOf(bankledger.ChargeReq{})).
			Return(nil, bankledger.ErrInsufficientFunds{
				AccountID: 90001,
				Requested: decimal.NewFromInt(301),
				Available: decimal.Zero,
			}).
			Times(1)

		hndlr := bankledger.NewHTTPHandler(svc, &nooplog)
		body := bytes.NewBufferString(`{"amount":301}`)
		req := httptest.NewRequest(http.MethodPost, "/banks/bank-test/accounts/90001/withdraw", body)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusUnprocessableEntity, w.Code)
	})
}

func TestHTTPSpend(t *testing.T) {
	nooplog := zerolog.Nop()

	t.Run("threads bank and card number into the request", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		cur := decimal.NewFromInt(100)
		svc.EXPECT().
			Spend(gomock.AssignableToTypeOf(bankledger.SpendReq{})).
			DoAndReturn(func(r bankledger.SpendReq) (*decimal.Decimal, error) {
				as.Equal("bank-test", r.Bank)
				as.Equal(int64(1234123412340001), r.CardNumber)
				as.Equal(123, r.CVV)
				return &cur, nil
			}).
			Times(1)

		hndlr := bankledger.NewHTTPHandler(svc, &nooplog)
		body := bytes.NewBufferString(`{"amount":100,"cvv":123,"note":"lunch"}`)
		req := httptest.NewRequest(http.MethodPost, "/banks/bank-test/cards/1234123412340001/spend", body)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusOK, w.Code)
	})

	t.Run("maps a cvv mismatch to 403", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Spend(gomock.AssignableToTypeOf(bankledger.SpendReq{})).
			Return(nil, bankledger.ErrCredentialMismatch{CardNumber: 1234123412340001}).
			Times(1)

		hndlr := bankledger.NewHTTPHandler(svc, &nooplog)
		body := bytes.NewBufferString(`{"amount":100,"cvv":321}`)
		req := httptest.NewRequest(http.MethodPost, "/banks/bank-test/cards/1234123412340001/spend", body)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusForbidden, w.Code)
	})
}

func TestHTTPBalance(t *testing.T) {
	nooplog := zerolog.Nop()

	t.Run("returns the balance amount", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		balance := decimal.NewFromFloat(123.45)
		svc.EXPECT().
			Balance(gomock.AssignableToTypeOf(bankledger.BalanceReq{})).
			DoAndReturn(func(r bankledger.BalanceReq) (*decimal.Decimal, error) {
				return &balance, nil
			}).
			Times(1)

		hndlr := bankledger.NewHTTPHandler(svc, &nooplog)
		req := httptest.NewRequest(http.MethodGet, "/banks/bank-test/accounts/90001/balance", nil)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusOK, w.Code)
		resp := map[string]string{}
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		as.Nil(err)
		as.Contains(resp, "balance")
		as.Equal(balance.String(), resp["balance"])
	})
}

func TestHTTPCreateBank(t *testing.T) {
	nooplog := zerolog.Nop()

	t.Run("maps a duplicate name to 409", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			CreateBank(gomock.AssignableToTypeOf(bankledger.CreateBankReq{})).
			Return(bankledger.ErrAlreadyExists{Kind: "bank", Key: "bank test"}).
			Times(1)

		hndlr := bankledger.NewHTTPHandler(svc, &nooplog)
		body := bytes.NewBufferString(`{"name":"bank test"}`)
		req := httptest.NewRequest(http.MethodPost, "/banks", body)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusConflict, w.Code)
	})
}
