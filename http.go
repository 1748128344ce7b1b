package bankledger

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type balanceJSONResp struct {
	Balance decimal.Decimal `json:"balance"`
}

type customerJSONResp struct {
	CustomerID int64  `json:"customer_id"`
	MaskedSSN  string `json:"ssn"`
}

type accountJSONResp struct {
	AccountID int64           `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

type cardJSONResp struct {
	CardNumber int64 `json:"card_number"`
	CVV        int   `json:"cvv"`
}

// NewHTTPHandler is the thin entry point over the ledger core. Routes are
// scoped under the bank name since ids are only unique per bank.
func NewHTTPHandler(svc Service, log *zerolog.Logger) http.Handler {
	hndlr := &httpHandler{
		Svc: svc,
		Log: log,
	}
	mux := chi.NewMux()
	mux.NotFound(HTTPNotFound)
	mux.Route("/banks", func(r chi.Router) {
		r.Post("/", hndlr.CreateBank)
		r.Route("/{bank}", func(rr chi.Router) {
			rr.Delete("/", hndlr.DeleteBank)
			rr.Post("/next-month", hndlr.NextMonth)
			rr.Post("/customers", hndlr.CreateCustomer)
			rr.Post("/accounts", hndlr.OpenAccount)
			rr.Post("/cards", hndlr.OpenCard)
			rr.Route("/accounts/{acctID:[0-9]+}", func(rrr chi.Router) {
				rrr.Post("/deposit", hndlr.Deposit)
				rrr.Post("/withdraw", hndlr.Withdraw)
				rrr.Get("/balance", hndlr.Balance)
				rrr.Get("/statement", hndlr.Statement)
			})
			rr.Route("/cards/{cardNumber:[0-9]+}", func(rrr chi.Router) {
				rrr.Post("/spend", hndlr.Spend)
				rrr.Post("/pay", hndlr.Pay)
			})
		})
	})

	return mux
}

type httpHandler struct {
	Svc Service
	Log *zerolog.Logger
}

func decodeJSONBody(r *http.Request, dst interface{}) error {
	buf, err := io.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		return ErrInternalServer
	}
	if err = json.Unmarshal(buf, dst); err != nil {
		return ErrValidation{Fields: map[string]string{"request body": "malformed JSON"}}
	}
	return nil
}

func urlInt64(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrValidation{Fields: map[string]string{param: "invalid format"}}
	}
	return id, nil
}

func (h *httpHandler) writeJSON(w http.ResponseWriter, resp interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		WriteHTTPError(w, err)
	}
}

func (h *httpHandler) CreateBank(w http.ResponseWriter, r *http.Request) {
	var req CreateBankReq
	if err := decodeJSONBody(r, &req); err != nil {
		h.Log.Err(err).Str("method", "create_bank").Msg("error reading HTTP request")
		WriteHTTPError(w, err)
		return
	}
	if err := h.Svc.CreateBank(req); err != nil {
		WriteHTTPError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	h.writeJSON(w, map[string]string{"name": req.Name})
}

func (h *httpHandler) DeleteBank(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteBank(chi.URLParam(r, "bank")); err != nil {
		WriteHTTPError(w, err)
		return
	}
	h.writeJSON(w, map[string]string{"status": "OK"})
}

func (h *httpHandler) NextMonth(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.NextMonth(chi.URLParam(r, "bank")); err != nil {
		WriteHTTPError(w, err)
		return
	}
	h.writeJSON(w, map[string]string{"status": "OK"})
}

func (h *httpHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerReq
	if err := decodeJSONBody(r, &req); err != nil {
		h.Log.Err(err).Str("method", "create_customer").Msg("error reading HTTP request")
		WriteHTTPError(w, err)
		return
	}
	req.Bank = chi.URLParam(r, "bank")
	cust, err := h.Svc.CreateCustomer(req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	h.writeJSON(w, customerJSONResp{CustomerID: cust.CustomerID(), MaskedSSN: cust.MaskedSSN()})
}

func (h *httpHandler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	var req OpenAccountReq
	if err := decodeJSONBody(r, &req); err != nil {
		h.Log.Err(err).Str("method", "open_account").Msg("error reading HTTP request")
		WriteHTTPError(w, err)
		return
	}
	req.Bank = chi.URLParam(r, "bank")
	acct, err := h.Svc.OpenAccount(req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	h.writeJSON(w, accountJSONResp{AccountID: acct.AccountID(), Balance: acct.Balance()})
}

func (h *httpHandler) OpenCard(w http.ResponseWriter, r *http.Request) {
	var req OpenCardReq
	if err := decodeJSONBody(r, &req); err != nil {
		h.Log.Err(err).Str("method", "open_card").Msg("error reading HTTP request")
		WriteHTTPError(w, err)
		return
	}
	req.Bank = chi.URLParam(r, "bank")
	card, err := h.Svc.OpenCard(req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	h.writeJSON(w, cardJSONResp{CardNumber: card.CardNumber(), CVV: card.CVV()})
}

func (h *httpHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req ChargeReq
	if err := decodeJSONBody(r, &req); err != nil {
		h.Log.Err(err).Str("method", "deposit").Msg("error reading HTTP request")
		WriteHTTPError(w, err)
		return
	}
	acctID, err := urlInt64(r, "acctID")
	if err != nil {
		h.Log.Err(err).Str("method", "deposit").Msg("error parsing account ID")
		WriteHTTPError(w, err)
		return
	}
	req.Bank = chi.URLParam(r, "bank")
	req.AccountID = acctID
	bal, err := h.Svc.Deposit(req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	h.writeJSON(w, balanceJSONResp{Balance: *bal})
}

func (h *httpHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req ChargeReq
	if err := decodeJSONBody(r, &req); err != nil {
		h.Log.Err(err).Str("method", "withdraw").Msg("error reading HTTP request")
		WriteHTTPError(w, err)
		return
	}
	acctID, err := urlInt64(r, "acctID")
	if err != nil {
		h.Log.Err(err).Str("method", "withdraw").Msg("error parsing account ID")
		WriteHTTPError(w, err)
		return
	}
	req.Bank = chi.URLParam(r, "bank")
	req.AccountID = acctID
	bal, err := h.Svc.Withdraw(req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	h.writeJSON(w, balanceJSONResp{Balance: *bal})
}

func (h *httpHandler) Balance(w http.ResponseWriter, r *http.Request) {
	acctID, err := urlInt64(r, "acctID")
	if err != nil {
		h.Log.Err(err).Str("method", "balance").Msg("error parsing account ID")
		WriteHTTPError(w, err)
		return
	}
	bal, err := h.Svc.Balance(BalanceReq{Bank: chi.URLParam(r, "bank"), AccountID: acctID})
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	h.writeJSON(w, balanceJSONResp{Balance: *bal})
}

func (h *httpHandler) Statement(w http.ResponseWriter, r *http.Request) {
	acctID, err := urlInt64(r, "acctID")
	if err != nil {
		h.Log.Err(err).Str("method", "statement").Msg("error parsing account ID")
		WriteHTTPError(w, err)
		return
	}
	req := StatementReq{
		Bank:      chi.URLParam(r, "bank"),
		AccountID: acctID,
	}
	w.Header().Set("Content-Type", "application/pdf")
	if err = h.Svc.Statement(w, req); err != nil {
		WriteHTTPError(w, err)
	}
}

func (h *httpHandler) Spend(w http.ResponseWriter, r *http.Request) {
	var req SpendReq
	if err := decodeJSONBody(r, &req); err != nil {
		h.Log.Err(err).Str("method", "spend").Msg("error reading HTTP request")
		WriteHTTPError(w, err)
		return
	}
	cardNumber, err := urlInt64(r, "cardNumber")
	if err != nil {
		h.Log.Err(err).Str("method", "spend").Msg("error parsing card number")
		WriteHTTPError(w, err)
		return
	}
	req.Bank = chi.URLParam(r, "bank")
	req.CardNumber = cardNumber
	cur, err := h.Svc.Spend(req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	h.writeJSON(w, balanceJSONResp{Balance: *cur})
}

func (h *httpHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req PayReq
	if err := decodeJSONBody(r, &req); err != nil {
		h.Log.Err(err).Str("method", "pay").Msg("error reading HTTP request")
		WriteHTTPError(w, err)
		return
	}
	cardNumber, err := urlInt64(r, "cardNumber")
	if err != nil {
		h.Log.Err(err).Str("method", "pay").Msg("error parsing card number")
		WriteHTTPError(w, err)
		return
	}
	req.Bank = chi.URLParam(r, "bank")
	req.CardNumber = cardNumber
	cur, err := h.Svc.Pay(req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	h.writeJSON(w, balanceJSONResp{Balance: *cur})
}

func WriteHTTPError(w http.ResponseWriter, err error) {
	var ne error
	defer func() {
		if ne != nil {
			log.Error().
				Err(ne).
				Msg("error response encoding failed")
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	var (
		errnf ErrNotFound
		errae ErrAlreadyExists
		errvl ErrValidation
		errif ErrInsufficientFunds
		errod ErrOverdraftLimitExceeded
		errcl ErrCreditLimitExceeded
		errcm ErrCredentialMismatch
		errii ErrInvalidInput
	)
	switch {
	case errors.As(err, &errnf):
		w.WriteHeader(http.StatusNotFound)
		ne = enc.Encode(errnf)
	case errors.As(err, &errae):
		w.WriteHeader(http.StatusConflict)
		ne = enc.Encode(errae)
	case errors.As(err, &errvl):
		w.WriteHeader(http.StatusBadRequest)
		ne = enc.Encode(errvl)
	case errors.As(err, &errii):
		w.WriteHeader(http.StatusBadRequest)
		ne = enc.Encode(errii)
	case errors.As(err, &errcm):
		w.WriteHeader(http.StatusForbidden)
		ne = enc.Encode(errcm)
	case errors.As(err, &errif):
		w.WriteHeader(http.StatusUnprocessableEntity)
		ne = enc.Encode(errif)
	case errors.As(err, &errod):
		w.WriteHeader(http.StatusUnprocessableEntity)
		ne = enc.Encode(errod)
	case errors.As(err, &errcl):
		w.WriteHeader(http.StatusUnprocessableEntity)
		ne = enc.Encode(errcl)
	default:
		w.WriteHeader(http.StatusInternalServerError)
		ne = enc.Encode(map[string]string{"message": "server error"})
	}
}

func HTTPNotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"path": r.URL.Path})
}
