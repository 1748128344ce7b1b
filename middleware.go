package bankledger

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/semaphore"
)

type Middleware func(Service) Service

//
// Validation middleware
//

// validationMiddleware front-loads the checks the core leaves to callers:
// money-moving amounts must be strictly positive.
type validationMiddleware struct {
	next Service
}

var (
	_ Service = (*validationMiddleware)(nil)
)

func NewValidationMiddleware() Middleware {
	return func(svc Service) Service {
		return &validationMiddleware{next: svc}
	}
}

func positiveAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrValidation{Fields: map[string]string{"amount": "must be greater than zero"}}
	}
	return nil
}

func (v *validationMiddleware) CreateBank(req CreateBankReq) error {
	return v.next.CreateBank(req)
}

func (v *validationMiddleware) DeleteBank(name string) error {
	return v.next.DeleteBank(name)
}

func (v *validationMiddleware) NextMonth(bank string) error {
	return v.next.NextMonth(bank)
}

func (v *validationMiddleware) CreateCustomer(req CreateCustomerReq) (*Customer, error) {
	return v.next.CreateCustomer(req)
}

func (v *validationMiddleware) OpenAccount(req OpenAccountReq) (Account, error) {
	return v.next.OpenAccount(req)
}

func (v *validationMiddleware) OpenCard(req OpenCardReq) (*CreditCard, error) {
	return v.next.OpenCard(req)
}

func (v *validationMiddleware) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	if err := positiveAmount(req.Amount); err != nil {
		return nil, err
	}
	return v.next.Deposit(req)
}

func (v *validationMiddleware) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	if err := positiveAmount(req.Amount); err != nil {
		return nil, err
	}
	return v.next.Withdraw(req)
}

func (v *validationMiddleware) Balance(req BalanceReq) (*decimal.Decimal, error) {
	return v.next.Balance(req)
}

func (v *validationMiddleware) Spend(req SpendReq) (*decimal.Decimal, error) {
	if err := positiveAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.CVV < 100 || req.CVV > 999 {
		return nil, ErrValidation{Fields: map[string]string{"cvv": "must be three digits"}}
	}
	return v.next.Spend(req)
}

func (v *validationMiddleware) Pay(req PayReq) (*decimal.Decimal, error) {
	if err := positiveAmount(req.Amount); err != nil {
		return nil, err
	}
	return v.next.Pay(req)
}

func (v *validationMiddleware) Statement(w io.Writer, req StatementReq) error {
	return v.next.Statement(w, req)
}

//
// Load limiting middleware
//

// limitMiddleware bounds in-flight money operations with weighted
// semaphores, one per method, acquired under a timeout. Requests that
// cannot acquire in time are shed with ErrInternalServer.
type limitMiddleware struct {
	next    Service
	limits  *ServiceLimits
	timeout time.Duration
}

var (
	_ Service = (*limitMiddleware)(nil)
)

type ServiceLimits struct {
	Deposit   *semaphore.Weighted
	Withdraw  *semaphore.Weighted
	Balance   *semaphore.Weighted
	Spend     *semaphore.Weighted
	Pay       *semaphore.Weighted
	Statement *semaphore.Weighted
}

func NewServiceLimits(inflight int64) *ServiceLimits {
	return &ServiceLimits{
		Deposit:   semaphore.NewWeighted(inflight),
		Withdraw:  semaphore.NewWeighted(inflight),
		Balance:   semaphore.NewWeighted(inflight),
		Spend:     semaphore.NewWeighted(inflight),
		Pay:       semaphore.NewWeighted(inflight),
		Statement: semaphore.NewWeighted(inflight),
	}
}

func NewLimitMiddleware(limits *ServiceLimits, timeout time.Duration) Middleware {
	return func(next Service) Service {
		return &limitMiddleware{
			next:    next,
			limits:  limits,
			timeout: timeout,
		}
	}
}

func (l *limitMiddleware) acquire(sem *semaphore.Weighted) (func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, ErrInternalServer
	}
	return func() { sem.Release(1) }, nil
}

func (l *limitMiddleware) CreateBank(req CreateBankReq) error {
	return l.next.CreateBank(req)
}

func (l *limitMiddleware) DeleteBank(name string) error {
	return l.next.DeleteBank(name)
}

func (l *limitMiddleware) NextMonth(bank string) error {
	return l.next.NextMonth(bank)
}

func (l *limitMiddleware) CreateCustomer(req CreateCustomerReq) (*Customer, error) {
	return l.next.CreateCustomer(req)
}

func (l *limitMiddleware) OpenAccount(req OpenAccountReq) (Account, error) {
	return l.next.OpenAccount(req)
}

func (l *limitMiddleware) OpenCard(req OpenCardReq) (*CreditCard, error) {
	return l.next.OpenCard(req)
}

func (l *limitMiddleware) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	release, err := l.acquire(l.limits.Deposit)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.Deposit(req)
}

func (l *limitMiddleware) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	release, err := l.acquire(l.limits.Withdraw)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.Withdraw(req)
}

func (l *limitMiddleware) Balance(req BalanceReq) (*decimal.Decimal, error) {
	release, err := l.acquire(l.limits.Balance)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.Balance(req)
}

func (l *limitMiddleware) Spend(req SpendReq) (*decimal.Decimal, error) {
	release, err := l.acquire(l.limits.Spend)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.Spend(req)
}

func (l *limitMiddleware) Pay(req PayReq) (*decimal.Decimal, error) {
	release, err := l.acquire(l.limits.Pay)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.Pay(req)
}

func (l *limitMiddleware) Statement(w io.Writer, req StatementReq) error {
	release, err := l.acquire(l.limits.Statement)
	if err != nil {
		return err
	}
	defer release()
	return l.next.Statement(w, req)
}

//
// Circuit breaking middleware
//

// circuitBreakMiddleware trips on storage failures so a broken backend
// sheds load instead of hammering the store on every request. Domain
// failures (insufficient funds, bad CVV, and the rest) do not count.
type circuitBreakMiddleware struct {
	next  Service
	brkrs *ServiceBreaker
}

var (
	_ Service = (*circuitBreakMiddleware)(nil)
)

type ServiceBreaker struct {
	Deposit   *gobreaker.TwoStepCircuitBreaker[*decimal.Decimal]
	Withdraw  *gobreaker.TwoStepCircuitBreaker[*decimal.Decimal]
	Spend     *gobreaker.TwoStepCircuitBreaker[*decimal.Decimal]
	Pay       *gobreaker.TwoStepCircuitBreaker[*decimal.Decimal]
	Statement *gobreaker.TwoStepCircuitBreaker[interface{}]
}

func NewServiceBreaker(st gobreaker.Settings) *ServiceBreaker {
	return &ServiceBreaker{
		Deposit:   gobreaker.NewTwoStepCircuitBreaker[*decimal.Decimal](st),
		Withdraw:  gobreaker.NewTwoStepCircuitBreaker[*decimal.Decimal](st),
		Spend:     gobreaker.NewTwoStepCircuitBreaker[*decimal.Decimal](st),
		Pay:       gobreaker.NewTwoStepCircuitBreaker[*decimal.Decimal](st),
		Statement: gobreaker.NewTwoStepCircuitBreaker[interface{}](st),
	}
}

func NewCircuitBreakMiddleware(brkrs *ServiceBreaker) Middleware {
	return func(next Service) Service {
		return &circuitBreakMiddleware{
			next:  next,
			brkrs: brkrs,
		}
	}
}

func storageHealthy(err error) bool {
	se := ErrStorage{}
	return !errors.As(err, &se)
}

func (c *circuitBreakMiddleware) CreateBank(req CreateBankReq) error {
	return c.next.CreateBank(req)
}

func (c *circuitBreakMiddleware) DeleteBank(name string) error {
	return c.next.DeleteBank(name)
}

func (c *circuitBreakMiddleware) NextMonth(bank string) error {
	return c.next.NextMonth(bank)
}

func (c *circuitBreakMiddleware) CreateCustomer(req CreateCustomerReq) (*Customer, error) {
	return c.next.CreateCustomer(req)
}

func (c *circuitBreakMiddleware) OpenAccount(req OpenAccountReq) (Account, error) {
	return c.next.OpenAccount(req)
}

func (c *circuitBreakMiddleware) OpenCard(req OpenCardReq) (*CreditCard, error) {
	return c.next.OpenCard(req)
}

func (c *circuitBreakMiddleware) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	done, err := c.brkrs.Deposit.Allow()
	if err != nil {
		return nil, err
	}
	bal, err := c.next.Deposit(req)
	done(storageHealthy(err))
	return bal, err
}

func (c *circuitBreakMiddleware) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	done, err := c.brkrs.Withdraw.Allow()
	if err != nil {
		return nil, err
	}
	bal, err := c.next.Withdraw(req)
	done(storageHealthy(err))
	return bal, err
}

func (c *circuitBreakMiddleware) Balance(req BalanceReq) (*decimal.Decimal, error) {
	return c.next.Balance(req)
}

func (c *circuitBreakMiddleware) Spend(req SpendReq) (*decimal.Decimal, error) {
	done, err := c.brkrs.Spend.Allow()
	if err != nil {
		return nil, err
	}
	cur, err := c.next.Spend(req)
	done(storageHealthy(err))
	return cur, err
}

func (c *circuitBreakMiddleware) Pay(req PayReq) (*decimal.Decimal, error) {
	done, err := c.brkrs.Pay.Allow()
	if err != nil {
		return nil, err
	}
	cur, err := c.next.Pay(req)
	done(storageHealthy(err))
	return cur, err
}

func (c *circuitBreakMiddleware) Statement(w io.Writer, req StatementReq) error {
	done, err := c.brkrs.Statement.Allow()
	if err != nil {
		return err
	}
	err = c.next.Statement(w, req)
	done(storageHealthy(err))
	return err
}
