package bankledger

import (
	"github.com/bwmarrin/snowflake"
	"github.com/rs/zerolog"
)

// ConfirmFunc is the overdraft confirmation port. It receives a prompt and
// returns the caller's answer; "y"/"yes" proceeds, "n"/"no" cancels,
// anything else fails the withdrawal with ErrInvalidInput. Operations block
// on it, so interactive callers should answer promptly.
type ConfirmFunc func(prompt string) (string, error)

// DeclineOverdrafts is the default confirmation port; every fee-incurring
// withdrawal is cancelled.
func DeclineOverdrafts(string) (string, error) {
	return "n", nil
}

// Ledger is a session over one Store. It owns the Registry of live entities
// and the audit trail; all banks and their entities are created through it.
// Operations on the same bank must be serialized by the caller.
type Ledger struct {
	store   Store
	reg     *Registry
	confirm ConfirmFunc
	log     *zerolog.Logger
	node    *snowflake.Node
}

func NewLedger(store Store, confirm ConfirmFunc, log *zerolog.Logger) (*Ledger, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}
	if confirm == nil {
		confirm = DeclineOverdrafts
	}
	return &Ledger{
		store:   store,
		reg:     NewRegistry(),
		confirm: confirm,
		log:     log,
		node:    node,
	}, nil
}

func (l *Ledger) Registry() *Registry {
	return l.reg
}

// persist runs one read-modify-write cycle against the bank's document.
// The document is loaded fresh from the store so id allocation and record
// updates see external edits; mutate must not retain the *Document.
func (l *Ledger) persist(bankName string, mutate func(*Document) error) error {
	doc, err := l.store.Load(bankName)
	if err != nil {
		return err
	}
	if err := mutate(doc); err != nil {
		return err
	}
	doc.Revision++
	return l.store.Write(bankName, doc)
}

// audit begins the single success record an operation emits.
func (l *Ledger) audit(op string) *zerolog.Event {
	return l.log.Info().Str("op", op).Str("op_id", l.node.Generate().String())
}

// auditErr begins the single failure record an operation emits.
func (l *Ledger) auditErr(op string, err error) *zerolog.Event {
	return l.log.Error().Err(err).Str("op", op).Str("op_id", l.node.Generate().String())
}
