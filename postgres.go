package bankledger

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

var (
	pgSelectDocSQL = `
		SELECT doc
		FROM bank_documents
		WHERE bank_name = $1;
	`

	pgExistsDocSQL = `
		SELECT EXISTS (
			SELECT 1 FROM bank_documents WHERE bank_name = $1
		);
	`

	pgInsertDocSQL = `
		INSERT INTO bank_documents (bank_name, revision, doc)
		VALUES ($1, $2, $3);
	`

	pgUpdateDocSQL = `
		UPDATE bank_documents
		SET revision = $2, doc = $3
		WHERE bank_name = $1;
	`

	pgDeleteDocSQL = `
		DELETE FROM bank_documents
		WHERE bank_name = $1;
	`
)

// PostgresStore persists each bank document as a single jsonb row. It keeps
// the same whole-document replace contract as FileStore; the revision column
// is stored alongside so a conflict guard can be added without a migration.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *zerolog.Logger
}

var (
	_ Store = (*PostgresStore)(nil)
)

func NewPostgresStore(connStr string, log *zerolog.Logger) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	if err = pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	return &PostgresStore{pool: pool, log: log}, nil
}

func (pg *PostgresStore) Load(bankName string) (*Document, error) {
	ctx := context.Background()
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return nil, ErrStorage{Op: "acquire", Err: err}
	}
	defer conn.Release()

	var raw []byte
	row := conn.QueryRow(ctx, pgSelectDocSQL, bankName)
	if err = row.Scan(&raw); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound{Kind: "bank", Name: bankName}
		}
		return nil, ErrStorage{Op: "select", Err: err}
	}

	var doc Document
	if err = json.Unmarshal(raw, &doc); err != nil {
		return nil, ErrStorage{Op: "decode", Err: err}
	}
	return &doc, nil
}

func (pg *PostgresStore) Write(bankName string, doc *Document) error {
	ctx := context.Background()
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return ErrStorage{Op: "acquire", Err: err}
	}
	defer conn.Release()

	raw, err := json.Marshal(doc)
	if err != nil {
		return ErrStorage{Op: "encode", Err: err}
	}

	tag, err := conn.Exec(ctx, pgUpdateDocSQL, bankName, doc.Revision, raw)
	if err != nil {
		return ErrStorage{Op: "update", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound{Kind: "bank", Name: bankName}
	}
	return nil
}

func (pg *PostgresStore) Create(bankName string, doc *Document) error {
	ctx := context.Background()
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return ErrStorage{Op: "acquire", Err: err}
	}
	defer conn.Release()

	var exists bool
	row := conn.QueryRow(ctx, pgExistsDocSQL, bankName)
	if err = row.Scan(&exists); err != nil {
		return ErrStorage{Op: "select", Err: err}
	}
	if exists {
		return ErrAlreadyExists{Kind: "bank", Key: bankName}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return ErrStorage{Op: "encode", Err: err}
	}
	if _, err = conn.Exec(ctx, pgInsertDocSQL, bankName, doc.Revision, raw); err != nil {
		return ErrStorage{Op: "insert", Err: err}
	}
	return nil
}

func (pg *PostgresStore) Delete(bankName string) error {
	ctx := context.Background()
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return ErrStorage{Op: "acquire", Err: err}
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, pgDeleteDocSQL, bankName)
	if err != nil {
		return ErrStorage{Op: "delete", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound{Kind: "bank", Name: bankName}
	}
	return nil
}
