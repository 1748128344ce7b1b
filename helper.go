package bankledger

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// OpenStore builds the Store the config selects.
func OpenStore(cfg *Config, log *zerolog.Logger) (Store, error) {
	switch cfg.Storage.Backend {
	case "", "file":
		dir := cfg.Storage.Dir
		if dir == "" {
			dir = "data"
		}
		return NewFileStore(dir, log)
	case "postgres":
		return NewPostgresStore(cfg.Storage.ConnectionString, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

var (
	pgCreateSchemaSQL = `
		CREATE TABLE IF NOT EXISTS bank_documents (
			bank_name TEXT PRIMARY KEY,
			revision  BIGINT NOT NULL DEFAULT 0,
			doc       JSONB NOT NULL
		);
	`

	pgDropSchemaSQL = `
		DROP TABLE IF EXISTS bank_documents;
	`
)

// LocalHelper prepares a local postgres for the document store, used by the
// integration tests and the seeder.
type LocalHelper struct {
	Conn *pgx.Conn
}

func NewLocalHelper(connStr string) (*LocalHelper, error) {
	conn, err := pgx.Connect(context.Background(), connStr)
	if err != nil {
		return nil, err
	}
	return &LocalHelper{Conn: conn}, nil
}

// InitDB creates the documents table and returns a teardown that drops it.
func (lh *LocalHelper) InitDB() (func(), error) {
	if _, err := lh.Conn.Exec(context.Background(), pgCreateSchemaSQL); err != nil {
		return nil, err
	}
	return lh.teardownDB(), nil
}

func (lh *LocalHelper) teardownDB() func() {
	return func() {
		defer lh.Conn.Close(context.Background())

		if _, err := lh.Conn.Exec(context.Background(), pgDropSchemaSQL); err != nil {
			fmt.Fprintf(os.Stderr, "DB cleanup exec teardown sql: %s", err.Error())
		}
	}
}
