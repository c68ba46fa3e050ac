package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool used by Backend.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	loadQuery  = `SELECT data FROM plugsession_records WHERE id = $1`
	dumpQuery  = `INSERT INTO plugsession_records (id, data, updated_at) VALUES ($1, $2, now()) ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	clearQuery = `DELETE FROM plugsession_records WHERE id = $1`
)

// Backend stores session records in the plugsession_records table created
// by Migrate. Each Dump is a single upsert statement.
type Backend struct {
	db DB
}

// NewBackend creates a session backend over db.
func NewBackend(db DB) *Backend {
	return &Backend{db: db}
}

func (b *Backend) Load(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := b.db.QueryRow(ctx, loadQuery, id).Scan(&data)
	if IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session record: %w", err)
	}
	return data, nil
}

func (b *Backend) Dump(ctx context.Context, id string, data []byte) error {
	if _, err := b.db.Exec(ctx, dumpQuery, id, data); err != nil {
		return fmt.Errorf("store session record: %w", err)
	}
	return nil
}

func (b *Backend) Clear(ctx context.Context, id string) error {
	if _, err := b.db.Exec(ctx, clearQuery, id); err != nil {
		return fmt.Errorf("delete session record: %w", err)
	}
	return nil
}
