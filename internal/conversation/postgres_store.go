package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the store needs, kept as an interface
// so tests can substitute pgxmock.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists conversation records in Postgres.
type PostgresStore struct {
	pool PgxPool
}

// NewPostgresStore creates a Postgres-backed conversation store.
func NewPostgresStore(pool PgxPool) *PostgresStore {
	if pool == nil {
		return nil
	}
	return &PostgresStore{pool: pool}
}

// Get returns the record for the sender, or nil when no conversation exists.
func (s *PostgresStore) Get(ctx context.Context, senderID string) (*Record, error) {
	query := `
		SELECT sender_id, state, COALESCE(name, ''), COALESCE(phone, ''),
			COALESCE(goal, ''), COALESCE(notes, ''), last_updated
		FROM conversations
		WHERE sender_id = $1
	`
	var rec Record
	err := s.pool.QueryRow(ctx, query, senderID).Scan(
		&rec.SenderID, &rec.State, &rec.Name, &rec.Phone,
		&rec.Goal, &rec.Notes, &rec.LastUpdated,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("conversation: get record: %w", err)
	}
	return &rec, nil
}

// Upsert applies a partial-field update, creating the record if needed.
// Unset fields arrive as NULL, so COALESCE keeps the stored values.
func (s *PostgresStore) Upsert(ctx context.Context, senderID string, fields Fields) error {
	query := `
		INSERT INTO conversations (sender_id, state, name, phone, goal, notes, last_updated)
		VALUES ($1, COALESCE($2, ''), $3, $4, $5, $6, $7)
		ON CONFLICT (sender_id) DO UPDATE SET
			state = COALESCE($2, conversations.state),
			name = COALESCE(EXCLUDED.name, conversations.name),
			phone = COALESCE(EXCLUDED.phone, conversations.phone),
			goal = COALESCE(EXCLUDED.goal, conversations.goal),
			notes = COALESCE(EXCLUDED.notes, conversations.notes),
			last_updated = EXCLUDED.last_updated
	`
	var state *string
	if fields.State != nil {
		state = stringRef(string(*fields.State))
	}
	_, err := s.pool.Exec(ctx, query, senderID, state, fields.Name, fields.Phone, fields.Goal, fields.Notes, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("conversation: upsert record: %w", err)
	}
	return nil
}

// Delete removes the record; deleting an absent record is a no-op.
func (s *PostgresStore) Delete(ctx context.Context, senderID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM conversations WHERE sender_id = $1`, senderID)
	if err != nil {
		return fmt.Errorf("conversation: delete record: %w", err)
	}
	return nil
}

// ListActive returns active records ordered by most recent activity.
func (s *PostgresStore) ListActive(ctx context.Context, limit int) ([]Record, error) {
	query := `
		SELECT sender_id, state, COALESCE(name, ''), COALESCE(phone, ''),
			COALESCE(goal, ''), COALESCE(notes, ''), last_updated
		FROM conversations
		ORDER BY last_updated DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("conversation: list records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.SenderID, &rec.State, &rec.Name, &rec.Phone, &rec.Goal, &rec.Notes, &rec.LastUpdated); err != nil {
			return nil, fmt.Errorf("conversation: scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
