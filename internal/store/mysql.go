package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/newtonsmarsher1/uailimited-sub001/internal/model"
)

// MySQLStore persists message records in the platform's MariaDB
// messages table.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore wraps db.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// Append inserts the message and returns the AUTO_INCREMENT id.
func (s *MySQLStore) Append(ctx context.Context, m *model.Message) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (from_id, to_id, content, kind, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		m.FromID, m.ToID, m.Content, m.Kind, m.Status, m.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("message id: %w", err)
	}

	m.ID = id
	return id, nil
}

// MarkDelivered advances a sent message to delivered. The status guard
// keeps the transition forward-only under concurrent acks.
func (s *MySQLStore) MarkDelivered(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE messages SET status = ? WHERE id = ? AND status = ?",
		model.StatusDelivered, id, model.StatusSent)
	if err != nil {
		return fmt.Errorf("mark delivered %d: %w", id, err)
	}
	return nil
}

// MarkRead updates the matching rows one id at a time so the returned
// list names exactly the ids that passed the ownership predicate.
func (s *MySQLStore) MarkRead(ctx context.Context, readerID, peerID string, ids []int64) ([]int64, error) {
	now := time.Now()
	var matched []int64

	for _, id := range ids {
		result, err := s.db.ExecContext(ctx,
			"UPDATE messages SET status = ?, read_at = ? WHERE id = ? AND from_id = ? AND to_id = ? AND status != ?",
			model.StatusRead, now, id, peerID, readerID, model.StatusRead)
		if err != nil {
			return matched, fmt.Errorf("mark read %d: %w", id, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return matched, fmt.Errorf("mark read %d: %w", id, err)
		}
		if n > 0 {
			matched = append(matched, id)
		}
	}

	return matched, nil
}

// History returns the latest messages between a and b, oldest first.
func (s *MySQLStore) History(ctx context.Context, a, b string, limit int) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, from_id, to_id, content, kind, status, created_at, read_at
		 FROM (
		   SELECT * FROM messages
		   WHERE (from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?)
		   ORDER BY id DESC LIMIT ?
		 ) latest ORDER BY id ASC`,
		a, b, b, a, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var m model.Message
		var readAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.FromID, &m.ToID, &m.Content, &m.Kind, &m.Status, &m.CreatedAt, &readAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if readAt.Valid {
			t := readAt.Time
			m.ReadAt = &t
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history rows: %w", err)
	}
	return out, nil
}

// MySQLVerifier re-checks an identity against the users table on every
// login, mapping the stored privilege level to a role string.
type MySQLVerifier struct {
	db *sql.DB
}

// NewMySQLVerifier wraps db.
func NewMySQLVerifier(db *sql.DB) *MySQLVerifier {
	return &MySQLVerifier{db: db}
}

// Verify looks the identity up by id. Unknown identities return ok=false.
func (v *MySQLVerifier) Verify(ctx context.Context, identity string) (string, string, bool, error) {
	var name string
	var level int
	err := v.db.QueryRowContext(ctx,
		"SELECT name, level FROM users WHERE id = ?", identity).Scan(&name, &level)
	if err == sql.ErrNoRows {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, fmt.Errorf("verify identity: %w", err)
	}
	return name, roleForLevel(level), true, nil
}

// roleForLevel maps the platform's numeric privilege levels onto the
// messaging roles.
func roleForLevel(level int) string {
	switch {
	case level >= 10:
		return "admin"
	case level >= 5:
		return "staff"
	default:
		return "worker"
	}
}

// StaticVerifier accepts a fixed identity set. Used in tests and when
// the server runs without a database.
type StaticVerifier map[string]model.RosterEntry

// Verify accepts identities present in the map. An empty map accepts
// everyone with the presented name and a worker role.
func (v StaticVerifier) Verify(_ context.Context, identity string) (string, string, bool, error) {
	if len(v) == 0 {
		return "", "worker", strings.TrimSpace(identity) != "", nil
	}
	e, ok := v[identity]
	if !ok {
		return "", "", false, nil
	}
	return e.DisplayName, e.Role, true, nil
}
