package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Mcdonalid/Lychee/internal/store"
)

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &SQLiteStore{db: db}, nil
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply extra schema or fixtures.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	s, err := New(dbPath)
	if err != nil {
		return nil, err
	}

	if setup != nil {
		if err := setup(s.db); err != nil {
			s.db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// CreateUser creates a new user with hashed password.
func (s *SQLiteStore) CreateUser(ctx context.Context, username, passwordHash string, mayAdminister bool) (*store.User, error) {
	query := `
		INSERT INTO users (username, password_hash, may_administer)
		VALUES (?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, username, passwordHash, mayAdminister)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	query := `
		SELECT id, username, password_hash, may_administer, created_at
		FROM users
		WHERE id = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByUsername retrieves a user by username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*store.User, error) {
	query := `
		SELECT id, username, password_hash, may_administer, created_at
		FROM users
		WHERE username = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*store.User, error) {
	var user store.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.MayAdminister,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", store.ErrNotFound)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

// ==== ContactMessageStore implementation ====

// CreateContactMessage persists a new unread message.
func (s *SQLiteStore) CreateContactMessage(ctx context.Context, msg *store.NewContactMessage) (*store.ContactMessage, error) {
	query := `
		INSERT INTO contact_messages (name, email, message, is_read, ip_address, user_agent, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?, ?, ?)
	`
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, query,
		msg.Name,
		msg.Email,
		msg.Message,
		msg.IPAddress,
		msg.UserAgent,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert contact message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetContactMessageByID(ctx, id)
}

// GetContactMessageByID retrieves a message by ID.
func (s *SQLiteStore) GetContactMessageByID(ctx context.Context, id int64) (*store.ContactMessage, error) {
	query := `
		SELECT id, name, email, message, is_read, COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at, updated_at
		FROM contact_messages
		WHERE id = ?
	`
	var msg store.ContactMessage
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&msg.ID,
		&msg.Name,
		&msg.Email,
		&msg.Message,
		&msg.IsRead,
		&msg.IPAddress,
		&msg.UserAgent,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("contact message: %w", store.ErrNotFound)
		}
		return nil, fmt.Errorf("query contact message: %w", err)
	}

	return &msg, nil
}

// escapeLike makes a string safe for use inside a LIKE pattern with ESCAPE '\'.
// Backslash goes first so the escapes themselves are not re-escaped.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// buildContactMessageWhere builds the WHERE clause shared by the count and
// page queries of ListContactMessages.
func buildContactMessageWhere(filter store.ContactMessageFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		conds = append(conds, `(name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\' OR message LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	if filter.IsRead != nil {
		conds = append(conds, "is_read = ?")
		args = append(args, *filter.IsRead)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListContactMessages returns the filtered page plus the total match count.
func (s *SQLiteStore) ListContactMessages(ctx context.Context, filter store.ContactMessageFilter) ([]*store.ContactMessage, int64, error) {
	where, args := buildContactMessageWhere(filter)

	var total int64
	countQuery := "SELECT COUNT(*) FROM contact_messages" + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contact messages: %w", err)
	}

	query := `
		SELECT id, name, email, message, is_read, COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at, updated_at
		FROM contact_messages` + where + `
		ORDER BY created_at DESC, id ASC
		LIMIT ? OFFSET ?
	`
	pageArgs := append(append([]any{}, args...), filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query contact messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*store.ContactMessage, 0)
	for rows.Next() {
		var msg store.ContactMessage
		err := rows.Scan(
			&msg.ID,
			&msg.Name,
			&msg.Email,
			&msg.Message,
			&msg.IsRead,
			&msg.IPAddress,
			&msg.UserAgent,
			&msg.CreatedAt,
			&msg.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan contact message: %w", err)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate contact messages: %w", err)
	}

	return messages, total, nil
}

// SetContactMessageRead updates the read flag and returns the updated message.
func (s *SQLiteStore) SetContactMessageRead(ctx context.Context, id int64, isRead bool) (*store.ContactMessage, error) {
	query := `
		UPDATE contact_messages
		SET is_read = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query, isRead, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("update contact message: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("contact message: %w", store.ErrNotFound)
	}

	return s.GetContactMessageByID(ctx, id)
}

// DeleteContactMessage permanently removes a message.
func (s *SQLiteStore) DeleteContactMessage(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM contact_messages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("contact message: %w", store.ErrNotFound)
	}

	return nil
}

// ==== SettingsStore implementation ====

// GetSetting returns the raw value for a key.
func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("setting %q: %w", key, store.ErrNotFound)
		}
		return "", fmt.Errorf("query setting: %w", err)
	}

	return value, nil
}

// SetSetting creates or replaces the value for a key.
func (s *SQLiteStore) SetSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("set setting: %w", err)
	}

	return nil
}
