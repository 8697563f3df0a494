package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

//go:embed schema.sql
var schema string

const timeLayout = time.RFC3339Nano

// SQLiteStore keeps transactions in a SQLite database file.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger
}

// NewSQLiteStore opens or creates the database at path and applies the schema.
func NewSQLiteStore(path string, logger logging.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("execute schema: %w", err)
	}

	logger.Debug("Opened transaction store", logging.F("path", path))
	return &SQLiteStore{db: db, logger: logger}, nil
}

// Save inserts a new transaction.
func (s *SQLiteStore) Save(ctx context.Context, tx *models.StoredTransaction) error {
	if err := validate(tx); err != nil {
		return err
	}
	tags, err := json.Marshal(nonNilTags(tx.Tags))
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transactions (
			id, user_id, title, amount, type, category, date, date_unix, notes, tags, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, tx.ID, tx.UserID, tx.Title, tx.Amount.String(), string(tx.Type), string(tx.Category),
		tx.Date.Format(timeLayout), tx.Date.UnixNano(), tx.Notes, string(tags),
		tx.CreatedAt.Format(timeLayout))
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return fmt.Errorf("insert transaction %s: %w", tx.ID, ErrDuplicateID)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}

	s.logger.Debug("Saved transaction",
		logging.F(logging.FieldTransaction, tx.ID),
		logging.F(logging.FieldUserID, tx.UserID))
	return nil
}

const selectColumns = `id, user_id, title, amount, type, category, date, notes, tags, created_at`

// Get returns the transaction with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.StoredTransaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get transaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return tx, nil
}

// ListByUser returns the user's transactions, newest transaction date first.
func (s *SQLiteStore) ListByUser(ctx context.Context, userID string) ([]models.StoredTransaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM transactions
		WHERE user_id = ?
		ORDER BY date_unix DESC, created_at DESC, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []models.StoredTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, *tx)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row scanner) (*models.StoredTransaction, error) {
	var (
		tx                    models.StoredTransaction
		amount, typ, category string
		date, tags, createdAt string
	)
	if err := row.Scan(&tx.ID, &tx.UserID, &tx.Title, &amount, &typ, &category,
		&date, &tx.Notes, &tags, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if tx.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("decode amount %q: %w", amount, err)
	}
	if tx.Date, err = time.Parse(timeLayout, date); err != nil {
		return nil, fmt.Errorf("decode date %q: %w", date, err)
	}
	if tx.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("decode created_at %q: %w", createdAt, err)
	}
	if err := json.Unmarshal([]byte(tags), &tx.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if len(tx.Tags) == 0 {
		tx.Tags = nil
	}
	tx.Type = models.Direction(typ)
	tx.Category = models.Category(category)
	return &tx, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
