package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Registers the pure Go "sqlite" driver.
	_ "modernc.org/sqlite"
)

const defaultSQLiteDSN = "catalog.db"

const sqliteSchema = `CREATE TABLE IF NOT EXISTS designs (
	id                 TEXT PRIMARY KEY,
	name               TEXT NOT NULL,
	category           TEXT NOT NULL DEFAULT '',
	description        TEXT NOT NULL DEFAULT '',
	price              REAL NOT NULL,
	max_loan_term      INTEGER NOT NULL,
	loan_term_type     TEXT NOT NULL,
	interest_rate      REAL NOT NULL,
	interest_rate_type TEXT NOT NULL,
	created_at         TEXT NOT NULL,
	updated_at         TEXT NOT NULL
)`

const designColumns = `id, name, category, description, price, max_loan_term, loan_term_type,
	interest_rate, interest_rate_type, created_at, updated_at`

// SQLiteRepository stores designs in a SQLite database.
type SQLiteRepository struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

// NewSQLiteRepository opens dsn and creates the designs table if needed.
func NewSQLiteRepository(ctx context.Context, dsn string) (*SQLiteRepository, error) {
	if dsn == "" {
		dsn = defaultSQLiteDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", dsn, err)
	}
	// One connection serializes writers and keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create designs table: %w", err)
	}

	return &SQLiteRepository{db: db, now: now, newID: newID}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDesign(row rowScanner) (Design, error) {
	var d Design
	var createdAt, updatedAt string
	err := row.Scan(&d.ID, &d.Name, &d.Category, &d.Description, &d.Price, &d.MaxLoanTerm,
		&d.LoanTermType, &d.InterestRate, &d.InterestRateType, &createdAt, &updatedAt)
	if err != nil {
		return Design{}, err
	}
	if d.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Design{}, fmt.Errorf("design %s has invalid created_at: %w", d.ID, err)
	}
	if d.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return Design{}, fmt.Errorf("design %s has invalid updated_at: %w", d.ID, err)
	}
	return d, nil
}

// List returns every stored design sorted by name.
func (s *SQLiteRepository) List(ctx context.Context) ([]Design, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+designColumns+` FROM designs`)
	if err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}
	defer rows.Close()

	designs := make([]Design, 0)
	for rows.Next() {
		d, err := scanDesign(rows)
		if err != nil {
			return nil, err
		}
		designs = append(designs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}
	sortDesigns(designs)
	return designs, nil
}

// Get returns the design with the given id, or ErrNotFound.
func (s *SQLiteRepository) Get(ctx context.Context, id string) (Design, error) {
	d, err := scanDesign(s.db.QueryRowContext(ctx, `SELECT `+designColumns+` FROM designs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Design{}, ErrNotFound
	}
	if err != nil {
		return Design{}, fmt.Errorf("failed to get design %s: %w", id, err)
	}
	return d, nil
}

// Save inserts or updates a design in one transaction, keeping an existing CreatedAt.
func (s *SQLiteRepository) Save(ctx context.Context, design Design) (Design, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Design{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var existing *Design
	if design.ID != "" {
		current, err := scanDesign(tx.QueryRowContext(ctx, `SELECT `+designColumns+` FROM designs WHERE id = ?`, design.ID))
		switch {
		case err == nil:
			existing = &current
		case !errors.Is(err, sql.ErrNoRows):
			return Design{}, fmt.Errorf("failed to load design %s: %w", design.ID, err)
		}
	}

	design = prepare(design, existing, s.now(), s.newID)
	_, err = tx.ExecContext(ctx, `INSERT INTO designs (`+designColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			description = excluded.description,
			price = excluded.price,
			max_loan_term = excluded.max_loan_term,
			loan_term_type = excluded.loan_term_type,
			interest_rate = excluded.interest_rate,
			interest_rate_type = excluded.interest_rate_type,
			updated_at = excluded.updated_at`,
		design.ID, design.Name, design.Category, design.Description, design.Price, design.MaxLoanTerm,
		design.LoanTermType, design.InterestRate, design.InterestRateType,
		design.CreatedAt.Format(time.RFC3339Nano), design.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Design{}, fmt.Errorf("failed to save design %s: %w", design.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return Design{}, fmt.Errorf("failed to commit design %s: %w", design.ID, err)
	}
	return design, nil
}

// Delete removes the design with the given id, or returns ErrNotFound.
func (s *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM designs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete design %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete design %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteRepository) Close() error {
	return s.db.Close()
}
