package settings

import (
	"context"
	"database/sql"

	"github.com/openretail/pos-checkout/internal/domain"
)

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so
// checkout can read settings inside its own transaction.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Load returns the global tax configuration, lazily inserting the default row
// (tax enabled, 10%) the first time it is read.
func Load(ctx context.Context, q Querier) (domain.Settings, error) {
	s, err := read(ctx, q)
	if err == nil {
		return s, nil
	}
	if err != sql.ErrNoRows {
		return domain.Settings{}, err
	}

	def := domain.DefaultSettings()
	_, err = q.ExecContext(ctx, `
		INSERT INTO settings (id, tax_enabled, tax_mode, tax_rate)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, def.TaxEnabled, def.TaxMode, def.TaxRate)
	if err != nil {
		return domain.Settings{}, err
	}

	return read(ctx, q)
}

func read(ctx context.Context, q Querier) (domain.Settings, error) {
	var s domain.Settings
	err := q.QueryRowContext(ctx, `
		SELECT tax_enabled, tax_mode, tax_rate
		FROM settings
		WHERE id = 1
	`).Scan(&s.TaxEnabled, &s.TaxMode, &s.TaxRate)
	return s, err
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context) (domain.Settings, error) {
	return Load(ctx, r.db)
}

func (r *Repository) Update(ctx context.Context, s domain.Settings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, tax_enabled, tax_mode, tax_rate)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET tax_enabled = EXCLUDED.tax_enabled,
		    tax_mode = EXCLUDED.tax_mode,
		    tax_rate = EXCLUDED.tax_rate
	`, s.TaxEnabled, s.TaxMode, s.TaxRate)
	return err
}
