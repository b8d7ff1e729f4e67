package ledger

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"offerwatch/internal/domain"
	"offerwatch/internal/domain/entity"
	"offerwatch/pkg/errcodes"
)

// Postgres keeps each product as a jsonb record, ordered by insertion
// position so a save/load cycle preserves the ledger order.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the ledger table when it does not exist yet.
func (p *Postgres) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS products (
			name     TEXT PRIMARY KEY,
			position INT NOT NULL,
			record   JSONB NOT NULL
		)`

	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "migrate products table")
	}

	return nil
}

func (p *Postgres) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

func (p *Postgres) Load(ctx context.Context) ([]entity.Product, error) {
	query := `SELECT record FROM products ORDER BY position`

	var records [][]byte
	if err := p.db.SelectContext(ctx, &records, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to load products")
	}

	products := make([]entity.Product, 0, len(records))
	for i, record := range records {
		var product entity.Product
		if err := json.Unmarshal(record, &product); err != nil {
			return nil, domain.WrapError(err, errcodes.MalformedLedger,
				fmt.Sprintf("decode record at position %d", i))
		}
		products = append(products, product)
	}

	return products, nil
}

// Save replaces the whole set atomically. A crash between cycles leaves
// the previous cycle's records intact.
func (p *Postgres) Save(ctx context.Context, products []entity.Product) error {
	return p.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to clear products")
		}

		query := `INSERT INTO products (name, position, record) VALUES ($1, $2, $3)`

		for i, product := range products {
			record, err := json.Marshal(product)
			if err != nil {
				return domain.WrapError(err, errcodes.InternalServerError,
					fmt.Sprintf("encode record %q", product.Name))
			}

			if _, err := tx.ExecContext(ctx, query, product.Name, i, record); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError,
					fmt.Sprintf("failed to insert record %q", product.Name))
			}
		}

		return nil
	})
}
