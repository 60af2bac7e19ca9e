package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second

	pgUndefinedTable = "42P01"
)

// PostgresStore is the durable cache. The schema keeps product records and
// favorite flags in separate tables keyed by product name, so refreshing the
// product snapshot never touches favorites.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

// Migrate creates the cache tables. The cache carries no schema version; the
// tables are small enough to recreate from a fetch if they are ever dropped.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		if _, err := s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS product_cache (
				product_name TEXT PRIMARY KEY,
				product_type TEXT NOT NULL,
				price        DOUBLE PRECISION NOT NULL,
				tax          DOUBLE PRECISION NOT NULL,
				image        TEXT
			)
		`); err != nil {
			return err
		}
		_, err := s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS product_favorites (
				product_name TEXT PRIMARY KEY,
				is_favorite  BOOLEAN NOT NULL
			)
		`)
		return err
	})
}

func (s *PostgresStore) UpsertAll(ctx context.Context, products []Product) error {
	if len(products) == 0 {
		return nil
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO product_cache (product_name, product_type, price, tax, image)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (product_name) DO UPDATE SET
				product_type = EXCLUDED.product_type,
				price        = EXCLUDED.price,
				tax          = EXCLUDED.tax,
				image        = EXCLUDED.image
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, p := range products {
			image := sql.NullString{String: p.Image, Valid: p.Image != ""}
			if _, err := stmt.ExecContext(ctx, p.Name, p.Type, p.Price, p.Tax, image); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

func (s *PostgresStore) FetchAll(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT c.product_name, c.product_type, c.price, c.tax, c.image,
			       COALESCE(f.is_favorite, FALSE)
			FROM product_cache c
			LEFT JOIN product_favorites f USING (product_name)
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			var (
				p     Product
				image sql.NullString
			)
			if err := rows.Scan(&p.Name, &p.Type, &p.Price, &p.Tax, &image, &p.IsFavorite); err != nil {
				return err
			}
			p.Image = image.String
			out = append(out, p)
		}
		return rows.Err()
	})

	if isMissingTable(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) SetFavorite(ctx context.Context, name string, favorite bool) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO product_favorites (product_name, is_favorite)
			VALUES ($1, $2)
			ON CONFLICT (product_name) DO UPDATE SET is_favorite = EXCLUDED.is_favorite
		`, name, favorite)
		return err
	})
}

func (s *PostgresStore) Favorites(ctx context.Context) (map[string]bool, error) {
	out := map[string]bool{}

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT product_name, is_favorite
			FROM product_favorites
			WHERE is_favorite
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				name string
				fav  bool
			)
			if err := rows.Scan(&name, &fav); err != nil {
				return err
			}
			out[name] = fav
		}
		return rows.Err()
	})

	if isMissingTable(err) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// A cache with no tables yet is just an empty cache.
func isMissingTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
