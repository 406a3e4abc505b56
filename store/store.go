// Package store owns the SQLite persistence for products, categories
// and the scrape audit log. It is the only writer of all three tables.
//
// A connection is opened per logical operation (schema init, one
// category replace, one log append, one query) so no database lock is
// held across a browser navigation.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/rakibhsn/chaldal-agent/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    price TEXT,
    original_price TEXT,
    discount_percentage REAL,
    quantity TEXT,
    category TEXT NOT NULL,
    subcategory TEXT,
    product_url TEXT,
    image_url TEXT,
    scraped_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(name, category, subcategory)
);

CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    url_suffix TEXT NOT NULL,
    level INTEGER DEFAULT 0,
    parent_category TEXT,
    product_count INTEGER DEFAULT 0,
    last_checked TIMESTAMP,
    is_active BOOLEAN DEFAULT 1
);

CREATE TABLE IF NOT EXISTS scraping_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category TEXT NOT NULL,
    products_found INTEGER DEFAULT 0,
    products_saved INTEGER DEFAULT 0,
    status TEXT,
    error_message TEXT,
    duration_seconds REAL,
    scraped_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// Store wraps the database file path; handles are opened per operation.
type Store struct {
	path   string
	logger *zap.Logger
}

// New builds a store over the given SQLite file.
func New(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	return db, nil
}

// InitSchema creates the three tables if absent. It is idempotent and
// safe to call on every startup.
func (s *Store) InitSchema() error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// ReplaceCategory performs category snapshot replacement in a single
// transaction: every existing row for the category is deleted, then the
// fresh set is inserted. A duplicate (name, category, subcategory)
// within the batch overwrites the earlier row instead of failing it.
// Returns the number of rows written.
func (s *Store) ReplaceCategory(category string, products []models.Product) (int, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM products WHERE category = ?`, category); err != nil {
		return 0, fmt.Errorf("clear category %q: %w", category, err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO products
		(name, price, original_price, discount_percentage, quantity,
		 category, subcategory, product_url, image_url, scraped_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.Exec(
			p.Name,
			p.Price,
			nullString(p.OriginalPrice),
			p.DiscountPct,
			p.Quantity,
			p.Category,
			// Empty, not NULL: SQLite treats NULLs as distinct in the
			// UNIQUE constraint, which would defeat the in-batch
			// duplicate overwrite.
			p.Subcategory,
			p.ProductURL,
			p.ImageURL,
			p.ScrapedAt,
			p.UpdatedAt,
		); err != nil {
			return 0, fmt.Errorf("insert %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return len(products), nil
}

// AppendLog records one scrape attempt. It is best-effort: a log write
// failure is logged and swallowed so it can never mask the outcome of
// the product replacement it describes.
func (s *Store) AppendLog(entry models.ScrapeLog) {
	db, err := s.open()
	if err != nil {
		s.logger.Warn("scrape log not written", zap.Error(err))
		return
	}
	defer db.Close()

	scrapedAt := entry.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = time.Now()
	}

	_, err = db.Exec(`
		INSERT INTO scraping_logs
		(category, products_found, products_saved, status, error_message, duration_seconds, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		entry.Category,
		entry.ProductsFound,
		entry.ProductsSaved,
		entry.Status,
		nullString(entry.ErrorMessage),
		entry.Duration.Seconds(),
		scrapedAt,
	)
	if err != nil {
		s.logger.Warn("scrape log not written", zap.Error(err))
	}
}

// Query returns stored products, most recently scraped first. An empty
// category matches everything; otherwise the filter is a substring
// match. A non-positive limit means no limit.
func (s *Store) Query(category string, limit int) ([]models.Product, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if limit <= 0 {
		limit = -1
	}

	var rows *sql.Rows
	if category != "" {
		rows, err = db.Query(`
			SELECT name, price, original_price, discount_percentage, quantity,
			       category, product_url, image_url, scraped_at, updated_at
			FROM products
			WHERE category LIKE ?
			ORDER BY scraped_at DESC, id DESC
			LIMIT ?
		`, "%"+category+"%", limit)
	} else {
		rows, err = db.Query(`
			SELECT name, price, original_price, discount_percentage, quantity,
			       category, product_url, image_url, scraped_at, updated_at
			FROM products
			ORDER BY scraped_at DESC, id DESC
			LIMIT ?
		`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		var (
			p        models.Product
			original sql.NullString
			discount sql.NullFloat64
		)
		if err := rows.Scan(
			&p.Name, &p.Price, &original, &discount, &p.Quantity,
			&p.Category, &p.ProductURL, &p.ImageURL, &p.ScrapedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.OriginalPrice = original.String
		if discount.Valid {
			v := discount.Float64
			p.DiscountPct = &v
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

// UpsertCategories mirrors the verified category set into the
// categories table, reactivating entries seen this sweep. Rows are
// never deleted, only left inactive when they drop out of the cache.
func (s *Store) UpsertCategories(categories map[string]models.Category, checkedAt time.Time) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE categories SET is_active = 0`); err != nil {
		return fmt.Errorf("deactivate categories: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO categories (name, url_suffix, level, parent_category, product_count, last_checked, is_active)
		VALUES (?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(name) DO UPDATE SET
		  url_suffix = excluded.url_suffix,
		  level = excluded.level,
		  parent_category = excluded.parent_category,
		  product_count = excluded.product_count,
		  last_checked = excluded.last_checked,
		  is_active = 1
	`)
	if err != nil {
		return fmt.Errorf("prepare category upsert: %w", err)
	}
	defer stmt.Close()

	for _, cat := range categories {
		if _, err := stmt.Exec(
			cat.Name,
			cat.URL,
			cat.Level,
			nullString(cat.Parent),
			cat.ProductCount,
			checkedAt,
		); err != nil {
			return fmt.Errorf("upsert category %q: %w", cat.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Stats returns total products and distinct categories, used by the
// menu's database self-test.
func (s *Store) Stats() (products int, categories int, err error) {
	db, err := s.open()
	if err != nil {
		return 0, 0, err
	}
	defer db.Close()

	if err := db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&products); err != nil {
		return 0, 0, fmt.Errorf("count products: %w", err)
	}
	if err := db.QueryRow(`SELECT COUNT(DISTINCT category) FROM products`).Scan(&categories); err != nil {
		return 0, 0, fmt.Errorf("count categories: %w", err)
	}
	return products, categories, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
