package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/ShreyaSuvarna1/Veerpath/internal/jobs"
)

//go:embed schema.sql
var schemaSQL string

// SQLStore mirrors the job list into a single table. Save swaps the table
// contents in one transaction; no history is kept.
type SQLStore struct {
	db     *sql.DB
	driver string
}

func NewSQLStore(driver, dsn string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &SQLStore{db: db, driver: driver}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// RunMigrations applies the embedded schema, or the file at schemaPath when
// one is given.
func (s *SQLStore) RunMigrations(schemaPath string) error {
	content := schemaSQL
	if schemaPath != "" {
		b, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("failed to read schema file: %w", err)
		}
		content = string(b)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, content); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context) ([]jobs.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT title, company, location, link, source, posted, scraped_at, is_official
FROM jobs
ORDER BY position ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []jobs.Record{}
	for rows.Next() {
		var (
			r         jobs.Record
			source    string
			scrapedAt string
		)
		if err := rows.Scan(
			&r.Title,
			&r.Company,
			&r.Location,
			&r.Link,
			&source,
			&r.Posted,
			&scrapedAt,
			&r.IsOfficial,
		); err != nil {
			return nil, err
		}
		r.Source = jobs.Source(source)
		if t, err := time.Parse(time.RFC3339Nano, scrapedAt); err == nil {
			r.ScrapedAt = t
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (s *SQLStore) Save(ctx context.Context, list []jobs.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM jobs`); err != nil {
		return fmt.Errorf("clearing jobs: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
INSERT INTO jobs (position, title, company, location, link, source, posted, scraped_at, is_official)
VALUES (%s)
`, s.placeholders(9)))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range list {
		if _, err := stmt.ExecContext(ctx,
			i,
			r.Title,
			r.Company,
			r.Location,
			r.Link,
			string(r.Source),
			r.Posted,
			r.ScrapedAt.UTC().Format(time.RFC3339Nano),
			r.IsOfficial,
		); err != nil {
			return fmt.Errorf("inserting job %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLStore) placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		if s.driver == DriverPostgres {
			parts[i] = "$" + strconv.Itoa(i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}
