// Package store persists the published job list.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/ShreyaSuvarna1/Veerpath/internal/jobs"
)

// Store is the load/save contract for the persisted job list. Save replaces
// whatever was stored before.
type Store interface {
	Load(ctx context.Context) ([]jobs.Record, error)
	Save(ctx context.Context, list []jobs.Record) error
	Close() error
}

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Options struct {
	Driver string
	// Path is the JSON file for the file driver, or the database file for
	// sqlite when DSN is empty.
	Path string
	DSN  string
}

// Open returns the store selected by opts.Driver.
func Open(opts Options) (Store, error) {
	switch strings.ToLower(opts.Driver) {
	case "", DriverFile:
		return NewFileStore(opts.Path), nil
	case DriverPostgres:
		return NewSQLStore(DriverPostgres, opts.DSN)
	case DriverSQLite:
		dsn := opts.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", opts.Path)
		}
		return NewSQLStore(DriverSQLite, dsn)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
