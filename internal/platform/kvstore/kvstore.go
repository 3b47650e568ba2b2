// Package kvstore provides the durable local key-value store that holds the
// full application state. The record list and the login flag live under two
// independent keys; every write overwrites the prior value for its key.
package kvstore

import (
	"context"
	"fmt"
)

// Well-known state keys.
const (
	KeyPatients = "patients"   // JSON array of patient records
	KeyLoggedIn = "isLoggedIn" // the literal string "true" when authenticated
)

// Store is the key-value contract shared by all storage drivers. Get returns
// ok=false when the key has never been written or has been deleted. Set
// replaces the whole value; there is nothing incremental or transactional
// about it.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a storage driver.
type Options struct {
	Driver      string // "sqlite", "postgres" or "memory"
	Path        string // sqlite database file
	DatabaseURL string // postgres connection string
}

// Open constructs the store named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", "sqlite":
		return OpenSQLite(opts.Path)
	case "postgres":
		return OpenPostgres(ctx, opts.DatabaseURL)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
