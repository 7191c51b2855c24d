// internal/adapter/storage/store.go

package storage

import (
	"github.com/jackc/pgx/v4/pgxpool"
)

// Store bundles the profile and record stores behind one value so callers
// that need both can take a single dependency
type Store struct {
	*ProfileStore
	*RecordStore
}

// NewStore creates a combined store over one connection pool
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{
		ProfileStore: NewProfileStore(db),
		RecordStore:  NewRecordStore(db),
	}
}
