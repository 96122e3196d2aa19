/*

This file contains the persistent store of the host and the staging layer every call runs against.

A call writes into a cachekv layer. Committing flushes the layer into a database batch which is then
written synchronously, so a call is either fully persisted or leaves no trace.

*/

package store

import (
	"fmt"
	"sync"

	"cosmossdk.io/store/cachekv"
	"cosmossdk.io/store/dbadapter"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cosmos/cosmos-db"
)

// DB is the keyed database all contracts share.
type DB struct {
	db     dbm.DB
	mu     sync.Mutex
	closed bool
}

// Open opens (or creates) the database name under dir with the given cosmos-db backend.
func Open(name string, backend string, dir string) (*DB, error) {
	db, err := dbm.NewDB(name, dbm.BackendType(backend), dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database %q in %q: %w", backend, name, dir, err)
	}
	return &DB{db: db}, nil
}

// NewMemDB returns a database that lives only in memory.
func NewMemDB() *DB {
	return &DB{db: dbm.NewMemDB()}
}

// Close closes the underlying database.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.db.Close()
}

// ReadOnly returns a view of the committed state. Writes to it are discarded.
func (d *DB) ReadOnly() storetypes.KVStore {
	return cachekv.NewStore(dbadapter.Store{DB: d.db})
}

// Begin stages a new transaction.
func (d *DB) Begin() *Transaction {
	batch := d.db.NewBatch()
	parent := &batchStore{Store: dbadapter.Store{DB: d.db}, batch: batch}
	return &Transaction{
		batch: batch,
		cache: cachekv.NewStore(parent),
	}
}

// batchStore reads from the database and writes into a batch.
type batchStore struct {
	dbadapter.Store
	batch dbm.Batch
}

func (b *batchStore) Set(key, value []byte) {
	storetypes.AssertValidKey(key)
	storetypes.AssertValidValue(value)
	if err := b.batch.Set(key, value); err != nil {
		panic(err)
	}
}

func (b *batchStore) Delete(key []byte) {
	storetypes.AssertValidKey(key)
	if err := b.batch.Delete(key); err != nil {
		panic(err)
	}
}

// Transaction is the staged state of one call.
type Transaction struct {
	batch dbm.Batch
	cache *cachekv.Store
	done  bool
}

// KVStore returns the staged store of the transaction.
func (t *Transaction) KVStore() storetypes.KVStore {
	return t.cache
}

// Commit persists every staged write.
func (t *Transaction) Commit() error {
	if t.done {
		return fmt.Errorf("transaction already finished")
	}
	t.done = true
	defer t.batch.Close()

	t.cache.Write()
	if err := t.batch.WriteSync(); err != nil {
		return fmt.Errorf("failed to write batch: %w", err)
	}
	return nil
}

// Discard drops every staged write.
func (t *Transaction) Discard() {
	if t.done {
		return
	}
	t.done = true
	_ = t.batch.Close()
}
