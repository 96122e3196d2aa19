package store

import (
	"context"
	"encoding/json"
	"fmt"

	collcodec "cosmossdk.io/collections/codec"
	corestore "cosmossdk.io/core/store"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
)

// StoreCarrier is implemented by contexts that carry the staged store of a call.
type StoreCarrier interface {
	KVStore() storetypes.KVStore
}

type kvStoreService struct {
	prefix []byte
}

// NewKVStoreService returns a store service whose stores are the prefix namespace of the staged
// store carried by the context.
func NewKVStoreService(storePrefix []byte) corestore.KVStoreService {
	return kvStoreService{prefix: storePrefix}
}

// OpenKVStore panics when ctx carries no staged store, as the SDK does for a context without a
// multistore.
func (s kvStoreService) OpenKVStore(ctx context.Context) corestore.KVStore {
	carrier, ok := ctx.(StoreCarrier)
	if !ok {
		panic(fmt.Sprintf("context %T carries no store", ctx))
	}
	return coreKVStore{parent: prefix.NewStore(carrier.KVStore(), s.prefix)}
}

// coreKVStore exposes a store-v1 KVStore through the error returning core interface.
type coreKVStore struct {
	parent storetypes.KVStore
}

func (s coreKVStore) Get(key []byte) ([]byte, error) { return s.parent.Get(key), nil }

func (s coreKVStore) Has(key []byte) (bool, error) { return s.parent.Has(key), nil }

func (s coreKVStore) Set(key, value []byte) error {
	s.parent.Set(key, value)
	return nil
}

func (s coreKVStore) Delete(key []byte) error {
	s.parent.Delete(key)
	return nil
}

func (s coreKVStore) Iterator(start, end []byte) (corestore.Iterator, error) {
	return s.parent.Iterator(start, end), nil
}

func (s coreKVStore) ReverseIterator(start, end []byte) (corestore.Iterator, error) {
	return s.parent.ReverseIterator(start, end), nil
}

// JSONValue encodes collection values as JSON. Contract state holds math and coin types that
// marshal themselves, so no generated codec is needed.
func JSONValue[T any](name string) collcodec.ValueCodec[T] {
	return jsonValue[T]{name: name}
}

type jsonValue[T any] struct {
	name string
}

func (c jsonValue[T]) Encode(value T) ([]byte, error) {
	return json.Marshal(value)
}

func (c jsonValue[T]) Decode(b []byte) (T, error) {
	var value T
	if err := json.Unmarshal(b, &value); err != nil {
		return value, fmt.Errorf("failed to decode %s: %w", c.name, err)
	}
	return value, nil
}

func (c jsonValue[T]) EncodeJSON(value T) ([]byte, error) { return c.Encode(value) }

func (c jsonValue[T]) DecodeJSON(b []byte) (T, error) { return c.Decode(b) }

func (c jsonValue[T]) Stringify(value T) string {
	bz, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(bz)
}

func (c jsonValue[T]) ValueType() string { return "json/" + c.name }
