package kvstore

import "context"

// Store is the persistence port the domain repositories are written against.
// Records live in hashes keyed by collection name, one field per record id;
// secondary indexes are plain sets of ids. Every primitive is atomic on its
// own, but sequences of calls are not.
type Store interface {
	HashSet(ctx context.Context, collection, id string, record any) error
	// HashGet unmarshals the stored record into dest and reports whether the
	// field existed at all.
	HashGet(ctx context.Context, collection, id string, dest any) (bool, error)
	SetAdd(ctx context.Context, index, id string) error
	SetMembers(ctx context.Context, index string) ([]string, error)
	SetRemove(ctx context.Context, index, id string) error
	Close() error
}
