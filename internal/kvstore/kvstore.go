// Package kvstore defines the string-blob persistence contract the ledger
// depends on. Implementations live in subpackages; the ledger never knows
// which one it is talking to.
package kvstore

import "context"

// Store is a string-keyed blob store. Get reports whether the key exists;
// a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
