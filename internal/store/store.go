package store

import "context"

// Store is the key-value capability every component persists through. It
// mirrors the small set of primitives the schema relies on: plain string
// keys, atomic counters, unordered sets, and lists pushed from the front.
//
// Implementations must be safe for concurrent use. Atomicity is guaranteed
// per call only; callers composing multi-key sequences get no transaction.
type Store interface {
	// Get retrieves a string value. ok is false when the key is absent,
	// which is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores a string value, overwriting any previous one.
	Set(ctx context.Context, key, value string) error

	// Incr atomically increments an integer counter and returns the new
	// value. A missing key counts as zero.
	Incr(ctx context.Context, key string) (int64, error)

	// SAdd adds a member to a set. Adding an existing member is a no-op.
	SAdd(ctx context.Context, key, member string) error

	// SRem removes a member from a set. Removing an absent member is a no-op.
	SRem(ctx context.Context, key, member string) error

	// SIsMember reports set membership.
	SIsMember(ctx context.Context, key, member string) (bool, error)

	// SCard returns the cardinality of a set (0 for an absent key).
	SCard(ctx context.Context, key string) (int64, error)

	// SMembers returns all members of a set in no particular order.
	SMembers(ctx context.Context, key string) ([]string, error)

	// LPush prepends a value to a list, creating the list if absent.
	LPush(ctx context.Context, key, value string) error

	// LRange returns list elements between start and stop inclusive.
	// Negative indices count from the end; out-of-range bounds clamp.
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// LTrim discards every list element outside start..stop inclusive.
	LTrim(ctx context.Context, key string, start, stop int64) error

	// SortByPattern returns up to count members of a set starting at offset,
	// ordered ascending by the string value stored under byPattern with `*`
	// replaced by each member. A count < 0 means no limit.
	SortByPattern(ctx context.Context, key string, offset, count int64, byPattern string) ([]string, error)
}
