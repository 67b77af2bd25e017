package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// MemoryStore implements Store with in-process maps. It exists for tests and
// for running the server without a Redis instance; semantics (counter
// behaviour, inclusive list ranges, sort-by-pattern) follow the Redis
// commands the RedisStore issues.
type MemoryStore struct {
	mu      sync.RWMutex
	strings map[string]string
	sets    map[string]map[string]struct{}
	lists   map[string][]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		strings: make(map[string]string),
		sets:    make(map[string]map[string]struct{}),
		lists:   make(map[string][]string),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.strings[key]
	return val, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.strings[key] = value
	return nil
}

func (m *MemoryStore) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var current int64
	if raw, ok := m.strings[key]; ok {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("incr %s: value is not an integer", key)
		}
		current = parsed
	}
	current++
	m.strings[key] = strconv.FormatInt(current, 10)
	return current, nil
}

func (m *MemoryStore) SAdd(_ context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[key]
	if !ok {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	set[member] = struct{}{}
	return nil
}

func (m *MemoryStore) SRem(_ context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sets[key], member)
	return nil
}

func (m *MemoryStore) SIsMember(_ context.Context, key, member string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.sets[key][member]
	return ok, nil
}

func (m *MemoryStore) SCard(_ context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.sets[key])), nil
}

func (m *MemoryStore) SMembers(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	members := make([]string, 0, len(m.sets[key]))
	for member := range m.sets[key] {
		members = append(members, member)
	}
	return members, nil
}

func (m *MemoryStore) LPush(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lists[key] = append([]string{value}, m.lists[key]...)
	return nil
}

func (m *MemoryStore) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.lists[key]
	from, to, empty := clampRange(start, stop, int64(len(list)))
	if empty {
		return nil, nil
	}

	out := make([]string, to-from+1)
	copy(out, list[from:to+1])
	return out, nil
}

func (m *MemoryStore) LTrim(_ context.Context, key string, start, stop int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.lists[key]
	from, to, empty := clampRange(start, stop, int64(len(list)))
	if empty {
		delete(m.lists, key)
		return nil
	}
	m.lists[key] = list[from : to+1]
	return nil
}

func (m *MemoryStore) SortByPattern(_ context.Context, key string, offset, count int64, byPattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	members := make([]string, 0, len(m.sets[key]))
	for member := range m.sets[key] {
		members = append(members, member)
	}

	sortKey := func(member string) string {
		return m.strings[strings.Replace(byPattern, "*", member, 1)]
	}
	sort.SliceStable(members, func(i, j int) bool {
		ki, kj := sortKey(members[i]), sortKey(members[j])
		if ki != kj {
			return ki < kj
		}
		return members[i] < members[j]
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= int64(len(members)) {
		return nil, nil
	}
	members = members[offset:]
	if count >= 0 && count < int64(len(members)) {
		members = members[:count]
	}
	return members, nil
}

// clampRange resolves inclusive list indices the way redis LRANGE/LTRIM do:
// negative indices count from the end, out-of-range bounds clamp, and an
// inverted range selects nothing.
func clampRange(start, stop, length int64) (from, to int64, empty bool) {
	if length == 0 {
		return 0, 0, true
	}
	if start < 0 {
		start += length
		if start < 0 {
			start = 0
		}
	}
	if stop < 0 {
		stop += length
	}
	if stop >= length {
		stop = length - 1
	}
	if start > stop || start >= length || stop < 0 {
		return 0, 0, true
	}
	return start, stop, false
}
