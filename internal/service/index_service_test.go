package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microblog/internal/store"
)

func TestAllocateIDsAreMonotonicAndIndependent(t *testing.T) {
	ctx := context.Background()
	index := NewIndexService(store.NewMemoryStore())

	for want := int64(1); want <= 3; want++ {
		got, err := index.AllocateUserID(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Post ids come from their own counter.
	got, err := index.AllocatePostID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestListMembersSortsByUsername(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	index := NewIndexService(st)
	users := NewUserService(st, index)

	// Registration order deliberately differs from alphabetical order.
	carol, _, err := users.Register(ctx, "carol", "pw")
	require.NoError(t, err)
	alice, _, err := users.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	bob, _, err := users.Register(ctx, "bob", "pw")
	require.NoError(t, err)

	got, err := index.ListMembers(ctx, DefaultPage())
	require.NoError(t, err)
	assert.Equal(t, []int64{alice, bob, carol}, got)

	got, err = index.ListMembers(ctx, Page{Start: 1, Count: 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{bob}, got)
}

func TestRegisterMemberIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	index := NewIndexService(st)

	require.NoError(t, index.RegisterMember(ctx, 7))
	require.NoError(t, index.RegisterMember(ctx, 7))
	require.NoError(t, st.Set(ctx, "uid:7:username", "only"))

	got, err := index.ListMembers(ctx, DefaultPage())
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, got)
}
