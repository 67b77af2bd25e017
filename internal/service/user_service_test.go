package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microblog/internal/store"
)

func newUserService(t *testing.T) (UserService, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewUserService(st, NewIndexService(st)), st
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	users, _ := newUserService(t)

	id, token, err := users.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.NotEmpty(t, token)

	resolved, err := users.ResolveToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, id, resolved)

	name, err := users.Username(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	looked, err := users.LookupID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, looked)

	id2, _, err := users.Register(ctx, "bob", "pw2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), id2)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	users, _ := newUserService(t)

	_, _, err := users.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, _, err = users.Register(ctx, "alice", "other")
	require.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	users, _ := newUserService(t)

	_, _, err := users.Register(ctx, "", "pw")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, _, err = users.Register(ctx, "   ", "pw")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, _, err = users.Register(ctx, "alice", "")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	users, _ := newUserService(t)

	id, _, err := users.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	got, err := users.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = users.Authenticate(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = users.Authenticate(ctx, "carol", "x")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIssueTokenLeavesPriorTokenResolvable(t *testing.T) {
	ctx := context.Background()
	users, _ := newUserService(t)

	id, first, err := users.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	second, err := users.IssueToken(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// The old reverse mapping is never cleared, so both tokens resolve.
	got, err := users.ResolveToken(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = users.ResolveToken(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestResolveUnknownToken(t *testing.T) {
	ctx := context.Background()
	users, _ := newUserService(t)

	_, err := users.ResolveToken(ctx, "nope")
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = users.ResolveToken(ctx, "")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUnknownUserLookups(t *testing.T) {
	ctx := context.Background()
	users, _ := newUserService(t)

	_, err := users.Username(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = users.LookupID(ctx, "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}
