package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"microblog/internal/store"
)

// UserService covers registration, credential checks, and token lifecycle.
//
// Registration and token issuance are multi-key write sequences with no
// cross-key atomicity: a crash mid-sequence can leave partial state, and two
// concurrent registrations of the same name can both pass the duplicate
// check (last write wins on the username mapping). Both are accepted
// limitations of the store contract.
type UserService interface {
	// Register creates a user and issues their first auth token. Fails with
	// ErrInvalidArgument on empty fields and ErrDuplicateUsername when the
	// name is taken.
	Register(ctx context.Context, username, credential string) (int64, string, error)
	// Authenticate checks a credential by plain string comparison. Fails
	// with ErrNotFound for an unknown username and ErrInvalidCredentials on
	// mismatch.
	Authenticate(ctx context.Context, username, credential string) (int64, error)
	// IssueToken mints a fresh token and makes it the user's current one.
	// The previous token's reverse mapping is left in place, so an old
	// token keeps resolving; sessions are never revoked server-side.
	IssueToken(ctx context.Context, userID int64) (string, error)
	// ResolveToken maps a token back to a user id, or ErrUnauthenticated.
	ResolveToken(ctx context.Context, token string) (int64, error)
	// Username returns the name for a user id, or ErrNotFound.
	Username(ctx context.Context, userID int64) (string, error)
	// LookupID returns the id for a username, or ErrNotFound.
	LookupID(ctx context.Context, username string) (int64, error)
}

type userService struct {
	store store.Store
	index IndexService
}

func NewUserService(st store.Store, index IndexService) UserService {
	return &userService{store: st, index: index}
}

func (s *userService) Register(ctx context.Context, username, credential string) (int64, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, "", fmt.Errorf("%w: username is required", ErrInvalidArgument)
	}
	if credential == "" {
		return 0, "", fmt.Errorf("%w: password is required", ErrInvalidArgument)
	}

	if _, taken, err := s.store.Get(ctx, keyUsernameID(username)); err != nil {
		return 0, "", fmt.Errorf("check username: %w", err)
	} else if taken {
		return 0, "", ErrDuplicateUsername
	}

	id, err := s.index.AllocateUserID(ctx)
	if err != nil {
		return 0, "", err
	}

	if err := s.store.Set(ctx, keyUsername(id), username); err != nil {
		return 0, "", fmt.Errorf("store username: %w", err)
	}
	if err := s.store.Set(ctx, keyPassword(id), credential); err != nil {
		return 0, "", fmt.Errorf("store credential: %w", err)
	}
	if err := s.store.Set(ctx, keyUsernameID(username), strconv.FormatInt(id, 10)); err != nil {
		return 0, "", fmt.Errorf("store username mapping: %w", err)
	}
	if err := s.index.RegisterMember(ctx, id); err != nil {
		return 0, "", err
	}

	token, err := s.IssueToken(ctx, id)
	if err != nil {
		return 0, "", err
	}
	return id, token, nil
}

func (s *userService) Authenticate(ctx context.Context, username, credential string) (int64, error) {
	id, err := s.LookupID(ctx, username)
	if err != nil {
		return 0, err
	}

	stored, ok, err := s.store.Get(ctx, keyPassword(id))
	if err != nil {
		return 0, fmt.Errorf("load credential: %w", err)
	}
	// Plain equality on the stored secret, faithful to the stored schema.
	if !ok || stored != credential {
		return 0, ErrInvalidCredentials
	}
	return id, nil
}

func (s *userService) IssueToken(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := s.store.Set(ctx, keyCurrentToken(userID), token); err != nil {
		return "", fmt.Errorf("store current token: %w", err)
	}
	if err := s.store.Set(ctx, keyToken(token), strconv.FormatInt(userID, 10)); err != nil {
		return "", fmt.Errorf("store token mapping: %w", err)
	}
	return token, nil
}

func (s *userService) ResolveToken(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrUnauthenticated
	}
	raw, ok, err := s.store.Get(ctx, keyToken(token))
	if err != nil {
		return 0, fmt.Errorf("resolve token: %w", err)
	}
	if !ok {
		return 0, ErrUnauthenticated
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("resolve token: bad user id %q: %w", raw, err)
	}
	return id, nil
}

func (s *userService) Username(ctx context.Context, userID int64) (string, error) {
	name, ok, err := s.store.Get(ctx, keyUsername(userID))
	if err != nil {
		return "", fmt.Errorf("load username: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return name, nil
}

func (s *userService) LookupID(ctx context.Context, username string) (int64, error) {
	raw, ok, err := s.store.Get(ctx, keyUsernameID(username))
	if err != nil {
		return 0, fmt.Errorf("lookup username: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("username %q: %w", username, ErrNotFound)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("lookup username: bad id %q: %w", raw, err)
	}
	return id, nil
}
