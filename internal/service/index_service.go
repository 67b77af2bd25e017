package service

import (
	"context"
	"fmt"
	"strconv"

	"microblog/internal/store"
)

// IndexService owns id allocation and the directory of all registered users.
type IndexService interface {
	// AllocateUserID returns the next user id. Ids are monotonic and never
	// reused; an id consumed by a registration that later fails stays
	// consumed.
	AllocateUserID(ctx context.Context) (int64, error)
	// AllocatePostID returns the next post id, same contract.
	AllocatePostID(ctx context.Context) (int64, error)
	// RegisterMember adds a user id to the global directory. Idempotent.
	RegisterMember(ctx context.Context, userID int64) error
	// ListMembers returns a page of user ids ordered ascending by username.
	ListMembers(ctx context.Context, page Page) ([]int64, error)
}

type indexService struct {
	store store.Store
}

func NewIndexService(st store.Store) IndexService {
	return &indexService{store: st}
}

func (s *indexService) AllocateUserID(ctx context.Context) (int64, error) {
	id, err := s.store.Incr(ctx, keyNextUserID)
	if err != nil {
		return 0, fmt.Errorf("allocate user id: %w", err)
	}
	return id, nil
}

func (s *indexService) AllocatePostID(ctx context.Context) (int64, error) {
	id, err := s.store.Incr(ctx, keyNextPostID)
	if err != nil {
		return 0, fmt.Errorf("allocate post id: %w", err)
	}
	return id, nil
}

func (s *indexService) RegisterMember(ctx context.Context, userID int64) error {
	if err := s.store.SAdd(ctx, keyGlobalUsers, strconv.FormatInt(userID, 10)); err != nil {
		return fmt.Errorf("register member %d: %w", userID, err)
	}
	return nil
}

func (s *indexService) ListMembers(ctx context.Context, page Page) ([]int64, error) {
	page = page.normalize()
	members, err := s.store.SortByPattern(ctx, keyGlobalUsers, page.Start, page.Count, usernameByIDPattern)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return parseIDs(members)
}

func parseIDs(raw []string) ([]int64, error) {
	ids := make([]int64, 0, len(raw))
	for _, r := range raw {
		id, err := strconv.ParseInt(r, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse id %q: %w", r, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
