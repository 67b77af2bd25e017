package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"microblog/internal/domain"
	"microblog/internal/store"
)

// PostService creates and loads immutable posts.
type PostService interface {
	// Create strips newlines from body, allocates an id, and persists the
	// post. Fails with ErrInvalidArgument when the body is empty.
	Create(ctx context.Context, authorID int64, body string) (int64, error)
	// Get loads a post by id, or ErrNotFound.
	Get(ctx context.Context, id int64) (domain.Post, error)
}

type postService struct {
	store store.Store
	index IndexService
}

func NewPostService(st store.Store, index IndexService) PostService {
	return &postService{store: st, index: index}
}

func (s *postService) Create(ctx context.Context, authorID int64, body string) (int64, error) {
	body = strings.ReplaceAll(body, "\n", "")
	if body == "" {
		return 0, fmt.Errorf("%w: post body is required", ErrInvalidArgument)
	}

	id, err := s.index.AllocatePostID(ctx)
	if err != nil {
		return 0, err
	}

	post := domain.Post{
		ID:        id,
		AuthorID:  authorID,
		CreatedAt: float64(time.Now().UnixNano()) / float64(time.Second),
		Body:      body,
	}
	if err := s.store.Set(ctx, keyPost(id), post.EncodeRecord()); err != nil {
		return 0, fmt.Errorf("store post %d: %w", id, err)
	}
	return id, nil
}

func (s *postService) Get(ctx context.Context, id int64) (domain.Post, error) {
	raw, ok, err := s.store.Get(ctx, keyPost(id))
	if err != nil {
		return domain.Post{}, fmt.Errorf("load post %d: %w", id, err)
	}
	if !ok {
		return domain.Post{}, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}

	post, err := domain.DecodeRecord(raw)
	if err != nil {
		return domain.Post{}, fmt.Errorf("decode post %d: %w", id, err)
	}
	post.ID = id
	return post, nil
}
