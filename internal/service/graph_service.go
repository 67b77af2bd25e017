package service

import (
	"context"
	"fmt"
	"strconv"

	"microblog/internal/store"
)

// GraphService maintains the follow relation as dual set memberships: the
// follower appears in the followee's followers set and the followee in the
// follower's following set. Follow and Unfollow keep both sides in step;
// id validity is not checked here.
type GraphService interface {
	Follow(ctx context.Context, followerID, followeeID int64) error
	Unfollow(ctx context.Context, followerID, followeeID int64) error
	IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error)
	FollowerCount(ctx context.Context, userID int64) (int64, error)
	FollowingCount(ctx context.Context, userID int64) (int64, error)
	Followers(ctx context.Context, userID int64) ([]int64, error)
}

type graphService struct {
	store store.Store
}

func NewGraphService(st store.Store) GraphService {
	return &graphService{store: st}
}

func (s *graphService) Follow(ctx context.Context, followerID, followeeID int64) error {
	if err := s.store.SAdd(ctx, keyFollowers(followeeID), strconv.FormatInt(followerID, 10)); err != nil {
		return fmt.Errorf("add follower: %w", err)
	}
	if err := s.store.SAdd(ctx, keyFollowing(followerID), strconv.FormatInt(followeeID, 10)); err != nil {
		return fmt.Errorf("add following: %w", err)
	}
	return nil
}

func (s *graphService) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	if err := s.store.SRem(ctx, keyFollowers(followeeID), strconv.FormatInt(followerID, 10)); err != nil {
		return fmt.Errorf("remove follower: %w", err)
	}
	if err := s.store.SRem(ctx, keyFollowing(followerID), strconv.FormatInt(followeeID, 10)); err != nil {
		return fmt.Errorf("remove following: %w", err)
	}
	return nil
}

func (s *graphService) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	ok, err := s.store.SIsMember(ctx, keyFollowing(followerID), strconv.FormatInt(followeeID, 10))
	if err != nil {
		return false, fmt.Errorf("check following: %w", err)
	}
	return ok, nil
}

func (s *graphService) FollowerCount(ctx context.Context, userID int64) (int64, error) {
	n, err := s.store.SCard(ctx, keyFollowers(userID))
	if err != nil {
		return 0, fmt.Errorf("follower count: %w", err)
	}
	return n, nil
}

func (s *graphService) FollowingCount(ctx context.Context, userID int64) (int64, error) {
	n, err := s.store.SCard(ctx, keyFollowing(userID))
	if err != nil {
		return 0, fmt.Errorf("following count: %w", err)
	}
	return n, nil
}

func (s *graphService) Followers(ctx context.Context, userID int64) ([]int64, error) {
	members, err := s.store.SMembers(ctx, keyFollowers(userID))
	if err != nil {
		return nil, fmt.Errorf("load followers: %w", err)
	}
	return parseIDs(members)
}
