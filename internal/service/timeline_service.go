package service

import (
	"context"
	"fmt"
	"strconv"

	"microblog/internal/store"
)

// globalTimelineCap bounds the site-wide timeline; Publish trims anything
// older than the most recent 1000 entries.
const globalTimelineCap = 1000

// TimelineService fans new posts out to feeds at write time and serves
// feed reads.
type TimelineService interface {
	// Publish pushes postID to the front of the author's feed, every
	// follower's feed, and the global timeline, then trims the global
	// timeline. The follower set is snapshotted once at call time; a
	// concurrent follow or unfollow may or may not see this post.
	//
	// The per-recipient pushes are not atomic: a failure mid-fanout leaves
	// some feeds updated and others not, and retrying would double-push to
	// the feeds already written. Callers must not blindly retry.
	Publish(ctx context.Context, postID, authorID int64) error
	// Feed returns a page of a user's feed, newest first, clamped to what
	// exists.
	Feed(ctx context.Context, userID int64, page Page) ([]int64, error)
	// Global returns a page of the global timeline, newest first.
	Global(ctx context.Context, page Page) ([]int64, error)
}

type timelineService struct {
	store store.Store
	graph GraphService
}

func NewTimelineService(st store.Store, graph GraphService) TimelineService {
	return &timelineService{store: st, graph: graph}
}

func (s *timelineService) Publish(ctx context.Context, postID, authorID int64) error {
	followers, err := s.graph.Followers(ctx, authorID)
	if err != nil {
		return err
	}

	// The author always receives their own post; the union also collapses a
	// self-follow into a single push.
	recipients := make([]int64, 0, len(followers)+1)
	seen := make(map[int64]struct{}, len(followers)+1)
	for _, id := range append(followers, authorID) {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		recipients = append(recipients, id)
	}

	value := strconv.FormatInt(postID, 10)
	for _, r := range recipients {
		if err := s.store.LPush(ctx, keyFeed(r), value); err != nil {
			return fmt.Errorf("fanout post %d to user %d: %w", postID, r, err)
		}
	}

	if err := s.store.LPush(ctx, keyGlobalTimeline, value); err != nil {
		return fmt.Errorf("push global timeline: %w", err)
	}
	if err := s.store.LTrim(ctx, keyGlobalTimeline, 0, globalTimelineCap-1); err != nil {
		return fmt.Errorf("trim global timeline: %w", err)
	}
	return nil
}

func (s *timelineService) Feed(ctx context.Context, userID int64, page Page) ([]int64, error) {
	return s.readList(ctx, keyFeed(userID), page)
}

func (s *timelineService) Global(ctx context.Context, page Page) ([]int64, error) {
	return s.readList(ctx, keyGlobalTimeline, page)
}

func (s *timelineService) readList(ctx context.Context, key string, page Page) ([]int64, error) {
	page = page.normalize()
	raw, err := s.store.LRange(ctx, key, page.Start, page.Start+page.Count-1)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return parseIDs(raw)
}
