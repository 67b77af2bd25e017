package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microblog/internal/store"
)

type timelineFixture struct {
	users    UserService
	graph    GraphService
	posts    PostService
	timeline TimelineService
}

func newTimelineFixture(t *testing.T) timelineFixture {
	t.Helper()
	st := store.NewMemoryStore()
	index := NewIndexService(st)
	graph := NewGraphService(st)
	return timelineFixture{
		users:    NewUserService(st, index),
		graph:    graph,
		posts:    NewPostService(st, index),
		timeline: NewTimelineService(st, graph),
	}
}

func TestPublishFansOutToAuthorAndFollowers(t *testing.T) {
	ctx := context.Background()
	f := newTimelineFixture(t)

	author, _, err := f.users.Register(ctx, "author", "pw")
	require.NoError(t, err)
	b, _, err := f.users.Register(ctx, "b", "pw")
	require.NoError(t, err)
	c, _, err := f.users.Register(ctx, "c", "pw")
	require.NoError(t, err)
	outsider, _, err := f.users.Register(ctx, "outsider", "pw")
	require.NoError(t, err)

	require.NoError(t, f.graph.Follow(ctx, b, author))
	require.NoError(t, f.graph.Follow(ctx, c, author))

	postID, err := f.posts.Create(ctx, author, "hello")
	require.NoError(t, err)
	require.NoError(t, f.timeline.Publish(ctx, postID, author))

	for _, uid := range []int64{author, b, c} {
		feed, err := f.timeline.Feed(ctx, uid, Page{Start: 0, Count: 1})
		require.NoError(t, err)
		assert.Equal(t, []int64{postID}, feed, "user %d should see the post first", uid)
	}

	feed, err := f.timeline.Feed(ctx, outsider, DefaultPage())
	require.NoError(t, err)
	assert.Empty(t, feed)

	global, err := f.timeline.Global(ctx, DefaultPage())
	require.NoError(t, err)
	assert.Equal(t, []int64{postID}, global)
}

func TestFeedOrdersByArrival(t *testing.T) {
	ctx := context.Background()
	f := newTimelineFixture(t)

	author, _, err := f.users.Register(ctx, "author", "pw")
	require.NoError(t, err)

	var ids []int64
	for _, body := range []string{"first", "second", "third"} {
		id, err := f.posts.Create(ctx, author, body)
		require.NoError(t, err)
		require.NoError(t, f.timeline.Publish(ctx, id, author))
		ids = append(ids, id)
	}

	feed, err := f.timeline.Feed(ctx, author, DefaultPage())
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, feed, "newest first")

	// Paging clamps to what exists.
	feed, err = f.timeline.Feed(ctx, author, Page{Start: 2, Count: 10})
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[0]}, feed)

	feed, err = f.timeline.Feed(ctx, author, Page{Start: 10, Count: 10})
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestSelfFollowPushesOnce(t *testing.T) {
	ctx := context.Background()
	f := newTimelineFixture(t)

	author, _, err := f.users.Register(ctx, "narcissus", "pw")
	require.NoError(t, err)
	require.NoError(t, f.graph.Follow(ctx, author, author))

	postID, err := f.posts.Create(ctx, author, "just me")
	require.NoError(t, err)
	require.NoError(t, f.timeline.Publish(ctx, postID, author))

	feed, err := f.timeline.Feed(ctx, author, DefaultPage())
	require.NoError(t, err)
	assert.Equal(t, []int64{postID}, feed, "author in their own follower set still gets one push")
}

func TestGlobalTimelineIsCapped(t *testing.T) {
	ctx := context.Background()
	f := newTimelineFixture(t)

	author, _, err := f.users.Register(ctx, "prolific", "pw")
	require.NoError(t, err)

	const total = globalTimelineCap + 5
	var lastIDs []int64
	for i := 0; i < total; i++ {
		id, err := f.posts.Create(ctx, author, "post")
		require.NoError(t, err)
		require.NoError(t, f.timeline.Publish(ctx, id, author))
		lastIDs = append(lastIDs, id)
	}

	global, err := f.timeline.Global(ctx, Page{Start: 0, Count: 2 * globalTimelineCap})
	require.NoError(t, err)
	require.Len(t, global, globalTimelineCap)

	// The 1000 most recent ids, newest first.
	assert.Equal(t, lastIDs[total-1], global[0])
	assert.Equal(t, lastIDs[total-globalTimelineCap], global[globalTimelineCap-1])
}

// The alice/bob walkthrough from the design doc.
func TestAliceAndBob(t *testing.T) {
	ctx := context.Background()
	f := newTimelineFixture(t)

	alice, _, err := f.users.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), alice)

	bob, _, err := f.users.Register(ctx, "bob", "pw2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), bob)

	require.NoError(t, f.graph.Follow(ctx, bob, alice))

	postID, err := f.posts.Create(ctx, alice, "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(1), postID)
	require.NoError(t, f.timeline.Publish(ctx, postID, alice))

	for _, uid := range []int64{alice, bob} {
		feed, err := f.timeline.Feed(ctx, uid, DefaultPage())
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, feed)
	}

	global, err := f.timeline.Global(ctx, DefaultPage())
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, global)
}
