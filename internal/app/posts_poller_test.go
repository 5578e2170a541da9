package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jsamuelsen/quotebook/internal/domain"
	"github.com/jsamuelsen/quotebook/internal/mocks"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewPostsPoller_PanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() {
		NewPostsPoller(PostsPollerConfig{})
	})
}

func TestNewPostsPoller_DefaultInterval(t *testing.T) {
	p := NewPostsPoller(PostsPollerConfig{Client: mocks.NewMockPostsClient(t)})

	assert.Equal(t, DefaultPollInterval, p.interval)
}

func TestPostsPoller_FetchOnce(t *testing.T) {
	posts := []domain.Post{{ID: 1, Title: "sunt aut facere"}, {ID: 2, Title: "qui est esse"}}
	fetchedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	client := mocks.NewMockPostsClient(t)
	client.EXPECT().ListPosts(mock.Anything).Return(posts, nil).Once()

	p := NewPostsPoller(PostsPollerConfig{Client: client, Logger: discardLogger()})
	p.now = func() time.Time { return fetchedAt }

	require.ErrorIs(t, p.Check(context.Background()), errNoFetchYet)

	got, err := p.FetchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, posts, got)

	snap := p.Latest()
	assert.Equal(t, posts, snap.Posts)
	assert.Equal(t, fetchedAt, snap.FetchedAt)
	assert.Equal(t, 2, p.PostCount())
	assert.Equal(t, fetchedAt, p.LastFetch())
	assert.NoError(t, p.Check(context.Background()))
}

func TestPostsPoller_FetchFailureKeepsLastGoodList(t *testing.T) {
	posts := []domain.Post{{ID: 1, Title: "kept"}}
	upstream := errors.New("connection refused")

	client := mocks.NewMockPostsClient(t)
	client.EXPECT().ListPosts(mock.Anything).Return(posts, nil).Once()
	client.EXPECT().ListPosts(mock.Anything).Return(nil, upstream).Once()

	p := NewPostsPoller(PostsPollerConfig{Client: client, Logger: discardLogger()})

	_, err := p.FetchOnce(context.Background())
	require.NoError(t, err)

	_, err = p.FetchOnce(context.Background())
	require.ErrorIs(t, err, upstream)

	assert.Equal(t, posts, p.Latest().Posts)
	assert.ErrorIs(t, p.Check(context.Background()), upstream)
	assert.Equal(t, "posts", p.Name())
}

func TestPostsPoller_Run_FetchesImmediatelyAndOnEachTick(t *testing.T) {
	var calls atomic.Int32

	client := mocks.NewMockPostsClient(t)
	client.EXPECT().ListPosts(mock.Anything).
		RunAndReturn(func(context.Context) ([]domain.Post, error) {
			calls.Add(1)
			return []domain.Post{{ID: 1, Title: "tick"}}, nil
		})

	p := NewPostsPoller(PostsPollerConfig{
		Client:   client,
		Interval: 10 * time.Millisecond,
		Logger:   discardLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- p.Run(ctx) }()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}

func TestPostsPoller_Run_IgnoresFailures(t *testing.T) {
	var calls atomic.Int32

	client := mocks.NewMockPostsClient(t)
	client.EXPECT().ListPosts(mock.Anything).
		RunAndReturn(func(context.Context) ([]domain.Post, error) {
			if calls.Add(1)%2 == 1 {
				return nil, errors.New("503 from upstream")
			}

			return []domain.Post{{ID: 7, Title: "recovered"}}, nil
		})

	p := NewPostsPoller(PostsPollerConfig{
		Client:   client,
		Interval: 5 * time.Millisecond,
		Logger:   discardLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- p.Run(ctx) }()

	assert.Eventually(t, func() bool { return p.PostCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, []domain.Post{{ID: 7, Title: "recovered"}}, p.Latest().Posts)
}

func TestPostsPoller_Run_StopsWhenAlreadyCancelled(t *testing.T) {
	client := mocks.NewMockPostsClient(t)
	client.EXPECT().ListPosts(mock.Anything).Return(nil, context.Canceled).Maybe()

	p := NewPostsPoller(PostsPollerConfig{Client: client, Interval: time.Hour, Logger: discardLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, p.Run(ctx))
}

func TestPostsPoller_LatestReturnsCopy(t *testing.T) {
	client := mocks.NewMockPostsClient(t)
	client.EXPECT().ListPosts(mock.Anything).Return([]domain.Post{{ID: 1, Title: "original"}}, nil)

	p := NewPostsPoller(PostsPollerConfig{Client: client, Logger: discardLogger()})
	_, err := p.FetchOnce(context.Background())
	require.NoError(t, err)

	snap := p.Latest()
	snap.Posts[0].Title = "changed"

	assert.Equal(t, "original", p.Latest().Posts[0].Title)
}
