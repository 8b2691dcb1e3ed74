package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ethanbaker/transcript-assistant/pkg/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestStoreGetOrCreate(t *testing.T) {
	store := NewStore()

	_, ok := store.Get("a")
	assert.False(t, ok)

	conv := store.GetOrCreate("a")
	assert.Same(t, conv, store.GetOrCreate("a"))
	assert.NotSame(t, conv, store.GetOrCreate("b"))
	assert.Equal(t, 2, store.Len())
}

func TestStoreConcurrentCreate(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	convs := make([]*Conversation, 20)
	for i := range convs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			convs[i] = store.GetOrCreate("same")
		}(i)
	}
	wg.Wait()

	for _, conv := range convs {
		assert.Same(t, convs[0], conv)
	}
	assert.Equal(t, 1, store.Len())
}

func TestStoreReset(t *testing.T) {
	store := NewStore()
	conv := store.GetOrCreate("a")
	_, err := conv.Submit(context.Background(), &countingQuerier{reply: Reply{Text: "x"}}, "q")
	require.NoError(t, err)

	store.Reset("a")
	store.Reset("missing")

	assert.Equal(t, 0, store.Len())
	assert.Empty(t, store.GetOrCreate("a").Snapshot().Messages)
}

func TestStoreSweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore()
	store.now = clock.Now

	store.GetOrCreate("old")
	clock.Advance(90 * time.Minute)
	store.GetOrCreate("fresh")
	clock.Advance(45 * time.Minute)

	assert.Equal(t, 1, store.Sweep(2*time.Hour))

	_, ok := store.Get("old")
	assert.False(t, ok)
	_, ok = store.Get("fresh")
	assert.True(t, ok)
}

func TestStoreSweepKeepsSending(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore()
	store.now = clock.Now

	conv := store.GetOrCreate("busy")

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		conv.Submit(context.Background(), QuerierFunc(func(ctx context.Context, text string) (Reply, error) {
			close(entered)
			<-release
			return Reply{}, nil
		}), "q")
	}()
	<-entered

	clock.Advance(24 * time.Hour)
	assert.Equal(t, 0, store.Sweep(time.Hour))

	close(release)
	<-done
}

func TestNewSweeper(t *testing.T) {
	store := NewStore()

	_, err := NewSweeper(store, "not a schedule", time.Hour)
	assert.Error(t, err)

	_, err = NewSweeper(store, "@every 1m", 0)
	assert.Error(t, err)

	sweeper, err := NewSweeper(store, "@every 1m", time.Hour)
	require.NoError(t, err)

	sweeper.Start()
	sweeper.Stop()
}

func TestNewQuerier(t *testing.T) {
	backend := &stubBackend{}

	search, err := NewQuerier(ModeSearch, backend)
	require.NoError(t, err)
	reply, err := search.Query(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, reply.Results, 1)

	ask, err := NewQuerier(ModeAsk, backend)
	require.NoError(t, err)
	reply, err = ask.Query(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "answer", reply.Text)

	_, err = NewQuerier("other", backend)
	assert.Error(t, err)

	mode, err := ParseMode(" ASK ")
	require.NoError(t, err)
	assert.Equal(t, ModeAsk, mode)

	_, err = ParseMode("gemini")
	assert.Error(t, err)
}

type stubBackend struct{}

func (stubBackend) Search(ctx context.Context, query string) (*sdk.SearchResponse, error) {
	return &sdk.SearchResponse{Results: []sdk.SearchResult{{Name: query}}}, nil
}

func (stubBackend) Ask(ctx context.Context, question string) (*sdk.AskResponse, error) {
	return &sdk.AskResponse{Answer: " answer "}, nil
}
