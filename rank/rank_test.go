package rank

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhawalhost/starrank/markdown"
)

type fakeFetcher struct {
	mu    sync.Mutex
	stars map[string]int64
	errs  map[string]error
	calls int
}

func (f *fakeFetcher) Stars(_ context.Context, repo markdown.Repo) (int64, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err, ok := f.errs[repo.FullName()]; ok {
		return 0, err
	}
	return f.stars[repo.FullName()], nil
}

func repos(names ...string) []markdown.Repo {
	out := make([]markdown.Repo, 0, len(names))
	for _, n := range names {
		out = append(out, markdown.Repo{Owner: "o", Name: n})
	}
	return out
}

func TestRankOrdersByStars(t *testing.T) {
	f := &fakeFetcher{stars: map[string]int64{
		"o/small": 10, "o/big": 9000, "o/mid": 500,
	}}
	r := New(f, Config{Workers: 2}, nil)

	entries, err := r.Rank(context.Background(), repos("small", "big", "mid"))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "o/big", entries[0].Repo.FullName())
	assert.Equal(t, int64(9000), entries[0].Stars)
	assert.Equal(t, "o/mid", entries[1].Repo.FullName())
	assert.Equal(t, "o/small", entries[2].Repo.FullName())
	assert.Equal(t, 3, f.calls)
}

func TestRankTiesByName(t *testing.T) {
	f := &fakeFetcher{stars: map[string]int64{
		"o/bbb": 5, "o/aaa": 5, "o/ccc": 5,
	}}
	r := New(f, Config{}, nil)

	entries, err := r.Rank(context.Background(), repos("bbb", "aaa", "ccc"))
	require.NoError(t, err)
	assert.Equal(t, "o/aaa", entries[0].Repo.FullName())
	assert.Equal(t, "o/bbb", entries[1].Repo.FullName())
	assert.Equal(t, "o/ccc", entries[2].Repo.FullName())
}

func TestRankRecordsFailures(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeFetcher{
		stars: map[string]int64{"o/ok": 42},
		errs:  map[string]error{"o/bad": boom},
	}
	r := New(f, Config{Workers: 4}, nil)

	entries, err := r.Rank(context.Background(), repos("bad", "ok"))
	require.NoError(t, err, "per-repo failures must not abort the run")
	require.Len(t, entries, 2)
	assert.Equal(t, "o/ok", entries[0].Repo.FullName())
	assert.NoError(t, entries[0].Err)
	assert.Equal(t, "o/bad", entries[1].Repo.FullName(), "failed entries sort last")
	assert.ErrorIs(t, entries[1].Err, boom)
}

func TestRankProgress(t *testing.T) {
	f := &fakeFetcher{stars: map[string]int64{"o/a": 1, "o/b": 2, "o/c": 3}}
	var mu sync.Mutex
	var dones []int
	total := 0
	r := New(f, Config{Workers: 3, Progress: func(done, tot int) {
		mu.Lock()
		dones = append(dones, done)
		total = tot
		mu.Unlock()
	}}, nil)

	_, err := r.Rank(context.Background(), repos("a", "b", "c"))
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []int{1, 2, 3}, dones, "progress counts are serialized and monotonic")
}

func TestRankEmpty(t *testing.T) {
	f := &fakeFetcher{}
	r := New(f, Config{}, nil)
	entries, err := r.Rank(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 0, f.calls)
}

func TestRankCanceledContext(t *testing.T) {
	f := &fakeFetcher{stars: map[string]int64{"o/a": 1}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(f, Config{}, nil)
	entries, err := r.Rank(ctx, repos("a", "b"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.ErrorIs(t, e.Err, context.Canceled)
	}
	assert.Equal(t, 0, f.calls, "no lookups once the context is dead")
}

func TestTop(t *testing.T) {
	entries := []Entry{{Stars: 3}, {Stars: 2}, {Stars: 1}}
	assert.Len(t, Top(entries, 2), 2)
	assert.Len(t, Top(entries, 0), 3)
	assert.Len(t, Top(entries, 10), 3)
}
