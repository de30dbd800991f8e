// Package rank resolves star counts for a list of repositories concurrently
// and orders the results by popularity.
// Created by dhawalhost (2026-08-27 10:12:41)
package rank

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/panjf2000/ants/v2"

	"github.com/dhawalhost/starrank/markdown"
)

// StarFetcher looks up the star count of one repository. *gh.Client
// satisfies it.
type StarFetcher interface {
	Stars(ctx context.Context, repo markdown.Repo) (int64, error)
}

// Entry is one ranked repository. A lookup failure is recorded on the entry
// instead of aborting the whole run; failed entries sort after successful
// ones.
type Entry struct {
	Repo  markdown.Repo
	Stars int64
	Err   error
}

// Progress is called after each completed lookup. Calls are serialized.
type Progress func(done, total int)

// Config holds ranker settings.
type Config struct {
	// Workers is the size of the lookup pool. Defaults to 8.
	Workers int
	// Progress, when set, receives completion updates.
	Progress Progress
}

// Ranker resolves and orders repositories. It is safe for concurrent use;
// each Rank call owns its worker pool.
type Ranker struct {
	fetcher StarFetcher
	cfg     Config
	logger  log.Logger
}

// New returns a Ranker using f for lookups.
func New(f StarFetcher, cfg Config, logger log.Logger) *Ranker {
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Ranker{fetcher: f, cfg: cfg, logger: logger}
}

// Rank fetches star counts for repos on a worker pool and returns one entry
// per repo, sorted by stars descending with ties broken by full name. Input
// order does not survive; source ordering belongs to the markdown layer.
func (r *Ranker) Rank(ctx context.Context, repos []markdown.Repo) ([]Entry, error) {
	entries := make([]Entry, len(repos))
	if len(repos) == 0 {
		return entries, nil
	}

	pool, err := ants.NewPool(r.cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("rank: creating worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	total := len(repos)
	for idx, repo := range repos {
		idx, repo := idx, repo
		task := func() {
			defer wg.Done()
			entries[idx] = r.resolve(ctx, repo)
			mu.Lock()
			done++
			if r.cfg.Progress != nil {
				r.cfg.Progress(done, total)
			}
			mu.Unlock()
		}
		wg.Add(1)
		if err := pool.Submit(task); err != nil {
			// Pool rejection is not a lookup failure; fall back to running
			// the task on the submitting goroutine.
			level.Warn(r.logger).Log("msg", "pool rejected task, running inline", "repo", repo, "err", err)
			task()
		}
	}
	wg.Wait()

	sort.Slice(entries, func(i, j int) bool {
		ei, ej := entries[i], entries[j]
		if (ei.Err == nil) != (ej.Err == nil) {
			return ei.Err == nil
		}
		if ei.Stars != ej.Stars {
			return ei.Stars > ej.Stars
		}
		return ei.Repo.FullName() < ej.Repo.FullName()
	})
	return entries, nil
}

func (r *Ranker) resolve(ctx context.Context, repo markdown.Repo) Entry {
	if err := ctx.Err(); err != nil {
		return Entry{Repo: repo, Err: err}
	}
	stars, err := r.fetcher.Stars(ctx, repo)
	if err != nil {
		level.Debug(r.logger).Log("msg", "star lookup failed", "repo", repo, "err", err)
		return Entry{Repo: repo, Err: err}
	}
	return Entry{Repo: repo, Stars: stars}
}

// Top returns the first n entries, or all of them when n <= 0 or exceeds
// the slice.
func Top(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}
