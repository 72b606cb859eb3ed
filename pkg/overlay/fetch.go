package overlay

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

// Provider fetches overlay entries from some backing service.
type Provider interface {
	Fetch(ctx context.Context) ([]Entry, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) ([]Entry, error)

func (f ProviderFunc) Fetch(ctx context.Context) ([]Entry, error) { return f(ctx) }

// Fetcher refreshes a Manager from a Provider. Each Refresh call
// supersedes any in-flight one: the older request is cancelled and its
// late response, if it arrives anyway, is discarded by the epoch
// check. A failed fetch leaves the manager's previous entries intact.
type Fetcher struct {
	manager  *Manager
	provider Provider
	logf     func(format string, args ...any)

	epoch  atomic.Uint64
	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewFetcher wires provider refreshes into manager.
func NewFetcher(manager *Manager, provider Provider) *Fetcher {
	return &Fetcher{
		manager:  manager,
		provider: provider,
		logf:     log.Printf,
	}
}

// SetLogf overrides the fetch failure log destination. Passing nil
// silences it.
func (f *Fetcher) SetLogf(logf func(format string, args ...any)) {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	f.logf = logf
}

// Refresh starts an asynchronous fetch and returns immediately. The
// returned channel closes when the fetch settles, whether applied,
// failed, or superseded.
func (f *Fetcher) Refresh(ctx context.Context) <-chan struct{} {
	ctx, cancel := context.WithCancel(ctx)

	f.mu.Lock()
	epoch := f.epoch.Add(1)
	if f.cancel != nil {
		f.cancel()
	}
	f.cancel = cancel
	f.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()

		entries, err := f.provider.Fetch(ctx)
		if err != nil {
			if f.epoch.Load() == epoch {
				f.logf("[Overlay] fetch failed, keeping previous data: %v", err)
			}
			return
		}
		f.applyIfCurrent(epoch, entries)
	}()
	return done
}

// applyIfCurrent installs entries only if no newer refresh superseded
// this epoch. The check and the install share f.mu, so a late response
// cannot slip in between a newer epoch's check and its apply.
func (f *Fetcher) applyIfCurrent(epoch uint64, entries []Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.epoch.Load() != epoch {
		return
	}
	f.manager.SetEntries(entries)
}

// Stop cancels any in-flight fetch.
func (f *Fetcher) Stop() {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.epoch.Add(1)
	f.mu.Unlock()
}
