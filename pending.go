package xproxy

import (
	"context"

	"github.com/viant/xproxy/cache"
	"github.com/viant/xproxy/factory"
)

// Pending represents asynchronous resolution
type Pending struct {
	done  chan struct{}
	entry *cache.Entry
	err   error
}

// Wait waits for resolution, cancelling ctx releases only this waiter
func (p *Pending) Wait(ctx context.Context) (*cache.Entry, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.done:
		return p.entry, p.err
	}
}

// Done returns channel closed once resolution completes
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// ResolveAsync starts module generation in the background
func (s *Service) ResolveAsync(request *factory.Request) *Pending {
	pending := &Pending{done: make(chan struct{})}
	go func() {
		defer close(pending.done)
		pending.entry, pending.err = s.Generate(context.Background(), request)
	}()
	return pending
}
