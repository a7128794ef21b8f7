package playback

import (
	"context"
	"sync"

	"github.com/samber/lo"
)

// Callback receives events. Callbacks run on the goroutine delivering the
// event and must not block.
type Callback func(Event)

// Token identifies a registered callback.
type Token uint64

type busEntry struct {
	token Token
	cb    Callback
	stop  func() bool // detaches a context watcher, if any
}

// Bus fans events out to callbacks in registration order.
type Bus struct {
	mu   sync.Mutex
	next Token
	subs []busEntry
}

// Subscribe registers cb and returns its token.
func (b *Bus) Subscribe(cb Callback) Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.subs = append(b.subs, busEntry{token: b.next, cb: cb})
	return b.next
}

// SubscribeContext registers cb until ctx is done.
func (b *Bus) SubscribeContext(ctx context.Context, cb Callback) Token {
	tok := b.Subscribe(cb)
	stop := context.AfterFunc(ctx, func() { b.Unsubscribe(tok) })

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.subs {
		if b.subs[i].token == tok {
			b.subs[i].stop = stop
			return tok
		}
	}
	// Context was already done and removed the entry
	stop()
	return tok
}

// Unsubscribe removes the callback for tok. It reports whether one was found.
func (b *Bus) Unsubscribe(tok Token) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, found := lo.Find(b.subs, func(e busEntry) bool { return e.token == tok })
	if !found {
		return false
	}
	if entry.stop != nil {
		entry.stop()
	}
	b.subs = lo.Filter(b.subs, func(e busEntry, _ int) bool { return e.token != tok })
	return true
}

// Clear removes every callback.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.subs {
		if e.stop != nil {
			e.stop()
		}
	}
	b.subs = nil
}

// Len returns the number of registered callbacks.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish delivers e to every callback registered at the time of the call.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	subs := make([]busEntry, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.cb(e)
	}
}
