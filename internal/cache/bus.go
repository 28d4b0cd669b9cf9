package cache

import "sync"

// Event is an explicit invalidation signal emitted by every mutating
// operation on instances, answers or forms. Zero ids mean "identity unknown";
// subscribers still clear the namespace.
type Event struct {
	EvaluatorID uint
	EvaluateeID uint
}

// Bus fans invalidation events out to subscribers synchronously. The write
// path publishes after its transaction commits, so a subscriber observing the
// event can already read the new state.
type Bus struct {
	mu          sync.RWMutex
	subscribers []func(Event)
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, fn := range b.subscribers {
		fn(e)
	}
}

// Wire connects the metrics cache to the bus: any write event clears the
// whole namespace plus the per-viewer entries of the affected identities.
func Wire(bus *Bus, cache *MetricsCache) {
	bus.Subscribe(func(e Event) {
		cache.InvalidateAll()
		if e.EvaluatorID != 0 {
			cache.InvalidateViewer(e.EvaluatorID)
		}
		if e.EvaluateeID != 0 {
			cache.InvalidateViewer(e.EvaluateeID)
		}
	})
}
