// Package kvstore is the shared mapping this process persists scraped
// records into. It is one of potentially several readers/writers of the
// same data, so nothing in here assumes exclusive ownership of a key.
package kvstore

import (
	"context"
	"encoding/json"
	"sync"
)

// Change carries the old and new value of a single changed key. Old or New
// is nil when the key was created or deleted respectively.
type Change struct {
	Key string
	Old json.RawMessage
	New json.RawMessage
}

type Subscriber func(changes []Change)

type Store interface {
	// Get returns the values for the requested keys. Missing keys are
	// simply absent from the result.
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)
	GetAll(ctx context.Context) (map[string]json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	// Subscribe registers a change listener and returns a cancel func.
	// Listeners run synchronously on the writer's goroutine, in
	// registration order.
	Subscribe(fn Subscriber) func()
}

// notifier implements Subscribe for both store implementations.
type notifier struct {
	mu          sync.Mutex
	subscribers map[int64]Subscriber
	nextId      int64
	order       []int64
}

func (n *notifier) Subscribe(fn Subscriber) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subscribers == nil {
		n.subscribers = make(map[int64]Subscriber)
	}
	id := n.nextId
	n.nextId++
	n.subscribers[id] = fn
	n.order = append(n.order, id)

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subscribers, id)
	}
}

func (n *notifier) publish(changes []Change) {
	if len(changes) == 0 {
		return
	}
	n.mu.Lock()
	subscribers := make([]Subscriber, 0, len(n.subscribers))
	for _, id := range n.order {
		if fn, ok := n.subscribers[id]; ok {
			subscribers = append(subscribers, fn)
		}
	}
	n.mu.Unlock()

	for _, fn := range subscribers {
		fn(changes)
	}
}

// GetJSON reads a key and unmarshals it into T. The second return reports
// whether the key existed.
func GetJSON[T any](ctx context.Context, store Store, key string) (T, bool, error) {
	var out T
	values, err := store.Get(ctx, key)
	if err != nil {
		return out, false, err
	}
	raw, ok := values[key]
	if !ok {
		return out, false, nil
	}
	err = json.Unmarshal(raw, &out)
	if err != nil {
		return out, false, err
	}
	return out, true, nil
}

func SetJSON[T any](ctx context.Context, store Store, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, raw)
}
