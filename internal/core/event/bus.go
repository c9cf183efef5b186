package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered event bus. Emit queues into the back buffer; Flush
// swaps the buffers and delivers everything that was queued. Events emitted by
// handlers during a Flush land in the new back buffer and are delivered by the
// next Flush, so one Flush never loops on its own output.
//
// Flush is game-loop only. Emit and Subscribe may be called from any goroutine.
type Bus struct {
	mu       sync.Mutex
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	handlers map[reflect.Type][]func(any)
	order    []reflect.Type // first-seen order, keeps delivery deterministic
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]func(any)),
	}
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (b *Bus) track(t reflect.Type) {
	if _, ok := b.handlers[t]; ok {
		return
	}
	if _, ok := b.back[t]; ok {
		return
	}
	if _, ok := b.front[t]; ok {
		return
	}
	b.order = append(b.order, t)
}

// Emit queues an event into the back buffer.
func Emit[T any](b *Bus, event T) {
	t := typeKey[T]()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.track(t)
	b.back[t] = append(b.back[t], event)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := typeKey[T]()
	b.track(t)
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// Pending reports how many events of type T wait in the back buffer.
func Pending[T any](b *Bus) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.back[typeKey[T]()])
}

// Flush rotates back→front and delivers the front buffer to subscribers in
// emission order per type.
func (b *Bus) Flush() {
	b.mu.Lock()
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
	order := b.order
	b.mu.Unlock()
	for _, t := range order {
		events := b.front[t]
		if len(events) == 0 {
			continue
		}
		b.mu.Lock()
		handlers := b.handlers[t]
		b.mu.Unlock()
		for _, ev := range events {
			for _, h := range handlers {
				h(ev)
			}
		}
	}
}
