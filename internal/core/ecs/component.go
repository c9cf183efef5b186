package ecs

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// LifecycleObserver is notified when a component is attached to or detached
// from an entity. OnDetached also fires when the entity is destroyed while
// holding the component. Callbacks run synchronously inside Set/Remove, so
// observers should record the event and act on it later in the tick.
type LifecycleObserver interface {
	OnAttached(id EntityID)
	OnDetached(id EntityID)
}

// PtrComponentStore is a generic typed map store for ECS components.
// No reflect, no interface{} — pure generics.
type PtrComponentStore[T any] struct {
	data      map[EntityID]*T
	observers []LifecycleObserver
}

func NewPtrComponentStore[T any]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{
		data: make(map[EntityID]*T, 256),
	}
}

// Observe registers o for attach/detach notifications on this store.
func (s *PtrComponentStore[T]) Observe(o LifecycleObserver) {
	s.observers = append(s.observers, o)
}

// Set attaches or replaces the component. Observers are only told about the
// first attachment, replacing an existing value is not a lifecycle event.
func (s *PtrComponentStore[T]) Set(id EntityID, c *T) {
	_, existed := s.data[id]
	s.data[id] = c
	if existed {
		return
	}
	for _, o := range s.observers {
		o.OnAttached(id)
	}
}

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *PtrComponentStore[T]) Remove(id EntityID) {
	if _, ok := s.data[id]; !ok {
		return
	}
	delete(s.data, id)
	for _, o := range s.observers {
		o.OnDetached(id)
	}
}

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *PtrComponentStore[T]) Len() int {
	return len(s.data)
}

func (s *PtrComponentStore[T]) Each(fn func(EntityID, *T)) {
	for id, c := range s.data {
		fn(id, c)
	}
}
