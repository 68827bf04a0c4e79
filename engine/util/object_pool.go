package util

import "fmt"

// ObjectPool hands out pointers into a fixed block of T. Objects are never allocated
// past the capacity given at construction.
type ObjectPool[T any] struct {
	objects []T
	used    []bool
	free    []int
	index   map[*T]int
}

func NewObjectPool[T any](capacity int) *ObjectPool[T] {
	p := &ObjectPool[T]{
		objects: make([]T, capacity),
		used:    make([]bool, capacity),
		free:    make([]int, 0, capacity),
		index:   make(map[*T]int, capacity),
	}
	for i := capacity - 1; i >= 0; i-- {
		p.free = append(p.free, i)
		p.index[&p.objects[i]] = i
	}
	return p
}

// Allocate returns nil when the pool is exhausted.
func (p *ObjectPool[T]) Allocate() *T {
	if len(p.free) == 0 {
		return nil
	}
	i := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.used[i] = true
	return &p.objects[i]
}

// Free returns obj to the pool. Freeing a foreign or already free object panics.
func (p *ObjectPool[T]) Free(obj *T) {
	i, ok := p.index[obj]
	if !ok {
		panic(fmt.Sprintf("object pool: %p does not belong to this pool", obj))
	}
	if !p.used[i] {
		panic(fmt.Sprintf("object pool: double free of slot %d", i))
	}
	p.used[i] = false
	p.free = append(p.free, i)
}

func (p *ObjectPool[T]) Len() int {
	return len(p.objects) - len(p.free)
}

func (p *ObjectPool[T]) Cap() int {
	return len(p.objects)
}

// Each visits every allocated object. fn must not allocate from or free to the pool.
func (p *ObjectPool[T]) Each(fn func(obj *T)) {
	for i := range p.objects {
		if p.used[i] {
			fn(&p.objects[i])
		}
	}
}

// Allocated returns the currently allocated objects.
func (p *ObjectPool[T]) Allocated() []*T {
	out := make([]*T, 0, p.Len())
	p.Each(func(obj *T) { out = append(out, obj) })
	return out
}
