package util

import "testing"

type pooled struct {
	id int
}

func TestObjectPoolCapacity(t *testing.T) {
	pool := NewObjectPool[pooled](2)
	a := pool.Allocate()
	b := pool.Allocate()
	if a == nil || b == nil || a == b {
		t.Fatalf("allocations %p %p", a, b)
	}
	if pool.Allocate() != nil {
		t.Fatalf("allocated past capacity")
	}
	if pool.Len() != 2 || pool.Cap() != 2 {
		t.Fatalf("len %d cap %d", pool.Len(), pool.Cap())
	}

	a.id = 7
	pool.Free(a)
	if pool.Len() != 1 {
		t.Fatalf("len after free = %d", pool.Len())
	}
	// freed slots are handed out again without being cleared
	if c := pool.Allocate(); c != a || c.id != 7 {
		t.Fatalf("freed slot not reused")
	}
}

func TestObjectPoolAllocated(t *testing.T) {
	pool := NewObjectPool[pooled](4)
	for i := 0; i < 3; i++ {
		pool.Allocate().id = i + 1
	}
	sum := 0
	for _, obj := range pool.Allocated() {
		sum += obj.id
	}
	if sum != 6 {
		t.Fatalf("allocated objects sum to %d", sum)
	}
}

func TestObjectPoolDoubleFreePanics(t *testing.T) {
	pool := NewObjectPool[pooled](1)
	obj := pool.Allocate()
	pool.Free(obj)
	defer func() {
		if recover() == nil {
			t.Fatalf("double free did not panic")
		}
	}()
	pool.Free(obj)
}

func TestObjectPoolForeignFreePanics(t *testing.T) {
	pool := NewObjectPool[pooled](1)
	defer func() {
		if recover() == nil {
			t.Fatalf("freeing a foreign object did not panic")
		}
	}()
	pool.Free(&pooled{})
}
