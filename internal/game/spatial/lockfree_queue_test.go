package spatial

import (
	"sync"
	"testing"
)

func TestQueueFIFO(t *testing.T) {
	q := NewLockFreeQueue[int](4)

	for i := 1; i <= 4; i++ {
		if !q.TryPush(i) {
			t.Fatalf("Push %d failed", i)
		}
	}
	if q.TryPush(5) {
		t.Error("Push into a full queue should fail")
	}
	if q.Len() != 4 {
		t.Errorf("Expected length 4, got %d", q.Len())
	}

	for i := 1; i <= 4; i++ {
		v, ok := q.TryPop()
		if !ok || v != i {
			t.Errorf("Expected %d, got %d (%v)", i, v, ok)
		}
	}
	if _, ok := q.TryPop(); ok {
		t.Error("Pop from an empty queue should fail")
	}
}

func TestQueueCapacityRoundsUp(t *testing.T) {
	q := NewLockFreeQueue[int](100)
	if q.Cap() != 128 {
		t.Errorf("Expected capacity 128, got %d", q.Cap())
	}
}

func TestQueueWrapsAround(t *testing.T) {
	q := NewLockFreeQueue[int](2)
	for lap := 0; lap < 10; lap++ {
		q.TryPush(lap)
		q.TryPush(lap + 100)
		a, _ := q.TryPop()
		b, _ := q.TryPop()
		if a != lap || b != lap+100 {
			t.Fatalf("Lap %d: expected %d,%d got %d,%d", lap, lap, lap+100, a, b)
		}
	}
}

// TestQueueConcurrentProducers verifies nothing is lost or duplicated under contention
func TestQueueConcurrentProducers(t *testing.T) {
	const producers = 8
	const perProducer = 1000

	q := NewLockFreeQueue[int](producers * perProducer)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				for !q.TryPush(base + i) {
				}
			}
		}(p * perProducer)
	}

	seen := make(map[int]bool, producers*perProducer)
	buf := make([]int, 64)
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	drain := func() {
		n := q.DrainTo(buf)
		for _, v := range buf[:n] {
			if seen[v] {
				t.Errorf("Duplicate item %d", v)
			}
			seen[v] = true
		}
	}

loop:
	for {
		select {
		case <-done:
			break loop
		default:
			drain()
		}
	}
	for q.Len() > 0 {
		drain()
	}

	if len(seen) != producers*perProducer {
		t.Errorf("Expected %d items, got %d", producers*perProducer, len(seen))
	}
}
