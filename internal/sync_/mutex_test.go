package sync_

import (
	"sync"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

// Verify that intended interfaces are implemented
var _ RMutexer[int] = NewMutexed(123)
var _ Mutexer[int] = NewMutexed(123)
var _ RMutexer[int] = NewRWMutexed(123)
var _ Mutexer[int] = NewRWMutexed(123)
var _ RMutexer[int] = NewRWMutexed(123).RMutexer()

func TestSimple(t *testing.T) {
	assert := assert_.New(t)
	rw := NewRWMutexed(123)
	r := rw.RMutexer()
	assert.Equal(123, rw.Get())
	assert.Equal(123, r.Get())
	assert.Equal(123, rw.Swap(456))
	assert.Equal(456, r.Get())
}

func TestRace(t *testing.T) {
	assert := assert_.New(t)
	rw := NewRWMutexed(0)
	start := NewEvent()
	wg := sync.WaitGroup{}

	// Increment by 2500 with 50 goroutines in parallel
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start.Wait()
			for j := 0; j < 50; j++ {
				_ = rw.Locked(func(v *int) error {
					*v = *v + 1
					return nil
				})
			}
		}()
	}

	// Read 2500 times with another 50 goroutines in parallel
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := rw.RMutexer()
			<-start.Wait()
			for j := 0; j < 50; j++ {
				_ = r.Get()
			}
		}()
	}

	start.Set()
	wg.Wait()

	assert.Equal(2500, rw.Get())
}

func TestLockedPointer(t *testing.T) {
	assert := assert_.New(t)
	m := NewMutexed(map[string]int{})
	_ = m.Locked(func(v *map[string]int) error {
		(*v)["a"] = 1
		return nil
	})
	assert.Equal(1, m.Get()["a"])

	// Replacing the value through the pointer is visible to later readers
	rw := NewRWMutexed([]int{1})
	_ = rw.Locked(func(v *[]int) error {
		*v = []int{2, 3}
		return nil
	})
	var n int
	_ = rw.RLocked(func(v *[]int) error {
		n = len(*v)
		return nil
	})
	assert.Equal(2, n)
}

func TestKeyedMutex(t *testing.T) {
	assert := assert_.New(t)
	k := NewKeyedMutex[string]()
	counts := map[string]int{}
	var countsMu sync.Mutex
	inside := NewMutexed(map[string]int{})
	wg := sync.WaitGroup{}

	for i := 0; i < 20; i++ {
		for _, key := range []string{"a", "b"} {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				unlock := k.Lock(key)
				defer unlock()
				_ = inside.Locked(func(v *map[string]int) error {
					(*v)[key]++
					assert.Equal(1, (*v)[key], "only one holder per key")
					return nil
				})
				countsMu.Lock()
				counts[key]++
				countsMu.Unlock()
				_ = inside.Locked(func(v *map[string]int) error {
					(*v)[key]--
					return nil
				})
			}(key)
		}
	}
	wg.Wait()

	assert.Equal(20, counts["a"])
	assert.Equal(20, counts["b"])
	assert.Equal(0, k.Len())
}
