package handle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAtomicCellHandoff is scenario S6 from spec.md §8.
func TestAtomicCellHandoff(t *testing.T) {
	var cell Cell
	ctx := context.Background()

	x := New(widget{id: 99})
	done := make(chan struct{})

	go func() {
		old, err := cell.Store(ctx, x) // cell started empty, so old is nil
		require.NoError(t, err)
		assert.True(t, old.Nil())
		close(done)
	}()
	<-done

	var expected Handle
	for {
		ok, err := cell.CompareExchangeStrong(ctx, &expected, Handle{})
		require.NoError(t, err)
		if ok {
			t.Fatal("unexpected match against an empty expected handle")
		}
		if !expected.Nil() {
			break
		}
	}
	defer expected.Close()

	assert.Equal(t, 99, Unchecked[widget](expected).id)

	final, err := cell.Load(ctx)
	require.NoError(t, err)
	defer final.Close()
	assert.Equal(t, 99, Unchecked[widget](final).id)
	assert.True(t, final.Equal(expected))
}

// TestAtomicCellMutualExclusion is testable property 8: at most one
// goroutine observes itself between Lock's return and the next Unlock.
func TestAtomicCellMutualExclusion(t *testing.T) {
	var cell Cell
	var active int32
	var mu sync.Mutex
	var violations int

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx := context.Background()
			for j := 0; j < 50; j++ {
				require.NoError(t, cell.Lock(ctx))
				mu.Lock()
				active++
				if active > 1 {
					violations++
				}
				mu.Unlock()

				mu.Lock()
				active--
				mu.Unlock()
				cell.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, violations)
}

// TestAtomicCellCondition is scenario S7 from spec.md §8.
func TestAtomicCellCondition(t *testing.T) {
	var cell Cell
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	shutdown := false
	var mu sync.Mutex

	waiterLocked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		require.NoError(t, cell.Lock(ctx))
		close(waiterLocked)
		err := cell.Wait(ctx, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return shutdown
		})
		require.NoError(t, err)
		cell.Unlock()
		close(done)
	}()

	<-waiterLocked
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, cell.Lock(ctx))
	mu.Lock()
	shutdown = true
	mu.Unlock()
	cell.NotifyOne()
	cell.Unlock()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter did not wake")
	}
}
