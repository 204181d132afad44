package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeCounter(t *testing.T) {
	t.Run("Basic Operations", func(t *testing.T) {
		sc := NewSafeCounter()
		assert.Equal(t, int64(0), sc.Value())

		assert.Equal(t, int64(1), sc.Increment())
		assert.True(t, sc.Is(1))
		assert.False(t, sc.Is(0))
	})

	t.Run("Concurrency", func(t *testing.T) {
		sc := NewSafeCounter()
		var wg sync.WaitGroup
		iterations := 1000

		wg.Add(iterations)
		for i := 0; i < iterations; i++ {
			go func() {
				defer wg.Done()
				sc.Increment()
			}()
		}
		wg.Wait()
		assert.Equal(t, int64(iterations), sc.Value())
	})
}

func TestSafeFlag(t *testing.T) {
	t.Run("Basic Operations", func(t *testing.T) {
		sf := NewSafeFlag()
		assert.False(t, sf.Value())
		assert.False(t, sf.Consume())

		assert.True(t, sf.Set(true))
		assert.True(t, sf.Consume())
		assert.False(t, sf.Value())
		assert.False(t, sf.Consume())
	})

	t.Run("Consume Wins Once", func(t *testing.T) {
		sf := NewSafeFlag()
		sf.Set(true)

		var wg sync.WaitGroup
		winners := NewSafeCounter()
		iterations := 100

		wg.Add(iterations)
		for i := 0; i < iterations; i++ {
			go func() {
				defer wg.Done()
				if sf.Consume() {
					winners.Increment()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int64(1), winners.Value())
	})
}
