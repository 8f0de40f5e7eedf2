package csync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapBasics(t *testing.T) {
	m := NewMap[string, int]()
	m.Set("b", 2)
	m.Set("a", 1)

	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.True(t, m.Has("b"))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"a", "b"}, SortedKeys(m))
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, m.ToMap())

	m.Delete("a")
	assert.False(t, m.Has("a"))

	m.Clear()
	assert.Equal(t, 0, m.Len())
}

func TestGetOrCreateRunsOnce(t *testing.T) {
	m := NewMap[string, *sync.Mutex]()
	calls := 0
	var mu sync.Mutex

	var wg sync.WaitGroup
	results := make([]*sync.Mutex, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = m.GetOrCreate("doc", func() *sync.Mutex {
				mu.Lock()
				calls++
				mu.Unlock()
				return &sync.Mutex{}
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}
