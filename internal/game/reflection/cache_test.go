package reflection

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexCache_ErrorsOnlyOnMiss(t *testing.T) {
	c := NewIndexCache(2)
	notes := "<SKILL REFLECT 1: bad%>"

	_, errs := c.Get(notes)
	require.Len(t, errs, 1)

	_, errs = c.Get(notes)
	assert.Empty(t, errs)
	assert.Equal(t, 1, c.Len())
}

func TestIndexCache_Eviction(t *testing.T) {
	c := NewIndexCache(2)

	first, _ := c.Get("<SKILL REFLECT 1: 10%>")
	c.Get("<SKILL REFLECT 2: 10%>")
	c.Get("<SKILL REFLECT 3: 10%>")
	assert.Equal(t, 2, c.Len())

	// first entry was evicted and is parsed again
	again, _ := c.Get("<SKILL REFLECT 1: 10%>")
	assert.NotSame(t, first, again)
	assert.InDelta(t, 0.1, again.Rate(CategorySkill, 1), 1e-9)
}

func TestIndexCache_DefaultSize(t *testing.T) {
	c := NewIndexCache(0)
	assert.Equal(t, DefaultCacheSize, c.max)
}

func TestIndexCache_Concurrent(t *testing.T) {
	c := NewIndexCache(8)

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			notes := fmt.Sprintf("<ITEM REFLECT %d: +5%%>", i%4)
			idx, _ := c.Get(notes)
			assert.InDelta(t, 0.05, idx.Rate(CategoryItem, i%4), 1e-9)
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, c.Len())
}
