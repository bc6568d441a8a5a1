package usecase_test

import (
	"strconv"
	"strings"
	"sync"
	"testing"

	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestTimestampOrderIDGenerator_Format(t *testing.T) {
	g := usecase.NewTimestampOrderIDGenerator()

	id := g.NewOrderID()
	assert.True(t, strings.HasPrefix(id, "ORD-"), "id=%q", id)

	_, err := strconv.ParseInt(strings.TrimPrefix(id, "ORD-"), 10, 64)
	assert.NoError(t, err)
}

func TestTimestampOrderIDGenerator_StrictlyIncreasing(t *testing.T) {
	g := usecase.NewTimestampOrderIDGenerator()

	var prev int64
	for i := 0; i < 1000; i++ {
		id := g.NewOrderID()
		n, err := strconv.ParseInt(strings.TrimPrefix(id, "ORD-"), 10, 64)
		assert.NoError(t, err)
		assert.Greater(t, n, prev, "i=%d", i)
		prev = n
	}
}

func TestTimestampOrderIDGenerator_UniqueUnderConcurrency(t *testing.T) {
	g := usecase.NewTimestampOrderIDGenerator()

	const workers = 10
	const perWorker = 100

	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id := g.NewOrderID()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
