package metrics

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryPushAndLast(t *testing.T) {
	h := NewHistory(5)

	h.Push("cpu", 10)
	h.Push("cpu", 20)
	h.Push("cpu", 30)

	assert.Equal(t, 3, h.Len("cpu"))
	assert.Equal(t, []float64{10, 20, 30}, h.Last("cpu", 10))
	assert.Equal(t, []float64{20, 30}, h.Last("cpu", 2))
}

func TestHistoryOverflowKeepsNewest(t *testing.T) {
	size := 5
	h := NewHistory(size)

	// Push size+3 values, the oldest three fall off
	for i := 1; i <= size+3; i++ {
		h.Push("cpu", float64(i))
	}

	assert.Equal(t, size, h.Len("cpu"))
	assert.Equal(t, []float64{4, 5, 6, 7, 8}, h.Last("cpu", size))
	assert.Equal(t, []float64{8}, h.Last("cpu", 1))
}

func TestHistoryLatest(t *testing.T) {
	h := NewHistory(3)

	_, ok := h.Latest("cpu")
	assert.False(t, ok)

	h.Push("cpu", 42)
	v, ok := h.Latest("cpu")
	require.True(t, ok)
	assert.Equal(t, 42.0, v)

	h.Push("cpu", 43)
	v, _ = h.Latest("cpu")
	assert.Equal(t, 43.0, v)
}

func TestHistoryUnknownStream(t *testing.T) {
	h := NewHistory(3)

	assert.Nil(t, h.Last("nope", 5))
	assert.Nil(t, h.All("nope"))
	assert.Equal(t, 0, h.Len("nope"))
}

func TestHistoryStreamsSorted(t *testing.T) {
	h := NewHistory(3)
	h.Push("net.eth0.rx", 1)
	h.Push("cpu", 1)
	h.Push("mem", 1)

	assert.Equal(t, []string{"cpu", "mem", "net.eth0.rx"}, h.Streams())
}

func TestHistoryDrop(t *testing.T) {
	h := NewHistory(3)
	h.Push("gpu0", 50)
	require.Equal(t, 1, h.Len("gpu0"))

	h.Drop("gpu0")
	assert.Equal(t, 0, h.Len("gpu0"))
	assert.Empty(t, h.Streams())
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(3)
	h.Push("cpu", 1)
	h.Push("mem", 2)

	h.Clear()
	assert.Empty(t, h.Streams())
	assert.Equal(t, 0, h.Len("cpu"))
}

func TestHistoryZeroSizeUsesDefault(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, DefaultHistorySize, h.Size())
}

func TestHistoryConcurrentPush(t *testing.T) {
	h := NewHistory(100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stream := fmt.Sprintf("s%d", i%3)
			for j := 0; j < 50; j++ {
				h.Push(stream, float64(j))
				h.Last(stream, 10)
			}
		}(i)
	}
	wg.Wait()

	total := 0
	for _, s := range h.Streams() {
		total += h.Len(s)
	}
	assert.Equal(t, 300, total)
}
