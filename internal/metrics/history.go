package metrics

import (
	"sort"
	"sync"
)

// DefaultHistorySize is the default number of data points retained per stream.
const DefaultHistorySize = 60

// History keeps fixed-size sample series for sparkline rendering, one ring
// buffer per named stream ("cpu", "mem", "net.eth0.rx", ...). Streams are
// created on first push, so hot-plugged interfaces and GPUs get series
// without registration.
type History struct {
	mu      sync.RWMutex
	size    int
	streams map[string]*ringBuffer
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewHistory creates a history tracker with the specified buffer size.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:    size,
		streams: make(map[string]*ringBuffer),
	}
}

// Size returns the per-stream capacity.
func (h *History) Size() int {
	return h.size
}

// Push appends a sample to the named stream, creating the stream if needed.
func (h *History) Push(stream string, value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	buf, ok := h.streams[stream]
	if !ok {
		buf = newRingBuffer(h.size)
		h.streams[stream] = buf
	}
	buf.push(value)
}

// Last returns the most recent count values in chronological order, fewer if
// the stream holds less. Unknown streams return nil.
func (h *History) Last(stream string, count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf, ok := h.streams[stream]
	if !ok {
		return nil
	}
	return buf.getLast(count)
}

// All returns every stored value for the stream in chronological order.
func (h *History) All(stream string) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf, ok := h.streams[stream]
	if !ok {
		return nil
	}
	return buf.getLast(buf.count)
}

// Latest returns the newest sample in the stream.
func (h *History) Latest(stream string) (float64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf, ok := h.streams[stream]
	if !ok || buf.count == 0 {
		return 0, false
	}
	vals := buf.getLast(1)
	return vals[0], true
}

// Len returns the number of samples stored for the stream.
func (h *History) Len(stream string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf, ok := h.streams[stream]
	if !ok {
		return 0
	}
	return buf.count
}

// Streams returns all stream names in sorted order.
func (h *History) Streams() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.streams))
	for name := range h.streams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Drop removes one stream, for interfaces or devices that unplugged.
func (h *History) Drop(stream string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.streams, stream)
}

// Clear removes all streams.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.streams = make(map[string]*ringBuffer)
}

// newRingBuffer creates a ring buffer with the specified capacity.
func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

// push adds a value to the ring buffer.
func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}

	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)

	// head points to the next write position, so the most recent value is
	// at head-1; take count values ending there.
	start := (r.head - count + r.size) % r.size

	for i := 0; i < count; i++ {
		idx := (start + i) % r.size
		result[i] = r.data[idx]
	}

	return result
}
