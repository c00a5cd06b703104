package hal

import (
	"bytes"
	"sync"
)

// DefaultRingSize is the capacity used by NewRing when size is not positive.
const DefaultRingSize = 256

// Ring is a fixed capacity byte FIFO implementing ByteSource.
// One goroutine may Write while the control loop reads.
type Ring struct {
	buf  []byte
	head int
	size int
	lock sync.Mutex
}

// NewRing creates a Ring with the capacity.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &Ring{buf: make([]byte, capacity)}
}

// Write appends bytes. Bytes which don't fit are dropped.
// It returns the number of bytes kept.
func (r *Ring) Write(p []byte) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	n := 0
	for _, b := range p {
		if r.size >= len(r.buf) {
			break
		}
		r.buf[(r.head+r.size)%len(r.buf)] = b
		r.size++
		n++
	}
	return n
}

// WriteLine appends a message as one line, terminating it if needed.
// The message is dropped entirely when it doesn't fit, so a partial
// line never reaches the reader.
func (r *Ring) WriteLine(p []byte) bool {
	p = bytes.TrimRight(p, "\r\n")
	r.lock.Lock()
	defer r.lock.Unlock()
	if len(p)+1 > len(r.buf)-r.size {
		return false
	}
	for _, b := range p {
		r.buf[(r.head+r.size)%len(r.buf)] = b
		r.size++
	}
	r.buf[(r.head+r.size)%len(r.buf)] = '\n'
	r.size++
	return true
}

// WriteString is Write for strings.
func (r *Ring) WriteString(s string) int {
	return r.Write([]byte(s))
}

// Available implements ByteSource.
func (r *Ring) Available() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.size
}

// Peek implements ByteSource.
func (r *Ring) Peek() byte {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.size == 0 {
		return 0
	}
	return r.buf[r.head]
}

// Read implements ByteSource.
func (r *Ring) Read() byte {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.size == 0 {
		return 0
	}
	b := r.buf[r.head]
	r.head = (r.head + 1) % len(r.buf)
	r.size--
	return b
}
