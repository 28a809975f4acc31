// Package pool holds reusable buffers for reading response bodies.
package pool

import (
	"bytes"
	"sync"
)

// Bodies larger than this are not returned to the pool.
const maxPooled = 4 << 20

type bufp struct {
	sync.Pool
}

// Buffer provides bytes.Buffer objects.
var Buffer = bufp{
	Pool: sync.Pool{
		New: func() interface{} {
			return new(bytes.Buffer)
		},
	},
}

// Get returns an empty bytes.Buffer from the pool.
func (b *bufp) Get() *bytes.Buffer {
	buffer := b.Pool.Get().(*bytes.Buffer)
	buffer.Reset()

	return buffer
}

// Put hands the buffer back. Oversized buffers are dropped.
func (b *bufp) Put(buffer *bytes.Buffer) {
	if buffer.Cap() > maxPooled {
		return
	}

	b.Pool.Put(buffer)
}
