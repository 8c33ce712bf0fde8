package buffer

import (
	"sync"
)

// DefaultSize matches the default sum chunk.
const DefaultSize = 64 * 1024

var pool = sync.Pool{
	New: func() any {
		b := make([]byte, DefaultSize)
		return &b
	},
}

// Get returns a pooled buffer of length n.
func Get(n int) *[]byte {
	bp := pool.Get().(*[]byte)
	if cap(*bp) < n {
		*bp = make([]byte, n)
	}
	*bp = (*bp)[:n]
	return bp
}

func Put(bp *[]byte) {
	if bp == nil {
		return
	}
	pool.Put(bp)
}
