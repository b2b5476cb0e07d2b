package execution

import (
	"bytes"
	"io"
	"sync"
)

// captureBuffer accumulates the combined output stream. Stdout and
// stderr copiers write concurrently, so writes are serialized.
type captureBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func newCaptureBuffer() *captureBuffer {
	return &captureBuffer{}
}

func (c *captureBuffer) Write(p []byte) (int, error) {
	c.mu.Lock()
	n, err := c.buf.Write(p)
	c.mu.Unlock()
	return n, err
}

func (c *captureBuffer) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// outputWriter combines the capture buffer with an optional live
// writer, skipping nil entries.
func outputWriter(live io.Writer, capture *captureBuffer) io.Writer {
	if live == nil {
		return capture
	}
	return io.MultiWriter(capture, live)
}
