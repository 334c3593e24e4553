package healthcheck

import (
	"bufio"
	"encoding/binary"
	"io"
	"sync"
)

// SyncWriter is the sync channel the monitor reports status transitions
// over — an external collaborator (typically the far end of an already-open
// pipe or socket fd) that this package only ever writes framed records to,
// never reads from.
type SyncWriter interface {
	WriteFramed(tag byte, payload []byte) error
}

// FramedWriter is the reference SyncWriter: each frame is a 1-byte tag,
// a 4-byte big-endian length prefix, then the payload. It's safe for
// concurrent use by multiple Reporters sharing one underlying channel.
type FramedWriter struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewFramedWriter wraps w (typically an *os.File opened on the sync fd).
func NewFramedWriter(w io.Writer) *FramedWriter {
	return &FramedWriter{w: bufio.NewWriter(w)}
}

// WriteFramed writes one frame and flushes it immediately: the sync channel
// is a control channel, not a bulk data pipe, so buffering across calls
// would only delay delivery for no benefit.
func (f *FramedWriter) WriteFramed(tag byte, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var header [5]byte
	header[0] = tag
	binary.BigEndian.PutUint32(header[1:], uint32(len(payload)))

	if _, err := f.w.Write(header[:]); err != nil {
		return err
	}
	if _, err := f.w.Write(payload); err != nil {
		return err
	}
	return f.w.Flush()
}
