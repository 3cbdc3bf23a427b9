package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultChunkSize is the number of bytes read per chunk (5 MiB)
const DefaultChunkSize = 5 * 1024 * 1024

// ErrFileNotFound is returned by Open when the path does not name a readable regular file
var ErrFileNotFound = errors.New("file not found")

// ProgressFunc is called after every chunk with the bytes produced so far
// and the expected total
type ProgressFunc func(sent, total int64)

// Chunks is a lazy, forward-only sequence of file chunks.
// It reads at most one chunk ahead of the consumer and cannot be restarted.
// The underlying reader is closed once the sequence is exhausted or fails.
type Chunks struct {
	src        io.Reader
	closer     io.Closer
	buf        []byte
	total      int64
	sent       int64
	onProgress ProgressFunc
	err        error
}

// Open starts a chunk sequence over the file at path
func Open(path string, chunkSize int, onProgress ProgressFunc) (*Chunks, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrFileNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, err)
	}

	chunks := NewChunks(f, info.Size(), chunkSize, onProgress)
	chunks.closer = f
	return chunks, nil
}

// NewChunks wraps r as a chunk sequence. total is only used for progress.
func NewChunks(r io.Reader, total int64, chunkSize int, onProgress ProgressFunc) *Chunks {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Chunks{
		src:        r,
		buf:        make([]byte, chunkSize),
		total:      total,
		onProgress: onProgress,
	}
}

// Next returns the next chunk, or io.EOF once the source is drained.
// The returned slice is only valid until the following call to Next.
func (c *Chunks) Next() ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}

	n, err := io.ReadFull(c.src, c.buf)
	switch {
	case err == nil, errors.Is(err, io.ErrUnexpectedEOF):
		// full chunk, or the short last one
	case errors.Is(err, io.EOF):
		c.finish(io.EOF)
		return nil, io.EOF
	default:
		c.finish(fmt.Errorf("failed to read chunk: %w", err))
		return nil, c.err
	}

	c.sent += int64(n)
	if c.onProgress != nil {
		c.onProgress(c.sent, c.total)
	}
	return c.buf[:n], nil
}

// Sent returns the number of bytes produced so far
func (c *Chunks) Sent() int64 {
	return c.sent
}

// Total returns the expected size of the source
func (c *Chunks) Total() int64 {
	return c.total
}

// Close releases the source early. It is safe to call more than once.
func (c *Chunks) Close() error {
	if c.err == nil {
		c.err = errors.New("chunk sequence closed")
	}
	return c.release()
}

func (c *Chunks) finish(err error) {
	c.err = err
	_ = c.release()
}

func (c *Chunks) release() error {
	if c.closer == nil {
		return nil
	}
	closer := c.closer
	c.closer = nil
	return closer.Close()
}

// Reader adapts the sequence to an io.Reader that pulls a new chunk only
// when the previous one has been fully consumed
func (c *Chunks) Reader() io.Reader {
	return &chunkReader{chunks: c}
}

type chunkReader struct {
	chunks  *Chunks
	pending []byte
}

func (r *chunkReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		chunk, err := r.chunks.Next()
		if err != nil {
			return 0, err
		}
		r.pending = chunk
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}
