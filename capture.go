package boundrand

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"

	brerrors "github.com/tamirms/boundrand/errors"
)

// CaptureOption is a functional option for configuring capture writers.
type CaptureOption func(*captureConfig)

type captureConfig struct {
	seed        uint64
	preallocate uint64 // expected draw count for disk preallocation
}

// WithSeed records the run seed in the capture header. The seed is
// informational: it lets a reader re-derive the source that produced the
// recorded stream, but the capture itself carries the draws.
func WithSeed(seed uint64) CaptureOption {
	return func(c *captureConfig) {
		c.seed = seed
	}
}

// WithPreallocate reserves disk space for the expected number of draws up
// front, preventing SIGBUS/short-write surprises on disk full. Recording
// more or fewer draws than the hint is fine; Finish truncates the file to
// its exact final size.
func WithPreallocate(draws uint64) CaptureOption {
	return func(c *captureConfig) {
		c.preallocate = draws
	}
}

// CaptureWriter records the raw draw stream of a sampler run to a file.
//
// Draws are buffered and hashed as they are appended; Finish seals the
// file with the final count and an xxHash64 of the sample region. Write
// errors are sticky: Append keeps accepting draws after a failed write
// and the first error surfaces from Finish.
//
// Not safe for concurrent use.
type CaptureWriter struct {
	file   *os.File
	buf    *bufio.Writer
	hasher *xxhash.Digest

	bound uint32
	seed  uint64
	count uint64

	err    error // first write error, reported by Finish
	closed bool
}

// NewCaptureWriter creates a capture file at path for a run with the
// given exclusive upper bound. It returns ErrInvalidRange if bound is 0.
func NewCaptureWriter(path string, bound uint32, opts ...CaptureOption) (*CaptureWriter, error) {
	if bound == 0 {
		return nil, brerrors.ErrInvalidRange
	}

	cfg := &captureConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create capture file: %w", err)
	}

	if cfg.preallocate > 0 {
		size := int64(minFileSize) + int64(cfg.preallocate)*sampleSize
		if err := fallocateFile(file, size); err != nil {
			primaryErr := fmt.Errorf("preallocate capture file: %w", err)
			return nil, errors.Join(primaryErr, file.Close())
		}
	}

	w := &CaptureWriter{
		file:   file,
		buf:    bufio.NewWriter(file),
		hasher: xxhash.New(),
		bound:  bound,
		seed:   cfg.seed,
	}

	// Placeholder header; rewritten with the final count in Finish.
	var hdr [headerSize]byte
	if _, err := w.buf.Write(hdr[:]); err != nil {
		primaryErr := fmt.Errorf("write capture header: %w", err)
		return nil, errors.Join(primaryErr, file.Close())
	}
	return w, nil
}

// Append records one raw 32-bit draw. It returns ErrCaptureClosed after
// Finish; I/O failures are deferred to Finish.
func (w *CaptureWriter) Append(draw uint32) error {
	if w.closed {
		return brerrors.ErrCaptureClosed
	}

	var b [sampleSize]byte
	binary.LittleEndian.PutUint32(b[:], draw)
	// Hash while the bytes are hot; the digest never errors.
	_, _ = w.hasher.Write(b[:])
	if _, err := w.buf.Write(b[:]); err != nil && w.err == nil {
		w.err = fmt.Errorf("write capture sample: %w", err)
	}
	w.count++
	return nil
}

// Count reports the number of draws recorded so far.
func (w *CaptureWriter) Count() uint64 {
	return w.count
}

// Finish seals the capture: flushes buffered draws, writes the footer,
// rewrites the header with the final count, truncates any preallocated
// tail, and closes the file. The writer is unusable afterwards.
func (w *CaptureWriter) Finish() error {
	if w.closed {
		return brerrors.ErrCaptureClosed
	}
	w.closed = true

	err := w.err
	if flushErr := w.buf.Flush(); flushErr != nil && err == nil {
		err = fmt.Errorf("flush capture samples: %w", flushErr)
	}
	if err != nil {
		return errors.Join(err, w.file.Close())
	}

	var ftr footer
	ftr.SampleRegionHash = w.hasher.Sum64()
	var ftrBuf [footerSize]byte
	ftr.encodeTo(ftrBuf[:])

	finalSize := int64(headerSize) + int64(w.count)*sampleSize + footerSize
	if _, err := w.file.WriteAt(ftrBuf[:], finalSize-footerSize); err != nil {
		primaryErr := fmt.Errorf("write capture footer: %w", err)
		return errors.Join(primaryErr, w.file.Close())
	}

	hdr := header{
		Magic:   magic,
		Version: version,
		Bound:   w.bound,
		Count:   w.count,
		Seed:    w.seed,
	}
	var hdrBuf [headerSize]byte
	hdr.encodeTo(hdrBuf[:])
	if _, err := w.file.WriteAt(hdrBuf[:], 0); err != nil {
		primaryErr := fmt.Errorf("write capture header: %w", err)
		return errors.Join(primaryErr, w.file.Close())
	}

	// Drop any preallocated tail beyond the footer.
	if err := w.file.Truncate(finalSize); err != nil {
		primaryErr := fmt.Errorf("truncate capture file: %w", err)
		return errors.Join(primaryErr, w.file.Close())
	}
	if err := w.file.Sync(); err != nil {
		primaryErr := fmt.Errorf("sync capture file: %w", err)
		return errors.Join(primaryErr, w.file.Close())
	}
	return w.file.Close()
}

// teeSource forwards draws from an underlying source while recording each
// one in a capture writer.
type teeSource struct {
	src Source
	w   *CaptureWriter
}

// Tee wraps src so that every draw pulled through the returned Source is
// also recorded in the capture. Feed the returned Source to a Sampler to
// capture a run transparently. The tee is no safer for concurrent use
// than the writer.
func (w *CaptureWriter) Tee(src Source) Source {
	return &teeSource{src: src, w: w}
}

func (t *teeSource) Uint32() uint32 {
	v := t.src.Uint32()
	// Append only fails once the writer is finished; a draw pulled after
	// that is a caller bug but must not corrupt the stream consumer.
	_ = t.w.Append(v)
	return v
}
