package boundrand

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"

	brerrors "github.com/tamirms/boundrand/errors"
	intbits "github.com/tamirms/boundrand/internal/bits"
)

// Capture is a read-only view of a sealed capture file.
//
// Thread Safety:
// - At, Samples, Replay, Histogram and the accessors are safe for concurrent use
// - Close is NOT safe to call concurrently with reads
// - After Close returns, no methods may be called on the Capture
type Capture struct {
	// Memory map (no file handle needed after mmap)
	mmap mmap.MMap
	data []byte

	header *header

	closed atomic.Bool // Atomic for lock-free close check
}

// OpenCapture opens a capture file for reading.
// It opens the file, memory-maps it, verifies the checksum, and closes
// the file descriptor.
func OpenCapture(path string) (*Capture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture file: %w", err)
	}
	defer file.Close()
	return OpenCaptureFile(file)
}

// OpenCaptureFile opens a capture by memory-mapping the given file.
// The caller is responsible for closing f. Per POSIX mmap(2), f may be
// closed immediately after OpenCaptureFile returns.
func OpenCaptureFile(f *os.File) (*Capture, error) {
	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat capture file: %w", err)
	}
	if stat.Size() < int64(minFileSize) {
		return nil, brerrors.ErrTruncatedFile
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap capture file: %w", err)
	}

	// The checksum scan below walks the whole sample region once.
	fadviseSequential(int(f.Fd()), 0, stat.Size())

	c := &Capture{
		mmap: mm,
		data: []byte(mm),
	}
	if err := c.initFromData(); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	return c, nil
}

// OpenCaptureBytes creates a Capture from an in-memory byte slice.
// No file is opened or memory-mapped; Close is a no-op.
// The caller must ensure data is not modified while the Capture is in use.
func OpenCaptureBytes(data []byte) (*Capture, error) {
	if len(data) < minFileSize {
		return nil, brerrors.ErrTruncatedFile
	}
	c := &Capture{data: data}
	if err := c.initFromData(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Capture) initFromData() error {
	hdr, err := decodeHeader(c.data[:headerSize])
	if err != nil {
		return err
	}

	// Guard the multiplication below against a corrupted count wrapping
	// uint64 and sneaking past the size check.
	if hdr.Count > (uint64(len(c.data))-minFileSize)/sampleSize {
		return brerrors.ErrTruncatedFile
	}
	sampleBytes := hdr.Count * sampleSize
	expectedSize := uint64(headerSize) + sampleBytes + footerSize

	region := c.data[headerSize : headerSize+sampleBytes]
	ftr, err := decodeFooter(c.data[headerSize+sampleBytes : expectedSize])
	if err != nil {
		return err
	}
	if xxhash.Sum64(region) != ftr.SampleRegionHash {
		return brerrors.ErrChecksumFailed
	}

	c.header = hdr
	return nil
}

// Count returns the number of recorded draws.
func (c *Capture) Count() uint64 { return c.header.Count }

// Bound returns the exclusive upper bound the recorded run sampled for.
func (c *Capture) Bound() uint32 { return c.header.Bound }

// Seed returns the run seed recorded at capture time (0 if unset).
func (c *Capture) Seed() uint64 { return c.header.Seed }

// At returns the i-th recorded draw. It panics if i >= Count, matching
// slice indexing semantics.
func (c *Capture) At(i uint64) uint32 {
	if i >= c.header.Count {
		panic(fmt.Sprintf("boundrand: capture index %d out of range [0, %d)", i, c.header.Count))
	}
	off := headerSize + i*sampleSize
	return binary.LittleEndian.Uint32(c.data[off : off+sampleSize])
}

// Samples returns a copy of all recorded draws. The copy keeps the slice
// valid after Close.
func (c *Capture) Samples() []uint32 {
	out := make([]uint32, c.header.Count)
	for i := range out {
		out[i] = c.At(uint64(i))
	}
	return out
}

// Replay returns a ReplaySource over the recorded draws. Feeding it to a
// Sampler with Bound() reproduces the original run's outputs exactly.
// The source remains valid after Close.
func (c *Capture) Replay() *ReplaySource {
	return NewReplaySource(c.Samples())
}

// Histogram re-derives the run's outputs from the recorded draws and
// tallies them per output value. Rejected draws contribute nothing, so
// the tallies sum to the number of accepted draws, which can be less
// than Count.
//
// The result has Bound() cells; callers with very large bounds should
// weigh the allocation before calling.
func (c *Capture) Histogram() []uint64 {
	bound := c.header.Bound
	threshold := intbits.Threshold32(bound)
	counts := make([]uint64, bound)
	for i := uint64(0); i < c.header.Count; i++ {
		quotient, remainder := intbits.Split32(c.At(i), bound)
		// threshold < bound, so this single check covers the sampler's
		// fast path and slow path alike.
		if remainder >= threshold {
			counts[quotient]++
		}
	}
	return counts
}

// Size returns the capture file size in bytes.
func (c *Capture) Size() int64 {
	return int64(len(c.data))
}

// Close unmaps the capture. Safe to call multiple times.
func (c *Capture) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.data = nil
	if c.mmap != nil {
		return c.mmap.Unmap()
	}
	return nil
}
