package boundrand

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	randv2 "math/rand/v2"

	"github.com/zeebo/xxh3"

	brerrors "github.com/tamirms/boundrand/errors"
)

// Source supplies independent uniform 32-bit integers on demand.
//
// Implementations must return values uniformly distributed over the full
// 32-bit range. The interface has no error channel: a source that cannot
// produce randomness has no meaningful recovery and should panic.
// Thread-safety is the implementation's concern; Sampler adds none.
type Source interface {
	Uint32() uint32
}

// CryptoSource draws from crypto/rand. It reads four bytes per call and
// panics if the system CSPRNG fails, which on any supported platform
// indicates a broken environment rather than a recoverable condition.
//
// The zero value is ready to use. Not safe for concurrent use (the read
// buffer is shared across calls); give each goroutine its own value.
type CryptoSource struct {
	buf [4]byte
}

// Uint32 returns a uniform random uint32.
func (s *CryptoSource) Uint32() uint32 {
	if _, err := rand.Read(s.buf[:]); err != nil {
		panic(fmt.Errorf("boundrand: read of system CSPRNG errored: %w", err))
	}
	return binary.LittleEndian.Uint32(s.buf[:])
}

// SeededSource is a deterministic source backed by a PCG generator.
// Two SeededSources built from the same seed produce identical streams.
// Not safe for concurrent use.
type SeededSource struct {
	rng *randv2.Rand
}

// NewSeededSource returns a SeededSource with the given 128-bit PCG state.
func NewSeededSource(seed1, seed2 uint64) *SeededSource {
	return &SeededSource{rng: randv2.New(randv2.NewPCG(seed1, seed2))}
}

// NewSeeded derives a SeededSource from arbitrary seed bytes.
//
// The bytes are uniformized through xxHash3-128 before becoming PCG
// state, so low-entropy-looking seeds (short strings, sequential
// counters, timestamps) still spread across the full state space. Equal
// seed bytes always yield the same stream.
func NewSeeded(seed []byte) *SeededSource {
	h := xxh3.Hash128(seed)
	return NewSeededSource(h.Lo, h.Hi)
}

// Uint32 returns the next uint32 in the deterministic stream.
func (s *SeededSource) Uint32() uint32 {
	return s.rng.Uint32()
}

// ReplaySource replays a recorded draw stream in order. It exists to
// reproduce a sampler run bit-for-bit from a capture file or a recorded
// slice. Uint32 panics with ErrReplayExhausted once the recording runs
// out, since returning a fabricated value would silently break the
// reproduction. Not safe for concurrent use.
type ReplaySource struct {
	samples []uint32
	pos     int
}

// NewReplaySource returns a ReplaySource over samples. The slice is not
// copied; the caller must not modify it while the source is in use.
func NewReplaySource(samples []uint32) *ReplaySource {
	return &ReplaySource{samples: samples}
}

// Uint32 returns the next recorded value.
func (s *ReplaySource) Uint32() uint32 {
	if s.pos >= len(s.samples) {
		panic(brerrors.ErrReplayExhausted)
	}
	v := s.samples[s.pos]
	s.pos++
	return v
}

// Remaining reports how many recorded values have not been replayed yet.
func (s *ReplaySource) Remaining() int {
	return len(s.samples) - s.pos
}
