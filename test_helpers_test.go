package boundrand

import (
	"encoding/binary"
	"hash/fnv"
	randv2 "math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// newTestRNG returns a deterministic RNG whose stream depends on the test
// name, so tests are reproducible yet don't share a stream.
func newTestRNG(t testing.TB) *randv2.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return randv2.New(randv2.NewPCG(testSeed1^s1, testSeed2^s2))
}

// stubSource returns a fixed sequence of draws and counts how many were
// consumed. Running past the sequence fails the test: every scenario
// states exactly how many draws it expects.
type stubSource struct {
	t      testing.TB
	values []uint32
	calls  int
}

func newStubSource(t testing.TB, values ...uint32) *stubSource {
	return &stubSource{t: t, values: values}
}

func (s *stubSource) Uint32() uint32 {
	if s.calls >= len(s.values) {
		s.t.Fatalf("stub source exhausted after %d draws", s.calls)
	}
	v := s.values[s.calls]
	s.calls++
	return v
}

// recordingSource forwards draws from an underlying source while keeping
// them in memory, for replay comparisons that don't involve a file.
type recordingSource struct {
	src   Source
	draws []uint32
}

func (s *recordingSource) Uint32() uint32 {
	v := s.src.Uint32()
	s.draws = append(s.draws, v)
	return v
}
