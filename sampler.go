package boundrand

import (
	brerrors "github.com/tamirms/boundrand/errors"
	intbits "github.com/tamirms/boundrand/internal/bits"
)

// Sampler draws unbiased bounded integers from a Source using Lemire's
// multiply-shift method with rejection sampling.
//
// A Sampler holds no mutable state of its own. It is safe for concurrent
// use if and only if its Source is safe for concurrent use; each draw is
// an independent, order-insensitive call on the Source.
type Sampler struct {
	src Source
}

// New returns a Sampler that draws from src. The source must already be
// seeded; seeding policy is the caller's concern.
func New(src Source) *Sampler {
	return &Sampler{src: src}
}

// Uint32n returns a uniformly distributed integer in [0, bound).
// It returns ErrInvalidRange if bound is 0, without consuming a draw.
//
// The result is exactly uniform, not approximately: of the 2^32 possible
// source values, each output in [0, bound) is produced by exactly
// floor(2^32/bound) accepted inputs. Multiplying the draw by the bound
// partitions [0, bound*2^32) into bound blocks of size 2^32; the low half
// of the product says where inside its block the draw landed. Draws that
// land in the first 2^32 mod bound positions of a block are discarded and
// redrawn, so every block contributes the same number of accepted draws.
//
// Rejection redraws the full 32-bit value rather than correcting the
// rejected one. Expected draws per call are below 2 for every bound; the
// loop has no retry cap, since any cap would distort the distribution.
func (s *Sampler) Uint32n(bound uint32) (uint32, error) {
	if bound == 0 {
		return 0, brerrors.ErrInvalidRange
	}

	n := s.src.Uint32()
	quotient, remainder := intbits.Split32(n, bound)

	// remainder >= bound implies remainder >= 2^32 mod bound, so the draw
	// cannot be in the rejected band. Accept without computing the
	// threshold; for bounds small relative to 2^32 nearly every draw
	// takes this path.
	if remainder >= bound {
		return quotient, nil
	}

	threshold := intbits.Threshold32(bound)
	for remainder < threshold {
		n = s.src.Uint32()
		quotient, remainder = intbits.Split32(n, bound)
	}
	return quotient, nil
}
