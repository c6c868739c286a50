// Package boundrand generates unbiased integers uniformly distributed over
// [0, bound) from a source of uniform 32-bit integers, using Lemire's
// multiply-shift method with rejection sampling.
//
// The naive bound reduction (draw mod bound) is biased whenever 2^32 is
// not an exact multiple of the bound. This package avoids that bias
// exactly, not approximately, and takes at most one division per call on
// the slow path; most calls take none.
//
// # Basic Usage
//
// Sampling with a deterministic seeded source:
//
//	sampler := boundrand.New(boundrand.NewSeeded([]byte("run-42")))
//	v, err := sampler.Uint32n(6)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("die roll: %d\n", v+1)
//
// Sampling from the system CSPRNG:
//
//	sampler := boundrand.New(&boundrand.CryptoSource{})
//	v, _ := sampler.Uint32n(52)
//
// Recording a run so it can be audited or replayed:
//
//	w, err := boundrand.NewCaptureWriter("run.cap", 52, boundrand.WithSeed(42))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sampler := boundrand.New(w.Tee(boundrand.NewSeededSource(42, 0)))
//	for i := 0; i < 1_000_000; i++ {
//	    v, _ := sampler.Uint32n(52)
//	    use(v)
//	}
//	if err := w.Finish(); err != nil {
//	    log.Fatal(err)
//	}
//
//	c, err := boundrand.OpenCapture("run.cap")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//	replayed := boundrand.New(c.Replay())
//
// # Package Structure
//
// The implementation is organized as follows:
//
//   - Core sampling: sampler.go (Sampler, Uint32n)
//   - Sources: source.go (Source, CryptoSource, SeededSource, ReplaySource)
//   - Capture files: capture.go (CaptureWriter, Tee), replay.go (Capture),
//     header.go (header, footer)
//   - Arithmetic: internal/bits (Split32, Threshold32)
//   - Platform: fallocate_*.go, fadvise_*.go (OS-specific file handling)
package boundrand
