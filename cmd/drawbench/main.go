// Drawbench is a benchmarking and demonstration driver for boundrand. It
// seeds once at startup, draws bounded samples in a loop, and reports
// throughput, redraw rate, and a chi-square uniformity statistic.
//
// Usage:
//
//	go run ./cmd/drawbench -bound 12345 -draws 10000000 -workers 4
//
// Flags:
//
//	-bound     Exclusive upper bound of the sampled range (default: 12345)
//	-draws     Total number of samples to draw (default: 10,000,000)
//	-workers   Number of parallel workers (default: 1)
//	-seed      Run seed; 0 means seed from the wall clock (default: 0)
//	-capture   Path to record the raw draw stream (forces -workers 1)
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spaolacci/murmur3"
	"golang.org/x/sync/errgroup"

	"github.com/tamirms/boundrand"
)

// maxChiCells bounds the histogram allocation. Wider bounds skip the
// chi-square report rather than allocate gigabytes of counters.
const maxChiCells = 1 << 16

// countingSource counts raw draws pulled from the wrapped source, so the
// redraw (rejection) rate can be reported.
type countingSource struct {
	src   boundrand.Source
	draws uint64
}

func (s *countingSource) Uint32() uint32 {
	s.draws++
	return s.src.Uint32()
}

// workerSource derives an independent deterministic source for one worker.
// Murmur3-128 of the worker index, keyed by the run seed, gives each
// worker well-separated PCG state from a single -seed flag.
func workerSource(runSeed uint64, worker int) boundrand.Source {
	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], uint64(worker))
	h1, h2 := murmur3.Sum128WithSeed(idx[:], uint32(runSeed)^uint32(runSeed>>32))
	return boundrand.NewSeededSource(h1, h2)
}

type workerResult struct {
	draws  uint64 // raw draws consumed, including rejected ones
	counts []uint64
}

func main() {
	boundFlag := flag.Uint("bound", 12345, "exclusive upper bound of the sampled range")
	drawsFlag := flag.Uint64("draws", 10_000_000, "total number of samples to draw")
	workersFlag := flag.Int("workers", 1, "number of parallel workers")
	seedFlag := flag.Uint64("seed", 0, "run seed (0 = wall clock)")
	captureFlag := flag.String("capture", "", "path to record the raw draw stream (forces -workers 1)")
	flag.Parse()

	if *boundFlag == 0 || *boundFlag > math.MaxUint32 {
		fmt.Printf("Invalid -bound %d: must be in [1, 2^32)\n", *boundFlag)
		os.Exit(1)
	}
	bound := uint32(*boundFlag)
	totalDraws := *drawsFlag
	workers := *workersFlag

	seed := *seedFlag
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	if *captureFlag != "" && workers != 1 {
		fmt.Println("Capture records a single stream; forcing -workers 1")
		workers = 1
	}
	if workers < 1 {
		workers = 1
	}

	tallying := uint64(bound) <= maxChiCells

	fmt.Printf("Sampling [0, %d) x %d (seed 0x%X, %d workers)...\n", bound, totalDraws, seed, workers)

	var writer *boundrand.CaptureWriter
	if *captureFlag != "" {
		var err error
		writer, err = boundrand.NewCaptureWriter(*captureFlag, bound,
			boundrand.WithSeed(seed),
			boundrand.WithPreallocate(totalDraws))
		if err != nil {
			fmt.Printf("Failed to create capture: %v\n", err)
			os.Exit(1)
		}
	}

	results := make([]workerResult, workers)
	start := time.Now()

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		share := totalDraws / uint64(workers)
		if w == workers-1 {
			share += totalDraws % uint64(workers)
		}
		g.Go(func() error {
			counting := &countingSource{src: workerSource(seed, w)}
			var src boundrand.Source = counting
			if writer != nil {
				src = writer.Tee(counting)
			}
			sampler := boundrand.New(src)

			var counts []uint64
			if tallying {
				counts = make([]uint64, bound)
			}
			for i := uint64(0); i < share; i++ {
				v, err := sampler.Uint32n(bound)
				if err != nil {
					return fmt.Errorf("worker %d: %w", w, err)
				}
				if tallying {
					counts[v]++
				}
			}
			results[w] = workerResult{draws: counting.draws, counts: counts}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Printf("Sampling failed: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	var rawDraws uint64
	for _, r := range results {
		rawDraws += r.draws
	}

	if writer != nil {
		if err := writer.Finish(); err != nil {
			fmt.Printf("Failed to seal capture: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Capture written to %s (%d raw draws)\n", *captureFlag, rawDraws)
	}

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Samples:      %d in %v (%.1f M samples/sec)\n",
		totalDraws, elapsed.Round(time.Millisecond),
		float64(totalDraws)/elapsed.Seconds()/1e6)
	fmt.Printf("Raw draws:    %d (redraw rate %.6f%%)\n",
		rawDraws, 100*float64(rawDraws-totalDraws)/float64(totalDraws))

	if !tallying {
		fmt.Printf("Chi-square:   skipped (bound %d exceeds %d cells)\n", bound, maxChiCells)
		return
	}

	counts := make([]uint64, bound)
	for _, r := range results {
		for i, c := range r.counts {
			counts[i] += c
		}
	}
	expected := float64(totalDraws) / float64(bound)
	if expected < 5 {
		fmt.Printf("Chi-square:   skipped (expected count per cell %.2f < 5; raise -draws)\n", expected)
		return
	}
	var chi2 float64
	for _, c := range counts {
		d := float64(c) - expected
		chi2 += d * d / expected
	}
	// For df degrees of freedom the statistic concentrates around df with
	// standard deviation sqrt(2*df); quote both so the reader can judge.
	df := float64(bound - 1)
	fmt.Printf("Chi-square:   %.1f (df %.0f, expect %.0f +/- %.1f)\n",
		chi2, df, df, 2*math.Sqrt(2*df))
}
