package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/chromatch/chromatch"
	"github.com/chromatch/chromatch/metric"
	"github.com/chromatch/chromatch/persistence"
	"github.com/chromatch/chromatch/testutil"
)

func main() {
	seed := int64(4711)
	size := 64
	width, height := 120, 120

	ctx := context.Background()
	rng := testutil.NewRNG(seed)

	c, err := chromatch.New(
		chromatch.WithBins(16, 16, 16),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("--- Train ---")
	fmt.Println("Models:", size)
	fmt.Printf("Frame: %dx%d\n", width, height)

	start := time.Now()

	for i := 0; i < size; i++ {
		frame := rng.NoiseFrame(width, height)
		if err := c.AddModel(ctx, frame, fmt.Sprintf("model-%02d", i)); err != nil {
			log.Fatal(err)
		}
	}

	fmt.Printf("Seconds: %.4f\n\n", time.Since(start).Seconds())

	// Probe with a fresh frame from the same generator state family.
	query := rng.NoiseFrame(width, height)

	for _, m := range []metric.Metric{
		metric.MetricIntersection,
		metric.MetricCorrelation,
		metric.MetricChiSquare,
		metric.MetricBhattacharyya,
	} {
		fmt.Printf("--- %s ---\n", m)

		start = time.Now()

		name, err := c.BestMatchName(ctx, query, m)
		if err != nil {
			log.Fatal(err)
		}

		probs, err := c.ProbabilitiesByName(ctx, query, m)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("Best: %s (probability %.4f)\n", name, probs[name])
		fmt.Printf("Seconds: %.6f\n\n", time.Since(start).Seconds())
	}

	fmt.Println("--- Persist ---")

	dir, err := os.MkdirTemp("", "chromatch-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "models.chromatch")

	start = time.Now()

	if err := persistence.SaveFile(c, path, persistence.WithCompression(persistence.CompressionZSTD)); err != nil {
		log.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Snapshot: %d bytes (zstd)\n", info.Size())

	restored, err := persistence.LoadFile(path)
	if err != nil {
		log.Fatal(err)
	}

	name, err := restored.BestMatchName(ctx, query, metric.MetricIntersection)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Restored models:", restored.Size())
	fmt.Println("Restored best:", name)
	fmt.Printf("Seconds: %.4f\n", time.Since(start).Seconds())
}
