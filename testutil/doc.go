// Package testutil provides testing utilities for chromatch.
//
// This package is intended for use in tests and benchmarks only.
// It provides deterministic generators for the synthetic BGR frames the
// test suites classify.
//
// # Frame Generation
//
//	frame := testutil.SolidFrame(32, 32, 0, 0, 255) // pure red
//	split := testutil.TwoToneFrame(32, 32, [3]uint8{255, 0, 0}, [3]uint8{0, 0, 255})
//
// # Random Frames
//
//	rng := testutil.NewRNG(seed)
//	frame := rng.NoiseFrame(64, 64)
package testutil
