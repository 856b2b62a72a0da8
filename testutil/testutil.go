package testutil

import (
	"math/rand"
	"sync"

	"github.com/chromatch/chromatch/imaging"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// FillBytes fills dst with pseudo-random bytes.
// Locks only once per call (preferred over calling Intn in a loop).
func (r *RNG) FillBytes(dst []uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = uint8(r.rand.Intn(256))
	}
}

// NoiseFrame generates a BGR frame filled with pseudo-random pixels.
// Useful when a test needs a histogram with mass spread over many bins.
func (r *RNG) NoiseFrame(width, height int) *imaging.Frame {
	f := imaging.NewFrame(width, height, 3)
	r.FillBytes(f.Pix)

	return f
}

// SolidFrame generates a BGR frame filled with a single color.
func SolidFrame(width, height int, b, g, r uint8) *imaging.Frame {
	f := imaging.NewFrame(width, height, 3)
	for i := 0; i < len(f.Pix); i += 3 {
		f.Pix[i] = b
		f.Pix[i+1] = g
		f.Pix[i+2] = r
	}

	return f
}

// TwoToneFrame generates a BGR frame whose left half is one color and
// whose right half is another, both given as BGR triples. Odd widths
// give the extra column to the right half.
func TwoToneFrame(width, height int, left, right [3]uint8) *imaging.Frame {
	f := imaging.NewFrame(width, height, 3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := f.PixOffset(x, y)

			c := left
			if x >= width/2 {
				c = right
			}

			f.Pix[o] = c[0]
			f.Pix[o+1] = c[1]
			f.Pix[o+2] = c[2]
		}
	}

	return f
}

// GradientFrame generates a BGR frame whose channels ramp from 0 to 255
// across the width, identical in all three channels.
func GradientFrame(width, height int) *imaging.Frame {
	f := imaging.NewFrame(width, height, 3)

	span := width - 1
	if span < 1 {
		span = 1
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := f.PixOffset(x, y)
			v := uint8(x * 255 / span)

			f.Pix[o] = v
			f.Pix[o+1] = v
			f.Pix[o+2] = v
		}
	}

	return f
}
