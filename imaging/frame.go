package imaging

import (
	"fmt"
	"image"
	"os"
	"slices"

	_ "image/jpeg"
	_ "image/png"
)

// Frame is a dense 8-bit raster with interleaved channels.
// Three-channel frames use BGR channel order, the native order of the
// classic computer-vision pipelines this package interoperates with.
type Frame struct {
	// Pix holds the samples in row-major order, channels interleaved:
	// Pix[(y*Width+x)*Channels+c].
	Pix []uint8

	Width    int
	Height   int
	Channels int
}

// NewFrame allocates a zeroed frame of the given geometry.
func NewFrame(width, height, channels int) *Frame {
	return &Frame{
		Pix:      make([]uint8, width*height*channels),
		Width:    width,
		Height:   height,
		Channels: channels,
	}
}

// FromImage converts a decoded image into a three-channel BGR frame.
// Alpha is discarded.
func FromImage(img image.Image) *Frame {
	bounds := img.Bounds()
	f := NewFrame(bounds.Dx(), bounds.Dy(), 3)

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			f.Pix[i] = uint8(b >> 8)
			f.Pix[i+1] = uint8(g >> 8)
			f.Pix[i+2] = uint8(r >> 8)
			i += 3
		}
	}

	return f
}

// ReadFile decodes the image file at path into a BGR frame.
// PNG and JPEG decoders are registered; callers needing other formats
// register them with image.RegisterFormat before calling.
func ReadFile(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}

	return FromImage(img), nil
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	return &Frame{
		Pix:      slices.Clone(f.Pix),
		Width:    f.Width,
		Height:   f.Height,
		Channels: f.Channels,
	}
}

// PixOffset returns the index of the first sample of the pixel at (x, y).
func (f *Frame) PixOffset(x, y int) int {
	return (y*f.Width + x) * f.Channels
}

// At returns the sample of channel c at (x, y).
func (f *Frame) At(x, y, c int) uint8 {
	return f.Pix[f.PixOffset(x, y)+c]
}

// Set assigns the sample of channel c at (x, y).
func (f *Frame) Set(x, y, c int, v uint8) {
	f.Pix[f.PixOffset(x, y)+c] = v
}
