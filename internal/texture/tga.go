// Package texture reads texture headers for formats the standard image
// registry does not cover.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// ErrUnsupported is returned for TGA variants without a true-color layout.
var ErrUnsupported = errors.New("unsupported TGA")

const tgaHeaderSize = 18

// DecodeTGAConfig reads the dimensions of a TGA image from its header.
// Uncompressed and RLE true-color images (types 2 and 10) at 24 or 32 bits
// per pixel are accepted, matching what level editors export.
func DecodeTGAConfig(r io.Reader) (image.Config, error) {
	var h [tgaHeaderSize]byte
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return image.Config{}, fmt.Errorf("reading TGA header: %w", err)
	}

	colorMapType := h[1]
	imageType := h[2]
	width := int(h[12]) | int(h[13])<<8
	height := int(h[14]) | int(h[15])<<8
	bpp := int(h[16])

	if colorMapType != 0 {
		return image.Config{}, fmt.Errorf("%w: color-mapped", ErrUnsupported)
	}
	if imageType != 2 && imageType != 10 {
		return image.Config{}, fmt.Errorf("%w: type %d", ErrUnsupported, imageType)
	}
	if bpp != 24 && bpp != 32 {
		return image.Config{}, fmt.Errorf("%w: %d bits per pixel", ErrUnsupported, bpp)
	}
	if width == 0 || height == 0 {
		return image.Config{}, fmt.Errorf("%w: empty image", ErrUnsupported)
	}

	model := color.RGBAModel
	if bpp == 24 {
		model = color.NRGBAModel
	}
	return image.Config{ColorModel: model, Width: width, Height: height}, nil
}

// TGAHeader builds a minimal uncompressed true-color header.
func TGAHeader(width, height, bpp int) []byte {
	h := make([]byte, tgaHeaderSize)
	h[2] = 2
	h[12], h[13] = byte(width), byte(width>>8)
	h[14], h[15] = byte(height), byte(height>>8)
	h[16] = byte(bpp)
	h[17] = 0x20
	return h
}
