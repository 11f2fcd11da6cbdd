// Package snapshot encodes a PPU framebuffer as a BMP image, the way
// pkg/utils.SaveImage writes whatever it's given out to disk, except
// here the format is fixed and there's no dialog involved: just bytes in,
// a file on disk out.
package snapshot

import (
	"bytes"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/bmp"
)

const (
	width  = 160
	height = 144
)

// Encode converts a packed RGB888 framebuffer (as produced by
// ppu.PPU.Framebuffer, width*height*3 bytes) into BMP-encoded bytes.
func Encode(framebuffer []byte) ([]byte, error) {
	img := toImage(framebuffer)
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes framebuffer and writes it to path as a BMP file.
func WriteFile(path string, framebuffer []byte) error {
	data, err := Encode(framebuffer)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func toImage(framebuffer []byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			img.Set(x, y, color.RGBA{R: framebuffer[i], G: framebuffer[i+1], B: framebuffer[i+2], A: 0xFF})
		}
	}
	return img
}
