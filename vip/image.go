package vip

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/draw"

	"github.com/nf/octet/chip8"
)

// FrameImage renders f at its native 64x32 resolution.
func FrameImage(f *chip8.Frame, fg, bg color.RGBA) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, chip8.Width, chip8.Height))
	drawFrame(m, f, fg, bg)
	return m
}

// ScaledFrameImage renders f with each pixel drawn as a scale x scale
// square.
func ScaledFrameImage(f *chip8.Frame, fg, bg color.RGBA, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	src := FrameImage(f, fg, bg)
	dst := image.NewRGBA(image.Rect(0, 0, chip8.Width*scale, chip8.Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// drawFrame fills the top left 64x32 pixels of m.
func drawFrame(m *image.RGBA, f *chip8.Frame, fg, bg color.RGBA) {
	for y := 0; y < chip8.Height; y++ {
		b := m.Pix[y*m.Stride:]
		for x := 0; x < chip8.Width; x++ {
			c := bg
			if f[y*chip8.Width+x] == chip8.On {
				c = fg
			}
			b[0] = c.R
			b[1] = c.G
			b[2] = c.B
			b[3] = c.A
			b = b[4:]
		}
	}
}

// ParseColor parses an RGB color written as six hex digits, with or
// without a leading '#'.
func ParseColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.RGBA{R: byte(v >> 16), G: byte(v >> 8), B: byte(v), A: 0xff}, nil
}
