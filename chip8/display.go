package chip8

// Display dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// Pixel is the state of one display cell.
type Pixel byte

const (
	Off Pixel = 0
	On  Pixel = 1
)

// Frame is the display surface, stored row by row.
// Copying a Frame takes a snapshot of the display.
type Frame [Width * Height]Pixel

// At returns the pixel at (x, y), wrapping both coordinates.
func (f *Frame) At(x, y int) Pixel {
	return f[wrap(y, Height)*Width+wrap(x, Width)]
}

// Clear turns every pixel off.
func (f *Frame) Clear() {
	*f = Frame{}
}

// Draw XORs the 8-pixel-wide sprite rows onto the frame with the top left
// corner at (x, y). Coordinates wrap independently at the frame edges.
// It reports whether any pixel that was on got turned off.
func (f *Frame) Draw(x, y int, sprite []byte) (collision bool) {
	for row, bits := range sprite {
		py := wrap(y+row, Height)
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			i := py*Width + wrap(x+col, Width)
			if f[i] == On {
				collision = true
				f[i] = Off
			} else {
				f[i] = On
			}
		}
	}
	return collision
}

// Lit returns the number of pixels that are on.
func (f *Frame) Lit() int {
	n := 0
	for _, p := range f {
		if p == On {
			n++
		}
	}
	return n
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
