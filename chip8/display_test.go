package chip8

import "testing"

func TestFrameClear(t *testing.T) {
	var f Frame
	for i := range f {
		if i%3 == 0 {
			f[i] = On
		}
	}
	f.Clear()
	for i, p := range f {
		if p != Off {
			t.Fatalf("pixel %d = %v after Clear, want Off", i, p)
		}
	}
}

func TestFrameDrawXOR(t *testing.T) {
	var f Frame
	if f.Draw(0, 0, []byte{0xff}) {
		t.Error("first draw reported a collision")
	}
	for x := 0; x < Width; x++ {
		want := Off
		if x < 8 {
			want = On
		}
		if got := f.At(x, 0); got != want {
			t.Errorf("pixel (%d, 0) = %v, want %v", x, got, want)
		}
	}
	if !f.Draw(0, 0, []byte{0xff}) {
		t.Error("second draw did not report a collision")
	}
	if n := f.Lit(); n != 0 {
		t.Errorf("%d pixels lit after second draw, want 0", n)
	}
}

func TestFrameDrawNoCollisionOnOverlapOff(t *testing.T) {
	var f Frame
	f.Draw(0, 0, []byte{0xf0})
	// Overlapping only unlit pixels turns nothing off.
	if f.Draw(4, 0, []byte{0xf0}) {
		t.Error("draw over unlit pixels reported a collision")
	}
	if !f.Draw(2, 0, []byte{0x80}) {
		t.Error("draw over a lit pixel did not report a collision")
	}
	if f.At(2, 0) != Off {
		t.Error("pixel (2, 0) not toggled off")
	}
}

func TestFrameDrawWrap(t *testing.T) {
	for _, c := range []struct {
		name   string
		x, y   int
		sprite []byte
		lit    [][2]int
	}{
		{"right edge", 60, 0, []byte{0xff},
			[][2]int{{60, 0}, {61, 0}, {62, 0}, {63, 0}, {0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"bottom edge", 0, 31, []byte{0x80, 0x80, 0x80},
			[][2]int{{0, 31}, {0, 0}, {0, 1}}},
		{"large coordinates", 255, 255, []byte{0xc0},
			[][2]int{{63, 31}, {0, 31}}},
		{"corner", 63, 31, []byte{0xc0, 0xc0},
			[][2]int{{63, 31}, {0, 31}, {63, 0}, {0, 0}}},
	} {
		t.Run(c.name, func(t *testing.T) {
			var f Frame
			if f.Draw(c.x, c.y, c.sprite) {
				t.Error("draw on clear frame reported a collision")
			}
			if n := f.Lit(); n != len(c.lit) {
				t.Errorf("%d pixels lit, want %d", n, len(c.lit))
			}
			for _, p := range c.lit {
				if f.At(p[0], p[1]) != On {
					t.Errorf("pixel (%d, %d) is off, want on", p[0], p[1])
				}
			}
		})
	}
}

func TestFrameAtWraps(t *testing.T) {
	var f Frame
	f[Width+1] = On
	if f.At(1, 1) != On || f.At(1+Width, 1+Height) != On || f.At(1-Width, 1-Height) != On {
		t.Error("At does not wrap coordinates")
	}
}
