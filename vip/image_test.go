package vip

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/key"

	"github.com/nf/octet/chip8"
)

func TestFrameImage(t *testing.T) {
	var f chip8.Frame
	f.Draw(63, 31, []byte{0x80})
	f.Draw(1, 0, []byte{0x80})

	m := FrameImage(&f, white, black)
	assert.Equal(t, image.Rect(0, 0, 64, 32), m.Bounds())
	assert.Equal(t, white, m.RGBAAt(63, 31))
	assert.Equal(t, white, m.RGBAAt(1, 0))
	assert.Equal(t, black, m.RGBAAt(0, 0))
	assert.Equal(t, black, m.RGBAAt(2, 0))
}

func TestScaledFrameImage(t *testing.T) {
	var f chip8.Frame
	f.Draw(0, 0, []byte{0x80})

	m := ScaledFrameImage(&f, white, black, 4)
	assert.Equal(t, image.Rect(0, 0, 256, 128), m.Bounds())
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, white, m.RGBAAt(x, y), "pixel (%d, %d)", x, y)
		}
	}
	assert.Equal(t, black, m.RGBAAt(4, 0))
	assert.Equal(t, black, m.RGBAAt(0, 4))

	assert.Equal(t, image.Rect(0, 0, 64, 32), ScaledFrameImage(&f, white, black, 0).Bounds())
}

func TestParseColor(t *testing.T) {
	for s, want := range map[string]color.RGBA{
		"ffffff":  white,
		"#000000": black,
		"1a2B3c":  {0x1a, 0x2b, 0x3c, 0xff},
	} {
		got, err := ParseColor(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}
	for _, s := range []string{"", "fff", "#12345", "12345g", "1234567"} {
		_, err := ParseColor(s)
		assert.Error(t, err, s)
	}
}

func TestKeymap(t *testing.T) {
	seen := map[chip8.Key]bool{}
	for r, k := range runeKeys {
		assert.False(t, seen[k], "key %v mapped twice", k)
		seen[k] = true

		upper, ok := KeyForRune(r - 'a' + 'A')
		if r >= 'a' && r <= 'z' {
			assert.True(t, ok)
			assert.Equal(t, k, upper)
		}
	}
	assert.Len(t, seen, chip8.NumKeys)

	for _, c := range []struct {
		r    rune
		code key.Code
		want chip8.Key
	}{
		{'1', key.Code1, 0x1},
		{'4', key.Code4, 0xc},
		{'q', key.CodeQ, 0x4},
		{'f', key.CodeF, 0xe},
		{'x', key.CodeX, 0x0},
		{'v', key.CodeV, 0xf},
	} {
		k, ok := KeyForRune(c.r)
		assert.True(t, ok)
		assert.Equal(t, c.want, k, "rune %q", c.r)
		k, ok = KeyForCode(c.code)
		assert.True(t, ok)
		assert.Equal(t, c.want, k, "code %v", c.code)
	}

	_, ok := KeyForRune('p')
	assert.False(t, ok)
	_, ok = KeyForCode(key.CodeEscape)
	assert.False(t, ok)
}
