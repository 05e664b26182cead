package chip8

import (
	"fmt"
	"strings"
)

// Reg names one of the 16 general purpose registers V0-VF.
type Reg byte

// VF is the flag register, overwritten by arithmetic, shift and draw
// operations.
const VF Reg = 0xf

func (r Reg) String() string { return fmt.Sprintf("V%X", byte(r)) }

// Registers holds the CHIP-8 register file.
type Registers struct {
	V  [16]byte
	I  uint16
	DT byte // delay timer
	ST byte // sound timer
}

// Tick decrements both timers, stopping at zero.
func (r *Registers) Tick() {
	if r.DT > 0 {
		r.DT--
	}
	if r.ST > 0 {
		r.ST--
	}
}

// setFlag stores b in VF as 1 or 0.
func (r *Registers) setFlag(b bool) {
	if b {
		r.V[VF] = 1
	} else {
		r.V[VF] = 0
	}
}

func (r Registers) String() string {
	var b strings.Builder
	for i, v := range r.V {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%X:%.2x", i, v)
	}
	fmt.Fprintf(&b, "\nI:%.4x DT:%.2x ST:%.2x", r.I, r.DT, r.ST)
	return b.String()
}

// Key identifies one of the 16 keypad keys, 0x0-0xF.
type Key byte

// NumKeys is the number of keys on the keypad.
const NumKeys = 16

func (k Key) String() string { return fmt.Sprintf("%X", byte(k)) }

// Keys is a set of keypad keys.
type Keys uint16

// KeySet returns the set holding the given keys.
func KeySet(keys ...Key) Keys {
	var s Keys
	for _, k := range keys {
		s = s.With(k)
	}
	return s
}

// Has reports whether k is in the set.
func (s Keys) Has(k Key) bool { return k < NumKeys && s&(1<<k) != 0 }

// With returns the set with k added. Keys outside 0x0-0xF are ignored.
func (s Keys) With(k Key) Keys {
	if k >= NumKeys {
		return s
	}
	return s | 1<<k
}

// Without returns the set with k removed.
func (s Keys) Without(k Key) Keys {
	if k >= NumKeys {
		return s
	}
	return s &^ (1 << k)
}

// Lowest returns the lowest-valued key in the set, and reports whether
// the set is non-empty.
func (s Keys) Lowest() (Key, bool) {
	for k := Key(0); k < NumKeys; k++ {
		if s.Has(k) {
			return k, true
		}
	}
	return 0, false
}

func (s Keys) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for k := Key(0); k < NumKeys; k++ {
		if s.Has(k) {
			if b.Len() > 1 {
				b.WriteByte(' ')
			}
			b.WriteString(k.String())
		}
	}
	b.WriteByte(']')
	return b.String()
}
