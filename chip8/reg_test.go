package chip8

import "testing"

func TestRegistersTick(t *testing.T) {
	r := Registers{DT: 2, ST: 1}
	r.Tick()
	if r.DT != 1 || r.ST != 0 {
		t.Fatalf("after one tick DT, ST = %d, %d; want 1, 0", r.DT, r.ST)
	}
	r.Tick()
	r.Tick()
	if r.DT != 0 || r.ST != 0 {
		t.Errorf("timers did not stop at zero: DT, ST = %d, %d", r.DT, r.ST)
	}
}

func TestKeys(t *testing.T) {
	s := KeySet(0x3, 0xa, 0x3)
	if !s.Has(0x3) || !s.Has(0xa) || s.Has(0x4) {
		t.Errorf("KeySet(3, a) = %v", s)
	}
	if s.Has(0x13) || s.With(0x13) != s || s.Without(0x13) != s {
		t.Error("keys outside 0-F are not ignored")
	}
	if k, ok := s.Lowest(); !ok || k != 0x3 {
		t.Errorf("Lowest() = %v, %v; want 3, true", k, ok)
	}
	s = s.Without(0x3)
	if k, ok := s.Lowest(); !ok || k != 0xa {
		t.Errorf("Lowest() = %v, %v; want A, true", k, ok)
	}
	if _, ok := Keys(0).Lowest(); ok {
		t.Error("Lowest() of empty set reported a key")
	}
	if got, want := KeySet(0, 0xf, 7).String(), "[0 7 F]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMemoryProtection(t *testing.T) {
	m := newMemory(nil)
	for _, c := range []struct {
		addr uint16
		want HaltCode
	}{
		{0x000, Protected},
		{0x1ff, Protected},
		{0x200, 0},
		{MemSize - 1, 0},
		{MemSize, BadAddress},
		{0xffff, BadAddress},
	} {
		func() {
			defer func() {
				got, _ := recover().(HaltCode)
				if got != c.want {
					t.Errorf("Write(%.4x) halted with %v, want %v", c.addr, got, c.want)
				}
			}()
			m.Write(c.addr, 0x42)
			if m.Read(c.addr) != 0x42 {
				t.Errorf("Read(%.4x) after Write returned %.2x", c.addr, m.Read(c.addr))
			}
		}()
	}
}
