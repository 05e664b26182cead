// Package chip8 provides an implementation of a CHIP-8 interpreter, called
// Machine, that can be used to execute CHIP-8 programs.
package chip8

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Machine is a CHIP-8 interpreter.
type Machine struct {
	Mem     Memory
	Reg     Registers
	PC      uint16
	Stack   []uint16
	Display Frame

	// Rand is the source for RND.
	Rand *rand.Rand

	// KeyWait selects the behavior of LD Vx, K when no key is held.
	KeyWait KeyWaitMode

	halt error
}

// KeyWaitMode selects how LD Vx, K behaves while no key is held.
type KeyWaitMode byte

const (
	// SkipKeyWait leaves Vx unchanged and moves on to the next
	// instruction.
	SkipKeyWait KeyWaitMode = iota

	// BlockKeyWait holds the program counter on the instruction, so that
	// it executes again on the next step. Timers keep counting down.
	BlockKeyWait
)

// ErrROMTooLarge is returned by NewMachine for a program that does not fit
// in memory.
var ErrROMTooLarge = errors.New("rom too large")

// NewMachine returns a CHIP-8 interpreter with the font installed and rom
// loaded at ProgramStart.
func NewMachine(rom []byte) (*Machine, error) {
	if len(rom) > MaxROMSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrROMTooLarge, len(rom), MaxROMSize)
	}
	m := &Machine{
		Mem:  *newMemory(rom),
		PC:   ProgramStart,
		Rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	return m, nil
}

// Step executes the instruction at m.PC with the given keys held, then
// decrements the timers. It returns a HaltError if the instruction can not
// be executed; once halted the machine returns the same error from every
// subsequent call.
func (m *Machine) Step(held Keys) (err error) {
	if m.halt != nil {
		return m.halt
	}
	var (
		pc   = m.PC
		word uint16
		in   Instr
	)
	defer func() {
		if e := recover(); e != nil {
			if code, ok := e.(HaltCode); ok {
				err = HaltError{
					HaltCode: code,
					Instr:    in,
					Word:     word,
					Addr:     pc,
				}
				m.halt = err
			} else {
				panic(e)
			}
		}
	}()

	word = m.Mem.Word(pc)
	in, err = Decode(word)
	if err != nil {
		panic(Malformed)
	}
	m.exec(in, held)
	m.Reg.Tick()
	return nil
}

func (m *Machine) exec(in Instr, held Keys) {
	var (
		v    = &m.Reg.V
		x, y = in.X, in.Y
		next = m.PC + 2
	)
	switch in.Op {
	case SYS:
		// Machine code routines are not supported.
	case CLS:
		m.Display.Clear()
	case RET:
		n := len(m.Stack)
		if n == 0 {
			panic(Underflow)
		}
		next = m.Stack[n-1]
		m.Stack = m.Stack[:n-1]
	case JP:
		next = in.Addr
	case CALL:
		m.Stack = append(m.Stack, next)
		next = in.Addr
	case SEI:
		if v[x] == in.KK {
			next += 2
		}
	case SNEI:
		if v[x] != in.KK {
			next += 2
		}
	case SE:
		if v[x] == v[y] {
			next += 2
		}
	case SNE:
		if v[x] != v[y] {
			next += 2
		}
	case LDI:
		v[x] = in.KK
	case ADDI:
		v[x] += in.KK
	case LD:
		v[x] = v[y]
	case OR:
		v[x] |= v[y]
	case AND:
		v[x] &= v[y]
	case XOR:
		v[x] ^= v[y]
	case ADD:
		sum := uint16(v[x]) + uint16(v[y])
		v[x] = byte(sum)
		m.Reg.setFlag(sum > 0xff)
	case SUB:
		a, b := v[x], v[y]
		m.Reg.setFlag(a >= b)
		v[x] = a - b
	case SUBN:
		a, b := v[x], v[y]
		m.Reg.setFlag(b >= a)
		v[x] = b - a
	case SHR:
		a := v[x]
		v[VF] = a & 0x01
		v[x] = a >> 1
	case SHL:
		a := v[x]
		v[VF] = a >> 7
		v[x] = a << 1
	case LDIA:
		m.Reg.I = in.Addr
	case JPV0:
		next = in.Addr + uint16(v[0])
	case RND:
		v[x] = byte(m.Rand.Intn(0x100)) & in.KK
	case DRW:
		sprite := make([]byte, in.N)
		for i := range sprite {
			sprite[i] = m.Mem.Read(m.Reg.I + uint16(i))
		}
		m.Reg.setFlag(m.Display.Draw(int(v[x]), int(v[y]), sprite))
	case SKP:
		if held.Has(Key(v[x])) {
			next += 2
		}
	case SKNP:
		if !held.Has(Key(v[x])) {
			next += 2
		}
	case LDVDT:
		v[x] = m.Reg.DT
	case LDK:
		next = m.waitKey(x, held, next)
	case LDDTV:
		m.Reg.DT = v[x]
	case LDSTV:
		m.Reg.ST = v[x]
	case ADDIV:
		m.Reg.I += uint16(v[x])
	case LDF:
		m.Reg.I = FontAddr + uint16(v[x]&0xf)*glyphSize
	case LDB:
		b := v[x]
		m.Mem.Write(m.Reg.I, b/100)
		m.Mem.Write(m.Reg.I+1, b/10%10)
		m.Mem.Write(m.Reg.I+2, b%10)
	case STM:
		for r := Reg(0); r <= x; r++ {
			m.Mem.Write(m.Reg.I+uint16(r), v[r])
		}
	case LDM:
		for r := Reg(0); r <= x; r++ {
			v[r] = m.Mem.Read(m.Reg.I + uint16(r))
		}
	default:
		panic(fmt.Errorf("internal error: %v not implemented", in.Op))
	}
	m.PC = next
}

// waitKey executes LD Vx, K and returns the address of the next
// instruction. This is the only place KeyWait is consulted.
func (m *Machine) waitKey(x Reg, held Keys, next uint16) uint16 {
	if k, ok := held.Lowest(); ok {
		m.Reg.V[x] = byte(k)
		return next
	}
	if m.KeyWait == BlockKeyWait {
		return m.PC
	}
	return next
}

// Next decodes the instruction at m.PC without executing it.
func (m *Machine) Next() (Instr, error) {
	if int(m.PC)+1 >= len(m.Mem) {
		return Instr{}, fmt.Errorf("pc %.4x out of range", m.PC)
	}
	return Decode(uint16(m.Mem[m.PC])<<8 | uint16(m.Mem[m.PC+1]))
}

// Halted returns the error that halted the machine, or nil.
func (m *Machine) Halted() error { return m.halt }

// HaltError is returned by Step when the machine can not continue.
type HaltError struct {
	HaltCode
	Instr Instr
	Word  uint16
	Addr  uint16
}

func (e HaltError) Error() string {
	if e.HaltCode == Malformed {
		return fmt.Sprintf("%s %.4x at %.4x", e.HaltCode, e.Word, e.Addr)
	}
	return fmt.Sprintf("%s executing %s at %.4x", e.HaltCode, e.Instr, e.Addr)
}

// Unwrap returns a *MalformedInstruction for Malformed halts.
func (e HaltError) Unwrap() error {
	if e.HaltCode == Malformed {
		return &MalformedInstruction{Word: e.Word}
	}
	return nil
}

// HaltCode signifies the type of condition that halted execution.
type HaltCode byte

const (
	Malformed  HaltCode = 0x01
	Protected  HaltCode = 0x02
	Underflow  HaltCode = 0x03
	BadAddress HaltCode = 0x04
)

func (c HaltCode) String() string {
	if s, ok := map[HaltCode]string{
		Malformed:  "malformed instruction",
		Protected:  "write to protected memory",
		Underflow:  "stack underflow",
		BadAddress: "address out of range",
	}[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown (%.2x)", byte(c))
}
