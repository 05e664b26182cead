package chip8

import (
	"fmt"
	"strings"
)

// Op identifies a CHIP-8 instruction form.
type Op byte

const (
	SYS  Op = iota // 0nnn
	CLS            // 00E0
	RET            // 00EE
	JP             // 1nnn
	CALL           // 2nnn
	SEI            // 3xkk
	SNEI           // 4xkk
	SE             // 5xy0
	LDI            // 6xkk
	ADDI           // 7xkk
	LD             // 8xy0
	OR             // 8xy1
	AND            // 8xy2
	XOR            // 8xy3
	ADD            // 8xy4
	SUB            // 8xy5
	SHR            // 8xy6
	SUBN           // 8xy7
	SHL            // 8xyE
	SNE            // 9xy0
	LDIA           // Annn
	JPV0           // Bnnn
	RND            // Cxkk
	DRW            // Dxyn
	SKP            // Ex9E
	SKNP           // ExA1
	LDVDT          // Fx07
	LDK            // Fx0A
	LDDTV          // Fx15
	LDSTV          // Fx18
	ADDIV          // Fx1E
	LDF            // Fx29
	LDB            // Fx33
	STM            // Fx55
	LDM            // Fx65

	numOps int = iota
)

func (o Op) String() string {
	if int(o) < len(opStrings) {
		return opStrings[o]
	}
	return fmt.Sprintf("Op(%d)", byte(o))
}

var opStrings = strings.Fields(`
	SYS
	CLS
	RET
	JP
	CALL
	SEI
	SNEI
	SE
	LDI
	ADDI
	LD
	OR
	AND
	XOR
	ADD
	SUB
	SHR
	SUBN
	SHL
	SNE
	LDIA
	JPV0
	RND
	DRW
	SKP
	SKNP
	LDVDT
	LDK
	LDDTV
	LDSTV
	ADDIV
	LDF
	LDB
	STM
	LDM
`)

// Instr is a decoded instruction. Op selects the form; only the operand
// fields used by that form are meaningful.
type Instr struct {
	Op   Op
	X, Y Reg    // register operands
	N    byte   // 4-bit sprite height (DRW)
	KK   byte   // 8-bit immediate
	Addr uint16 // 12-bit address or immediate
}

// String renders the instruction in the conventional assembler syntax,
// for example "DRW V1, V2, $5".
func (in Instr) String() string {
	switch in.Op {
	case CLS, RET:
		return mnemonics[in.Op]
	case SYS, JP, CALL:
		return fmt.Sprintf("%s $%03X", mnemonics[in.Op], in.Addr)
	case LDIA:
		return fmt.Sprintf("LD I, $%03X", in.Addr)
	case JPV0:
		return fmt.Sprintf("JP V0, $%03X", in.Addr)
	case SEI, SNEI, LDI, ADDI, RND:
		return fmt.Sprintf("%s %v, $%02X", mnemonics[in.Op], in.X, in.KK)
	case SE, SNE, LD, OR, AND, XOR, ADD, SUB, SUBN:
		return fmt.Sprintf("%s %v, %v", mnemonics[in.Op], in.X, in.Y)
	case DRW:
		return fmt.Sprintf("DRW %v, %v, $%X", in.X, in.Y, in.N)
	case SHR, SHL, SKP, SKNP:
		return fmt.Sprintf("%s %v", mnemonics[in.Op], in.X)
	case LDVDT:
		return fmt.Sprintf("LD %v, DT", in.X)
	case LDK:
		return fmt.Sprintf("LD %v, K", in.X)
	case LDDTV:
		return fmt.Sprintf("LD DT, %v", in.X)
	case LDSTV:
		return fmt.Sprintf("LD ST, %v", in.X)
	case ADDIV:
		return fmt.Sprintf("ADD I, %v", in.X)
	case LDF:
		return fmt.Sprintf("LD F, %v", in.X)
	case LDB:
		return fmt.Sprintf("LD B, %v", in.X)
	case STM:
		return fmt.Sprintf("LD [I], %v", in.X)
	case LDM:
		return fmt.Sprintf("LD %v, [I]", in.X)
	}
	return in.Op.String()
}

var mnemonics = map[Op]string{
	SYS: "SYS", CLS: "CLS", RET: "RET", JP: "JP", CALL: "CALL",
	SEI: "SE", SNEI: "SNE", SE: "SE", SNE: "SNE",
	LDI: "LD", ADDI: "ADD", LD: "LD", OR: "OR", AND: "AND", XOR: "XOR",
	ADD: "ADD", SUB: "SUB", SHR: "SHR", SUBN: "SUBN", SHL: "SHL",
	RND: "RND", SKP: "SKP", SKNP: "SKNP",
}

// MalformedInstruction is returned by Decode for a word that encodes no
// CHIP-8 instruction.
type MalformedInstruction struct {
	Word uint16
}

func (e *MalformedInstruction) Error() string {
	return fmt.Sprintf("malformed instruction %.4x", e.Word)
}

// Decode returns the instruction encoded by word.
//
//	word:  [ f f f f | x x x x | y y y y | n n n n ]
//	       family    | X       | Y       | N
//	                           [ kk (low byte)     ]
//	                 [ nnn (low 12 bits)           ]
func Decode(word uint16) (Instr, error) {
	var (
		x    = Reg(word >> 8 & 0xf)
		y    = Reg(word >> 4 & 0xf)
		n    = byte(word & 0xf)
		kk   = byte(word)
		addr = word & 0xfff
	)
	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00e0:
			return Instr{Op: CLS}, nil
		case 0x00ee:
			return Instr{Op: RET}, nil
		}
		return Instr{Op: SYS, Addr: addr}, nil
	case 0x1:
		return Instr{Op: JP, Addr: addr}, nil
	case 0x2:
		return Instr{Op: CALL, Addr: addr}, nil
	case 0x3:
		return Instr{Op: SEI, X: x, KK: kk}, nil
	case 0x4:
		return Instr{Op: SNEI, X: x, KK: kk}, nil
	case 0x5:
		// Unlike 9xy0, the low nibble is ignored.
		return Instr{Op: SE, X: x, Y: y}, nil
	case 0x6:
		return Instr{Op: LDI, X: x, KK: kk}, nil
	case 0x7:
		return Instr{Op: ADDI, X: x, KK: kk}, nil
	case 0x8:
		if op, ok := aluOps[n]; ok {
			return Instr{Op: op, X: x, Y: y}, nil
		}
	case 0x9:
		if n == 0 {
			return Instr{Op: SNE, X: x, Y: y}, nil
		}
	case 0xa:
		return Instr{Op: LDIA, Addr: addr}, nil
	case 0xb:
		return Instr{Op: JPV0, Addr: addr}, nil
	case 0xc:
		return Instr{Op: RND, X: x, KK: kk}, nil
	case 0xd:
		return Instr{Op: DRW, X: x, Y: y, N: n}, nil
	case 0xe:
		switch kk {
		case 0x9e:
			return Instr{Op: SKP, X: x}, nil
		case 0xa1:
			return Instr{Op: SKNP, X: x}, nil
		}
	case 0xf:
		if op, ok := miscOps[kk]; ok {
			return Instr{Op: op, X: x}, nil
		}
	}
	return Instr{}, &MalformedInstruction{Word: word}
}

var aluOps = map[byte]Op{
	0x0: LD,
	0x1: OR,
	0x2: AND,
	0x3: XOR,
	0x4: ADD,
	0x5: SUB,
	0x6: SHR,
	0x7: SUBN,
	0xe: SHL,
}

var miscOps = map[byte]Op{
	0x07: LDVDT,
	0x0a: LDK,
	0x15: LDDTV,
	0x18: LDSTV,
	0x1e: ADDIV,
	0x29: LDF,
	0x33: LDB,
	0x55: STM,
	0x65: LDM,
}
