package chip8

// Memory layout.
//
//	0x000-0x04f: hex digit glyphs (read only)
//	0x050-0x1ff: reserved (read only)
//	0x200-0xffe: program and program data
const (
	MemSize      = 0xfff
	ProgramStart = 0x200
	FontAddr     = 0x000

	// MaxROMSize is the largest program that fits in memory.
	MaxROMSize = MemSize - ProgramStart

	glyphSize = 5
)

// Font holds the 4x5 glyphs for the hex digits 0-F, one byte per row
// with the pixels in the high nibble.
var Font = [16 * glyphSize]byte{
	0xf0, 0x90, 0x90, 0x90, 0xf0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xf0, 0x10, 0xf0, 0x80, 0xf0, // 2
	0xf0, 0x10, 0xf0, 0x10, 0xf0, // 3
	0x90, 0x90, 0xf0, 0x10, 0x10, // 4
	0xf0, 0x80, 0xf0, 0x10, 0xf0, // 5
	0xf0, 0x80, 0xf0, 0x90, 0xf0, // 6
	0xf0, 0x10, 0x20, 0x40, 0x40, // 7
	0xf0, 0x90, 0xf0, 0x90, 0xf0, // 8
	0xf0, 0x90, 0xf0, 0x10, 0xf0, // 9
	0xf0, 0x90, 0xf0, 0x90, 0x90, // A
	0xe0, 0x90, 0xe0, 0x90, 0xe0, // B
	0xf0, 0x80, 0x80, 0x80, 0xf0, // C
	0xe0, 0x90, 0x90, 0x90, 0xe0, // D
	0xf0, 0x80, 0xf0, 0x80, 0xf0, // E
	0xf0, 0x80, 0xf0, 0x80, 0x80, // F
}

// Memory is the CHIP-8 address space. Reads and writes through Read and
// Write halt the machine on a bad address; writes below ProgramStart
// halt it with Protected.
type Memory [MemSize]byte

func newMemory(rom []byte) *Memory {
	var m Memory
	copy(m[FontAddr:], Font[:])
	copy(m[ProgramStart:], rom)
	return &m
}

// Read returns the byte at addr.
func (m *Memory) Read(addr uint16) byte {
	if int(addr) >= len(m) {
		panic(BadAddress)
	}
	return m[addr]
}

// Write stores v at addr.
func (m *Memory) Write(addr uint16, v byte) {
	if addr < ProgramStart {
		panic(Protected)
	}
	if int(addr) >= len(m) {
		panic(BadAddress)
	}
	m[addr] = v
}

// Word returns the big-endian instruction word at addr.
func (m *Memory) Word(addr uint16) uint16 {
	return uint16(m.Read(addr))<<8 | uint16(m.Read(addr+1))
}
