// Package vip hosts a CHIP-8 machine: it drives the interpreter at a fixed
// rate and connects it to a window or terminal for display and input.
package vip

import (
	"image/color"
	"log"
	"time"

	"github.com/nf/octet/chip8"
)

// DisplayKind selects how the runner presents frames.
type DisplayKind int

const (
	GUIDisplay  DisplayKind = iota // shiny window
	TermDisplay                    // tcell terminal
	NoDisplay                      // frames are only published
)

// Config holds the runner settings.
type Config struct {
	Display DisplayKind
	Dev     bool // keep running after a halt and accept Swap
	Hz      int  // ticks per second, 60 if zero

	BlockKeyWait bool // LD Vx, K waits for a key

	FG, BG color.RGBA
	Scale  int // initial window scale
}

// StateKind describes why a StateFunc is called.
type StateKind int

const (
	ClearState StateKind = iota // execution resumed
	QuietState                  // a tick completed while running
	PauseState
	BreakState
	HaltState
)

// StateFunc is called on the interpreter goroutine. m must not be retained
// or modified.
type StateFunc func(m *chip8.Machine, k StateKind)

// DebugOp is a command accepted by Runner.Debug.
type DebugOp int

const (
	Pause DebugOp = iota
	Continue
	Step
	SetBreak // pause before executing the instruction at addr
	ClearBreak
	Exit
)

type debugCmd struct {
	op   DebugOp
	addr uint16
}

// Runner executes a Machine on its own goroutine, one Step per tick.
type Runner struct {
	cfg    Config
	state  StateFunc
	keys   Keypad
	frames *FrameSlot

	swap     chan *chip8.Machine
	swapDone chan bool
	debug    chan debugCmd
	exit     chan bool

	code int // set before exit is closed
}

func NewRunner(cfg Config, state StateFunc) *Runner {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 10
	}
	return &Runner{
		cfg:      cfg,
		state:    state,
		frames:   NewFrameSlot(),
		swap:     make(chan *chip8.Machine),
		swapDone: make(chan bool),
		debug:    make(chan debugCmd),
		exit:     make(chan bool),
	}
}

// Keypad returns the keypad feeding the running machine.
func (r *Runner) Keypad() *Keypad { return &r.keys }

// Frames returns the channel of display snapshots, one per tick at most.
func (r *Runner) Frames() <-chan chip8.Frame { return r.frames.Frames() }

func (r *Runner) newMachine(rom []byte) (*chip8.Machine, error) {
	m, err := chip8.NewMachine(rom)
	if err != nil {
		return nil, err
	}
	if r.cfg.BlockKeyWait {
		m.KeyWait = chip8.BlockKeyWait
	}
	return m, nil
}

// Run loads rom and executes it until the program halts (outside dev
// mode), the display is closed, or Exit is requested. It returns the
// process exit code. Run may be called only once.
func (r *Runner) Run(rom []byte) (exitCode int, err error) {
	m, err := r.newMachine(rom)
	if err != nil {
		return 0, err
	}
	go r.loop(m)

	switch r.cfg.Display {
	case GUIDisplay:
		if err := newGUI(r).Run(r.exit); err != nil {
			log.Fatalf("gui: %v", err)
		}
		// The window may have been closed by the user.
		r.Debug(Exit, 0)
	case TermDisplay:
		if err := newTerm(r).Run(r.exit); err != nil {
			log.Fatalf("term: %v", err)
		}
		r.Debug(Exit, 0)
	}
	<-r.exit
	return r.code, nil
}

// Swap replaces the running machine with a fresh one executing rom.
// Held keys carry over. It may only be called in dev mode.
func (r *Runner) Swap(rom []byte) error {
	if !r.cfg.Dev {
		panic("Swap called while not running in dev mode")
	}
	m, err := r.newMachine(rom)
	if err != nil {
		return err
	}
	select {
	case r.swap <- m:
		<-r.swapDone
	case <-r.exit:
	}
	return nil
}

// Debug sends a command to the interpreter goroutine. It returns
// immediately if the runner has exited.
func (r *Runner) Debug(op DebugOp, addr uint16) {
	select {
	case r.debug <- debugCmd{op, addr}:
	case <-r.exit:
	}
}

func (r *Runner) setState(m *chip8.Machine, k StateKind) {
	if r.state != nil {
		r.state(m, k)
	}
}

func (r *Runner) loop(m *chip8.Machine) {
	t := time.NewTicker(time.Second / time.Duration(r.cfg.Hz))
	defer t.Stop()

	var (
		halted  bool
		paused  bool
		step    bool
		brk     uint16
		hasBrk  bool
		skipBrk bool // the instruction at brk has already been reported
	)
	for {
		select {
		case newM := <-r.swap:
			m = newM
			halted = false
			skipBrk = false
			r.frames.Publish(m.Display)
			r.setState(m, ClearState)
			r.swapDone <- true

		case c := <-r.debug:
			switch c.op {
			case Pause:
				paused = true
				r.setState(m, PauseState)
			case Continue:
				paused, skipBrk = false, true
				r.setState(m, ClearState)
			case Step:
				if paused {
					step, skipBrk = true, true
				} else {
					paused = true
					r.setState(m, PauseState)
				}
			case SetBreak:
				brk, hasBrk = c.addr, true
			case ClearBreak:
				hasBrk = false
			case Exit:
				close(r.exit)
				return
			}

		case <-t.C:
			held := r.keys.drain()
			if halted || paused && !step {
				continue
			}
			if hasBrk && m.PC == brk && !skipBrk {
				paused = true
				r.setState(m, BreakState)
				continue
			}
			skipBrk = false
			err := m.Step(held)
			r.frames.Publish(m.Display)
			if err != nil {
				log.Printf("halt: %v", err)
				r.setState(m, HaltState)
				if !r.cfg.Dev {
					r.code = 1
					close(r.exit)
					return
				}
				halted = true
				continue
			}
			if step {
				step = false
				r.setState(m, PauseState)
			} else {
				r.setState(m, QuietState)
			}
		}
	}
}
