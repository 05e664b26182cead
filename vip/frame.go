package vip

import "github.com/nf/octet/chip8"

// FrameSlot hands display snapshots from the interpreter to the
// presentation side. It holds at most one frame; publishing replaces a
// frame that has not been consumed yet.
type FrameSlot struct {
	ch chan chip8.Frame
}

func NewFrameSlot() *FrameSlot {
	return &FrameSlot{ch: make(chan chip8.Frame, 1)}
}

// Publish stores f, dropping any older unconsumed frame. It never blocks.
// Only one goroutine may publish to a slot.
func (s *FrameSlot) Publish(f chip8.Frame) {
	for {
		select {
		case s.ch <- f:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// Frames returns the channel on which published frames are delivered.
func (s *FrameSlot) Frames() <-chan chip8.Frame { return s.ch }

// Latest takes the pending frame, if any.
func (s *FrameSlot) Latest() (chip8.Frame, bool) {
	select {
	case f := <-s.ch:
		return f, true
	default:
		return chip8.Frame{}, false
	}
}
