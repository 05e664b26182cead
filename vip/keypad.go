package vip

import (
	"sync"

	"github.com/nf/octet/chip8"
)

// Keypad collects key edges from the presentation side and turns them
// into the set of held keys seen by the interpreter.
//
// Press and Release never block; the edges queue up until the runner
// drains them at the start of its next tick.
type Keypad struct {
	mu       sync.Mutex
	pressed  []chip8.Key
	released []chip8.Key

	held chip8.Keys // owned by the runner goroutine
}

// Press queues a key-down edge for each of keys.
func (k *Keypad) Press(keys ...chip8.Key) {
	k.mu.Lock()
	k.pressed = append(k.pressed, keys...)
	k.mu.Unlock()
}

// Release queues a key-up edge for each of keys.
func (k *Keypad) Release(keys ...chip8.Key) {
	k.mu.Lock()
	k.released = append(k.released, keys...)
	k.mu.Unlock()
}

// drain applies every queued edge and returns the resulting held set.
// A key both pressed and released since the last drain is not held.
func (k *Keypad) drain() chip8.Keys {
	k.mu.Lock()
	pressed, released := k.pressed, k.released
	k.pressed, k.released = k.pressed[:0:0], k.released[:0:0]
	k.mu.Unlock()

	for _, key := range pressed {
		k.held = k.held.With(key)
	}
	for _, key := range released {
		k.held = k.held.Without(key)
	}
	return k.held
}
