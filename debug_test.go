package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nf/octet/chip8"
	"github.com/nf/octet/vip"
)

func TestParseCommand(t *testing.T) {
	for in, want := range map[string]command{
		"b 2a0":         {op: vip.SetBreak, addr: 0x2a0},
		"break 0x300":   {op: vip.SetBreak, addr: 0x300},
		"b $FFE":        {op: vip.SetBreak, addr: 0xffe},
		"b":             {op: vip.ClearBreak},
		"break":         {op: vip.ClearBreak},
		"p":             {op: vip.Pause},
		"pause":         {op: vip.Pause},
		"c":             {op: vip.Continue},
		"continue":      {op: vip.Continue},
		"s":             {op: vip.Step},
		"  step  ":      {op: vip.Step},
		"w 200":         {kind: watchCmd, addr: 0x200},
		"watch2 0x204":  {kind: watchCmd, addr: 0x204, short: true},
		"shot pong.png": {kind: shotCmd, file: "pong.png"},
		"exit":          {kind: exitCmd},
	} {
		got, err := parseCommand(in)
		if assert.NoError(t, err, in) {
			assert.Equal(t, want, got, in)
		}
	}
	for _, in := range []string{
		"", "jump", "b zz", "b fff", "b 10000", "w", "watch -1", "shot",
	} {
		_, err := parseCommand(in)
		assert.Error(t, err, in)
	}
	_, err := parseCommand("w")
	assert.ErrorIs(t, err, errNoArg)
}

func TestStateMsg(t *testing.T) {
	m, err := chip8.NewMachine([]byte{0xd1, 0x25})
	require.NoError(t, err)
	m.Stack = []uint16{0x20a}
	m.Reg.V[0xa] = 0x42

	msg := stateMsg(m, vip.BreakState)
	assert.Contains(t, msg, "0200 DRW V1, V2, $5")
	assert.Contains(t, msg, "[break]")
	assert.Contains(t, msg, "stack: [020a]")
	assert.Contains(t, msg, "A:42")

	m.PC = 0x300 // 0000 decodes as SYS
	assert.Contains(t, stateMsg(m, vip.PauseState), "[pause]")
	assert.Contains(t, stateMsg(m, vip.HaltState), "[HALT!]")
}

func TestWatchContent(t *testing.T) {
	d := newDebugger(vip.Config{})
	m, err := chip8.NewMachine([]byte{0x12, 0x34})
	require.NoError(t, err)

	assert.Empty(t, d.watchContent(m))

	d.exec(command{kind: watchCmd, addr: 0x200})
	d.exec(command{kind: watchCmd, addr: 0x200, short: true})
	d.exec(command{kind: watchCmd, addr: chip8.MemSize - 1, short: true})
	assert.Equal(t, "[0200]   12\n[0200] 1234\n[0ffe]   00", d.watchContent(m))
}

func TestDebuggerExecDoesNotBlock(t *testing.T) {
	d := newDebugger(vip.Config{})
	r := vip.NewRunner(vip.Config{Display: vip.NoDisplay, Hz: 1000}, nil)
	d.run = r

	// Nothing receives runner commands until Run starts.
	returned := make(chan bool)
	go func() {
		d.exec(command{op: vip.Pause})
		d.exec(command{op: vip.SetBreak, addr: 0x200})
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("exec blocked on the runner")
	}

	done := make(chan int, 1)
	go func() {
		code, err := r.Run([]byte{0x12, 0x00}) // JP $200
		assert.NoError(t, err)
		done <- code
	}()
	d.exec(command{op: vip.Exit})
	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("queued commands did not reach the runner")
	}
}
