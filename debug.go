package main

import (
	"errors"
	"fmt"
	"image/png"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nf/octet/chip8"
	"github.com/nf/octet/vip"
)

type debugger struct {
	run *vip.Runner
	cfg vip.Config

	log   *tview.TextView
	watch *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	// cmds queues runner commands; forward delivers them in order, off
	// the UI goroutine.
	cmds chan command

	mu      sync.Mutex
	brk     *uint16
	watches []watch
	frame   chip8.Frame // most recent display contents
}

type watch struct {
	addr  uint16
	short bool
}

var commandNames = []string{
	"break", "continue", "exit", "pause", "shot", "step", "watch", "watch2",
}

func newDebugger(cfg vip.Config) *debugger {
	d := &debugger{
		cfg: cfg,
		log: tview.NewTextView().
			SetMaxLines(1000),
		watch: tview.NewTextView().
			SetWrap(false).
			SetTextAlign(tview.AlignRight),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app:  tview.NewApplication(),
		cmds: make(chan command, 64),
	}
	go d.forward()
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.watch.SetBackgroundColor(tcell.ColorDarkBlue)
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.watch, 0, 1, false).
		AddItem(d.log, 0, 2, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 4, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetAutocompleteFunc(func(t string) (entries []string) {
		if t == "" || strings.Contains(t, " ") {
			return nil
		}
		for _, name := range commandNames {
			if strings.HasPrefix(name, t) {
				entries = append(entries, name)
			}
		}
		return
	})
	d.input.SetAutocompletedFunc(func(t string, index, src int) bool {
		if src != tview.AutocompletedNavigate {
			d.input.SetText(t)
		}
		return src == tview.AutocompletedEnter || src == tview.AutocompletedClick
	})
	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		text := d.input.GetText()
		if text == "" {
			return
		}
		d.input.SetText("")
		c, err := parseCommand(text)
		if err != nil {
			log.Print(err)
			return
		}
		d.exec(c)
	})
	return d
}

func (d *debugger) Run() error { return d.app.Run() }

func (d *debugger) forward() {
	for c := range d.cmds {
		d.run.Debug(c.op, c.addr)
	}
}

func (d *debugger) exec(c command) {
	switch c.kind {
	case exitCmd:
		d.app.Stop()
	case runCmd:
		select {
		case d.cmds <- c:
		default:
			log.Print("runner busy, command dropped")
			return
		}
		d.mu.Lock()
		switch c.op {
		case vip.SetBreak:
			addr := c.addr
			d.brk = &addr
			log.Printf("set break %.4x", addr)
		case vip.ClearBreak:
			d.brk = nil
			log.Print("cleared break")
		}
		d.mu.Unlock()
	case watchCmd:
		d.mu.Lock()
		d.watches = append(d.watches, watch{addr: c.addr, short: c.short})
		d.mu.Unlock()
		log.Printf("watching %.4x", c.addr)
	case shotCmd:
		if err := d.screenshot(c.file); err != nil {
			log.Printf("shot: %v", err)
			return
		}
		log.Printf("wrote %s", c.file)
	}
}

func (d *debugger) screenshot(file string) error {
	d.mu.Lock()
	f := d.frame
	d.mu.Unlock()
	out, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := png.Encode(out, vip.ScaledFrameImage(&f, d.cfg.FG, d.cfg.BG, d.cfg.Scale)); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (d *debugger) StateFunc(m *chip8.Machine, k vip.StateKind) {
	d.mu.Lock()
	d.frame = m.Display
	d.mu.Unlock()
	var (
		watch = d.watchContent(m)
		state string
	)
	if k != vip.ClearState && k != vip.QuietState {
		state = stateMsg(m, k)
	}
	d.app.QueueUpdateDraw(func() {
		switch k {
		case vip.ClearState:
			d.state.SetTextColor(tcell.ColorBlack)
			d.state.SetBackgroundColor(tcell.ColorDarkGrey)
		case vip.BreakState:
			d.state.SetTextColor(tcell.ColorYellow)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case vip.PauseState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case vip.HaltState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkRed)
		}
		d.watch.SetText(watch)
		if k != vip.QuietState {
			d.state.SetText(state)
		}
	})
}

func stateMsg(m *chip8.Machine, k vip.StateKind) string {
	next := "???"
	if in, err := m.Next(); err == nil {
		next = in.String()
	}
	kind := "       "
	switch k {
	case vip.BreakState:
		kind = "[break]"
	case vip.PauseState:
		kind = "[pause]"
	case vip.HaltState:
		kind = "[HALT!]"
	}
	return fmt.Sprintf("%.4x %-16s %s stack: %.4x\n%v\n",
		m.PC, next, kind, m.Stack, m.Reg)
}

func (d *debugger) watchContent(m *chip8.Machine) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	if a := d.brk; a != nil {
		fmt.Fprintf(&b, "[%.4x] brk!\n", *a)
	}
	for _, w := range d.watches {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%.4x] ", w.addr)
		if w.short && int(w.addr)+1 < len(m.Mem) {
			fmt.Fprintf(&b, "%.2x%.2x", m.Mem[w.addr], m.Mem[w.addr+1])
		} else {
			fmt.Fprintf(&b, "  %.2x", m.Mem[w.addr])
		}
	}
	return b.String()
}

type commandKind int

const (
	runCmd commandKind = iota
	watchCmd
	shotCmd
	exitCmd
)

type command struct {
	kind  commandKind
	op    vip.DebugOp // runCmd
	addr  uint16      // runCmd with SetBreak, watchCmd
	short bool        // watchCmd
	file  string      // shotCmd
}

var errNoArg = errors.New("missing argument")

// parseCommand parses a line typed into the debugger.
func parseCommand(s string) (command, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(s), " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "b", "break":
		if arg == "" {
			return command{op: vip.ClearBreak}, nil
		}
		addr, err := parseAddr(arg)
		if err != nil {
			return command{}, err
		}
		return command{op: vip.SetBreak, addr: addr}, nil
	case "p", "pause":
		return command{op: vip.Pause}, nil
	case "c", "continue":
		return command{op: vip.Continue}, nil
	case "s", "step":
		return command{op: vip.Step}, nil
	case "w", "watch", "w2", "watch2":
		if arg == "" {
			return command{}, fmt.Errorf("%s: %w", name, errNoArg)
		}
		addr, err := parseAddr(arg)
		if err != nil {
			return command{}, err
		}
		return command{kind: watchCmd, addr: addr, short: strings.HasSuffix(name, "2")}, nil
	case "shot":
		if arg == "" {
			return command{}, fmt.Errorf("%s: %w", name, errNoArg)
		}
		return command{kind: shotCmd, file: arg}, nil
	case "exit":
		return command{kind: exitCmd}, nil
	}
	return command{}, fmt.Errorf("unknown command %q", name)
}

// parseAddr parses a hex memory address, with an optional 0x or $ prefix.
func parseAddr(s string) (uint16, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "0x"), "$")
	v, err := strconv.ParseUint(h, 16, 16)
	if err != nil || v >= chip8.MemSize {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return uint16(v), nil
}
