package vip

import (
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/nf/octet/chip8"
)

// Terminals report key presses but not releases, so a key is held for
// termKeyHold after its last press or auto-repeat.
const termKeyHold = 150 * time.Millisecond

type term struct {
	r      *Runner
	screen tcell.Screen // nil until Run, or set by tests
	keys   *Keypad

	on, off, half tcell.Style

	timers map[chip8.Key]*time.Timer
}

func newTerm(r *Runner) *term {
	t := &term{
		r:      r,
		keys:   &r.keys,
		timers: map[chip8.Key]*time.Timer{},
	}
	t.setColors(r.cfg.FG, r.cfg.BG)
	return t
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (t *term) setColors(fg, bg color.RGBA) {
	f, b := tcellColor(fg), tcellColor(bg)
	t.on = tcell.StyleDefault.Foreground(f).Background(f)
	t.off = tcell.StyleDefault.Foreground(b).Background(b)
	t.half = tcell.StyleDefault.Foreground(f).Background(b)
}

// Run draws frames in the terminal until exit is closed or the user
// presses Esc or Ctrl-C.
func (t *term) Run(exit <-chan bool) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()
	t.screen = s
	s.Clear()
	s.Show()

	quit := make(chan bool)
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return // Screen finalized.
			}
			if !t.handle(ev) {
				close(quit)
				return
			}
		}
	}()
	for {
		select {
		case f := <-t.r.Frames():
			t.draw(&f)
		case <-quit:
			return nil
		case <-exit:
			return nil
		}
	}
}

// handle processes a terminal event and reports whether to keep running.
func (t *term) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			if k, ok := KeyForRune(ev.Rune()); ok {
				t.press(k)
			}
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

// press holds k until termKeyHold passes without another press of k.
func (t *term) press(k chip8.Key) {
	if tm, ok := t.timers[k]; ok && tm.Stop() {
		tm.Reset(termKeyHold)
		return
	}
	t.keys.Press(k)
	t.timers[k] = time.AfterFunc(termKeyHold, func() { t.keys.Release(k) })
}

// draw renders f using half-block characters, two pixel rows per cell.
func (t *term) draw(f *chip8.Frame) {
	for row := 0; row < chip8.Height/2; row++ {
		for x := 0; x < chip8.Width; x++ {
			var (
				up   = f.At(x, 2*row) == chip8.On
				down = f.At(x, 2*row+1) == chip8.On
				r    = ' '
				st   = t.off
			)
			switch {
			case up && down:
				r, st = '█', t.on
			case up:
				r, st = '▀', t.half
			case down:
				r, st = '▄', t.half
			}
			t.screen.SetContent(x, row, r, nil, st)
		}
	}
	t.screen.Show()
}
