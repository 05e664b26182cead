package vip

import (
	"fmt"
	"image"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/nf/octet/chip8"
)

type gui struct {
	r *Runner

	buf   screen.Buffer
	tex   screen.Texture
	dirty bool
}

func newGUI(r *Runner) *gui {
	return &gui{r: r}
}

// Run opens a window and draws frames until exit is closed or the window
// is closed.
func (g *gui) Run(exit <-chan bool) (err error) {
	driver.Main(func(s screen.Screen) {
		err = g.run(s, exit)
	})
	return
}

func (g *gui) run(s screen.Screen, exit <-chan bool) error {
	scale := g.r.cfg.Scale
	w, err := s.NewWindow(&screen.NewWindowOptions{
		Title:  "octet",
		Width:  chip8.Width * scale,
		Height: chip8.Height * scale,
	})
	if err != nil {
		return err
	}
	defer w.Release()

	sz := image.Point{chip8.Width, chip8.Height}
	if g.buf, err = s.NewBuffer(sz); err != nil {
		return err
	}
	if g.tex, err = s.NewTexture(sz); err != nil {
		return err
	}
	defer g.release()
	g.paint(&chip8.Frame{})

	type update struct{}
	go func() {
		t := time.NewTicker(time.Second / 60)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				w.Send(update{})
			case <-exit:
				w.Send(update{})
				return
			}
		}
	}()

	var winSize size.Event
	for {
		e := w.NextEvent()

		select {
		case <-exit:
			return nil
		default:
		}

		switch e := e.(type) {
		case size.Event:
			winSize = e
			if winSize.WidthPx+winSize.HeightPx == 0 {
				return nil
			}
			g.dirty = true

		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil
			}

		case paint.Event:
			g.dirty = true

		case mouse.Event:
			// Ignored.

		case key.Event:
			if e.Code == key.CodeEscape {
				return nil
			}
			g.key(e)

		case update:
			select {
			case f := <-g.r.Frames():
				g.paint(&f)
			default:
				// No new frame.
			}
			if g.dirty {
				w.Scale(winSize.Bounds(), g.tex, g.tex.Bounds(), draw.Src, nil)
				w.Publish()
				g.dirty = false
			}

		case error:
			log.Print(e)

		default:
			format := "gui: got %#v"
			if _, ok := e.(fmt.Stringer); ok {
				format = "gui: got %v"
			}
			log.Printf(format, e)
		}
	}
}

func (g *gui) key(e key.Event) {
	k, ok := KeyForCode(e.Code)
	if !ok {
		k, ok = KeyForRune(e.Rune)
	}
	if !ok {
		return
	}
	switch e.Direction {
	case key.DirPress:
		g.r.keys.Press(k)
	case key.DirRelease:
		g.r.keys.Release(k)
	}
	// DirNone is auto-repeat; the key is already held.
}

func (g *gui) paint(f *chip8.Frame) {
	drawFrame(g.buf.RGBA(), f, g.r.cfg.FG, g.r.cfg.BG)
	g.tex.Upload(image.Point{}, g.buf, g.buf.Bounds())
	g.dirty = true
}

func (g *gui) release() {
	if g.tex != nil {
		g.tex.Release()
	}
	if g.buf != nil {
		g.buf.Release()
	}
}
