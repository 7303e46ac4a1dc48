// Package tracewindow renders a live bus trace into a scrolling SDL2 strip,
// for interactively watching a Chip execute instead of reading a log.
package tracewindow

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/veandco/go-sdl2/sdl"
)

// Event is one recorded bus transaction, in the shape a host's Bus wrapper
// emits as it forwards reads and writes to the Chip it's driving.
type Event struct {
	Cycle uint64
	Addr  uint16
	Val   uint8
	Write bool
}

const (
	colWidth  = 90
	rowHeight = 16
	margin    = 8
)

// fastImage adapts an sdl.Surface's raw pixel buffer to draw.Image, the same
// direct-poke approach the teacher's video front end uses to avoid the
// allocation overhead of Surface.Set's color.Color conversion.
type fastImage struct {
	surface *sdl.Surface
	data    []byte
}

func (f *fastImage) Set(x, y int, c color.Color) {
	if x < 0 || y < 0 || int32(x) >= f.surface.W || int32(y) >= f.surface.H {
		return
	}
	i := int32(y)*f.surface.Pitch + int32(x)*int32(f.surface.Format.BytesPerPixel)
	r, g, b, a := c.RGBA()
	f.data[i+0] = uint8(b >> 8)
	f.data[i+1] = uint8(g >> 8)
	f.data[i+2] = uint8(r >> 8)
	f.data[i+3] = uint8(a >> 8)
}

func (f *fastImage) ColorModel() color.Model { return f.surface.ColorModel() }
func (f *fastImage) Bounds() image.Rectangle { return f.surface.Bounds() }
func (f *fastImage) At(x, y int) color.Color { return f.surface.At(x, y) }

// Window is a live bus-trace strip: one row per recent cycle, scrolling
// upward as new events arrive.
type Window struct {
	rows     int
	window   *sdl.Window
	fi       *fastImage
	face     font.Face
	events   []Event
	closed   bool
}

// Open creates an SDL2 window sized for rows of trace history. The caller
// drives event intake with Push and repaints with Render; Close tears the
// window down.
func Open(rows int) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("tracewindow: sdl init: %w", err)
	}
	h := int32(rows*rowHeight + 2*margin)
	w := int32(colWidth + 2*margin)
	win, err := sdl.CreateWindow("bus trace", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, w, h, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("tracewindow: create window: %w", err)
	}
	surface, err := win.GetSurface()
	if err != nil {
		win.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("tracewindow: get surface: %w", err)
	}
	return &Window{
		rows:   rows,
		window: win,
		fi:     &fastImage{surface: surface, data: surface.Pixels()},
		face:   basicfont.Face7x13,
	}, nil
}

// Push appends an event to the trace history, discarding the oldest entry
// once the window is full.
func (w *Window) Push(ev Event) {
	w.events = append(w.events, ev)
	if len(w.events) > w.rows {
		w.events = w.events[len(w.events)-w.rows:]
	}
}

// Render redraws the full strip and flips the window surface.
func (w *Window) Render() error {
	bg := color.RGBA{0, 0, 0, 0xff}
	draw.Draw(w.fi, w.fi.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for i, ev := range w.events {
		y := margin + i*rowHeight + 10
		c := color.RGBA{0x40, 0xff, 0x40, 0xff}
		if ev.Write {
			c = color.RGBA{0xff, 0x60, 0x40, 0xff}
		}
		line := fmt.Sprintf("%06d %c %04x %02x", ev.Cycle, rwMark(ev.Write), ev.Addr, ev.Val)
		w.drawString(margin, y, line, c)
	}
	return w.window.UpdateSurface()
}

func rwMark(write bool) rune {
	if write {
		return 'W'
	}
	return 'R'
}

func (w *Window) drawString(x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  w.fi,
		Src:  image.NewUniform(c),
		Face: w.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// PumpEvents drains pending SDL events, reporting whether the window was
// asked to close.
func (w *Window) PumpEvents() bool {
	for {
		switch sdl.PollEvent().(type) {
		case *sdl.QuitEvent:
			return true
		case nil:
			return false
		}
	}
}

// Close tears down the window and the SDL subsystem it started.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.window.Destroy()
	sdl.Quit()
}
