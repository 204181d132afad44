// Package editor is the crop/zoom engine: a fixed-size viewport over a pannable,
// zoomable copy of one image, exported as exactly the pixels it displays.
package editor

import (
	"errors"
	"image"
	"sync"

	"github.com/dixieflatline76/Recrop/config"
	"github.com/dixieflatline76/Recrop/util/log"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session closed")

// Options configures a Session.
type Options struct {
	Width, Height    int
	MinZoom, MaxZoom float64
	ExportName       string
	ExportType       string
	Interpolator     xdraw.Interpolator
}

// DefaultOptions returns a 500×500 viewport with zoom [0.5, 3.0] exporting PNG.
func DefaultOptions() Options {
	return Options{
		Width:        config.DefaultViewportWidth,
		Height:       config.DefaultViewportHeight,
		MinZoom:      config.DefaultZoomMin,
		MaxZoom:      config.DefaultZoomMax,
		ExportName:   config.DefaultExportName,
		ExportType:   config.DefaultExportType,
		Interpolator: LookupInterpolator(config.DefaultInterpolation),
	}
}

// OptionsFromConfig builds session options from the user's preferences.
func OptionsFromConfig(c *config.AppConfig) Options {
	o := DefaultOptions()
	o.Width, o.Height = c.GetViewportSize()
	o.MinZoom, o.MaxZoom = c.GetZoomRange()
	o.ExportName = c.GetExportName()
	o.ExportType = c.GetExportType()
	o.Interpolator = LookupInterpolator(c.GetInterpolation())
	return o
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 || o.Height <= 0 {
		o.Width, o.Height = d.Width, d.Height
	}
	if o.MinZoom <= 0 || o.MaxZoom < o.MinZoom {
		o.MinZoom, o.MaxZoom = d.MinZoom, d.MaxZoom
	}
	if o.ExportName == "" {
		o.ExportName = d.ExportName
	}
	if o.ExportType == "" {
		o.ExportType = d.ExportType
	}
	if o.Interpolator == nil {
		o.Interpolator = d.Interpolator
	}
	return o
}

// Session is one in-progress edit of one image. Every mutation re-renders the
// viewport before returning.
type Session struct {
	id   string
	opts Options

	mu       sync.Mutex
	src      *Source
	state    State
	viewport *image.RGBA
	closed   bool
}

// NewSession opens a session on src with the initial centered transform already rendered.
func NewSession(src *Source, opts Options) *Session {
	opts = opts.withDefaults()
	s := &Session{
		id:       uuid.NewString(),
		opts:     opts,
		src:      src,
		state:    NewState(opts.Width, opts.Height, src.Width, src.Height, opts.MinZoom, opts.MaxZoom),
		viewport: image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
	}
	s.render()
	log.Debugf("session %s opened: image %dx%d, viewport %dx%d", s.id, src.Width, src.Height, opts.Width, opts.Height)
	return s
}

// ID returns the session's unique id.
func (s *Session) ID() string {
	return s.id
}

// Options returns the options the session was opened with.
func (s *Session) Options() Options {
	return s.opts
}

// State returns a copy of the current transform state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// render must be called with mu held.
func (s *Session) render() {
	Render(s.viewport, s.src.Image, s.state.Transform, s.opts.Interpolator)
}

// apply runs a pure handler and re-renders if the transform moved.
func (s *Session) apply(fn func(State) State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	prev := s.state.Transform
	s.state = fn(s.state)
	if s.state.Transform != prev {
		s.render()
	}
}

// PointerDown starts a pan drag at p.
func (s *Session) PointerDown(p Point) {
	s.apply(func(st State) State { return OnPointerDown(st, p) })
}

// PointerMove pans by the movement since the last pointer event.
func (s *Session) PointerMove(p Point) {
	s.apply(func(st State) State { return OnPointerMove(st, p) })
}

// PointerUp ends a pan drag.
func (s *Session) PointerUp() {
	s.apply(OnPointerUp)
}

// SetZoom sets the scale and re-centers the image.
func (s *Session) SetZoom(v float64) {
	s.apply(func(st State) State { return OnZoomChange(st, v) })
}

// AutoFrame fits the most interesting region of the image to the viewport.
func (s *Session) AutoFrame() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	img, w, h := s.src.Image, s.opts.Width, s.opts.Height
	s.mu.Unlock()

	r, err := FindFrame(img, w, h)
	if err != nil {
		return err
	}
	r = r.Sub(img.Bounds().Min)
	s.apply(func(st State) State {
		return OnFrame(st, float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y))
	})
	return nil
}

// Viewport returns a copy of the viewport as last rendered.
func (s *Session) Viewport() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewport == nil {
		return nil
	}
	out := image.NewRGBA(s.viewport.Rect)
	copy(out.Pix, s.viewport.Pix)
	return out
}

// Draw returns the viewport for a raster of the given size. The viewport has a fixed
// size, so w and h only matter to the caller's scaling.
func (s *Session) Draw(w, h int) image.Image {
	if v := s.Viewport(); v != nil {
		return v
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1))
}

// Closed reports whether the session has been closed.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the source and viewport. Closing twice is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.src = nil
	s.viewport = nil
	log.Debugf("session %s closed", s.id)
}
