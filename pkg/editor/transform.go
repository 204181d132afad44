package editor

import "math"

// Point is a pointer position in viewport coordinates.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Transform places the scaled source image on the viewport. OffsetX and OffsetY are
// the top-left corner of the scaled image.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Action is the terminal outcome of an editor event.
type Action int

const (
	// ActionNone means the session stays open.
	ActionNone Action = iota
	// ActionConfirm means the viewport should be exported and injected.
	ActionConfirm
	// ActionCancel means the session should be discarded.
	ActionCancel
)

func (a Action) String() string {
	switch a {
	case ActionConfirm:
		return "confirm"
	case ActionCancel:
		return "cancel"
	default:
		return "none"
	}
}

// State is the complete transform state of one edit. All handlers below are pure:
// they return a new State and never touch a display surface.
type State struct {
	Transform

	ViewportW, ViewportH float64
	ImageW, ImageH       float64
	MinZoom, MaxZoom     float64

	Dragging bool
	Last     Point
}

// NewState returns the initial state for an image: scale 1, centered.
func NewState(viewportW, viewportH, imageW, imageH int, minZoom, maxZoom float64) State {
	s := State{
		ViewportW: float64(viewportW),
		ViewportH: float64(viewportH),
		ImageW:    float64(imageW),
		ImageH:    float64(imageH),
		MinZoom:   minZoom,
		MaxZoom:   maxZoom,
	}
	s.Transform = s.centered(1.0)
	return s
}

// centered returns the transform at scale that centers the image in the viewport.
func (s State) centered(scale float64) Transform {
	return Transform{
		Scale:   scale,
		OffsetX: (s.ViewportW - s.ImageW*scale) / 2,
		OffsetY: (s.ViewportH - s.ImageH*scale) / 2,
	}
}

// clampZoom limits v to the zoom domain. NaN maps to the lower bound.
func (s State) clampZoom(v float64) float64 {
	if math.IsNaN(v) || v < s.MinZoom {
		return s.MinZoom
	}
	if v > s.MaxZoom {
		return s.MaxZoom
	}
	return v
}

// OnPointerDown starts a drag at p.
func OnPointerDown(s State, p Point) State {
	s.Dragging = true
	s.Last = p
	return s
}

// OnPointerMove adds the movement since the last recorded position to the offset.
// Without an active drag it does nothing.
func OnPointerMove(s State, p Point) State {
	if !s.Dragging {
		return s
	}
	d := p.Sub(s.Last)
	s.OffsetX += d.X
	s.OffsetY += d.Y
	s.Last = p
	return s
}

// OnPointerUp ends the drag.
func OnPointerUp(s State) State {
	s.Dragging = false
	return s
}

// OnZoomChange sets the scale to v, clamped to the zoom domain, and re-centers.
// Any manual pan is discarded.
func OnZoomChange(s State, v float64) State {
	s.Transform = s.centered(s.clampZoom(v))
	return s
}

// OnConfirm ends the edit with ActionConfirm.
func OnConfirm(s State) (State, Action) {
	s.Dragging = false
	return s, ActionConfirm
}

// OnCancel ends the edit with ActionCancel.
func OnCancel(s State) (State, Action) {
	s.Dragging = false
	return s, ActionCancel
}

// OnFrame fits region r of the source image (in image pixels) to the viewport,
// centered, with the scale clamped to the zoom domain.
func OnFrame(s State, minX, minY, maxX, maxY float64) State {
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 {
		return s
	}
	scale := s.clampZoom(math.Max(s.ViewportW/w, s.ViewportH/h))
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	s.Transform = Transform{
		Scale:   scale,
		OffsetX: s.ViewportW/2 - cx*scale,
		OffsetY: s.ViewportH/2 - cy*scale,
	}
	return s
}
