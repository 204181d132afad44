package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/dixieflatline76/Recrop/pkg/editor"
)

// viewport shows a session's render and turns drags into pointer events.
type viewport struct {
	widget.BaseWidget
	session  *editor.Session
	raster   *canvas.Raster
	size     fyne.Size
	dragging bool
}

func newViewport(s *editor.Session) *viewport {
	opts := s.Options()
	v := &viewport{
		session: s,
		size:    fyne.NewSize(float32(opts.Width), float32(opts.Height)),
	}
	v.raster = canvas.NewRaster(s.Draw)
	v.raster.ScaleMode = canvas.ImageScalePixels
	v.raster.SetMinSize(v.size)
	v.ExtendBaseWidget(v)
	return v
}

func (v *viewport) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

func (v *viewport) MinSize() fyne.Size {
	return v.size
}

// toViewport maps a widget position to viewport pixels.
func (v *viewport) toViewport(pos fyne.Position) editor.Point {
	p := editor.Point{X: float64(pos.X), Y: float64(pos.Y)}
	size := v.Size()
	if size.Width > 0 && size.Height > 0 {
		p.X *= float64(v.size.Width / size.Width)
		p.Y *= float64(v.size.Height / size.Height)
	}
	return p
}

func (v *viewport) Dragged(ev *fyne.DragEvent) {
	if !v.dragging {
		v.dragging = true
		start := fyne.NewPos(ev.Position.X-ev.Dragged.DX, ev.Position.Y-ev.Dragged.DY)
		v.session.PointerDown(v.toViewport(start))
	}
	v.session.PointerMove(v.toViewport(ev.Position))
	v.raster.Refresh()
}

func (v *viewport) DragEnd() {
	v.dragging = false
	v.session.PointerUp()
}
