package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// Alignment specifies where a split row places its two widgets.
type Alignment int

const (
	alignLeft Alignment = iota
	alignCenter
	alignOpposed
)

// SplitAlign is a namespace for the Alignment constants.
var SplitAlign = struct {
	Left    Alignment // both widgets packed to the left
	Center  Alignment // both widgets centered
	Opposed Alignment // first widget left, second widget right
}{
	Left:    alignLeft,
	Center:  alignCenter,
	Opposed: alignOpposed,
}

// FirstWidgetProportion is the share of the row given to the first widget.
type FirstWidgetProportion int

const (
	oneThird  FirstWidgetProportion = iota // 1/3 - 2/3
	oneFourth                              // 1/4 - 3/4
	oneFifth                               // 1/5 - 4/5
	twoThirds                              // 2/3 - 1/3
)

// SplitProportion is a namespace for the FirstWidgetProportion constants.
var SplitProportion = struct {
	OneThird  FirstWidgetProportion
	OneFourth FirstWidgetProportion
	OneFifth  FirstWidgetProportion
	TwoThirds FirstWidgetProportion
}{
	OneThird:  oneThird,
	OneFourth: oneFourth,
	OneFifth:  oneFifth,
	TwoThirds: twoThirds,
}

func (p FirstWidgetProportion) fraction() float32 {
	switch p {
	case oneFourth:
		return 1.0 / 4
	case oneFifth:
		return 1.0 / 5
	case twoThirds:
		return 2.0 / 3
	default:
		return 1.0 / 3
	}
}

// splitLayout lays out a label/control row.
type splitLayout struct {
	widget1    fyne.CanvasObject
	widget2    fyne.CanvasObject
	proportion FirstWidgetProportion
	alignment  Alignment
}

func (s *splitLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	w1, w2 := s.widget1.MinSize(), s.widget2.MinSize()
	return fyne.NewSize(w1.Width+w2.Width, fyne.Max(w1.Height, w2.Height))
}

func (s *splitLayout) Layout(_ []fyne.CanvasObject, size fyne.Size) {
	height := s.MinSize(nil).Height
	width1 := size.Width * s.proportion.fraction()
	width2 := size.Width - width1

	s.widget1.Resize(fyne.NewSize(width1, height))
	s.widget2.Resize(fyne.NewSize(width2, height))

	var x1 float32
	if s.alignment == alignCenter {
		x1 = (size.Width - width1 - width2) / 2
	}
	x2 := x1 + width1
	if s.alignment == alignOpposed {
		x2 = size.Width - width2
	}
	s.widget1.Move(fyne.NewPos(x1, 0))
	s.widget2.Move(fyne.NewPos(x2, 0))
}

// NewSplitRowWithAlignment creates a split row with the given proportion and alignment.
func NewSplitRowWithAlignment(widget1, widget2 fyne.CanvasObject, proportion FirstWidgetProportion, alignment Alignment) *fyne.Container {
	return container.New(&splitLayout{
		widget1:    widget1,
		widget2:    widget2,
		proportion: proportion,
		alignment:  alignment,
	}, widget1, widget2)
}

// NewSplitRow creates a left-aligned split row.
func NewSplitRow(widget1, widget2 fyne.CanvasObject, proportion FirstWidgetProportion) *fyne.Container {
	return NewSplitRowWithAlignment(widget1, widget2, proportion, alignLeft)
}
