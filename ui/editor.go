package ui

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dixieflatline76/Recrop/pkg/editor"
	"github.com/dixieflatline76/Recrop/util/log"
)

// Controller finishes or abandons an edit session.
type Controller interface {
	Confirm(s *editor.Session) error
	Cancel(s *editor.Session) error
}

// EditorPresenter shows one modal editor at a time over a parent window.
type EditorPresenter struct {
	parent     fyne.Window
	controller Controller
	step       float64
	do         func(func())

	mu      sync.Mutex
	dialog  dialog.Dialog
	session *editor.Session
	slider  *widget.Slider
	view    *viewport
}

// NewEditorPresenter creates a presenter whose zoom slider moves in step increments.
func NewEditorPresenter(parent fyne.Window, step float64) *EditorPresenter {
	if step <= 0 {
		step = 0.1
	}
	return &EditorPresenter{
		parent: parent,
		step:   step,
		do:     fyne.Do,
	}
}

// SetController sets who Save and Cancel report to.
func (p *EditorPresenter) SetController(c Controller) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.controller = c
}

// Session returns the session on screen, or nil.
func (p *EditorPresenter) Session() *editor.Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

// Present opens the editor for s, replacing any editor already open. It must be
// called on the UI thread.
func (p *EditorPresenter) Present(s *editor.Session) {
	view := newViewport(s)
	opts := s.Options()

	slider := widget.NewSlider(opts.MinZoom, opts.MaxZoom)
	slider.Step = p.step
	slider.Value = s.State().Scale
	slider.OnChanged = func(v float64) {
		s.SetZoom(v)
		view.Refresh()
	}

	save := widget.NewButtonWithIcon("Save", theme.ConfirmIcon(), func() {
		p.confirm(s)
	})
	save.Importance = widget.HighImportance
	cancel := widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), func() {
		p.cancel(s)
	})
	autoFrame := widget.NewButtonWithIcon("Auto-frame", theme.ViewFullScreenIcon(), func() {
		p.autoFrame(s)
	})

	zoomRow := NewSplitRow(CreateSettingTitleLabel("Zoom:"), slider, SplitProportion.OneFifth)
	buttons := container.NewHBox(autoFrame, layout.NewSpacer(), cancel, save)
	content := container.NewBorder(nil, container.NewVBox(zoomRow, buttons), nil, nil, container.NewCenter(view))

	d := dialog.NewCustomWithoutButtons("Edit Image", content, p.parent)
	d.SetOnClosed(func() {
		// Closed some other way than Save or Cancel
		if p.Session() == s {
			p.cancel(s)
		}
	})

	p.mu.Lock()
	prev := p.dialog
	p.dialog, p.session, p.slider, p.view = d, s, slider, view
	p.mu.Unlock()

	if prev != nil {
		prev.Hide()
	}
	d.Show()
}

// Dismiss closes the editor if it is still showing s.
func (p *EditorPresenter) Dismiss(s *editor.Session) {
	p.mu.Lock()
	if p.session != s {
		p.mu.Unlock()
		return
	}
	d := p.dialog
	p.dialog, p.session, p.slider, p.view = nil, nil, nil, nil
	p.mu.Unlock()

	if d != nil {
		p.do(d.Hide)
	}
}

func (p *EditorPresenter) confirm(s *editor.Session) {
	p.mu.Lock()
	c := p.controller
	p.mu.Unlock()
	if c == nil {
		return
	}
	if err := c.Confirm(s); err != nil {
		log.Printf("Failed to save edited image: %v", err)
		dialog.ShowError(err, p.parent)
	}
}

func (p *EditorPresenter) cancel(s *editor.Session) {
	p.mu.Lock()
	c := p.controller
	p.mu.Unlock()
	if c == nil {
		return
	}
	if err := c.Cancel(s); err != nil {
		log.Debugf("Cancel ignored: %v", err)
	}
}

// autoFrame frames the salient region and moves the slider without re-centering.
func (p *EditorPresenter) autoFrame(s *editor.Session) {
	if err := s.AutoFrame(); err != nil {
		log.Printf("Auto-frame failed: %v", err)
		return
	}
	p.mu.Lock()
	slider, view := p.slider, p.view
	p.mu.Unlock()
	if slider != nil && p.Session() == s {
		slider.Value = s.State().Scale
		slider.Refresh()
	}
	if view != nil {
		view.Refresh()
	}
}
