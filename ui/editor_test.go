package ui

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/dixieflatline76/Recrop/pkg/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingController records what the editor reports.
type recordingController struct {
	mu         sync.Mutex
	confirmed  []*editor.Session
	canceled   []*editor.Session
	confirmErr error
}

func (c *recordingController) Confirm(s *editor.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmed = append(c.confirmed, s)
	return c.confirmErr
}

func (c *recordingController) Cancel(s *editor.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.canceled = append(c.canceled, s)
	return nil
}

func newTestSession(w, h int) *editor.Session {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return editor.NewSession(editor.NewSource(img), editor.DefaultOptions())
}

func newTestPresenter(t *testing.T) (*EditorPresenter, *recordingController) {
	t.Helper()
	test.NewApp()
	w := test.NewWindow(nil)
	w.Resize(fyne.NewSize(800, 800))
	t.Cleanup(w.Close)

	p := NewEditorPresenter(w, 0.1)
	p.do = func(fn func()) { fn() }
	c := &recordingController{}
	p.SetController(c)
	return p, c
}

func TestPresentBuildsControls(t *testing.T) {
	p, _ := newTestPresenter(t)
	s := newTestSession(300, 200)
	defer s.Close()

	p.Present(s)
	require.Equal(t, s, p.Session())
	require.NotNil(t, p.slider)

	assert.Equal(t, 0.5, p.slider.Min)
	assert.Equal(t, 3.0, p.slider.Max)
	assert.Equal(t, 0.1, p.slider.Step)
	assert.Equal(t, 1.0, p.slider.Value)
	assert.Equal(t, fyne.NewSize(500, 500), p.view.MinSize())
}

func TestSliderZooms(t *testing.T) {
	p, _ := newTestPresenter(t)
	s := newTestSession(300, 200)
	defer s.Close()
	p.Present(s)

	p.slider.SetValue(2)
	st := s.State()
	assert.Equal(t, 2.0, st.Scale)
	assert.Equal(t, (500-600)/2.0, st.OffsetX)
	assert.Equal(t, (500-400)/2.0, st.OffsetY)
}

func TestViewportDragPans(t *testing.T) {
	p, _ := newTestPresenter(t)
	s := newTestSession(300, 200)
	defer s.Close()
	p.Present(s)
	p.view.Resize(p.view.MinSize())
	before := s.State()

	p.view.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(30, 40)},
		Dragged:    fyne.NewDelta(10, 20),
	})
	assert.True(t, s.State().Dragging)
	p.view.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(35, 45)},
		Dragged:    fyne.NewDelta(5, 5),
	})
	p.view.DragEnd()

	after := s.State()
	assert.False(t, after.Dragging)
	assert.Equal(t, before.OffsetX+15, after.OffsetX)
	assert.Equal(t, before.OffsetY+25, after.OffsetY)
}

func TestViewportScalesPointer(t *testing.T) {
	p, _ := newTestPresenter(t)
	s := newTestSession(300, 200)
	defer s.Close()
	p.Present(s)

	p.view.Resize(fyne.NewSize(250, 250))
	assert.Equal(t, editor.Point{X: 20, Y: 40}, p.view.toViewport(fyne.NewPos(10, 20)))
}

func TestSaveAndCancelReportToController(t *testing.T) {
	p, c := newTestPresenter(t)
	s := newTestSession(50, 50)
	defer s.Close()
	p.Present(s)

	p.confirm(s)
	p.cancel(s)
	assert.Equal(t, []*editor.Session{s}, c.confirmed)
	assert.Equal(t, []*editor.Session{s}, c.canceled)
}

func TestSaveErrorKeepsEditor(t *testing.T) {
	p, c := newTestPresenter(t)
	c.confirmErr = errors.New("boom")
	s := newTestSession(50, 50)
	defer s.Close()
	p.Present(s)

	p.confirm(s)
	assert.Equal(t, s, p.Session())
}

func TestDismiss(t *testing.T) {
	p, c := newTestPresenter(t)
	s := newTestSession(50, 50)
	defer s.Close()
	p.Present(s)

	// Dismissing a session that is not shown is a no-op
	other := newTestSession(10, 10)
	defer other.Close()
	p.Dismiss(other)
	assert.Equal(t, s, p.Session())

	p.Dismiss(s)
	assert.Nil(t, p.Session())
	assert.Empty(t, c.canceled)
}

func TestPresentReplacesEditor(t *testing.T) {
	p, c := newTestPresenter(t)
	first := newTestSession(50, 50)
	defer first.Close()
	second := newTestSession(60, 60)
	defer second.Close()

	p.Present(first)
	p.Present(second)
	assert.Equal(t, second, p.Session())
	assert.Empty(t, c.canceled)
}

func TestAutoFrameMovesSlider(t *testing.T) {
	p, _ := newTestPresenter(t)
	s := newTestSession(1000, 400)
	defer s.Close()
	p.Present(s)

	p.autoFrame(s)
	assert.Equal(t, s.State().Scale, p.slider.Value)
	assert.NotEqual(t, 1.0, p.slider.Value)
}
