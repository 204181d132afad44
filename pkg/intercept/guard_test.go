package intercept

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dixieflatline76/Recrop/pkg/blob"
	"github.com/dixieflatline76/Recrop/pkg/dom"
	"github.com/dixieflatline76/Recrop/pkg/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPresenter is a testify mock of Presenter.
type MockPresenter struct {
	mock.Mock
}

func (m *MockPresenter) Present(s *editor.Session) {
	m.Called(s)
}

func (m *MockPresenter) Dismiss(s *editor.Session) {
	m.Called(s)
}

// recordingPresenter records Present and Dismiss calls.
type recordingPresenter struct {
	mu        sync.Mutex
	presented []*editor.Session
	dismissed []*editor.Session
}

func (p *recordingPresenter) Present(s *editor.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.presented = append(p.presented, s)
}

func (p *recordingPresenter) Dismiss(s *editor.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dismissed = append(p.dismissed, s)
}

func (p *recordingPresenter) last() *editor.Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.presented) == 0 {
		return nil
	}
	return p.presented[len(p.presented)-1]
}

// gatedDecoder blocks each decode until its file name is released.
type gatedDecoder struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func newGatedDecoder() *gatedDecoder {
	return &gatedDecoder{gates: make(map[string]chan struct{})}
}

func (d *gatedDecoder) gate(name string) chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	g, ok := d.gates[name]
	if !ok {
		g = make(chan struct{})
		d.gates[name] = g
	}
	return g
}

func (d *gatedDecoder) release(name string) {
	close(d.gate(name))
}

func (d *gatedDecoder) Decode(ctx context.Context, f blob.File) (*editor.Source, error) {
	<-d.gate(f.Name)
	return editor.DecodeFile(ctx, f)
}

type harness struct {
	input     *dom.FileInput
	guard     *Guard
	presenter *recordingPresenter
	posted    chan func()
	host      []*dom.Event
}

func newHarness(t *testing.T, decoder editor.Decoder, opts ...Option) *harness {
	h := &harness{
		input:     dom.NewFileInput("imageUri"),
		presenter: &recordingPresenter{},
		posted:    make(chan func(), 16),
	}
	opts = append([]Option{WithScheduler(func(fn func()) { h.posted <- fn })}, opts...)
	h.guard = NewGuard(decoder, h.presenter, opts...)
	require.NoError(t, h.guard.Bind(h.input))

	// The host page's own upload handler
	h.input.AddEventListener(dom.EventChange, func(ev *dom.Event) {
		h.host = append(h.host, ev)
	}, false)
	t.Cleanup(h.guard.Close)
	return h
}

// drain runs the next posted decode completion.
func (h *harness) drain(t *testing.T) {
	t.Helper()
	select {
	case fn := <-h.posted:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for decode")
	}
}

// selectFile simulates a user selection and returns the dispatched event.
func (h *harness) selectFile(files ...blob.File) *dom.Event {
	h.input.SetFiles(files, "")
	ev := dom.NewUserEvent(dom.EventChange)
	h.input.DispatchEvent(ev)
	return ev
}

func pngFile(t *testing.T, name string, w, h int) blob.File {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{G: 200, A: 255}}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return blob.File{Name: name, Type: "image/png", Data: buf.Bytes()}
}

func TestInterceptionRoundTrip(t *testing.T) {
	h := newHarness(t, editor.FileDecoder)

	// First user selection is intercepted
	ev := h.selectFile(pngFile(t, "photo.png", 300, 200))
	assert.True(t, ev.DefaultPrevented())
	assert.True(t, ev.PropagationStopped())
	assert.Empty(t, h.host)

	h.drain(t)
	sess := h.guard.Active()
	require.NotNil(t, sess)
	assert.Equal(t, sess, h.presenter.last())

	// Confirm injects a synthetic change that reaches the host
	require.NoError(t, h.guard.Confirm(sess))
	require.Len(t, h.host, 1)
	injected := h.host[0]
	assert.False(t, injected.DefaultPrevented())
	assert.False(t, injected.Trusted)
	assert.True(t, injected.Bubbles)
	assert.Equal(t, Normal, h.guard.State())
	assert.Nil(t, h.guard.Active())
	assert.True(t, sess.Closed())
	assert.Contains(t, h.presenter.dismissed, sess)

	files := h.input.Files()
	require.Len(t, files, 1)
	assert.Equal(t, "edited-image.png", files[0].Name)
	assert.Equal(t, "image/png", files[0].Type)
	assert.True(t, strings.HasPrefix(h.input.Value(), "data:image/png;base64,"))

	out, err := png.Decode(bytes.NewReader(files[0].Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 500, 500), out.Bounds())

	// A third, independent user selection is intercepted again
	ev = h.selectFile(pngFile(t, "again.png", 10, 10))
	assert.True(t, ev.DefaultPrevented())
	assert.Len(t, h.host, 1)
	h.drain(t)
	assert.NotNil(t, h.guard.Active())
}

func TestUnarmedSyntheticEventIsIntercepted(t *testing.T) {
	h := newHarness(t, editor.FileDecoder)

	ev := dom.NewSyntheticEvent(dom.EventChange, true)
	h.input.DispatchEvent(ev)
	assert.True(t, ev.DefaultPrevented())
	assert.Empty(t, h.host)
}

func TestNoFileSelected(t *testing.T) {
	h := newHarness(t, editor.FileDecoder)

	ev := h.selectFile()
	assert.True(t, ev.DefaultPrevented())
	assert.Empty(t, h.host)
	assert.Nil(t, h.guard.Active())
	assert.Empty(t, h.posted)
}

func TestDecodeFailureIsDropped(t *testing.T) {
	h := newHarness(t, editor.FileDecoder)

	h.selectFile(blob.File{Name: "broken.png", Type: "image/png", Data: []byte("nope")})
	h.drain(t)

	assert.Nil(t, h.guard.Active())
	assert.Nil(t, h.presenter.last())
	assert.Empty(t, h.host)

	// The guard keeps working afterwards
	h.selectFile(pngFile(t, "ok.png", 20, 20))
	h.drain(t)
	assert.NotNil(t, h.guard.Active())
}

func TestNewerSelectionReplacesOpenSession(t *testing.T) {
	h := newHarness(t, editor.FileDecoder)

	h.selectFile(pngFile(t, "first.png", 20, 20))
	h.drain(t)
	first := h.guard.Active()
	require.NotNil(t, first)

	h.selectFile(pngFile(t, "second.png", 30, 30))
	// The stale session is released as soon as the newer selection arrives
	assert.True(t, first.Closed())
	assert.Contains(t, h.presenter.dismissed, first)
	assert.Nil(t, h.guard.Active())

	h.drain(t)
	second := h.guard.Active()
	require.NotNil(t, second)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 30.0, second.State().ImageW)

	assert.ErrorIs(t, h.guard.Confirm(first), ErrStaleSession)
	assert.ErrorIs(t, h.guard.Cancel(first), ErrStaleSession)
	assert.Empty(t, h.host)
}

func TestStaleDecodeHasNoEffect(t *testing.T) {
	dec := newGatedDecoder()
	h := newHarness(t, dec)

	h.selectFile(pngFile(t, "slow.png", 20, 20))
	h.selectFile(pngFile(t, "fast.png", 40, 40))

	dec.release("fast.png")
	h.drain(t)
	active := h.guard.Active()
	require.NotNil(t, active)
	assert.Equal(t, 40.0, active.State().ImageW)

	dec.release("slow.png")
	h.drain(t)
	assert.Equal(t, active, h.guard.Active())
	assert.Len(t, h.presenter.presented, 1)
}

func TestCancelLeavesInputUntouched(t *testing.T) {
	h := newHarness(t, editor.FileDecoder)
	original := pngFile(t, "keep.png", 20, 20)

	h.selectFile(original)
	h.drain(t)
	sess := h.guard.Active()
	require.NotNil(t, sess)

	filesBefore, valueBefore := h.input.Files(), h.input.Value()
	require.NoError(t, h.guard.Cancel(sess))

	assert.Equal(t, filesBefore, h.input.Files())
	assert.Equal(t, valueBefore, h.input.Value())
	assert.Empty(t, h.host)
	assert.Nil(t, h.guard.Active())
	assert.True(t, sess.Closed())
	assert.Equal(t, Normal, h.guard.State())

	assert.ErrorIs(t, h.guard.Cancel(sess), ErrStaleSession)
}

func TestExportFailureKeepsSessionOpen(t *testing.T) {
	opts := editor.DefaultOptions()
	opts.ExportType = "image/x-unknown"
	h := newHarness(t, editor.FileDecoder, WithSessionOptions(opts))

	h.selectFile(pngFile(t, "a.png", 20, 20))
	h.drain(t)
	sess := h.guard.Active()
	require.NotNil(t, sess)

	assert.Error(t, h.guard.Confirm(sess))
	assert.Equal(t, sess, h.guard.Active())
	assert.Equal(t, Normal, h.guard.State())
	assert.Empty(t, h.host)
}

func TestAutoFrameOnOpen(t *testing.T) {
	h := newHarness(t, editor.FileDecoder, WithAutoFrame(true))

	h.selectFile(pngFile(t, "wide.png", 1000, 400))
	h.drain(t)
	sess := h.guard.Active()
	require.NotNil(t, sess)
	assert.NotEqual(t, 1.0, sess.State().Scale)
}

func TestBindTwice(t *testing.T) {
	h := newHarness(t, editor.FileDecoder)
	assert.ErrorIs(t, h.guard.Bind(dom.NewFileInput("other")), ErrAlreadyBound)
}

func TestCloseDiscardsActiveSession(t *testing.T) {
	h := newHarness(t, editor.FileDecoder)
	h.selectFile(pngFile(t, "a.png", 20, 20))
	h.drain(t)
	sess := h.guard.Active()
	require.NotNil(t, sess)

	h.guard.Close()
	assert.Nil(t, h.guard.Active())
	assert.True(t, sess.Closed())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "normal", Normal.String())
	assert.Equal(t, "armed", Armed.String())

	var m stateMachine
	assert.Equal(t, Normal, m.state())
	m.arm()
	assert.Equal(t, Armed, m.state())
	assert.True(t, m.consume())
	assert.False(t, m.consume())
	assert.Equal(t, Normal, m.state())
}

func TestPresenterLifecycle(t *testing.T) {
	p := new(MockPresenter)
	p.On("Present", mock.AnythingOfType("*editor.Session")).Once()
	p.On("Dismiss", mock.AnythingOfType("*editor.Session")).Once()

	input := dom.NewFileInput("imageUri")
	g := NewGuard(editor.FileDecoder, p, WithScheduler(func(fn func()) { fn() }))
	defer g.Close()
	require.NoError(t, g.Bind(input))

	input.Select(pngFile(t, "a.png", 20, 20))
	require.Eventually(t, func() bool { return g.Active() != nil }, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, g.Cancel(g.Active()))

	p.AssertExpectations(t)
}
