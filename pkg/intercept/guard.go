// Package intercept diverts user file selections on a host input into the editor and
// re-injects the edited result without intercepting its own injection.
package intercept

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dixieflatline76/Recrop/pkg/blob"
	"github.com/dixieflatline76/Recrop/pkg/dom"
	"github.com/dixieflatline76/Recrop/pkg/editor"
	"github.com/dixieflatline76/Recrop/util"
	"github.com/dixieflatline76/Recrop/util/log"
)

var (
	// ErrAlreadyBound is returned when Bind is called a second time.
	ErrAlreadyBound = errors.New("guard already bound to an input")
	// ErrNotBound is returned when the guard has no input to inject into.
	ErrNotBound = errors.New("guard not bound to an input")
	// ErrStaleSession is returned for a session that is no longer the active one.
	ErrStaleSession = errors.New("session is not active")
)

// Input is the host page's file input.
type Input interface {
	AddEventListener(typ string, fn dom.Listener, capture bool)
	DispatchEvent(ev *dom.Event) bool
	Files() []blob.File
	SetFiles(files []blob.File, value string)
	Value() string
}

// Presenter shows and hides the editor surface for a session.
type Presenter interface {
	Present(s *editor.Session)
	Dismiss(s *editor.Session)
}

// Option configures a Guard.
type Option func(*Guard)

// WithScheduler sets the function decode completions are posted through, normally
// the UI thread's. The default runs them on the decoding goroutine.
func WithScheduler(schedule func(func())) Option {
	return func(g *Guard) {
		if schedule != nil {
			g.schedule = schedule
		}
	}
}

// WithSessionOptions sets the options new sessions are opened with.
func WithSessionOptions(o editor.Options) Option {
	return WithSessionOptionsFunc(func() editor.Options { return o })
}

// WithSessionOptionsFunc reads the session options each time a session is opened, so
// changed settings apply to the next one.
func WithSessionOptionsFunc(fn func() editor.Options) Option {
	return func(g *Guard) {
		if fn != nil {
			g.sessionOpts = fn
		}
	}
}

// WithAutoFrame auto-frames every new session before it is presented.
func WithAutoFrame(enabled bool) Option {
	return WithAutoFrameFunc(func() bool { return enabled })
}

// WithAutoFrameFunc decides per session whether to auto-frame it.
func WithAutoFrameFunc(fn func() bool) Option {
	return func(g *Guard) {
		if fn != nil {
			g.autoFrame = fn
		}
	}
}

// Guard owns the interception state and the single active edit session.
type Guard struct {
	decoder     editor.Decoder
	presenter   Presenter
	schedule    func(func())
	sessionOpts func() editor.Options
	autoFrame   func() bool

	ctx    context.Context
	cancel context.CancelFunc

	machine    stateMachine
	generation *util.SafeCounter

	mu     sync.Mutex
	input  Input
	active *editor.Session
}

// NewGuard creates an unbound guard.
func NewGuard(decoder editor.Decoder, presenter Presenter, opts ...Option) *Guard {
	ctx, cancel := context.WithCancel(context.Background())
	g := &Guard{
		decoder:     decoder,
		presenter:   presenter,
		schedule:    func(fn func()) { fn() },
		sessionOpts: editor.DefaultOptions,
		autoFrame:   func() bool { return false },
		ctx:         ctx,
		cancel:      cancel,
		generation:  util.NewSafeCounter(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Bind attaches the guard's capturing change listener to input.
func (g *Guard) Bind(input Input) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.input != nil {
		return ErrAlreadyBound
	}
	g.input = input
	input.AddEventListener(dom.EventChange, g.handleChange, true)
	return nil
}

// State returns the current interception state.
func (g *Guard) State() State {
	return g.machine.state()
}

// Active returns the open session, or nil.
func (g *Guard) Active() *editor.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// handleChange is the capturing change listener.
func (g *Guard) handleChange(ev *dom.Event) {
	if ev.Type != dom.EventChange {
		return
	}
	if g.machine.consume() {
		log.Debug("Passing injected change event through")
		return
	}

	ev.StopImmediatePropagation()
	ev.PreventDefault()
	log.Debug("Change event intercepted")

	g.mu.Lock()
	input := g.input
	g.mu.Unlock()
	files := input.Files()
	if len(files) == 0 {
		log.Println("No file selected")
		return
	}
	file := files[0]

	gen, prev := g.supersede()
	if prev != nil {
		log.Printf("Discarding session %s for a newer selection", prev.ID())
		g.release(prev)
	}

	log.Printf("Image detected: %s", file.Name)
	go func() {
		src, err := g.decoder.Decode(g.ctx, file)
		g.schedule(func() {
			g.open(gen, file, src, err)
		})
	}()
}

// supersede starts a new generation and detaches the active session.
func (g *Guard) supersede() (int64, *editor.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	gen := g.generation.Increment()
	prev := g.active
	g.active = nil
	return gen, prev
}

// open applies a decode result if it still belongs to the newest selection.
func (g *Guard) open(gen int64, file blob.File, src *editor.Source, err error) {
	if !g.generation.Is(gen) {
		log.Debugf("Dropping stale decode of %s", file.Name)
		return
	}
	if err != nil {
		log.Printf("Failed to load %s: %v", file.Name, err)
		return
	}

	sess := editor.NewSession(src, g.sessionOpts())
	if g.autoFrame() {
		if err := sess.AutoFrame(); err != nil {
			log.Printf("Auto-frame failed for %s: %v", file.Name, err)
		}
	}

	g.mu.Lock()
	if !g.generation.Is(gen) {
		g.mu.Unlock()
		sess.Close()
		log.Debugf("Dropping stale session for %s", file.Name)
		return
	}
	g.active = sess
	g.mu.Unlock()

	log.Printf("Opening editor for %s (session %s)", file.Name, sess.ID())
	g.presenter.Present(sess)
}

// detach clears s as the active session, failing if it is not the active one.
func (g *Guard) detach(s *editor.Session) (Input, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s == nil || g.active != s {
		return nil, ErrStaleSession
	}
	g.active = nil
	return g.input, nil
}

func (g *Guard) release(s *editor.Session) {
	g.presenter.Dismiss(s)
	s.Close()
}

// Confirm exports s, installs the result as the input's only file and dispatches a
// change event the guard lets through to the host.
func (g *Guard) Confirm(s *editor.Session) error {
	if s != g.Active() {
		return ErrStaleSession
	}
	exp, err := s.Export()
	if err != nil {
		return fmt.Errorf("exporting session: %w", err)
	}

	input, err := g.detach(s)
	if err != nil {
		return err
	}
	g.release(s)
	if input == nil {
		return ErrNotBound
	}

	input.SetFiles([]blob.File{exp.File}, exp.DataURL)
	g.machine.arm()
	input.DispatchEvent(dom.NewSyntheticEvent(dom.EventChange, true))
	if g.machine.consume() {
		log.Println("Injected change event was never observed by the guard")
	}
	log.Printf("Edited image %s (%d bytes) sent to the page", exp.File.Name, exp.File.Size())
	return nil
}

// Cancel discards s. The input is left untouched.
func (g *Guard) Cancel(s *editor.Session) error {
	if _, err := g.detach(s); err != nil {
		return err
	}
	g.release(s)
	log.Println("Editing canceled")
	return nil
}

// Close stops pending decodes and discards the active session.
func (g *Guard) Close() {
	g.cancel()
	_, prev := g.supersede()
	if prev != nil {
		g.release(prev)
	}
}
