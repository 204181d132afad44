package dom

import (
	"sync"

	"github.com/dixieflatline76/Recrop/pkg/blob"
)

// Listener handles a dispatched event.
type Listener func(*Event)

type registration struct {
	typ     string
	capture bool
	fn      Listener
}

// FileInput is a file input element. Dispatch happens at the target: capturing
// listeners run first, then bubbling ones, each group in registration order.
type FileInput struct {
	name string

	mu        sync.Mutex
	listeners []registration
	files     []blob.File
	value     string
}

// NewFileInput creates an empty input.
func NewFileInput(name string) *FileInput {
	return &FileInput{name: name}
}

// Name returns the input's name attribute.
func (in *FileInput) Name() string {
	return in.name
}

// AddEventListener registers fn for events of typ.
func (in *FileInput) AddEventListener(typ string, fn Listener, capture bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.listeners = append(in.listeners, registration{typ: typ, capture: capture, fn: fn})
}

// DispatchEvent runs the listeners for ev and reports whether the default action
// may proceed. Listeners may re-enter DispatchEvent.
func (in *FileInput) DispatchEvent(ev *Event) bool {
	in.mu.Lock()
	var capturing, bubbling []Listener
	for _, r := range in.listeners {
		if r.typ != ev.Type {
			continue
		}
		if r.capture {
			capturing = append(capturing, r.fn)
		} else {
			bubbling = append(bubbling, r.fn)
		}
	}
	in.mu.Unlock()

	for _, fn := range capturing {
		fn(ev)
		if ev.immediateStopped {
			return !ev.defaultPrevented
		}
	}
	for _, fn := range bubbling {
		fn(ev)
		if ev.immediateStopped {
			break
		}
	}
	return !ev.defaultPrevented
}

// Files returns a copy of the selected files.
func (in *FileInput) Files() []blob.File {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]blob.File(nil), in.files...)
}

// Value returns the input's value.
func (in *FileInput) Value() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.value
}

// SetFiles replaces the file list and value.
func (in *FileInput) SetFiles(files []blob.File, value string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.files = append([]blob.File(nil), files...)
	in.value = value
}

// Select simulates the user picking files: the list is replaced and a trusted
// change event is dispatched.
func (in *FileInput) Select(files ...blob.File) bool {
	value := ""
	if len(files) > 0 {
		value = `C:\fakepath\` + files[0].Name
	}
	in.SetFiles(files, value)
	return in.DispatchEvent(NewUserEvent(EventChange))
}
