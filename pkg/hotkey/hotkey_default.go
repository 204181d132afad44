//go:build !darwin && !windows

package hotkey

import "golang.design/x/hotkey"

// X11 key grabs are left to the desktop environment.
const supported = false

const (
	modCtrl = hotkey.Modifier(0)
	modAlt  = hotkey.Modifier(0)

	keyO = hotkey.Key(0)
	keyP = hotkey.Key(0)
)

// HasAccessibility reports whether the process may listen for global keys.
func HasAccessibility() bool {
	return true
}
