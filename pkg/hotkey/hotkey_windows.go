//go:build windows

package hotkey

import "golang.design/x/hotkey"

const supported = true

const (
	modCtrl = hotkey.ModCtrl
	modAlt  = hotkey.ModAlt

	keyO = hotkey.KeyO
	keyP = hotkey.KeyP
)

// HasAccessibility reports whether the process may listen for global keys.
func HasAccessibility() bool {
	return true
}
