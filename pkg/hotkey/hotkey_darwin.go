//go:build darwin

package hotkey

import "golang.design/x/hotkey"

/*
#cgo LDFLAGS: -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>

int checkAccessibilityNative() {
    return AXIsProcessTrusted() ? 1 : 0;
}
*/
import "C"

const supported = true

const (
	modCtrl = hotkey.ModCmd
	modAlt  = hotkey.ModOption

	keyO = hotkey.KeyO
	keyP = hotkey.KeyP
)

// HasAccessibility reports whether the process may listen for global keys.
func HasAccessibility() bool {
	return C.checkAccessibilityNative() != 0
}
