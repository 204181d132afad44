// Package hotkey registers the global shortcuts that bring the editor forward.
package hotkey

import (
	"time"

	"github.com/dixieflatline76/Recrop/util/log"
	"golang.design/x/hotkey"
)

// Actions are the handlers the shortcuts trigger. Nil handlers are not registered.
type Actions struct {
	OpenImage   func() // Ctrl + Alt + O
	Preferences func() // Ctrl + Alt + P
}

// Binding is one shortcut and its handler.
type Binding struct {
	Name   string
	Mods   []hotkey.Modifier
	Key    hotkey.Key
	Action func()
}

// Bindings returns the shortcuts for a, skipping nil handlers.
func Bindings(a Actions) []Binding {
	var bs []Binding
	if a.OpenImage != nil {
		bs = append(bs, Binding{Name: "Open Image", Mods: []hotkey.Modifier{modCtrl, modAlt}, Key: keyO, Action: a.OpenImage})
	}
	if a.Preferences != nil {
		bs = append(bs, Binding{Name: "Preferences", Mods: []hotkey.Modifier{modCtrl, modAlt}, Key: keyP, Action: a.Preferences})
	}
	return bs
}

// StartListeners registers the shortcuts and calls their handlers on every keydown.
// The returned function unregisters them.
func StartListeners(a Actions) func() {
	if !supported {
		log.Println("Global hotkeys are not supported on this platform")
		return func() {}
	}
	if !HasAccessibility() {
		log.Println("Global hotkeys need accessibility permission")
		return func() {}
	}

	var registered []*hotkey.Hotkey
	for _, b := range Bindings(a) {
		hk := hotkey.New(b.Mods, b.Key)
		if err := hk.Register(); err != nil {
			log.Printf("Failed to register hotkey %s: %v", b.Name, err)
			continue
		}
		log.Printf("Registered hotkey: %s", b.Name)
		registered = append(registered, hk)

		go func(hk *hotkey.Hotkey, b Binding) {
			for range hk.Keydown() {
				log.Debugf("Hotkey pressed: %s", b.Name)
				b.Action()
				// Debounce key repeat
				time.Sleep(200 * time.Millisecond)
			}
		}(hk, b)
	}

	return func() {
		for _, hk := range registered {
			if err := hk.Unregister(); err != nil {
				log.Debugf("Failed to unregister hotkey: %v", err)
			}
		}
	}
}
