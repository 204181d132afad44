//go:build windows

package main

import (
	"errors"
	"syscall"

	"github.com/dixieflatline76/Recrop/config"
	"github.com/dixieflatline76/Recrop/util/log"
	"golang.org/x/sys/windows"
)

var mutex windows.Handle

// acquireLock creates the single-instance named mutex.
func acquireLock() (bool, error) {
	name, err := syscall.UTF16PtrFromString(config.AppName + "_SingleInstanceMutex")
	if err != nil {
		return false, err
	}

	mutex, err = windows.CreateMutex(nil, false, name)
	if err != nil {
		if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// releaseLock releases the single-instance mutex.
func releaseLock() {
	if mutex == 0 {
		return
	}
	if err := windows.ReleaseMutex(mutex); err != nil {
		log.Printf("Failed to release mutex: %v", err)
	}
	if err := windows.CloseHandle(mutex); err != nil {
		log.Printf("Failed to close mutex handle: %v", err)
	}
}
