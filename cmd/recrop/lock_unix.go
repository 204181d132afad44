//go:build !windows

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dixieflatline76/Recrop/config"
)

var lockFile *os.File

// acquireLock takes the single-instance file lock.
func acquireLock() (bool, error) {
	path := filepath.Join(os.TempDir(), strings.ToLower(config.AppName)+".lock")
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return false, fmt.Errorf("opening lock file: %w", err)
	}

	err = syscall.FcntlFlock(file.Fd(), syscall.F_SETLK, &syscall.Flock_t{
		Type:   syscall.F_WRLCK,
		Whence: 0,
		Start:  0,
		Len:    0, // whole file
	})
	if err != nil {
		file.Close()
		if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EACCES) {
			return false, nil
		}
		return false, fmt.Errorf("acquiring lock: %w", err)
	}

	lockFile = file
	return true, nil
}

// releaseLock drops the single-instance lock.
func releaseLock() {
	if lockFile == nil {
		return
	}
	_ = syscall.FcntlFlock(lockFile.Fd(), syscall.F_SETLK, &syscall.Flock_t{
		Type: syscall.F_UNLCK,
	})
	lockFile.Close()
	os.Remove(lockFile.Name())
	lockFile = nil
}
