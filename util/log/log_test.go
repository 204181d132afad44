//go:build !release

package log

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// captureOutput points the standard logger at a buffer for the length of the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(log.Lshortfile)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

func TestWrappers(t *testing.T) {
	buf := captureOutput(t)

	tests := []struct {
		name string
		fn   func()
		want string
	}{
		{"Print", func() { Print("session ", 3, " closed") }, "session 3 closed"},
		{"Printf", func() { Printf("decoded %dx%d", 500, 500) }, "decoded 500x500"},
		{"Println", func() { Println("image", "detected") }, "image detected"},
		{"Debug", func() { Debug("drag ", "ended") }, "[DEBUG] drag ended"},
		{"Debugf", func() { Debugf("zoom %.1f", 1.5) }, "[DEBUG] zoom 1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn()
			line := buf.String()
			assert.Contains(t, line, tt.want)
			assert.Equal(t, 1, strings.Count(line, "\n"))
		})
	}
}

func TestWrappersReportCaller(t *testing.T) {
	buf := captureOutput(t)

	tests := []struct {
		name string
		fn   func()
	}{
		{"Print", func() { Print("x") }},
		{"Printf", func() { Printf("%s", "x") }},
		{"Println", func() { Println("x") }},
		{"Debug", func() { Debug("x") }},
		{"Debugf", func() { Debugf("%s", "x") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn()
			assert.True(t, strings.HasPrefix(buf.String(), "log_test.go:"), buf.String())
		})
	}
}

func TestDebugPrefixOnlyOnDebug(t *testing.T) {
	buf := captureOutput(t)

	Printf("plain %d", 1)
	assert.NotContains(t, buf.String(), "[DEBUG]")

	buf.Reset()
	Debugf("tagged %d", 2)
	assert.Contains(t, buf.String(), "[DEBUG] tagged 2")
}
