package ui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/dixieflatline76/Recrop/config"
	"github.com/dixieflatline76/Recrop/pkg/blob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBlob(t *testing.T, name string, w, h int) blob.File {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return blob.File{Name: name, Type: "image/png", Data: buf.Bytes()}
}

func TestHostWindowUploadsWithoutGuard(t *testing.T) {
	h := NewHostWindow(test.NewApp(), "Host")
	defer h.Window().Close()

	h.Select(pngBlob(t, "raw.png", 40, 30))
	assert.Equal(t, 1, h.Uploads())
	assert.Contains(t, h.status.Text, "Uploaded raw.png, 40x30")
	assert.Equal(t, `C:\fakepath\raw.png`, h.value.Text)
	require.NotNil(t, h.preview.Image)
}

func TestHostWindowUndecodableUpload(t *testing.T) {
	h := NewHostWindow(test.NewApp(), "Host")
	defer h.Window().Close()

	h.Select(blob.File{Name: "notes.txt", Type: "text/plain", Data: []byte("hello")})
	assert.Equal(t, 1, h.Uploads())
	assert.Contains(t, h.status.Text, "preview unavailable")
}

func TestAttachInputRoundTrip(t *testing.T) {
	a := test.NewApp()
	ra := &RecropApp{
		app:   a,
		prefs: a.Preferences(),
		cfg:   config.NewAppConfig(a.Preferences()),
		do:    func(fn func()) { fn() },
	}
	ra.host = NewHostWindow(a, "Host")
	defer ra.host.Window().Close()
	ra.cfg.SetViewportSize(200, 100)

	guard, err := ra.AttachInput(ra.host.Input())
	require.NoError(t, err)
	defer guard.Close()

	ra.host.Select(pngBlob(t, "photo.png", 80, 60))
	assert.Equal(t, 0, ra.host.Uploads())

	require.Eventually(t, func() bool { return guard.Active() != nil }, 5*time.Second, 10*time.Millisecond)
	sess := guard.Active()
	require.NoError(t, guard.Confirm(sess))

	assert.Equal(t, 1, ra.host.Uploads())
	files := ra.host.Input().Files()
	require.Len(t, files, 1)
	assert.Equal(t, "edited-image.png", files[0].Name)
	assert.True(t, strings.HasPrefix(ra.host.value.Text, "data:image/png;base64,"))
	assert.Contains(t, ra.host.status.Text, "200x100")
}
