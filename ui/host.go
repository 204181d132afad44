package ui

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/disintegration/imaging"
	"github.com/dixieflatline76/Recrop/pkg/blob"
	"github.com/dixieflatline76/Recrop/pkg/dom"
	"github.com/dixieflatline76/Recrop/util/log"
)

// imageExtensions are offered by the host's file picker.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".tif", ".tiff"}

// HostWindow is a small stand-in for a web page with an image upload field. Whatever
// reaches its own change handler is treated as uploaded.
type HostWindow struct {
	window  fyne.Window
	input   *dom.FileInput
	preview *canvas.Image
	status  *widget.Label
	value   *widget.Label
	uploads int
}

// NewHostWindow creates the host window and its file input.
func NewHostWindow(a fyne.App, title string) *HostWindow {
	h := &HostWindow{
		window: a.NewWindow(title),
		input:  dom.NewFileInput("imageUri"),
		status: CreateSettingDescriptionLabel("No image uploaded yet."),
		value:  widget.NewLabel(""),
	}
	h.value.Truncation = fyne.TextTruncateEllipsis

	h.preview = canvas.NewImageFromImage(nil)
	h.preview.FillMode = canvas.ImageFillContain
	h.preview.SetMinSize(fyne.NewSize(250, 250))

	h.input.AddEventListener(dom.EventChange, h.onUpload, false)

	choose := widget.NewButtonWithIcon("Choose image", theme.FolderOpenIcon(), h.Choose)
	header := container.NewVBox(
		CreateSectionTitleLabel("Profile picture"),
		CreateSettingDescriptionLabel("Pick an image to upload. You can crop and zoom it before it is sent."),
		choose,
		widget.NewSeparator(),
	)
	footer := container.NewVBox(
		widget.NewSeparator(),
		NewSplitRow(CreateSettingTitleLabel("Status:"), h.status, SplitProportion.OneFourth),
		NewSplitRow(CreateSettingTitleLabel("Value:"), h.value, SplitProportion.OneFourth),
	)
	h.window.SetContent(container.NewBorder(header, footer, nil, nil, h.preview))
	h.window.Resize(fyne.NewSize(640, 560))
	return h
}

// Window returns the host window.
func (h *HostWindow) Window() fyne.Window {
	return h.window
}

// Input returns the host's file input.
func (h *HostWindow) Input() *dom.FileInput {
	return h.input
}

// Uploads returns how many changes reached the host's handler.
func (h *HostWindow) Uploads() int {
	return h.uploads
}

// Choose opens a file picker and selects the chosen file on the input.
func (h *HostWindow) Choose() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, h.window)
			return
		}
		if r == nil {
			return
		}
		defer r.Close()

		data, err := io.ReadAll(r)
		if err != nil {
			log.Printf("Failed to read %s: %v", r.URI().Name(), err)
			dialog.ShowError(err, h.window)
			return
		}
		h.Select(blob.File{Name: r.URI().Name(), Type: r.URI().MimeType(), Data: data})
	}, h.window)
	d.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	d.Show()
}

// Select puts f on the input as a user selection would.
func (h *HostWindow) Select(f blob.File) {
	log.Debugf("Host selected %s (%d bytes)", f.Name, f.Size())
	h.input.Select(f)
}

// onUpload is the host page's own change handler.
func (h *HostWindow) onUpload(*dom.Event) {
	files := h.input.Files()
	if len(files) == 0 {
		return
	}
	f := files[0]
	h.uploads++

	value := h.input.Value()
	if strings.HasPrefix(value, "data:") && len(value) > 64 {
		value = value[:64] + "..."
	}
	h.value.SetText(value)

	img, err := imaging.Decode(bytes.NewReader(f.Data))
	if err != nil {
		h.status.SetText(fmt.Sprintf("Uploaded %s (%d bytes), preview unavailable", f.Name, f.Size()))
		return
	}
	h.status.SetText(fmt.Sprintf("Uploaded %s, %dx%d, %d bytes", f.Name, img.Bounds().Dx(), img.Bounds().Dy(), f.Size()))
	h.preview.Image = img
	h.preview.Refresh()
}
