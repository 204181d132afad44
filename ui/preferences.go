package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/validation"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/dixieflatline76/Recrop/config"
	"github.com/dixieflatline76/Recrop/pkg/editor"
)

// viewportSizeRegexp accepts 16 to 9999 pixels.
const viewportSizeRegexp = `^([1-9][0-9]{2,3}|1[6-9]|[2-9][0-9])$`

// zoomSteps are offered for the zoom slider.
var zoomSteps = []string{"0.05", "0.1", "0.25", "0.5"}

// exportTypes are the formats the editor can export.
var exportTypes = []string{"image/png", "image/jpeg"}

// createEditorPreferences builds the editor settings panel. Every change is saved
// right away and applies to the next editor opened.
func createEditorPreferences(cfg *config.AppConfig) *fyne.Container {
	panel := container.NewVBox()
	panel.Add(CreateSectionTitleLabel("Editor Preferences"))
	panel.Add(CreateSettingDescriptionLabel("These settings apply to the next image you open."))

	// Viewport size
	w, h := cfg.GetViewportSize()
	widthEntry := widget.NewEntry()
	widthEntry.SetText(strconv.Itoa(w))
	heightEntry := widget.NewEntry()
	heightEntry.SetText(strconv.Itoa(h))
	sizeStatus := widget.NewLabel("")

	sizeValidator := validation.NewRegexp(viewportSizeRegexp, "Size must be between 16 and 9999 pixels")
	widthEntry.Validator = sizeValidator
	heightEntry.Validator = sizeValidator
	onSizeChanged := func(string) {
		if err := widthEntry.Validate(); err != nil {
			sizeStatus.SetText(err.Error())
			sizeStatus.Importance = widget.DangerImportance
			sizeStatus.Refresh()
			return
		}
		if err := heightEntry.Validate(); err != nil {
			sizeStatus.SetText(err.Error())
			sizeStatus.Importance = widget.DangerImportance
			sizeStatus.Refresh()
			return
		}
		nw, _ := strconv.Atoi(widthEntry.Text)
		nh, _ := strconv.Atoi(heightEntry.Text)
		cfg.SetViewportSize(nw, nh)
		sizeStatus.SetText(fmt.Sprintf("Output will be %dx%d", nw, nh))
		sizeStatus.Importance = widget.SuccessImportance
		sizeStatus.Refresh()
	}
	widthEntry.OnChanged = onSizeChanged
	heightEntry.OnChanged = onSizeChanged

	panel.Add(widget.NewSeparator())
	panel.Add(CreateSettingTitleLabel("Output Size:"))
	panel.Add(CreateSettingDescriptionLabel("The edited image is exported at exactly this size."))
	panel.Add(NewSplitRow(widthEntry, heightEntry, SplitProportion.OneThird))
	panel.Add(sizeStatus)

	// Zoom step
	stepSelect := widget.NewSelect(zoomSteps, func(s string) {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			cfg.SetZoomStep(v)
		}
	})
	stepSelect.SetSelected(strconv.FormatFloat(cfg.GetZoomStep(), 'f', -1, 64))

	panel.Add(widget.NewSeparator())
	panel.Add(NewSplitRow(CreateSettingTitleLabel("Zoom Step:"), stepSelect, SplitProportion.OneThird))

	// Export format
	typeSelect := widget.NewSelect(exportTypes, func(s string) {
		cfg.SetExportType(s)
	})
	typeSelect.SetSelected(cfg.GetExportType())

	nameEntry := widget.NewEntry()
	nameEntry.SetText(cfg.GetExportName())
	nameEntry.OnChanged = func(s string) {
		if s != "" {
			cfg.SetExportName(s)
		}
	}

	panel.Add(widget.NewSeparator())
	panel.Add(NewSplitRow(CreateSettingTitleLabel("Export Format:"), typeSelect, SplitProportion.OneThird))
	panel.Add(NewSplitRow(CreateSettingTitleLabel("File Name:"), nameEntry, SplitProportion.OneThird))

	// Interpolation
	interpSelect := widget.NewSelect(editor.InterpolatorNames(), func(s string) {
		cfg.SetInterpolation(s)
	})
	interpSelect.SetSelected(cfg.GetInterpolation())

	panel.Add(widget.NewSeparator())
	panel.Add(NewSplitRow(CreateSettingTitleLabel("Interpolation:"), interpSelect, SplitProportion.OneThird))

	// Toggles
	autoFrameCheck := widget.NewCheck("Auto-frame new images", func(b bool) {
		cfg.SetAutoFrame(b)
	})
	autoFrameCheck.SetChecked(cfg.GetAutoFrame())

	bridgeCheck := widget.NewCheck("Enable browser bridge (restart required)", func(b bool) {
		cfg.SetBridgeEnabled(b)
	})
	bridgeCheck.SetChecked(cfg.GetBridgeEnabled())

	panel.Add(widget.NewSeparator())
	panel.Add(autoFrameCheck)
	panel.Add(CreateSettingDescriptionLabel("Zoom and pan new images onto their most interesting region."))
	panel.Add(bridgeCheck)
	panel.Add(CreateSettingDescriptionLabel("Lets a browser page connected over the local websocket use the editor."))
	return panel
}

// CreatePreferencesWindow creates and displays the preferences window.
func (ra *RecropApp) CreatePreferencesWindow() {
	prefsWindow := ra.app.NewWindow(fmt.Sprintf("%s Preferences", config.AppName))
	prefsWindow.Resize(fyne.NewSize(600, 640))
	prefsWindow.CenterOnScreen()

	closeButton := widget.NewButton("Close", func() {
		prefsWindow.Close()
	})
	prefsWindow.SetContent(container.NewBorder(nil, container.NewHBox(layout.NewSpacer(), closeButton), nil, nil,
		container.NewVScroll(createEditorPreferences(ra.cfg))))
	prefsWindow.Show()
}
