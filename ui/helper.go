package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

func newWrappedLabel(text string, importance widget.Importance, style fyne.TextStyle) *widget.Label {
	label := widget.NewLabel(text)
	label.Wrapping = fyne.TextWrapWord
	label.Importance = importance
	label.TextStyle = style
	return label
}

// CreateSectionTitleLabel creates a bold, high importance heading
func CreateSectionTitleLabel(desc string) *widget.Label {
	return newWrappedLabel(desc, widget.HighImportance, fyne.TextStyle{Bold: true})
}

// CreateSettingTitleLabel creates a label for a setting or field title
func CreateSettingTitleLabel(desc string) *widget.Label {
	return newWrappedLabel(desc, widget.MediumImportance, fyne.TextStyle{Bold: true})
}

// CreateSettingDescriptionLabel creates an italic label for explanatory text
func CreateSettingDescriptionLabel(desc string) *widget.Label {
	return newWrappedLabel(desc, widget.LowImportance, fyne.TextStyle{Italic: true})
}
