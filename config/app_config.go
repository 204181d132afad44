package config

import "fyne.io/fyne/v2"

// Editor defaults.
const (
	DefaultViewportWidth  = 500
	DefaultViewportHeight = 500
	DefaultZoomMin        = 0.5
	DefaultZoomMax        = 3.0
	DefaultZoomStep       = 0.1
	DefaultZoom           = 1.0
	DefaultExportName     = "edited-image.png"
	DefaultExportType     = "image/png"
	DefaultInterpolation  = "bilinear"
)

// AppConfig holds the editor settings backed by fyne preferences.
type AppConfig struct {
	prefs fyne.Preferences
}

// NewAppConfig creates a new AppConfig instance
func NewAppConfig(p fyne.Preferences) *AppConfig {
	return &AppConfig{prefs: p}
}

// ViewportWidthKey is the key for the viewport width preference
const ViewportWidthKey = "viewport_width"

// ViewportHeightKey is the key for the viewport height preference
const ViewportHeightKey = "viewport_height"

// GetViewportSize returns the fixed output dimensions of the editor viewport.
// Non-positive stored values fall back to the defaults.
func (c *AppConfig) GetViewportSize() (int, int) {
	w := c.prefs.IntWithFallback(ViewportWidthKey, DefaultViewportWidth)
	h := c.prefs.IntWithFallback(ViewportHeightKey, DefaultViewportHeight)
	if w <= 0 {
		w = DefaultViewportWidth
	}
	if h <= 0 {
		h = DefaultViewportHeight
	}
	return w, h
}

// SetViewportSize sets the editor viewport dimensions
func (c *AppConfig) SetViewportSize(w, h int) {
	c.prefs.SetInt(ViewportWidthKey, w)
	c.prefs.SetInt(ViewportHeightKey, h)
}

// ZoomMinKey is the key for the lower zoom bound
const ZoomMinKey = "zoom_min"

// ZoomMaxKey is the key for the upper zoom bound
const ZoomMaxKey = "zoom_max"

// GetZoomRange returns the zoom control domain. An inverted or non-positive range
// falls back to the defaults.
func (c *AppConfig) GetZoomRange() (float64, float64) {
	lo := c.prefs.FloatWithFallback(ZoomMinKey, DefaultZoomMin)
	hi := c.prefs.FloatWithFallback(ZoomMaxKey, DefaultZoomMax)
	if lo <= 0 || hi < lo {
		return DefaultZoomMin, DefaultZoomMax
	}
	return lo, hi
}

// SetZoomRange sets the zoom control domain
func (c *AppConfig) SetZoomRange(lo, hi float64) {
	c.prefs.SetFloat(ZoomMinKey, lo)
	c.prefs.SetFloat(ZoomMaxKey, hi)
}

// ZoomStepKey is the key for the zoom slider step
const ZoomStepKey = "zoom_step"

// GetZoomStep returns the zoom slider step
func (c *AppConfig) GetZoomStep() float64 {
	step := c.prefs.FloatWithFallback(ZoomStepKey, DefaultZoomStep)
	if step <= 0 {
		return DefaultZoomStep
	}
	return step
}

// SetZoomStep sets the zoom slider step
func (c *AppConfig) SetZoomStep(step float64) {
	c.prefs.SetFloat(ZoomStepKey, step)
}

// ExportNameKey is the key for the exported file name
const ExportNameKey = "export_name"

// GetExportName returns the file name given to the exported image
func (c *AppConfig) GetExportName() string {
	return c.prefs.StringWithFallback(ExportNameKey, DefaultExportName)
}

// SetExportName sets the file name given to the exported image
func (c *AppConfig) SetExportName(name string) {
	c.prefs.SetString(ExportNameKey, name)
}

// ExportTypeKey is the key for the exported media type
const ExportTypeKey = "export_type"

// GetExportType returns the media type the viewport is encoded to on export
func (c *AppConfig) GetExportType() string {
	return c.prefs.StringWithFallback(ExportTypeKey, DefaultExportType)
}

// SetExportType sets the media type the viewport is encoded to on export
func (c *AppConfig) SetExportType(mime string) {
	c.prefs.SetString(ExportTypeKey, mime)
}

// InterpolationKey is the key for the render interpolation preference
const InterpolationKey = "interpolation"

// GetInterpolation returns the name of the render interpolator
func (c *AppConfig) GetInterpolation() string {
	return c.prefs.StringWithFallback(InterpolationKey, DefaultInterpolation)
}

// SetInterpolation sets the name of the render interpolator
func (c *AppConfig) SetInterpolation(name string) {
	c.prefs.SetString(InterpolationKey, name)
}

// AutoFrameKey is the key for the auto-frame-on-open preference
const AutoFrameKey = "auto_frame"

// GetAutoFrame returns whether new sessions are auto-framed on open
func (c *AppConfig) GetAutoFrame() bool {
	return c.prefs.BoolWithFallback(AutoFrameKey, false)
}

// SetAutoFrame sets whether new sessions are auto-framed on open
func (c *AppConfig) SetAutoFrame(enabled bool) {
	c.prefs.SetBool(AutoFrameKey, enabled)
}

// BridgeEnabledKey is the key for the bridge enabled preference
const BridgeEnabledKey = "bridge_enabled"

// GetBridgeEnabled returns whether the browser bridge is started with the app
func (c *AppConfig) GetBridgeEnabled() bool {
	return c.prefs.BoolWithFallback(BridgeEnabledKey, false)
}

// SetBridgeEnabled sets whether the browser bridge is started with the app
func (c *AppConfig) SetBridgeEnabled(enabled bool) {
	c.prefs.SetBool(BridgeEnabledKey, enabled)
}
