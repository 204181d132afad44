package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"github.com/dixieflatline76/Recrop/config"
	"github.com/dixieflatline76/Recrop/pkg/editor"
	"github.com/dixieflatline76/Recrop/pkg/intercept"
	"github.com/dixieflatline76/Recrop/util/log"
)

// RecropApp represents the application
type RecropApp struct {
	app   fyne.App
	prefs fyne.Preferences
	cfg   *config.AppConfig
	host  *HostWindow
	do    func(func())
}

// NewRecropApp creates the application around a fyne app and builds its host window.
func NewRecropApp(a fyne.App) (*RecropApp, error) {
	ra := &RecropApp{
		app:   a,
		prefs: a.Preferences(),
		cfg:   config.NewAppConfig(a.Preferences()),
		do:    fyne.Do,
	}
	ra.host = NewHostWindow(a, config.AppName)
	ra.host.Window().SetMainMenu(ra.createMainMenu())
	ra.host.Window().SetMaster()

	if _, err := ra.AttachInput(ra.host.Input()); err != nil {
		return nil, fmt.Errorf("attaching host input: %w", err)
	}
	return ra, nil
}

func (ra *RecropApp) createMainMenu() *fyne.MainMenu {
	file := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", ra.host.Choose),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", ra.CreatePreferencesWindow),
	)
	help := fyne.NewMenu("Help",
		fyne.NewMenuItem(fmt.Sprintf("About %s", config.AppName), func() {
			dialog.ShowInformation(config.AppName,
				fmt.Sprintf("%s %s\nCrop and zoom images before they are uploaded.", config.AppName, config.AppVersion),
				ra.host.Window())
		}),
	)
	return fyne.NewMainMenu(file, help)
}

// AttachInput puts a guard with its own editor in front of input. Closing the guard
// detaches it.
func (ra *RecropApp) AttachInput(input intercept.Input) (*intercept.Guard, error) {
	presenter := NewEditorPresenter(ra.host.Window(), ra.cfg.GetZoomStep())
	presenter.do = ra.do
	guard := intercept.NewGuard(editor.FileDecoder, presenter,
		intercept.WithScheduler(ra.do),
		intercept.WithSessionOptionsFunc(func() editor.Options { return editor.OptionsFromConfig(ra.cfg) }),
		intercept.WithAutoFrameFunc(ra.cfg.GetAutoFrame),
	)
	presenter.SetController(guard)
	if err := guard.Bind(input); err != nil {
		guard.Close()
		return nil, err
	}
	log.Debug("Guard attached to input")
	return guard, nil
}

// Config returns the editor settings.
func (ra *RecropApp) Config() *config.AppConfig {
	return ra.cfg
}

// Host returns the host window.
func (ra *RecropApp) Host() *HostWindow {
	return ra.host
}

// Preferences returns the preferences for the application
func (ra *RecropApp) Preferences() fyne.Preferences {
	return ra.prefs
}

// Run shows the host window and runs the application
func (ra *RecropApp) Run() {
	ra.host.Window().Show()
	ra.app.Run()
}
