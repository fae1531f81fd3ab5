package preferences

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings) error
	notifications *widget.Check
	idleCheck     *widget.Check
	idleMinutes   *widget.Entry
	logLevel      *widget.Select
	errorLabel    *widget.Label
}

// New creates a preferences window. onSave may reject the settings, in which
// case the window stays open and shows the error.
func New(app fyne.App, settings Settings, onSave func(Settings) error) *Window {
	window := app.NewWindow("Tempo Preferences")

	notifications := widget.NewCheck("Desktop notification when a session ends", nil)
	idleCheck := widget.NewCheck("Pause work sessions when I'm away", nil)
	idleMinutes := widget.NewEntry()
	idleMinutes.Validator = func(value string) error {
		_, err := parseIdleMinutes(value)
		return err
	}
	idleCheck.OnChanged = func(checked bool) {
		if checked {
			idleMinutes.Enable()
			return
		}
		idleMinutes.Disable()
	}

	levels := make([]string, 0, 4)
	for _, level := range []logrus.Level{logrus.DebugLevel, logrus.InfoLevel, logrus.WarnLevel, logrus.ErrorLevel} {
		levels = append(levels, level.String())
	}
	logLevel := widget.NewSelect(levels, nil)

	errorLabel := widget.NewLabel("")
	errorLabel.Importance = widget.DangerImportance
	errorLabel.Wrapping = fyne.TextWrapWord
	errorLabel.Hide()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Notifications", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		notifications,
		widget.NewLabelWithStyle("Idle", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		idleCheck,
		container.NewHBox(widget.NewLabel("Away after"), idleMinutes, widget.NewLabel("min")),
		widget.NewLabelWithStyle("Diagnostics", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Log level"), logLevel),
		errorLabel,
	)

	saveButton := widget.NewButton("Save", nil)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 340))

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		notifications: notifications,
		idleCheck:     idleCheck,
		idleMinutes:   idleMinutes,
		logLevel:      logLevel,
		errorLabel:    errorLabel,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}
	window.SetCloseIntercept(cancelButton.OnTapped)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// Settings returns the last saved settings.
func (prefs *Window) Settings() Settings {
	return prefs.settings
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.notifications.SetChecked(settings.DesktopNotifications)
	prefs.idleMinutes.SetText(strconv.Itoa(int(settings.IdleAfter / time.Minute)))
	prefs.idleCheck.SetChecked(settings.PauseWhenIdle)
	if !settings.PauseWhenIdle {
		prefs.idleMinutes.Disable()
	}
	prefs.logLevel.SetSelected(settings.LogLevel)
	prefs.setError(nil)
}

func (prefs *Window) handleSave() {
	settings, err := prefs.collect()
	if err == nil && prefs.onSave != nil {
		err = prefs.onSave(settings)
	}
	if err != nil {
		prefs.setError(err)
		return
	}

	prefs.settings = settings
	prefs.setError(nil)
	prefs.window.Hide()
}

// collect merges the form into the last saved settings. Fields the window
// does not edit (volume, playlist) pass through unchanged.
func (prefs *Window) collect() (Settings, error) {
	settings := prefs.settings
	settings.DesktopNotifications = prefs.notifications.Checked
	settings.PauseWhenIdle = prefs.idleCheck.Checked
	if prefs.logLevel.Selected != "" {
		settings.LogLevel = prefs.logLevel.Selected
	}

	minutes, err := parseIdleMinutes(prefs.idleMinutes.Text)
	if err != nil {
		if settings.PauseWhenIdle {
			return settings, err
		}
	} else {
		settings.IdleAfter = time.Duration(minutes) * time.Minute
	}
	return settings, settings.Validate()
}

func (prefs *Window) setError(err error) {
	if err == nil {
		prefs.errorLabel.SetText("")
		prefs.errorLabel.Hide()
		return
	}
	prefs.errorLabel.SetText(err.Error())
	prefs.errorLabel.Show()
}

func parseIdleMinutes(value string) (int, error) {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.New("idle minutes must be a whole number")
	}
	after := time.Duration(parsed) * time.Minute
	if after < MinIdleAfter || after > MaxIdleAfter {
		return 0, fmt.Errorf("idle minutes must be between %d and %d", int(MinIdleAfter/time.Minute), int(MaxIdleAfter/time.Minute))
	}
	return parsed, nil
}
