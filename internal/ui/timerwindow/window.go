// Package timerwindow is the main Tempo window and the timer's display sink.
package timerwindow

import (
	"context"
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"tempo/internal/core/timekeeper"
	"tempo/internal/core/volume"
	"tempo/internal/media"
	"tempo/internal/ui/animation"
)

// Actions are invoked from widget callbacks on the fyne main goroutine.
type Actions struct {
	OnStart    func()
	OnPause    func()
	OnReset    func()
	OnVolume   func(percent int)
	OnPlaylist func(key string)
	OnPlayURL  func(raw string)
}

// Initial seeds the controls before the first render.
type Initial struct {
	Volume    int
	Playlist  string
	CustomURL string
}

var (
	workColor  = color.NRGBA{R: 232, G: 92, B: 66, A: 255}
	breakColor = color.NRGBA{R: 86, G: 178, B: 120, A: 255}
	textColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Window implements timekeeper.Display.
type Window struct {
	window         fyne.Window
	clockLabel     *canvas.Text
	sessionLabel   *canvas.Text
	completedLabel *canvas.Text
	progress       *widget.ProgressBar
	image          *canvas.Image
	startButton    *widget.Button
	pauseButton    *widget.Button
	resetButton    *widget.Button
	volumeSlider   *widget.Slider
	volumeLabel    *widget.Label
	playlistSelect *widget.Select
	urlEntry       *widget.Entry
	playButton     *widget.Button
	nowPlaying     *widget.Label
	thumbnail      *widget.Hyperlink
	statusLabel    *widget.Label
	engine         *animation.Engine
	actions        Actions
	state          timekeeper.State
	cancelCtx      context.CancelFunc
}

// New builds the window. engine may be nil, in which case no sprite plays.
func New(app fyne.App, initial Initial, actions Actions, engine *animation.Engine) *Window {
	window := app.NewWindow("Tempo")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	clockLabel := canvas.NewText(timekeeper.FormatClock(0), workColor)
	clockLabel.Alignment = fyne.TextAlignCenter
	clockLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clockLabel.TextSize = 56

	sessionLabel := canvas.NewText(timekeeper.SessionLabel(true), textColor)
	sessionLabel.Alignment = fyne.TextAlignCenter
	sessionLabel.TextStyle = fyne.TextStyle{Bold: true}
	sessionLabel.TextSize = 18

	completedLabel := canvas.NewText(timekeeper.CompletedLabel(0), textColor)
	completedLabel.Alignment = fyne.TextAlignCenter
	completedLabel.TextSize = 13

	image := canvas.NewImageFromResource(nil)
	image.FillMode = canvas.ImageFillContain

	timerWindow := &Window{
		window:         window,
		clockLabel:     clockLabel,
		sessionLabel:   sessionLabel,
		completedLabel: completedLabel,
		progress:       widget.NewProgressBar(),
		image:          image,
		volumeLabel:    widget.NewLabel(""),
		nowPlaying:     widget.NewLabel(""),
		statusLabel:    widget.NewLabel(""),
		engine:         engine,
		actions:        actions,
		state:          timekeeper.StateStopped,
	}
	timerWindow.progress.TextFormatter = func() string { return "" }
	timerWindow.nowPlaying.Truncation = fyne.TextTruncateEllipsis
	timerWindow.statusLabel.Importance = widget.WarningImportance
	timerWindow.statusLabel.Hide()

	timerWindow.startButton = widget.NewButton("Start", func() { call(timerWindow.actions.OnStart) })
	timerWindow.startButton.Importance = widget.HighImportance
	timerWindow.pauseButton = widget.NewButton("Pause", func() { call(timerWindow.actions.OnPause) })
	timerWindow.resetButton = widget.NewButton("Reset", func() { call(timerWindow.actions.OnReset) })

	timerWindow.volumeSlider = widget.NewSlider(volume.MinPercent, volume.MaxPercent)
	timerWindow.volumeSlider.Step = 1
	timerWindow.volumeSlider.SetValue(float64(volume.Clamp(initial.Volume)))
	timerWindow.setVolumeLabelUnsafe(volume.Clamp(initial.Volume))
	timerWindow.volumeSlider.OnChanged = func(value float64) {
		percent := volume.Clamp(int(value))
		timerWindow.setVolumeLabelUnsafe(percent)
		if timerWindow.actions.OnVolume != nil {
			timerWindow.actions.OnVolume(percent)
		}
	}

	timerWindow.playlistSelect = widget.NewSelect(media.Names(), nil)
	if playlist, ok := media.Lookup(initial.Playlist); ok {
		timerWindow.playlistSelect.SetSelected(playlist.Name)
	}
	timerWindow.playlistSelect.OnChanged = func(name string) {
		playlist, ok := media.LookupName(name)
		if !ok || timerWindow.actions.OnPlaylist == nil {
			return
		}
		timerWindow.actions.OnPlaylist(playlist.Key)
	}

	timerWindow.urlEntry = widget.NewEntry()
	timerWindow.urlEntry.SetPlaceHolder("YouTube video or playlist URL")
	timerWindow.urlEntry.SetText(initial.CustomURL)
	timerWindow.urlEntry.Validator = func(raw string) error {
		if raw == "" {
			return nil
		}
		_, err := media.ParseSource(raw)
		return err
	}
	timerWindow.playButton = widget.NewButton("Play", timerWindow.submitURL)
	timerWindow.urlEntry.OnSubmitted = func(string) { timerWindow.submitURL() }

	timerWindow.thumbnail = widget.NewHyperlink("Thumbnail", nil)
	timerWindow.thumbnail.Hide()

	header := container.New(&clockLayout{}, sessionLabel, clockLabel, completedLabel, image)
	controls := container.NewGridWithColumns(3, timerWindow.startButton, timerWindow.pauseButton, timerWindow.resetButton)
	volumeRow := container.NewBorder(nil, nil, widget.NewLabel("Volume"), timerWindow.volumeLabel, timerWindow.volumeSlider)
	urlRow := container.NewBorder(nil, nil, nil, timerWindow.playButton, timerWindow.urlEntry)
	playerBox := container.NewVBox(
		widget.NewLabelWithStyle("Background audio", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		timerWindow.playlistSelect,
		urlRow,
		container.NewBorder(nil, nil, nil, timerWindow.thumbnail, timerWindow.nowPlaying),
		timerWindow.statusLabel,
	)

	window.SetContent(container.NewVBox(header, timerWindow.progress, controls, volumeRow, widget.NewSeparator(), playerBox))
	window.Resize(fyne.NewSize(420, 560))

	timerWindow.applyStateUnsafe(timekeeper.StateStopped)
	return timerWindow
}

// Show raises the window.
func (timerWindow *Window) Show() {
	timerWindow.window.Show()
	timerWindow.window.RequestFocus()
}

// SetCloseIntercept hides instead of quitting when a tray is present.
func (timerWindow *Window) SetCloseIntercept(handler func()) {
	timerWindow.window.SetCloseIntercept(handler)
}

// Hide hides the window.
func (timerWindow *Window) Hide() {
	timerWindow.window.Hide()
}

// ShowAndRun shows the window and runs the fyne event loop.
func (timerWindow *Window) ShowAndRun() {
	timerWindow.window.ShowAndRun()
}

// Render implements timekeeper.Display. It may be called from any goroutine.
func (timerWindow *Window) Render(view timekeeper.View) {
	fyne.Do(func() {
		timerWindow.renderUnsafe(view)
	})
}

// SetNowPlaying updates the line under the player controls.
func (timerWindow *Window) SetNowPlaying(nowPlaying media.NowPlaying) {
	fyne.Do(func() {
		timerWindow.setNowPlayingUnsafe(nowPlaying)
	})
}

// SetStatus shows a short problem report under the player, or hides it when
// message is empty.
func (timerWindow *Window) SetStatus(message string) {
	fyne.Do(func() {
		timerWindow.setStatusUnsafe(message)
	})
}

// SetVolume moves the slider without re-triggering OnVolume.
func (timerWindow *Window) SetVolume(percent int) {
	fyne.Do(func() {
		percent = volume.Clamp(percent)
		if int(timerWindow.volumeSlider.Value) == percent {
			return
		}
		handler := timerWindow.volumeSlider.OnChanged
		timerWindow.volumeSlider.OnChanged = nil
		timerWindow.volumeSlider.SetValue(float64(percent))
		timerWindow.volumeSlider.OnChanged = handler
		timerWindow.setVolumeLabelUnsafe(percent)
	})
}

// SetSprite updates the animation image.
func (timerWindow *Window) SetSprite(resource fyne.Resource) {
	fyne.Do(func() {
		timerWindow.image.Resource = resource
		timerWindow.image.Refresh()
	})
}

// Close stops the sprite animation.
func (timerWindow *Window) Close() {
	timerWindow.stopEngine()
}

func (timerWindow *Window) renderUnsafe(view timekeeper.View) {
	accent := breakColor
	if view.IsWork {
		accent = workColor
	}

	timerWindow.clockLabel.Text = view.Clock
	timerWindow.clockLabel.Color = accent
	timerWindow.clockLabel.Refresh()
	timerWindow.sessionLabel.Text = view.Session
	timerWindow.sessionLabel.Refresh()
	timerWindow.completedLabel.Text = view.Completed
	timerWindow.completedLabel.Refresh()
	timerWindow.progress.SetValue(view.Progress)

	if view.State != timerWindow.state {
		timerWindow.applyStateUnsafe(view.State)
	}
	timerWindow.syncAnimation(view)
}

func (timerWindow *Window) applyStateUnsafe(state timekeeper.State) {
	timerWindow.state = state
	if state == timekeeper.StateRunning {
		timerWindow.startButton.Disable()
		timerWindow.pauseButton.Enable()
	} else {
		timerWindow.startButton.Enable()
		timerWindow.pauseButton.Disable()
	}
	if state == timekeeper.StatePaused {
		timerWindow.startButton.SetText("Resume")
	} else {
		timerWindow.startButton.SetText("Start")
	}
}

// syncAnimation keeps the sprite loop matching the session while running.
func (timerWindow *Window) syncAnimation(view timekeeper.View) {
	if timerWindow.engine == nil {
		return
	}
	if view.State != timekeeper.StateRunning {
		timerWindow.stopEngine()
		return
	}
	kind := animation.KindFor(view.IsWork)
	if playing, ok := timerWindow.engine.Playing(); ok && playing == kind {
		return
	}
	timerWindow.stopEngine()
	ctx, cancel := context.WithCancel(context.Background())
	timerWindow.cancelCtx = cancel
	timerWindow.engine.Play(ctx, kind)
}

func (timerWindow *Window) stopEngine() {
	if timerWindow.cancelCtx != nil {
		timerWindow.cancelCtx()
		timerWindow.cancelCtx = nil
	}
	if timerWindow.engine != nil {
		timerWindow.engine.Stop()
	}
}

func (timerWindow *Window) setNowPlayingUnsafe(nowPlaying media.NowPlaying) {
	if nowPlaying.Title == "" {
		timerWindow.nowPlaying.SetText("")
	} else {
		timerWindow.nowPlaying.SetText("Now playing: " + nowPlaying.Title)
	}

	if nowPlaying.ThumbnailURL == "" {
		timerWindow.thumbnail.Hide()
		return
	}
	if err := timerWindow.thumbnail.SetURLFromString(nowPlaying.ThumbnailURL); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "setNowPlayingUnsafe",
			"error":    err,
		}).Debug("thumbnail link rejected")
		timerWindow.thumbnail.Hide()
		return
	}
	timerWindow.thumbnail.Show()
}

func (timerWindow *Window) setStatusUnsafe(message string) {
	timerWindow.statusLabel.SetText(message)
	if message == "" {
		timerWindow.statusLabel.Hide()
		return
	}
	timerWindow.statusLabel.Show()
}

func (timerWindow *Window) setVolumeLabelUnsafe(percent int) {
	timerWindow.volumeLabel.SetText(volumeText(percent))
}

func (timerWindow *Window) submitURL() {
	raw := timerWindow.urlEntry.Text
	if _, err := media.ParseSource(raw); err != nil {
		timerWindow.setStatusUnsafe("Not a YouTube video or playlist URL")
		return
	}
	timerWindow.setStatusUnsafe("")
	if timerWindow.actions.OnPlayURL != nil {
		timerWindow.actions.OnPlayURL(raw)
	}
}

func volumeText(percent int) string {
	return fmt.Sprintf("%d%%", percent)
}

func call(handler func()) {
	if handler != nil {
		handler()
	}
}
