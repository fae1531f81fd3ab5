package timerwindow

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/internal/core/timekeeper"
	"tempo/internal/media"
	"tempo/internal/ui/animation"
)

type recordedActions struct {
	starts    int
	pauses    int
	resets    int
	volumes   []int
	playlists []string
	urls      []string
}

func (r *recordedActions) actions() Actions {
	return Actions{
		OnStart:    func() { r.starts++ },
		OnPause:    func() { r.pauses++ },
		OnReset:    func() { r.resets++ },
		OnVolume:   func(percent int) { r.volumes = append(r.volumes, percent) },
		OnPlaylist: func(key string) { r.playlists = append(r.playlists, key) },
		OnPlayURL:  func(raw string) { r.urls = append(r.urls, raw) },
	}
}

func slowEngine() *animation.Engine {
	sprites := animation.Set{
		Work:  animation.SessionSpec{Frames: []fyne.Resource{fyne.NewStaticResource("work.svg", []byte("<svg/>"))}},
		Break: animation.SessionSpec{Frames: []fyne.Resource{fyne.NewStaticResource("break.svg", []byte("<svg/>"))}},
	}
	config := animation.Config{
		WorkFrame:  animation.Range{Min: time.Hour, Max: time.Hour},
		BreakFrame: animation.Range{Min: time.Hour, Max: time.Hour},
	}
	return animation.New(config, sprites, func(fyne.Resource) {})
}

func newTestWindow(t *testing.T, engine *animation.Engine) (*Window, *recordedActions) {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)
	recorder := &recordedActions{}
	window := New(app, Initial{Volume: 30, Playlist: "lofi"}, recorder.actions(), engine)
	t.Cleanup(window.Close)
	return window, recorder
}

func runningView(isWork bool) timekeeper.View {
	return timekeeper.View{
		Clock:     "24:59",
		Session:   timekeeper.SessionLabel(isWork),
		Completed: timekeeper.CompletedLabel(2),
		State:     timekeeper.StateRunning,
		IsWork:    isWork,
		Remaining: 24*time.Minute + 59*time.Second,
		Progress:  0.25,
	}
}

func TestInitialControls(t *testing.T) {
	window, _ := newTestWindow(t, nil)

	assert.Equal(t, "00:00", window.clockLabel.Text)
	assert.Equal(t, 30.0, window.volumeSlider.Value)
	assert.Equal(t, "30%", window.volumeLabel.Text)
	lofi, _ := media.Lookup("lofi")
	assert.Equal(t, lofi.Name, window.playlistSelect.Selected)
	assert.False(t, window.startButton.Disabled())
	assert.True(t, window.pauseButton.Disabled())
}

func TestRenderUpdatesLabelsAndButtons(t *testing.T) {
	window, _ := newTestWindow(t, nil)

	window.renderUnsafe(runningView(false))

	assert.Equal(t, "24:59", window.clockLabel.Text)
	assert.Equal(t, "Break Session", window.sessionLabel.Text)
	assert.Equal(t, "Sessions completed: 2", window.completedLabel.Text)
	assert.Equal(t, breakColor, window.clockLabel.Color)
	assert.Equal(t, 0.25, window.progress.Value)
	assert.True(t, window.startButton.Disabled())
	assert.False(t, window.pauseButton.Disabled())

	paused := runningView(false)
	paused.State = timekeeper.StatePaused
	window.renderUnsafe(paused)

	assert.False(t, window.startButton.Disabled())
	assert.Equal(t, "Resume", window.startButton.Text)
}

func TestAnimationFollowsRunningSession(t *testing.T) {
	engine := slowEngine()
	window, _ := newTestWindow(t, engine)

	window.renderUnsafe(runningView(true))
	kind, playing := engine.Playing()
	require.True(t, playing)
	assert.Equal(t, animation.KindWork, kind)

	window.renderUnsafe(runningView(false))
	kind, playing = engine.Playing()
	require.True(t, playing)
	assert.Equal(t, animation.KindBreak, kind)

	stopped := runningView(true)
	stopped.State = timekeeper.StateStopped
	window.renderUnsafe(stopped)
	_, playing = engine.Playing()
	assert.False(t, playing)
}

func TestButtonsInvokeActions(t *testing.T) {
	window, recorder := newTestWindow(t, nil)

	test.Tap(window.startButton)
	window.renderUnsafe(runningView(true))
	test.Tap(window.pauseButton)
	test.Tap(window.resetButton)

	assert.Equal(t, 1, recorder.starts)
	assert.Equal(t, 1, recorder.pauses)
	assert.Equal(t, 1, recorder.resets)
}

func TestVolumeSliderReportsClampedPercent(t *testing.T) {
	window, recorder := newTestWindow(t, nil)

	window.volumeSlider.SetValue(75)

	assert.Equal(t, []int{75}, recorder.volumes)
	assert.Equal(t, "75%", window.volumeLabel.Text)
}

func TestPlaylistSelectReportsKey(t *testing.T) {
	window, recorder := newTestWindow(t, nil)
	nature, _ := media.Lookup("nature")

	window.playlistSelect.SetSelected(nature.Name)

	assert.Equal(t, []string{"nature"}, recorder.playlists)
}

func TestSubmitURL(t *testing.T) {
	window, recorder := newTestWindow(t, nil)

	window.urlEntry.SetText("https://example.com/nothing")
	window.submitURL()
	assert.Empty(t, recorder.urls)
	assert.True(t, window.statusLabel.Visible())

	window.urlEntry.SetText("https://www.youtube.com/watch?v=jfKfPfyJRdk")
	window.submitURL()
	assert.Equal(t, []string{"https://www.youtube.com/watch?v=jfKfPfyJRdk"}, recorder.urls)
	assert.False(t, window.statusLabel.Visible())
}

func TestNowPlaying(t *testing.T) {
	window, _ := newTestWindow(t, nil)

	window.setNowPlayingUnsafe(media.NowPlaying{
		Title:        "lofi hip hop radio",
		VideoID:      "jfKfPfyJRdk",
		ThumbnailURL: media.ThumbnailURL("jfKfPfyJRdk"),
	})
	assert.Equal(t, "Now playing: lofi hip hop radio", window.nowPlaying.Text)
	assert.True(t, window.thumbnail.Visible())
	assert.Equal(t, "img.youtube.com", window.thumbnail.URL.Host)

	window.setNowPlayingUnsafe(media.NowPlaying{Title: "Custom playlist"})
	assert.False(t, window.thumbnail.Visible())
}
