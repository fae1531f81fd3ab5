package media

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPlayer struct {
	mu      sync.Mutex
	loaded  []Source
	volumes []int
	title   string
	loadErr error
	closed  bool
}

func (player *recordingPlayer) Load(_ context.Context, source Source) error {
	player.loaded = append(player.loaded, source)
	return player.loadErr
}

func (player *recordingPlayer) Volume(_ context.Context, percent int) error {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.volumes = append(player.volumes, percent)
	return nil
}

func (player *recordingPlayer) Volumes() []int {
	player.mu.Lock()
	defer player.mu.Unlock()
	return append([]int(nil), player.volumes...)
}

func (player *recordingPlayer) lastVolume() int {
	volumes := player.Volumes()
	if len(volumes) == 0 {
		return -1
	}
	return volumes[len(volumes)-1]
}

func (player *recordingPlayer) Title(context.Context) (string, error) {
	return player.title, nil
}

func (player *recordingPlayer) Close() error {
	player.closed = true
	return nil
}

func TestControllerSelectPlaylist(t *testing.T) {
	player := &recordingPlayer{}
	controller := NewController(player, 60)
	var updates []NowPlaying
	controller.OnChange(func(nowPlaying NowPlaying) { updates = append(updates, nowPlaying) })

	nowPlaying, err := controller.SelectPlaylist(context.Background(), "lofi")
	require.NoError(t, err)

	assert.Equal(t, "lofi hip hop radio - beats to sleep/chill to", nowPlaying.Title)
	assert.Equal(t, []Source{{Kind: SourceVideo, ID: "DWcJFNfaw9c"}}, player.loaded)
	assert.Equal(t, []int{60}, player.Volumes())
	assert.Equal(t, []NowPlaying{nowPlaying}, updates)
	assert.Equal(t, nowPlaying, controller.NowPlaying())
}

func TestControllerUnknownPlaylist(t *testing.T) {
	player := &recordingPlayer{}
	controller := NewController(player, 50)

	_, err := controller.SelectPlaylist(context.Background(), "jazz")

	assert.ErrorIs(t, err, ErrInvalidSource)
	assert.Empty(t, player.loaded)
}

func TestControllerPlayURL(t *testing.T) {
	player := &recordingPlayer{}
	controller := NewController(player, 50)

	nowPlaying, err := controller.PlayURL(context.Background(), "https://youtu.be/eKFTSSKCzWA")
	require.NoError(t, err)
	assert.Equal(t, "eKFTSSKCzWA", nowPlaying.VideoID)

	_, err = controller.PlayURL(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, ErrInvalidSource)
	assert.Len(t, player.loaded, 1)
}

func TestControllerShowsCatalogDataWhenLoadFails(t *testing.T) {
	player := &recordingPlayer{loadErr: ErrPlayerUnavailable}
	controller := NewController(player, 50)

	nowPlaying, err := controller.SelectPlaylist(context.Background(), "study")

	assert.ErrorIs(t, err, ErrPlayerUnavailable)
	assert.Equal(t, "Classical Music for Studying", nowPlaying.Title)
	assert.Equal(t, nowPlaying, controller.NowPlaying())
}

func TestControllerVolumeIsReappliedOnLoad(t *testing.T) {
	player := &recordingPlayer{}
	controller := NewController(player, 50)

	controller.SetVolume(20)
	_, err := controller.SelectPlaylist(context.Background(), "focus")
	require.NoError(t, err)

	assert.Equal(t, 20, player.lastVolume())
	assert.Len(t, player.loaded, 1)
	require.NoError(t, controller.Close())
}

func TestControllerLastVolumeWins(t *testing.T) {
	player := &recordingPlayer{}
	controller := NewController(player, 50)
	t.Cleanup(func() { _ = controller.Close() })

	var wg sync.WaitGroup
	for worker := 0; worker < 4; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for percent := 0; percent < 50; percent++ {
				controller.SetVolume(percent)
			}
		}()
	}
	wg.Wait()
	controller.SetVolume(73)

	require.Eventually(t, func() bool { return player.lastVolume() == 73 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 73, controller.Volume())
	assert.Less(t, len(player.Volumes()), 4*50+1, "stale values are skipped")
}

func TestControllerSetVolumeDoesNotBlockOnSlowPlayer(t *testing.T) {
	release := make(chan struct{})
	player := &blockingVolumePlayer{release: release}
	controller := NewController(player, 50)

	done := make(chan struct{})
	go func() {
		for percent := 0; percent < 100; percent++ {
			controller.SetVolume(percent)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SetVolume blocked on the player")
	}
	close(release)
	require.Eventually(t, func() bool { return player.lastVolume() == 99 }, time.Second, 5*time.Millisecond)
	require.NoError(t, controller.Close())
}

type blockingVolumePlayer struct {
	recordingPlayer
	release chan struct{}
}

func (player *blockingVolumePlayer) Volume(ctx context.Context, percent int) error {
	select {
	case <-player.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	return player.recordingPlayer.Volume(ctx, percent)
}

func TestControllerRefreshTitle(t *testing.T) {
	player := &recordingPlayer{}
	controller := NewController(player, 50)
	_, err := controller.PlayURL(context.Background(), "https://youtu.be/eKFTSSKCzWA")
	require.NoError(t, err)

	nowPlaying, err := controller.RefreshTitle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Custom video", nowPlaying.Title, "empty title keeps placeholder")

	player.title = "Rain in the forest"
	nowPlaying, err = controller.RefreshTitle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Rain in the forest", nowPlaying.Title)
	assert.Equal(t, "eKFTSSKCzWA", nowPlaying.VideoID)
}

func TestControllerNilPlayer(t *testing.T) {
	controller := NewController(nil, 50)

	_, err := controller.SelectPlaylist(context.Background(), DefaultPlaylist)
	assert.NoError(t, err)
	assert.NoError(t, controller.Close())
}

func TestControllerClose(t *testing.T) {
	player := &recordingPlayer{}
	require.NoError(t, NewController(player, 0).Close())
	assert.True(t, player.closed)
}
