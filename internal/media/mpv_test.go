package media

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMPV answers IPC requests on one end of a pipe the way mpv does,
// emitting an unrelated event before every reply.
type fakeMPV struct {
	mu       sync.Mutex
	commands [][]any
	title    string
}

func (server *fakeMPV) serve(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var request ipcRequest
		if err := json.Unmarshal(scanner.Bytes(), &request); err != nil {
			return
		}
		server.mu.Lock()
		server.commands = append(server.commands, request.Command)
		title := server.title
		server.mu.Unlock()

		reply := map[string]any{"request_id": request.RequestID, "error": "success"}
		switch request.Command[0] {
		case "get_property":
			if request.Command[1] == "media-title" {
				reply["data"] = title
			} else {
				reply["error"] = "property not found"
			}
		case "quit":
			return
		}
		payload, _ := json.Marshal(reply)
		fmt.Fprintf(conn, "{\"event\":\"playback-restart\"}\n%s\n", payload)
	}
}

func (server *fakeMPV) Commands() [][]any {
	server.mu.Lock()
	defer server.mu.Unlock()
	return append([][]any(nil), server.commands...)
}

func newFakePlayer(t *testing.T, server *fakeMPV) (*MPVPlayer, *int) {
	t.Helper()
	player := NewMPVPlayer(MPVOptions{SocketPath: filepath.Join(t.TempDir(), "mpv.sock")})
	launches := 0
	player.launch = func(context.Context) (net.Conn, error) {
		launches++
		client, serverConn := net.Pipe()
		go server.serve(serverConn)
		return client, nil
	}
	return player, &launches
}

func TestMPVPlayerCommands(t *testing.T) {
	server := &fakeMPV{title: "lofi hip hop radio"}
	player, launches := newFakePlayer(t, server)
	ctx := context.Background()

	require.NoError(t, player.Load(ctx, Source{Kind: SourceVideo, ID: "jfKfPfyJRdk"}))
	require.NoError(t, player.Volume(ctx, 40))
	title, err := player.Title(ctx)
	require.NoError(t, err)

	assert.Equal(t, "lofi hip hop radio", title)
	assert.Equal(t, 1, *launches)
	commands := server.Commands()
	require.Len(t, commands, 3)
	assert.Equal(t, []any{"loadfile", "https://www.youtube.com/watch?v=jfKfPfyJRdk", "replace"}, commands[0])
	assert.Equal(t, []any{"set_property", "volume", float64(40)}, commands[1])
	assert.Equal(t, []any{"get_property", "media-title"}, commands[2])

	require.NoError(t, player.Close())
	assert.Equal(t, "quit", server.Commands()[3][0])
}

func TestMPVPlayerReportsCommandErrors(t *testing.T) {
	server := &fakeMPV{}
	player, _ := newFakePlayer(t, server)

	_, err := player.call(context.Background(), "get_property", "chapter")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "property not found")
	require.NoError(t, player.Close())
}

func TestMPVPlayerRelaunchesAfterLostConnection(t *testing.T) {
	server := &fakeMPV{}
	player, launches := newFakePlayer(t, server)
	ctx := context.Background()

	require.NoError(t, player.Load(ctx, Source{Kind: SourceVideo, ID: "jfKfPfyJRdk"}))
	player.mu.Lock()
	_ = player.client.close()
	player.mu.Unlock()

	assert.Error(t, player.Volume(ctx, 20))
	require.NoError(t, player.Load(ctx, Source{Kind: SourceVideo, ID: "jfKfPfyJRdk"}))
	require.NoError(t, player.Volume(ctx, 30))
	assert.Equal(t, 2, *launches)
	require.NoError(t, player.Close())
}

func TestMPVPlayerVolumeBeforeLaunchIsRecorded(t *testing.T) {
	server := &fakeMPV{}
	player, launches := newFakePlayer(t, server)
	ctx := context.Background()

	require.NoError(t, player.Volume(ctx, 15))
	require.NoError(t, player.Volume(ctx, 25))

	assert.Equal(t, 0, *launches)
	assert.Empty(t, server.Commands())
	player.mu.Lock()
	assert.True(t, player.hasVolume)
	assert.Equal(t, 25, player.volume)
	player.mu.Unlock()

	require.NoError(t, player.Load(ctx, Source{Kind: SourceVideo, ID: "jfKfPfyJRdk"}))
	require.NoError(t, player.Volume(ctx, 35))
	assert.Equal(t, 1, *launches)
	commands := server.Commands()
	require.Len(t, commands, 2)
	assert.Equal(t, []any{"set_property", "volume", float64(35)}, commands[1])
	require.NoError(t, player.Close())
}

func TestMPVPlayerCallTimesOut(t *testing.T) {
	player := NewMPVPlayer(MPVOptions{SocketPath: filepath.Join(t.TempDir(), "mpv.sock")})
	player.launch = func(context.Context) (net.Conn, error) {
		client, serverConn := net.Pipe()
		go func() {
			reader := bufio.NewReader(serverConn)
			_, _ = reader.ReadBytes('\n')
		}()
		return client, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := player.Title(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, errIPCClosed)
}

func TestMPVPlayerUnavailable(t *testing.T) {
	player := NewMPVPlayer(MPVOptions{Path: "definitely-not-mpv-binary"})

	assert.False(t, player.Available())
	err := player.Load(context.Background(), Source{ID: "jfKfPfyJRdk"})
	assert.ErrorIs(t, err, ErrPlayerUnavailable)
	assert.NoError(t, player.Close())
}
