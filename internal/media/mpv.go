package media

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultMPVPath      = "mpv"
	defaultStartTimeout = 5 * time.Second
	defaultCallTimeout  = 2 * time.Second
	dialRetryInterval   = 50 * time.Millisecond
)

// MPVOptions configures the mpv backend.
type MPVOptions struct {
	Path         string
	SocketPath   string
	StartTimeout time.Duration
}

// MPVPlayer drives a headless mpv process over its JSON IPC socket. The
// process is launched on the first command and reused afterwards.
type MPVPlayer struct {
	mu      sync.Mutex
	options MPVOptions
	process *exec.Cmd
	client  *ipcClient
	launch  func(ctx context.Context) (net.Conn, error)

	// volume is passed to mpv at launch when set before any command.
	volume    int
	hasVolume bool
}

// NewMPVPlayer creates a player. Nothing is started until the first command.
func NewMPVPlayer(options MPVOptions) *MPVPlayer {
	if options.Path == "" {
		options.Path = defaultMPVPath
	}
	if options.SocketPath == "" {
		options.SocketPath = filepath.Join(os.TempDir(), fmt.Sprintf("tempo-mpv-%d.sock", os.Getpid()))
	}
	if options.StartTimeout <= 0 {
		options.StartTimeout = defaultStartTimeout
	}
	player := &MPVPlayer{options: options}
	player.launch = player.launchProcess
	return player
}

// Available reports whether the mpv binary can be found.
func (player *MPVPlayer) Available() bool {
	if runtime.GOOS == "windows" {
		return false
	}
	_, err := exec.LookPath(player.options.Path)
	return err == nil
}

// Load replaces whatever is playing with source.
func (player *MPVPlayer) Load(ctx context.Context, source Source) error {
	_, err := player.call(ctx, "loadfile", source.URL(), "replace")
	return err
}

// Volume sets the mpv volume in percent. Without a running mpv the value is
// only recorded and used when the process is launched.
func (player *MPVPlayer) Volume(ctx context.Context, percent int) error {
	player.mu.Lock()
	defer player.mu.Unlock()

	player.volume = percent
	player.hasVolume = true
	if player.client == nil {
		return nil
	}
	_, err := player.callLocked(ctx, "set_property", "volume", percent)
	return err
}

// Title returns the media title mpv resolved for the current file.
func (player *MPVPlayer) Title(ctx context.Context) (string, error) {
	data, err := player.call(ctx, "get_property", "media-title")
	if err != nil {
		return "", err
	}
	var title string
	if err := json.Unmarshal(data, &title); err != nil {
		return "", fmt.Errorf("decode media-title: %w", err)
	}
	return title, nil
}

// Close asks mpv to quit and releases the socket.
func (player *MPVPlayer) Close() error {
	player.mu.Lock()
	defer player.mu.Unlock()

	if player.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultCallTimeout)
	defer cancel()
	_, quitErr := player.client.call(ctx, "quit")
	closeErr := player.client.close()
	player.client = nil

	if player.process != nil {
		waitErr := make(chan error, 1)
		go func() { waitErr <- player.process.Wait() }()
		select {
		case <-waitErr:
		case <-time.After(defaultCallTimeout):
			_ = player.process.Process.Kill()
		}
		player.process = nil
	}
	_ = os.Remove(player.options.SocketPath)

	if quitErr != nil && !errors.Is(quitErr, net.ErrClosed) {
		logrus.WithFields(logrus.Fields{
			"function": "MPVPlayer.Close",
			"error":    quitErr.Error(),
		}).Debug("mpv quit command failed")
	}
	return closeErr
}

func (player *MPVPlayer) call(ctx context.Context, args ...any) (json.RawMessage, error) {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.callLocked(ctx, args...)
}

func (player *MPVPlayer) callLocked(ctx context.Context, args ...any) (json.RawMessage, error) {
	if player.client == nil {
		conn, err := player.launch(ctx)
		if err != nil {
			return nil, err
		}
		player.client = newIPCClient(conn)
	}

	data, err := player.client.call(ctx, args...)
	if err != nil && isConnectionError(err) {
		logrus.WithFields(logrus.Fields{
			"function": "MPVPlayer.callLocked",
			"error":    err.Error(),
		}).Warn("Lost mpv connection, restarting on next command")
		player.teardownLocked()
	}
	return data, err
}

func (player *MPVPlayer) teardownLocked() {
	if player.client != nil {
		_ = player.client.close()
		player.client = nil
	}
	if player.process != nil {
		_ = player.process.Process.Kill()
		_ = player.process.Wait()
		player.process = nil
	}
}

func (player *MPVPlayer) launchProcess(ctx context.Context) (net.Conn, error) {
	if !player.Available() {
		return nil, fmt.Errorf("%w: %s not found", ErrPlayerUnavailable, player.options.Path)
	}
	_ = os.Remove(player.options.SocketPath)

	args := []string{
		"--no-video",
		"--idle=yes",
		"--loop-file=inf",
		"--loop-playlist=inf",
		"--really-quiet",
		"--input-ipc-server=" + player.options.SocketPath,
	}
	if player.hasVolume {
		args = append(args, fmt.Sprintf("--volume=%d", player.volume))
	}
	cmd := exec.Command(player.options.Path, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start mpv: %w", ErrPlayerUnavailable, err)
	}
	player.process = cmd

	logrus.WithFields(logrus.Fields{
		"function": "MPVPlayer.launch",
		"pid":      cmd.Process.Pid,
		"socket":   player.options.SocketPath,
	}).Info("Started mpv")

	ctx, cancel := context.WithTimeout(ctx, player.options.StartTimeout)
	defer cancel()
	for {
		var dialer net.Dialer
		conn, err := dialer.DialContext(ctx, "unix", player.options.SocketPath)
		if err == nil {
			return conn, nil
		}
		select {
		case <-ctx.Done():
			_ = cmd.Process.Kill()
			player.process = nil
			return nil, fmt.Errorf("%w: mpv socket: %w", ErrPlayerUnavailable, err)
		case <-time.After(dialRetryInterval):
		}
	}
}

func isConnectionError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, net.ErrClosed) || errors.Is(err, errIPCClosed)
}

var errIPCClosed = errors.New("mpv ipc connection closed")

type ipcRequest struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

type ipcResponse struct {
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	RequestID int             `json:"request_id"`
	Event     string          `json:"event"`
}

// ipcClient speaks mpv's line-delimited JSON protocol. Events interleaved
// with replies are skipped.
type ipcClient struct {
	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	nextID int
}

func newIPCClient(conn net.Conn) *ipcClient {
	return &ipcClient{conn: conn, reader: bufio.NewReader(conn)}
}

func (client *ipcClient) call(ctx context.Context, args ...any) (json.RawMessage, error) {
	client.mu.Lock()
	defer client.mu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultCallTimeout)
	}
	if err := client.conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("%w: %w", errIPCClosed, err)
	}

	client.nextID++
	id := client.nextID
	payload, err := json.Marshal(ipcRequest{Command: args, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("encode mpv command: %w", err)
	}
	if _, err := client.conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("%w: write: %w", errIPCClosed, err)
	}

	for {
		line, err := client.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errIPCClosed, err)
		}
		var response ipcResponse
		if err := json.Unmarshal(line, &response); err != nil {
			return nil, fmt.Errorf("decode mpv reply: %w", err)
		}
		if response.Event != "" || response.RequestID != id {
			continue
		}
		if response.Error != "" && response.Error != "success" {
			return nil, fmt.Errorf("mpv %v: %s", args[0], response.Error)
		}
		return response.Data, nil
	}
}

func (client *ipcClient) close() error {
	return client.conn.Close()
}
