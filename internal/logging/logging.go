package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	appDir          = "tempo"
	DefaultMaxFiles = 20
	debugEnv        = "TEMPO_DEBUG"
)

// Options selects where logs go and how verbose they are.
type Options struct {
	Level    string
	File     string
	Debug    bool
	MaxFiles int
	// Dir overrides the per-OS log directory used in debug mode.
	Dir string
}

// Output is the configured log destination.
type Output struct {
	Path string
	file *os.File
}

// Close releases the log file, if any, and points logrus back at stderr.
func (output *Output) Close() error {
	if output == nil || output.file == nil {
		return nil
	}
	logrus.SetOutput(os.Stderr)
	err := output.file.Close()
	output.file = nil
	return err
}

// Setup configures the global logrus logger. Without a file and without
// debug mode logs go to stderr as text. Debug mode writes JSON to a
// uuid-named file under the state directory, keeping at most MaxFiles.
func Setup(options Options) (*Output, error) {
	if os.Getenv(debugEnv) == "1" {
		options.Debug = true
	}

	level := logrus.InfoLevel
	if options.Level != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(options.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", options.Level, err)
		}
		level = parsed
	}
	if options.Debug {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	if !options.Debug && options.File == "" {
		logrus.SetOutput(os.Stderr)
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return &Output{}, nil
	}

	path := options.File
	if path == "" {
		dir := options.Dir
		if dir == "" {
			var err error
			dir, err = logDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get log directory: %w", err)
			}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		maxFiles := options.MaxFiles
		if maxFiles <= 0 {
			maxFiles = DefaultMaxFiles
		}
		if err := rotateLogs(dir, maxFiles); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: log rotation failed: %v\n", err)
		}
		path = filepath.Join(dir, uuid.New().String()+".log")
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logrus.SetOutput(file)
	logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})

	logrus.WithFields(logrus.Fields{
		"function": "Setup",
		"log_file": path,
		"level":    level.String(),
	}).Info("Logging initialized")

	return &Output{Path: path, file: file}, nil
}

func rotateLogs(dir string, maxFiles int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	type logFileInfo struct {
		path    string
		modTime time.Time
	}
	var files []logFileInfo
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".log" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, logFileInfo{path: filepath.Join(dir, entry.Name()), modTime: info.ModTime()})
	}
	if len(files) < maxFiles {
		return nil
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})
	// Leave room for the file about to be created.
	excess := len(files) - maxFiles + 1
	for i := 0; i < excess; i++ {
		if err := os.Remove(files[i].path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to delete old log file %s: %v\n", files[i].path, err)
		}
	}
	return nil
}

func logDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Logs", appDir), nil
	case "windows":
		local := os.Getenv("LOCALAPPDATA")
		if local == "" {
			local = filepath.Join(home, "AppData", "Local")
		}
		return filepath.Join(local, appDir, "logs"), nil
	default:
		state := os.Getenv("XDG_STATE_HOME")
		if state == "" {
			state = filepath.Join(home, ".local", "state")
		}
		return filepath.Join(state, appDir), nil
	}
}
