package media

import (
	"context"
	"errors"
)

// ErrPlayerUnavailable is returned when no ambient player backend can run.
var ErrPlayerUnavailable = errors.New("media player unavailable")

// Player controls the ambient background audio. Ended tracks loop.
type Player interface {
	Load(ctx context.Context, source Source) error
	Volume(ctx context.Context, percent int) error
	Title(ctx context.Context) (string, error)
	Close() error
}

// NopPlayer accepts every command and plays nothing. It stands in when
// ambient audio is disabled or no backend is installed.
type NopPlayer struct{}

func (NopPlayer) Load(context.Context, Source) error { return nil }

func (NopPlayer) Volume(context.Context, int) error { return nil }

func (NopPlayer) Title(context.Context) (string, error) { return "", nil }

func (NopPlayer) Close() error { return nil }
