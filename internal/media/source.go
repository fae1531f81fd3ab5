package media

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidSource is returned for URLs that carry no video or playlist id.
var ErrInvalidSource = errors.New("invalid media source")

const videoIDLength = 11

var (
	videoPattern    = regexp.MustCompile(`^.*((youtu.be/)|(v/)|(/u/\w/)|(embed/)|(watch\?))\??v?=?([^#&?]*).*`)
	playlistPattern = regexp.MustCompile(`[&?]list=([^&#]+)`)
)

// SourceKind tells a single video from a playlist.
type SourceKind int

const (
	SourceVideo SourceKind = iota
	SourcePlaylist
)

func (kind SourceKind) String() string {
	if kind == SourcePlaylist {
		return "playlist"
	}
	return "video"
}

// Source is something the ambient player can load.
type Source struct {
	Kind SourceKind
	ID   string
}

// NowPlaying is what the window shows under the player controls.
type NowPlaying struct {
	Title        string
	VideoID      string
	ThumbnailURL string
}

// ParseSource extracts a video id (preferred) or a playlist id from a URL.
func ParseSource(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, fmt.Errorf("%w: empty url", ErrInvalidSource)
	}
	if match := videoPattern.FindStringSubmatch(raw); match != nil && len(match[7]) == videoIDLength {
		return Source{Kind: SourceVideo, ID: match[7]}, nil
	}
	if match := playlistPattern.FindStringSubmatch(raw); match != nil {
		return Source{Kind: SourcePlaylist, ID: match[1]}, nil
	}
	return Source{}, fmt.Errorf("%w: %q", ErrInvalidSource, raw)
}

// URL returns a canonical watch or playlist URL.
func (source Source) URL() string {
	if source.Kind == SourcePlaylist {
		return "https://www.youtube.com/playlist?list=" + source.ID
	}
	return "https://www.youtube.com/watch?v=" + source.ID
}

// ThumbnailURL returns the default thumbnail for a video id.
func ThumbnailURL(videoID string) string {
	if videoID == "" {
		return ""
	}
	return "https://img.youtube.com/vi/" + videoID + "/default.jpg"
}

// NowPlaying describes the source until the player reports a title.
func (source Source) NowPlaying() NowPlaying {
	if source.Kind == SourcePlaylist {
		return NowPlaying{Title: "Custom playlist"}
	}
	return NowPlaying{
		Title:        "Custom video",
		VideoID:      source.ID,
		ThumbnailURL: ThumbnailURL(source.ID),
	}
}
