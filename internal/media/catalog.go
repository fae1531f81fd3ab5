package media

// DefaultPlaylist is the catalog key selected on first launch.
const DefaultPlaylist = "focus"

// Playlist is one built-in ambient source.
type Playlist struct {
	Key     string
	Name    string
	VideoID string
	Title   string
}

var catalog = []Playlist{
	{Key: "focus", Name: "Focus Music", VideoID: "jfKfPfyJRdk", Title: "lofi hip hop radio - beats to relax/study to"},
	{Key: "ambient", Name: "Ambient Sounds", VideoID: "l_7e2ZamUpI", Title: "lofi hip hop radio - beats to study/relax to"},
	{Key: "lofi", Name: "Lo-Fi Beats", VideoID: "DWcJFNfaw9c", Title: "lofi hip hop radio - beats to sleep/chill to"},
	{Key: "nature", Name: "Nature Sounds", VideoID: "eKFTSSKCzWA", Title: "Relaxing Nature Sounds"},
	{Key: "study", Name: "Study Music", VideoID: "lTRiuFIWV54", Title: "Classical Music for Studying"},
}

// Catalog returns the built-in playlists in display order.
func Catalog() []Playlist {
	return append([]Playlist(nil), catalog...)
}

// Keys returns the catalog keys in display order.
func Keys() []string {
	keys := make([]string, len(catalog))
	for i, playlist := range catalog {
		keys[i] = playlist.Key
	}
	return keys
}

// Names returns the display names in catalog order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, playlist := range catalog {
		names[i] = playlist.Name
	}
	return names
}

// Lookup finds a playlist by key.
func Lookup(key string) (Playlist, bool) {
	for _, playlist := range catalog {
		if playlist.Key == key {
			return playlist, true
		}
	}
	return Playlist{}, false
}

// LookupName finds a playlist by display name.
func LookupName(name string) (Playlist, bool) {
	for _, playlist := range catalog {
		if playlist.Name == name {
			return playlist, true
		}
	}
	return Playlist{}, false
}

// Source returns the playable source of the playlist.
func (playlist Playlist) Source() Source {
	return Source{Kind: SourceVideo, ID: playlist.VideoID}
}

// NowPlaying describes the playlist before the player reports anything.
func (playlist Playlist) NowPlaying() NowPlaying {
	return NowPlaying{
		Title:        playlist.Title,
		VideoID:      playlist.VideoID,
		ThumbnailURL: ThumbnailURL(playlist.VideoID),
	}
}
