// Package resources embeds the sprites and logos shipped with Tempo.
package resources

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
)

const (
	spriteDir = "sprites/"
	logoDir   = "logo/"
)

// Logo file names.
const (
	LogoWork   = "tempo.svg"
	LogoBreak  = "tempo-break.svg"
	LogoPaused = "tempo-paused.svg"
)

//go:embed sprites/*.svg
var spriteFS embed.FS

//go:embed logo/*.svg
var logoFS embed.FS

var spriteCache sync.Map
var logoCache sync.Map

// Sprite returns a Fyne resource for the given sprite file.
func Sprite(fileName string) (fyne.Resource, error) {
	return loadResource(spriteFS, spriteDir+fileName, &spriteCache)
}

// SpriteSequence returns every sprite named <prefix>-<n>.svg in file name
// order.
func SpriteSequence(prefix string) ([]fyne.Resource, error) {
	entries, err := fs.ReadDir(spriteFS, strings.TrimSuffix(spriteDir, "/"))
	if err != nil {
		return nil, fmt.Errorf("list sprites: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		rest, ok := strings.CutPrefix(name, prefix+"-")
		if !ok || !strings.HasSuffix(rest, ".svg") {
			continue
		}
		if rest[0] < '0' || rest[0] > '9' {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no sprites with prefix %q", prefix)
	}
	sort.Strings(names)

	sequence := make([]fyne.Resource, 0, len(names))
	for _, name := range names {
		resource, err := Sprite(name)
		if err != nil {
			return nil, err
		}
		sequence = append(sequence, resource)
	}
	return sequence, nil
}

// Logo returns a Fyne resource for the given logo file.
func Logo(fileName string) (fyne.Resource, error) {
	return loadResource(logoFS, logoDir+fileName, &logoCache)
}

// MustLogo returns a Fyne resource or panics on error.
func MustLogo(fileName string) fyne.Resource {
	resource, err := Logo(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

func loadResource(files embed.FS, name string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(name); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", name, err)
	}

	resource := fyne.NewStaticResource(path.Base(name), data)
	cache.Store(name, resource)
	return resource, nil
}
