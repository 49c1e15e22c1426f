package playlist

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"media-screensaver/internal/mediatypes"
)

// WPL structure based on Windows Media Player playlist format
type WPL struct {
	XMLName xml.Name `xml:"smil"`
	Head    WPLHead  `xml:"head"`
	Body    WPLBody  `xml:"body"`
}

type WPLHead struct {
	Title string `xml:"title"`
}

type WPLBody struct {
	Seq WPLSeq `xml:"seq"`
}

type WPLSeq struct {
	Media []WPLMedia `xml:"media"`
}

type WPLMedia struct {
	Src string `xml:"src,attr"`
}

// Playlist is a parsed playlist with its sources resolved against the
// local filesystem.
type Playlist struct {
	Name  string
	Path  string
	Items []Item
}

// Item is one playlist entry.
type Item struct {
	Path     string
	OrigPath string
	Kind     mediatypes.FileType
	Exists   bool
}

// MediaPaths returns the resolved paths of existing image and video items in
// playlist order.
func (p *Playlist) MediaPaths() []string {
	paths := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		if !item.Exists {
			continue
		}
		if item.Kind != mediatypes.FileTypeImage && item.Kind != mediatypes.FileTypeVideo {
			continue
		}
		paths = append(paths, item.Path)
	}
	return paths
}

// ParseWPL reads a .wpl file and resolves each media source.
func ParseWPL(wplPath string) (*Playlist, error) {
	data, err := os.ReadFile(wplPath)
	if err != nil {
		return nil, err
	}

	var wpl WPL
	if err := xml.Unmarshal(data, &wpl); err != nil {
		return nil, fmt.Errorf("invalid playlist %s: %w", wplPath, err)
	}

	playlist := &Playlist{
		Name: wpl.Head.Title,
		Path: wplPath,
	}
	if playlist.Name == "" {
		playlist.Name = strings.TrimSuffix(filepath.Base(wplPath), filepath.Ext(wplPath))
	}

	wplDir := filepath.Dir(wplPath)
	for _, media := range wpl.Body.Seq.Media {
		if media.Src == "" {
			continue
		}
		resolved, exists := resolveSource(wplDir, media.Src)
		playlist.Items = append(playlist.Items, Item{
			Path:     resolved,
			OrigPath: media.Src,
			Kind:     mediatypes.KindOf(resolved),
			Exists:   exists,
		})
	}

	return playlist, nil
}

// resolveSource maps a playlist source to a local path. Sources are tried as
// written, relative to the playlist, and finally by file name next to the
// playlist.
func resolveSource(wplDir, src string) (string, bool) {
	native := filepath.FromSlash(strings.ReplaceAll(src, "\\", "/"))

	var candidates []string
	if filepath.IsAbs(native) {
		candidates = append(candidates, native)
	} else {
		candidates = append(candidates, filepath.Join(wplDir, native))
	}
	candidates = append(candidates, filepath.Join(wplDir, filepath.Base(native)))

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return filepath.Clean(candidate), true
		}
	}
	return filepath.Clean(candidates[0]), false
}
