package exif

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"media-screensaver/internal/filesystem"
	"media-screensaver/internal/mediatypes"
	"media-screensaver/internal/metrics"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	_ "golang.org/x/image/bmp"
	"golang.org/x/text/encoding/unicode"
)

var (
	// ErrNotJPEG is returned for files that are not JPEG images.
	ErrNotJPEG = errors.New("not a JPEG file")
	// ErrCorruptMetadata is returned when the file's metadata cannot be parsed.
	ErrCorruptMetadata = errors.New("corrupt image metadata")
)

var registerOnce sync.Once

func registerParsers() {
	registerOnce.Do(func() {
		goexif.RegisterParsers(mknote.All...)
	})
}

// Info is the metadata shown in the information overlay.
type Info struct {
	Path        string
	Orientation Orientation
	Width       int
	Height      int
	DateTaken   time.Time
	Title       string
	Subject     string
	Comment     string
	Keywords    []string
	Camera      string
}

// HasDateTaken reports whether the file recorded a capture time.
func (i *Info) HasDateTaken() bool {
	return !i.DateTaken.IsZero()
}

// ReadOrientationAndInfo extracts orientation, dimensions and descriptive
// tags from a JPEG. A JPEG without EXIF data is not an error; it reports
// Normal orientation and no tags.
func ReadOrientationAndInfo(path string) (*Info, error) {
	info, err := readInfo(path)
	switch {
	case err == nil:
		metrics.ExifReadsTotal.WithLabelValues("success").Inc()
	case errors.Is(err, ErrNotJPEG):
		metrics.ExifReadsTotal.WithLabelValues("unavailable").Inc()
	default:
		metrics.ExifReadsTotal.WithLabelValues("error").Inc()
	}
	return info, err
}

// ReadOrientation returns only the orientation, treating any failure as
// Normal.
func ReadOrientation(path string) Orientation {
	info, err := ReadOrientationAndInfo(path)
	if err != nil {
		return Normal
	}
	return info.Orientation
}

func readInfo(path string) (*Info, error) {
	if !mediatypes.IsJPEG(path) {
		return nil, ErrNotJPEG
	}

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if !isJPEG(data) {
		return nil, ErrNotJPEG
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptMetadata, err)
	}

	info := &Info{
		Path:        path,
		Orientation: Normal,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}

	segments, err := scanSegments(data)
	if err != nil {
		return nil, err
	}
	seg, ok := findExif(data, segments)
	if !ok {
		return info, nil
	}

	block, _ := tiffBlock(data, seg)
	if err := decodeTags(block, info); err != nil {
		return nil, err
	}
	return info, nil
}

func readFile(path string) ([]byte, error) {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func decodeTags(block []byte, info *Info) error {
	registerParsers()

	x, err := goexif.Decode(bytes.NewReader(block))
	if err != nil && (x == nil || goexif.IsCriticalError(err)) {
		return fmt.Errorf("%w: %v", ErrCorruptMetadata, err)
	}

	if tag, err := x.Get(goexif.Orientation); err == nil {
		if v, err := tag.Int(0); err == nil && Orientation(v).Valid() {
			info.Orientation = Orientation(v)
		}
	}

	if tm, err := x.DateTime(); err == nil {
		info.DateTaken = tm
	}

	if tag, err := x.Get(goexif.ImageDescription); err == nil {
		if s, err := tag.StringVal(); err == nil {
			info.Title = cleanString(s)
		}
	}

	if tag, err := x.Get(goexif.UserComment); err == nil {
		info.Comment = decodeUserComment(tag.Val)
	}

	var camera []string
	for _, name := range []goexif.FieldName{goexif.Make, goexif.Model} {
		if tag, err := x.Get(name); err == nil {
			if s, err := tag.StringVal(); err == nil && cleanString(s) != "" {
				camera = append(camera, cleanString(s))
			}
		}
	}
	info.Camera = strings.Join(camera, " ")

	// goexif does not name the Windows XP tags, so read them from IFD0 directly.
	if t, err := parseTIFF(block); err == nil {
		xp := readXPTags(t)
		if info.Title == "" {
			info.Title = xp[tagXPTitle]
		}
		if info.Comment == "" {
			info.Comment = xp[tagXPComment]
		}
		info.Subject = xp[tagXPSubject]
		if kw := xp[tagXPKeywords]; kw != "" {
			for _, k := range strings.Split(kw, ";") {
				if k = strings.TrimSpace(k); k != "" {
					info.Keywords = append(info.Keywords, k)
				}
			}
		}
	}
	return nil
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func readXPTags(t *tiffFile) map[uint16]string {
	out := make(map[uint16]string)
	entries, _, err := t.readIFD(t.ifd0)
	if err != nil {
		return out
	}
	for _, e := range entries {
		switch e.Tag {
		case tagXPTitle, tagXPComment, tagXPKeywords, tagXPSubject:
		default:
			continue
		}
		raw, err := t.value(e)
		if err != nil {
			continue
		}
		s, err := utf16le.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		out[e.Tag] = cleanString(string(s))
	}
	return out
}

// decodeUserComment strips the 8-byte character code prefix.
func decodeUserComment(raw []byte) string {
	if len(raw) < 8 {
		return cleanString(string(raw))
	}
	code, body := string(raw[:8]), raw[8:]
	switch {
	case strings.HasPrefix(code, "UNICODE"):
		if s, err := utf16le.NewDecoder().Bytes(body); err == nil {
			return cleanString(string(s))
		}
		return ""
	case strings.HasPrefix(code, "ASCII"), code == "\x00\x00\x00\x00\x00\x00\x00\x00":
		return cleanString(string(body))
	default:
		if utf8.Valid(body) {
			return cleanString(string(body))
		}
		return ""
	}
}

func cleanString(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

// Dimensions returns the pixel size of any supported raster image without
// decoding its pixels.
func Dimensions(path string) (int, int, error) {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
