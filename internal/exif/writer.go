package exif

import (
	"errors"
	"fmt"
	"os"

	"media-screensaver/internal/filesystem"
	"media-screensaver/internal/logging"
)

// ErrNoOrientationSlot is returned by WriteOrientation when the file has no
// orientation tag whose value can be overwritten.
var ErrNoOrientationSlot = errors.New("no orientation tag to rewrite in place")

// WriteOrientation overwrites the existing orientation value in place. Only
// the two value bytes change; the file is never resized.
func WriteOrientation(path string, o Orientation) error {
	if !o.Valid() {
		return fmt.Errorf("invalid orientation %d", int(o))
	}

	data, err := readFile(path)
	if err != nil {
		return err
	}
	segments, err := scanSegments(data)
	if err != nil {
		return err
	}
	seg, ok := findExif(data, segments)
	if !ok {
		return ErrNoOrientationSlot
	}
	block, blockOffset := tiffBlock(data, seg)
	t, err := parseTIFF(block)
	if err != nil {
		return err
	}
	slot, ok, err := t.orientationSlot()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoOrientationSlot
	}

	value := make([]byte, 2)
	t.order.PutUint16(value, uint16(o))

	f, err := filesystem.OpenFileWithRetry(path, os.O_WRONLY, 0, filesystem.DefaultRetryConfig())
	if err != nil {
		return err
	}
	if _, err := f.WriteAt(value, int64(blockOffset+slot)); err != nil {
		f.Close()
		return fmt.Errorf("failed to write orientation: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write orientation: %w", err)
	}

	logging.Debug("Wrote orientation %d in place to %s", o, path)
	return nil
}

// RewriteOrientation sets the orientation by rewriting the EXIF segment
// without touching the compressed image data. A file without EXIF gains a
// new segment; a file without an orientation tag gains a new IFD0 that
// carries it. The file is replaced atomically.
func RewriteOrientation(path string, o Orientation) error {
	if !o.Valid() {
		return fmt.Errorf("invalid orientation %d", int(o))
	}

	data, err := readFile(path)
	if err != nil {
		return err
	}
	segments, err := scanSegments(data)
	if err != nil {
		return err
	}

	var out []byte
	if seg, ok := findExif(data, segments); ok {
		block, _ := tiffBlock(data, seg)
		t, err := parseTIFF(block)
		if err != nil {
			return err
		}
		rebuilt, err := t.withOrientation(o)
		if err != nil {
			return err
		}
		app1, err := exifSegment(rebuilt)
		if err != nil {
			return err
		}
		out = splice(data, seg.Start, seg.Start+seg.Size, app1)
	} else {
		app1, err := exifSegment(minimalTIFF(o))
		if err != nil {
			return err
		}
		// JFIF requires its APP0 segment to come first.
		at := 2
		if len(segments) > 0 && segments[0].Marker == markerAPP0 {
			at = segments[0].Start + segments[0].Size
		}
		out = splice(data, at, at, app1)
	}

	if err := filesystem.WriteFileAtomic(path, out); err != nil {
		return err
	}
	logging.Debug("Rewrote EXIF segment of %s with orientation %d", path, o)
	return nil
}

func splice(data []byte, from, to int, insert []byte) []byte {
	out := make([]byte, 0, len(data)-(to-from)+len(insert))
	out = append(out, data[:from]...)
	out = append(out, insert...)
	return append(out, data[to:]...)
}
