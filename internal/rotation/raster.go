package rotation

import (
	"bytes"
	"fmt"
	"image"

	"media-screensaver/internal/filesystem"
	"media-screensaver/internal/metrics"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
)

// rotatePixels turns the image clockwise by angle degrees and saves it back
// in its original format. Animated GIFs keep only their first frame.
func rotatePixels(path string, angle int) error {
	err := rotateAndSave(path, angle)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RotationsTotal.WithLabelValues("pixels", status).Inc()
	return err
}

func rotateAndSave(path string, angle int) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return err
	}

	img, err := imaging.Open(path)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	var rotated image.Image = img
	switch ((angle % 360) + 360) % 360 {
	case 90:
		rotated = imaging.Rotate270(img)
	case 180:
		rotated = imaging.Rotate180(img)
	case 270:
		rotated = imaging.Rotate90(img)
	default:
		return nil
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, rotated, format); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return filesystem.WriteFileAtomic(path, buf.Bytes())
}
