package rotation

import (
	"errors"
	"fmt"

	"media-screensaver/internal/exif"
	"media-screensaver/internal/logging"
	"media-screensaver/internal/metrics"
)

// OrientationWriter persists a new EXIF orientation into a JPEG.
type OrientationWriter struct {
	// Method labels the writer in logs and metrics.
	Method string
	Write  func(path string, o exif.Orientation) error
}

// DefaultWriters is the persistence chain for JPEG rotation, cheapest first.
func DefaultWriters() []OrientationWriter {
	return []OrientationWriter{
		{Method: "in_place", Write: exif.WriteOrientation},
		{Method: "rewrite", Write: exif.RewriteOrientation},
		{Method: "vips", Write: transcodeWithVips},
	}
}

// persist tries each writer in turn and stops at the first success.
func persist(writers []OrientationWriter, path string, o exif.Orientation) error {
	var errs []error
	for _, w := range writers {
		err := w.Write(path, o)
		if err == nil {
			metrics.RotationsTotal.WithLabelValues(w.Method, "success").Inc()
			logging.Debug("Persisted orientation %d to %s (%s)", o, path, w.Method)
			return nil
		}
		metrics.RotationsTotal.WithLabelValues(w.Method, "error").Inc()
		logging.Debug("Orientation writer %s failed for %s: %v", w.Method, path, err)
		errs = append(errs, fmt.Errorf("%s: %w", w.Method, err))
	}
	if len(errs) == 0 {
		return errors.New("no orientation writers configured")
	}
	return errors.Join(errs...)
}
