package exif

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Summary renders the information overlay text.
func (i *Info) Summary() string {
	var b strings.Builder
	b.WriteString(filepath.Base(i.Path))
	fmt.Fprintf(&b, "\n%d x %d", i.Width, i.Height)
	if i.HasDateTaken() {
		fmt.Fprintf(&b, "\nTaken: %s", i.DateTaken.Format("2006-01-02 15:04"))
	}
	if i.Camera != "" {
		fmt.Fprintf(&b, "\nCamera: %s", i.Camera)
	}
	if i.Title != "" {
		fmt.Fprintf(&b, "\nTitle: %s", i.Title)
	}
	if i.Subject != "" {
		fmt.Fprintf(&b, "\nSubject: %s", i.Subject)
	}
	if i.Comment != "" {
		fmt.Fprintf(&b, "\nComment: %s", i.Comment)
	}
	if len(i.Keywords) > 0 {
		fmt.Fprintf(&b, "\nTags: %s", strings.Join(i.Keywords, ", "))
	}
	return b.String()
}

// FallbackSummary is the overlay text for files whose metadata could not be
// read. Unknown dimensions are omitted.
func FallbackSummary(path string, width, height int) string {
	if width <= 0 || height <= 0 {
		return filepath.Base(path)
	}
	return fmt.Sprintf("%s\n%d x %d", filepath.Base(path), width, height)
}
