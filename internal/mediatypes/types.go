package mediatypes

import (
	"path/filepath"
	"strings"
)

// FileType represents the type of a media file.
type FileType string

const (
	// FileTypeImage represents an image file.
	FileTypeImage FileType = "image"
	// FileTypeVideo represents a video file.
	FileTypeVideo FileType = "video"
	// FileTypePlaylist represents a playlist file.
	FileTypePlaylist FileType = "playlist"
	// FileTypeOther represents an unknown or unsupported file type.
	FileTypeOther FileType = "other"
)

// RecycleBinMarker is the path segment of the Windows recycle bin.
const RecycleBinMarker = "$RECYCLE.BIN"

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg": true,
	".png": true,
	".bmp": true,
	".gif": true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".avi":  true,
	".wmv":  true,
	".mpg":  true,
	".mpeg": true,
	".mkv":  true,
	".mp4":  true,
}

// PlaylistExtensions maps file extensions to whether they are supported playlist formats.
var PlaylistExtensions = map[string]bool{
	".wpl": true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".avi":  "video/x-msvideo",
	".wmv":  "video/x-ms-wmv",
	".mpg":  "video/mpeg",
	".mpeg": "video/mpeg",
	".mkv":  "video/x-matroska",
	".mp4":  "video/mp4",
	".wpl":  "application/vnd.ms-wpl",
}

// Ext returns the lowercase extension of path, including the leading dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// GetFileType returns the FileType for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".jpg").
// Returns FileTypeOther if the extension is not recognized.
func GetFileType(ext string) FileType {
	if ImageExtensions[ext] {
		return FileTypeImage
	}
	if VideoExtensions[ext] {
		return FileTypeVideo
	}
	if PlaylistExtensions[ext] {
		return FileTypePlaylist
	}
	return FileTypeOther
}

// KindOf classifies a path by its extension.
func KindOf(path string) FileType {
	return GetFileType(Ext(path))
}

// GetMimeType returns the MIME type for a given file extension.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsMediaFile returns true if the extension is a displayable image or video.
func IsMediaFile(ext string) bool {
	t := GetFileType(ext)
	return t == FileTypeImage || t == FileTypeVideo
}

// IsJPEG reports whether path names a JPEG by extension.
func IsJPEG(path string) bool {
	ext := Ext(path)
	return ext == ".jpg" || ext == ".jpeg"
}

// IsRecycled reports whether any segment of path is the recycle bin.
func IsRecycled(path string) bool {
	return strings.Contains(strings.ToUpper(filepath.ToSlash(path)), RecycleBinMarker)
}

// IsCandidate reports whether path should be added to a catalog.
func IsCandidate(path string) bool {
	return !IsRecycled(path) && IsMediaFile(Ext(path))
}
