// Package playlist parses Windows Media Player (.wpl) playlists so a playlist
// can be configured as a screensaver root alongside folders.
//
// Sources are resolved in this order:
//   - the path as written (absolute paths, including drive-letter paths on Windows)
//   - relative to the playlist's directory
//   - the bare file name next to the playlist
//
// Backslashes are normalized so playlists written on Windows resolve on other
// systems when the media sits next to the playlist.
package playlist
