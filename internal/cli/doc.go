// Package cli defines the media-screensaver command tree.
//
// Commands:
//   - run: start the screensaver in the terminal
//   - config: show or change the saved settings
//   - scan: list the media files found under the configured roots
//   - exif: print the overlay text and orientation of an image
//   - rotate: apply one quarter turn to an image
//
// Windows passes /s, /c and /p <hwnd> to a screensaver; TranslateArgs maps
// them onto run, config show and run --preview.
package cli
