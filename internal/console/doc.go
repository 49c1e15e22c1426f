// Package console is a terminal front end for a screensaver session.
//
// It prints each selected file and its overlay, shows notifications as
// prefixed lines and maps keys to session operations:
//
//	Right, n        next file
//	Left, b         previous file
//	p, Space        pause or resume
//	Delete, d       delete the current file (type yes or ok to confirm)
//	i               toggle the info overlay
//	h, ?            show the key list
//	r               rotate the current image
//	Up, +           volume up
//	Down, -         volume down
//	0               mute
//	s               exit and report the current file
//	q, Esc          exit
//
// Outside preview mode any other key exits as well. When stdin is a terminal
// it is put into raw mode while the console runs, so log output should be
// redirected elsewhere first.
package console
