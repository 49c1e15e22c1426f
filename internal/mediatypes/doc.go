// Package mediatypes classifies files for the screensaver catalog.
//
// It has no dependencies beyond the standard library so every other package can
// import it without cycles.
//
// # Kinds
//
//	mediatypes.FileTypeImage    // .jpg .png .bmp .gif
//	mediatypes.FileTypeVideo    // .avi .wmv .mpg .mpeg .mkv .mp4
//	mediatypes.FileTypePlaylist // .wpl, accepted only as a configured root
//	mediatypes.FileTypeOther    // everything else
//
// Use KindOf on a full path; the extension match is case-insensitive:
//
//	switch mediatypes.KindOf(path) {
//	case mediatypes.FileTypeImage:
//	    // load as image
//	case mediatypes.FileTypeVideo:
//	    // load as media
//	}
//
// # Recycle bin
//
// Paths with a $RECYCLE.BIN segment are never media, see IsRecycled.
package mediatypes
