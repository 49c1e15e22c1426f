// Package rotation keeps the display rotation of the current item and saves
// user-requested rotations into the file.
//
// Each press of rotate adds a clockwise quarter turn that is applied when the
// item is next loaded. For JPEGs the new EXIF orientation is written with the
// cheapest writer that succeeds:
//   - in place, overwriting the existing orientation value
//   - a lossless rewrite of the EXIF segment
//   - a libvips re-encode, when InitVips has been called
//
// PNG, BMP and GIF images have no orientation tag, so their pixels are rotated
// and saved back in the same format.
package rotation
