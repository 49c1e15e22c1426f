/*
Package exif reads and writes the JPEG metadata the screensaver needs: the
orientation tag that drives display rotation, plus the descriptive tags shown
in the information overlay.

Tag values are decoded with goexif. The package also walks the TIFF
structure itself, both to find the byte offset of the orientation value for
in-place writes and to decode the Windows XP tags (XPTitle, XPSubject,
XPComment, XPKeywords) that goexif does not name.

# Writing orientation

WriteOrientation overwrites the two value bytes of an existing tag and never
changes the file size. When there is no tag to overwrite it returns
ErrNoOrientationSlot, and RewriteOrientation can be used instead: it rebuilds
the EXIF segment, appending a new IFD0 that includes the tag (or inserting a
minimal EXIF segment), and leaves the compressed image data untouched.

# Orientation cycle

User rotation moves through the unmirrored orientations only:

	1 (0°) → 6 (90°) → 3 (180°) → 8 (270°) → 1

Mirrored or missing values are treated as 1.
*/
package exif
