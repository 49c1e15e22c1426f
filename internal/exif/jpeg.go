package exif

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP0 = 0xE0
	markerAPP1 = 0xE1
)

var exifHeader = []byte("Exif\x00\x00")

// segment is one marker segment before the image data. Start is the offset
// of its 0xFF byte; Size covers marker, length field and payload.
type segment struct {
	Marker byte
	Start  int
	Size   int
}

func (s segment) payload(data []byte) []byte {
	return data[s.Start+4 : s.Start+s.Size]
}

func isJPEG(data []byte) bool {
	return len(data) >= 2 && data[0] == 0xFF && data[1] == markerSOI
}

// scanSegments lists the marker segments between SOI and the start of scan.
func scanSegments(data []byte) ([]segment, error) {
	if !isJPEG(data) {
		return nil, ErrNotJPEG
	}

	var segments []segment
	pos := 2
	for pos < len(data) {
		if data[pos] != 0xFF {
			return nil, fmt.Errorf("%w: expected marker at offset %d", ErrCorruptMetadata, pos)
		}
		// Fill bytes may precede a marker.
		for pos < len(data) && data[pos] == 0xFF {
			pos++
		}
		if pos >= len(data) {
			break
		}
		start := pos - 1
		marker := data[pos]
		pos++

		switch {
		case marker == markerEOI || marker == markerSOS:
			return segments, nil
		case marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7):
			continue
		}

		if pos+2 > len(data) {
			return nil, fmt.Errorf("%w: truncated segment length", ErrCorruptMetadata)
		}
		length := int(binary.BigEndian.Uint16(data[pos:]))
		if length < 2 || pos+length > len(data) {
			return nil, fmt.Errorf("%w: segment 0x%02X overruns file", ErrCorruptMetadata, marker)
		}
		segments = append(segments, segment{Marker: marker, Start: start, Size: length + 2})
		pos += length
	}
	return segments, nil
}

// findExif returns the APP1 segment carrying EXIF data, if any.
func findExif(data []byte, segments []segment) (segment, bool) {
	for _, s := range segments {
		if s.Marker == markerAPP1 && bytes.HasPrefix(s.payload(data), exifHeader) {
			return s, true
		}
	}
	return segment{}, false
}

// tiffBlock returns the TIFF structure inside an EXIF APP1 segment and its
// offset in the file.
func tiffBlock(data []byte, s segment) ([]byte, int) {
	offset := s.Start + 4 + len(exifHeader)
	return data[offset : s.Start+s.Size], offset
}

// exifSegment builds an APP1 segment around a TIFF block.
func exifSegment(tiff []byte) ([]byte, error) {
	length := 2 + len(exifHeader) + len(tiff)
	if length > 0xFFFF {
		return nil, fmt.Errorf("exif segment of %d bytes exceeds the JPEG limit", length)
	}
	seg := make([]byte, 0, length+2)
	seg = append(seg, 0xFF, markerAPP1, byte(length>>8), byte(length))
	seg = append(seg, exifHeader...)
	seg = append(seg, tiff...)
	return seg, nil
}
