package exif

import (
	"encoding/binary"
	"fmt"
	"sort"
)

const (
	tagImageDescription = 0x010E
	tagOrientation      = 0x0112
	tagXPTitle          = 0x9C9B
	tagXPComment        = 0x9C9C
	tagXPKeywords       = 0x9C9E
	tagXPSubject        = 0x9C9F
)

const typeShort = 3

var typeSizes = map[uint16]int{
	1: 1, 2: 1, 3: 2, 4: 4, 5: 8, 6: 1, 7: 1, 8: 2, 9: 4, 10: 8, 11: 4, 12: 8,
}

const ifdEntrySize = 12

type byteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// ifdEntry is one 12-byte directory entry. Offset is the position of the
// entry itself within the TIFF block.
type ifdEntry struct {
	Tag    uint16
	Type   uint16
	Count  uint32
	Offset int
}

// tiffFile is a read-only view of an EXIF TIFF block.
type tiffFile struct {
	data  []byte
	order byteOrder
	ifd0  uint32
}

func parseTIFF(data []byte) (*tiffFile, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: tiff header truncated", ErrCorruptMetadata)
	}

	var order byteOrder
	switch string(data[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: bad byte order %q", ErrCorruptMetadata, data[:2])
	}
	if order.Uint16(data[2:]) != 42 {
		return nil, fmt.Errorf("%w: bad tiff magic", ErrCorruptMetadata)
	}

	return &tiffFile{data: data, order: order, ifd0: order.Uint32(data[4:])}, nil
}

// readIFD returns the entries of the directory at off and the offset of the
// next directory.
func (t *tiffFile) readIFD(off uint32) ([]ifdEntry, uint32, error) {
	start := int(off)
	if off == 0 || start+2 > len(t.data) {
		return nil, 0, fmt.Errorf("%w: ifd offset %d out of range", ErrCorruptMetadata, off)
	}

	n := int(t.order.Uint16(t.data[start:]))
	end := start + 2 + n*ifdEntrySize
	if end+4 > len(t.data) {
		return nil, 0, fmt.Errorf("%w: ifd at %d truncated", ErrCorruptMetadata, off)
	}

	entries := make([]ifdEntry, n)
	for i := range entries {
		p := start + 2 + i*ifdEntrySize
		entries[i] = ifdEntry{
			Tag:    t.order.Uint16(t.data[p:]),
			Type:   t.order.Uint16(t.data[p+2:]),
			Count:  t.order.Uint32(t.data[p+4:]),
			Offset: p,
		}
	}
	return entries, t.order.Uint32(t.data[end:]), nil
}

// value returns the raw bytes of an entry's value.
func (t *tiffFile) value(e ifdEntry) ([]byte, error) {
	size, ok := typeSizes[e.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unknown tiff type %d", ErrCorruptMetadata, e.Type)
	}
	total := size * int(e.Count)
	if total <= 4 {
		return t.data[e.Offset+8 : e.Offset+8+total], nil
	}

	off := int(t.order.Uint32(t.data[e.Offset+8:]))
	if off < 0 || off+total > len(t.data) {
		return nil, fmt.Errorf("%w: tag 0x%04X value out of range", ErrCorruptMetadata, e.Tag)
	}
	return t.data[off : off+total], nil
}

// find returns the IFD0 entry for tag.
func (t *tiffFile) find(tag uint16) (ifdEntry, bool, error) {
	entries, _, err := t.readIFD(t.ifd0)
	if err != nil {
		return ifdEntry{}, false, err
	}
	for _, e := range entries {
		if e.Tag == tag {
			return e, true, nil
		}
	}
	return ifdEntry{}, false, nil
}

// orientationSlot returns the offset, within the TIFF block, of the two bytes
// holding the orientation value.
func (t *tiffFile) orientationSlot() (int, bool, error) {
	e, ok, err := t.find(tagOrientation)
	if err != nil || !ok {
		return 0, false, err
	}
	if e.Type != typeShort || e.Count < 1 {
		return 0, false, nil
	}
	return e.Offset + 8, true, nil
}

// withOrientation returns a copy of the TIFF block whose IFD0 carries o.
// The rebuilt directory is appended to the block and the header is pointed
// at it, so no existing value moves and every stored offset stays valid.
func (t *tiffFile) withOrientation(o Orientation) ([]byte, error) {
	entries, next, err := t.readIFD(t.ifd0)
	if err != nil {
		return nil, err
	}

	raw := make([][]byte, 0, len(entries)+1)
	tags := make([]uint16, 0, len(entries)+1)
	for _, e := range entries {
		if e.Tag == tagOrientation {
			continue
		}
		raw = append(raw, t.data[e.Offset:e.Offset+ifdEntrySize])
		tags = append(tags, e.Tag)
	}
	raw = append(raw, orientationEntry(t.order, o))
	tags = append(tags, tagOrientation)

	idx := make([]int, len(raw))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return tags[idx[a]] < tags[idx[b]] })

	out := make([]byte, len(t.data), len(t.data)+2+len(raw)*ifdEntrySize+5)
	copy(out, t.data)
	if len(out)%2 == 1 {
		out = append(out, 0)
	}
	newIFD := uint32(len(out))

	out = t.order.AppendUint16(out, uint16(len(raw)))
	for _, i := range idx {
		out = append(out, raw[i]...)
	}
	out = t.order.AppendUint32(out, next)
	t.order.PutUint32(out[4:], newIFD)
	return out, nil
}

func orientationEntry(order byteOrder, o Orientation) []byte {
	e := make([]byte, ifdEntrySize)
	order.PutUint16(e[0:], tagOrientation)
	order.PutUint16(e[2:], typeShort)
	order.PutUint32(e[4:], 1)
	order.PutUint16(e[8:], uint16(o))
	return e
}

// minimalTIFF builds a little-endian TIFF block whose IFD0 holds only the
// orientation tag.
func minimalTIFF(o Orientation) []byte {
	order := binary.LittleEndian
	out := []byte{'I', 'I', 42, 0, 8, 0, 0, 0}
	out = order.AppendUint16(out, 1)
	out = append(out, orientationEntry(order, o)...)
	return order.AppendUint32(out, 0)
}
