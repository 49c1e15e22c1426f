package exif

import "fmt"

// Orientation is the value of the EXIF Orientation tag (274).
type Orientation int

const (
	Normal         Orientation = 1
	FlipHorizontal Orientation = 2
	Rotate180      Orientation = 3
	FlipVertical   Orientation = 4
	Transpose      Orientation = 5
	Rotate90       Orientation = 6
	Transverse     Orientation = 7
	Rotate270      Orientation = 8
)

// Valid reports whether o is one of the eight defined values.
func (o Orientation) Valid() bool {
	return o >= Normal && o <= Rotate270
}

// Angle returns the clockwise rotation, in degrees, needed to display the
// image upright. Unknown values display unrotated.
func (o Orientation) Angle() int {
	switch o {
	case Rotate180, FlipVertical:
		return 180
	case Transpose, Rotate90:
		return 90
	case Transverse, Rotate270:
		return 270
	default:
		return 0
	}
}

// Mirrored reports whether the stored pixels are also flipped.
func (o Orientation) Mirrored() bool {
	switch o {
	case FlipHorizontal, FlipVertical, Transpose, Transverse:
		return true
	default:
		return false
	}
}

// Next returns the orientation one quarter turn clockwise in the
// 1 → 6 → 3 → 8 → 1 cycle. Any value outside the cycle counts as Normal.
func (o Orientation) Next() Orientation {
	switch o {
	case Rotate90:
		return Rotate180
	case Rotate180:
		return Rotate270
	case Rotate270:
		return Normal
	default:
		return Rotate90
	}
}

// Advance applies Next for each of the given quarter turns.
func (o Orientation) Advance(quarterTurns int) Orientation {
	quarterTurns %= 4
	if quarterTurns < 0 {
		quarterTurns += 4
	}
	for i := 0; i < quarterTurns; i++ {
		o = o.Next()
	}
	return o
}

// FromAngle returns the unmirrored orientation for a clockwise angle.
func FromAngle(angle int) Orientation {
	switch ((angle % 360) + 360) % 360 {
	case 90:
		return Rotate90
	case 180:
		return Rotate180
	case 270:
		return Rotate270
	default:
		return Normal
	}
}

func (o Orientation) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
	if o.Mirrored() {
		return fmt.Sprintf("%d (%d°, mirrored)", int(o), o.Angle())
	}
	return fmt.Sprintf("%d (%d°)", int(o), o.Angle())
}
