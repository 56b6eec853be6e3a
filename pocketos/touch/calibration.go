package touch

import "encoding/binary"

// Calibration holds the raw sensor extents that map onto the display's
// logical pixel space.
type Calibration struct {
	MinX uint16 `yaml:"min_x"`
	MinY uint16 `yaml:"min_y"`
	MaxX uint16 `yaml:"max_x"`
	MaxY uint16 `yaml:"max_y"`
}

// Valid reports whether both axes have a non-empty range. Invalid extents are
// still usable: they map everything to 0.
func (c Calibration) Valid() bool {
	return c.MaxX > c.MinX && c.MaxY > c.MinY
}

// MapAxis maps raw in [lo,hi] onto [0,outMax]. Values below lo, or a
// degenerate range, give 0; values above hi give outMax.
func MapAxis(raw, lo, hi int, outMax uint16) uint16 {
	if hi <= lo || raw <= lo {
		return 0
	}
	if raw >= hi {
		return outMax
	}
	v := uint32(raw-lo) * uint32(outMax) / uint32(hi-lo)
	return uint16(v)
}

// Encode serializes c as four little-endian uint16s.
func (c Calibration) Encode() []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint16(b[0:], c.MinX)
	binary.LittleEndian.PutUint16(b[2:], c.MinY)
	binary.LittleEndian.PutUint16(b[4:], c.MaxX)
	binary.LittleEndian.PutUint16(b[6:], c.MaxY)
	return b
}

// DecodeCalibration parses the Encode format.
func DecodeCalibration(b []byte) (Calibration, bool) {
	if len(b) != 8 {
		return Calibration{}, false
	}
	return Calibration{
		MinX: binary.LittleEndian.Uint16(b[0:]),
		MinY: binary.LittleEndian.Uint16(b[2:]),
		MaxX: binary.LittleEndian.Uint16(b[4:]),
		MaxY: binary.LittleEndian.Uint16(b[6:]),
	}, true
}
