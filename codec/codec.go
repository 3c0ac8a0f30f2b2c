// Package codec converts particle state to and from colour-channel storage.
//
// Continuous values (positions, rotation, speed) use a radix-257 packing of a
// fixed-point raw value. Small integers (seeds, life counters) use plain
// base-256 packing. The two schemes are kept separate on purpose: changing
// either changes the precision of what the simulation can store.
package codec

import "math"

const (
	// Precision is the channel scale: a digit d is stored as d/Precision.
	Precision = 256.0
	// Radix is the digit base for continuous values (Precision + 1).
	Radix = Precision + 1

	// Offset shifts the real domain so raw values are non-negative.
	Offset = 4096.0
	// Scale is the fixed-point factor (three decimal digits).
	Scale = 1000.0

	// MinReal and MaxReal bound the representable domain [MinReal, MaxReal).
	MinReal = -Offset
	MaxReal = Offset
)

// Color is a normalised channel triplet as stored in a state texture.
// Each channel holds digit/256 where the digit lies in 0..256.
type Color struct {
	R, G, B float32
}

// RealToRaw maps a real value to its fixed-point raw value.
func RealToRaw(real float64) float64 {
	return (real + Offset) * Scale
}

// RawToReal maps a raw value back to the real domain.
func RawToReal(raw float64) float64 {
	return raw/Scale - Offset
}

// Encode packs a real value into a colour triplet.
// Values outside [MinReal, MaxReal) wrap; they never fail.
func Encode(real float64) Color {
	raw := math.Round(RealToRaw(real))
	r := floorMod(raw, Radix)
	g := floorMod(math.Floor(raw/Radix), Radix)
	b := math.Floor(raw / (Radix * Radix))
	return Color{
		R: float32(r / Precision),
		G: float32(g / Precision),
		B: float32(b / Precision),
	}
}

// Decode unpacks a colour triplet into a real value.
func Decode(c Color) float64 {
	return RawToReal(Raw(c))
}

// Raw returns the integer raw value carried by a colour triplet.
func Raw(c Color) float64 {
	r := digit(c.R)
	g := digit(c.G)
	b := digit(c.B)
	return r + g*Radix + b*Radix*Radix
}

// Quantize returns the value a real survives as after one trip through
// channel storage.
func Quantize(real float64) float64 {
	return Decode(Encode(real))
}

// Bytes returns an 8-bit view of the colour for display or image export.
// A digit of 256 saturates at 255; the result is not decodable exactly.
func (c Color) Bytes() [3]uint8 {
	return [3]uint8{toByte(c.R), toByte(c.G), toByte(c.B)}
}

// Pack3 splits a non-negative integer below 256³ into three bytes,
// least significant first.
func Pack3(value int) [3]uint8 {
	z := value / 65536
	y := (value - z*65536) / 256
	x := value % 256
	return [3]uint8{uint8(x), uint8(y), uint8(z)}
}

// Unpack3 is the inverse of Pack3.
func Unpack3(b [3]uint8) int {
	return int(b[0]) + int(b[1])*256 + int(b[2])*65536
}

func digit(ch float32) float64 {
	return math.Floor(float64(ch)*Precision + 0.5)
}

func toByte(ch float32) uint8 {
	d := digit(ch)
	if d < 0 {
		return 0
	}
	if d > 255 {
		return 255
	}
	return uint8(d)
}

// floorMod matches GLSL mod(): the result has the sign of b.
func floorMod(a, b float64) float64 {
	return a - b*math.Floor(a/b)
}
