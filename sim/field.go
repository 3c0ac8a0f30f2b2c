package sim

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// Field is a smooth 3D scalar noise field with values roughly in [-1, 1].
// Implementations must be safe for concurrent use.
type Field interface {
	Eval3(x, y, z float64) float64
}

// NewSimplexField returns the default OpenSimplex field for a seed.
func NewSimplexField(seed int64) Field {
	return opensimplex.New(seed)
}

// Hasher maps a pair of numbers to a pseudo-random value in [0, 1).
type Hasher func(a, b float64) float64

// Hash is the classic sine-fract hash used to pick spawn angles.
func Hash(a, b float64) float64 {
	v := math.Sin(a*12.9898+b*78.233) * 43758.5453123
	return v - math.Floor(v)
}
