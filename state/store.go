// Package state holds particle state in an explicit double buffer.
//
// A particle has no identity beyond its slot index. The same index
// addresses its record in both buffers and its immutable seed record.
package state

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/steam/codec"
)

var (
	// ErrInvalidLife is returned when a particle could get a life below one frame.
	ErrInvalidLife = errors.New("state: particle life must be at least 1 frame")
	// ErrInvalidSize is returned for a non-positive grid or viewport size.
	ErrInvalidSize = errors.New("state: invalid size")
)

// Record is the mutable state of one particle. Rotation is in degrees.
type Record struct {
	PosX     float64
	PosY     float64
	Rotation float64
	Speed    float64
}

// Seed holds the immutable random parameters of one particle.
type Seed struct {
	Seed       int
	LifeOffset int
	Life       int
}

// Viewport is the drawing surface size in pixels.
type Viewport struct {
	Width, Height float64
}

// InitParams are the random ranges used to initialise a store.
// All ranges are half-open [min, max).
type InitParams struct {
	SpeedMin, SpeedMax float64
	SeedRange          int
	LifeOffsetMax      int
	LifeMin, LifeMax   int
}

// Validate checks that every particle gets a life of at least one frame.
func (p InitParams) Validate() error {
	if p.LifeMin < 1 || p.LifeMax <= p.LifeMin {
		return fmt.Errorf("%w: range [%d, %d)", ErrInvalidLife, p.LifeMin, p.LifeMax)
	}
	if p.SeedRange < 1 || p.LifeOffsetMax < 1 {
		return fmt.Errorf("%w: seed range %d, life offset max %d", ErrInvalidSize, p.SeedRange, p.LifeOffsetMax)
	}
	if p.SpeedMax < p.SpeedMin {
		return fmt.Errorf("%w: speed range [%v, %v)", ErrInvalidSize, p.SpeedMin, p.SpeedMax)
	}
	return nil
}

// Store is a side x side particle grid held in two record buffers.
// Exactly one buffer is current; the other is the write target for the
// next simulation step.
type Store struct {
	side    int
	buffers [2][]Record
	current int
	seeds   []Seed
}

// New allocates and initialises a store. Initial positions spread the grid
// evenly over the viewport; rotation, speed and life parameters are drawn
// from rng.
func New(side int, vp Viewport, p InitParams, rng *rand.Rand) (*Store, error) {
	if side < 1 {
		return nil, fmt.Errorf("%w: side %d", ErrInvalidSize, side)
	}
	if vp.Width <= 0 || vp.Height <= 0 {
		return nil, fmt.Errorf("%w: viewport %vx%v", ErrInvalidSize, vp.Width, vp.Height)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := side * side
	records := make([]Record, n)
	seeds := make([]Seed, n)

	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			i := y*side + x
			records[i] = Record{
				PosX:     math.Floor(float64(x) / float64(side) * vp.Width),
				PosY:     math.Floor(float64(y) / float64(side) * vp.Height),
				Rotation: codec.Quantize(rng.Float64() * 360),
				Speed:    codec.Quantize(p.SpeedMin + rng.Float64()*(p.SpeedMax-p.SpeedMin)),
			}
			seeds[i] = Seed{
				Seed:       rng.Intn(p.SeedRange),
				LifeOffset: rng.Intn(p.LifeOffsetMax),
				Life:       p.LifeMin + rng.Intn(p.LifeMax-p.LifeMin),
			}
		}
	}

	return build(side, records, seeds), nil
}

// FromRecords builds a store from explicit initial records and seeds.
// The records become the current buffer.
func FromRecords(side int, records []Record, seeds []Seed) (*Store, error) {
	n := side * side
	if side < 1 || len(records) != n || len(seeds) != n {
		return nil, fmt.Errorf("%w: side %d with %d records and %d seeds", ErrInvalidSize, side, len(records), len(seeds))
	}
	for i, s := range seeds {
		if s.Life < 1 {
			return nil, fmt.Errorf("%w: particle %d has life %d", ErrInvalidLife, i, s.Life)
		}
	}
	return build(side, append([]Record(nil), records...), append([]Seed(nil), seeds...)), nil
}

func build(side int, records []Record, seeds []Seed) *Store {
	s := &Store{side: side, seeds: seeds}
	s.buffers[0] = records
	s.buffers[1] = make([]Record, len(records))
	copy(s.buffers[1], records)
	return s
}

// Side returns the grid edge length.
func (s *Store) Side() int {
	return s.side
}

// Len returns the particle count.
func (s *Store) Len() int {
	return len(s.seeds)
}

// Current returns the buffer that is safe to read this frame.
func (s *Store) Current() []Record {
	return s.buffers[s.current]
}

// Next returns the buffer the simulation writes this frame.
// It must not be read by the draw stage until after Swap.
func (s *Store) Next() []Record {
	return s.buffers[1-s.current]
}

// Swap exchanges the roles of the two buffers.
func (s *Store) Swap() {
	s.current = 1 - s.current
}

// CurrentIndex returns which buffer (0 or 1) is current.
func (s *Store) CurrentIndex() int {
	return s.current
}

// Seeds returns the immutable seed records. Callers must not modify them.
func (s *Store) Seeds() []Seed {
	return s.seeds
}

// Index maps a texel coordinate to a slot index.
func (s *Store) Index(x, y int) int {
	return y*s.side + x
}

// Texel maps a slot index back to its texel coordinate.
func (s *Store) Texel(i int) (x, y int) {
	return i % s.side, i / s.side
}
