package state

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func defaultParams() InitParams {
	return InitParams{
		SpeedMin:      1,
		SpeedMax:      200,
		SeedRange:     65535,
		LifeOffsetMax: 300,
		LifeMin:       15,
		LifeMax:       90,
	}
}

func TestNewInitialState(t *testing.T) {
	const side = 4
	vp := Viewport{Width: 800, Height: 600}
	s, err := New(side, vp, defaultParams(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if s.Len() != side*side || s.Side() != side {
		t.Fatalf("got len %d side %d", s.Len(), s.Side())
	}
	if len(s.Current()) != side*side || len(s.Next()) != side*side {
		t.Fatal("buffers not allocated to grid size")
	}

	for i, r := range s.Current() {
		x, y := s.Texel(i)
		wantX := math.Floor(float64(x) / side * vp.Width)
		wantY := math.Floor(float64(y) / side * vp.Height)
		if r.PosX != wantX || r.PosY != wantY {
			t.Errorf("particle %d at (%v, %v), want (%v, %v)", i, r.PosX, r.PosY, wantX, wantY)
		}
		if r.Rotation < 0 || r.Rotation >= 360.001 {
			t.Errorf("particle %d rotation %v out of range", i, r.Rotation)
		}
		if r.Speed < 0.999 || r.Speed >= 200.001 {
			t.Errorf("particle %d speed %v out of range", i, r.Speed)
		}

		seed := s.Seeds()[i]
		if seed.Seed < 0 || seed.Seed >= 65535 {
			t.Errorf("particle %d seed %d out of range", i, seed.Seed)
		}
		if seed.LifeOffset < 0 || seed.LifeOffset >= 300 {
			t.Errorf("particle %d life offset %d out of range", i, seed.LifeOffset)
		}
		if seed.Life < 15 || seed.Life >= 90 {
			t.Errorf("particle %d life %d out of range", i, seed.Life)
		}
	}
}

func TestNewDeterministicForSeed(t *testing.T) {
	vp := Viewport{Width: 100, Height: 100}
	a, _ := New(3, vp, defaultParams(), rand.New(rand.NewSource(42)))
	b, _ := New(3, vp, defaultParams(), rand.New(rand.NewSource(42)))
	for i := range a.Current() {
		if a.Current()[i] != b.Current()[i] || a.Seeds()[i] != b.Seeds()[i] {
			t.Fatalf("particle %d differs between identical seeds", i)
		}
	}
}

func TestNewRejectsInvalidInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	vp := Viewport{Width: 100, Height: 100}

	tests := []struct {
		name    string
		side    int
		vp      Viewport
		mutate  func(*InitParams)
		wantErr error
	}{
		{"zero life", 2, vp, func(p *InitParams) { p.LifeMin = 0 }, ErrInvalidLife},
		{"empty life range", 2, vp, func(p *InitParams) { p.LifeMax = p.LifeMin }, ErrInvalidLife},
		{"zero side", 0, vp, func(*InitParams) {}, ErrInvalidSize},
		{"empty viewport", 2, Viewport{}, func(*InitParams) {}, ErrInvalidSize},
		{"no seed range", 2, vp, func(p *InitParams) { p.SeedRange = 0 }, ErrInvalidSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := defaultParams()
			tt.mutate(&p)
			s, err := New(tt.side, tt.vp, p, rng)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			if s != nil {
				t.Error("failed New returned a store")
			}
		})
	}
}

func TestSwapDiscipline(t *testing.T) {
	records := []Record{{PosX: 1}, {PosX: 2}, {PosX: 3}, {PosX: 4}}
	seeds := []Seed{{Life: 1}, {Life: 1}, {Life: 1}, {Life: 1}}
	s, err := FromRecords(2, records, seeds)
	if err != nil {
		t.Fatal(err)
	}

	if s.CurrentIndex() != 0 {
		t.Fatalf("initial current index = %d", s.CurrentIndex())
	}

	// Writes to Next are invisible through Current until Swap.
	s.Next()[0].PosX = 99
	if s.Current()[0].PosX != 1 {
		t.Fatal("write to next buffer leaked into current")
	}

	s.Swap()
	if s.CurrentIndex() != 1 || s.Current()[0].PosX != 99 {
		t.Fatalf("after swap: index %d, x %v", s.CurrentIndex(), s.Current()[0].PosX)
	}
	if s.Next()[0].PosX != 1 {
		t.Errorf("previous current should now be next, got x %v", s.Next()[0].PosX)
	}

	s.Swap()
	if s.CurrentIndex() != 0 {
		t.Errorf("two swaps should restore index 0, got %d", s.CurrentIndex())
	}
}

func TestFromRecordsCopiesInput(t *testing.T) {
	records := []Record{{PosX: 5}}
	s, err := FromRecords(1, records, []Seed{{Life: 3}})
	if err != nil {
		t.Fatal(err)
	}
	records[0].PosX = 0
	if s.Current()[0].PosX != 5 {
		t.Error("store aliases the caller's slice")
	}
}

func TestFromRecordsValidates(t *testing.T) {
	if _, err := FromRecords(2, make([]Record, 3), make([]Seed, 4)); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("short records: got %v", err)
	}
	seeds := []Seed{{Life: 1}, {Life: 0}, {Life: 1}, {Life: 1}}
	if _, err := FromRecords(2, make([]Record, 4), seeds); !errors.Is(err, ErrInvalidLife) {
		t.Errorf("zero life: got %v", err)
	}
}

func TestIndexTexelInverse(t *testing.T) {
	s, _ := FromRecords(3, make([]Record, 9), []Seed{
		{Life: 1}, {Life: 1}, {Life: 1}, {Life: 1}, {Life: 1}, {Life: 1}, {Life: 1}, {Life: 1}, {Life: 1},
	})
	for i := 0; i < 9; i++ {
		x, y := s.Texel(i)
		if s.Index(x, y) != i {
			t.Errorf("Index(Texel(%d)) = %d", i, s.Index(x, y))
		}
	}
}
