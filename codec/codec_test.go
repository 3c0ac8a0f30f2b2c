package codec

import (
	"math"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	// Every 0.001 step of the usable domain.
	for k := -4095999; k <= 4095999; k++ {
		v := float64(k) / 1000
		got := Decode(Encode(v))
		if math.Abs(got-v) > 0.001 {
			t.Fatalf("Decode(Encode(%v)) = %v", v, got)
		}
	}
}

func TestEncodeDecodeOffGrid(t *testing.T) {
	tests := []float64{0, 0.0004, 0.0006, -0.0004, 123.4567, -2048.0005, 4095.9994}
	for _, v := range tests {
		got := Decode(Encode(v))
		if math.Abs(got-v) > 0.001 {
			t.Errorf("Decode(Encode(%v)) = %v, error above 0.001", v, got)
		}
	}
}

func TestEncodeIsPure(t *testing.T) {
	for _, v := range []float64{-4096, -1.5, 0, 42.042, 4095.999} {
		a := Encode(v)
		b := Encode(v)
		if a != b {
			t.Errorf("Encode(%v) not stable: %v vs %v", v, a, b)
		}
	}
}

func TestEncodeDigits(t *testing.T) {
	// raw = 4096000 for real 0: 4096000 = 191 + 3*257 + 62*257²
	c := Encode(0)
	want := Color{R: 191.0 / 256, G: 3.0 / 256, B: 62.0 / 256}
	if c != want {
		t.Fatalf("Encode(0) = %v, want %v", c, want)
	}
	if Raw(c) != 4096000 {
		t.Errorf("Raw(Encode(0)) = %v, want 4096000", Raw(c))
	}
}

func TestDecodeEncodeStable(t *testing.T) {
	// Re-encoding a decoded colour yields the same triplet.
	for _, v := range []float64{-4000.123, -0.001, 0.5, 1000, 3999.999} {
		c := Encode(v)
		again := Encode(Decode(c))
		if again != c {
			t.Errorf("Encode(Decode(%v)) = %v, want %v", c, again, c)
		}
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.2344, 1.234},
		{1.2346, 1.235},
		{-7.0001, -7.0},
		{250, 250},
	}
	for _, tt := range tests {
		got := Quantize(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Quantize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutOfRangeWrapsWithoutPanic(t *testing.T) {
	for _, v := range []float64{-5000, 5000, 1e7, math.Inf(1)} {
		_ = Decode(Encode(v))
	}
}

func TestBytesSaturates(t *testing.T) {
	c := Color{R: 1, G: 0.5, B: 0}
	got := c.Bytes()
	if got != [3]uint8{255, 128, 0} {
		t.Errorf("Bytes() = %v", got)
	}
}

func TestPack3RoundTrip(t *testing.T) {
	for n := 0; n < 1<<24; n++ {
		if got := Unpack3(Pack3(n)); got != n {
			t.Fatalf("Unpack3(Pack3(%d)) = %d", n, got)
		}
	}
}

func TestPack3Layout(t *testing.T) {
	got := Pack3(0x123456)
	want := [3]uint8{0x56, 0x34, 0x12}
	if got != want {
		t.Errorf("Pack3(0x123456) = %v, want %v", got, want)
	}
}
