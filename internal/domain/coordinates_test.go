package domain

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	cases := []struct {
		name   string
		a, b   Coordinates
		wantKm float64
	}{
		{
			name:   "same point",
			a:      Coordinates{Lon: 28.9784, Lat: 41.0082},
			b:      Coordinates{Lon: 28.9784, Lat: 41.0082},
			wantKm: 0,
		},
		{
			name:   "istanbul to ankara",
			a:      Coordinates{Lon: 28.9784, Lat: 41.0082},
			b:      Coordinates{Lon: 32.8597, Lat: 39.9334},
			wantKm: 351.3,
		},
		{
			name:   "across the bosphorus",
			a:      Coordinates{Lon: 28.9784, Lat: 41.0082},
			b:      Coordinates{Lon: 29.0254, Lat: 40.9819},
			wantKm: 4.9,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Haversine(tc.a, tc.b)
			if math.Abs(got-tc.wantKm) > tc.wantKm*0.01+0.1 {
				t.Fatalf("Haversine = %f km, want about %f km", got, tc.wantKm)
			}
		})
	}
}

func TestPairKeyIsDirectional(t *testing.T) {
	if PairKey("a", "b") == PairKey("b", "a") {
		t.Fatal("ordered pairs must produce distinct keys")
	}
	if PairKey("a", "b") != "a|b" {
		t.Fatalf("PairKey = %q, want %q", PairKey("a", "b"), "a|b")
	}
}
