package geo

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name              string
		lat1, lon1        float64
		lat2, lon2        float64
		wantMeters        float64
		tolerancePercent  float64
	}{
		{
			name:     "Singapore CBD to Changi Airport",
			lat1:     1.2830, lon1: 103.8513, // Raffles Place
			lat2:     1.3644, lon2: 103.9915, // Changi Airport
			wantMeters:       18_023, // ~18 km great-circle
			tolerancePercent: 1,
		},
		{
			name:     "Same point",
			lat1:     1.3521, lon1: 103.8198,
			lat2:     1.3521, lon2: 103.8198,
			wantMeters:       0,
			tolerancePercent: 0,
		},
		{
			name:     "London to Paris",
			lat1:     51.5074, lon1: -0.1278,
			lat2:     48.8566, lon2: 2.3522,
			wantMeters:       343_500, // ~343.5 km
			tolerancePercent: 1,
		},
		{
			name:     "Short distance (~100m)",
			lat1:     1.3521, lon1: 103.8198,
			lat2:     1.3530, lon2: 103.8198,
			wantMeters:       100,
			tolerancePercent: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if tt.wantMeters == 0 {
				if got != 0 {
					t.Errorf("expected 0, got %f", got)
				}
				return
			}
			diff := math.Abs(got-tt.wantMeters) / tt.wantMeters * 100
			if diff > tt.tolerancePercent {
				t.Errorf("Haversine = %f m, want ~%f m (diff %.1f%%)", got, tt.wantMeters, diff)
			}
		})
	}
}

func TestEquirectangularDist(t *testing.T) {
	// At Singapore latitude, equirectangular should be very close to Haversine.
	lat1, lon1 := 1.3521, 103.8198
	lat2, lon2 := 1.3600, 103.8300

	h := Haversine(lat1, lon1, lat2, lon2)
	e := EquirectangularDist(lat1, lon1, lat2, lon2)

	diffPercent := math.Abs(h-e) / h * 100
	if diffPercent > 0.5 {
		t.Errorf("EquirectangularDist differs from Haversine by %.2f%% (haversine=%f, equirect=%f)", diffPercent, h, e)
	}
}

func TestRoundMetersHalfEven(t *testing.T) {
	tests := []struct {
		name string
		km   float64
		want float64
	}{
		{"exact km", 1.0, 1000},
		{"ties to even, rounds down", 1.0005, 1000}, // 1000.5 -> 1000 (even)
		{"ties to even, rounds up", 1.0015, 1002},   // 1001.5 -> 1002 (even)
		{"ordinary fraction", 1.2345, 1234},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundMetersHalfEven(tt.km)
			if got != tt.want {
				t.Errorf("RoundMetersHalfEven(%v) = %v, want %v", tt.km, got, tt.want)
			}
		})
	}
}

func TestDegreeMargin(t *testing.T) {
	// At the equator, a 1km margin should be 1/111.195 degrees (one degree
	// of arc on the 6371 km sphere) in both directions.
	latDeg, lonDeg := DegreeMargin(1.0, 0)
	want := 1.0 / (earthRadiusMeters / 1000 * math.Pi / 180)
	if math.Abs(latDeg-want) > 1e-9 {
		t.Errorf("latDeg = %v, want %v", latDeg, want)
	}
	if math.Abs(lonDeg-want) > 1e-9 {
		t.Errorf("lonDeg = %v, want %v", lonDeg, want)
	}

	// Near the pole, the longitude margin should widen (cos(lat) shrinks)
	// rather than blow up, thanks to the cutoff below cosLat 0.01.
	_, lonDegPolar := DegreeMargin(1.0, 89.999)
	if lonDegPolar <= 0 || math.IsInf(lonDegPolar, 1) {
		t.Errorf("lonDeg near pole = %v, want a finite positive value", lonDegPolar)
	}

	// Margin scales linearly with distance.
	latDeg2, _ := DegreeMargin(2.0, 0)
	if math.Abs(latDeg2-2*latDeg) > 1e-9 {
		t.Errorf("latDeg(2km) = %v, want %v", latDeg2, 2*latDeg)
	}
}

func BenchmarkHaversine(b *testing.B) {
	for b.Loop() {
		Haversine(1.3521, 103.8198, 1.2905, 103.8520)
	}
}

func BenchmarkEquirectangularDist(b *testing.B) {
	for b.Loop() {
		EquirectangularDist(1.3521, 103.8198, 1.2905, 103.8520)
	}
}
