package ride

import (
	"math"
	"testing"
)

func TestHaversineSymmetry(t *testing.T) {
	pairs := []struct {
		name       string
		aLat, aLon float64
		bLat, bLon float64
	}{
		{"mumbai_suburbs", 19.0760, 72.8777, 19.2183, 72.9781},
		{"bangalore_short_hop", 12.9716, 77.5946, 12.9352, 77.6245},
		{"cross_hemisphere", -33.8688, 151.2093, 51.5074, -0.1278},
	}
	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			ab := HaversineKM(p.aLat, p.aLon, p.bLat, p.bLon)
			ba := HaversineKM(p.bLat, p.bLon, p.aLat, p.aLon)
			if ab != ba {
				t.Fatalf("distance not symmetric: a->b=%v b->a=%v", ab, ba)
			}
			if ab <= 0 {
				t.Fatalf("expected positive distance, got %v", ab)
			}
		})
	}
}

func TestHaversineZeroForSamePoint(t *testing.T) {
	if d := HaversineKM(19.0760, 72.8777, 19.0760, 72.8777); d != 0 {
		t.Fatalf("expected zero distance for identical points, got %v", d)
	}
}

func TestEstimateDurationMinutes(t *testing.T) {
	tests := []struct {
		distanceKM float64
		want       int
	}{
		{0, 0},
		{-3, 0},
		{15, 30},   // exactly half an hour at 30 km/h
		{15.1, 31}, // rounds up
		{0.1, 1},   // any positive distance takes at least a minute
	}
	for _, tc := range tests {
		if got := EstimateDurationMinutes(tc.distanceKM); got != tc.want {
			t.Errorf("EstimateDurationMinutes(%v) = %d, want %d", tc.distanceKM, got, tc.want)
		}
	}
}

func TestFareFloorAndMonotonicity(t *testing.T) {
	prev := -1.0
	for _, d := range []float64{0, 0.5, 1, 2.5, 10, 42, 250} {
		fare := ComputeFare(d, EstimateDurationMinutes(d))
		if fare < BaseFare {
			t.Fatalf("fare %v for %v km is below the base fare floor %v", fare, d, BaseFare)
		}
		if fare < prev {
			t.Fatalf("fare decreased with distance: %v km -> %v, previous %v", d, fare, prev)
		}
		prev = fare
	}
}

func TestComputeFareComposition(t *testing.T) {
	// 10 km at 30 km/h is 20 minutes: 50 + 10*15 + 20*2.
	got := ComputeFare(10, 20)
	want := 50.0 + 150.0 + 40.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("ComputeFare(10, 20) = %v, want %v", got, want)
	}
}

func TestEstimateTripMumbaiItinerary(t *testing.T) {
	pickup := Location{Address: "Andheri East", Latitude: 19.0760, Longitude: 72.8777}
	drop := Location{Address: "Thane West", Latitude: 19.2183, Longitude: 72.9781}

	est := EstimateTrip(pickup, drop)
	if est.DistanceKM <= 0 {
		t.Fatalf("expected positive distance, got %v", est.DistanceKM)
	}
	if est.DurationMinutes <= 0 {
		t.Fatalf("expected positive duration, got %d", est.DurationMinutes)
	}
	if est.Fare <= BaseFare {
		t.Fatalf("expected fare above base for a real trip, got %v", est.Fare)
	}
	// идемпотентность
	if again := EstimateTrip(pickup, drop); again != est {
		t.Fatalf("estimate not stable: %+v vs %+v", again, est)
	}
}
