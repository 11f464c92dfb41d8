package ride

import "math"

// Fare model constants. Currency units are INR.
const (
	earthRadiusKM = 6371.0
	avgSpeedKMH   = 30.0
	BaseFare      = 50.0
	PerKMRate     = 15.0
	PerMinuteRate = 2.0
)

// Estimate holds the computed economics of an itinerary.
type Estimate struct {
	DistanceKM      float64
	DurationMinutes int
	Fare            float64
}

// EstimateTrip computes distance, duration and fare for a pickup/drop pair.
// Pure: same inputs always yield the same estimate.
func EstimateTrip(pickup, drop Location) Estimate {
	distance := HaversineKM(
		pickup.Latitude, pickup.Longitude,
		drop.Latitude, drop.Longitude,
	)
	duration := EstimateDurationMinutes(distance)
	return Estimate{
		DistanceKM:      distance,
		DurationMinutes: duration,
		Fare:            ComputeFare(distance, duration),
	}
}

// HaversineKM returns the great-circle distance in kilometers.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	a1 := lat1 * math.Pi / 180
	a2 := lat2 * math.Pi / 180
	da := (lat2 - lat1) * math.Pi / 180
	db := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(da/2)*math.Sin(da/2) +
		math.Cos(a1)*math.Cos(a2)*math.Sin(db/2)*math.Sin(db/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

// EstimateDurationMinutes converts a distance to whole minutes at the assumed
// city average speed, rounding up.
func EstimateDurationMinutes(distanceKM float64) int {
	if distanceKM <= 0 {
		return 0
	}
	return int(math.Ceil(distanceKM / avgSpeedKMH * 60.0))
}

// ComputeFare returns base + (distance_km * per_km) + (duration_min * per_minute),
// evaluated in that order. The result is not rounded; display rounding is the
// caller's business.
func ComputeFare(distanceKM float64, durationMinutes int) float64 {
	if distanceKM < 0 {
		distanceKM = 0
	}
	if durationMinutes < 0 {
		durationMinutes = 0
	}
	distanceFare := distanceKM * PerKMRate
	timeFare := float64(durationMinutes) * PerMinuteRate
	return BaseFare + distanceFare + timeFare
}
