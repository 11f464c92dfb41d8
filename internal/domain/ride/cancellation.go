package ride

import "time"

// CancellationCutoff is how far ahead of the scheduled ride a cancellation
// must arrive to be accepted.
const CancellationCutoff = 2 * time.Hour

// CanCancelAt reports whether a ride scheduled for rideDate may still be
// cancelled at the given moment. The boundary is exclusive: exactly two hours
// before the ride is already too late. Callers must pass a fresh "now" on
// every evaluation; the result must never be cached.
func CanCancelAt(rideDate, now time.Time) bool {
	return rideDate.Sub(now) > CancellationCutoff
}
