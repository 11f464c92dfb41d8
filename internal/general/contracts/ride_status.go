package contracts

import "time"

// RideStatusMessage is published by Admin Service when a ride changes status,
// so Ride Service can notify the requester.
// Routing key: "ride.status.{status}" on ExchangeRideTopic.
type RideStatusMessage struct {
	RideID         string    `json:"ride_id"`
	RequesterID    string    `json:"requester_id"`
	PreviousStatus string    `json:"previous_status"`
	Status         string    `json:"status"` // pending|approved|rejected|completed|cancelled
	Reason         string    `json:"reason,omitempty"`
	DriverID       string    `json:"driver_id,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Envelope
}
