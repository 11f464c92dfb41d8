package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"corpride/internal/general/contracts"
)

// generateCorrelationID creates a simple correlation ID for tracing requests.
func generateCorrelationID() string {
	var b [3]byte // 6 hex chars
	_, _ = rand.Read(b[:])
	ts := time.Now().UTC().Format("20060102T150405")
	return "req_" + ts + "_" + hex.EncodeToString(b[:])
}

// publishRideStatus sends a ride status update to the ride topic exchange using
// routing key ride.status.{status}, e.g., ride.status.approved.
func (service *adminService) publishRideStatus(ctx context.Context, msg contracts.RideStatusMessage) {
	if service.pub == nil {
		return
	}
	routingKey := contracts.RouteRideStatusPrefix + strings.ToLower(msg.Status)

	body, err := json.Marshal(msg)
	if err != nil {
		service.logger.Error(ctx, "status_encode_failed", "Failed to encode ride status message", err,
			map[string]any{"ride_id": msg.RideID})
		return
	}

	// best-effort fan-out outside the transaction; the status change itself
	// is already committed
	if err := service.pub.Publish(contracts.ExchangeRideTopic, routingKey, body); err != nil {
		service.logger.Error(ctx, "ride_status_publish_failed", "Failed to publish ride status to RabbitMQ", err,
			map[string]any{"ride_id": msg.RideID, "routing_key": routingKey})
		return
	}

	service.logger.Info(ctx, "ride_status_published", "Published ride status to RabbitMQ",
		map[string]any{"routing_key": routingKey, "ride_id": msg.RideID})
}
