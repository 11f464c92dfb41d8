package service

import (
	"context"
	"encoding/json"
	"time"

	"corpride/internal/general/contracts"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RunBackgroundConsumers consumes ride status updates published by the admin
// service and forwards each one to the requester's websocket connection.
// Blocks until ctx is cancelled; the consume loop is restarted on channel loss.
func (service *rideService) RunBackgroundConsumers(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := service.rabbitmq.Consume(ctx, contracts.QueueRideStatus, "ride-service-status", 10, service.handleStatusDelivery)
		if err != nil {
			service.logger.Error(ctx, "status_consumer_stopped", "Ride status consumer stopped, will retry", err, nil)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(3 * time.Second):
		}
	}
}

func (service *rideService) handleStatusDelivery(ctx context.Context, d amqp.Delivery) error {
	var msg contracts.RideStatusMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		service.logger.Error(ctx, "status_message_malformed", "Dropping malformed ride status message", err,
			map[string]any{"routing_key": d.RoutingKey, "size": len(d.Body)})
		// returning the error nacks without requeue, dropping the poison message
		return err
	}

	if msg.RequesterID == "" {
		return nil
	}

	notification := map[string]any{
		"type":            "ride_status_update",
		"ride_id":         msg.RideID,
		"previous_status": msg.PreviousStatus,
		"status":          msg.Status,
		"reason":          msg.Reason,
		"driver_id":       msg.DriverID,
		"timestamp":       msg.Timestamp,
	}
	if err := service.notifier.NotifyRequester(msg.RequesterID, notification); err != nil {
		service.logger.Error(ctx, "ws_notify_failed", "Failed to push status update over websocket", err,
			map[string]any{"ride_id": msg.RideID, "requester_id": msg.RequesterID})
		return err
	}

	service.logger.Debug(ctx, "status_update_forwarded", "Forwarded ride status update to requester",
		map[string]any{"ride_id": msg.RideID, "status": msg.Status})
	return nil
}
