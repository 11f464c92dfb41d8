package service

import (
	"corpride/internal/general/logger"
	"corpride/internal/general/rabbitmq"
	"corpride/internal/general/websocket"
	"corpride/internal/ports"
)

// rideService encapsulates requester-facing ride operations.
type rideService struct {
	logger   *logger.Logger
	uow      ports.UnitOfWork
	rideRepo ports.RideRepository
	rabbitmq *rabbitmq.Client
	notifier *websocket.Notifier
}

// NewRideService creates a new instance of the RideService with the provided dependencies.
func NewRideService(
	log *logger.Logger,
	uow ports.UnitOfWork,
	rideRepo ports.RideRepository,
	mq *rabbitmq.Client,
	notifier *websocket.Notifier,
) ports.RideService {
	return &rideService{
		logger:   log,
		uow:      uow,
		rideRepo: rideRepo,
		rabbitmq: mq,
		notifier: notifier,
	}
}
