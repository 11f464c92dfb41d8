package service

import (
	"corpride/internal/general/logger"
	"corpride/internal/general/rabbitmq"
	"corpride/internal/ports"
)

// adminService encapsulates review, dispatch and analytics operations.
type adminService struct {
	logger     *logger.Logger
	uow        ports.UnitOfWork
	rideRepo   ports.RideRepository
	actionRepo ports.AdminActionRepository
	pub        *rabbitmq.MQPublisher
}

// NewAdminService creates a new instance of the AdminService with the provided dependencies.
func NewAdminService(
	log *logger.Logger,
	uow ports.UnitOfWork,
	rideRepo ports.RideRepository,
	actionRepo ports.AdminActionRepository,
	pub *rabbitmq.MQPublisher,
) ports.AdminService {
	return &adminService{
		logger:     log,
		uow:        uow,
		rideRepo:   rideRepo,
		actionRepo: actionRepo,
		pub:        pub,
	}
}
