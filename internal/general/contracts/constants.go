package contracts

// Exchanges
const (
	ExchangeRideTopic = "ride_topic"
)

// Queues
const (
	QueueRideStatus = "ride_status"
)

// Routing patterns
const (
	RouteRideStatusPrefix = "ride.status." // {status}
)
