package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "orders",
	Pass: "orders",
	Name: "orders_db",
}

var defaultKafka = Kafka{
	Brokers:           nil,
	OrderEventsTopic:  "order-events",
	NotificationTopic: "notifications",
	GroupID:           "delivery-core",
}

var defaultRedis = Redis{Addr: ""}

var defaultAssignment = Assignment{
	MaxOrdersPerRider:  3,
	RadiusKm:           10,
	DistanceWeight:     0.4,
	AvailabilityWeight: 0.3,
	UrgencyWeight:      0.3,
}

// Notification retries are staggered, then the send is dropped.
var defaultNotify = Notify{
	Delays: []time.Duration{800 * time.Millisecond, 2 * time.Second},
}

var defaultRateLimit = RateLimit{
	Enabled:    false,
	Rate:       50,
	Burst:      100,
	TTL:        time.Minute,
	MaxBuckets: 10000,
}

// DefaultPort returns the default HTTP port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultAssignment returns the default matching engine settings.
func DefaultAssignment() Assignment {
	return defaultAssignment
}

// DefaultNotify returns the default notification retry settings.
func DefaultNotify() Notify {
	n := defaultNotify
	n.Delays = append([]time.Duration(nil), defaultNotify.Delays...)
	return n
}
