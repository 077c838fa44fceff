package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "slotline"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultAdminTokenTTL = 2 * time.Hour

	DefaultHoldTTL           = 10 * time.Minute
	DefaultHoldSweepInterval = 1 * time.Minute

	DefaultKafkaBookingTopic = "booking-events"

	DefaultRequestTimeout  = 30 * time.Second
	DefaultMaxRequestSize  = 1 * 1024 * 1024 // 1MB
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
