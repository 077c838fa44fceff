package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvAdminUser      = "ADMIN_USER"
	EnvAdminPass      = "ADMIN_PASS"
	EnvAdminJWTSecret = "ADMIN_JWT_SECRET"
	EnvAdminTokenTTL  = "ADMIN_TOKEN_TTL"

	EnvJazzStoreID   = "JAZZ_STORE_ID"
	EnvJazzPassword  = "JAZZ_PASSWORD"
	EnvJazzReturnURL = "JAZZ_RETURN_URL"

	EnvHoldTTL           = "HOLD_TTL"
	EnvHoldSweepInterval = "HOLD_SWEEP_INTERVAL"

	EnvKafkaBrokers      = "KAFKA_BROKERS"
	EnvKafkaBookingTopic = "KAFKA_BOOKING_TOPIC"

	EnvRequestTimeout  = "REQUEST_TIMEOUT"
	EnvMaxRequestSize  = "MAX_REQUEST_SIZE"
	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
