package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"slotline/pkg/client"
	"slotline/pkg/logger"
)

// Config is the process-wide configuration, loaded once at startup and never
// mutated afterwards. Components receive it explicitly, nothing reads the
// environment at request time.
type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	AdminUser      string
	AdminPass      string
	AdminJWTSecret string
	AdminTokenTTL  time.Duration

	JazzStoreID   string
	JazzPassword  string
	JazzReturnURL string

	HoldTTL           time.Duration
	HoldSweepInterval time.Duration

	KafkaBrokers      []string
	KafkaBookingTopic string

	RequestTimeout  time.Duration
	MaxRequestSize  int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		AdminUser:      getEnvStr(EnvAdminUser, ""),
		AdminPass:      getEnvStr(EnvAdminPass, ""),
		AdminJWTSecret: getEnvStr(EnvAdminJWTSecret, ""),
		AdminTokenTTL:  getEnvDuration(EnvAdminTokenTTL, DefaultAdminTokenTTL),

		JazzStoreID:   getEnvStr(EnvJazzStoreID, ""),
		JazzPassword:  getEnvStr(EnvJazzPassword, ""),
		JazzReturnURL: getEnvStr(EnvJazzReturnURL, ""),

		HoldTTL:           getEnvDuration(EnvHoldTTL, DefaultHoldTTL),
		HoldSweepInterval: getEnvDuration(EnvHoldSweepInterval, DefaultHoldSweepInterval),

		KafkaBrokers:      getEnvList(EnvKafkaBrokers),
		KafkaBookingTopic: getEnvStr(EnvKafkaBookingTopic, DefaultKafkaBookingTopic),

		RequestTimeout:  getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize:  getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),
		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// GatewayConfigured reports whether the payment gateway credentials are
// present. Their absence degrades POST /pay to a 501, it is not fatal.
func (cfg *Config) GatewayConfigured() bool {
	return cfg.JazzStoreID != "" && cfg.JazzPassword != ""
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.AdminUser == "" {
		errs = append(errs, "AdminUser cannot be empty")
	}
	if cfg.AdminPass == "" {
		errs = append(errs, "AdminPass cannot be empty")
	}
	if len(cfg.AdminJWTSecret) < 16 {
		errs = append(errs, "AdminJWTSecret must be at least 16 characters")
	}
	if cfg.AdminTokenTTL <= 0 {
		errs = append(errs, fmt.Sprintf("AdminTokenTTL must be positive, got: %s", cfg.AdminTokenTTL))
	}

	if cfg.GatewayConfigured() && cfg.JazzReturnURL == "" {
		errs = append(errs, "JazzReturnURL is required when gateway credentials are set")
	}

	if cfg.HoldTTL <= 0 {
		errs = append(errs, fmt.Sprintf("HoldTTL must be positive, got: %s", cfg.HoldTTL))
	}
	if cfg.HoldSweepInterval <= 0 {
		errs = append(errs, fmt.Sprintf("HoldSweepInterval must be positive, got: %s", cfg.HoldSweepInterval))
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaBookingTopic == "" {
		errs = append(errs, "KafkaBookingTopic cannot be empty when brokers are set")
	}

	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

// LogConfiguration logs the effective configuration. Secrets are reported
// only as present/absent.
func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"admin_user_set", cfg.AdminUser != "",
		"admin_secret_set", cfg.AdminJWTSecret != "",
		"admin_token_ttl", cfg.AdminTokenTTL,
		"gateway_configured", cfg.GatewayConfigured(),
		"gateway_return_url", cfg.JazzReturnURL,
		"hold_ttl", cfg.HoldTTL,
		"hold_sweep_interval", cfg.HoldSweepInterval,
		"kafka_brokers", strings.Join(cfg.KafkaBrokers, ","),
		"kafka_booking_topic", cfg.KafkaBookingTopic,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}
