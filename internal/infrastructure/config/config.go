package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	kafkapkg "github.com/loanlens/assessment/pkg/kafka"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type KafkaConfig struct {
	Brokers         []string
	EventsTopic     string
	PaymentsTopic   string
	DeadLetterTopic string
	ConsumerGroup   string
	MaxAttempts     int
	TLS             bool
	SASLEnabled     bool
	SASLMechanism   string
	SASLUsername    string
	SASLPassword    string
}

// Client returns the shared Kafka client configuration.
func (k KafkaConfig) Client() kafkapkg.Config {
	return kafkapkg.Config{
		Brokers:       k.Brokers,
		ConsumerGroup: k.ConsumerGroup,
		TLS:           k.TLS,
		SASLEnabled:   k.SASLEnabled,
		SASLMechanism: k.SASLMechanism,
		SASLUsername:  k.SASLUsername,
		SASLPassword:  k.SASLPassword,
	}
}

// Retry returns the payment consumer's retry policy.
func (k KafkaConfig) Retry() kafkapkg.RetryPolicy {
	p := kafkapkg.DefaultRetryPolicy
	p.MaxAttempts = k.MaxAttempts
	return p
}

type OutboxConfig struct {
	Interval  time.Duration
	BatchSize int
}

type RedisConfig struct {
	URL      string
	CacheTTL time.Duration
}

type TelemetryConfig struct {
	ServiceName  string
	OTLPEndpoint string
}

type JWTConfig struct {
	Secret        string
	PublicKey     string
	PublicKeyFile string
	Issuer        string
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
	// Dev serves with a generated certificate kept under DevDir.
	Dev      bool
	DevDir   string
	DevHosts []string
}

// Enabled reports whether the gRPC server terminates TLS.
func (t TLSConfig) Enabled() bool { return t.Dev || (t.CertFile != "" && t.KeyFile != "") }

type Config struct {
	GRPCPort       int
	HTTPPort       int
	GRPCReflection bool
	LogLevel       string
	LogFormat      string
	DB             DatabaseConfig
	Kafka          KafkaConfig
	Redis          RedisConfig
	Telemetry      TelemetryConfig
	JWT            JWTConfig
	TLS            TLSConfig
	Outbox         OutboxConfig
	// ReportFee is the smallest payment that unlocks a full report.
	ReportFee decimal.Decimal
}

// Validate reports configuration that would prevent the service from starting.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD environment variable is required"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS must list at least one broker"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together"))
	}
	if c.TLS.Dev && c.TLS.CertFile != "" {
		errs = append(errs, errors.New("GRPC_TLS_DEV cannot be combined with GRPC_TLS_CERT_FILE"))
	}
	if c.TLS.Dev && len(c.TLS.DevHosts) == 0 {
		errs = append(errs, errors.New("GRPC_TLS_DEV_HOSTS must list at least one host"))
	}
	if c.ReportFee.IsNegative() {
		errs = append(errs, errors.New("REPORT_FEE must not be negative"))
	}
	if c.Kafka.MaxAttempts < 1 {
		errs = append(errs, errors.New("KAFKA_HANDLER_MAX_ATTEMPTS must be at least 1"))
	}
	if c.Outbox.BatchSize < 1 || c.Outbox.Interval <= 0 {
		errs = append(errs, errors.New("OUTBOX_BATCH_SIZE and OUTBOX_POLL_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
}

func Load() Config {
	return Config{
		GRPCPort:       getEnvInt("GRPC_PORT", 9091),
		HTTPPort:       getEnvInt("HTTP_PORT", 8091),
		GRPCReflection: getEnvBool("GRPC_REFLECTION", false),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "loanlens"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "loanlens_assessment"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 2)),
		},
		Kafka: KafkaConfig{
			Brokers:         kafkapkg.ParseBrokers(getEnv("KAFKA_BROKERS", "localhost:9092")),
			EventsTopic:     getEnv("KAFKA_EVENTS_TOPIC", "assessment.events"),
			PaymentsTopic:   getEnv("KAFKA_PAYMENTS_TOPIC", "payments.confirmed"),
			DeadLetterTopic: getEnv("KAFKA_PAYMENTS_DLQ_TOPIC", "payments.confirmed.dlq"),
			ConsumerGroup:   getEnv("KAFKA_CONSUMER_GROUP", "assessment-service"),
			MaxAttempts:     getEnvInt("KAFKA_HANDLER_MAX_ATTEMPTS", kafkapkg.DefaultRetryPolicy.MaxAttempts),
			TLS:             getEnvBool("KAFKA_TLS", false),
			SASLEnabled:     getEnvBool("KAFKA_SASL_ENABLED", false),
			SASLMechanism:   getEnv("KAFKA_SASL_MECHANISM", "PLAIN"),
			SASLUsername:    getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:    getEnv("KAFKA_SASL_PASSWORD", ""),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
			CacheTTL: getEnvDuration("CACHE_TTL", 15*time.Minute),
		},
		Telemetry: TelemetryConfig{
			ServiceName:  "assessment-service",
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", ""),
			PublicKey:     getEnv("JWT_PUBLIC_KEY", ""),
			PublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", ""),
			Issuer:        getEnv("JWT_ISSUER", "loanlens-gateway"),
		},
		TLS: TLSConfig{
			CertFile: getEnv("GRPC_TLS_CERT_FILE", ""),
			KeyFile:  getEnv("GRPC_TLS_KEY_FILE", ""),
			Dev:      getEnvBool("GRPC_TLS_DEV", false),
			DevDir:   getEnv("GRPC_TLS_DEV_DIR", ".certs"),
			DevHosts: splitList(getEnv("GRPC_TLS_DEV_HOSTS", "localhost,127.0.0.1")),
		},
		Outbox: OutboxConfig{
			Interval:  getEnvDuration("OUTBOX_POLL_INTERVAL", time.Second),
			BatchSize: getEnvInt("OUTBOX_BATCH_SIZE", 100),
		},
		ReportFee: getEnvDecimal("REPORT_FEE", decimal.NewFromInt(120)),
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
