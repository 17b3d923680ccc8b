package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 9091, cfg.GRPCPort)
	assert.Equal(t, 8091, cfg.HTTPPort)
	assert.Equal(t, ":9091", cfg.GRPCAddr())
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "assessment.events", cfg.Kafka.EventsTopic)
	assert.Equal(t, "payments.confirmed", cfg.Kafka.PaymentsTopic)
	assert.Equal(t, 15*time.Minute, cfg.Redis.CacheTTL)
	assert.False(t, cfg.TLS.Enabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GRPC_PORT", "7000")
	t.Setenv("HTTP_PORT", "not-a-number")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("GRPC_REFLECTION", "true")
	t.Setenv("DB_PASSWORD", "s3cret")

	cfg := Load()

	assert.Equal(t, 7000, cfg.GRPCPort)
	assert.Equal(t, 8091, cfg.HTTPPort, "unparsable values fall back to the default")
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 90*time.Second, cfg.Redis.CacheTTL)
	assert.True(t, cfg.GRPCReflection)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Client().Brokers)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("GRPC_TLS_CERT_FILE", "/etc/tls/cert.pem")

	err := Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
	assert.Contains(t, err.Error(), "GRPC_TLS_KEY_FILE")
}

func TestLoadDeliveryAndFeeSettings(t *testing.T) {
	t.Setenv("REPORT_FEE", "149.50")
	t.Setenv("KAFKA_HANDLER_MAX_ATTEMPTS", "3")
	t.Setenv("KAFKA_PAYMENTS_DLQ_TOPIC", "payments.dlq")
	t.Setenv("OUTBOX_POLL_INTERVAL", "250ms")
	t.Setenv("GRPC_TLS_DEV", "true")
	t.Setenv("GRPC_TLS_DEV_HOSTS", "assessment.local, 10.0.0.5,")

	cfg := Load()

	assert.Equal(t, "149.5", cfg.ReportFee.String())
	assert.Equal(t, "payments.dlq", cfg.Kafka.DeadLetterTopic)
	assert.Equal(t, 3, cfg.Kafka.Retry().MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Outbox.Interval)
	assert.Equal(t, 100, cfg.Outbox.BatchSize)
	assert.True(t, cfg.TLS.Enabled())
	assert.Equal(t, []string{"assessment.local", "10.0.0.5"}, cfg.TLS.DevHosts)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "negative report fee", env: map[string]string{"REPORT_FEE": "-1"}, wantErr: "REPORT_FEE"},
		{name: "zero handler attempts", env: map[string]string{"KAFKA_HANDLER_MAX_ATTEMPTS": "0"}, wantErr: "KAFKA_HANDLER_MAX_ATTEMPTS"},
		{name: "zero outbox batch", env: map[string]string{"OUTBOX_BATCH_SIZE": "0"}, wantErr: "OUTBOX_BATCH_SIZE"},
		{
			name:    "dev TLS with certificate files",
			env:     map[string]string{"GRPC_TLS_DEV": "true", "GRPC_TLS_CERT_FILE": "/c.pem", "GRPC_TLS_KEY_FILE": "/k.pem"},
			wantErr: "GRPC_TLS_DEV",
		},
		{
			name:    "dev TLS without hosts",
			env:     map[string]string{"GRPC_TLS_DEV": "true", "GRPC_TLS_DEV_HOSTS": " , "},
			wantErr: "GRPC_TLS_DEV_HOSTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_PASSWORD", "s3cret")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			err := Load().Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
