package config

import "os"

// RelayConfig holds configuration for the approval fan-out relay. Minimal
// on purpose: only what the relay needs.
type RelayConfig struct {
	DatabaseURL string
	RabbitMQURL string
	MemberQueue string
}

func LoadRelayConfig() *RelayConfig {
	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	queue := os.Getenv("MEMBER_QUEUE_NAME")
	if queue == "" {
		queue = "member-approvals"
	}

	return &RelayConfig{
		DatabaseURL: dbURL,
		RabbitMQURL: rabbitURL,
		MemberQueue: queue,
	}
}
