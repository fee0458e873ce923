package kafka

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// HealthChecker checks Kafka broker connectivity.
type HealthChecker struct {
	brokers []string
	timeout time.Duration
}

// NewHealthChecker creates a new Kafka health checker.
func NewHealthChecker(brokers []string) *HealthChecker {
	return &HealthChecker{
		brokers: brokers,
		timeout: 5 * time.Second,
	}
}

// Check verifies connectivity to Kafka brokers.
// Returns nil if at least one broker is reachable.
func (h *HealthChecker) Check(ctx context.Context) error {
	if len(h.brokers) == 0 {
		return fmt.Errorf("kafka brokers not configured")
	}

	var lastErr error
	for _, broker := range h.brokers {
		broker = strings.TrimSpace(broker)
		if broker == "" {
			continue
		}

		dialer := net.Dialer{Timeout: h.timeout}
		conn, err := dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		conn.Close() //nolint:errcheck
		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("no kafka brokers reachable: %w", lastErr)
	}
	return fmt.Errorf("no kafka brokers configured")
}

// Name returns the check name for health reporting.
func (h *HealthChecker) Name() string {
	return "kafka"
}
