// Package probe provides reusable connectivity checks for platform
// instances. It offers standardized ways to verify that a configured
// platform URL is reachable before spending an authenticated request on it,
// and a status value type callers can render directly.
package probe

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"
)

// Status constants represent the reachability state of a platform instance.
const (
	// StatusHealthy indicates the instance is reachable.
	StatusHealthy = "healthy"

	// StatusDegraded indicates the instance is reachable but responding
	// abnormally.
	StatusDegraded = "degraded"

	// StatusUnhealthy indicates the instance is not reachable.
	StatusUnhealthy = "unhealthy"
)

// Status is the outcome of one connectivity check.
type Status struct {
	// Status is the reachability state (healthy, degraded, or unhealthy).
	Status string `json:"status"`

	// Message provides a human-readable description of the outcome.
	Message string `json:"message,omitempty"`

	// Details contains additional diagnostic context.
	Details map[string]any `json:"details,omitempty"`
}

// IsHealthy returns true if the status is StatusHealthy.
func (s Status) IsHealthy() bool {
	return s.Status == StatusHealthy
}

// IsUnhealthy returns true if the status is StatusUnhealthy.
func (s Status) IsUnhealthy() bool {
	return s.Status == StatusUnhealthy
}

// Healthy creates a healthy status with a message.
func Healthy(message string) Status {
	return Status{Status: StatusHealthy, Message: message}
}

// Degraded creates a degraded status with a message and optional details.
func Degraded(message string, details map[string]any) Status {
	return Status{Status: StatusDegraded, Message: message, Details: details}
}

// Unhealthy creates an unhealthy status with a message and optional details.
func Unhealthy(message string, details map[string]any) Status {
	return Status{Status: StatusUnhealthy, Message: message, Details: details}
}

// TCP verifies TCP connectivity to a host and port, using the provided
// context for timeout and cancellation control.
func TCP(ctx context.Context, host string, port int) Status {
	if host == "" {
		return Unhealthy("host cannot be empty", nil)
	}
	if port <= 0 || port > 65535 {
		return Unhealthy(
			fmt.Sprintf("invalid port number: %d", port),
			map[string]any{"port": port},
		)
	}

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	address := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	var dialer net.Dialer

	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return Unhealthy(
			fmt.Sprintf("failed to connect to %s", address),
			map[string]any{
				"host":  host,
				"port":  port,
				"error": err.Error(),
			},
		)
	}
	conn.Close()

	return Healthy(fmt.Sprintf("successfully connected to %s", address))
}

// URL verifies TCP connectivity to the host and port of a platform base
// URL. Missing ports default by scheme (443 for https, 80 for http).
func URL(ctx context.Context, rawURL string) Status {
	if rawURL == "" {
		return Unhealthy("url cannot be empty", nil)
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return Unhealthy(
			fmt.Sprintf("invalid platform url %q", rawURL),
			map[string]any{"url": rawURL},
		)
	}

	port := 80
	if u.Scheme == "https" {
		port = 443
	}
	if p := u.Port(); p != "" {
		fmt.Sscanf(p, "%d", &port)
	}

	return TCP(ctx, u.Hostname(), port)
}

// Combine aggregates multiple checks into a single status. The result
// follows this priority:
//   - If any check is unhealthy, the result is unhealthy
//   - If any check is degraded (and none unhealthy), the result is degraded
//   - If all checks are healthy, the result is healthy
func Combine(checks ...Status) Status {
	if len(checks) == 0 {
		return Healthy("no checks provided")
	}

	var unhealthy []string
	var degraded []string
	healthyCount := 0

	for _, check := range checks {
		switch check.Status {
		case StatusUnhealthy:
			msg := check.Message
			if msg == "" {
				msg = "unnamed check"
			}
			unhealthy = append(unhealthy, msg)
		case StatusDegraded:
			msg := check.Message
			if msg == "" {
				msg = "unnamed check"
			}
			degraded = append(degraded, msg)
		case StatusHealthy:
			healthyCount++
		}
	}

	if len(unhealthy) > 0 {
		return Unhealthy(
			fmt.Sprintf("%d check(s) failed", len(unhealthy)),
			map[string]any{
				"total":         len(checks),
				"unhealthy":     len(unhealthy),
				"degraded":      len(degraded),
				"healthy":       healthyCount,
				"failed_checks": unhealthy,
			},
		)
	}
	if len(degraded) > 0 {
		return Degraded(
			fmt.Sprintf("%d check(s) degraded", len(degraded)),
			map[string]any{
				"total":           len(checks),
				"degraded":        len(degraded),
				"healthy":         healthyCount,
				"degraded_checks": degraded,
			},
		)
	}
	return Healthy(fmt.Sprintf("all %d check(s) passed", len(checks)))
}
