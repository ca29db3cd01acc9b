// Package promquery wraps the Prometheus HTTP API client used to query
// external metrics for fleet-scaling decisions, and provides a connectivity
// check (ValidateAPIWithBackoff) for a configured metrics backend.
package promquery

import "time"

// TLSConfig configures the transport's TLS behavior against the metrics backend.
type TLSConfig struct {
	Enabled            bool
	InsecureSkipVerify bool
	ServerName         string
	CACertPath         string
	ClientCertPath     string
	ClientKeyPath      string
}

// Config describes how to reach one metrics backend.
type Config struct {
	// Address is the base URL, e.g. "https://prometheus.monitoring.svc:9090".
	Address string

	TLS *TLSConfig

	BearerToken string
	TokenPath   string

	QueryTimeout time.Duration
}
