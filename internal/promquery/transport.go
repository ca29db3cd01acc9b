package promquery

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/logger"
	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/utils"
	"github.com/prometheus/client_golang/api"
)

// newTransport builds the HTTP transport used for all Prometheus API calls,
// applying TLS settings from cfg.TLS when present.
func newTransport(cfg Config) (http.RoundTripper, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   utils.DefaultTimeout,
			KeepAlive: utils.DefaultKeepAlive,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          utils.DefaultMaxIdleConns,
		IdleConnTimeout:       utils.DefaultIdleConnTimeout,
		TLSHandshakeTimeout:   utils.DefaultTLSHandshakeTimeout,
		ExpectContinueTimeout: utils.DefaultExpectContinueTimeout,
	}

	if cfg.TLS != nil && cfg.TLS.Enabled {
		tlsConfig, err := newTLSConfig(cfg.TLS)
		if err != nil {
			return nil, err
		}
		if tlsConfig != nil {
			transport.TLSClientConfig = tlsConfig
			logger.Log.Info("TLS configuration applied to Prometheus transport")
		}
	}

	return transport, nil
}

// NewClientConfig builds the prometheus client_golang api.Config for cfg,
// including bearer-token authentication when configured.
func NewClientConfig(cfg Config) (*api.Config, error) {
	clientConfig := &api.Config{Address: cfg.Address}

	transport, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}

	bearerToken := cfg.BearerToken
	if bearerToken == "" && cfg.TokenPath != "" {
		tokenBytes, err := os.ReadFile(cfg.TokenPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read bearer token from %s: %w", cfg.TokenPath, err)
		}
		bearerToken = strings.TrimSpace(string(tokenBytes))
	}

	if bearerToken != "" {
		transport = &bearerTokenRoundTripper{base: transport, token: bearerToken}
	}

	clientConfig.RoundTripper = transport
	return clientConfig, nil
}

type bearerTokenRoundTripper struct {
	base  http.RoundTripper
	token string
}

func (b *bearerTokenRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}

func newTLSConfig(cfg *TLSConfig) (*tls.Config, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		ServerName:         cfg.ServerName,
		MinVersion:         tls.VersionTLS12,
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate from %s: %w", cfg.CACertPath, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate from %s", cfg.CACertPath)
		}
		tlsConfig.RootCAs = pool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate from %s and key from %s: %w", cfg.ClientCertPath, cfg.ClientKeyPath, err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// ConfigFromEnv builds a Config from the PROMETHEUS_* environment variables.
// The autoscaler reconciler does not use it: it builds its clients from each
// LLMClusterAutoscaler's spec.prometheus.address.
func ConfigFromEnv() Config {
	return Config{
		Address:      getEnvOrDefault("PROMETHEUS_BASE_URL", "https://prometheus:9090"),
		QueryTimeout: utils.DefaultTimeout,
		TLS: &TLSConfig{
			Enabled:            getEnvOrDefault("PROMETHEUS_TLS_ENABLED", "true") == "true",
			InsecureSkipVerify: getEnvOrDefault("PROMETHEUS_TLS_INSECURE_SKIP_VERIFY", "false") == "true",
			ServerName:         getEnvOrDefault("PROMETHEUS_SERVER_NAME", ""),
			CACertPath:         getEnvOrDefault("PROMETHEUS_CA_CERT_PATH", ""),
			ClientCertPath:     getEnvOrDefault("PROMETHEUS_CLIENT_CERT_PATH", ""),
			ClientKeyPath:      getEnvOrDefault("PROMETHEUS_CLIENT_KEY_PATH", ""),
		},
		BearerToken: getEnvOrDefault("PROMETHEUS_BEARER_TOKEN", ""),
		TokenPath:   getEnvOrDefault("PROMETHEUS_TOKEN_PATH", ""),
	}
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
