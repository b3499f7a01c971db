// Package tls turns the tls section of the config file into a *tls.Config
// for the HTTP client.
package tls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"
)

// Config holds server verification settings. Client certificates are not
// supported.
type Config struct {
	CAFile             string `yaml:"ca_file,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify,omitempty"`
	MinVersion         string `yaml:"min_version,omitempty"` // "1.2" or "1.3"
}

// Build creates a *tls.Config. It returns nil when nothing is configured so
// the transport keeps Go's defaults.
func (c Config) Build() (*tls.Config, error) {
	if c.IsEmpty() {
		return nil, nil
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: c.InsecureSkipVerify,
	}

	switch strings.TrimSpace(c.MinVersion) {
	case "":
	case "1.2":
		tlsConfig.MinVersion = tls.VersionTLS12
	case "1.3":
		tlsConfig.MinVersion = tls.VersionTLS13
	default:
		return nil, fmt.Errorf("unsupported min_version %q (use 1.2 or 1.3)", c.MinVersion)
	}

	if c.CAFile != "" {
		caCert, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, fmt.Errorf("reading CA cert: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("no certificates found in %s", c.CAFile)
		}
		tlsConfig.RootCAs = pool
	}

	return tlsConfig, nil
}

// IsEmpty reports whether no TLS settings are configured.
func (c Config) IsEmpty() bool {
	return c.CAFile == "" && !c.InsecureSkipVerify && strings.TrimSpace(c.MinVersion) == ""
}
