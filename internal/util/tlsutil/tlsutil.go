/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tlsutil

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

var (
	ErrCertNotFound      = errors.New("certificate file not found")
	ErrKeyNotFound       = errors.New("key file not found")
	ErrCANotFound        = errors.New("CA file not found")
	ErrInvalidClientAuth = errors.New("invalid clientAuth value")
	ErrLoadCert          = errors.New("loading certificate")
	ErrLoadCA            = errors.New("loading CA file")
	ErrParseCA           = errors.New("parsing CA certificate")
)

// Config configures TLS for a server.
type Config struct {
	// Enabled enables TLS for the server.
	Enabled bool `json:"enabled"`
	// ClientAuth is "none", "request" or "require".
	ClientAuth string `json:"clientAuth,omitempty"`
	// CertPath is the path to the server certificate.
	CertPath string `json:"certPath,omitempty"`
	// KeyPath is the path to the server private key.
	KeyPath string `json:"keyPath,omitempty"`
	// CAPath is the CA used to verify client certificates. Required unless ClientAuth is "none".
	CAPath string `json:"caPath,omitempty"`
}

// ClientConfig configures TLS for a client.
type ClientConfig struct {
	// CAPath replaces the system roots when set.
	CAPath string
	// CertPath and KeyPath present a client certificate when both are set.
	CertPath string
	KeyPath  string
	// InsecureSkipVerify disables server certificate verification.
	InsecureSkipVerify bool
}

// BuildTLSConfig builds the server tls.Config. It returns nil, nil when TLS is disabled.
func BuildTLSConfig(config *Config) (*tls.Config, error) {
	if config == nil || !config.Enabled {
		return nil, nil
	}

	if err := fileExists(config.CertPath, ErrCertNotFound); err != nil {
		return nil, err
	}

	if err := fileExists(config.KeyPath, ErrKeyNotFound); err != nil {
		return nil, err
	}

	clientAuth, err := ParseClientAuth(config.ClientAuth)
	if err != nil {
		return nil, err
	}

	cert, err := tls.LoadX509KeyPair(config.CertPath, config.KeyPath)
	if err != nil {
		return nil, errors.Join(err, fmt.Errorf("certPath=%s", config.CertPath), ErrLoadCert)
	}

	tlsConfig := &tls.Config{ //nolint:exhaustruct
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		ClientAuth:   clientAuth,
	}

	if clientAuth == tls.NoClientCert {
		return tlsConfig, nil
	}

	if err := fileExists(config.CAPath, ErrCANotFound); err != nil {
		return nil, err
	}

	if tlsConfig.ClientCAs, err = loadCertPool(config.CAPath); err != nil {
		return nil, err
	}

	return tlsConfig, nil
}

// BuildClientTLSConfig builds a client tls.Config. It returns nil, nil when config is empty.
func BuildClientTLSConfig(config ClientConfig) (*tls.Config, error) {
	if config == (ClientConfig{}) {
		return nil, nil
	}

	tlsConfig := &tls.Config{ //nolint:exhaustruct
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: config.InsecureSkipVerify, //nolint:gosec // opt-in flag
	}

	if config.CAPath != "" {
		pool, err := loadCertPool(config.CAPath)
		if err != nil {
			return nil, err
		}

		tlsConfig.RootCAs = pool
	}

	if config.CertPath != "" && config.KeyPath != "" {
		cert, err := tls.LoadX509KeyPair(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, errors.Join(err, fmt.Errorf("certPath=%s", config.CertPath), ErrLoadCert)
		}

		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// ParseClientAuth maps a clientAuth value to a tls.ClientAuthType.
func ParseClientAuth(clientAuth string) (tls.ClientAuthType, error) {
	switch clientAuth {
	case "", "none":
		return tls.NoClientCert, nil
	case "request":
		return tls.VerifyClientCertIfGiven, nil
	case "require":
		return tls.RequireAndVerifyClientCert, nil
	default:
		return 0, errors.Join(
			fmt.Errorf("clientAuth=%q (valid values: none, request, require)", clientAuth),
			ErrInvalidClientAuth,
		)
	}
}

func loadCertPool(path string) (*x509.CertPool, error) {
	caBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(err, fmt.Errorf("caPath=%s", path), ErrLoadCA)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caBytes) {
		return nil, errors.Join(fmt.Errorf("caPath=%s", path), ErrParseCA)
	}

	return pool, nil
}

func fileExists(path string, sentinel error) error {
	if _, err := os.Stat(path); err != nil {
		return errors.Join(err, fmt.Errorf("path=%s", path), sentinel)
	}

	return nil
}
