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

package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"github.com/alexandremahdhaoui/vncfleet/internal/adapter"
	"github.com/alexandremahdhaoui/vncfleet/internal/util/logging"
	"github.com/alexandremahdhaoui/vncfleet/internal/util/tlsutil"
)

const (
	// ConfigPathEnvKey is the environment variable holding the path of the configuration file.
	ConfigPathEnvKey = "VNCFLEET_CONFIG_PATH"

	// QEMUDriver runs nodes as plain qemu processes.
	QEMUDriver = "qemu"
	// LibvirtDriver runs nodes as transient libvirt domains.
	LibvirtDriver = "libvirt"
)

var (
	ErrReadConfig    = errors.New("reading configuration file")
	ErrParseConfig   = errors.New("parsing configuration file")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidEnv    = errors.New("invalid environment variable")
)

// Config is used to configure the application.
//
// Some part of the configuration may be passed through environment variables.
type Config struct {
	// Logging

	// LogLevel is one of "debug", "info", "warn" or "error".
	LogLevel string `json:"logLevel"`
	// DevelopmentMode enables human-readable logs.
	DevelopmentMode bool `json:"developmentMode"`

	// Storage configures the overlay store.
	Storage struct {
		// BaseImagePath is the shared read-only base image.
		BaseImagePath string `json:"baseImagePath"`
		// OverlaysDir holds one overlay per node.
		OverlaysDir string `json:"overlaysDir"`
		// DiskImageTool is the qemu-img binary.
		DiskImageTool string `json:"diskImageTool"`
	} `json:"storage"`

	// Exec configures how external tools are executed.
	Exec struct {
		// Envs are added to the environment of every tool.
		Envs map[string]string `json:"envs,omitempty"`
		// PrependCmd is prepended to every tool invocation, e.g. ["sudo", "-E"].
		PrependCmd []string `json:"prependCmd,omitempty"`
	} `json:"exec"`

	// Hypervisor configures the process supervisor.
	Hypervisor struct {
		// Driver is either "qemu" or "libvirt".
		Driver string `json:"driver"`
		// FirstVNCPort is the port of the first node. Must be at least 5900.
		FirstVNCPort int `json:"firstVNCPort"`
		// MemoryMB is the guest memory.
		MemoryMB int `json:"memoryMB"`

		// Binary is the qemu-system binary (qemu driver).
		Binary string `json:"binary"`
		// EnableKVM adds -enable-kvm (qemu driver).
		EnableKVM bool `json:"enableKVM"`
		// Headless adds -nographic (qemu driver).
		Headless bool `json:"headless"`

		// LibvirtURI is the libvirt connection URI (libvirt driver).
		LibvirtURI string `json:"libvirtURI"`
		// VCPUs is the number of virtual CPUs (libvirt driver).
		VCPUs int `json:"vcpus"`
		// DomainType is "kvm" or "qemu" (libvirt driver).
		DomainType string `json:"domainType"`
		// NetworkMode is "user", "nat" or "bridge" (libvirt driver).
		NetworkMode string `json:"networkMode"`
		// BridgeName is the bridge or network name (libvirt driver).
		BridgeName string `json:"bridgeName"`
		// ManageNetwork defines and starts the libvirt network named BridgeName when NetworkMode is "nat".
		ManageNetwork bool `json:"manageNetwork"`
		// NetworkAddress and NetworkNetmask configure the managed network.
		NetworkAddress string `json:"networkAddress"`
		NetworkNetmask string `json:"networkNetmask"`
		// VNCListen is the address VNC servers bind to (libvirt driver).
		VNCListen string `json:"vncListen"`
	} `json:"hypervisor"`

	// Readiness configures the VNC readiness poll run after a hypervisor starts.
	Readiness struct {
		Host     string          `json:"host"`
		Interval metav1.Duration `json:"interval"`
		Timeout  metav1.Duration `json:"timeout"`
	} `json:"readiness"`

	// Gateway configures the Guacamole gateway. An empty URL disables consoles.
	Gateway struct {
		URL              string          `json:"url"`
		Username         string          `json:"username"`
		Password         string          `json:"password"`
		DataSource       string          `json:"dataSource"`
		ParentIdentifier string          `json:"parentIdentifier"`
		VNCHostname      string          `json:"vncHostname"`
		RequestTimeout   metav1.Duration `json:"requestTimeout"`
		// EmbedCredentialsInConsoleURL exposes the gateway credentials in every console URL.
		EmbedCredentialsInConsoleURL bool `json:"embedCredentialsInConsoleURL"`
	} `json:"gateway"`

	// Events configures lifecycle event publication. An empty NATSURL disables it.
	Events struct {
		NATSURL       string `json:"natsURL"`
		SubjectPrefix string `json:"subjectPrefix"`
	} `json:"events"`

	// Lifecycle configures the node controller.
	Lifecycle struct {
		// StopNodesOnShutdown stops every running node when the application exits.
		StopNodesOnShutdown bool `json:"stopNodesOnShutdown"`
		// WatchInterval is the period between two checks of the hypervisor processes.
		WatchInterval metav1.Duration `json:"watchInterval"`
	} `json:"lifecycle"`

	// APIServer is the configuration for the API server.
	APIServer struct {
		// Port is the port for the API server.
		Port int `json:"port"`
		// Username enables basic authentication when set.
		Username string `json:"username,omitempty"`
		Password string `json:"password,omitempty"`
		// PasswordHash is a bcrypt hash of the password. It takes precedence over Password.
		PasswordHash string `json:"passwordHash,omitempty"`
		// AllowedOrigin is the CORS allowed origin.
		AllowedOrigin string `json:"allowedOrigin"`
		// TLS serves the API over HTTPS, optionally verifying client certificates.
		TLS tlsutil.Config `json:"tls"`
	} `json:"apiServer"`

	// MetricsServer is the configuration for the metrics server.
	MetricsServer struct {
		// Path is the path for the metrics server.
		Path string `json:"path"`
		// Port is the port for the metrics server.
		Port int `json:"port"`
	} `json:"metricsServer"`

	// HealthServer is the configuration for the health server.
	HealthServer struct {
		// LivenessPath is the path for the liveness check.
		LivenessPath string `json:"livenessPath"`
		// ReadinessPath is the path for the readiness check.
		ReadinessPath string `json:"readinessPath"`
		// Port is the port for the health server.
		Port int `json:"port"`
	} `json:"healthServer"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	c := &Config{}

	c.LogLevel = "info"

	c.Storage.BaseImagePath = "images/base.qcow2"
	c.Storage.OverlaysDir = "overlays"
	c.Storage.DiskImageTool = adapter.DefaultDiskImageTool

	c.Hypervisor.Driver = QEMUDriver
	c.Hypervisor.FirstVNCPort = adapter.VNCBasePort
	c.Hypervisor.MemoryMB = adapter.DefaultMemoryMB
	c.Hypervisor.Binary = adapter.DefaultHypervisorBinary
	c.Hypervisor.VCPUs = 1
	c.Hypervisor.DomainType = "kvm"
	c.Hypervisor.NetworkMode = "user"

	c.Readiness.Host = adapter.DefaultReadinessHost
	c.Readiness.Interval = metav1.Duration{Duration: adapter.DefaultReadinessInterval}
	c.Readiness.Timeout = metav1.Duration{Duration: adapter.DefaultReadinessTimeout}

	c.Gateway.URL = "http://localhost:8080/guacamole"
	c.Gateway.Username = "guacadmin"
	c.Gateway.Password = "guacadmin"
	c.Gateway.DataSource = adapter.DefaultGatewayDataSource
	c.Gateway.ParentIdentifier = adapter.DefaultGatewayParentIdentifier
	c.Gateway.VNCHostname = adapter.DefaultGatewayVNCHostname
	c.Gateway.RequestTimeout = metav1.Duration{Duration: adapter.DefaultGatewayRequestTimeout}
	c.Gateway.EmbedCredentialsInConsoleURL = true

	c.Events.SubjectPrefix = adapter.DefaultEventSubjectPrefix

	c.Lifecycle.StopNodesOnShutdown = true
	c.Lifecycle.WatchInterval = metav1.Duration{Duration: 10 * time.Second}

	c.APIServer.Port = 3000
	c.APIServer.AllowedOrigin = "*"

	c.MetricsServer.Path = "/metrics"
	c.MetricsServer.Port = 9090

	c.HealthServer.LivenessPath = "/healthz"
	c.HealthServer.ReadinessPath = "/readyz"
	c.HealthServer.Port = 8081

	return c
}

// LoadConfig loads the configuration from the YAML or JSON file at configPath, then applies environment overrides.
// If configPath is empty, the defaults and environment variables are used.
func LoadConfig(configPath string) (*Config, error) {
	config := NewDefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, errors.Join(err, fmt.Errorf("path=%s", configPath), ErrReadConfig)
		}

		if err := yaml.UnmarshalStrict(data, config); err != nil {
			return nil, errors.Join(err, fmt.Errorf("path=%s", configPath), ErrParseConfig)
		}
	}

	if err := config.applyEnvironmentOverrides(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Join(err, ErrInvalidConfig)
	}

	return config, nil
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() error {
	var errs []error

	setString := func(key string, dst *string) {
		if val := os.Getenv(key); val != "" {
			*dst = val
		}
	}

	setBool := func(key string, dst *bool) {
		if val := os.Getenv(key); val != "" {
			*dst = val == "true" || val == "1" || val == "yes"
		}
	}

	setInt := func(key string, dst *int) {
		if val := os.Getenv(key); val != "" {
			n, err := strconv.Atoi(val)
			if err != nil {
				errs = append(errs, errors.Join(err, fmt.Errorf("key=%s", key), ErrInvalidEnv))
				return
			}
			*dst = n
		}
	}

	setString("VNCFLEET_LOG_LEVEL", &c.LogLevel)
	setBool("VNCFLEET_DEV_MODE", &c.DevelopmentMode)

	setString("VNCFLEET_BASE_IMAGE", &c.Storage.BaseImagePath)
	setString("VNCFLEET_OVERLAYS_DIR", &c.Storage.OverlaysDir)

	if val := os.Getenv("VNCFLEET_PREPEND_CMD"); val != "" {
		c.Exec.PrependCmd = strings.Fields(val)
	}

	setString("VNCFLEET_HYPERVISOR_DRIVER", &c.Hypervisor.Driver)
	setInt("VNCFLEET_FIRST_VNC_PORT", &c.Hypervisor.FirstVNCPort)
	setString("VNCFLEET_LIBVIRT_URI", &c.Hypervisor.LibvirtURI)

	setString("VNCFLEET_GATEWAY_URL", &c.Gateway.URL)
	setString("VNCFLEET_GATEWAY_USERNAME", &c.Gateway.Username)
	setString("VNCFLEET_GATEWAY_PASSWORD", &c.Gateway.Password)
	setBool("VNCFLEET_GATEWAY_EMBED_CREDENTIALS", &c.Gateway.EmbedCredentialsInConsoleURL)

	setString("VNCFLEET_NATS_URL", &c.Events.NATSURL)

	setInt("VNCFLEET_API_PORT", &c.APIServer.Port)
	setString("VNCFLEET_API_USERNAME", &c.APIServer.Username)
	setString("VNCFLEET_API_PASSWORD", &c.APIServer.Password)
	setString("VNCFLEET_API_PASSWORD_HASH", &c.APIServer.PasswordHash)

	return errors.Join(errs...)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if c.Storage.BaseImagePath == "" {
		errs = append(errs, errors.New("storage.baseImagePath cannot be empty"))
	}

	if c.Storage.OverlaysDir == "" {
		errs = append(errs, errors.New("storage.overlaysDir cannot be empty"))
	}

	switch c.Hypervisor.Driver {
	case QEMUDriver, LibvirtDriver:
	default:
		errs = append(errs, fmt.Errorf("hypervisor.driver must be %q or %q, got %q",
			QEMUDriver, LibvirtDriver, c.Hypervisor.Driver))
	}

	if c.Hypervisor.FirstVNCPort < adapter.VNCBasePort || c.Hypervisor.FirstVNCPort > 65535 {
		errs = append(errs, fmt.Errorf("hypervisor.firstVNCPort must be within [%d, 65535], got %d",
			adapter.VNCBasePort, c.Hypervisor.FirstVNCPort))
	}

	if c.Hypervisor.ManageNetwork && (c.Hypervisor.NetworkMode != "nat" || c.Hypervisor.BridgeName == "") {
		errs = append(errs, errors.New("hypervisor.manageNetwork requires networkMode \"nat\" and a bridgeName"))
	}

	if c.Readiness.Interval.Duration <= 0 || c.Readiness.Timeout.Duration <= 0 {
		errs = append(errs, errors.New("readiness.interval and readiness.timeout must be positive"))
	}

	if c.Gateway.URL != "" && c.Gateway.Username == "" {
		errs = append(errs, errors.New("gateway.username cannot be empty when gateway.url is set"))
	}

	if c.Gateway.RequestTimeout.Duration <= 0 {
		errs = append(errs, errors.New("gateway.requestTimeout must be positive"))
	}

	if c.APIServer.Username == "" && (c.APIServer.Password != "" || c.APIServer.PasswordHash != "") {
		errs = append(errs, errors.New("apiServer.username cannot be empty when a password is set"))
	}

	if _, err := tlsutil.ParseClientAuth(c.APIServer.TLS.ClientAuth); err != nil {
		errs = append(errs, errors.Join(err, errors.New("apiServer.tls.clientAuth is invalid")))
	}

	if c.APIServer.TLS.Enabled && (c.APIServer.TLS.CertPath == "" || c.APIServer.TLS.KeyPath == "") {
		errs = append(errs, errors.New("apiServer.tls.certPath and apiServer.tls.keyPath are required when TLS is enabled"))
	}

	if c.APIServer.PasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(c.APIServer.PasswordHash)); err != nil {
			errs = append(errs, errors.Join(err, errors.New("apiServer.passwordHash must be a bcrypt hash")))
		}
	}

	for name, port := range map[string]int{
		"apiServer.port":     c.APIServer.Port,
		"metricsServer.port": c.MetricsServer.Port,
		"healthServer.port":  c.HealthServer.Port,
	} {
		if port <= 0 || port > 65535 {
			errs = append(errs, fmt.Errorf("%s must be within [1, 65535], got %d", name, port))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
