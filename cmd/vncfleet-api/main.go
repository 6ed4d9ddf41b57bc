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
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexandremahdhaoui/vncfleet/internal/adapter"
	"github.com/alexandremahdhaoui/vncfleet/internal/controller"
	"github.com/alexandremahdhaoui/vncfleet/internal/driver/server"
	"github.com/alexandremahdhaoui/vncfleet/internal/util/gracefulshutdown"
	"github.com/alexandremahdhaoui/vncfleet/internal/util/httputil"
	"github.com/alexandremahdhaoui/vncfleet/internal/util/logging"
	"github.com/alexandremahdhaoui/vncfleet/internal/util/tlsutil"
	"github.com/alexandremahdhaoui/vncfleet/pkg/execcontext"
	"github.com/alexandremahdhaoui/vncfleet/pkg/vmm"
)

const Name = "vncfleet-api"

var (
	Version        = "dev" //nolint:gochecknoglobals // set by ldflags
	CommitSHA      = "n/a" //nolint:gochecknoglobals // set by ldflags
	BuildTimestamp = "n/a" //nolint:gochecknoglobals // set by ldflags
)

// ------------------------------------------------- Main ----------------------------------------------------------- //

func main() {
	_, _ = fmt.Fprintf(
		os.Stdout,
		"Starting %s version %s (%s) %s\n",
		Name,
		Version,
		CommitSHA,
		BuildTimestamp,
	)

	gs := gracefulshutdown.New(Name)
	ctx := gs.Context()

	// hooks run in reverse registration order: this one runs last.
	gs.OnShutdown(func(ctx context.Context) {
		slog.InfoContext(ctx, "✅ gracefully stopped", "binary", Name)
	})

	// --------------------------------------------- Config --------------------------------------------------------- //

	config, err := LoadConfig(os.Getenv(ConfigPathEnvKey))
	if err != nil {
		slog.ErrorContext(ctx, "loading vncfleet-api configuration", "error", err.Error())
		gs.Shutdown(1)
	}

	level, _ := logging.ParseLevel(config.LogLevel) // validated by LoadConfig
	logger := logging.Setup(logging.Options{
		Development: config.DevelopmentMode,
		Level:       level,
	})

	// --------------------------------------------- Adapter -------------------------------------------------------- //

	execCtx := execcontext.New(config.Exec.Envs, config.Exec.PrependCmd)

	overlay, err := adapter.NewOverlay(execCtx, adapter.OverlayConfig{
		BaseImagePath: config.Storage.BaseImagePath,
		OverlaysDir:   config.Storage.OverlaysDir,
		DiskImageTool: config.Storage.DiskImageTool,
	})
	if err != nil {
		slog.ErrorContext(ctx, "creating overlay store", "error", err.Error())
		gs.Shutdown(1)
	}

	supervisor, err := newSupervisor(config, execCtx, gs)
	if err != nil {
		slog.ErrorContext(ctx, "creating process supervisor", "driver", config.Hypervisor.Driver, "error", err.Error())
		gs.Shutdown(1)
	}

	readiness := adapter.NewTCPReadinessChecker(adapter.ReadinessConfig{
		Host:     config.Readiness.Host,
		Interval: config.Readiness.Interval.Duration,
		Timeout:  config.Readiness.Timeout.Duration,
	})

	gateway := adapter.NewNoopGateway()
	if config.Gateway.URL != "" {
		gateway = adapter.NewGateway(adapter.GatewayConfig{
			URL:                          config.Gateway.URL,
			Username:                     config.Gateway.Username,
			Password:                     config.Gateway.Password,
			DataSource:                   config.Gateway.DataSource,
			ParentIdentifier:             config.Gateway.ParentIdentifier,
			VNCHostname:                  config.Gateway.VNCHostname,
			RequestTimeout:               config.Gateway.RequestTimeout.Duration,
			EmbedCredentialsInConsoleURL: config.Gateway.EmbedCredentialsInConsoleURL,
		}, nil)
	} else {
		slog.WarnContext(ctx, "gateway disabled: nodes will run without console")
	}

	events := adapter.NewNoopEventPublisher()
	if config.Events.NATSURL != "" {
		events, err = adapter.NewNATSEventPublisher(config.Events.NATSURL, config.Events.SubjectPrefix)
		if err != nil {
			slog.ErrorContext(ctx, "creating event publisher", "error", err.Error())
			gs.Shutdown(1)
		}
	}

	gs.OnShutdown(func(context.Context) { events.Close() })

	// --------------------------------------------- Controller ----------------------------------------------------- //

	registry := controller.NewRegistry()
	metrics := controller.NewMetrics(prometheus.DefaultRegisterer)

	node := controller.NewNode(
		registry,
		controller.NewAllocator(config.Hypervisor.FirstVNCPort),
		overlay,
		supervisor,
		readiness,
		gateway,
		events,
		metrics,
		controller.Options{StopNodesOnShutdown: config.Lifecycle.StopNodesOnShutdown},
	)

	gs.OnShutdown(func(ctx context.Context) {
		if err := node.Shutdown(ctx); err != nil {
			slog.ErrorContext(ctx, "stopping nodes", "error", err.Error())
		}
	})

	watcher := controller.NewWatcher(registry, metrics, config.Lifecycle.WatchInterval.Duration, logger)

	gs.WaitGroup().Add(1)

	go func() {
		defer gs.WaitGroup().Done()
		watcher.Start(ctx)
	}()

	// --------------------------------------------- App ------------------------------------------------------------ //

	apiHandler, err := server.NewHandler(node, server.Options{
		Username:      config.APIServer.Username,
		Password:      config.APIServer.Password,
		PasswordHash:  config.APIServer.PasswordHash,
		AllowedOrigin: config.APIServer.AllowedOrigin,
	})
	if err != nil {
		slog.ErrorContext(ctx, "creating api handler", "error", err.Error())
		gs.Shutdown(1)
	}

	apiTLS, err := tlsutil.BuildTLSConfig(&config.APIServer.TLS)
	if err != nil {
		slog.ErrorContext(ctx, "building api server tls config", "error", err.Error())
		gs.Shutdown(1)
	}

	apiServer := &http.Server{ //nolint:exhaustruct
		Addr:              fmt.Sprintf(":%d", config.APIServer.Port),
		Handler:           apiHandler,
		TLSConfig:         apiTLS,
		ReadHeaderTimeout: time.Second,
	}

	// --------------------------------------------- Run Server ----------------------------------------------------- //

	slog.InfoContext(ctx, "starting servers",
		"api_port", config.APIServer.Port,
		"api_tls", config.APIServer.TLS.Enabled,
		"metrics_port", config.MetricsServer.Port,
		"health_port", config.HealthServer.Port,
		"hypervisor_driver", config.Hypervisor.Driver,
		"gateway_url", config.Gateway.URL,
	)

	httputil.Serve(map[string]*http.Server{
		"api":     apiServer,
		"metrics": setupMetricsServer(config, prometheus.DefaultGatherer),
		"health":  setupHealthServer(ctx, config),
	}, gs)
}

// newSupervisor returns the process supervisor selected by the configuration. The libvirt connection is closed on
// shutdown.
func newSupervisor(
	config *Config,
	execCtx execcontext.Context,
	gs *gracefulshutdown.GracefulShutdown,
) (adapter.Supervisor, error) {
	if config.Hypervisor.Driver != LibvirtDriver {
		return adapter.NewQEMUSupervisor(execCtx, adapter.QEMUConfig{
			Binary:    config.Hypervisor.Binary,
			MemoryMB:  config.Hypervisor.MemoryMB,
			EnableKVM: config.Hypervisor.EnableKVM,
			Headless:  config.Hypervisor.Headless,
		}), nil
	}

	v, err := vmm.NewVMM(vmm.WithConnection(config.Hypervisor.LibvirtURI))
	if err != nil {
		return nil, err
	}

	gs.OnShutdown(func(ctx context.Context) {
		if err := v.Close(); err != nil {
			slog.ErrorContext(ctx, "closing libvirt connection", "error", err.Error())
		}
	})

	if config.Hypervisor.ManageNetwork {
		if err := v.EnsureNetwork(gs.Context(), vmm.NetworkConfig{
			Name:    config.Hypervisor.BridgeName,
			Address: config.Hypervisor.NetworkAddress,
			Netmask: config.Hypervisor.NetworkNetmask,
		}); err != nil {
			return nil, err
		}
	}

	return adapter.NewLibvirtSupervisor(v, adapter.LibvirtConfig{
		MemoryMB:    config.Hypervisor.MemoryMB,
		VCPUs:       config.Hypervisor.VCPUs,
		DomainType:  config.Hypervisor.DomainType,
		NetworkMode: config.Hypervisor.NetworkMode,
		BridgeName:  config.Hypervisor.BridgeName,
		VNCListen:   config.Hypervisor.VNCListen,
	}), nil
}
