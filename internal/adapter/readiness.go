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

package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

var ErrVNCNotReady = errors.New("vnc listener not ready")

const (
	DefaultReadinessHost     = "127.0.0.1"
	DefaultReadinessInterval = 250 * time.Millisecond
	DefaultReadinessTimeout  = 10 * time.Second
)

// ReadinessChecker waits until the VNC listener of a freshly started hypervisor accepts connections.
type ReadinessChecker interface {
	WaitReady(ctx context.Context, vncPort int) error
}

// ReadinessConfig configures the TCP readiness checker.
type ReadinessConfig struct {
	Host     string
	Interval time.Duration
	Timeout  time.Duration
}

// NewTCPReadinessChecker returns a ReadinessChecker dialing host:port until it succeeds or the timeout expires.
func NewTCPReadinessChecker(cfg ReadinessConfig) ReadinessChecker {
	if cfg.Host == "" {
		cfg.Host = DefaultReadinessHost
	}

	if cfg.Interval <= 0 {
		cfg.Interval = DefaultReadinessInterval
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultReadinessTimeout
	}

	return &tcpReadinessChecker{cfg: cfg}
}

type tcpReadinessChecker struct {
	cfg ReadinessConfig
}

func (p *tcpReadinessChecker) WaitReady(ctx context.Context, vncPort int) error {
	addr := net.JoinHostPort(p.cfg.Host, strconv.Itoa(vncPort))
	attempts := 0

	err := wait.PollUntilContextTimeout(ctx, p.cfg.Interval, p.cfg.Timeout, true,
		func(ctx context.Context) (bool, error) {
			attempts++

			dialer := net.Dialer{Timeout: p.cfg.Interval}
			conn, err := dialer.DialContext(ctx, "tcp", addr)
			if err != nil {
				return false, nil
			}

			_ = conn.Close()

			return true, nil
		})
	if err != nil {
		return errors.Join(err, fmt.Errorf("addr=%s attempts=%d", addr, attempts), ErrVNCNotReady)
	}

	slog.DebugContext(ctx, "vnc_ready", "addr", addr, "attempts", attempts)

	return nil
}
