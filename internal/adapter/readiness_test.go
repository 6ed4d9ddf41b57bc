//go:build unit

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

package adapter_test

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/vncfleet/internal/adapter"
	"github.com/alexandremahdhaoui/vncfleet/internal/util/testutil"
)

func TestTCPReadinessChecker(t *testing.T) {
	readiness := adapter.NewTCPReadinessChecker(adapter.ReadinessConfig{
		Interval: 10 * time.Millisecond,
		Timeout:  300 * time.Millisecond,
	})

	t.Run("Ready", func(t *testing.T) {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer func() { _ = l.Close() }()

		port := l.Addr().(*net.TCPAddr).Port
		assert.NoError(t, readiness.WaitReady(context.Background(), port))
	})

	t.Run("BecomesReady", func(t *testing.T) {
		port := testutil.FreePort(t)

		go func() {
			time.Sleep(50 * time.Millisecond)

			l, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
			if err != nil {
				return
			}

			t.Cleanup(func() { _ = l.Close() })
		}()

		assert.NoError(t, readiness.WaitReady(context.Background(), port))
	})

	t.Run("Timeout", func(t *testing.T) {
		port := testutil.FreePort(t)

		err := readiness.WaitReady(context.Background(), port)
		assert.ErrorIs(t, err, adapter.ErrVNCNotReady)
	})

	t.Run("ContextCanceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := readiness.WaitReady(ctx, testutil.FreePort(t))
		assert.ErrorIs(t, err, adapter.ErrVNCNotReady)
	})
}
