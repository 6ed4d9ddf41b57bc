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

package httputil

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/alexandremahdhaoui/vncfleet/internal/util/gracefulshutdown"
)

type contextKey string

// ServerNameContextKey holds the name of the server handling the request.
const ServerNameContextKey contextKey = "server_name"

// ServerName returns the name of the server handling the request, if any.
func ServerName(ctx context.Context) string {
	name, _ := ctx.Value(ServerNameContextKey).(string)
	return name
}

// Serve serves the given servers and handles graceful shutdown.
//
// Serve returns once the servers are shut down and the GracefulShutdown has run its hooks and exit function.
func Serve(servers map[string]*http.Server, gs *gracefulshutdown.GracefulShutdown) {
	// 1. Run the servers.
	for name, server := range servers {
		ctx := context.WithValue(gs.Context(), ServerNameContextKey, name)

		// sets the base context to be the GracefulShutdown's context.
		server.BaseContext = func(_ net.Listener) context.Context {
			return ctx
		}

		gs.WaitGroup().Add(1)

		go func() {
			if err := listenAndServe(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.ErrorContext(ctx, "❌ received error", "server", name, "error", err)

				// we need to call Done() before requesting the shutdown. Otherwise, the WaitGroup will never decrement.
				gs.WaitGroup().Done()
				gs.Shutdown(1) // Initiate a graceful shutdown. This call is blocking and awaits for wg.

				return
			}

			gs.WaitGroup().Done()

			// The server stopped running without errors, thus we initiate a graceful shutdown if none was previously
			// initiated.
			gs.Shutdown(0)
		}()
	}

	// 2. Signal that all Add() calls have been made.
	// This allows the auto-shutdown goroutine to proceed when context is cancelled.
	gs.Ready()

	// 3. Await context is done.
	<-gs.Context().Done()

	// 4. Gracefully shutdown each server.
	var wg sync.WaitGroup

	for name, server := range servers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			ctx := context.WithValue(context.Background(), ServerNameContextKey, name)

			ctx, cancel := context.WithDeadline(ctx, time.Now().Add(1*time.Minute)) // 1 min deadline.
			defer cancel()

			if err := server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.ErrorContext(ctx, "❌ received error while shutting down server", "server", name, "error", err)

				return
			}

			slog.Info("✅ gracefully shut down server", "server", name)
		}()
	}

	wg.Wait()

	// 5. Block until the shutdown hooks and the exit function ran. If another goroutine already initiated the
	// shutdown, sync.Once makes this call wait for it to complete.
	gs.Shutdown(0)
}

// listenAndServe serves TLS when the server carries a TLS config holding its certificates.
func listenAndServe(server *http.Server) error {
	if server.TLSConfig != nil {
		return server.ListenAndServeTLS("", "")
	}

	return server.ListenAndServe()
}
