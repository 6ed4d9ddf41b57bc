//go:build unit

// Copyright 2024 Alexandre Mahdhaoui
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httputil_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alexandremahdhaoui/vncfleet/internal/util/gracefulshutdown"
	"github.com/alexandremahdhaoui/vncfleet/internal/util/httputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// TestBasicAuth_ValidCredentials verifies BasicAuth middleware allows requests with valid credentials.
func TestBasicAuth_ValidCredentials(t *testing.T) {
	// Track if next handler was called
	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	// Create validator that accepts specific credentials
	validator := func(username, password string, r *http.Request) (bool, error) {
		if username == "testuser" && password == "testpass" {
			return true, nil
		}
		return false, nil
	}

	// Wrap handler with BasicAuth middleware
	handler := httputil.BasicAuth(next, validator)

	// Create request with valid Basic Auth
	req := httptest.NewRequest("GET", "/test", nil)
	req.SetBasicAuth("testuser", "testpass")
	rr := httptest.NewRecorder()

	// Execute request
	handler.ServeHTTP(rr, req)

	// Verify response
	assert.Equal(t, http.StatusOK, rr.Code, "should return 200 OK")
	assert.Equal(t, "success", rr.Body.String(), "should return success message")
	assert.True(t, nextCalled, "next handler should have been called")
}

// TestBasicAuth_InvalidCredentials verifies BasicAuth middleware rejects requests with invalid credentials.
func TestBasicAuth_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name           string
		setupAuth      func(*http.Request)
		expectedStatus int
		expectWWWAuth  bool
	}{
		{
			name: "wrong password",
			setupAuth: func(req *http.Request) {
				req.SetBasicAuth("testuser", "wrongpass")
			},
			expectedStatus: http.StatusUnauthorized,
			expectWWWAuth:  true,
		},
		{
			name: "no auth header",
			setupAuth: func(req *http.Request) {
				// Don't set any auth
			},
			expectedStatus: http.StatusUnauthorized,
			expectWWWAuth:  true,
		},
		{
			name: "wrong username",
			setupAuth: func(req *http.Request) {
				req.SetBasicAuth("wronguser", "testpass")
			},
			expectedStatus: http.StatusUnauthorized,
			expectWWWAuth:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Track if next handler was called
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			// Create validator that only accepts specific credentials
			validator := func(username, password string, r *http.Request) (bool, error) {
				if username == "testuser" && password == "testpass" {
					return true, nil
				}
				return false, nil
			}

			// Wrap handler with BasicAuth middleware
			handler := httputil.BasicAuth(next, validator)

			// Create request
			req := httptest.NewRequest("GET", "/test", nil)
			tt.setupAuth(req)
			rr := httptest.NewRecorder()

			// Execute request
			handler.ServeHTTP(rr, req)

			// Verify response
			assert.Equal(t, tt.expectedStatus, rr.Code, "should return correct status code")
			assert.False(t, nextCalled, "next handler should NOT have been called")

			if tt.expectWWWAuth {
				wwwAuth := rr.Header().Get("WWW-Authenticate")
				assert.NotEmpty(t, wwwAuth, "should have WWW-Authenticate header")
				assert.Contains(t, wwwAuth, "Basic realm", "should contain Basic realm")
			}

			assert.Contains(t, rr.Body.String(), "Unauthorized", "response should indicate unauthorized")
		})
	}
}

// TestBasicAuth_ValidatorError verifies BasicAuth middleware handles validator errors correctly.
func TestBasicAuth_ValidatorError(t *testing.T) {
	// Track if next handler was called
	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	})

	// Create validator that returns an error
	validator := func(username, password string, r *http.Request) (bool, error) {
		return false, assert.AnError // Use a test error
	}

	// Wrap handler with BasicAuth middleware
	handler := httputil.BasicAuth(next, validator)

	// Create request with valid Basic Auth format
	req := httptest.NewRequest("GET", "/test", nil)
	req.SetBasicAuth("testuser", "testpass")
	rr := httptest.NewRecorder()

	// Execute request
	handler.ServeHTTP(rr, req)

	// Verify response
	assert.Equal(t, http.StatusInternalServerError, rr.Code, "should return 500 on validator error")
	assert.False(t, nextCalled, "next handler should NOT have been called")
	assert.NotEmpty(t, rr.Body.String(), "should have error message in response")
}

func TestStaticCredentials(t *testing.T) {
	validator := httputil.StaticCredentials("admin", "s3cret")

	for _, tc := range []struct {
		username, password string
		expected           bool
	}{
		{"admin", "s3cret", true},
		{"admin", "wrong", false},
		{"other", "s3cret", false},
		{"", "", false},
	} {
		ok, err := validator(tc.username, tc.password, nil)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, ok, "username=%q password=%q", tc.username, tc.password)
	}
}

func TestBcryptCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	validator := httputil.BcryptCredentials("admin", hash)

	ok, err := validator("admin", "s3cret", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = validator("admin", "wrong", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = validator("other", "s3cret", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = httputil.BcryptCredentials("admin", []byte("not-a-hash"))("admin", "s3cret", nil)
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	httputil.WriteJSON(rr, http.StatusCreated, map[string]int{"nodes": 2})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"nodes":2}`, rr.Body.String())
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	httputil.WriteError(rr, http.StatusNotFound, errors.Join(errors.New("node not found"), errors.New("id=node_9")))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"node not found: id=node_9"}`, rr.Body.String())
}

func TestServerName(t *testing.T) {
	assert.Empty(t, httputil.ServerName(context.Background()))

	ctx := context.WithValue(context.Background(), httputil.ServerNameContextKey, "api")
	assert.Equal(t, "api", httputil.ServerName(ctx))
}

// TestServe verifies the Serve() function with mocked graceful shutdown.
func TestServe(t *testing.T) {
	t.Run("serve handles graceful shutdown", func(t *testing.T) {
		// Mock exit function with mutex protection
		var mu sync.Mutex
		exitCalled := false
		var exitCode int
		mockExit := func(code int) {
			mu.Lock()
			defer mu.Unlock()
			exitCode = code
			exitCalled = true
		}

		gs := gracefulshutdown.NewWithExit("test", mockExit)

		// Create test server with simple handler on dynamic port
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		server := &http.Server{
			Addr:    "127.0.0.1:0", // Use port 0 for dynamic port allocation
			Handler: handler,
		}

		servers := map[string]*http.Server{
			"test-server": server,
		}

		// Start Serve in goroutine (it blocks)
		go httputil.Serve(servers, gs)

		// Give servers time to start
		time.Sleep(100 * time.Millisecond)

		// Cancel context to trigger shutdown
		gs.CancelFunc()()

		// Give shutdown time to complete
		time.Sleep(200 * time.Millisecond)

		// Verify exit was called with code 0 (graceful shutdown)
		mu.Lock()
		defer mu.Unlock()
		assert.True(t, exitCalled, "exit should be called after shutdown")
		assert.Equal(t, 0, exitCode, "should exit with code 0 on graceful shutdown")
	})

	t.Run("serve returns after shutdown hooks and exit", func(t *testing.T) {
		var mu sync.Mutex
		var events []string
		record := func(event string) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, event)
		}

		gs := gracefulshutdown.NewWithExit("test", func(code int) { record("exit") })
		gs.OnShutdown(func(context.Context) {
			time.Sleep(100 * time.Millisecond)
			record("hook")
		})

		servers := map[string]*http.Server{
			"test-server": {
				Addr:    "127.0.0.1:0",
				Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
			},
		}

		done := make(chan struct{})
		go func() {
			httputil.Serve(servers, gs)
			record("serve returned")
			close(done)
		}()

		time.Sleep(100 * time.Millisecond)
		gs.CancelFunc()()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("Serve did not return")
		}

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"hook", "exit", "serve returned"}, events)
	})

	t.Run("serve handles server startup error", func(t *testing.T) {
		// Test that server errors trigger shutdown with exit code 1
		var mu sync.Mutex
		exitCalled := false
		var exitCode int
		mockExit := func(code int) {
			mu.Lock()
			defer mu.Unlock()
			if !exitCalled { // Only capture first exit call
				exitCode = code
				exitCalled = true
			}
		}

		gs := gracefulshutdown.NewWithExit("test", mockExit)

		// Create server that will fail to start (port already in use)
		// First bind a test server to a port
		blocker := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer blocker.Close()

		// Try to create another server on the same address
		server := &http.Server{
			Addr:    blocker.Listener.Addr().String(),
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		}

		servers := map[string]*http.Server{
			"test-server": server,
		}

		// Start Serve (will fail immediately due to port conflict)
		go httputil.Serve(servers, gs)

		// Give time for error to occur and shutdown to be called
		time.Sleep(200 * time.Millisecond)

		// Should exit with code 1 on error
		mu.Lock()
		defer mu.Unlock()
		require.True(t, exitCalled, "exit should be called after error")
		assert.Equal(t, 1, exitCode, "should exit with code 1 on error")
	})
}
