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

package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alexandremahdhaoui/vncfleet/internal/controller"
	"github.com/alexandremahdhaoui/vncfleet/internal/driver/server"
	"github.com/alexandremahdhaoui/vncfleet/internal/types"
	"github.com/alexandremahdhaoui/vncfleet/internal/util/mocks/mockcontroller"
	"github.com/alexandremahdhaoui/vncfleet/internal/util/mocks/mocktypes"
)

var createdAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func stoppedNode() types.Node {
	return types.Node{
		ID:          "node_1",
		Name:        "alpha",
		Status:      types.NodeStopped,
		OverlayPath: "/var/lib/vncfleet/overlays/node_1.qcow2",
		VNCPort:     5901,
		CreatedAt:   createdAt,
	}
}

func setup(t *testing.T, opts server.Options) (*mockcontroller.MockNode, func(req *http.Request) *httptest.ResponseRecorder) {
	t.Helper()

	node := mockcontroller.NewMockNode(t)

	handler, err := server.NewHandler(node, opts)
	require.NoError(t, err)

	return node, func(req *http.Request) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}
}

func newJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestNewNodeView(t *testing.T) {
	t.Run("Stopped", func(t *testing.T) {
		view := server.NewNodeView(context.Background(), stoppedNode())

		assert.Nil(t, view.ConsoleURL)
		assert.Empty(t, view.ProcessID)
		assert.False(t, view.ProcessAlive)

		b, err := json.Marshal(view)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"id": "node_1",
			"name": "alpha",
			"status": "stopped",
			"vncPort": 5901,
			"overlayPath": "/var/lib/vncfleet/overlays/node_1.qcow2",
			"createdAt": "2024-05-01T12:00:00Z",
			"consoleUrl": null,
			"processAlive": false,
			"overlayMissing": false
		}`, string(b))
	})

	t.Run("Running", func(t *testing.T) {
		handle := mocktypes.NewMockProcessHandle(t)
		handle.EXPECT().ID().Return("4242")
		handle.EXPECT().IsAlive(mock.Anything).Return(true)

		node := stoppedNode()
		node.Status = types.NodeRunning
		node.Process = handle
		node.ConnectionID = "7"
		node.ConsoleURL = "http://localhost:8080/guacamole/#/client/7"

		view := server.NewNodeView(context.Background(), node)
		require.NotNil(t, view.ConsoleURL)
		assert.Equal(t, node.ConsoleURL, *view.ConsoleURL)
		assert.Equal(t, "4242", view.ProcessID)
		assert.True(t, view.ProcessAlive)
	})
}

func TestStatusCode(t *testing.T) {
	for _, tc := range []struct {
		err      error
		expected int
	}{
		{errors.Join(assert.AnError, controller.ErrValidation), http.StatusBadRequest},
		{errors.Join(assert.AnError, controller.ErrConflict), http.StatusBadRequest},
		{errors.Join(assert.AnError, controller.ErrNodeNotFound), http.StatusNotFound},
		{errors.Join(assert.AnError, controller.ErrResource), http.StatusInternalServerError},
		{assert.AnError, http.StatusInternalServerError},
	} {
		assert.Equal(t, tc.expected, server.StatusCode(tc.err), tc.err.Error())
	}
}

func TestCreateNode(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		node, do := setup(t, server.Options{})
		node.EXPECT().Create(mock.Anything, "alpha").Return(stoppedNode(), nil).Once()

		rr := do(newJSONRequest(http.MethodPost, "/nodes", `{"name":"alpha"}`))

		assert.Equal(t, http.StatusCreated, rr.Code)
		view := decode[server.NodeView](t, rr)
		assert.Equal(t, "node_1", view.ID)
		assert.Equal(t, types.NodeStopped, view.Status)
		assert.Nil(t, view.ConsoleURL)
	})

	t.Run("MissingName", func(t *testing.T) {
		_, do := setup(t, server.Options{})

		rr := do(newJSONRequest(http.MethodPost, "/nodes", `{}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decode[map[string]string](t, rr)["error"], "name")
	})

	t.Run("MalformedBody", func(t *testing.T) {
		_, do := setup(t, server.Options{})

		rr := do(newJSONRequest(http.MethodPost, "/nodes", `{"name":`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("BlankName", func(t *testing.T) {
		node, do := setup(t, server.Options{})
		node.EXPECT().Create(mock.Anything, "  ").
			Return(types.Node{}, errors.Join(errors.New("name is required"), controller.ErrValidation)).Once()

		rr := do(newJSONRequest(http.MethodPost, "/nodes", `{"name":"  "}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "name is required: validation error", decode[map[string]string](t, rr)["error"])
	})

	t.Run("OverlayFailure", func(t *testing.T) {
		node, do := setup(t, server.Options{})
		node.EXPECT().Create(mock.Anything, "alpha").
			Return(types.Node{}, errors.Join(assert.AnError, controller.ErrResource)).Once()

		rr := do(newJSONRequest(http.MethodPost, "/nodes", `{"name":"alpha"}`))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestListNodes(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		node, do := setup(t, server.Options{})
		node.EXPECT().List(mock.Anything).Return(nil).Once()

		rr := do(httptest.NewRequest(http.MethodGet, "/nodes", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("Ordered", func(t *testing.T) {
		second := stoppedNode()
		second.ID, second.Name, second.VNCPort = "node_2", "beta", 5902

		node, do := setup(t, server.Options{})
		node.EXPECT().List(mock.Anything).Return([]types.Node{stoppedNode(), second}).Once()

		rr := do(httptest.NewRequest(http.MethodGet, "/nodes", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		views := decode[[]server.NodeView](t, rr)
		require.Len(t, views, 2)
		assert.Equal(t, "node_1", views[0].ID)
		assert.Equal(t, "node_2", views[1].ID)
	})

	t.Run("LivenessUsesRequestContext", func(t *testing.T) {
		handle := mocktypes.NewMockProcessHandle(t)
		handle.EXPECT().ID().Return("4242")
		handle.EXPECT().IsAlive(mock.Anything).RunAndReturn(func(ctx context.Context) bool {
			return server.RequestID(ctx) == "req-42"
		}).Once()

		running := stoppedNode()
		running.Status = types.NodeRunning
		running.Process = handle

		node, do := setup(t, server.Options{})
		node.EXPECT().List(mock.Anything).Return([]types.Node{running}).Once()

		req := httptest.NewRequest(http.MethodGet, "/nodes", nil)
		req.Header.Set(server.RequestIDHeader, "req-42")
		rr := do(req)

		require.Equal(t, http.StatusOK, rr.Code)
		views := decode[[]server.NodeView](t, rr)
		require.Len(t, views, 1)
		assert.True(t, views[0].ProcessAlive)
	})
}

func TestGetNode(t *testing.T) {
	node, do := setup(t, server.Options{})
	node.EXPECT().Get(mock.Anything, "node_1").Return(stoppedNode(), nil).Once()
	node.EXPECT().Get(mock.Anything, "node_9").
		Return(types.Node{}, errors.Join(errors.New("id=node_9"), controller.ErrNodeNotFound)).Once()

	rr := do(httptest.NewRequest(http.MethodGet, "/nodes/node_1", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "alpha", decode[server.NodeView](t, rr).Name)

	rr = do(httptest.NewRequest(http.MethodGet, "/nodes/node_9", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, decode[map[string]string](t, rr)["error"], "node not found")
}

func TestTransitions(t *testing.T) {
	notFound := errors.Join(controller.ErrNodeNotFound)
	conflict := errors.Join(errors.New("node is already stopped"), controller.ErrConflict)
	resource := errors.Join(assert.AnError, controller.ErrResource)

	running := stoppedNode()
	running.Status = types.NodeRunning
	running.ConsoleURL = "http://localhost:8080/guacamole/#/client/1"

	for _, tc := range []struct {
		name     string
		path     string
		expect   func(node *mockcontroller.MockNode)
		expected int
	}{
		{
			name: "RunSuccess",
			path: "/nodes/node_1/run",
			expect: func(node *mockcontroller.MockNode) {
				node.EXPECT().Run(mock.Anything, "node_1").Return(running, nil).Once()
			},
			expected: http.StatusOK,
		},
		{
			name: "RunNotFound",
			path: "/nodes/node_1/run",
			expect: func(node *mockcontroller.MockNode) {
				node.EXPECT().Run(mock.Anything, "node_1").Return(types.Node{}, notFound).Once()
			},
			expected: http.StatusNotFound,
		},
		{
			name: "StopSuccess",
			path: "/nodes/node_1/stop",
			expect: func(node *mockcontroller.MockNode) {
				node.EXPECT().Stop(mock.Anything, "node_1").Return(stoppedNode(), nil).Once()
			},
			expected: http.StatusOK,
		},
		{
			name: "StopTwice",
			path: "/nodes/node_1/stop",
			expect: func(node *mockcontroller.MockNode) {
				node.EXPECT().Stop(mock.Anything, "node_1").Return(types.Node{}, conflict).Once()
			},
			expected: http.StatusBadRequest,
		},
		{
			name: "WipeSuccess",
			path: "/nodes/node_1/wipe",
			expect: func(node *mockcontroller.MockNode) {
				node.EXPECT().Wipe(mock.Anything, "node_1").Return(stoppedNode(), nil).Once()
			},
			expected: http.StatusOK,
		},
		{
			name: "WipeFailure",
			path: "/nodes/node_1/wipe",
			expect: func(node *mockcontroller.MockNode) {
				node.EXPECT().Wipe(mock.Anything, "node_1").Return(types.Node{}, resource).Once()
			},
			expected: http.StatusInternalServerError,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			node, do := setup(t, server.Options{})
			tc.expect(node)

			rr := do(httptest.NewRequest(http.MethodPost, tc.path, nil))

			assert.Equal(t, tc.expected, rr.Code, rr.Body.String())
		})
	}

	t.Run("RunReturnsConsoleURL", func(t *testing.T) {
		node, do := setup(t, server.Options{})
		node.EXPECT().Run(mock.Anything, "node_1").Return(running, nil).Once()

		rr := do(httptest.NewRequest(http.MethodPost, "/nodes/node_1/run", nil))

		view := decode[server.NodeView](t, rr)
		require.NotNil(t, view.ConsoleURL)
		assert.Equal(t, running.ConsoleURL, *view.ConsoleURL)
		assert.Equal(t, types.NodeRunning, view.Status)
	})
}

func TestDeleteNode(t *testing.T) {
	node, do := setup(t, server.Options{})
	node.EXPECT().Delete(mock.Anything, "node_1").Return(nil).Once()
	node.EXPECT().Delete(mock.Anything, "node_2").Return(errors.Join(controller.ErrNodeNotFound)).Once()

	rr := do(httptest.NewRequest(http.MethodDelete, "/nodes/node_1", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Node deleted successfully"}`, rr.Body.String())

	rr = do(httptest.NewRequest(http.MethodDelete, "/nodes/node_2", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetJournal(t *testing.T) {
	node, do := setup(t, server.Options{})
	node.EXPECT().Journal(mock.Anything, "node_1").Return([]types.Journal{{
		OperationID: uuid.New(),
		Operation:   types.RunOperation,
		NodeID:      "node_1",
		StartedAt:   createdAt,
		Entries: []types.JournalEntry{
			{Step: types.StartProcessStep, Outcome: types.StepOK, Time: createdAt},
			{Step: types.RegisterGatewayStep, Outcome: types.StepFailed, Error: "boom", Time: createdAt},
		},
	}}, nil).Once()
	node.EXPECT().Journal(mock.Anything, "node_2").Return(nil, nil).Once()

	rr := do(httptest.NewRequest(http.MethodGet, "/nodes/node_1/journal", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	journals := decode[[]types.Journal](t, rr)
	require.Len(t, journals, 1)
	assert.True(t, journals[0].Failed())

	rr = do(httptest.NewRequest(http.MethodGet, "/nodes/node_2/journal", nil))
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestHealth(t *testing.T) {
	node, do := setup(t, server.Options{})
	node.EXPECT().Count(mock.Anything).Return(3).Once()

	rr := do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","nodes":3}`, rr.Body.String())
}

func TestOpenAPIDocument(t *testing.T) {
	_, do := setup(t, server.Options{})

	rr := do(httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/yaml", rr.Header().Get("Content-Type"))
	assert.Equal(t, server.OpenAPIDocument(), rr.Body.Bytes())
}

func TestUnknownRoute(t *testing.T) {
	_, do := setup(t, server.Options{})

	assert.Equal(t, http.StatusNotFound, do(httptest.NewRequest(http.MethodGet, "/unknown", nil)).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(httptest.NewRequest(http.MethodPut, "/nodes", nil)).Code)
}

func TestMiddlewares(t *testing.T) {
	t.Run("RequestID", func(t *testing.T) {
		node, do := setup(t, server.Options{})
		node.EXPECT().Count(mock.Anything).Return(0)

		rr := do(httptest.NewRequest(http.MethodGet, "/health", nil))
		_, err := uuid.Parse(rr.Header().Get(server.RequestIDHeader))
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(server.RequestIDHeader, "abc-123")
		rr = do(req)
		assert.Equal(t, "abc-123", rr.Header().Get(server.RequestIDHeader))
	})

	t.Run("CORSPreflight", func(t *testing.T) {
		_, do := setup(t, server.Options{Username: "admin", Password: "s3cret"})

		req := httptest.NewRequest(http.MethodOptions, "/nodes", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rr := do(req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
	})

	t.Run("AllowedOrigin", func(t *testing.T) {
		node, do := setup(t, server.Options{AllowedOrigin: "http://ui.example.com"})
		node.EXPECT().Count(mock.Anything).Return(0)

		rr := do(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, "http://ui.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("BasicAuth", func(t *testing.T) {
		node, do := setup(t, server.Options{Username: "admin", Password: "s3cret"})
		node.EXPECT().Count(mock.Anything).Return(1).Once()

		rr := do(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.SetBasicAuth("admin", "s3cret")
		rr = do(req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("BasicAuthBcrypt", func(t *testing.T) {
		hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
		require.NoError(t, err)

		node, do := setup(t, server.Options{Username: "admin", PasswordHash: string(hash)})
		node.EXPECT().Count(mock.Anything).Return(1).Once()

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.SetBasicAuth("admin", "wrong")
		assert.Equal(t, http.StatusUnauthorized, do(req).Code)

		req = httptest.NewRequest(http.MethodGet, "/health", nil)
		req.SetBasicAuth("admin", "s3cret")
		assert.Equal(t, http.StatusOK, do(req).Code)
	})

	t.Run("ClientIP", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.7, 10.0.0.1")

		var got string
		server.ClientIPMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = server.GetClientIP(r.Context())
		})).ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "10.0.0.7", got)
	})
}

func TestOpenAPIValidator(t *testing.T) {
	t.Run("InvalidDocument", func(t *testing.T) {
		_, err := server.OpenAPIValidator([]byte("openapi: [not a document"))
		assert.ErrorIs(t, err, server.ErrLoadOpenAPIDocument)
	})

	t.Run("WrongContentType", func(t *testing.T) {
		_, do := setup(t, server.Options{})

		req := httptest.NewRequest(http.MethodPost, "/nodes", strings.NewReader(`{"name":"alpha"}`))
		req.Header.Set("Content-Type", "text/plain")

		assert.Equal(t, http.StatusBadRequest, do(req).Code)
	})
}
