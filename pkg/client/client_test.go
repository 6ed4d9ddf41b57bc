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

package client_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/vncfleet/internal/controller"
	"github.com/alexandremahdhaoui/vncfleet/internal/driver/server"
	"github.com/alexandremahdhaoui/vncfleet/internal/types"
	"github.com/alexandremahdhaoui/vncfleet/internal/util/mocks/mockcontroller"
	"github.com/alexandremahdhaoui/vncfleet/pkg/client"
)

func setup(t *testing.T, opts server.Options, clientOpts client.Options) (*mockcontroller.MockNode, client.Client) {
	t.Helper()

	node := mockcontroller.NewMockNode(t)

	handler, err := server.NewHandler(node, opts)
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return node, client.New(srv.URL+"/", clientOpts)
}

func TestClient(t *testing.T) {
	ctx := context.Background()
	node1 := types.Node{
		ID:          "node_1",
		Name:        "alpha",
		Status:      types.NodeStopped,
		OverlayPath: "/overlays/node_1.qcow2",
		VNCPort:     5900,
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("CreateAndList", func(t *testing.T) {
		node, c := setup(t, server.Options{}, client.Options{})
		node.EXPECT().Create(mock.Anything, "alpha").Return(node1, nil).Once()
		node.EXPECT().List(mock.Anything).Return([]types.Node{node1}).Once()

		created, err := c.CreateNode(ctx, "alpha")
		require.NoError(t, err)
		assert.Equal(t, "node_1", created.ID)
		assert.Nil(t, created.ConsoleURL)
		assert.True(t, node1.CreatedAt.Equal(created.CreatedAt))

		nodes, err := c.ListNodes(ctx)
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, 5900, nodes[0].VNCPort)
	})

	t.Run("Transitions", func(t *testing.T) {
		running := node1
		running.Status = types.NodeRunning
		running.ConsoleURL = "http://gw/#/client/1"

		node, c := setup(t, server.Options{}, client.Options{})
		node.EXPECT().Run(mock.Anything, "node_1").Return(running, nil).Once()
		node.EXPECT().Stop(mock.Anything, "node_1").Return(node1, nil).Once()
		node.EXPECT().Wipe(mock.Anything, "node_1").Return(node1, nil).Once()
		node.EXPECT().Delete(mock.Anything, "node_1").Return(nil).Once()

		out, err := c.RunNode(ctx, "node_1")
		require.NoError(t, err)
		require.NotNil(t, out.ConsoleURL)
		assert.Equal(t, "http://gw/#/client/1", *out.ConsoleURL)

		out, err = c.StopNode(ctx, "node_1")
		require.NoError(t, err)
		assert.Equal(t, "stopped", out.Status)

		_, err = c.WipeNode(ctx, "node_1")
		require.NoError(t, err)

		require.NoError(t, c.DeleteNode(ctx, "node_1"))
	})

	t.Run("JournalAndHealth", func(t *testing.T) {
		node, c := setup(t, server.Options{}, client.Options{})
		node.EXPECT().Journal(mock.Anything, "node_1").Return([]types.Journal{{
			Operation: types.CreateOperation,
			NodeID:    "node_1",
			Entries:   []types.JournalEntry{{Step: types.CreateOverlayStep, Outcome: types.StepOK}},
		}}, nil).Once()
		node.EXPECT().Count(mock.Anything).Return(4).Once()

		journals, err := c.Journal(ctx, "node_1")
		require.NoError(t, err)
		require.Len(t, journals, 1)
		assert.Equal(t, "create-overlay", journals[0].Entries[0].Step)

		health, err := c.Health(ctx)
		require.NoError(t, err)
		assert.Equal(t, client.Health{Status: "ok", Nodes: 4}, health)
	})

	t.Run("APIError", func(t *testing.T) {
		node, c := setup(t, server.Options{}, client.Options{})
		node.EXPECT().Stop(mock.Anything, "node_1").
			Return(types.Node{}, errors.Join(errors.New("node is already stopped"), controller.ErrConflict)).Once()

		_, err := c.StopNode(ctx, "node_1")
		require.ErrorIs(t, err, client.ErrAPI)

		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.StatusCode)
		assert.Equal(t, "node is already stopped: conflict", apiErr.Message)
		assert.NotEmpty(t, apiErr.RequestID)
	})

	t.Run("BasicAuth", func(t *testing.T) {
		node, c := setup(t, server.Options{Username: "ops", Password: "pw"}, client.Options{Username: "ops", Password: "pw"})
		node.EXPECT().Count(mock.Anything).Return(0).Once()

		_, err := c.Health(ctx)
		require.NoError(t, err)

		_, anonymous := setup(t, server.Options{Username: "ops", Password: "pw"}, client.Options{})
		_, err = anonymous.Health(ctx)

		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 401, apiErr.StatusCode)
	})

	t.Run("Unreachable", func(t *testing.T) {
		c := client.New("http://127.0.0.1:1", client.Options{})

		_, err := c.Health(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, client.ErrAPI)
	})
}
