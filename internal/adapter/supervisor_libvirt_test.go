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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/vncfleet/internal/adapter"
	"github.com/alexandremahdhaoui/vncfleet/pkg/vmm"
)

type fakeVMM struct {
	started  []*vmm.VMConfig
	active   map[string]bool
	startErr error
	stateErr error
}

func newFakeVMM() *fakeVMM {
	return &fakeVMM{active: map[string]bool{}}
}

func (f *fakeVMM) StartVM(_ context.Context, config *vmm.VMConfig) (*vmm.VMMetadata, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}

	f.started = append(f.started, config)
	f.active[config.Name] = true

	return &vmm.VMMetadata{Name: config.Name, UUID: "uuid-" + config.Name, VNCPort: config.VNCPort}, nil
}

func (f *fakeVMM) ShutdownVM(_ context.Context, name string) error {
	if !f.active[name] {
		return vmm.ErrVMNotFound
	}

	delete(f.active, name)

	return nil
}

func (f *fakeVMM) IsActive(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if f.stateErr != nil {
		return false, f.stateErr
	}

	return f.active[name], nil
}

func (f *fakeVMM) EnsureNetwork(context.Context, vmm.NetworkConfig) error { return nil }

func (f *fakeVMM) Close() error { return nil }

func TestLibvirtSupervisor(t *testing.T) {
	cfg := adapter.LibvirtConfig{
		MemoryMB:    1024,
		VCPUs:       2,
		DomainType:  "qemu",
		NetworkMode: "nat",
		BridgeName:  "vncfleet",
		VNCListen:   "0.0.0.0",
	}

	t.Run("start then terminate", func(t *testing.T) {
		fake := newFakeVMM()
		supervisor := adapter.NewLibvirtSupervisor(fake, cfg)

		handle, err := supervisor.Start(context.Background(), adapter.StartSpec{
			NodeID:      "node_1",
			OverlayPath: "/var/lib/vncfleet/overlays/node_1.qcow2",
			VNCPort:     5901,
		})
		require.NoError(t, err)

		require.Len(t, fake.started, 1)
		started := fake.started[0]
		assert.Equal(t, "node_1", started.Name)
		assert.Equal(t, 5901, started.VNCPort)
		assert.Equal(t, 1024, started.MemoryMB)
		assert.Equal(t, "vncfleet", started.BridgeName)
		assert.Equal(t, "0.0.0.0", started.VNCListen)

		assert.Equal(t, "uuid-node_1", handle.ID())
		assert.True(t, handle.IsAlive(context.Background()))

		require.NoError(t, handle.Terminate())
		assert.False(t, handle.IsAlive(context.Background()))

		assert.ErrorIs(t, handle.Terminate(), adapter.ErrProcessNotRunning)
	})

	t.Run("port below vnc base", func(t *testing.T) {
		fake := newFakeVMM()
		supervisor := adapter.NewLibvirtSupervisor(fake, cfg)

		_, err := supervisor.Start(context.Background(), adapter.StartSpec{NodeID: "node_1", VNCPort: 22})
		assert.ErrorIs(t, err, adapter.ErrProcessStart)
		assert.Empty(t, fake.started)
	})

	t.Run("domain creation fails", func(t *testing.T) {
		fake := newFakeVMM()
		fake.startErr = errors.New("boom")
		supervisor := adapter.NewLibvirtSupervisor(fake, cfg)

		_, err := supervisor.Start(context.Background(), adapter.StartSpec{NodeID: "node_1", VNCPort: 5901})
		assert.ErrorIs(t, err, adapter.ErrProcessStart)
	})

	t.Run("unknown state reports dead", func(t *testing.T) {
		fake := newFakeVMM()
		supervisor := adapter.NewLibvirtSupervisor(fake, cfg)

		handle, err := supervisor.Start(context.Background(), adapter.StartSpec{NodeID: "node_1", VNCPort: 5901})
		require.NoError(t, err)

		fake.stateErr = errors.New("connection reset")
		assert.False(t, handle.IsAlive(context.Background()))
	})

	t.Run("cancelled context reports dead", func(t *testing.T) {
		fake := newFakeVMM()
		supervisor := adapter.NewLibvirtSupervisor(fake, cfg)

		handle, err := supervisor.Start(context.Background(), adapter.StartSpec{NodeID: "node_1", VNCPort: 5901})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.False(t, handle.IsAlive(ctx))
		assert.True(t, handle.IsAlive(context.Background()))
	})
}
