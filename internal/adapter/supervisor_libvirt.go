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
	"time"

	"github.com/alexandremahdhaoui/vncfleet/internal/types"
	"github.com/alexandremahdhaoui/vncfleet/pkg/vmm"
)

const libvirtCallTimeout = 5 * time.Second

// LibvirtConfig configures the libvirt supervisor.
type LibvirtConfig struct {
	MemoryMB    int
	VCPUs       int
	DomainType  string
	NetworkMode string
	BridgeName  string
	VNCListen   string
}

// NewLibvirtSupervisor returns a Supervisor running each node as a transient libvirt domain named after the node ID.
func NewLibvirtSupervisor(v vmm.VMM, cfg LibvirtConfig) Supervisor {
	return &libvirtSupervisor{
		vmm: v,
		cfg: cfg,
	}
}

type libvirtSupervisor struct {
	vmm vmm.VMM
	cfg LibvirtConfig
}

func (s *libvirtSupervisor) Start(ctx context.Context, spec StartSpec) (types.ProcessHandle, error) {
	if _, err := VNCDisplay(spec.VNCPort); err != nil {
		return nil, errors.Join(err, ErrProcessStart)
	}

	meta, err := s.vmm.StartVM(ctx, &vmm.VMConfig{
		Name:        spec.NodeID,
		OverlayPath: spec.OverlayPath,
		MemoryMB:    s.cfg.MemoryMB,
		VCPUs:       s.cfg.VCPUs,
		DomainType:  s.cfg.DomainType,
		NetworkMode: s.cfg.NetworkMode,
		BridgeName:  s.cfg.BridgeName,
		VNCPort:     spec.VNCPort,
		VNCListen:   s.cfg.VNCListen,
	})
	if err != nil {
		return nil, errors.Join(err, fmt.Errorf("nodeID=%s", spec.NodeID), ErrProcessStart)
	}

	return &domainHandle{
		vmm:  s.vmm,
		name: meta.Name,
		uuid: meta.UUID,
	}, nil
}

type domainHandle struct {
	vmm  vmm.VMM
	name string
	uuid string
}

func (h *domainHandle) ID() string {
	return h.uuid
}

func (h *domainHandle) IsAlive(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, libvirtCallTimeout)
	defer cancel()

	active, err := h.vmm.IsActive(ctx, h.name)
	if err != nil {
		slog.WarnContext(ctx, "domain_state_unknown", "vm_name", h.name, "error", err.Error())
		return false
	}

	return active
}

func (h *domainHandle) Terminate() error {
	ctx, cancel := context.WithTimeout(context.Background(), libvirtCallTimeout)
	defer cancel()

	if err := h.vmm.ShutdownVM(ctx, h.name); errors.Is(err, vmm.ErrVMNotFound) {
		return errors.Join(err, ErrProcessNotRunning)
	} else if err != nil {
		return errors.Join(err, ErrProcessTerminate)
	}

	return nil
}
