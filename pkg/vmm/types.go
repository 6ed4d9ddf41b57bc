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

package vmm

import "context"

// VMConfig contains configuration for starting a transient VM
type VMConfig struct {
	Name        string
	OverlayPath string // qcow2 disk the VM boots from
	MemoryMB    int
	VCPUs       int
	DomainType  string // "kvm" or "qemu"
	NetworkMode string // "bridge", "nat", "user"
	BridgeName  string // for bridge mode
	MACAddress  string // optional, auto-generated if empty
	VNCPort     int    // fixed VNC port; -1 lets libvirt pick one
	VNCListen   string // address the VNC server binds to
}

// VMMetadata contains runtime information about a VM
type VMMetadata struct {
	Name      string
	UUID      string
	VNCPort   int
	DomainXML string
}

// VMM interface for VM lifecycle management
type VMM interface {
	// StartVM creates and boots a transient domain. The domain vanishes from libvirt once it stops.
	StartVM(ctx context.Context, config *VMConfig) (*VMMetadata, error)
	// ShutdownVM gracefully destroys the domain.
	ShutdownVM(ctx context.Context, name string) error
	// IsActive reports whether the domain exists and is running.
	IsActive(ctx context.Context, name string) (bool, error)
	// EnsureNetwork defines and starts the libvirt network when needed.
	EnsureNetwork(ctx context.Context, config NetworkConfig) error
	Close() error
}
