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

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"libvirt.org/go/libvirt"
)

var (
	ErrVMNotFound = errors.New("VM not found")

	errConnectLibvirt        = errors.New("failed to connect to libvirt")
	errLibvirtNotInitialized = errors.New("libvirt connection is not initialized")
	errGenerateDomainXML     = errors.New("failed to generate domain XML")
	errCreateDomain          = errors.New("failed to create domain")
	errGetDomainUUID         = errors.New("failed to get domain UUID")
	errGetDomainState        = errors.New("failed to get domain state")
	errDestroyDomain         = errors.New("failed to destroy domain")
)

const DefaultURI = "qemu:///system"

// vmmImpl implements the VMM interface
type vmmImpl struct {
	conn *libvirt.Connect
	uri  string
}

// Option is a functional option for configuring vmmImpl
type Option func(*vmmImpl)

// WithConnection sets a custom libvirt connection URI
func WithConnection(uri string) Option {
	return func(v *vmmImpl) {
		if uri != "" {
			v.uri = uri
		}
	}
}

// NewVMM creates a new VMM instance connected to qemu:///system by default
func NewVMM(opts ...Option) (VMM, error) {
	v := &vmmImpl{
		uri: DefaultURI,
	}

	for _, opt := range opts {
		opt(v)
	}

	conn, err := libvirt.NewConnect(v.uri)
	if err != nil {
		return nil, errors.Join(err, fmt.Errorf("uri=%s", v.uri), errConnectLibvirt)
	}

	v.conn = conn

	return v, nil
}

// StartVM creates and boots a transient domain
func (v *vmmImpl) StartVM(ctx context.Context, config *VMConfig) (*VMMetadata, error) {
	if v.conn == nil {
		return nil, errLibvirtNotInitialized
	}

	domXML, err := generateDomainXML(config)
	if err != nil {
		return nil, errors.Join(err, fmt.Errorf("vmName=%s", config.Name), errGenerateDomainXML)
	}

	dom, err := v.conn.DomainCreateXML(domXML, libvirt.DOMAIN_NONE)
	if err != nil {
		return nil, errors.Join(err, fmt.Errorf("vmName=%s", config.Name), errCreateDomain)
	}

	defer func() { _ = dom.Free() }()

	uuid, err := dom.GetUUIDString()
	if err != nil {
		return nil, errors.Join(err, fmt.Errorf("vmName=%s", config.Name), errGetDomainUUID)
	}

	slog.InfoContext(ctx, "domain_started", "vm_name", config.Name, "uuid", uuid, "vnc_port", config.VNCPort)

	return &VMMetadata{
		Name:      config.Name,
		UUID:      uuid,
		VNCPort:   config.VNCPort,
		DomainXML: domXML,
	}, nil
}

// ShutdownVM gracefully destroys a transient domain by name
func (v *vmmImpl) ShutdownVM(ctx context.Context, name string) error {
	dom, err := v.lookup(name)
	if err != nil {
		return err
	}

	defer func() { _ = dom.Free() }()

	if err := dom.DestroyFlags(libvirt.DOMAIN_DESTROY_GRACEFUL); err != nil {
		return errors.Join(err, fmt.Errorf("vmName=%s", name), errDestroyDomain)
	}

	slog.InfoContext(ctx, "domain_destroyed", "vm_name", name)

	return nil
}

// IsActive checks if a VM exists and is running
func (v *vmmImpl) IsActive(_ context.Context, name string) (bool, error) {
	dom, err := v.lookup(name)
	if errors.Is(err, ErrVMNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	defer func() { _ = dom.Free() }()

	active, err := dom.IsActive()
	if err != nil {
		return false, errors.Join(err, fmt.Errorf("vmName=%s", name), errGetDomainState)
	}

	return active, nil
}

// Close closes the libvirt connection
func (v *vmmImpl) Close() error {
	if v.conn != nil {
		_, err := v.conn.Close()
		return err
	}

	return nil
}

func (v *vmmImpl) lookup(name string) (*libvirt.Domain, error) {
	if v.conn == nil {
		return nil, errLibvirtNotInitialized
	}

	dom, err := v.conn.LookupDomainByName(name)
	if err != nil {
		var lverr libvirt.Error
		if errors.As(err, &lverr) && lverr.Code == libvirt.ERR_NO_DOMAIN {
			return nil, errors.Join(fmt.Errorf("vmName=%s", name), ErrVMNotFound)
		}

		return nil, errors.Join(err, fmt.Errorf("vmName=%s", name), errGetDomainState)
	}

	return dom, nil
}
