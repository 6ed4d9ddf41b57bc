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
	"libvirt.org/go/libvirtxml"
)

var (
	ErrNetworkNameRequired = errors.New("network name is required")
	ErrUnsupportedNetwork  = errors.New("unsupported network mode")

	errDefineNetwork  = errors.New("failed to define libvirt network")
	errStartNetwork   = errors.New("failed to start libvirt network")
	errLookupNetwork  = errors.New("failed to lookup libvirt network")
	errMarshalNetwork = errors.New("failed to marshal network XML")
)

const (
	defaultNetworkMode    = "nat"
	defaultNetworkAddress = "192.168.150.1"
	defaultNetworkNetmask = "255.255.255.0"
)

// NetworkConfig describes a persistent libvirt network the domains attach to.
type NetworkConfig struct {
	Name string
	// Mode is "nat" or "isolated". Defaults to "nat".
	Mode    string
	Address string
	Netmask string
}

// EnsureNetwork defines the network when absent and starts it when inactive.
func (v *vmmImpl) EnsureNetwork(ctx context.Context, config NetworkConfig) error {
	if v.conn == nil {
		return errLibvirtNotInitialized
	}

	if config.Name == "" {
		return ErrNetworkNameRequired
	}

	network, err := v.conn.LookupNetworkByName(config.Name)
	if err != nil {
		var lverr libvirt.Error
		if !errors.As(err, &lverr) || lverr.Code != libvirt.ERR_NO_NETWORK {
			return errors.Join(err, fmt.Errorf("network=%s", config.Name), errLookupNetwork)
		}

		return v.defineNetwork(ctx, config)
	}

	defer func() { _ = network.Free() }()

	active, err := network.IsActive()
	if err != nil {
		return errors.Join(err, fmt.Errorf("network=%s", config.Name), errLookupNetwork)
	}

	if active {
		return nil
	}

	if err := network.Create(); err != nil {
		return errors.Join(err, fmt.Errorf("network=%s", config.Name), errStartNetwork)
	}

	slog.InfoContext(ctx, "network_started", "network", config.Name)

	return nil
}

func (v *vmmImpl) defineNetwork(ctx context.Context, config NetworkConfig) error {
	netXML, err := generateNetworkXML(config)
	if err != nil {
		return err
	}

	network, err := v.conn.NetworkDefineXML(netXML)
	if err != nil {
		return errors.Join(err, fmt.Errorf("network=%s", config.Name), errDefineNetwork)
	}

	defer func() { _ = network.Free() }()

	if err := network.Create(); err != nil {
		_ = network.Undefine()
		return errors.Join(err, fmt.Errorf("network=%s", config.Name), errStartNetwork)
	}

	// autostart is best effort
	_ = network.SetAutostart(true)

	slog.InfoContext(ctx, "network_defined", "network", config.Name, "mode", config.Mode)

	return nil
}

func generateNetworkXML(config NetworkConfig) (string, error) {
	if config.Name == "" {
		return "", ErrNetworkNameRequired
	}

	if config.Mode == "" {
		config.Mode = defaultNetworkMode
	}

	if config.Address == "" {
		config.Address = defaultNetworkAddress
	}

	if config.Netmask == "" {
		config.Netmask = defaultNetworkNetmask
	}

	network := &libvirtxml.Network{
		Name:   config.Name,
		Bridge: &libvirtxml.NetworkBridge{STP: "on"},
		IPs: []libvirtxml.NetworkIP{{
			Address: config.Address,
			Netmask: config.Netmask,
		}},
	}

	switch config.Mode {
	case "nat":
		network.Forward = &libvirtxml.NetworkForward{Mode: "nat"}
	case "isolated":
	default:
		return "", errors.Join(fmt.Errorf("mode=%s", config.Mode), ErrUnsupportedNetwork)
	}

	out, err := network.Marshal()
	if err != nil {
		return "", errors.Join(err, errMarshalNetwork)
	}

	return out, nil
}
