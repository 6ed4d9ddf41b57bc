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
	"crypto/rand"
	"fmt"

	"libvirt.org/go/libvirtxml"
)

const (
	defaultMemoryMB   = 512
	defaultVCPUs      = 1
	defaultDomainType = "kvm"
	defaultVNCListen  = "127.0.0.1"
)

// generateDomainXML creates libvirt domain XML from VMConfig
// Returns XML string ready for libvirt.DomainCreateXML()
func generateDomainXML(config *VMConfig) (string, error) {
	// Generate MAC address if not provided
	macAddress := config.MACAddress
	if macAddress == "" {
		var err error
		macAddress, err = generateRandomMAC()
		if err != nil {
			return "", fmt.Errorf("generate MAC address: %w", err)
		}
	}

	memoryMB := config.MemoryMB
	if memoryMB <= 0 {
		memoryMB = defaultMemoryMB
	}

	vcpus := config.VCPUs
	if vcpus <= 0 {
		vcpus = defaultVCPUs
	}

	domainType := config.DomainType
	if domainType == "" {
		domainType = defaultDomainType
	}

	listen := config.VNCListen
	if listen == "" {
		listen = defaultVNCListen
	}

	vnc := &libvirtxml.DomainGraphicVNC{
		Port:     config.VNCPort,
		AutoPort: "no",
		Listen:   listen,
	}
	if config.VNCPort <= 0 {
		vnc.Port = -1
		vnc.AutoPort = "yes"
	}

	domain := &libvirtxml.Domain{
		Type: domainType,
		Name: config.Name,
		Memory: &libvirtxml.DomainMemory{
			Value: uint(memoryMB),
			Unit:  "MiB",
		},
		VCPU: &libvirtxml.DomainVCPU{
			Value: uint(vcpus),
		},
		OS: &libvirtxml.DomainOS{
			Type: &libvirtxml.DomainOSType{
				Arch:    "x86_64",
				Machine: "pc",
				Type:    "hvm",
			},
			BootDevices: []libvirtxml.DomainBootDevice{{Dev: "hd"}},
		},
		OnPoweroff: "destroy",
		OnReboot:   "restart",
		OnCrash:    "destroy",
		Devices: &libvirtxml.DomainDeviceList{
			Disks: []libvirtxml.DomainDisk{
				{
					Device: "disk",
					Driver: &libvirtxml.DomainDiskDriver{
						Name: "qemu",
						Type: "qcow2",
					},
					Source: &libvirtxml.DomainDiskSource{
						File: &libvirtxml.DomainDiskSourceFile{
							File: config.OverlayPath,
						},
					},
					Target: &libvirtxml.DomainDiskTarget{
						Dev: "hda",
						Bus: "ide",
					},
				},
			},
			Interfaces: []libvirtxml.DomainInterface{
				buildNetworkInterface(config.NetworkMode, config.BridgeName, macAddress),
			},
			Serials: []libvirtxml.DomainSerial{
				{
					Source: &libvirtxml.DomainChardevSource{
						Pty: &libvirtxml.DomainChardevSourcePty{},
					},
					Target: &libvirtxml.DomainSerialTarget{
						Port: uintPtr(0),
					},
				},
			},
			Graphics: []libvirtxml.DomainGraphic{{VNC: vnc}},
		},
	}

	// Marshal to XML
	xmlBytes, err := domain.Marshal()
	if err != nil {
		return "", fmt.Errorf("marshal domain XML: %w", err)
	}

	return string(xmlBytes), nil
}

// buildNetworkInterface creates a network interface configuration
func buildNetworkInterface(mode, bridgeName, macAddress string) libvirtxml.DomainInterface {
	iface := libvirtxml.DomainInterface{
		Model: &libvirtxml.DomainInterfaceModel{
			Type: "virtio",
		},
		MAC: &libvirtxml.DomainInterfaceMAC{
			Address: macAddress,
		},
	}

	switch mode {
	case "bridge":
		iface.Source = &libvirtxml.DomainInterfaceSource{
			Bridge: &libvirtxml.DomainInterfaceSourceBridge{
				Bridge: bridgeName,
			},
		}
	case "nat", "network":
		networkName := "default"
		if bridgeName != "" {
			networkName = bridgeName
		}
		iface.Source = &libvirtxml.DomainInterfaceSource{
			Network: &libvirtxml.DomainInterfaceSourceNetwork{
				Network: networkName,
			},
		}
	default:
		iface.Source = &libvirtxml.DomainInterfaceSource{
			User: &libvirtxml.DomainInterfaceSourceUser{},
		}
	}

	return iface
}

// generateRandomMAC generates a random MAC address with libvirt's prefix (52:54:00)
func generateRandomMAC() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return fmt.Sprintf("52:54:00:%02x:%02x:%02x", buf[0], buf[1], buf[2]), nil
}

func uintPtr(v uint) *uint {
	return &v
}
