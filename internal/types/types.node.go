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

package types

import (
	"context"
	"time"
)

// NodeStatus is the resting state of a node. "wiped" and "deleted" are operations, not states.
type NodeStatus string

const (
	// NodeStopped is the initial state, reached again after stop and wipe.
	NodeStopped NodeStatus = "stopped"
	// NodeRunning means a hypervisor process was started for the node.
	NodeRunning NodeStatus = "running"
)

// ProcessHandle is an owned handle on a running hypervisor instance.
//
// Implementations are provided by the process supervisor; nothing outside the supervisor signals the underlying
// process directly.
type ProcessHandle interface {
	// ID returns an identifier for the process (a PID or a domain UUID).
	ID() string
	// Terminate requests a graceful shutdown of the process.
	Terminate() error
	// IsAlive reports whether the process is still running. ctx bounds the lookup.
	IsAlive(ctx context.Context) bool
}

// Node is a managed virtual-machine instance with its own disk overlay and VNC endpoint.
type Node struct {
	// ID is assigned at creation and never reused.
	ID string
	// Name is the user supplied label.
	Name string
	// Status is either NodeStopped or NodeRunning.
	Status NodeStatus

	// OverlayPath is the path of the node's copy-on-write disk.
	OverlayPath string
	// OverlayMissing is set when a wipe deleted the overlay but failed to recreate it.
	OverlayMissing bool

	// VNCPort is assigned once at creation and kept until deletion.
	VNCPort int

	// Process is non-nil iff Status is NodeRunning.
	Process ProcessHandle

	// ConnectionID is the gateway connection identifier. Empty when stopped or when registration failed.
	ConnectionID string
	// ConsoleURL is derived from ConnectionID at registration time.
	ConsoleURL string

	CreatedAt time.Time
}

// Running returns true if the node is running.
func (n Node) Running() bool {
	return n.Status == NodeRunning
}

// ProcessID returns the ID of the process handle or an empty string.
func (n Node) ProcessID() string {
	if n.Process == nil {
		return ""
	}

	return n.Process.ID()
}

// NodeEventType is the type of lifecycle event published after an operation completes.
type NodeEventType string

const (
	NodeCreatedEvent NodeEventType = "created"
	NodeRunningEvent NodeEventType = "running"
	NodeStoppedEvent NodeEventType = "stopped"
	NodeWipedEvent   NodeEventType = "wiped"
	NodeDeletedEvent NodeEventType = "deleted"
)

// NodeEvent describes a completed lifecycle operation.
type NodeEvent struct {
	Type        NodeEventType `json:"type"`
	OperationID string        `json:"operationId"`
	NodeID      string        `json:"nodeId"`
	NodeName    string        `json:"nodeName"`
	Status      NodeStatus    `json:"status"`
	VNCPort     int           `json:"vncPort"`
	Time        time.Time     `json:"time"`
}
