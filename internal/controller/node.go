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

package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexandremahdhaoui/vncfleet/internal/adapter"
	"github.com/alexandremahdhaoui/vncfleet/internal/types"
)

var (
	// ErrValidation is returned when the input of an operation is invalid.
	ErrValidation = errors.New("validation error")
	// ErrNodeNotFound is returned when the node id is unknown.
	ErrNodeNotFound = errors.New("node not found")
	// ErrConflict is returned when the operation is invalid for the current state of the node.
	ErrConflict = errors.New("conflict")
	// ErrResource is returned when the overlay or the hypervisor could not be provisioned.
	ErrResource = errors.New("resource error")

	errNameRequired     = errors.New("name is required")
	errNodeRunning      = errors.New("node is already running")
	errNodeStopped      = errors.New("node is already stopped")
	errOverlayMissing   = errors.New("node has no overlay; wipe it first")
	errNodeCreate       = errors.New("creating node")
	errNodeRun          = errors.New("running node")
	errNodeWipe         = errors.New("wiping node")
	errProcessDiedEarly = errors.New("hypervisor process exited before becoming ready")
)

// ---------------------------------------------------- INTERFACES -------------------------------------------------- //

// Node drives nodes through their lifecycle: create, run, stop, wipe and delete.
//
// Operations on one node are serialized; operations on distinct nodes run concurrently. Operations are not
// atomic: the journal of each operation tells which side effects happened.
type Node interface {
	// Create allocates an id and a VNC port then creates the node's overlay. The node starts stopped.
	Create(ctx context.Context, name string) (types.Node, error)
	// Run starts the hypervisor of a stopped node and registers it with the gateway.
	// A failed registration leaves the node running without a console.
	Run(ctx context.Context, id string) (types.Node, error)
	// Stop terminates the hypervisor and deregisters the console of a running node.
	Stop(ctx context.Context, id string) (types.Node, error)
	// Wipe stops the node if needed and replaces its overlay by a fresh one.
	Wipe(ctx context.Context, id string) (types.Node, error)
	// Delete stops the node if needed, deletes its overlay and forgets it.
	Delete(ctx context.Context, id string) error

	Get(ctx context.Context, id string) (types.Node, error)
	List(ctx context.Context) []types.Node
	Count(ctx context.Context) int
	Journal(ctx context.Context, id string) ([]types.Journal, error)

	// Shutdown stops every running node if configured to do so.
	Shutdown(ctx context.Context) error
}

// Options configures the Node controller.
type Options struct {
	// StopNodesOnShutdown makes Shutdown stop every running node.
	StopNodesOnShutdown bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// NewNode returns a new Node controller.
func NewNode(
	registry *Registry,
	allocator Allocator,
	overlay adapter.Overlay,
	supervisor adapter.Supervisor,
	readiness adapter.ReadinessChecker,
	gateway adapter.Gateway,
	events adapter.EventPublisher,
	metrics *Metrics,
	opts Options,
) Node {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &node{
		registry:   registry,
		allocator:  allocator,
		overlay:    overlay,
		supervisor: supervisor,
		readiness:  readiness,
		gateway:    gateway,
		events:     events,
		metrics:    metrics,
		opts:       opts,
	}
}

// -------------------------------------------------------- NODE ---------------------------------------------------- //

type node struct {
	registry   *Registry
	allocator  Allocator
	overlay    adapter.Overlay
	supervisor adapter.Supervisor
	readiness  adapter.ReadinessChecker
	gateway    adapter.Gateway
	events     adapter.EventPublisher
	metrics    *Metrics

	opts Options
}

// -------------------------------------------------------- Create -------------------------------------------------- //

func (n *node) Create(ctx context.Context, name string) (out types.Node, err error) {
	// side effects must complete even if the caller goes away.
	ctx = context.WithoutCancel(ctx)
	defer n.observe(types.CreateOperation, time.Now(), &err)

	name = strings.TrimSpace(name)
	if name == "" {
		return types.Node{}, errors.Join(errNameRequired, ErrValidation)
	}

	id := n.allocator.NextNodeID()
	port := n.allocator.NextVNCPort()
	rec := newRecorder(types.CreateOperation, id, n.opts.Now)
	rec.record(types.AllocateStep, nil)

	overlayPath, err := n.overlay.Create(ctx, id)
	rec.record(types.CreateOverlayStep, err)

	if err != nil {
		slog.ErrorContext(ctx, "node_create_failed",
			"node_id", id,
			"operation_id", rec.operationID(),
			"error", err.Error(),
		)

		return types.Node{}, errors.Join(err, fmt.Errorf("nodeID=%s", id), errNodeCreate, ErrResource)
	}

	out = types.Node{
		ID:          id,
		Name:        name,
		Status:      types.NodeStopped,
		OverlayPath: overlayPath,
		VNCPort:     port,
		CreatedAt:   n.opts.Now(),
	}

	n.registry.Put(out)
	n.registry.AppendJournal(rec.journal)

	slog.InfoContext(ctx, "node_created", "node_id", id, "name", name, "vnc_port", port, "overlay_path", overlayPath)
	n.publish(ctx, types.NodeCreatedEvent, rec, out)

	return out, nil
}

// -------------------------------------------------------- Run ----------------------------------------------------- //

func (n *node) Run(ctx context.Context, id string) (out types.Node, err error) {
	ctx = context.WithoutCancel(ctx)
	defer n.observe(types.RunOperation, time.Now(), &err)

	unlock := n.registry.Lock(id)
	defer unlock()

	out, ok := n.registry.Get(id)
	if !ok {
		return types.Node{}, errors.Join(fmt.Errorf("nodeID=%s", id), ErrNodeNotFound)
	}

	if out.Running() {
		return out, errors.Join(errNodeRunning, fmt.Errorf("nodeID=%s", id), ErrConflict)
	}

	if out.OverlayMissing {
		return out, errors.Join(errOverlayMissing, fmt.Errorf("nodeID=%s", id), ErrConflict)
	}

	rec := newRecorder(types.RunOperation, id, n.opts.Now)
	defer func() { n.registry.AppendJournal(rec.journal) }()

	handle, err := n.supervisor.Start(ctx, adapter.StartSpec{
		NodeID:      out.ID,
		NodeName:    out.Name,
		OverlayPath: out.OverlayPath,
		VNCPort:     out.VNCPort,
	})
	rec.record(types.StartProcessStep, err)

	if err != nil {
		rec.skip(types.AwaitReadinessStep)
		rec.skip(types.RegisterGatewayStep)
		slog.ErrorContext(ctx, "node_run_failed",
			"node_id", id,
			"operation_id", rec.operationID(),
			"error", err.Error(),
		)

		return out, errors.Join(err, fmt.Errorf("nodeID=%s", id), errNodeRun, ErrResource)
	}

	// The node is running from here on: a readiness or registration failure only degrades its console.
	out.Status = types.NodeRunning
	out.Process = handle

	err = n.readiness.WaitReady(ctx, out.VNCPort)
	if err == nil && !handle.IsAlive(ctx) {
		err = errProcessDiedEarly
	}

	rec.record(types.AwaitReadinessStep, err)

	if err != nil {
		slog.WarnContext(ctx, "vnc_not_ready",
			"node_id", id,
			"vnc_port", out.VNCPort,
			"operation_id", rec.operationID(),
			"error", err.Error(),
		)
	}

	connectionID, err := n.gateway.Register(ctx, out.ID, out.Name, out.VNCPort)
	rec.record(types.RegisterGatewayStep, err)

	if err != nil {
		n.metrics.registrationFailed()
		slog.WarnContext(ctx, "gateway_register_failed",
			"node_id", id,
			"operation_id", rec.operationID(),
			"error", err.Error(),
		)
	} else {
		out.ConnectionID = connectionID
		out.ConsoleURL = n.gateway.ConsoleURL(connectionID)
	}

	n.registry.Put(out)

	slog.InfoContext(ctx, "node_running",
		"node_id", id,
		"process_id", handle.ID(),
		"connection_id", out.ConnectionID,
	)
	n.publish(ctx, types.NodeRunningEvent, rec, out)

	return out, nil
}

// -------------------------------------------------------- Stop ---------------------------------------------------- //

func (n *node) Stop(ctx context.Context, id string) (out types.Node, err error) {
	ctx = context.WithoutCancel(ctx)
	defer n.observe(types.StopOperation, time.Now(), &err)

	unlock := n.registry.Lock(id)
	defer unlock()

	out, ok := n.registry.Get(id)
	if !ok {
		return types.Node{}, errors.Join(fmt.Errorf("nodeID=%s", id), ErrNodeNotFound)
	}

	if !out.Running() {
		return out, errors.Join(errNodeStopped, fmt.Errorf("nodeID=%s", id), ErrConflict)
	}

	rec := newRecorder(types.StopOperation, id, n.opts.Now)

	out = n.teardown(ctx, out, rec)
	n.registry.Put(out)
	n.registry.AppendJournal(rec.journal)

	slog.InfoContext(ctx, "node_stopped", "node_id", id)
	n.publish(ctx, types.NodeStoppedEvent, rec, out)

	return out, nil
}

// teardown terminates the process and deregisters the console of a running node. Failures are logged and
// journaled but never returned. The returned node is stopped with its handles cleared.
func (n *node) teardown(ctx context.Context, node types.Node, rec *recorder) types.Node {
	if node.Process != nil {
		err := node.Process.Terminate()
		if errors.Is(err, adapter.ErrProcessNotRunning) {
			// the hypervisor already exited on its own.
			err = nil
		}

		rec.record(types.TerminateProcessStep, err)

		if err != nil {
			slog.WarnContext(ctx, "process_terminate_failed",
				"node_id", node.ID,
				"process_id", node.Process.ID(),
				"operation_id", rec.operationID(),
				"error", err.Error(),
			)
		}
	} else {
		rec.skip(types.TerminateProcessStep)
	}

	if node.ConnectionID != "" {
		err := n.gateway.Deregister(ctx, node.ConnectionID)
		rec.record(types.DeregisterGatewayStep, err)

		if err != nil {
			slog.WarnContext(ctx, "gateway_deregister_failed",
				"node_id", node.ID,
				"connection_id", node.ConnectionID,
				"operation_id", rec.operationID(),
				"error", err.Error(),
			)
		}
	} else {
		rec.skip(types.DeregisterGatewayStep)
	}

	node.Status = types.NodeStopped
	node.Process = nil
	node.ConnectionID = ""
	node.ConsoleURL = ""

	return node
}

// -------------------------------------------------------- Wipe ---------------------------------------------------- //

func (n *node) Wipe(ctx context.Context, id string) (out types.Node, err error) {
	ctx = context.WithoutCancel(ctx)
	defer n.observe(types.WipeOperation, time.Now(), &err)

	unlock := n.registry.Lock(id)
	defer unlock()

	out, ok := n.registry.Get(id)
	if !ok {
		return types.Node{}, errors.Join(fmt.Errorf("nodeID=%s", id), ErrNodeNotFound)
	}

	rec := newRecorder(types.WipeOperation, id, n.opts.Now)
	defer func() { n.registry.AppendJournal(rec.journal) }()

	if out.Running() {
		out = n.teardown(ctx, out, rec)
	}

	n.deleteOverlay(ctx, out, rec)

	err = n.overlay.Recreate(ctx, out.OverlayPath)
	rec.record(types.RecreateOverlayStep, err)

	if err != nil {
		out.OverlayMissing = true
		n.registry.Put(out)

		slog.ErrorContext(ctx, "node_wipe_failed",
			"node_id", id,
			"operation_id", rec.operationID(),
			"error", err.Error(),
		)

		return out, errors.Join(err, fmt.Errorf("nodeID=%s", id), errNodeWipe, ErrResource)
	}

	out.OverlayMissing = false
	n.registry.Put(out)

	slog.InfoContext(ctx, "node_wiped", "node_id", id, "overlay_path", out.OverlayPath)
	n.publish(ctx, types.NodeWipedEvent, rec, out)

	return out, nil
}

func (n *node) deleteOverlay(ctx context.Context, node types.Node, rec *recorder) {
	if node.OverlayMissing {
		rec.skip(types.DeleteOverlayStep)
		return
	}

	err := n.overlay.Delete(ctx, node.OverlayPath)
	rec.record(types.DeleteOverlayStep, err)

	if err != nil {
		slog.WarnContext(ctx, "overlay_delete_failed",
			"node_id", node.ID,
			"overlay_path", node.OverlayPath,
			"operation_id", rec.operationID(),
			"error", err.Error(),
		)
	}
}

// -------------------------------------------------------- Delete -------------------------------------------------- //

func (n *node) Delete(ctx context.Context, id string) (err error) {
	ctx = context.WithoutCancel(ctx)
	defer n.observe(types.DeleteOperation, time.Now(), &err)

	unlock := n.registry.Lock(id)
	defer unlock()

	node, ok := n.registry.Get(id)
	if !ok {
		return errors.Join(fmt.Errorf("nodeID=%s", id), ErrNodeNotFound)
	}

	rec := newRecorder(types.DeleteOperation, id, n.opts.Now)

	if node.Running() {
		node = n.teardown(ctx, node, rec)
	}

	n.deleteOverlay(ctx, node, rec)

	n.registry.Remove(id)
	rec.record(types.RemoveNodeStep, nil)

	slog.InfoContext(ctx, "node_deleted",
		"node_id", id,
		"operation_id", rec.operationID(),
		"degraded", rec.journal.Failed(),
	)
	n.publish(ctx, types.NodeDeletedEvent, rec, node)

	return nil
}

// -------------------------------------------------------- Reads --------------------------------------------------- //

func (n *node) Get(_ context.Context, id string) (types.Node, error) {
	node, ok := n.registry.Get(id)
	if !ok {
		return types.Node{}, errors.Join(fmt.Errorf("nodeID=%s", id), ErrNodeNotFound)
	}

	return node, nil
}

func (n *node) List(_ context.Context) []types.Node {
	return n.registry.List()
}

func (n *node) Count(_ context.Context) int {
	return n.registry.Count()
}

func (n *node) Journal(_ context.Context, id string) ([]types.Journal, error) {
	journals, ok := n.registry.Journals(id)
	if !ok {
		return nil, errors.Join(fmt.Errorf("nodeID=%s", id), ErrNodeNotFound)
	}

	return journals, nil
}

// -------------------------------------------------------- Shutdown ------------------------------------------------ //

func (n *node) Shutdown(ctx context.Context) error {
	if !n.opts.StopNodesOnShutdown {
		return nil
	}

	errs := make([]error, 0)

	for _, node := range n.registry.List() {
		if !node.Running() {
			continue
		}

		if _, err := n.Stop(ctx, node.ID); err != nil && !errors.Is(err, ErrConflict) &&
			!errors.Is(err, ErrNodeNotFound) {
			errs = append(errs, err)
		}
	}

	slog.InfoContext(ctx, "nodes_stopped_on_shutdown", "errors", len(errs))

	return errors.Join(errs...)
}

// -------------------------------------------------------- UTILS --------------------------------------------------- //

func (n *node) observe(op types.Operation, since time.Time, err *error) {
	n.metrics.observeOperation(op, *err, since)
	n.metrics.setNodes(n.registry.CountByStatus())
}

func (n *node) publish(ctx context.Context, typ types.NodeEventType, rec *recorder, node types.Node) {
	event := types.NodeEvent{
		Type:        typ,
		OperationID: rec.operationID(),
		NodeID:      node.ID,
		NodeName:    node.Name,
		Status:      node.Status,
		VNCPort:     node.VNCPort,
		Time:        n.opts.Now(),
	}

	if err := n.events.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "event_publish_failed",
			"node_id", node.ID,
			"event_type", string(typ),
			"error", err.Error(),
		)
	}
}
