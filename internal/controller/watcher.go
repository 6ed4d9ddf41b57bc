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
	"sync"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/wait"
)

// DefaultWatchInterval is the default period between two checks of the hypervisor processes.
const DefaultWatchInterval = 10 * time.Second

// Watcher reports running nodes whose hypervisor process exited without a stop request.
//
// Such nodes keep their "running" status: a subsequent stop releases their console and resets them.
type Watcher interface {
	// Start checks the processes every interval until ctx is done.
	Start(ctx context.Context)
	// Check inspects every running node once and returns the number of exited processes.
	Check(ctx context.Context) int
}

// NewWatcher returns a new Watcher.
func NewWatcher(registry *Registry, metrics *Metrics, interval time.Duration, logger logr.Logger) Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	return &watcher{
		registry: registry,
		metrics:  metrics,
		interval: interval,
		logger:   logger.WithName("watcher"),
		reported: make(map[string]struct{}),
	}
}

type watcher struct {
	registry *Registry
	metrics  *Metrics
	interval time.Duration
	logger   logr.Logger

	mu sync.Mutex
	// reported holds the nodes already logged, so each exit is logged once.
	reported map[string]struct{}
}

func (w *watcher) Start(ctx context.Context) {
	w.logger.Info("starting", "interval", w.interval.String())
	wait.UntilWithContext(ctx, func(ctx context.Context) { w.Check(ctx) }, w.interval)
	w.logger.Info("stopped")
}

func (w *watcher) Check(ctx context.Context) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	exited := 0
	seen := make(map[string]struct{})

	for _, node := range w.registry.List() {
		if !node.Running() || node.Process == nil {
			continue
		}

		if node.Process.IsAlive(ctx) {
			continue
		}

		exited++
		seen[node.ID] = struct{}{}

		if _, ok := w.reported[node.ID]; ok {
			continue
		}

		w.reported[node.ID] = struct{}{}
		w.logger.Info("hypervisor process exited",
			"node_id", node.ID,
			"node_name", node.Name,
			"process_id", node.ProcessID(),
			"vnc_port", node.VNCPort,
		)
	}

	for id := range w.reported {
		if _, ok := seen[id]; !ok {
			delete(w.reported, id)
		}
	}

	w.logger.V(1).Info("checked hypervisor processes", "exited", exited)
	w.metrics.setExitedProcesses(exited)

	return exited
}
