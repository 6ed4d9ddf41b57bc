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
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexandremahdhaoui/vncfleet/internal/types"
)

const metricsNamespace = "vncfleet"

// Metrics exposes node lifecycle metrics.
type Metrics struct {
	operations           *prometheus.CounterVec
	operationDuration    *prometheus.HistogramVec
	nodes                *prometheus.GaugeVec
	registrationFailures prometheus.Counter
	exitedProcesses      prometheus.Gauge
}

// NewMetrics creates the node lifecycle metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "node_operations_total",
			Help:      "Number of node lifecycle operations by operation and result.",
		}, []string{"operation", "result"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "node_operation_duration_seconds",
			Help:      "Duration of node lifecycle operations.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		nodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "nodes",
			Help:      "Number of registered nodes by status.",
		}, []string{"status"}),
		registrationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "gateway_registration_failures_total",
			Help:      "Number of runs that left a node without a console.",
		}),
		exitedProcesses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "nodes_process_exited",
			Help:      "Number of running nodes whose hypervisor process is no longer alive.",
		}),
	}

	reg.MustRegister(m.operations, m.operationDuration, m.nodes, m.registrationFailures, m.exitedProcesses)

	return m
}

func (m *Metrics) observeOperation(op types.Operation, err error, since time.Time) {
	result := "success"
	if err != nil {
		result = "error"
	}

	m.operations.WithLabelValues(string(op), result).Inc()
	m.operationDuration.WithLabelValues(string(op)).Observe(time.Since(since).Seconds())
}

func (m *Metrics) setNodes(counts map[types.NodeStatus]int) {
	for status, n := range counts {
		m.nodes.WithLabelValues(string(status)).Set(float64(n))
	}
}

func (m *Metrics) registrationFailed() {
	m.registrationFailures.Inc()
}

func (m *Metrics) setExitedProcesses(n int) {
	m.exitedProcesses.Set(float64(n))
}
