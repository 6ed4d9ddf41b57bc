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
	"cmp"
	"slices"
	"sync"

	"github.com/alexandremahdhaoui/vncfleet/internal/types"
)

// MaxJournalsPerNode is the number of operation journals kept for each node.
const MaxJournalsPerNode = 10

// Registry holds the nodes known to the controller.
//
// Reads return copies, so a concurrent List never observes a partially updated node. Lifecycle operations must
// hold the node's lock, obtained with Lock, for their whole duration and re-read the node once it is acquired.
type Registry struct {
	mu       sync.RWMutex
	seq      uint64
	nodes    map[string]entry
	journals map[string][]types.Journal

	locksMu sync.Mutex
	// locks holds an entry only while an operation holds or awaits it.
	locks map[string]*opLock
}

type opLock struct {
	mu   sync.Mutex
	refs int
}

type entry struct {
	seq  uint64
	node types.Node
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes:    make(map[string]entry),
		journals: make(map[string][]types.Journal),
		locks:    make(map[string]*opLock),
	}
}

// Lock acquires the operation lock of the node and returns the function releasing it. Any id can be locked,
// known or not: the lock is forgotten once released by its last holder.
func (r *Registry) Lock(id string) (unlock func()) {
	r.locksMu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = &opLock{}
		r.locks[id] = l
	}
	l.refs++
	r.locksMu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		r.locksMu.Lock()
		defer r.locksMu.Unlock()

		l.refs--
		if l.refs == 0 {
			delete(r.locks, id)
		}
	}
}

// Put inserts or replaces the node. Replacing a node keeps its position in List.
func (r *Registry) Put(node types.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.nodes[node.ID]
	if !ok {
		r.seq++
		e.seq = r.seq
	}

	e.node = node
	r.nodes[node.ID] = e
}

// Get returns a copy of the node.
func (r *Registry) Get(id string) (types.Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.nodes[id]

	return e.node, ok
}

// Remove deletes the node and its journals. Operations waiting on the node's lock find the node gone once they
// acquire it.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.nodes, id)
	delete(r.journals, id)
}

// List returns copies of all nodes ordered by creation.
func (r *Registry) List() []types.Node {
	r.mu.RLock()
	entries := make([]entry, 0, len(r.nodes))
	for _, e := range r.nodes {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.seq, b.seq) })

	out := make([]types.Node, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.node)
	}

	return out
}

// Count returns the number of nodes.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.nodes)
}

// CountByStatus returns the number of nodes per status.
func (r *Registry) CountByStatus() map[types.NodeStatus]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := map[types.NodeStatus]int{
		types.NodeStopped: 0,
		types.NodeRunning: 0,
	}

	for _, e := range r.nodes {
		out[e.node.Status]++
	}

	return out
}

// AppendJournal records the journal of an operation on a registered node. Only the last MaxJournalsPerNode
// journals are kept. Journals of unknown nodes are dropped.
func (r *Registry) AppendJournal(j types.Journal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.nodes[j.NodeID]; !ok {
		return
	}

	journals := append(r.journals[j.NodeID], j)
	if len(journals) > MaxJournalsPerNode {
		journals = slices.Clone(journals[len(journals)-MaxJournalsPerNode:])
	}

	r.journals[j.NodeID] = journals
}

// Journals returns a copy of the journals of the node, oldest first.
func (r *Registry) Journals(id string) ([]types.Journal, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.nodes[id]; !ok {
		return nil, false
	}

	out := make([]types.Journal, 0, len(r.journals[id]))
	for _, j := range r.journals[id] {
		j.Entries = slices.Clone(j.Entries)
		out = append(out, j)
	}

	return out, true
}
