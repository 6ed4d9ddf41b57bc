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
	"fmt"
	"sync/atomic"
)

// Allocator hands out node identifiers and VNC ports.
//
// Values are monotonic and never reused for the lifetime of the process, including after a node is deleted or
// after a failed create.
type Allocator interface {
	NextNodeID() string
	NextVNCPort() int
}

// NewAllocator returns an Allocator whose first node is "node_1" and whose first port is firstPort.
func NewAllocator(firstPort int) Allocator {
	a := &allocator{}
	a.nextPort.Store(int64(firstPort))

	return a
}

type allocator struct {
	lastID   atomic.Int64
	nextPort atomic.Int64
}

func (a *allocator) NextNodeID() string {
	return fmt.Sprintf("node_%d", a.lastID.Add(1))
}

func (a *allocator) NextVNCPort() int {
	return int(a.nextPort.Add(1) - 1)
}
