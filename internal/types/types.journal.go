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
	"time"

	"github.com/google/uuid"
)

// Operation is a node lifecycle operation.
type Operation string

const (
	CreateOperation Operation = "create"
	RunOperation    Operation = "run"
	StopOperation   Operation = "stop"
	WipeOperation   Operation = "wipe"
	DeleteOperation Operation = "delete"
)

// Step is a sub-step of a lifecycle operation.
type Step string

const (
	AllocateStep          Step = "allocate"
	CreateOverlayStep     Step = "create-overlay"
	StartProcessStep      Step = "start-process"
	AwaitReadinessStep    Step = "await-readiness"
	RegisterGatewayStep   Step = "register-gateway"
	TerminateProcessStep  Step = "terminate-process"
	DeregisterGatewayStep Step = "deregister-gateway"
	DeleteOverlayStep     Step = "delete-overlay"
	RecreateOverlayStep   Step = "recreate-overlay"
	RemoveNodeStep        Step = "remove-node"
)

// StepOutcome is the outcome of a Step.
type StepOutcome string

const (
	StepOK      StepOutcome = "ok"
	StepFailed  StepOutcome = "failed"
	StepSkipped StepOutcome = "skipped"
)

// JournalEntry records the outcome of one sub-step.
type JournalEntry struct {
	Step    Step        `json:"step"`
	Outcome StepOutcome `json:"outcome"`
	Error   string      `json:"error,omitempty"`
	Time    time.Time   `json:"time"`
}

// Journal is the ordered list of sub-steps completed by one operation on one node.
//
// Operations are not atomic: a Journal is the contract describing which side effects happened when an operation
// fails half-way.
type Journal struct {
	OperationID uuid.UUID      `json:"operationId"`
	Operation   Operation      `json:"operation"`
	NodeID      string         `json:"nodeId"`
	StartedAt   time.Time      `json:"startedAt"`
	Entries     []JournalEntry `json:"entries"`
}

// Failed returns true if any entry failed.
func (j Journal) Failed() bool {
	for _, e := range j.Entries {
		if e.Outcome == StepFailed {
			return true
		}
	}

	return false
}
