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

	"github.com/google/uuid"

	"github.com/alexandremahdhaoui/vncfleet/internal/types"
)

// recorder builds the journal of one operation.
type recorder struct {
	journal types.Journal
	now     func() time.Time
}

func newRecorder(op types.Operation, nodeID string, now func() time.Time) *recorder {
	return &recorder{
		journal: types.Journal{
			OperationID: uuid.New(),
			Operation:   op,
			NodeID:      nodeID,
			StartedAt:   now(),
			Entries:     make([]types.JournalEntry, 0),
		},
		now: now,
	}
}

// record appends the outcome of step. A nil err means the step succeeded.
func (r *recorder) record(step types.Step, err error) {
	e := types.JournalEntry{
		Step:    step,
		Outcome: types.StepOK,
		Time:    r.now(),
	}

	if err != nil {
		e.Outcome = types.StepFailed
		e.Error = err.Error()
	}

	r.journal.Entries = append(r.journal.Entries, e)
}

func (r *recorder) skip(step types.Step) {
	r.journal.Entries = append(r.journal.Entries, types.JournalEntry{
		Step:    step,
		Outcome: types.StepSkipped,
		Time:    r.now(),
	})
}

func (r *recorder) operationID() string {
	return r.journal.OperationID.String()
}
