// Package state persists per-resource StateEnvelopes and the pending-destroy
// FIFO, and defines the StateStore contract the engine drives.
//
// Grounded on the reference implementation's ResourceManager/
// FileResourceManager (reference file backend) plus a SQLite alternative
// backend for transactional, concurrent-safe deployments.
package state

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Envelope is the persisted record for one Resource's UUID: the last
// observed output, the declarative input as of the last successful apply,
// and identity/bookkeeping metadata. class_tag is a stable string
// identifying the adapter so the engine can reconstruct a resource for
// deferred destroy without the declaring program.
type Envelope struct {
	Output       json.RawMessage `json:"output"`
	Input        json.RawMessage `json:"input"`
	ClassTag     string          `json:"class"`
	Path         string          `json:"path"`
	UUID         uuid.UUID       `json:"uuid"`
	PlanUUID     *uuid.UUID      `json:"plan_uuid,omitempty"`
	PlanClassTag string          `json:"plan,omitempty"`
	ApplyUUID    uuid.UUID       `json:"apply_uuid"`
}

// Clone returns a deep-enough copy safe to mutate independently (the JSON
// payloads are copied; uuid.UUID is a value type).
func (e *Envelope) Clone() *Envelope {
	if e == nil {
		return nil
	}
	out := *e
	if e.Output != nil {
		out.Output = append(json.RawMessage{}, e.Output...)
	}
	if e.Input != nil {
		out.Input = append(json.RawMessage{}, e.Input...)
	}
	if e.PlanUUID != nil {
		id := *e.PlanUUID
		out.PlanUUID = &id
	}
	return &out
}
