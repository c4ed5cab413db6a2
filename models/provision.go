package models

import (
	"time"

	"github.com/google/uuid"
)

// Mode selects between real backend calls and a simulated-success path.
// It is fixed at construction time from an explicit config switch.
type Mode string

const (
	ModeLive      Mode = "live"
	ModeSimulated Mode = "simulated"
)

// ServiceType identifies one of the enterprise communication products.
type ServiceType string

const (
	ServiceBulkSMS        ServiceType = "bulk-sms"
	ServiceHostedPBX      ServiceType = "hosted-pbx"
	ServiceVoiceBroadcast ServiceType = "voice-broadcast"
	ServiceContactCenter  ServiceType = "contact-center"
)

// KnownServiceTypes lists every product the portal can provision.
var KnownServiceTypes = []ServiceType{
	ServiceBulkSMS,
	ServiceHostedPBX,
	ServiceVoiceBroadcast,
	ServiceContactCenter,
}

// IsKnownServiceType reports whether s names a provisionable product.
func IsKnownServiceType(s ServiceType) bool {
	for _, k := range KnownServiceTypes {
		if k == s {
			return true
		}
	}
	return false
}

// StepStatus is the state of a single saga step or a whole run.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// SagaStep records one named step of a multi-service orchestration.
type SagaStep struct {
	Name       string     `json:"name" bson:"name"`
	Status     StepStatus `json:"status" bson:"status"`
	Error      string     `json:"error,omitempty" bson:"error,omitempty"`
	StartedAt  time.Time  `json:"startedAt" bson:"startedAt"`
	FinishedAt time.Time  `json:"finishedAt" bson:"finishedAt"`
}

// SagaRun is the recorded execution of a sequential, non-transactional
// orchestration (registration finalize or service activation). There is no
// compensation policy: failed runs keep the artifacts created by earlier
// steps, and the record exists so those states stay observable.
type SagaRun struct {
	ID        string      `json:"id" bson:"id"`
	Kind      string      `json:"kind" bson:"kind"`
	PartnerID int         `json:"partnerId" bson:"partnerId"`
	Service   ServiceType `json:"service,omitempty" bson:"service,omitempty"`
	Status    StepStatus  `json:"status" bson:"status"`
	Steps     []SagaStep  `json:"steps" bson:"steps"`
	CreatedAt time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// NewSagaRun starts a run of the given kind.
func NewSagaRun(kind string, partnerID int, service ServiceType) *SagaRun {
	now := time.Now()
	return &SagaRun{
		ID:        uuid.New().String(),
		Kind:      kind,
		PartnerID: partnerID,
		Service:   service,
		Status:    StepRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Step executes fn as a named step, recording its timing and outcome.
// The step's error is returned unchanged so callers keep their control flow.
func (r *SagaRun) Step(name string, fn func() error) error {
	step := SagaStep{Name: name, Status: StepRunning, StartedAt: time.Now()}
	err := fn()
	step.FinishedAt = time.Now()
	if err != nil {
		step.Status = StepFailed
		step.Error = err.Error()
		r.Status = StepFailed
	} else {
		step.Status = StepSucceeded
	}
	r.Steps = append(r.Steps, step)
	r.UpdatedAt = time.Now()
	return err
}

// TryStep records a step whose failure does not fail the run. Used for the
// trailing auto-login, which is the only non-fatal step of the finalize saga.
func (r *SagaRun) TryStep(name string, fn func() error) error {
	prior := r.Status
	err := r.Step(name, fn)
	if err != nil {
		r.Status = prior
	}
	return err
}

// Skip records a step that was deliberately not executed.
func (r *SagaRun) Skip(name string) {
	now := time.Now()
	r.Steps = append(r.Steps, SagaStep{Name: name, Status: StepSkipped, StartedAt: now, FinishedAt: now})
	r.UpdatedAt = now
}

// Finish marks the run succeeded unless a step already failed it.
func (r *SagaRun) Finish() {
	if r.Status != StepFailed {
		r.Status = StepSucceeded
	}
	r.UpdatedAt = time.Now()
}

// SetPartnerID backfills the partner id once a create step has produced it.
func (r *SagaRun) SetPartnerID(id int) {
	r.PartnerID = id
	r.UpdatedAt = time.Now()
}
