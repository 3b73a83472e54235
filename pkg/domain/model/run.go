package model

import (
	"time"

	"github.com/google/uuid"
)

// StepName identifies one step of the release pipeline. The step order is
// fixed; every run reports the same sequence of names.
type StepName string

const (
	StepProvision     StepName = "provision"
	StepPrerequisites StepName = "prerequisites"
	StepCheckout      StepName = "checkout"
	StepInstall       StepName = "install"
	StepTest          StepName = "test"
	StepBuild         StepName = "build"
	StepPublish       StepName = "publish"
)

// StepOrder is the canonical execution order of pipeline steps.
var StepOrder = []StepName{
	StepProvision,
	StepPrerequisites,
	StepCheckout,
	StepInstall,
	StepTest,
	StepBuild,
	StepPublish,
}

// StepStatus is the terminal state of a single step within a run.
type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
	// StepSkipped means the step did not apply to this run (checkout in
	// local mode, publish behind a closed gate). A skipped step is a
	// success, not a failure.
	StepSkipped StepStatus = "skipped"
)

// StepResult records the outcome of one executed (or skipped) step.
type StepResult struct {
	Name       StepName      `json:"name" firestore:"name"`
	Status     StepStatus    `json:"status" firestore:"status"`
	Duration   time.Duration `json:"duration_ns" firestore:"duration_ns"`
	OutputTail string        `json:"output_tail,omitempty" firestore:"output_tail,omitempty"`
}

// RunReport is the full record of one pipeline run: the trigger that
// started it, the ordered step results, and the artifacts the build step
// produced. Serve mode persists these through a RunStore.
type RunReport struct {
	ID         string         `json:"id" firestore:"id"`
	Project    string         `json:"project" firestore:"project"`
	Trigger    TriggerContext `json:"trigger" firestore:"trigger"`
	Steps      []StepResult   `json:"steps" firestore:"steps"`
	Artifacts  []Artifact     `json:"artifacts,omitempty" firestore:"artifacts,omitempty"`
	Published  bool           `json:"published" firestore:"published"`
	Error      string         `json:"error,omitempty" firestore:"error,omitempty"`
	FailedStep StepName       `json:"failed_step,omitempty" firestore:"failed_step,omitempty"`
	StartedAt  time.Time      `json:"started_at" firestore:"started_at"`
	FinishedAt time.Time      `json:"finished_at" firestore:"finished_at"`
}

// NewRunReport starts a report for a run of the given project.
func NewRunReport(project string, trigger TriggerContext) *RunReport {
	return &RunReport{
		ID:        uuid.NewString(),
		Project:   project,
		Trigger:   trigger,
		StartedAt: time.Now().UTC(),
	}
}

// AddStep appends a step result to the report.
func (r *RunReport) AddStep(result StepResult) {
	r.Steps = append(r.Steps, result)
}

// Fail marks the report as failed at the given step.
func (r *RunReport) Fail(step StepName, err error) {
	r.FailedStep = step
	if err != nil {
		r.Error = err.Error()
	}
	r.FinishedAt = time.Now().UTC()
}

// Complete marks the report as finished successfully.
func (r *RunReport) Complete() {
	r.FinishedAt = time.Now().UTC()
}

// Succeeded reports whether the run finished without a failing step.
func (r *RunReport) Succeeded() bool {
	return r.FailedStep == ""
}

// StepSequence returns the ordered (name, status) pairs of the run,
// suitable for comparing two runs for determinism.
func (r *RunReport) StepSequence() []string {
	seq := make([]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		seq = append(seq, string(s.Name)+":"+string(s.Status))
	}
	return seq
}
