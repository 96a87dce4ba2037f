/*
Copyright 2026 Nscale.

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

package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// Outcome is the result of running a single step.
type Outcome string

const (
	OutcomePassed             Outcome = "passed"
	OutcomeFailed             Outcome = "failed"
	OutcomePreconditionFailed Outcome = "precondition-failed"
	OutcomeSkipped            Outcome = "skipped"
)

// State is threaded through every step of a scenario. Steps read what
// earlier steps recorded and record what later steps need.
type State struct {
	Session *Session

	// Story is the story created by the scenario, cleared once deleted.
	Story StoryHandle

	// Deleted is the story the scenario deleted.
	Deleted StoryHandle

	// EditedTitle is the title the story was last edited to.
	EditedTitle string
}

// Step is a named unit of a scenario. Run must check its own preconditions
// against the state and return an ErrPrecondition error, without touching
// the network, when they are not met.
type Step struct {
	Name string
	Run  func(ctx context.Context, client *APIClient, state *State) error
}

// StepResult records how a step went.
type StepResult struct {
	Name     string        `json:"name" yaml:"name"`
	Outcome  Outcome       `json:"outcome" yaml:"outcome"`
	Duration time.Duration `json:"-" yaml:"-"`
	Elapsed  string        `json:"duration" yaml:"duration"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`

	err error
}

// Err returns the error the step failed with, if any.
func (r *StepResult) Err() error {
	return r.err
}

// Report is the outcome of a scenario run.
type Report struct {
	Scenario   string       `json:"scenario" yaml:"scenario"`
	BaseURL    string       `json:"baseURL" yaml:"baseURL"`
	SetupError string       `json:"setupError,omitempty" yaml:"setupError,omitempty"`
	Steps      []StepResult `json:"steps" yaml:"steps"`

	setupErr error
}

// Step returns the result of the named step.
func (r *Report) Step(name string) (*StepResult, bool) {
	for i := range r.Steps {
		if r.Steps[i].Name == name {
			return &r.Steps[i], true
		}
	}

	return nil, false
}

// Err aggregates the setup error and every step failure.
func (r *Report) Err() error {
	if r.setupErr != nil {
		return r.setupErr
	}

	var errs []error

	for i := range r.Steps {
		if r.Steps[i].err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Steps[i].Name, r.Steps[i].err))
		}
	}

	return utilerrors.NewAggregate(errs)
}

// Scenario is an ordered list of dependent steps run against one session.
type Scenario struct {
	Name  string
	Steps []Step
}

// Run authenticates, runs every step in order and releases the client's
// connections afterwards, whatever the outcome. A setup failure skips all
// steps. A failed step does not stop the scenario; steps that depend on its
// state fail their precondition instead.
func (s *Scenario) Run(ctx context.Context, client *APIClient, config *TestConfig) *Report {
	log := logr.FromContextOrDiscard(ctx).WithValues("scenario", s.Name)

	defer client.Close()

	report := &Report{
		Scenario: s.Name,
		BaseURL:  client.BaseURL(),
		Steps:    make([]StepResult, 0, len(s.Steps)),
	}

	session, err := NewSession(ctx, client, config)
	if err != nil {
		log.Error(err, "setup failed, no steps will run")

		report.setupErr = err
		report.SetupError = err.Error()

		for _, step := range s.Steps {
			report.Steps = append(report.Steps, skipped(step.Name, err))
		}

		return report
	}

	state := &State{
		Session: session,
	}

	for _, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			report.Steps = append(report.Steps, skipped(step.Name, err))
			continue
		}

		result := runStep(ctx, client, state, step)

		log.Info("step complete", "step", result.Name, "outcome", result.Outcome, "duration", result.Duration)

		if result.err != nil {
			log.Error(result.err, "step failed", "step", result.Name)
		}

		report.Steps = append(report.Steps, result)
	}

	return report
}

func runStep(ctx context.Context, client *APIClient, state *State, step Step) StepResult {
	start := time.Now()
	err := step.Run(ctx, client, state)
	duration := time.Since(start)

	result := StepResult{
		Name:     step.Name,
		Outcome:  OutcomePassed,
		Duration: duration,
		Elapsed:  duration.Round(time.Millisecond).String(),
		err:      err,
	}

	if err != nil {
		result.Outcome = OutcomeFailed
		result.Error = err.Error()

		if errors.Is(err, ErrPrecondition) {
			result.Outcome = OutcomePreconditionFailed
		}
	}

	return result
}

func skipped(name string, err error) StepResult {
	return StepResult{
		Name:    name,
		Outcome: OutcomeSkipped,
		Elapsed: time.Duration(0).String(),
		Error:   err.Error(),
		err:     err,
	}
}
