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
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMissingConfiguration is raised when required settings are absent.
	ErrMissingConfiguration = errors.New("missing required configuration")

	// ErrInvalidConfiguration is raised when a setting cannot be used.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrSetup is raised when the session cannot be established. It is fatal
	// to the whole run.
	ErrSetup = errors.New("setup failed")

	// ErrPrecondition is raised when a step depends on state an earlier step
	// was meant to produce and that state is missing. No request is sent.
	ErrPrecondition = errors.New("precondition not met")

	// ErrMissingToken is raised when authentication succeeds without
	// returning an access token.
	ErrMissingToken = errors.New("response did not contain an access token")

	// ErrMissingStoryID is raised when a create response carries no story ID.
	ErrMissingStoryID = errors.New("response did not contain a story ID")

	// ErrMalformedBody is raised when a response body cannot be decoded.
	ErrMalformedBody = errors.New("malformed response body")

	// ErrUnexpectedMessage is raised when a response message does not match.
	ErrUnexpectedMessage = errors.New("unexpected response message")

	// ErrEmptyList is raised when a listing returns no stories.
	ErrEmptyList = errors.New("story list is empty")

	// ErrStaleStory is raised when a listing shows a story without the
	// content it was last edited to.
	ErrStaleStory = errors.New("story content was not updated")

	// ErrContractViolation is raised when a response does not satisfy the
	// OpenAPI description of the story API.
	ErrContractViolation = errors.New("response violates API contract")
)

// StatusError is returned when the API answers with a status code other
// than the one the caller expected. It carries everything needed to diagnose
// the failure without re-running the request.
type StatusError struct {
	Method   string
	Path     string
	Expected int
	Actual   int
	Body     string
	TraceID  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: expected %d, got %d, body: %s (trace ID: %s)", e.Expected, e.Actual, e.Body, e.TraceID)
}

// Message returns the msg field of the response body, or the empty string
// if the body is not a story API envelope.
func (e *StatusError) Message() string {
	var envelope APIResponse

	if err := json.Unmarshal([]byte(e.Body), &envelope); err != nil {
		return ""
	}

	return envelope.Msg
}

// BodyError is returned when a response has the expected status but its
// payload fails an assertion, cannot be decoded or breaks the contract. Err
// is, or wraps, one of the sentinel errors above.
type BodyError struct {
	Err    error
	Status int
	Body   string
	Detail string
}

func (e *BodyError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v: status %d, body: %s", e.Err, e.Status, e.Body)
	}

	return fmt.Sprintf("%v: %s: status %d, body: %s", e.Err, e.Detail, e.Status, e.Body)
}

func (e *BodyError) Unwrap() error {
	return e.Err
}

// preconditionError builds an ErrPrecondition naming the step that should
// have provided the missing state.
func preconditionError(what, producer string) error {
	return fmt.Errorf("%w: %s is not set, %s must run and succeed first", ErrPrecondition, what, producer)
}
