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

// Package api provides end-to-end test utilities for the Story Spoiler API.
//
// # Client
//
// APIClient is a small hand written HTTP client rather than one generated
// from the OpenAPI description in openapi/story.yaml. Keeping the two
// independent means a change to the service's contract shows up either as a
// contract validation failure or as a change to this package, never silently.
//
// Every request carries W3C trace context headers so a failure can be found
// in the service's logs, and every failure carries the status code, the raw
// body and the trace ID.
//
// # Sessions and shared state
//
// A Session is established once by logging in. The ID of the story created
// by one step is carried to later steps in a StoryHandle, which refuses to
// hand out an empty ID: a step that depends on an earlier one fails with
// ErrPrecondition instead of sending a malformed request.
//
// # Scenarios
//
// StoryWorkflow models the whole create, edit, list and delete chain, plus
// the negative paths, as a Scenario of named steps sharing a State. It is run
// by the story-e2e command. The Ginkgo suites under suites/ express the same
// workflow as an ordered container.
//
// # Targets
//
// When API_BASE_URL is unset the suites and the command run against the
// in-memory twin in storytwin/.
package api
