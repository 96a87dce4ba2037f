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
	"fmt"
)

// Session is the authenticated context used for all story calls.
// It is immutable once established.
type Session struct {
	BaseURL string
	Token   string
}

// NewSession authenticates with the configured credentials and installs the
// bearer token on the client. Any failure wraps ErrSetup and is fatal to
// the run.
func NewSession(ctx context.Context, client *APIClient, config *TestConfig) (*Session, error) {
	login, err := client.Login(ctx, config.Username, config.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSetup, err)
	}

	client.SetAuthToken(login.AccessToken)

	return &Session{
		BaseURL: client.BaseURL(),
		Token:   login.AccessToken,
	}, nil
}

// StoryHandle holds the ID of the most recently created story so that later
// steps can act on it.
type StoryHandle struct {
	id string
}

// Set records a freshly created story.
func (h *StoryHandle) Set(id string) {
	h.id = id
}

// Clear forgets the story, e.g. once it has been deleted.
func (h *StoryHandle) Clear() {
	h.id = ""
}

// IsSet reports whether a story ID is held.
func (h *StoryHandle) IsSet() bool {
	return h.id != ""
}

// Value returns the held story ID, which may be empty.
func (h *StoryHandle) Value() string {
	return h.id
}

// ID returns the held story ID, or an ErrPrecondition error when story
// creation has not run or did not succeed.
func (h *StoryHandle) ID() (string, error) {
	if h.id == "" {
		return "", preconditionError("story ID", "story creation")
	}

	return h.id, nil
}
