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
	"net/http"
	"strings"

	"k8s.io/utils/ptr"
)

// Messages the story API answers with. Success messages are matched exactly,
// failure messages by substring.
const (
	MessageCreated      = "Successfully created!"
	MessageEdited       = "Successfully edited"
	MessageDeleted      = "Deleted successfully!"
	MessageNoSpoilers   = "No spoilers"
	MessageDeleteFailed = "Unable to delete this story spoiler"
)

// Identifiers that are syntactically valid but never issued by the API.
const (
	InvalidEditStoryID   = "invalid-id-1234"
	InvalidDeleteStoryID = "invalid-id-5678"
)

// StoryPayload is the request body for creating and editing stories.
type StoryPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// IncompleteStoryPayload is a story body with the image URL left out
// entirely, used to probe required field validation.
type IncompleteStoryPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LoginRequest is the body of the authentication call.
type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// LoginResponse is the subset of the authentication response the harness uses.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

// APIResponse is the envelope returned by story mutations.
type APIResponse struct {
	Msg     string  `json:"msg"`
	StoryID *string `json:"storyId,omitempty"`

	// Raw is the HTTP exchange the envelope was decoded from.
	Raw *Response `json:"-"`
}

// StoryIDValue returns the story ID or the empty string when absent.
func (r *APIResponse) StoryIDValue() string {
	return ptr.Deref(r.StoryID, "")
}

// Response is a fully read HTTP response, along with the request that
// produced it.
type Response struct {
	Method     string
	Path       string
	StatusCode int
	Header     http.Header
	Body       []byte
	TraceID    string
}

// Story is a single entry of the story listing. The listing is decoded
// loosely since the API may add fields at will.
type Story map[string]interface{}

// StoryList is a decoded story listing.
type StoryList struct {
	Items []Story

	// Raw is the HTTP exchange the listing was decoded from.
	Raw *Response
}

// Find returns the listed story with the given ID.
func (l *StoryList) Find(storyID string) (Story, bool) {
	return FindStory(l.Items, storyID)
}

// ID returns the story identifier, if the listing exposes one.
func (s Story) ID() string {
	for _, key := range []string{"id", "storyId"} {
		if value, ok := s[key].(string); ok {
			return value
		}
	}

	return ""
}

// Title returns the story title, if present.
func (s Story) Title() string {
	value, _ := s["title"].(string)

	return value
}

// FindStory returns the listed story with the given ID.
func FindStory(stories []Story, storyID string) (Story, bool) {
	for _, story := range stories {
		if strings.EqualFold(story.ID(), storyID) {
			return story, true
		}
	}

	return nil, false
}
