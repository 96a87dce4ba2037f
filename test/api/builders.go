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
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

func generateRandomName(prefix string) string {
	bytes := make([]byte, 4) // 8 hex characters
	_, _ = rand.Read(bytes)

	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(bytes))
}

func GenerateTestID() string {
	return generateRandomName("test")
}

// StoryPayloadBuilder builds story payloads for testing.
type StoryPayloadBuilder struct {
	payload StoryPayload
}

// NewStoryPayload creates a well formed story with a unique title.
func NewStoryPayload() *StoryPayloadBuilder {
	return &StoryPayloadBuilder{
		payload: StoryPayload{
			Title:       "Test Story " + GenerateTestID(),
			Description: "A description for test story",
			URL:         "https://example.com/image.png",
		},
	}
}

// NewUpdatedStoryPayload creates the replacement content used by edits.
func NewUpdatedStoryPayload() *StoryPayloadBuilder {
	return &StoryPayloadBuilder{
		payload: StoryPayload{
			Title:       "Updated Test Story " + GenerateTestID(),
			Description: "Updated description",
			URL:         "https://example.com/updated.png",
		},
	}
}

// NewNonExistentStoryPayload creates the body sent when editing a story
// that does not exist. Its content is irrelevant.
func NewNonExistentStoryPayload() *StoryPayloadBuilder {
	return &StoryPayloadBuilder{
		payload: StoryPayload{
			Title:       "Non-existing",
			Description: "No effect",
		},
	}
}

// NewIncompleteStoryPayload creates a body with empty required fields and no
// image URL.
func NewIncompleteStoryPayload() IncompleteStoryPayload {
	return IncompleteStoryPayload{}
}

// WithTitle sets the story title.
func (b *StoryPayloadBuilder) WithTitle(title string) *StoryPayloadBuilder {
	b.payload.Title = title
	return b
}

// WithDescription sets the story description.
func (b *StoryPayloadBuilder) WithDescription(description string) *StoryPayloadBuilder {
	b.payload.Description = description
	return b
}

// WithURL sets the story image URL.
func (b *StoryPayloadBuilder) WithURL(url string) *StoryPayloadBuilder {
	b.payload.URL = url
	return b
}

// Build returns the completed story payload.
func (b *StoryPayloadBuilder) Build() StoryPayload {
	return b.payload
}
