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

package storytwin

import (
	"cmp"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Story is a stored story spoiler.
type Story struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`

	seq uint64
}

// Store holds all twin state in memory.
type Store struct {
	lock    sync.RWMutex
	stories map[string]Story
	tokens  map[string]string
	seq     uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		stories: map[string]Story{},
		tokens:  map[string]string{},
	}
}

// IssueToken mints a bearer token for the user.
func (s *Store) IssueToken(userName string) string {
	s.lock.Lock()
	defer s.lock.Unlock()

	token := uuid.NewString()
	s.tokens[token] = userName

	return token
}

// TokenOwner returns the user a token was issued to.
func (s *Store) TokenOwner(token string) (string, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	userName, ok := s.tokens[token]

	return userName, ok
}

// Create stores a new story and returns it.
func (s *Store) Create(title, description, url string) Story {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.seq++

	story := Story{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		URL:         url,
		seq:         s.seq,
	}

	s.stories[story.ID] = story

	return story
}

// Get returns a story by ID.
func (s *Store) Get(id string) (Story, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	story, ok := s.stories[id]

	return story, ok
}

// Update replaces a story's content, returning false if it does not exist.
func (s *Store) Update(id, title, description, url string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	story, ok := s.stories[id]
	if !ok {
		return false
	}

	story.Title = title
	story.Description = description
	story.URL = url

	s.stories[id] = story

	return true
}

// Delete removes a story, returning false if it does not exist.
func (s *Store) Delete(id string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.stories[id]; !ok {
		return false
	}

	delete(s.stories, id)

	return true
}

// List returns all stories, oldest first.
func (s *Store) List() []Story {
	s.lock.RLock()
	defer s.lock.RUnlock()

	stories := make([]Story, 0, len(s.stories))
	for _, story := range s.stories {
		stories = append(stories, story)
	}

	slices.SortFunc(stories, func(a, b Story) int {
		return cmp.Compare(a.seq, b.seq)
	})

	return stories
}

// Reset drops all stories and tokens.
func (s *Store) Reset() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.stories = map[string]Story{}
	s.tokens = map[string]string{}
}
