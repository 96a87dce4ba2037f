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
	"fmt"

	"github.com/oapi-codegen/runtime"
)

// Path templates, as they appear in the OpenAPI description.
const (
	PathAuthentication = "/api/User/Authentication"
	PathCreateStory    = "/api/Story/Create"
	PathEditStory      = "/api/Story/Edit/{storyId}"
	PathListStories    = "/api/Story/All"
	PathDeleteStory    = "/api/Story/Delete/{storyId}"
)

// Endpoints contains all API endpoint patterns.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// Authentication endpoints.
func (e *Endpoints) Authentication() string {
	return PathAuthentication
}

// Story endpoints.
func (e *Endpoints) CreateStory() string {
	return PathCreateStory
}

func (e *Endpoints) EditStory(storyID string) (string, error) {
	return storyPath("/api/Story/Edit/", storyID)
}

func (e *Endpoints) ListStories() string {
	return PathListStories
}

func (e *Endpoints) DeleteStory(storyID string) (string, error) {
	return storyPath("/api/Story/Delete/", storyID)
}

// storyPath appends a simple-style, path-escaped story ID to the prefix, the
// same way generated OpenAPI clients render path parameters.
func storyPath(prefix, storyID string) (string, error) {
	if storyID == "" {
		return "", preconditionError("story ID", "story creation")
	}

	param, err := runtime.StyleParamWithLocation("simple", false, "storyId", runtime.ParamLocationPath, storyID)
	if err != nil {
		return "", fmt.Errorf("rendering storyId path parameter: %w", err)
	}

	return prefix + param, nil
}
