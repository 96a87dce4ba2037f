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

package storytwin_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nscale/story-e2e/test/api/storytwin"
)

const (
	userName = "alice"
	password = "secret"
)

type fixture struct {
	t      *testing.T
	twin   *storytwin.Twin
	server *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	twin := storytwin.New(storytwin.Credentials{UserName: userName, Password: password})

	server := httptest.NewServer(twin.Router)
	t.Cleanup(server.Close)

	return &fixture{
		t:      t,
		twin:   twin,
		server: server,
	}
}

// do issues a request and decodes the JSON response into out, if given.
func (f *fixture) do(method, path, token string, body, out interface{}) int {
	f.t.Helper()

	var buffer bytes.Buffer

	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buffer).Encode(body))
	}

	req, err := http.NewRequestWithContext(f.t.Context(), method, f.server.URL+path, &buffer)
	require.NoError(f.t, err)

	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(f.t, err)

	defer resp.Body.Close()

	require.Equal(f.t, "application/json", resp.Header.Get("Content-Type"))

	if out != nil {
		require.NoError(f.t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

func (f *fixture) login() string {
	f.t.Helper()

	var response struct {
		AccessToken string `json:"accessToken"`
	}

	status := f.do(http.MethodPost, "/api/User/Authentication", "", map[string]string{"userName": userName, "password": password}, &response)
	require.Equal(f.t, http.StatusOK, status)
	require.NotEmpty(f.t, response.AccessToken)

	return response.AccessToken
}

type message struct {
	Msg     string `json:"msg"`
	StoryID string `json:"storyId"`
}

func story(title, description string) map[string]string {
	return map[string]string{
		"title":       title,
		"description": description,
		"url":         "https://example.com/image.png",
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	var response message

	status := f.do(http.MethodPost, "/api/User/Authentication", "", map[string]string{"userName": userName, "password": "wrong"}, &response)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Invalid username or password!", response.Msg)

	token := f.login()

	owner, ok := f.twin.Store.TokenOwner(token)
	require.True(t, ok)
	require.Equal(t, userName, owner)
}

// TestRequireBearer ensures story routes reject missing and unknown tokens.
func TestRequireBearer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	require.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/Story/All", "", nil, nil))
	require.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/Story/All", "forged", nil, nil))
	require.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/Story/Create", "", story("Title", "Description"), nil))

	require.Empty(t, f.twin.Store.List())
}

// TestStoryLifecycle ensures each operation answers with the live service's
// status codes and messages.
func TestStoryLifecycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	token := f.login()

	var created message

	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/Story/Create", token, story("Title", "Description"), &created))
	require.Equal(t, "Successfully created!", created.Msg)
	require.NotEmpty(t, created.StoryID)

	var edited message

	require.Equal(t, http.StatusOK, f.do(http.MethodPut, "/api/Story/Edit/"+created.StoryID, token, story("New title", "New description"), &edited))
	require.Equal(t, "Successfully edited", edited.Msg)

	var stories []storytwin.Story

	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/Story/All", token, nil, &stories))
	require.Len(t, stories, 1)
	require.Equal(t, created.StoryID, stories[0].ID)
	require.Equal(t, "New title", stories[0].Title)

	var deleted message

	require.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/api/Story/Delete/"+created.StoryID, token, nil, &deleted))
	require.Equal(t, "Deleted successfully!", deleted.Msg)

	var again message

	require.Equal(t, http.StatusBadRequest, f.do(http.MethodDelete, "/api/Story/Delete/"+created.StoryID, token, nil, &again))
	require.Equal(t, "Unable to delete this story spoiler!", again.Msg)

	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/Story/All", token, nil, &stories))
	require.Empty(t, stories)
}

func TestCreateStoryValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	token := f.login()

	var response message

	require.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/Story/Create", token, map[string]string{"title": "", "description": ""}, &response))
	require.Equal(t, "Title and description are required!", response.Msg)

	require.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/Story/Create", token, "not an object", &response))
	require.Equal(t, "Invalid request body!", response.Msg)

	require.Empty(t, f.twin.Store.List())
}

// TestUnknownStory ensures edits of unknown stories are not found while
// deletes of them are bad requests, as the live service does.
func TestUnknownStory(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	token := f.login()

	var response message

	require.Equal(t, http.StatusNotFound, f.do(http.MethodPut, "/api/Story/Edit/invalid-id-1234", token, story("Non-existing", "No effect"), &response))
	require.Contains(t, response.Msg, "No spoilers")

	// Existence is checked before the body.
	require.Equal(t, http.StatusNotFound, f.do(http.MethodPut, "/api/Story/Edit/invalid-id-1234", token, map[string]string{}, &response))

	require.Equal(t, http.StatusBadRequest, f.do(http.MethodDelete, "/api/Story/Delete/invalid-id-5678", token, nil, &response))
	require.Contains(t, response.Msg, "Unable to delete this story spoiler")
}

// TestEscapedStoryID ensures escaped path parameters are decoded.
func TestEscapedStoryID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	token := f.login()

	var response message

	require.Equal(t, http.StatusNotFound, f.do(http.MethodPut, "/api/Story/Edit/a%20b", token, story("Title", "Description"), &response))
	require.Equal(t, "No spoilers...", response.Msg)
}

func TestStoreListOrder(t *testing.T) {
	t.Parallel()

	store := storytwin.NewStore()

	first := store.Create("First", "One", "")
	second := store.Create("Second", "Two", "")

	stories := store.List()
	require.Len(t, stories, 2)
	require.Equal(t, first.ID, stories[0].ID)
	require.Equal(t, second.ID, stories[1].ID)

	require.True(t, store.Update(first.ID, "First edited", "One", ""))
	require.False(t, store.Update("missing", "", "", ""))

	store.Reset()
	require.Empty(t, store.List())
}
