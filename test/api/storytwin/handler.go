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
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
)

// Messages returned by the twin, matching the live service.
const (
	messageCreated         = "Successfully created!"
	messageEdited          = "Successfully edited"
	messageDeleted         = "Deleted successfully!"
	messageNotFound        = "No spoilers..."
	messageDeleteFailed    = "Unable to delete this story spoiler!"
	messageRequiredFields  = "Title and description are required!"
	messageInvalidBody     = "Invalid request body!"
	messageInvalidLogin    = "Invalid username or password!"
	messageUnauthenticated = "Unauthorized"
)

// Credentials is the single account the twin accepts.
type Credentials struct {
	UserName string
	Password string
}

type message struct {
	Msg     string `json:"msg"`
	StoryID string `json:"storyId,omitempty"`
}

type storyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserName    string `json:"username"`
	AccessToken string `json:"accessToken"`
}

// Handler serves the story API.
type Handler struct {
	store       *Store
	credentials Credentials
}

// NewHandler creates a new story API handler.
func NewHandler(store *Store, credentials Credentials) *Handler {
	return &Handler{
		store:       store,
		credentials: credentials,
	}
}

// Routes mounts the story API routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/User/Authentication", h.Authenticate)

	r.Route("/api/Story", func(r chi.Router) {
		r.Use(h.requireBearer)

		r.Post("/Create", h.CreateStory)
		r.Put("/Edit/{storyId}", h.EditStory)
		r.Get("/All", h.ListStories)
		r.Delete("/Delete/{storyId}", h.DeleteStory)
	})
}

// NewRouter returns a router serving the handler.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	h.Routes(r)

	return r
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, &message{Msg: msg})
}

func (h *Handler) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeMessage(w, http.StatusUnauthorized, messageUnauthenticated)
			return
		}

		if _, ok := h.store.TokenOwner(token); !ok {
			writeMessage(w, http.StatusUnauthorized, messageUnauthenticated)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// storyID binds the storyId path parameter.
func storyID(r *http.Request) (string, error) {
	var id string

	options := runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Required:      true,
	}

	if err := runtime.BindStyledParameterWithOptions("simple", "storyId", chi.URLParam(r, "storyId"), &id, options); err != nil {
		return "", err
	}

	return id, nil
}

// Authenticate handles POST /api/User/Authentication.
func (h *Handler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var request loginRequest

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeMessage(w, http.StatusBadRequest, messageInvalidBody)
		return
	}

	if request.UserName != h.credentials.UserName || request.Password != h.credentials.Password {
		writeMessage(w, http.StatusUnauthorized, messageInvalidLogin)
		return
	}

	writeJSON(w, http.StatusOK, &loginResponse{
		UserName:    request.UserName,
		AccessToken: h.store.IssueToken(request.UserName),
	})
}

// decodeStory reads and validates a story body, writing the error response
// itself when the body is unusable.
func decodeStory(w http.ResponseWriter, r *http.Request) (*storyRequest, bool) {
	var request storyRequest

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeMessage(w, http.StatusBadRequest, messageInvalidBody)
		return nil, false
	}

	if request.Title == "" || request.Description == "" {
		writeMessage(w, http.StatusBadRequest, messageRequiredFields)
		return nil, false
	}

	return &request, true
}

// CreateStory handles POST /api/Story/Create.
func (h *Handler) CreateStory(w http.ResponseWriter, r *http.Request) {
	request, ok := decodeStory(w, r)
	if !ok {
		return
	}

	story := h.store.Create(request.Title, request.Description, request.URL)

	writeJSON(w, http.StatusCreated, &message{Msg: messageCreated, StoryID: story.ID})
}

// EditStory handles PUT /api/Story/Edit/{storyId}.
func (h *Handler) EditStory(w http.ResponseWriter, r *http.Request) {
	id, err := storyID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, ok := h.store.Get(id); !ok {
		writeMessage(w, http.StatusNotFound, messageNotFound)
		return
	}

	request, ok := decodeStory(w, r)
	if !ok {
		return
	}

	// Lost a race with a delete.
	if !h.store.Update(id, request.Title, request.Description, request.URL) {
		writeMessage(w, http.StatusNotFound, messageNotFound)
		return
	}

	writeMessage(w, http.StatusOK, messageEdited)
}

// ListStories handles GET /api/Story/All.
func (h *Handler) ListStories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.List())
}

// DeleteStory handles DELETE /api/Story/Delete/{storyId}.
func (h *Handler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	id, err := storyID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.store.Delete(id) {
		writeMessage(w, http.StatusBadRequest, messageDeleteFailed)
		return
	}

	writeMessage(w, http.StatusOK, messageDeleted)
}
