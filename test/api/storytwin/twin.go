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

// Package storytwin is an in-memory replica of the Story Spoiler API. It
// answers with the same status codes and messages as the live service so the
// harness can run without network access.
package storytwin

import (
	"github.com/go-chi/chi/v5"
)

// Twin bundles the twin's state and its HTTP surface.
type Twin struct {
	Store   *Store
	Handler *Handler
	Router  chi.Router
}

// New creates a twin accepting the given credentials.
func New(credentials Credentials) *Twin {
	store := NewStore()
	handler := NewHandler(store, credentials)

	return &Twin{
		Store:   store,
		Handler: handler,
		Router:  NewRouter(handler),
	}
}
