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
	"strings"
)

func bodyError(err error, raw *Response, detail string) error {
	e := &BodyError{
		Err:    err,
		Detail: detail,
	}

	if raw != nil {
		e.Status = raw.StatusCode
		e.Body = string(raw.Body)
	}

	return e
}

// RequireMessage checks the response message matches exactly.
func RequireMessage(result *APIResponse, want string) error {
	if result.Msg != want {
		return bodyError(ErrUnexpectedMessage, result.Raw, fmt.Sprintf("expected %q, got %q", want, result.Msg))
	}

	return nil
}

// RequireRejectionMessage checks a rejected call's message contains want.
func RequireRejectionMessage(statusErr *StatusError, want string) error {
	if message := statusErr.Message(); !strings.Contains(message, want) {
		return &BodyError{
			Err:    ErrUnexpectedMessage,
			Status: statusErr.Actual,
			Body:   statusErr.Body,
			Detail: fmt.Sprintf("expected message containing %q, got %q", want, message),
		}
	}

	return nil
}

// RequireStoryID checks a create response carries a story ID and returns it.
func RequireStoryID(result *APIResponse) (string, error) {
	id := result.StoryIDValue()
	if id == "" {
		return "", bodyError(ErrMissingStoryID, result.Raw, "")
	}

	return id, nil
}

// RequireNonEmpty checks the listing holds at least one story.
func RequireNonEmpty(list *StoryList) error {
	if len(list.Items) == 0 {
		return bodyError(ErrEmptyList, list.Raw, "")
	}

	return nil
}
