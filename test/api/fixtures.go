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
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/nscale/story-e2e/test/api/storytwin"
)

// StartTwinIfRequired starts an in-process story twin when no remote API is
// configured, pointing config.BaseURL at it. The twin is shut down when the
// calling node's cleanup runs.
func StartTwinIfRequired(config *TestConfig) {
	if !config.UseTwin() {
		return
	}

	twin := storytwin.New(storytwin.Credentials{
		UserName: config.Username,
		Password: config.Password,
	})

	server := httptest.NewServer(twin.Router)
	config.BaseURL = server.URL

	ginkgo.GinkgoWriter.Printf("No API_BASE_URL configured, using story twin at %s\n", server.URL)

	ginkgo.DeferCleanup(server.Close)
}

// CreateStoryWithCleanup creates a story and schedules its deletion.
func CreateStoryWithCleanup(client *APIClient, ctx context.Context, payload StoryPayload) (*APIResponse, string) {
	result, err := client.CreateStory(ctx, payload)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	storyID, err := RequireStoryID(result)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	ginkgo.GinkgoWriter.Printf("Created story with ID: %s\n", storyID)

	// Schedule cleanup - this runs whether the test passes or fails so we don't need to clean up manually
	ginkgo.DeferCleanup(func() {
		DeleteStoryIfPresent(client, ctx, storyID)
	})

	return result, storyID
}

// DeleteStoryIfPresent deletes a story, tolerating one that is already gone.
func DeleteStoryIfPresent(client *APIClient, ctx context.Context, storyID string) {
	ginkgo.GinkgoWriter.Printf("Cleaning up story: %s\n", storyID)

	_, err := client.DeleteStory(ctx, storyID)

	var statusErr *StatusError

	switch {
	case err == nil:
		ginkgo.GinkgoWriter.Printf("Successfully deleted story: %s\n", storyID)
	case errors.As(err, &statusErr) && statusErr.Actual == http.StatusBadRequest:
		ginkgo.GinkgoWriter.Printf("Story %s was already deleted\n", storyID)
	default:
		ginkgo.GinkgoWriter.Printf("Warning: Failed to delete story %s: %v\n", storyID, err)
	}
}

// ExpectStatus asserts a call was rejected with the given status and returns
// the rejection for further inspection.
func ExpectStatus(result *APIResponse, err error, status int) *StatusError {
	statusErr, rejectionErr := ExpectRejection(result, err, status)
	gomega.ExpectWithOffset(1, rejectionErr).NotTo(gomega.HaveOccurred())

	return statusErr
}

// VerifyStoryPresence verifies that the story is in the listing.
func VerifyStoryPresence(list *StoryList, storyID string) Story {
	story, ok := list.Find(storyID)
	gomega.ExpectWithOffset(1, ok).To(gomega.BeTrue(), "Expected story ID %s to be present in the list", storyID)

	return story
}

// VerifyStoryAbsence verifies that the story is not in the listing.
func VerifyStoryAbsence(list *StoryList, storyID string) {
	_, ok := list.Find(storyID)
	gomega.ExpectWithOffset(1, ok).To(gomega.BeFalse(), "Expected story ID %s to be absent from the list", storyID)
}
