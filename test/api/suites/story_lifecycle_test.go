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

//nolint:testpackage,revive // test package in suites is standard for these tests
package suites

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscale/story-e2e/test/api"
)

// The story lifecycle is a chain: each spec relies on state recorded by the
// ones before it. ContinueOnFailure keeps the independent negative specs
// running when the chain breaks, while dependent specs fail on their
// precondition without contacting the API.
var _ = Describe("Story Lifecycle", Ordered, ContinueOnFailure, func() {
	var (
		story       api.StoryHandle
		deleted     api.StoryHandle
		editedTitle string
	)

	AfterAll(func() {
		if story.IsSet() {
			api.DeleteStoryIfPresent(client, ctx, story.Value())
		}
	})

	Context("When managing a story spoiler", func() {
		It("should create a story with all required fields", func() {
			// Given: A well formed story
			payload := api.NewStoryPayload().Build()

			// When: I create it
			result, err := client.CreateStory(ctx, payload)
			Expect(err).NotTo(HaveOccurred(), "Should create story (HTTP 201)")

			// Then: The API confirms creation and returns the new ID
			storyID, err := api.RequireStoryID(result)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Msg).To(Equal(api.MessageCreated))

			story.Set(storyID)

			GinkgoWriter.Printf("Created story %s with title %q\n", storyID, payload.Title)
		})

		It("should edit the created story", func() {
			// Given: The story created above
			storyID, err := story.ID()
			Expect(err).NotTo(HaveOccurred())

			// When: I replace its content
			payload := api.NewUpdatedStoryPayload().Build()

			result, err := client.EditStory(ctx, storyID, payload)
			Expect(err).NotTo(HaveOccurred(), "Should edit story (HTTP 200)")

			// Then: The API confirms the edit
			Expect(result.Msg).To(Equal(api.MessageEdited))

			editedTitle = payload.Title
		})

		It("should list all stories", func() {
			// When: I list stories
			list, err := client.ListStories(ctx)
			Expect(err).NotTo(HaveOccurred(), "Should list stories (HTTP 200)")

			// Then: At least one story is returned
			Expect(list.Items).NotTo(BeEmpty())

			GinkgoWriter.Printf("Listed %d stories\n", len(list.Items))

			// And: The edited story shows its new title when the listing identifies it
			if found, ok := list.Find(story.Value()); ok && story.IsSet() && editedTitle != "" && found.Title() != "" {
				Expect(found.Title()).To(Equal(editedTitle))
			}
		})

		It("should delete the story", func() {
			// Given: The story created above
			storyID, err := story.ID()
			Expect(err).NotTo(HaveOccurred())

			// When: I delete it
			result, err := client.DeleteStory(ctx, storyID)
			Expect(err).NotTo(HaveOccurred(), "Should delete story (HTTP 200)")

			// Then: The API confirms the deletion
			Expect(result.Msg).To(Equal(api.MessageDeleted))

			story.Clear()
			deleted.Set(storyID)
		})
	})

	Context("When sending invalid requests", func() {
		It("should reject a story with missing required fields", func() {
			// Given: A story with empty title and description and no URL
			// When: I try to create it
			result, err := client.CreateStory(ctx, api.NewIncompleteStoryPayload())

			// Then: The request is rejected with 400 Bad Request
			api.ExpectStatus(result, err, http.StatusBadRequest)
		})

		It("should report that a non-existent story cannot be edited", func() {
			// Given: A story ID that was never issued
			// When: I try to edit it
			result, err := client.EditStory(ctx, api.InvalidEditStoryID, api.NewNonExistentStoryPayload().Build())

			// Then: The request is rejected with 404 Not Found and an explanatory message
			statusErr := api.ExpectStatus(result, err, http.StatusNotFound)
			Expect(statusErr.Message()).To(ContainSubstring(api.MessageNoSpoilers))
		})

		It("should fail to delete a non-existent story", func() {
			// Given: A story ID that was never issued
			// When: I try to delete it
			result, err := client.DeleteStory(ctx, api.InvalidDeleteStoryID)

			// Then: The request is rejected with 400 Bad Request and an explanatory message
			statusErr := api.ExpectStatus(result, err, http.StatusBadRequest)
			Expect(statusErr.Message()).To(ContainSubstring(api.MessageDeleteFailed))
		})

		It("should fail to delete the deleted story again", func() {
			// Given: The story deleted above
			Expect(deleted.IsSet()).To(BeTrue(), "story deletion must run and succeed first")

			// When: I delete it a second time
			result, err := client.DeleteStory(ctx, deleted.Value())

			// Then: It behaves like a story that never existed
			statusErr := api.ExpectStatus(result, err, http.StatusBadRequest)
			Expect(statusErr.Message()).To(ContainSubstring(api.MessageDeleteFailed))
		})
	})
})
