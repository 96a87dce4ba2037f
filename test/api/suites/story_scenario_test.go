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
	"errors"
	"net/http"
	"slices"

	"github.com/go-logr/logr"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscale/story-e2e/test/api"
)

var _ = Describe("Story Scenario", func() {
	Context("When running the complete story workflow", func() {
		It("should pass every step and report it", func() {
			// Given: A dedicated client so the scenario owns its session
			scenarioClient, err := api.NewAPIClientWithConfig(config)
			Expect(err).NotTo(HaveOccurred())

			// When: I run the workflow
			report := api.StoryWorkflow().Run(logr.NewContext(ctx, GinkgoLogr), scenarioClient, config)

			Expect(report.Render(GinkgoWriter, api.FormatYAML)).To(Succeed())

			// Then: Every step passes
			Expect(report.Err()).NotTo(HaveOccurred())
			Expect(report.Steps).To(HaveLen(8))

			for _, step := range report.Steps {
				Expect(step.Outcome).To(Equal(api.OutcomePassed), "step %q: %s", step.Name, step.Error)
			}
		})
	})

	Context("When the credentials are wrong", func() {
		It("should abort before any story call", func() {
			// Given: A configuration with a bad password
			badConfig := *config
			badConfig.Password = "not-" + config.Password

			scenarioClient, err := api.NewAPIClientWithConfig(&badConfig)
			Expect(err).NotTo(HaveOccurred())

			// When: I run the workflow
			report := api.StoryWorkflow().Run(ctx, scenarioClient, &badConfig)

			// Then: Setup fails and every step is skipped
			Expect(errors.Is(report.Err(), api.ErrSetup)).To(BeTrue())

			for _, step := range report.Steps {
				Expect(step.Outcome).To(Equal(api.OutcomeSkipped), "step %q", step.Name)
			}
		})
	})
})

var _ = Describe("Story Data Integrity", func() {
	Context("When a story has been created", func() {
		var storyID string

		BeforeEach(func() {
			_, storyID = api.CreateStoryWithCleanup(client, ctx, api.NewStoryPayload().Build())
		})

		It("should appear in the listing with its edited content", func() {
			// Given: The story was edited
			payload := api.NewUpdatedStoryPayload().WithTitle("Edited " + api.GenerateTestID()).Build()

			_, err := client.EditStory(ctx, storyID, payload)
			Expect(err).NotTo(HaveOccurred())

			// When: I list stories
			list, err := client.ListStories(ctx)
			Expect(err).NotTo(HaveOccurred())

			if !slices.ContainsFunc(list.Items, func(s api.Story) bool { return s.ID() != "" }) {
				Skip("the story listing does not expose story IDs")
			}

			// Then: The story carries the new title
			story := api.VerifyStoryPresence(list, storyID)
			Expect(story.Title()).To(Equal(payload.Title))
		})

		It("should disappear from the listing once deleted", func() {
			// When: I delete the story
			_, err := client.DeleteStory(ctx, storyID)
			Expect(err).NotTo(HaveOccurred())

			// Then: It is no longer listed
			list, err := client.ListStories(ctx)
			Expect(err).NotTo(HaveOccurred())

			api.VerifyStoryAbsence(list, storyID)
		})
	})
})

var _ = Describe("Security and Authentication", func() {
	Context("When no bearer token is presented", func() {
		It("should reject story calls with 401 Unauthorized", func() {
			// Given: A client that never authenticated
			anonymous, err := api.NewAPIClientWithConfig(config)
			Expect(err).NotTo(HaveOccurred())

			DeferCleanup(anonymous.Close)

			// When: I list stories
			list, err := anonymous.ListStories(ctx)

			// Then: The request is rejected
			Expect(list).To(BeNil())

			var statusErr *api.StatusError
			Expect(errors.As(err, &statusErr)).To(BeTrue(), "expected a status error, got %v", err)
			Expect(statusErr.Actual).To(Equal(http.StatusUnauthorized))
		})
	})
})
