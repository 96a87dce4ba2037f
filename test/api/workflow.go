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
	"fmt"
	"net/http"
)

// Step names of the story workflow.
const (
	StepCreateStory             = "create story"
	StepEditStory               = "edit story"
	StepListStories             = "list stories"
	StepDeleteStory             = "delete story"
	StepCreateIncompleteStory   = "create story with missing fields"
	StepEditNonExistentStory    = "edit non-existent story"
	StepDeleteNonExistentStory  = "delete non-existent story"
	StepDeleteDeletedStoryAgain = "delete deleted story again"
)

const storyWorkflowName = "story lifecycle"

// StoryWorkflow returns the end-to-end story scenario: the happy path
// create, edit, list and delete chain followed by the negative paths.
func StoryWorkflow() *Scenario {
	return &Scenario{
		Name: storyWorkflowName,
		Steps: []Step{
			{Name: StepCreateStory, Run: createStoryStep},
			{Name: StepEditStory, Run: editStoryStep},
			{Name: StepListStories, Run: listStoriesStep},
			{Name: StepDeleteStory, Run: deleteStoryStep},
			{Name: StepCreateIncompleteStory, Run: createIncompleteStoryStep},
			{Name: StepEditNonExistentStory, Run: editNonExistentStoryStep},
			{Name: StepDeleteNonExistentStory, Run: deleteNonExistentStoryStep},
			{Name: StepDeleteDeletedStoryAgain, Run: deleteDeletedStoryAgainStep},
		},
	}
}

func createStoryStep(ctx context.Context, client *APIClient, state *State) error {
	result, err := client.CreateStory(ctx, NewStoryPayload().Build())
	if err != nil {
		return err
	}

	storyID, err := RequireStoryID(result)
	if err != nil {
		return err
	}

	if err := RequireMessage(result, MessageCreated); err != nil {
		return err
	}

	state.Story.Set(storyID)

	return nil
}

func editStoryStep(ctx context.Context, client *APIClient, state *State) error {
	storyID, err := state.Story.ID()
	if err != nil {
		return err
	}

	payload := NewUpdatedStoryPayload().Build()

	result, err := client.EditStory(ctx, storyID, payload)
	if err != nil {
		return err
	}

	if err := RequireMessage(result, MessageEdited); err != nil {
		return err
	}

	state.EditedTitle = payload.Title

	return nil
}

// listStoriesStep needs no prior state, but when the listing exposes the
// edited story its title is checked too.
func listStoriesStep(ctx context.Context, client *APIClient, state *State) error {
	list, err := client.ListStories(ctx)
	if err != nil {
		return err
	}

	if err := RequireNonEmpty(list); err != nil {
		return err
	}

	if !state.Story.IsSet() || state.EditedTitle == "" {
		return nil
	}

	story, ok := list.Find(state.Story.Value())
	if !ok || story.Title() == "" {
		return nil
	}

	if story.Title() != state.EditedTitle {
		return bodyError(ErrStaleStory, list.Raw, fmt.Sprintf("expected title %q, got %q", state.EditedTitle, story.Title()))
	}

	return nil
}

func deleteStoryStep(ctx context.Context, client *APIClient, state *State) error {
	storyID, err := state.Story.ID()
	if err != nil {
		return err
	}

	result, err := client.DeleteStory(ctx, storyID)
	if err != nil {
		return err
	}

	if err := RequireMessage(result, MessageDeleted); err != nil {
		return err
	}

	state.Story.Clear()
	state.Deleted.Set(storyID)

	return nil
}

func createIncompleteStoryStep(ctx context.Context, client *APIClient, _ *State) error {
	result, err := client.CreateStory(ctx, NewIncompleteStoryPayload())

	_, err = ExpectRejection(result, err, http.StatusBadRequest)

	return err
}

func editNonExistentStoryStep(ctx context.Context, client *APIClient, _ *State) error {
	result, err := client.EditStory(ctx, InvalidEditStoryID, NewNonExistentStoryPayload().Build())

	statusErr, err := ExpectRejection(result, err, http.StatusNotFound)
	if err != nil {
		return err
	}

	return RequireRejectionMessage(statusErr, MessageNoSpoilers)
}

func deleteNonExistentStoryStep(ctx context.Context, client *APIClient, _ *State) error {
	result, err := client.DeleteStory(ctx, InvalidDeleteStoryID)

	statusErr, err := ExpectRejection(result, err, http.StatusBadRequest)
	if err != nil {
		return err
	}

	return RequireRejectionMessage(statusErr, MessageDeleteFailed)
}

// deleteDeletedStoryAgainStep checks a story cannot be deleted twice; the
// second attempt behaves like deleting a story that never existed.
func deleteDeletedStoryAgainStep(ctx context.Context, client *APIClient, state *State) error {
	if !state.Deleted.IsSet() {
		return preconditionError("deleted story ID", "story deletion")
	}

	result, err := client.DeleteStory(ctx, state.Deleted.Value())

	statusErr, err := ExpectRejection(result, err, http.StatusBadRequest)
	if err != nil {
		return err
	}

	return RequireRejectionMessage(statusErr, MessageDeleteFailed)
}
