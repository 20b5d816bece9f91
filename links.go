package server

import (
	"fmt"

	"tasks-api/internal/models"
)

// Сборка hypermedia-ссылок: чистые функции вместо наследуемых оберток.

func taskLinks(taskID int64) []models.Link {
	self := fmt.Sprintf("/api/tasks/%d", taskID)
	return []models.Link{
		{Rel: "self", Href: self},
		{Rel: "update", Href: self},
		{Rel: "delete", Href: self},
		{Rel: "findAllTasks", Href: "/api/tasks"},
		{Rel: "addSubtask", Href: fmt.Sprintf("/api/subtasks/%d", taskID)},
		{Rel: "addTag", Href: fmt.Sprintf("/api/tags/add/%d", taskID)},
	}
}

func subtaskLinks(subtaskID int64) []models.Link {
	self := fmt.Sprintf("/api/subtasks/%d", subtaskID)
	return []models.Link{
		{Rel: "self", Href: self},
		{Rel: "update", Href: self},
		{Rel: "removeSubtask", Href: self},
	}
}

func tagLinks(tagID int64) []models.Link {
	self := fmt.Sprintf("/api/tags/%d", tagID)
	return []models.Link{
		{Rel: "self", Href: self},
		{Rel: "findAllTags", Href: "/api/tags"},
		{Rel: "update", Href: fmt.Sprintf("/api/tags/update/%d", tagID)},
		{Rel: "delete", Href: self},
	}
}

func userLinks(userID int64) []models.Link {
	return []models.Link{
		{Rel: "self", Href: fmt.Sprintf("/api/users/%d", userID)},
		{Rel: "update", Href: "/api/users/update"},
	}
}

func newTaskResponse(task *models.Task) models.TaskResponse {
	return models.TaskResponse{Task: *task, Links: taskLinks(task.ID)}
}

func newSubtaskResponse(subtask *models.Subtask) models.SubtaskResponse {
	return models.SubtaskResponse{Subtask: *subtask, Links: subtaskLinks(subtask.ID)}
}

func newTagResponse(tag *models.Tag) models.TagResponse {
	return models.TagResponse{Tag: *tag, Links: tagLinks(tag.ID)}
}

func newUserResponse(user *models.User) models.UserResponse {
	resp := models.NewUserResponse(user)
	resp.Links = userLinks(user.ID)
	return resp
}
