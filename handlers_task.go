package server

import (
	"net/http"

	"tasks-api/internal/manager"
	"tasks-api/internal/models"
)

func findTaskHandler(tm *manager.TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mustUser(w, r)
		if !ok {
			return
		}
		taskID, err := pathID(r, "taskId")
		if err != nil {
			respondError(w, r, err)
			return
		}

		task, err := tm.FindByID(user, taskID)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newTaskResponse(task))
	}
}

func findAllTasksHandler(tm *manager.TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mustUser(w, r)
		if !ok {
			return
		}
		page, err := parsePage(r)
		if err != nil {
			respondError(w, r, err)
			return
		}

		tasks, total, err := tm.FindAllByUser(user, page)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, pagedTasks(tasks, page, total))
	}
}

func searchTasksHandler(tm *manager.TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mustUser(w, r)
		if !ok {
			return
		}
		page, err := parsePage(r)
		if err != nil {
			respondError(w, r, err)
			return
		}

		filter := manager.SearchFilter{
			Status:   optionalParam(r, "status"),
			Priority: optionalParam(r, "priority"),
			TagName:  optionalParam(r, "tagName"),
		}

		tasks, total, err := tm.Search(user, filter, page)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, pagedTasks(tasks, page, total))
	}
}

func createTaskHandler(tm *manager.TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mustUser(w, r)
		if !ok {
			return
		}
		var req models.TaskCreateRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, r, err)
			return
		}

		task, err := tm.Create(user, req)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, newTaskResponse(task))
	}
}

func updateTaskHandler(tm *manager.TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mustUser(w, r)
		if !ok {
			return
		}
		taskID, err := pathID(r, "taskId")
		if err != nil {
			respondError(w, r, err)
			return
		}

		var req models.TaskUpdateRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, r, err)
			return
		}

		task, err := tm.PartialUpdate(user, taskID, req)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newTaskResponse(task))
	}
}

func deleteTaskHandler(tm *manager.TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mustUser(w, r)
		if !ok {
			return
		}
		taskID, err := pathID(r, "taskId")
		if err != nil {
			respondError(w, r, err)
			return
		}

		if err := tm.Delete(user, taskID); err != nil {
			respondError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func pagedTasks(tasks []models.Task, page manager.Page, total int64) models.PagedResponse[models.TaskResponse] {
	content := make([]models.TaskResponse, 0, len(tasks))
	for i := range tasks {
		content = append(content, newTaskResponse(&tasks[i]))
	}
	return models.PagedResponse[models.TaskResponse]{
		Content: content,
		Page:    models.NewPageMetadata(page.Number, page.Size, total),
	}
}
