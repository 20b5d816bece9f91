package server

import (
	"net/http"

	"tasks-api/internal/manager"
	"tasks-api/internal/models"
)

func findSubtaskHandler(sm *manager.SubtaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mustUser(w, r)
		if !ok {
			return
		}
		subtaskID, err := pathID(r, "subtaskId")
		if err != nil {
			respondError(w, r, err)
			return
		}

		subtask, err := sm.FindByID(user, subtaskID)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newSubtaskResponse(subtask))
	}
}

func addSubtaskHandler(sm *manager.SubtaskManager) http.HandlerFunc {
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

		var req models.SubtaskCreateRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, r, err)
			return
		}

		// В ответе - родительская задача со свежим списком подзадач
		task, err := sm.Add(user, taskID, req)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, newTaskResponse(task))
	}
}

func updateSubtaskHandler(sm *manager.SubtaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mustUser(w, r)
		if !ok {
			return
		}
		subtaskID, err := pathID(r, "subtaskId")
		if err != nil {
			respondError(w, r, err)
			return
		}

		var req models.SubtaskUpdateRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, r, err)
			return
		}

		subtask, err := sm.PartialUpdate(user, subtaskID, req)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newSubtaskResponse(subtask))
	}
}

func removeSubtaskHandler(sm *manager.SubtaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mustUser(w, r)
		if !ok {
			return
		}
		subtaskID, err := pathID(r, "subtaskId")
		if err != nil {
			respondError(w, r, err)
			return
		}

		task, err := sm.Remove(user, subtaskID)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newTaskResponse(task))
	}
}
