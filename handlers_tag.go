package server

import (
	"net/http"

	"tasks-api/internal/manager"
	"tasks-api/internal/models"
)

func findTagHandler(tgm *manager.TagManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mustUser(w, r)
		if !ok {
			return
		}
		tagID, err := pathID(r, "tagId")
		if err != nil {
			respondError(w, r, err)
			return
		}

		tag, err := tgm.FindByID(user, tagID)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newTagResponse(tag))
	}
}

func findAllTagsHandler(tgm *manager.TagManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mustUser(w, r)
		if !ok {
			return
		}

		tags, err := tgm.FindAllByUser(user)
		if err != nil {
			respondError(w, r, err)
			return
		}

		content := make([]models.TagResponse, 0, len(tags))
		for i := range tags {
			content = append(content, newTagResponse(&tags[i]))
		}
		writeJSON(w, http.StatusOK, content)
	}
}

func createTagHandler(tgm *manager.TagManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mustUser(w, r)
		if !ok {
			return
		}
		var req models.TagRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, r, err)
			return
		}

		tag, err := tgm.Create(user, req)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, newTagResponse(tag))
	}
}

func updateTagHandler(tgm *manager.TagManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mustUser(w, r)
		if !ok {
			return
		}
		tagID, err := pathID(r, "tagId")
		if err != nil {
			respondError(w, r, err)
			return
		}

		var req models.TagRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, r, err)
			return
		}

		tag, err := tgm.Update(user, tagID, req)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newTagResponse(tag))
	}
}

func addTagHandler(tgm *manager.TagManager) http.HandlerFunc {
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
		tagID, err := pathID(r, "tagId")
		if err != nil {
			respondError(w, r, err)
			return
		}

		task, err := tgm.AttachTask(user, taskID, tagID)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newTaskResponse(task))
	}
}

func removeTagHandler(tgm *manager.TagManager) http.HandlerFunc {
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
		tagID, err := pathID(r, "tagId")
		if err != nil {
			respondError(w, r, err)
			return
		}

		task, err := tgm.DetachTask(user, taskID, tagID)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newTaskResponse(task))
	}
}

func deleteTagHandler(tgm *manager.TagManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mustUser(w, r)
		if !ok {
			return
		}
		tagID, err := pathID(r, "tagId")
		if err != nil {
			respondError(w, r, err)
			return
		}

		if err := tgm.Delete(user, tagID); err != nil {
			respondError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
