package server

import (
	"net/http"

	"tasks-api/internal/manager"
	"tasks-api/internal/models"
)

func findAllUsersHandler(um *manager.UserManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := parsePage(r)
		if err != nil {
			respondError(w, r, err)
			return
		}

		users, total, err := um.FindAll(page)
		if err != nil {
			respondError(w, r, err)
			return
		}

		content := make([]models.UserResponse, 0, len(users))
		for i := range users {
			content = append(content, newUserResponse(&users[i]))
		}
		writeJSON(w, http.StatusOK, models.PagedResponse[models.UserResponse]{
			Content: content,
			Page:    models.NewPageMetadata(page.Number, page.Size, total),
		})
	}
}

func findUserHandler(um *manager.UserManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userId")
		if err != nil {
			respondError(w, r, err)
			return
		}

		user, err := um.FindByID(userID)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newUserResponse(user))
	}
}

func updateUserHandler(um *manager.UserManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mustUser(w, r)
		if !ok {
			return
		}
		var req models.UserUpdateRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, r, err)
			return
		}

		updated, err := um.PartialUpdate(user, req)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newUserResponse(updated))
	}
}

func deleteUserHandler(um *manager.UserManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userId")
		if err != nil {
			respondError(w, r, err)
			return
		}

		if err := um.DeleteByID(userID); err != nil {
			respondError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteAccountHandler(um *manager.UserManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mustUser(w, r)
		if !ok {
			return
		}

		if err := um.DeleteAccount(user); err != nil {
			respondError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
