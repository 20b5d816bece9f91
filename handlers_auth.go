package server

import (
	"net/http"

	"tasks-api/internal/manager"
	"tasks-api/internal/models"
)

func registerHandler(am *manager.AuthManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, r, err)
			return
		}

		if _, err := am.Register(req); err != nil {
			respondError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
	}
}

func loginHandler(am *manager.AuthManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.AuthRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, r, err)
			return
		}

		signed, err := am.Login(req)
		if err != nil {
			respondError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, models.TokenResponse{Token: signed})
	}
}
