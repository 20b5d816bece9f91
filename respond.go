package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"tasks-api/internal/apperrors"
	"tasks-api/internal/logger"
	"tasks-api/internal/manager"
)

// StandardError - единый конверт ошибок API.
type StandardError struct {
	Message   string `json:"message"`
	Details   string `json:"details"`
	Timestamp string `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, StandardError{
		Message:   message,
		Details:   "uri=" + r.URL.Path,
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05"),
	})
}

// respondError переводит доменную ошибку в HTTP-статус.
// Единственное место маппинга: 400 / 401 / 403, остальное - 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperrors.ErrBadRequest):
		writeError(w, r, http.StatusBadRequest, apperrors.Message(err))
	case errors.Is(err, apperrors.ErrUnauthenticated):
		writeError(w, r, http.StatusUnauthorized, apperrors.Message(err))
	case errors.Is(err, apperrors.ErrAccessDenied):
		writeError(w, r, http.StatusForbidden, apperrors.Message(err))
	default:
		logger.Error(context.Background(), err, "Необработанная ошибка", "uri", r.URL.Path)
		writeError(w, r, http.StatusInternalServerError, err.Error())
	}
}

// decodeBody разбирает JSON-тело и валидирует его на границе запроса.
func decodeBody(r *http.Request, req interface{ Validate() error }) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return apperrors.BadRequest("Invalid request body: " + err.Error())
	}
	defer r.Body.Close()

	if err := req.Validate(); err != nil {
		return apperrors.BadRequest(err.Error())
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, apperrors.BadRequest("Invalid " + name)
	}
	return id, nil
}

// parsePage - ?page и ?size с дефолтами 0 и 5.
func parsePage(r *http.Request) (manager.Page, error) {
	page := manager.Page{Number: 0, Size: 5}

	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return page, apperrors.BadRequest("Invalid page parameter")
		}
		page.Number = n
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, apperrors.BadRequest("Invalid size parameter")
		}
		page.Size = n
	}
	return page, nil
}

func optionalParam(r *http.Request, name string) *string {
	if raw := r.URL.Query().Get(name); raw != "" {
		return &raw
	}
	return nil
}
