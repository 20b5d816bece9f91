package server

import (
	"context"
	"net/http"
	"strings"

	"tasks-api/internal/manager"
	"tasks-api/internal/models"
	"tasks-api/internal/token"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// authMiddleware проверяет bearer-токен и кладет пользователя в контекст
// запроса. Дальше он передается в manager-слой явным параметром.
func authMiddleware(tokens *token.Service, users *manager.UserManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				writeError(w, r, http.StatusUnauthorized, "User not authenticated")
				return
			}

			username, err := tokens.Validate(strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "User not authenticated")
				return
			}

			user, err := users.FindByUsername(username)
			if err != nil {
				respondError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentUser достает аутентифицированного пользователя из контекста.
func currentUser(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	return user, ok
}

// mustUser - middleware гарантирует наличие пользователя, но проверка
// остается на случай маршрута вне защищенной группы.
func mustUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "User not authenticated")
		return nil, false
	}
	return user, true
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := mustUser(w, r)
		if !ok {
			return
		}
		if !user.IsAdmin() {
			writeError(w, r, http.StatusForbidden, "Access denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}
