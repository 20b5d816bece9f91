package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"tasks-api/internal/manager"
	"tasks-api/internal/token"
)

// Managers - зависимости HTTP-слоя.
type Managers struct {
	Auth     *manager.AuthManager
	Tasks    *manager.TaskManager
	Subtasks *manager.SubtaskManager
	Tags     *manager.TagManager
	Users    *manager.UserManager
	Tokens   *token.Service
}

func NewRouter(m Managers) http.Handler {
	r := chi.NewRouter()

	// Публичные маршруты
	r.Post("/api/auth/register", registerHandler(m.Auth))
	r.Post("/api/auth/login", loginHandler(m.Auth))

	// Все остальное - только с bearer-токеном
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(m.Tokens, m.Users))

		r.Route("/api/tasks", func(r chi.Router) {
			r.Get("/", findAllTasksHandler(m.Tasks))
			r.Get("/search", searchTasksHandler(m.Tasks))
			r.Post("/", createTaskHandler(m.Tasks))
			r.Get("/{taskId}", findTaskHandler(m.Tasks))
			r.Patch("/{taskId}", updateTaskHandler(m.Tasks))
			r.Delete("/{taskId}", deleteTaskHandler(m.Tasks))
		})

		r.Route("/api/subtasks", func(r chi.Router) {
			r.Get("/{subtaskId}", findSubtaskHandler(m.Subtasks))
			r.Post("/{taskId}", addSubtaskHandler(m.Subtasks))
			r.Patch("/{subtaskId}", updateSubtaskHandler(m.Subtasks))
			r.Delete("/{subtaskId}", removeSubtaskHandler(m.Subtasks))
		})

		r.Route("/api/tags", func(r chi.Router) {
			r.Get("/", findAllTagsHandler(m.Tags))
			r.Post("/", createTagHandler(m.Tags))
			r.Get("/{tagId}", findTagHandler(m.Tags))
			r.Patch("/update/{tagId}", updateTagHandler(m.Tags))
			r.Patch("/add/{taskId}/{tagId}", addTagHandler(m.Tags))
			r.Patch("/remove/{taskId}/{tagId}", removeTagHandler(m.Tags))
			r.Delete("/{tagId}", deleteTagHandler(m.Tags))
		})

		r.Route("/api/users", func(r chi.Router) {
			// Свой профиль - любому аутентифицированному
			r.Patch("/update", updateUserHandler(m.Users))
			r.Delete("/delete/account", deleteAccountHandler(m.Users))

			// Админская поверхность
			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Get("/", findAllUsersHandler(m.Users))
				r.Get("/{userId}", findUserHandler(m.Users))
				r.Delete("/{userId}", deleteUserHandler(m.Users))
			})
		})
	})

	c := cors.New(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(r)
}
