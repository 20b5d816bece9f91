package manager

import "tasks-api/internal/models"

// Page - параметры страницы. Нумерация с нуля, сортировка по id ASC.
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int {
	return p.Number * p.Size
}

// SearchFilter - независимо-опциональные предикаты поиска.
// nil = предикат не задан. Значения сырые, нормализация (uppercase)
// происходит в TaskManager до обращения к хранилищу.
type SearchFilter struct {
	Status   *string
	Priority *string
	TagName  *string
}

// Storage - абстракция хранилища. Методы Get* возвращают (nil, nil),
// если записи нет: "не найдено" - не ошибка хранилища, а решение
// слоя manager.
type Storage interface {
	// Users
	CreateUser(user *models.User) (int64, error)
	GetUserByID(id int64) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByTelegramID(telegramID int64) (*models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id int64) error
	FindAllUsers(page Page) ([]models.User, int64, error)

	// Tasks
	CreateTask(task *models.Task) (int64, error)
	GetTask(id int64) (*models.Task, error)
	UpdateTask(task *models.Task) error
	DeleteTask(id int64) error
	FindTasksByUser(userID int64, page Page) ([]models.Task, int64, error)
	SearchTasks(userID int64, filter SearchFilter, page Page) ([]models.Task, int64, error)

	// Subtasks
	CreateSubtask(subtask *models.Subtask) (int64, error)
	GetSubtask(id int64) (*models.Subtask, error)
	UpdateSubtask(subtask *models.Subtask) error
	DeleteSubtask(id int64) error

	// Tags
	CreateTag(tag *models.Tag) (int64, error)
	GetTag(id int64) (*models.Tag, error)
	UpdateTag(tag *models.Tag) error
	DeleteTag(id int64) error
	FindTagsByUser(userID int64) ([]models.Tag, error)
	CountTagsByUser(userID int64) (int, error)
	AttachTag(taskID, tagID int64) error
	DetachTag(taskID, tagID int64) error
	DetachTagFromAll(tagID int64) error

	// Закрытие соединения
	Close() error
}
