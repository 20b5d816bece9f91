package models

// Основные сущности. Равенство - по ID (surrogate key из БД).

type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Password   string `json:"-"` // bcrypt-хэш, наружу не отдаем
	Role       Role   `json:"role"`
	TelegramID int64  `json:"-"`
}

// Equals сравнивает пользователей по ID.
func (u *User) Equals(other *User) bool {
	if u == nil || other == nil {
		return false
	}
	return u.ID == other.ID
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Task struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"-"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	CreatedDate Date         `json:"createdDate"`
	DueDate     *Date        `json:"dueDate,omitempty"`
	Tags        []Tag        `json:"tags"`
	Subtasks    []Subtask    `json:"subtasks"`
}

type Subtask struct {
	ID          int64      `json:"id"`
	TaskID      int64      `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedDate Date       `json:"createdDate"`
	DueDate     *Date      `json:"dueDate,omitempty"`
}

type Tag struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"-"`
	Name   string `json:"name"`
}
