package storage

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"

	"tasks-api/internal/manager"
	"tasks-api/internal/models"
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия БД: %v", err)
	}

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %v", err)
	}

	// Без этого не работает каскадное удаление подзадач
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("ошибка включения foreign_keys: %v", err)
	}

	if err := CreateTables(db); err != nil {
		return nil, err
	}

	log.Printf("SQLite база данных инициализирована: %s", dbPath)
	return &SQLiteStorage{db: db}, nil
}

// CreateTables создает схему. Используется и сервером, и cmd/migrate.
func CreateTables(db *sql.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'USER',
			telegram_id INTEGER UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'UNDONE',
			priority TEXT NOT NULL DEFAULT 'NONE',
			created_date DATETIME NOT NULL,
			due_date DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS subtasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'UNDONE',
			created_date DATETIME NOT NULL,
			due_date DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS task_tags (
			task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
			PRIMARY KEY (task_id, tag_id)
		)`,
	}

	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			return fmt.Errorf("ошибка создания таблицы: %v", err)
		}
	}
	return nil
}

// Закрытие соединения
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Методы для работы с пользователями

func (s *SQLiteStorage) CreateUser(user *models.User) (int64, error) {
	query := `
	INSERT INTO users (username, password_hash, role, telegram_id)
	VALUES (?, ?, ?, ?)`

	var telegramID interface{}
	if user.TelegramID != 0 {
		telegramID = user.TelegramID
	}

	result, err := s.db.Exec(query, user.Username, user.Password, string(user.Role), telegramID)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteStorage) GetUserByID(id int64) (*models.User, error) {
	return s.getUser("SELECT id, username, password_hash, role, telegram_id FROM users WHERE id = ?", id)
}

func (s *SQLiteStorage) GetUserByUsername(username string) (*models.User, error) {
	return s.getUser("SELECT id, username, password_hash, role, telegram_id FROM users WHERE username = ?", username)
}

func (s *SQLiteStorage) GetUserByTelegramID(telegramID int64) (*models.User, error) {
	return s.getUser("SELECT id, username, password_hash, role, telegram_id FROM users WHERE telegram_id = ?", telegramID)
}

func (s *SQLiteStorage) getUser(query string, arg interface{}) (*models.User, error) {
	var user models.User
	var role string
	var telegramID sql.NullInt64

	err := s.db.QueryRow(query, arg).Scan(&user.ID, &user.Username, &user.Password, &role, &telegramID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	user.Role = models.Role(role)
	if telegramID.Valid {
		user.TelegramID = telegramID.Int64
	}
	return &user, nil
}

func (s *SQLiteStorage) UpdateUser(user *models.User) error {
	query := "UPDATE users SET username = ?, password_hash = ?, role = ? WHERE id = ?"
	_, err := s.db.Exec(query, user.Username, user.Password, string(user.Role), user.ID)
	return err
}

func (s *SQLiteStorage) DeleteUser(id int64) error {
	_, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	return err
}

func (s *SQLiteStorage) FindAllUsers(page manager.Page) ([]models.User, int64, error) {
	var total int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
	SELECT id, username, password_hash, role, telegram_id
	FROM users ORDER BY id LIMIT ? OFFSET ?`

	rows, err := s.db.Query(query, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		var role string
		var telegramID sql.NullInt64

		if err := rows.Scan(&user.ID, &user.Username, &user.Password, &role, &telegramID); err != nil {
			return nil, 0, err
		}
		user.Role = models.Role(role)
		if telegramID.Valid {
			user.TelegramID = telegramID.Int64
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

// Методы для работы с задачами

const taskColumns = "t.id, t.user_id, t.title, t.description, t.status, t.priority, t.created_date, t.due_date"

func (s *SQLiteStorage) CreateTask(task *models.Task) (int64, error) {
	query := `
	INSERT INTO tasks (user_id, title, description, status, priority, created_date, due_date)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := s.db.Exec(query,
		task.UserID, task.Title, task.Description,
		string(task.Status), string(task.Priority),
		task.CreatedDate.Time, dueDateArg(task.DueDate),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteStorage) GetTask(id int64) (*models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks t WHERE t.id = ?"

	row := s.db.QueryRow(query, id)
	task, err := scanTaskRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if err := s.loadTaskRelations(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *SQLiteStorage) UpdateTask(task *models.Task) error {
	query := `
	UPDATE tasks
	SET title = ?, description = ?, status = ?, priority = ?, due_date = ?
	WHERE id = ?`

	_, err := s.db.Exec(query,
		task.Title, task.Description, string(task.Status), string(task.Priority),
		dueDateArg(task.DueDate), task.ID,
	)
	return err
}

func (s *SQLiteStorage) DeleteTask(id int64) error {
	// Подзадачи и связи с тегами уходят по ON DELETE CASCADE
	result, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("задача с ID %d не найдена", id)
	}
	return nil
}

func (s *SQLiteStorage) FindTasksByUser(userID int64, page manager.Page) ([]models.Task, int64, error) {
	return s.SearchTasks(userID, manager.SearchFilter{}, page)
}

// SearchTasks - динамическая выборка: заданные предикаты добавляются
// в WHERE, отсутствующие не ограничивают выборку. Выборка всегда
// ограничена пользователем.
func (s *SQLiteStorage) SearchTasks(userID int64, filter manager.SearchFilter, page manager.Page) ([]models.Task, int64, error) {
	from := `
	FROM tasks t
	LEFT JOIN task_tags tt ON t.id = tt.task_id
	LEFT JOIN tags tg ON tt.tag_id = tg.id
	WHERE t.user_id = ?`
	args := []interface{}{userID}

	if filter.Status != nil {
		from += " AND t.status = ?"
		args = append(args, *filter.Status)
	}
	if filter.Priority != nil {
		from += " AND t.priority = ?"
		args = append(args, *filter.Priority)
	}
	if filter.TagName != nil {
		from += " AND tg.name = ?"
		args = append(args, *filter.TagName)
	}

	var total int64
	if err := s.db.QueryRow("SELECT COUNT(DISTINCT t.id) "+from, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT DISTINCT " + taskColumns + from + " ORDER BY t.id LIMIT ? OFFSET ?"
	args = append(args, page.Size, page.Offset())

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	for i := range tasks {
		if err := s.loadTaskRelations(&tasks[i]); err != nil {
			return nil, 0, err
		}
	}
	return tasks, total, nil
}

func (s *SQLiteStorage) loadTaskRelations(task *models.Task) error {
	task.Tags = []models.Tag{}
	task.Subtasks = []models.Subtask{}

	tagQuery := `
	SELECT tg.id, tg.user_id, tg.name
	FROM tags tg
	JOIN task_tags tt ON tg.id = tt.tag_id
	WHERE tt.task_id = ? ORDER BY tg.id`

	rows, err := s.db.Query(tagQuery, task.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name); err != nil {
			return err
		}
		task.Tags = append(task.Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	subQuery := `
	SELECT id, task_id, title, description, status, created_date, due_date
	FROM subtasks WHERE task_id = ? ORDER BY id`

	subRows, err := s.db.Query(subQuery, task.ID)
	if err != nil {
		return err
	}
	defer subRows.Close()

	for subRows.Next() {
		subtask, err := scanSubtask(subRows)
		if err != nil {
			return err
		}
		task.Subtasks = append(task.Subtasks, *subtask)
	}
	return subRows.Err()
}

// Методы для подзадач

func (s *SQLiteStorage) CreateSubtask(subtask *models.Subtask) (int64, error) {
	query := `
	INSERT INTO subtasks (task_id, title, description, status, created_date, due_date)
	VALUES (?, ?, ?, ?, ?, ?)`

	result, err := s.db.Exec(query,
		subtask.TaskID, subtask.Title, subtask.Description,
		string(subtask.Status), subtask.CreatedDate.Time, dueDateArg(subtask.DueDate),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteStorage) GetSubtask(id int64) (*models.Subtask, error) {
	query := `
	SELECT id, task_id, title, description, status, created_date, due_date
	FROM subtasks WHERE id = ?`

	rows, err := s.db.Query(query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanSubtask(rows)
}

func (s *SQLiteStorage) UpdateSubtask(subtask *models.Subtask) error {
	query := `
	UPDATE subtasks
	SET title = ?, description = ?, status = ?, due_date = ?
	WHERE id = ?`

	_, err := s.db.Exec(query,
		subtask.Title, subtask.Description, string(subtask.Status),
		dueDateArg(subtask.DueDate), subtask.ID,
	)
	return err
}

func (s *SQLiteStorage) DeleteSubtask(id int64) error {
	result, err := s.db.Exec("DELETE FROM subtasks WHERE id = ?", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("подзадача с ID %d не найдена", id)
	}
	return nil
}

// Методы для тегов

func (s *SQLiteStorage) CreateTag(tag *models.Tag) (int64, error) {
	result, err := s.db.Exec("INSERT INTO tags (user_id, name) VALUES (?, ?)", tag.UserID, tag.Name)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteStorage) GetTag(id int64) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.QueryRow("SELECT id, user_id, name FROM tags WHERE id = ?", id).
		Scan(&tag.ID, &tag.UserID, &tag.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

func (s *SQLiteStorage) UpdateTag(tag *models.Tag) error {
	_, err := s.db.Exec("UPDATE tags SET name = ? WHERE id = ?", tag.Name, tag.ID)
	return err
}

func (s *SQLiteStorage) DeleteTag(id int64) error {
	_, err := s.db.Exec("DELETE FROM tags WHERE id = ?", id)
	return err
}

func (s *SQLiteStorage) FindTagsByUser(userID int64) ([]models.Tag, error) {
	rows, err := s.db.Query("SELECT id, user_id, name FROM tags WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Tag{}
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name); err != nil {
			return nil, err
		}
		list = append(list, tag)
	}
	return list, rows.Err()
}

func (s *SQLiteStorage) CountTagsByUser(userID int64) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM tags WHERE user_id = ?", userID).Scan(&count)
	return count, err
}

func (s *SQLiteStorage) AttachTag(taskID, tagID int64) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)", taskID, tagID)
	return err
}

func (s *SQLiteStorage) DetachTag(taskID, tagID int64) error {
	_, err := s.db.Exec("DELETE FROM task_tags WHERE task_id = ? AND tag_id = ?", taskID, tagID)
	return err
}

func (s *SQLiteStorage) DetachTagFromAll(tagID int64) error {
	_, err := s.db.Exec("DELETE FROM task_tags WHERE tag_id = ?", tagID)
	return err
}

// Вспомогательные функции сканирования

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTaskRow(row rowScanner) (*models.Task, error) {
	var task models.Task
	var description sql.NullString
	var status, priority string
	var createdDate sql.NullTime
	var dueDate sql.NullTime

	err := row.Scan(
		&task.ID, &task.UserID, &task.Title, &description,
		&status, &priority, &createdDate, &dueDate,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	task.Status = models.TaskStatus(status)
	task.Priority = models.TaskPriority(priority)
	if createdDate.Valid {
		task.CreatedDate = models.NewDate(createdDate.Time)
	}
	if dueDate.Valid {
		due := models.NewDate(dueDate.Time)
		task.DueDate = &due
	}
	return &task, nil
}

func scanTasks(rows *sql.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		task, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanSubtask(rows *sql.Rows) (*models.Subtask, error) {
	var subtask models.Subtask
	var description sql.NullString
	var status string
	var createdDate sql.NullTime
	var dueDate sql.NullTime

	err := rows.Scan(
		&subtask.ID, &subtask.TaskID, &subtask.Title, &description,
		&status, &createdDate, &dueDate,
	)
	if err != nil {
		return nil, err
	}

	subtask.Description = description.String
	subtask.Status = models.TaskStatus(status)
	if createdDate.Valid {
		subtask.CreatedDate = models.NewDate(createdDate.Time)
	}
	if dueDate.Valid {
		due := models.NewDate(dueDate.Time)
		subtask.DueDate = &due
	}
	return &subtask, nil
}

func dueDateArg(d *models.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.Time
}
