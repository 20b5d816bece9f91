package storage

import (
	"sort"
	"sync"

	"tasks-api/internal/manager"
	"tasks-api/internal/models"
)

// MemoryStorage - хранилище в памяти. Семантика повторяет SQLite-вариант,
// используется в тестах вместо файла БД.
type MemoryStorage struct {
	mu sync.Mutex

	users    map[int64]*models.User
	tasks    map[int64]*models.Task
	subtasks map[int64]*models.Subtask
	tags     map[int64]*models.Tag
	taskTags map[int64]map[int64]bool // taskID -> набор tagID

	nextUserID    int64
	nextTaskID    int64
	nextSubtaskID int64
	nextTagID     int64
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:         make(map[int64]*models.User),
		tasks:         make(map[int64]*models.Task),
		subtasks:      make(map[int64]*models.Subtask),
		tags:          make(map[int64]*models.Tag),
		taskTags:      make(map[int64]map[int64]bool),
		nextUserID:    1,
		nextTaskID:    1,
		nextSubtaskID: 1,
		nextTagID:     1,
	}
}

// Users

func (m *MemoryStorage) CreateUser(user *models.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextUserID
	m.nextUserID++
	stored := *user
	stored.ID = id
	m.users[id] = &stored
	return id, nil
}

func (m *MemoryStorage) GetUserByID(id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user, ok := m.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, nil
}

func (m *MemoryStorage) GetUserByUsername(username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MemoryStorage) GetUserByTelegramID(telegramID int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.TelegramID == telegramID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MemoryStorage) UpdateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MemoryStorage) DeleteUser(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, id)
	for taskID, task := range m.tasks {
		if task.UserID == id {
			m.deleteTaskLocked(taskID)
		}
	}
	for tagID, tag := range m.tags {
		if tag.UserID == id {
			delete(m.tags, tagID)
		}
	}
	return nil
}

func (m *MemoryStorage) FindAllUsers(page manager.Page) ([]models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		all = append(all, *user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return pageSlice(all, page), int64(len(all)), nil
}

// Tasks

func (m *MemoryStorage) CreateTask(task *models.Task) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextTaskID
	m.nextTaskID++
	stored := *task
	stored.ID = id
	m.tasks[id] = &stored
	return id, nil
}

func (m *MemoryStorage) GetTask(id int64) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil, nil
	}
	copied := m.assembleTaskLocked(task)
	return &copied, nil
}

func (m *MemoryStorage) UpdateTask(task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *task
	m.tasks[task.ID] = &stored
	return nil
}

func (m *MemoryStorage) DeleteTask(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleteTaskLocked(id)
	return nil
}

// Каскад: подзадачи удаляются, теги отвязываются
func (m *MemoryStorage) deleteTaskLocked(id int64) {
	delete(m.tasks, id)
	delete(m.taskTags, id)
	for subID, subtask := range m.subtasks {
		if subtask.TaskID == id {
			delete(m.subtasks, subID)
		}
	}
}

func (m *MemoryStorage) FindTasksByUser(userID int64, page manager.Page) ([]models.Task, int64, error) {
	return m.collectTasks(userID, manager.SearchFilter{}, page)
}

func (m *MemoryStorage) SearchTasks(userID int64, filter manager.SearchFilter, page manager.Page) ([]models.Task, int64, error) {
	return m.collectTasks(userID, filter, page)
}

func (m *MemoryStorage) collectTasks(userID int64, filter manager.SearchFilter, page manager.Page) ([]models.Task, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []models.Task
	for _, task := range m.tasks {
		if task.UserID != userID {
			continue
		}
		if filter.Status != nil && string(task.Status) != *filter.Status {
			continue
		}
		if filter.Priority != nil && string(task.Priority) != *filter.Priority {
			continue
		}
		assembled := m.assembleTaskLocked(task)
		if filter.TagName != nil && !hasTag(assembled.Tags, *filter.TagName) {
			continue
		}
		matched = append(matched, assembled)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return pageSlice(matched, page), int64(len(matched)), nil
}

func (m *MemoryStorage) assembleTaskLocked(task *models.Task) models.Task {
	copied := *task
	copied.Tags = []models.Tag{}
	copied.Subtasks = []models.Subtask{}

	for tagID := range m.taskTags[task.ID] {
		if tag, ok := m.tags[tagID]; ok {
			copied.Tags = append(copied.Tags, *tag)
		}
	}
	sort.Slice(copied.Tags, func(i, j int) bool { return copied.Tags[i].ID < copied.Tags[j].ID })

	for _, subtask := range m.subtasks {
		if subtask.TaskID == task.ID {
			copied.Subtasks = append(copied.Subtasks, *subtask)
		}
	}
	sort.Slice(copied.Subtasks, func(i, j int) bool { return copied.Subtasks[i].ID < copied.Subtasks[j].ID })

	return copied
}

// Subtasks

func (m *MemoryStorage) CreateSubtask(subtask *models.Subtask) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSubtaskID
	m.nextSubtaskID++
	stored := *subtask
	stored.ID = id
	m.subtasks[id] = &stored
	subtask.ID = id
	return id, nil
}

func (m *MemoryStorage) GetSubtask(id int64) (*models.Subtask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if subtask, ok := m.subtasks[id]; ok {
		copied := *subtask
		return &copied, nil
	}
	return nil, nil
}

func (m *MemoryStorage) UpdateSubtask(subtask *models.Subtask) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *subtask
	m.subtasks[subtask.ID] = &stored
	return nil
}

func (m *MemoryStorage) DeleteSubtask(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.subtasks, id)
	return nil
}

// Tags

func (m *MemoryStorage) CreateTag(tag *models.Tag) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextTagID
	m.nextTagID++
	stored := *tag
	stored.ID = id
	m.tags[id] = &stored
	return id, nil
}

func (m *MemoryStorage) GetTag(id int64) (*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tag, ok := m.tags[id]; ok {
		copied := *tag
		return &copied, nil
	}
	return nil, nil
}

func (m *MemoryStorage) UpdateTag(tag *models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *tag
	m.tags[tag.ID] = &stored
	return nil
}

func (m *MemoryStorage) DeleteTag(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tags, id)
	return nil
}

func (m *MemoryStorage) FindTagsByUser(userID int64) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := []models.Tag{}
	for _, tag := range m.tags {
		if tag.UserID == userID {
			list = append(list, *tag)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *MemoryStorage) CountTagsByUser(userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, tag := range m.tags {
		if tag.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStorage) AttachTag(taskID, tagID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.taskTags[taskID] == nil {
		m.taskTags[taskID] = make(map[int64]bool)
	}
	m.taskTags[taskID][tagID] = true
	return nil
}

func (m *MemoryStorage) DetachTag(taskID, tagID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.taskTags[taskID], tagID)
	return nil
}

func (m *MemoryStorage) DetachTagFromAll(tagID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for taskID := range m.taskTags {
		delete(m.taskTags[taskID], tagID)
	}
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

func hasTag(tags []models.Tag, name string) bool {
	for _, tag := range tags {
		if tag.Name == name {
			return true
		}
	}
	return false
}

func pageSlice[T any](all []T, page manager.Page) []T {
	if page.Size <= 0 {
		return all
	}
	start := page.Offset()
	if start >= len(all) {
		return []T{}
	}
	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
