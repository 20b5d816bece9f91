package manager

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"tasks-api/internal/models"
)

// stubStorage - заглушка хранилища для тестов метрик.
// Поведение задается функциональными полями, остальные методы не используются.
type stubStorage struct {
	createTask func(task *models.Task) (int64, error)
	getTask    func(id int64) (*models.Task, error)
	updateTask func(task *models.Task) error
}

func (s *stubStorage) CreateTask(task *models.Task) (int64, error) { return s.createTask(task) }
func (s *stubStorage) GetTask(id int64) (*models.Task, error)      { return s.getTask(id) }
func (s *stubStorage) UpdateTask(task *models.Task) error          { return s.updateTask(task) }

func (s *stubStorage) CreateUser(*models.User) (int64, error)             { return 0, nil }
func (s *stubStorage) GetUserByID(int64) (*models.User, error)            { return nil, nil }
func (s *stubStorage) GetUserByUsername(string) (*models.User, error)     { return nil, nil }
func (s *stubStorage) GetUserByTelegramID(int64) (*models.User, error)    { return nil, nil }
func (s *stubStorage) UpdateUser(*models.User) error                      { return nil }
func (s *stubStorage) DeleteUser(int64) error                             { return nil }
func (s *stubStorage) FindAllUsers(Page) ([]models.User, int64, error)    { return nil, 0, nil }
func (s *stubStorage) DeleteTask(int64) error                             { return nil }
func (s *stubStorage) FindTasksByUser(int64, Page) ([]models.Task, int64, error) {
	return nil, 0, nil
}
func (s *stubStorage) SearchTasks(int64, SearchFilter, Page) ([]models.Task, int64, error) {
	return nil, 0, nil
}
func (s *stubStorage) CreateSubtask(*models.Subtask) (int64, error) { return 0, nil }
func (s *stubStorage) GetSubtask(int64) (*models.Subtask, error)    { return nil, nil }
func (s *stubStorage) UpdateSubtask(*models.Subtask) error          { return nil }
func (s *stubStorage) DeleteSubtask(int64) error                    { return nil }
func (s *stubStorage) CreateTag(*models.Tag) (int64, error)         { return 0, nil }
func (s *stubStorage) GetTag(int64) (*models.Tag, error)            { return nil, nil }
func (s *stubStorage) UpdateTag(*models.Tag) error                  { return nil }
func (s *stubStorage) DeleteTag(int64) error                        { return nil }
func (s *stubStorage) FindTagsByUser(int64) ([]models.Tag, error)   { return nil, nil }
func (s *stubStorage) CountTagsByUser(int64) (int, error)           { return 0, nil }
func (s *stubStorage) AttachTag(int64, int64) error                 { return nil }
func (s *stubStorage) DetachTag(int64, int64) error                 { return nil }
func (s *stubStorage) DetachTagFromAll(int64) error                 { return nil }
func (s *stubStorage) Close() error                                 { return nil }

func TestTaskMetrics(t *testing.T) {
	// Сохраняем оригинальные метрики
	originalCreateTaskCount := createTaskCount
	originalUpdateTaskCount := updateTaskCount
	originalTaskDescLength := taskDescLength

	// Создаем новый регистр для тестов
	registry := prometheus.NewRegistry()

	testCreateTaskCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasksapi_tasks_created_total",
			Help: "Test counter",
		},
		[]string{"status"},
	)
	testUpdateTaskCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasksapi_tasks_updated_total",
			Help: "Test counter",
		},
		[]string{"status"},
	)
	testTaskDescLength := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tasksapi_task_desc_length_bytes",
			Help:    "Test histogram",
			Buckets: []float64{50, 100, 250, 500},
		},
	)

	registry.MustRegister(testCreateTaskCount)
	registry.MustRegister(testUpdateTaskCount)
	registry.MustRegister(testTaskDescLength)

	// Подменяем глобальные метрики
	createTaskCount = testCreateTaskCount
	updateTaskCount = testUpdateTaskCount
	taskDescLength = testTaskDescLength
	defer func() {
		createTaskCount = originalCreateTaskCount
		updateTaskCount = originalUpdateTaskCount
		taskDescLength = originalTaskDescLength
	}()

	tasks := map[int64]*models.Task{}
	store := &stubStorage{
		createTask: func(task *models.Task) (int64, error) {
			stored := *task
			stored.ID = 1
			tasks[1] = &stored
			return 1, nil
		},
		getTask: func(id int64) (*models.Task, error) {
			if task, ok := tasks[id]; ok {
				copied := *task
				return &copied, nil
			}
			return nil, nil
		},
		updateTask: func(task *models.Task) error {
			stored := *task
			tasks[task.ID] = &stored
			return nil
		},
	}
	tm := NewTaskManager(store)
	user := &models.User{ID: 1, Username: "alice", Role: models.RoleUser}

	// Успешное создание
	if _, err := tm.Create(user, models.TaskCreateRequest{Title: "Задача", Description: "описание"}); err != nil {
		t.Fatalf("Ошибка создания задачи: %v", err)
	}
	if got := testutil.ToFloat64(testCreateTaskCount.WithLabelValues("success")); got != 1 {
		t.Errorf("Ожидался 1 success, получено %v", got)
	}

	// Гистограмма получила сэмпл
	metrics, err := registry.Gather()
	if err != nil {
		t.Fatalf("Ошибка сбора метрик: %v", err)
	}
	foundHistogram := false
	for _, mf := range metrics {
		if mf.GetName() == "tasksapi_task_desc_length_bytes" {
			foundHistogram = true
			if len(mf.GetMetric()) == 0 {
				t.Error("В гистограмме нет сэмплов")
			}
			break
		}
	}
	if !foundHistogram {
		t.Error("Гистограмма длины описания не найдена")
	}

	// Обновление без изменений - счетчик ошибок
	if _, err := tm.PartialUpdate(user, 1, models.TaskUpdateRequest{}); err == nil {
		t.Error("Ожидалась ошибка при пустом обновлении")
	}
	if got := testutil.ToFloat64(testUpdateTaskCount.WithLabelValues("error")); got != 1 {
		t.Errorf("Ожидался 1 error, получено %v", got)
	}

	// Успешное обновление
	title := "Новое"
	if _, err := tm.PartialUpdate(user, 1, models.TaskUpdateRequest{Title: &title}); err != nil {
		t.Fatalf("Ошибка обновления: %v", err)
	}
	if got := testutil.ToFloat64(testUpdateTaskCount.WithLabelValues("success")); got != 1 {
		t.Errorf("Ожидался 1 success, получено %v", got)
	}
}
