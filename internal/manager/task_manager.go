package manager

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tasks-api/internal/apperrors"
	"tasks-api/internal/logger"
	"tasks-api/internal/models"
)

var (
	createTaskCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasksapi_tasks_created_total",
			Help: "Total number of task create operations",
		},
		[]string{"status"},
	)

	updateTaskCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasksapi_tasks_updated_total",
			Help: "Total number of task partial-update operations",
		},
		[]string{"status"},
	)

	taskDescLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tasksapi_task_desc_length_bytes",
			Help:    "Length distribution of task descriptions",
			Buckets: []float64{50, 100, 250, 500},
		},
	)

	searchTaskDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tasksapi_task_search_duration_seconds",
			Help:    "Duration of customized search in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

type TaskManager struct {
	storage Storage
}

func NewTaskManager(storage Storage) *TaskManager {
	return &TaskManager{storage: storage}
}

// Create сохраняет новую задачу текущего пользователя.
// Дефолты: status=UNDONE, priority=NONE, createdDate=сегодня.
func (tm *TaskManager) Create(user *models.User, req models.TaskCreateRequest) (*models.Task, error) {
	task := &models.Task{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StatusUndone,
		Priority:    models.PriorityNone,
		CreatedDate: models.Today(),
		DueDate:     req.DueDate,
		Tags:        []models.Tag{},
		Subtasks:    []models.Subtask{},
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}

	id, err := tm.storage.CreateTask(task)
	if err != nil {
		createTaskCount.WithLabelValues("error").Inc()
		return nil, err
	}
	task.ID = id

	createTaskCount.WithLabelValues("success").Inc()
	taskDescLength.Observe(float64(len(req.Description)))
	logger.Info(context.Background(), "Задача создана", "taskID", id, "userID", user.ID)
	return task, nil
}

// FindByID возвращает задачу, если она принадлежит пользователю.
func (tm *TaskManager) FindByID(user *models.User, taskID int64) (*models.Task, error) {
	return tm.FindOwnedTask(user, taskID)
}

func (tm *TaskManager) FindAllByUser(user *models.User, page Page) ([]models.Task, int64, error) {
	return tm.storage.FindTasksByUser(user.ID, page)
}

// Search - поиск с опциональными предикатами. Каждый заданный предикат
// приводится к верхнему регистру, выборка всегда ограничена задачами
// самого пользователя.
func (tm *TaskManager) Search(user *models.User, filter SearchFilter, page Page) ([]models.Task, int64, error) {
	startTime := time.Now()
	defer func() {
		searchTaskDuration.Observe(time.Since(startTime).Seconds())
	}()

	filter.Status = upperOrNil(filter.Status)
	filter.Priority = upperOrNil(filter.Priority)
	filter.TagName = upperOrNil(filter.TagName)

	return tm.storage.SearchTasks(user.ID, filter, page)
}

// PartialUpdate применяет только переданные поля и считает изменения.
// Ноль изменений - ошибка, запись в хранилище не выполняется.
func (tm *TaskManager) PartialUpdate(user *models.User, taskID int64, req models.TaskUpdateRequest) (*models.Task, error) {
	task, err := tm.FindOwnedTask(user, taskID)
	if err != nil {
		updateTaskCount.WithLabelValues("error").Inc()
		return nil, err
	}

	countChanges := 0

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		task.Title = *req.Title
		countChanges++
	}
	if req.Description != nil {
		task.Description = *req.Description
		countChanges++
	}
	if req.Status != nil {
		task.Status = *req.Status
		countChanges++
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
		countChanges++
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
		countChanges++
	}

	if countChanges == 0 {
		updateTaskCount.WithLabelValues("error").Inc()
		return nil, apperrors.BadRequest("Please provide updates")
	}

	if err := tm.storage.UpdateTask(task); err != nil {
		updateTaskCount.WithLabelValues("error").Inc()
		return nil, err
	}

	updateTaskCount.WithLabelValues("success").Inc()
	return task, nil
}

// Delete удаляет задачу вместе с подзадачами, теги отвязываются.
func (tm *TaskManager) Delete(user *models.User, taskID int64) error {
	task, err := tm.FindOwnedTask(user, taskID)
	if err != nil {
		return err
	}

	if err := tm.storage.DeleteTask(task.ID); err != nil {
		return err
	}
	logger.Info(context.Background(), "Задача удалена", "taskID", taskID, "userID", user.ID)
	return nil
}

// FindOwnedTask достает задачу и проверяет владельца. Используется также
// менеджерами подзадач и тегов.
func (tm *TaskManager) FindOwnedTask(user *models.User, taskID int64) (*models.Task, error) {
	task, err := tm.storage.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperrors.BadRequest("Task not found")
	}
	if err := CheckTaskOwnership(task, user); err != nil {
		return nil, err
	}
	return task, nil
}

// CheckTaskOwnership - задача должна принадлежать пользователю.
func CheckTaskOwnership(task *models.Task, user *models.User) error {
	if task.UserID != user.ID {
		return apperrors.AccessDenied("Task doesn't belong to the user")
	}
	return nil
}

func upperOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	upper := strings.ToUpper(strings.TrimSpace(*s))
	return &upper
}
