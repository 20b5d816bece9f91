package manager

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tasks-api/internal/apperrors"
	"tasks-api/internal/models"
)

var subtaskOpsCount = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tasksapi_subtask_ops_total",
		Help: "Total number of subtask operations",
	},
	[]string{"op", "status"},
)

// SubtaskManager - операции над подзадачами. Владение проверяется
// транзитивно через родительскую задачу.
type SubtaskManager struct {
	storage Storage
	tasks   *TaskManager
}

func NewSubtaskManager(storage Storage, tasks *TaskManager) *SubtaskManager {
	return &SubtaskManager{storage: storage, tasks: tasks}
}

func (sm *SubtaskManager) FindByID(user *models.User, subtaskID int64) (*models.Subtask, error) {
	subtask, _, err := sm.findOwnedSubtask(user, subtaskID)
	return subtask, err
}

// Add создает подзадачу и возвращает родительскую задачу целиком.
func (sm *SubtaskManager) Add(user *models.User, taskID int64, req models.SubtaskCreateRequest) (*models.Task, error) {
	task, err := sm.tasks.FindOwnedTask(user, taskID)
	if err != nil {
		subtaskOpsCount.WithLabelValues("add", "error").Inc()
		return nil, err
	}

	subtask := &models.Subtask{
		TaskID:      task.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StatusUndone,
		CreatedDate: models.Today(),
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		subtask.Status = *req.Status
	}

	if _, err := sm.storage.CreateSubtask(subtask); err != nil {
		subtaskOpsCount.WithLabelValues("add", "error").Inc()
		return nil, err
	}

	subtaskOpsCount.WithLabelValues("add", "success").Inc()
	// Перечитываем, чтобы в ответе был свежий список подзадач
	return sm.tasks.FindOwnedTask(user, taskID)
}

// Remove удаляет подзадачу, родительская задача остается.
func (sm *SubtaskManager) Remove(user *models.User, subtaskID int64) (*models.Task, error) {
	subtask, task, err := sm.findOwnedSubtask(user, subtaskID)
	if err != nil {
		subtaskOpsCount.WithLabelValues("remove", "error").Inc()
		return nil, err
	}

	if err := sm.storage.DeleteSubtask(subtask.ID); err != nil {
		subtaskOpsCount.WithLabelValues("remove", "error").Inc()
		return nil, err
	}

	subtaskOpsCount.WithLabelValues("remove", "success").Inc()
	return sm.tasks.FindOwnedTask(user, task.ID)
}

// PartialUpdate - тот же контракт слияния, что и у задач.
func (sm *SubtaskManager) PartialUpdate(user *models.User, subtaskID int64, req models.SubtaskUpdateRequest) (*models.Subtask, error) {
	subtask, _, err := sm.findOwnedSubtask(user, subtaskID)
	if err != nil {
		subtaskOpsCount.WithLabelValues("update", "error").Inc()
		return nil, err
	}

	countChanges := 0

	if req.Title != nil {
		subtask.Title = *req.Title
		countChanges++
	}
	if req.Description != nil {
		subtask.Description = *req.Description
		countChanges++
	}
	if req.Status != nil {
		subtask.Status = *req.Status
		countChanges++
	}
	if req.DueDate != nil {
		subtask.DueDate = req.DueDate
		countChanges++
	}

	if countChanges == 0 {
		subtaskOpsCount.WithLabelValues("update", "error").Inc()
		return nil, apperrors.BadRequest("Please provide updates")
	}

	if err := sm.storage.UpdateSubtask(subtask); err != nil {
		subtaskOpsCount.WithLabelValues("update", "error").Inc()
		return nil, err
	}

	subtaskOpsCount.WithLabelValues("update", "success").Inc()
	return subtask, nil
}

func (sm *SubtaskManager) findOwnedSubtask(user *models.User, subtaskID int64) (*models.Subtask, *models.Task, error) {
	subtask, err := sm.storage.GetSubtask(subtaskID)
	if err != nil {
		return nil, nil, err
	}
	if subtask == nil {
		return nil, nil, apperrors.BadRequest("Subtask not found")
	}

	task, err := sm.tasks.FindOwnedTask(user, subtask.TaskID)
	if err != nil {
		return nil, nil, err
	}
	return subtask, task, nil
}
