package manager

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tasks-api/internal/apperrors"
	"tasks-api/internal/models"
)

// Лимит пользовательских тегов на аккаунт.
const maxTagsPerUser = 10

var tagOpsCount = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tasksapi_tag_ops_total",
		Help: "Total number of tag operations",
	},
	[]string{"op", "status"},
)

type TagManager struct {
	storage Storage
	tasks   *TaskManager
}

func NewTagManager(storage Storage, tasks *TaskManager) *TagManager {
	return &TagManager{storage: storage, tasks: tasks}
}

func (tgm *TagManager) FindByID(user *models.User, tagID int64) (*models.Tag, error) {
	return tgm.findOwnedTag(user, tagID)
}

func (tgm *TagManager) FindAllByUser(user *models.User) ([]models.Tag, error) {
	return tgm.storage.FindTagsByUser(user.ID)
}

// Create заводит тег. Имя хранится в верхнем регистре,
// на пользователя не больше maxTagsPerUser тегов.
func (tgm *TagManager) Create(user *models.User, req models.TagRequest) (*models.Tag, error) {
	count, err := tgm.storage.CountTagsByUser(user.ID)
	if err != nil {
		tagOpsCount.WithLabelValues("create", "error").Inc()
		return nil, err
	}
	if count >= maxTagsPerUser {
		tagOpsCount.WithLabelValues("create", "error").Inc()
		return nil, apperrors.BadRequest("User can not have more than 10 Customized Tags")
	}

	tag := &models.Tag{
		UserID: user.ID,
		Name:   NormalizeTagName(req.Name),
	}
	id, err := tgm.storage.CreateTag(tag)
	if err != nil {
		tagOpsCount.WithLabelValues("create", "error").Inc()
		return nil, err
	}
	tag.ID = id

	tagOpsCount.WithLabelValues("create", "success").Inc()
	return tag, nil
}

func (tgm *TagManager) Update(user *models.User, tagID int64, req models.TagRequest) (*models.Tag, error) {
	tag, err := tgm.findOwnedTag(user, tagID)
	if err != nil {
		tagOpsCount.WithLabelValues("update", "error").Inc()
		return nil, err
	}

	tag.Name = NormalizeTagName(req.Name)
	if err := tgm.storage.UpdateTag(tag); err != nil {
		tagOpsCount.WithLabelValues("update", "error").Inc()
		return nil, err
	}

	tagOpsCount.WithLabelValues("update", "success").Inc()
	return tag, nil
}

// AttachTask вешает тег на задачу. Оба ресурса должны принадлежать
// пользователю.
func (tgm *TagManager) AttachTask(user *models.User, taskID, tagID int64) (*models.Task, error) {
	task, err := tgm.tasks.FindOwnedTask(user, taskID)
	if err != nil {
		tagOpsCount.WithLabelValues("attach", "error").Inc()
		return nil, err
	}
	if _, err := tgm.findOwnedTag(user, tagID); err != nil {
		tagOpsCount.WithLabelValues("attach", "error").Inc()
		return nil, err
	}

	if err := tgm.storage.AttachTag(task.ID, tagID); err != nil {
		tagOpsCount.WithLabelValues("attach", "error").Inc()
		return nil, err
	}

	tagOpsCount.WithLabelValues("attach", "success").Inc()
	return tgm.tasks.FindOwnedTask(user, taskID)
}

func (tgm *TagManager) DetachTask(user *models.User, taskID, tagID int64) (*models.Task, error) {
	task, err := tgm.tasks.FindOwnedTask(user, taskID)
	if err != nil {
		tagOpsCount.WithLabelValues("detach", "error").Inc()
		return nil, err
	}
	if _, err := tgm.findOwnedTag(user, tagID); err != nil {
		tagOpsCount.WithLabelValues("detach", "error").Inc()
		return nil, err
	}

	if err := tgm.storage.DetachTag(task.ID, tagID); err != nil {
		tagOpsCount.WithLabelValues("detach", "error").Inc()
		return nil, err
	}

	tagOpsCount.WithLabelValues("detach", "success").Inc()
	return tgm.tasks.FindOwnedTask(user, taskID)
}

// Delete отвязывает тег от всех задач и удаляет его - висячих связей
// не остается.
func (tgm *TagManager) Delete(user *models.User, tagID int64) error {
	tag, err := tgm.findOwnedTag(user, tagID)
	if err != nil {
		tagOpsCount.WithLabelValues("delete", "error").Inc()
		return err
	}

	if err := tgm.storage.DetachTagFromAll(tag.ID); err != nil {
		tagOpsCount.WithLabelValues("delete", "error").Inc()
		return err
	}
	if err := tgm.storage.DeleteTag(tag.ID); err != nil {
		tagOpsCount.WithLabelValues("delete", "error").Inc()
		return err
	}

	tagOpsCount.WithLabelValues("delete", "success").Inc()
	return nil
}

func (tgm *TagManager) findOwnedTag(user *models.User, tagID int64) (*models.Tag, error) {
	tag, err := tgm.storage.GetTag(tagID)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, apperrors.BadRequest("Tag not found")
	}
	if tag.UserID != user.ID {
		return nil, apperrors.AccessDenied("Tag doesn't belong to the user")
	}
	return tag, nil
}

// NormalizeTagName - имя тега хранится в верхнем регистре.
// Повторная нормализация ничего не меняет.
func NormalizeTagName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
