package manager_test

import (
	"errors"
	"fmt"
	"testing"

	"tasks-api/internal/apperrors"
	"tasks-api/internal/manager"
	"tasks-api/internal/models"
	"tasks-api/internal/storage"
)

func newTagManager(store *storage.MemoryStorage) *manager.TagManager {
	return manager.NewTagManager(store, manager.NewTaskManager(store))
}

func TestCreateTagNormalizesName(t *testing.T) {
	store := storage.NewMemoryStorage()
	tgm := newTagManager(store)
	user := newTestUser(t, store, "alice")

	tag, err := tgm.Create(user, models.TagRequest{Name: "  work  "})
	if err != nil {
		t.Fatalf("Ошибка создания тега: %v", err)
	}
	if tag.Name != "WORK" {
		t.Errorf("Ожидалось имя WORK, получено %q", tag.Name)
	}

	// Повторная нормализация ничего не меняет
	updated, err := tgm.Update(user, tag.ID, models.TagRequest{Name: tag.Name})
	if err != nil {
		t.Fatalf("Ошибка обновления тега: %v", err)
	}
	if updated.Name != "WORK" {
		t.Errorf("Нормализация не идемпотентна: %q", updated.Name)
	}
}

func TestTagLimitPerUser(t *testing.T) {
	store := storage.NewMemoryStorage()
	tgm := newTagManager(store)
	alice := newTestUser(t, store, "alice")
	bob := newTestUser(t, store, "bob")

	for i := 0; i < 10; i++ {
		if _, err := tgm.Create(alice, models.TagRequest{Name: fmt.Sprintf("tag%d", i)}); err != nil {
			t.Fatalf("Тег %d должен создаваться: %v", i+1, err)
		}
	}

	_, err := tgm.Create(alice, models.TagRequest{Name: "eleventh"})
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("Ожидался ErrBadRequest на 11-м теге, получено %v", err)
	}
	if apperrors.Message(err) != "User can not have more than 10 Customized Tags" {
		t.Errorf("Неверный текст ошибки: %q", apperrors.Message(err))
	}

	// Лимит считается на пользователя, а не глобально
	if _, err := tgm.Create(bob, models.TagRequest{Name: "mine"}); err != nil {
		t.Errorf("Лимит задел другого пользователя: %v", err)
	}
}

func TestTagOwnership(t *testing.T) {
	store := storage.NewMemoryStorage()
	tgm := newTagManager(store)
	alice := newTestUser(t, store, "alice")
	bob := newTestUser(t, store, "bob")

	tag, err := tgm.Create(alice, models.TagRequest{Name: "private"})
	if err != nil {
		t.Fatalf("Ошибка создания тега: %v", err)
	}

	_, err = tgm.FindByID(bob, tag.ID)
	if !errors.Is(err, apperrors.ErrAccessDenied) {
		t.Fatalf("Ожидался ErrAccessDenied, получено %v", err)
	}
	if apperrors.Message(err) != "Tag doesn't belong to the user" {
		t.Errorf("Неверный текст ошибки: %q", apperrors.Message(err))
	}

	_, err = tgm.FindByID(alice, 999)
	if !errors.Is(err, apperrors.ErrBadRequest) || apperrors.Message(err) != "Tag not found" {
		t.Errorf("Несуществующий тег: получено %v", err)
	}
}

func TestAttachDetachTag(t *testing.T) {
	store := storage.NewMemoryStorage()
	tm := manager.NewTaskManager(store)
	tgm := manager.NewTagManager(store, tm)
	alice := newTestUser(t, store, "alice")
	bob := newTestUser(t, store, "bob")

	task, _ := tm.Create(alice, models.TaskCreateRequest{Title: "Задача"})
	tag, _ := tgm.Create(alice, models.TagRequest{Name: "work"})

	attached, err := tgm.AttachTask(alice, task.ID, tag.ID)
	if err != nil {
		t.Fatalf("Ошибка привязки тега: %v", err)
	}
	if len(attached.Tags) != 1 || attached.Tags[0].ID != tag.ID {
		t.Errorf("Тег не появился на задаче: %+v", attached.Tags)
	}

	// Обе проверки владения: чужой не может ни привязать, ни отвязать
	if _, err := tgm.AttachTask(bob, task.ID, tag.ID); !errors.Is(err, apperrors.ErrAccessDenied) {
		t.Errorf("Чужая привязка: ожидался ErrAccessDenied, получено %v", err)
	}

	detached, err := tgm.DetachTask(alice, task.ID, tag.ID)
	if err != nil {
		t.Fatalf("Ошибка отвязки тега: %v", err)
	}
	if len(detached.Tags) != 0 {
		t.Errorf("Тег остался на задаче: %+v", detached.Tags)
	}
}

func TestDeleteTagDetachesFromTasks(t *testing.T) {
	store := storage.NewMemoryStorage()
	tm := manager.NewTaskManager(store)
	tgm := manager.NewTagManager(store, tm)
	user := newTestUser(t, store, "alice")

	task, _ := tm.Create(user, models.TaskCreateRequest{Title: "Задача"})
	tag, _ := tgm.Create(user, models.TagRequest{Name: "work"})
	if _, err := tgm.AttachTask(user, task.ID, tag.ID); err != nil {
		t.Fatalf("Ошибка привязки тега: %v", err)
	}

	if err := tgm.Delete(user, tag.ID); err != nil {
		t.Fatalf("Ошибка удаления тега: %v", err)
	}

	reloaded, err := tm.FindByID(user, task.ID)
	if err != nil {
		t.Fatalf("Ошибка перечитывания задачи: %v", err)
	}
	if len(reloaded.Tags) != 0 {
		t.Errorf("Висячая связь после удаления тега: %+v", reloaded.Tags)
	}
	// Задача при этом живет
	if reloaded.ID != task.ID {
		t.Error("Задача пропала вместе с тегом")
	}
}
