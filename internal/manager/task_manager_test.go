package manager_test

import (
	"errors"
	"testing"
	"time"

	"tasks-api/internal/apperrors"
	"tasks-api/internal/manager"
	"tasks-api/internal/models"
	"tasks-api/internal/storage"
	"tasks-api/internal/token"
)

func newTestUser(t *testing.T, store *storage.MemoryStorage, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "hash", Role: models.RoleUser}
	id, err := store.CreateUser(user)
	if err != nil {
		t.Fatalf("Ошибка создания пользователя: %v", err)
	}
	user.ID = id
	return user
}

func strPtr(s string) *string { return &s }

func TestCreateTaskDefaults(t *testing.T) {
	store := storage.NewMemoryStorage()
	tm := manager.NewTaskManager(store)
	user := newTestUser(t, store, "alice")

	task, err := tm.Create(user, models.TaskCreateRequest{Title: "Купить молоко"})
	if err != nil {
		t.Fatalf("Ошибка при создании задачи: %v", err)
	}

	if task.ID == 0 {
		t.Error("Ожидался присвоенный ID")
	}
	if task.Status != models.StatusUndone {
		t.Errorf("Ожидался статус UNDONE, получено %s", task.Status)
	}
	if task.Priority != models.PriorityNone {
		t.Errorf("Ожидался приоритет NONE, получено %s", task.Priority)
	}
	if !task.CreatedDate.Equal(models.Today().Time) {
		t.Errorf("Ожидалась сегодняшняя дата создания, получено %v", task.CreatedDate)
	}
}

func TestCreateTaskExplicitFields(t *testing.T) {
	store := storage.NewMemoryStorage()
	tm := manager.NewTaskManager(store)
	user := newTestUser(t, store, "alice")

	status := models.StatusDone
	priority := models.PriorityHigh
	task, err := tm.Create(user, models.TaskCreateRequest{
		Title:    "Отчет",
		Status:   &status,
		Priority: &priority,
	})
	if err != nil {
		t.Fatalf("Ошибка при создании задачи: %v", err)
	}
	if task.Status != models.StatusDone || task.Priority != models.PriorityHigh {
		t.Errorf("Переданные значения потеряны: %s/%s", task.Status, task.Priority)
	}
}

func TestFindOwnedTaskNotFound(t *testing.T) {
	store := storage.NewMemoryStorage()
	tm := manager.NewTaskManager(store)
	user := newTestUser(t, store, "alice")

	_, err := tm.FindByID(user, 42)
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("Ожидался ErrBadRequest, получено %v", err)
	}
	if apperrors.Message(err) != "Task not found" {
		t.Errorf("Неверный текст ошибки: %q", apperrors.Message(err))
	}
}

func TestTaskOwnershipDenied(t *testing.T) {
	store := storage.NewMemoryStorage()
	tm := manager.NewTaskManager(store)
	alice := newTestUser(t, store, "alice")
	bob := newTestUser(t, store, "bob")

	task, err := tm.Create(alice, models.TaskCreateRequest{Title: "Личное"})
	if err != nil {
		t.Fatalf("Ошибка при создании задачи: %v", err)
	}

	_, err = tm.FindByID(bob, task.ID)
	if !errors.Is(err, apperrors.ErrAccessDenied) {
		t.Fatalf("Ожидался ErrAccessDenied, получено %v", err)
	}
	if apperrors.Message(err) != "Task doesn't belong to the user" {
		t.Errorf("Неверный текст ошибки: %q", apperrors.Message(err))
	}

	if err := tm.Delete(bob, task.ID); !errors.Is(err, apperrors.ErrAccessDenied) {
		t.Errorf("Удаление чужой задачи: ожидался ErrAccessDenied, получено %v", err)
	}
}

func TestPartialUpdateMergesFields(t *testing.T) {
	store := storage.NewMemoryStorage()
	tm := manager.NewTaskManager(store)
	user := newTestUser(t, store, "alice")

	task, err := tm.Create(user, models.TaskCreateRequest{Title: "Старое", Description: "описание"})
	if err != nil {
		t.Fatalf("Ошибка при создании задачи: %v", err)
	}

	status := models.StatusDone
	updated, err := tm.PartialUpdate(user, task.ID, models.TaskUpdateRequest{
		Title:  strPtr("Новое"),
		Status: &status,
	})
	if err != nil {
		t.Fatalf("Ошибка при обновлении: %v", err)
	}

	if updated.Title != "Новое" {
		t.Errorf("Title не обновился: %q", updated.Title)
	}
	if updated.Status != models.StatusDone {
		t.Errorf("Status не обновился: %s", updated.Status)
	}
	// Непереданное поле сохраняется
	if updated.Description != "описание" {
		t.Errorf("Description потерялся: %q", updated.Description)
	}
}

func TestPartialUpdateNoChanges(t *testing.T) {
	store := storage.NewMemoryStorage()
	tm := manager.NewTaskManager(store)
	user := newTestUser(t, store, "alice")

	task, err := tm.Create(user, models.TaskCreateRequest{Title: "Задача"})
	if err != nil {
		t.Fatalf("Ошибка при создании задачи: %v", err)
	}

	_, err = tm.PartialUpdate(user, task.ID, models.TaskUpdateRequest{})
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("Ожидался ErrBadRequest, получено %v", err)
	}
	if apperrors.Message(err) != "Please provide updates" {
		t.Errorf("Неверный текст ошибки: %q", apperrors.Message(err))
	}

	// Запись не тронута
	reloaded, err := tm.FindByID(user, task.ID)
	if err != nil {
		t.Fatalf("Ошибка при перечитывании: %v", err)
	}
	if reloaded.Title != "Задача" {
		t.Errorf("Задача изменилась без изменений в запросе: %q", reloaded.Title)
	}
}

func TestPartialUpdateBlankTitleNotCounted(t *testing.T) {
	store := storage.NewMemoryStorage()
	tm := manager.NewTaskManager(store)
	user := newTestUser(t, store, "alice")

	task, err := tm.Create(user, models.TaskCreateRequest{Title: "Задача"})
	if err != nil {
		t.Fatalf("Ошибка при создании задачи: %v", err)
	}

	// Пустой title после trim не считается изменением
	_, err = tm.PartialUpdate(user, task.ID, models.TaskUpdateRequest{Title: strPtr("   ")})
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("Ожидался ErrBadRequest, получено %v", err)
	}

	reloaded, _ := tm.FindByID(user, task.ID)
	if reloaded.Title != "Задача" {
		t.Errorf("Title затерся пустым значением: %q", reloaded.Title)
	}
}

func TestSearchFiltersAreUppercasedAndScoped(t *testing.T) {
	store := storage.NewMemoryStorage()
	tm := manager.NewTaskManager(store)
	tgm := manager.NewTagManager(store, tm)
	alice := newTestUser(t, store, "alice")
	bob := newTestUser(t, store, "bob")

	done := models.StatusDone
	high := models.PriorityHigh
	t1, _ := tm.Create(alice, models.TaskCreateRequest{Title: "Готово", Status: &done})
	t2, _ := tm.Create(alice, models.TaskCreateRequest{Title: "Важно", Priority: &high})
	tm.Create(alice, models.TaskCreateRequest{Title: "Обычная"})
	tm.Create(bob, models.TaskCreateRequest{Title: "Чужая", Status: &done})

	tag, err := tgm.Create(alice, models.TagRequest{Name: "work"})
	if err != nil {
		t.Fatalf("Ошибка создания тега: %v", err)
	}
	if _, err := tgm.AttachTask(alice, t2.ID, tag.ID); err != nil {
		t.Fatalf("Ошибка привязки тега: %v", err)
	}

	page := manager.Page{Number: 0, Size: 5}

	// Фильтр в нижнем регистре находит задачи
	found, total, err := tm.Search(alice, manager.SearchFilter{Status: strPtr("done")}, page)
	if err != nil {
		t.Fatalf("Ошибка поиска: %v", err)
	}
	if total != 1 || len(found) != 1 || found[0].ID != t1.ID {
		t.Errorf("Поиск по статусу: ожидалась задача %d, получено %d шт.", t1.ID, len(found))
	}

	found, _, err = tm.Search(alice, manager.SearchFilter{TagName: strPtr("work")}, page)
	if err != nil {
		t.Fatalf("Ошибка поиска по тегу: %v", err)
	}
	if len(found) != 1 || found[0].ID != t2.ID {
		t.Errorf("Поиск по тегу: ожидалась задача %d", t2.ID)
	}

	// Без фильтров - все задачи пользователя, чужие не видны
	all, totalAll, err := tm.Search(alice, manager.SearchFilter{}, page)
	if err != nil {
		t.Fatalf("Ошибка поиска: %v", err)
	}
	if totalAll != 3 {
		t.Errorf("Ожидались 3 задачи пользователя, получено %d", totalAll)
	}
	// Сужающее свойство: фильтрованная выборка - подмножество полной
	if len(found) > len(all) {
		t.Error("Фильтр вернул больше задач, чем выборка без фильтра")
	}
}

func TestSearchPagination(t *testing.T) {
	store := storage.NewMemoryStorage()
	tm := manager.NewTaskManager(store)
	user := newTestUser(t, store, "alice")

	for i := 0; i < 7; i++ {
		if _, err := tm.Create(user, models.TaskCreateRequest{Title: "Задача"}); err != nil {
			t.Fatalf("Ошибка при создании задачи: %v", err)
		}
	}

	first, total, err := tm.Search(user, manager.SearchFilter{}, manager.Page{Number: 0, Size: 5})
	if err != nil {
		t.Fatalf("Ошибка поиска: %v", err)
	}
	if total != 7 || len(first) != 5 {
		t.Errorf("Первая страница: ожидалось 5 из 7, получено %d из %d", len(first), total)
	}

	second, _, err := tm.Search(user, manager.SearchFilter{}, manager.Page{Number: 1, Size: 5})
	if err != nil {
		t.Fatalf("Ошибка поиска: %v", err)
	}
	if len(second) != 2 {
		t.Errorf("Вторая страница: ожидалось 2, получено %d", len(second))
	}
	// Сортировка по id ASC, страницы не пересекаются
	if first[len(first)-1].ID >= second[0].ID {
		t.Error("Нарушен порядок id между страницами")
	}
}

func TestDeleteTaskCascadesSubtasks(t *testing.T) {
	store := storage.NewMemoryStorage()
	tm := manager.NewTaskManager(store)
	sm := manager.NewSubtaskManager(store, tm)
	user := newTestUser(t, store, "alice")

	task, _ := tm.Create(user, models.TaskCreateRequest{Title: "Родитель"})
	parent, err := sm.Add(user, task.ID, models.SubtaskCreateRequest{Title: "Шаг 1"})
	if err != nil {
		t.Fatalf("Ошибка создания подзадачи: %v", err)
	}
	if len(parent.Subtasks) != 1 {
		t.Fatalf("Ожидалась 1 подзадача, получено %d", len(parent.Subtasks))
	}
	subtaskID := parent.Subtasks[0].ID

	if err := tm.Delete(user, task.ID); err != nil {
		t.Fatalf("Ошибка удаления задачи: %v", err)
	}

	_, err = sm.FindByID(user, subtaskID)
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("Подзадача пережила удаление родителя: %v", err)
	}
}

func TestSubtaskTransitiveOwnership(t *testing.T) {
	store := storage.NewMemoryStorage()
	tm := manager.NewTaskManager(store)
	sm := manager.NewSubtaskManager(store, tm)
	alice := newTestUser(t, store, "alice")
	bob := newTestUser(t, store, "bob")

	task, _ := tm.Create(alice, models.TaskCreateRequest{Title: "Родитель"})
	parent, err := sm.Add(alice, task.ID, models.SubtaskCreateRequest{Title: "Шаг"})
	if err != nil {
		t.Fatalf("Ошибка создания подзадачи: %v", err)
	}
	subtaskID := parent.Subtasks[0].ID

	if _, err := sm.FindByID(bob, subtaskID); !errors.Is(err, apperrors.ErrAccessDenied) {
		t.Errorf("Чужая подзадача: ожидался ErrAccessDenied, получено %v", err)
	}

	done := models.StatusDone
	updated, err := sm.PartialUpdate(alice, subtaskID, models.SubtaskUpdateRequest{Status: &done})
	if err != nil {
		t.Fatalf("Ошибка обновления подзадачи: %v", err)
	}
	if updated.Status != models.StatusDone {
		t.Errorf("Статус не обновился: %s", updated.Status)
	}

	if _, err := sm.PartialUpdate(alice, subtaskID, models.SubtaskUpdateRequest{}); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("Пустое обновление подзадачи: ожидался ErrBadRequest, получено %v", err)
	}
}

func TestSubtaskRemoveReturnsParent(t *testing.T) {
	store := storage.NewMemoryStorage()
	tm := manager.NewTaskManager(store)
	sm := manager.NewSubtaskManager(store, tm)
	user := newTestUser(t, store, "alice")

	task, _ := tm.Create(user, models.TaskCreateRequest{Title: "Родитель"})
	parent, _ := sm.Add(user, task.ID, models.SubtaskCreateRequest{Title: "Шаг"})

	after, err := sm.Remove(user, parent.Subtasks[0].ID)
	if err != nil {
		t.Fatalf("Ошибка удаления подзадачи: %v", err)
	}
	if after.ID != task.ID {
		t.Errorf("Ожидалась родительская задача %d, получено %d", task.ID, after.ID)
	}
	if len(after.Subtasks) != 0 {
		t.Errorf("Подзадача осталась в родителе: %d шт.", len(after.Subtasks))
	}
}

func TestAuthRegisterAndLogin(t *testing.T) {
	store := storage.NewMemoryStorage()
	tokens := token.NewService("test-secret", time.Hour)
	am := manager.NewAuthManager(store, tokens)

	user, err := am.Register(models.RegisterRequest{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("Ошибка регистрации: %v", err)
	}
	if user.Role != models.RoleUser {
		t.Errorf("Ожидалась роль USER, получено %s", user.Role)
	}
	if user.Password == "secret123" {
		t.Error("Пароль сохранен в открытом виде")
	}

	signed, err := am.Login(models.AuthRequest{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("Ошибка входа: %v", err)
	}
	subject, err := tokens.Validate(signed)
	if err != nil {
		t.Fatalf("Токен не прошел проверку: %v", err)
	}
	if subject != "alice" {
		t.Errorf("Ожидался subject alice, получено %q", subject)
	}
}

func TestAuthDuplicateUsername(t *testing.T) {
	store := storage.NewMemoryStorage()
	am := manager.NewAuthManager(store, token.NewService("test-secret", time.Hour))

	if _, err := am.Register(models.RegisterRequest{Username: "alice", Password: "secret123"}); err != nil {
		t.Fatalf("Ошибка регистрации: %v", err)
	}

	_, err := am.Register(models.RegisterRequest{Username: "alice", Password: "другой"})
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("Ожидался ErrBadRequest, получено %v", err)
	}
	if apperrors.Message(err) != "Username already exists" {
		t.Errorf("Неверный текст ошибки: %q", apperrors.Message(err))
	}
}

func TestAuthBadCredentialsIndistinguishable(t *testing.T) {
	store := storage.NewMemoryStorage()
	am := manager.NewAuthManager(store, token.NewService("test-secret", time.Hour))

	if _, err := am.Register(models.RegisterRequest{Username: "alice", Password: "secret123"}); err != nil {
		t.Fatalf("Ошибка регистрации: %v", err)
	}

	_, errNoUser := am.Login(models.AuthRequest{Username: "nobody", Password: "secret123"})
	_, errBadPass := am.Login(models.AuthRequest{Username: "alice", Password: "wrong"})

	for _, err := range []error{errNoUser, errBadPass} {
		if !errors.Is(err, apperrors.ErrUnauthenticated) {
			t.Fatalf("Ожидался ErrUnauthenticated, получено %v", err)
		}
		if apperrors.Message(err) != "Invalid username or password" {
			t.Errorf("Неверный текст ошибки: %q", apperrors.Message(err))
		}
	}
	if errNoUser.Error() != errBadPass.Error() {
		t.Error("Ошибки для несуществующего пользователя и неверного пароля различимы")
	}
}
