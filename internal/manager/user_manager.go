package manager

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"tasks-api/internal/apperrors"
	"tasks-api/internal/logger"
	"tasks-api/internal/models"
)

type UserManager struct {
	storage Storage
}

func NewUserManager(storage Storage) *UserManager {
	return &UserManager{storage: storage}
}

func (um *UserManager) FindAll(page Page) ([]models.User, int64, error) {
	return um.storage.FindAllUsers(page)
}

func (um *UserManager) FindByID(userID int64) (*models.User, error) {
	user, err := um.storage.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.BadRequest("User not found")
	}
	return user, nil
}

// FindByUsername используется middleware после проверки токена:
// отсутствие пользователя значит, что токен больше нечем подтвердить.
func (um *UserManager) FindByUsername(username string) (*models.User, error) {
	user, err := um.storage.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.Unauthenticated("User not authenticated")
	}
	return user, nil
}

// PartialUpdate - обновление собственного профиля: username и/или password.
func (um *UserManager) PartialUpdate(user *models.User, req models.UserUpdateRequest) (*models.User, error) {
	countChanges := 0

	if req.Username != nil && *req.Username != user.Username {
		existing, err := um.storage.GetUserByUsername(*req.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, apperrors.BadRequest("Username already exists")
		}
		user.Username = *req.Username
		countChanges++
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("ошибка хэширования пароля: %w", err)
		}
		user.Password = string(hash)
		countChanges++
	}

	if countChanges == 0 {
		return nil, apperrors.BadRequest("You must input some changes")
	}

	if err := um.storage.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteByID - удаление с админской поверхности. ADMIN-аккаунты неудаляемы.
func (um *UserManager) DeleteByID(userID int64) error {
	user, err := um.FindByID(userID)
	if err != nil {
		return err
	}
	return um.delete(user)
}

// DeleteAccount - самоудаление текущего пользователя.
func (um *UserManager) DeleteAccount(user *models.User) error {
	return um.delete(user)
}

func (um *UserManager) delete(user *models.User) error {
	if user.IsAdmin() {
		return apperrors.BadRequest("ADMIN account can not be deleted")
	}
	if err := um.storage.DeleteUser(user.ID); err != nil {
		return err
	}
	logger.Info(context.Background(), "Пользователь удален", "userID", user.ID)
	return nil
}

// EnsureAdmin создает ADMIN-аккаунт при старте, если его еще нет.
// Существующий аккаунт не трогаем.
func (um *UserManager) EnsureAdmin(username, password string) error {
	existing, err := um.storage.GetUserByUsername(username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хэширования пароля: %w", err)
	}

	admin := &models.User{
		Username: username,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	id, err := um.storage.CreateUser(admin)
	if err != nil {
		return err
	}
	logger.Info(context.Background(), "ADMIN-аккаунт создан", "userID", id, "username", username)
	return nil
}

// GetOrCreateByTelegramID - для telegram-бота: аккаунт заводится
// автоматически при первом обращении.
func (um *UserManager) GetOrCreateByTelegramID(telegramID int64) (*models.User, error) {
	user, err := um.storage.GetUserByTelegramID(telegramID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	// Заходить по паролю такому аккаунту не нужно, секрет случайный
	hash, err := bcrypt.GenerateFromPassword([]byte(randomSecret()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хэширования пароля: %w", err)
	}

	user = &models.User{
		Username:   fmt.Sprintf("tg_%d", telegramID),
		Password:   string(hash),
		Role:       models.RoleUser,
		TelegramID: telegramID,
	}
	id, err := um.storage.CreateUser(user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	logger.Info(context.Background(), "Пользователь создан по Telegram ID", "userID", id, "telegramID", telegramID)
	return user, nil
}

func randomSecret() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
