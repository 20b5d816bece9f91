package models

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// DTO входящих запросов. Поля-указатели: nil = поле не передано.
// Валидация границ запроса живет здесь, до слоя manager - он видит
// уже проверенные значения.

const maxDescriptionLen = 500

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	if err := validateUsername(r.Username); err != nil {
		return err
	}
	if strings.TrimSpace(r.Password) == "" {
		return errors.New("password: must not be blank")
	}
	return nil
}

type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r AuthRequest) Validate() error {
	if r.Username == "" || r.Password == "" {
		return errors.New("username and password are required")
	}
	return nil
}

type TaskCreateRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      *TaskStatus   `json:"status"`
	Priority    *TaskPriority `json:"priority"`
	DueDate     *Date         `json:"dueDate"`
}

func (r TaskCreateRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title: must not be blank")
	}
	if err := validateDescription(r.Description); err != nil {
		return err
	}
	if err := validateStatus(r.Status); err != nil {
		return err
	}
	if err := validatePriority(r.Priority); err != nil {
		return err
	}
	return validateDueDate(r.DueDate)
}

type TaskUpdateRequest struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Status      *TaskStatus   `json:"status"`
	Priority    *TaskPriority `json:"priority"`
	DueDate     *Date         `json:"dueDate"`
}

func (r TaskUpdateRequest) Validate() error {
	// Переданный, но пустой title - ошибка, а не "нет изменений".
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return errors.New("title: must not be blank")
	}
	if r.Description != nil {
		if err := validateDescription(*r.Description); err != nil {
			return err
		}
	}
	if err := validateStatus(r.Status); err != nil {
		return err
	}
	if err := validatePriority(r.Priority); err != nil {
		return err
	}
	return validateDueDate(r.DueDate)
}

type SubtaskCreateRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      *TaskStatus `json:"status"`
	DueDate     *Date       `json:"dueDate"`
}

func (r SubtaskCreateRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title: must not be blank")
	}
	if err := validateDescription(r.Description); err != nil {
		return err
	}
	if err := validateStatus(r.Status); err != nil {
		return err
	}
	return validateDueDate(r.DueDate)
}

type SubtaskUpdateRequest struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Status      *TaskStatus `json:"status"`
	DueDate     *Date       `json:"dueDate"`
}

func (r SubtaskUpdateRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return errors.New("title: must not be blank")
	}
	if r.Description != nil {
		if err := validateDescription(*r.Description); err != nil {
			return err
		}
	}
	if err := validateStatus(r.Status); err != nil {
		return err
	}
	return validateDueDate(r.DueDate)
}

type UserUpdateRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

func (r UserUpdateRequest) Validate() error {
	if r.Username != nil {
		if err := validateUsername(*r.Username); err != nil {
			return err
		}
	}
	if r.Password != nil && strings.TrimSpace(*r.Password) == "" {
		return errors.New("password: must not be blank")
	}
	return nil
}

type TagRequest struct {
	Name string `json:"name"`
}

func (r TagRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name: Tag name can not be blank")
	}
	return nil
}

func validateUsername(username string) error {
	length := utf8.RuneCountInString(strings.TrimSpace(username))
	if length < 3 || length > 30 {
		return errors.New("username: The username size must be between 3 and 30 characters")
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return errors.New("description: Description cannot exceed 500 characters")
	}
	return nil
}

func validateStatus(status *TaskStatus) error {
	if status == nil {
		return nil
	}
	_, err := ParseTaskStatus(string(*status))
	return err
}

func validatePriority(priority *TaskPriority) error {
	if priority == nil {
		return nil
	}
	_, err := ParseTaskPriority(string(*priority))
	return err
}

func validateDueDate(dueDate *Date) error {
	if dueDate != nil && !dueDate.InFuture() {
		return errors.New("dueDate: The date must be in the future")
	}
	return nil
}
