// Package apperrors - доменная классификация ошибок.
// Любая ошибка из слоя manager заворачивается в один из трех классов,
// единственное место перевода в HTTP-статусы - server.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRequest - валидация, "не найдено", нарушение бизнес-правила.
	ErrBadRequest = errors.New("bad request")
	// ErrAccessDenied - ресурс принадлежит другому пользователю.
	ErrAccessDenied = errors.New("access denied")
	// ErrUnauthenticated - нет или не прошел токен.
	ErrUnauthenticated = errors.New("not authenticated")
)

func BadRequest(msg string) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, msg)
}

func AccessDenied(msg string) error {
	return fmt.Errorf("%w: %s", ErrAccessDenied, msg)
}

func Unauthenticated(msg string) error {
	return fmt.Errorf("%w: %s", ErrUnauthenticated, msg)
}

// Message возвращает текст без префикса класса - то, что уходит клиенту.
func Message(err error) string {
	for _, sentinel := range []error{ErrBadRequest, ErrAccessDenied, ErrUnauthenticated} {
		if errors.Is(err, sentinel) {
			msg := err.Error()
			prefix := sentinel.Error() + ": "
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			return msg
		}
	}
	return err.Error()
}
