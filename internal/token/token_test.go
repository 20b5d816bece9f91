package token

import (
	"testing"
	"time"

	"tasks-api/internal/models"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	user := &models.User{ID: 1, Username: "serg"}

	tok, err := svc.Generate(user)
	if err != nil {
		t.Fatalf("Ошибка генерации токена: %v", err)
	}

	subject, err := svc.Validate(tok)
	if err != nil {
		t.Fatalf("Ошибка проверки токена: %v", err)
	}
	if subject != "serg" {
		t.Errorf("Ожидался subject=serg, получено %q", subject)
	}
}

func TestValidateExpired(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)
	tok, err := svc.Generate(&models.User{Username: "serg"})
	if err != nil {
		t.Fatalf("Ошибка генерации токена: %v", err)
	}

	if _, err := svc.Validate(tok); err == nil {
		t.Error("Ожидалась ошибка для просроченного токена")
	}
}

func TestValidateWrongSecret(t *testing.T) {
	tok, err := NewService("secret-one", time.Hour).Generate(&models.User{Username: "serg"})
	if err != nil {
		t.Fatalf("Ошибка генерации токена: %v", err)
	}

	if _, err := NewService("secret-two", time.Hour).Validate(tok); err == nil {
		t.Error("Ожидалась ошибка при чужом секрете")
	}
}

func TestValidateGarbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	if _, err := svc.Validate("not-a-token"); err == nil {
		t.Error("Ожидалась ошибка для мусорной строки")
	}
}
