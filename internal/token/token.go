// Package token - выпуск и проверка JWT.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tasks-api/internal/models"
)

const issuer = "auth-api"

type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Generate выпускает подписанный токен: issuer, subject = username, срок ttl.
func (s *Service) Generate(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   user.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}
	return signed, nil
}

// Validate проверяет подпись, издателя и срок, возвращает subject (username).
func (s *Service) Validate(tokenStr string) (string, error) {
	parsed, err := jwt.Parse(tokenStr,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("ошибка проверки токена: %w", err)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("в токене нет subject: %w", err)
	}
	return subject, nil
}
