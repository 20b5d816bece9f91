package manager

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/crypto/bcrypt"

	"tasks-api/internal/apperrors"
	"tasks-api/internal/logger"
	"tasks-api/internal/models"
	"tasks-api/internal/token"
)

var (
	registerCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasksapi_registrations_total",
			Help: "Total number of register operations",
		},
		[]string{"status"},
	)

	loginCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasksapi_logins_total",
			Help: "Total number of login operations",
		},
		[]string{"status"},
	)

	loginDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tasksapi_login_duration_seconds",
			Help:    "Duration of login operation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

type AuthManager struct {
	storage Storage
	tokens  *token.Service
}

func NewAuthManager(storage Storage, tokens *token.Service) *AuthManager {
	return &AuthManager{storage: storage, tokens: tokens}
}

// Register создает аккаунт с ролью USER. Username уникален.
func (am *AuthManager) Register(req models.RegisterRequest) (*models.User, error) {
	existing, err := am.storage.GetUserByUsername(req.Username)
	if err != nil {
		registerCount.WithLabelValues("error").Inc()
		return nil, err
	}
	if existing != nil {
		registerCount.WithLabelValues("error").Inc()
		return nil, apperrors.BadRequest("Username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		registerCount.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("ошибка хэширования пароля: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	id, err := am.storage.CreateUser(user)
	if err != nil {
		registerCount.WithLabelValues("error").Inc()
		return nil, err
	}
	user.ID = id

	registerCount.WithLabelValues("success").Inc()
	logger.Info(context.Background(), "Пользователь зарегистрирован", "userID", id, "username", user.Username)
	return user, nil
}

// Login проверяет учетные данные и выдает bearer-токен.
// Неверный username и неверный пароль наружу неразличимы.
func (am *AuthManager) Login(req models.AuthRequest) (string, error) {
	startTime := time.Now()
	defer func() {
		loginDuration.Observe(time.Since(startTime).Seconds())
	}()

	user, err := am.storage.GetUserByUsername(req.Username)
	if err != nil {
		loginCount.WithLabelValues("error").Inc()
		return "", err
	}
	if user == nil {
		loginCount.WithLabelValues("error").Inc()
		return "", apperrors.Unauthenticated("Invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		loginCount.WithLabelValues("error").Inc()
		return "", apperrors.Unauthenticated("Invalid username or password")
	}

	signed, err := am.tokens.Generate(user)
	if err != nil {
		loginCount.WithLabelValues("error").Inc()
		return "", err
	}

	loginCount.WithLabelValues("success").Inc()
	return signed, nil
}
