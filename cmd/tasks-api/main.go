package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	server "tasks-api"
	"tasks-api/internal/manager"
	"tasks-api/internal/storage"
	"tasks-api/internal/token"
)

func main() {
	// .env не обязателен
	_ = godotenv.Load()

	addr := flag.String("addr", getEnv("ADDR", ":8080"), "HTTP listen address")
	dbPath := flag.String("db", getEnv("DB_PATH", "./data/tasks.db"), "Path to SQLite database")
	tokenTTL := flag.Duration("token-ttl", 72*time.Hour, "Bearer token lifetime")
	flag.Parse()

	jwtSecret := getEnv("JWT_SECRET", "devsecret")
	if jwtSecret == "devsecret" {
		log.Println("[WARN] JWT_SECRET не задан, используется dev-секрет")
	}

	store, err := storage.NewSQLiteStorage(*dbPath)
	if err != nil {
		log.Fatalf("Ошибка инициализации хранилища: %v", err)
	}
	defer store.Close()

	tokens := token.NewService(jwtSecret, *tokenTTL)

	tasks := manager.NewTaskManager(store)
	users := manager.NewUserManager(store)
	managers := server.Managers{
		Auth:     manager.NewAuthManager(store, tokens),
		Tasks:    tasks,
		Subtasks: manager.NewSubtaskManager(store, tasks),
		Tags:     manager.NewTagManager(store, tasks),
		Users:    users,
		Tokens:   tokens,
	}

	// ADMIN-аккаунт заводится при старте, если задан пароль
	if adminPassword := os.Getenv("ADMIN_PASSWORD"); adminPassword != "" {
		if err := users.EnsureAdmin(getEnv("ADMIN_USERNAME", "admin"), adminPassword); err != nil {
			log.Fatalf("Ошибка создания ADMIN-аккаунта: %v", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", server.NewRouter(managers))

	srv := &http.Server{
		Addr:    *addr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("✅ Сервер запущен на %s", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Останавливаем сервер...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Ошибка остановки сервера: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
