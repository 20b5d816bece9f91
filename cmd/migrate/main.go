package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"tasks-api/internal/storage"
)

func main() {
	dbPath := flag.String("db", "./data/tasks.db", "Path to SQLite database")
	flag.Parse()

	log.Println("🔄 Создание базы данных...")

	// Убедимся что папка существует
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatal("❌ Ошибка создания папки:", err)
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatal("❌ Ошибка открытия БД:", err)
	}
	defer db.Close()

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("❌ Ошибка подключения:", err)
	}

	if err := storage.CreateTables(db); err != nil {
		log.Fatal("❌ Ошибка создания таблиц:", err)
	}

	log.Println("✅ База данных готова:", *dbPath)
	log.Println("✅ Таблицы: users, tasks, subtasks, tags, task_tags")
}
