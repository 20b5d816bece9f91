package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/joho/godotenv"

	"tasks-api/internal/logger"
	"tasks-api/internal/manager"
	"tasks-api/internal/models"
	"tasks-api/internal/storage"
)

// Бот работает с теми же менеджерами, что и HTTP-сервер.
// Аккаунт для чата заводится автоматически по Telegram ID.
type Bot struct {
	api   *tgbotapi.BotAPI
	tasks *manager.TaskManager
	users *manager.UserManager
}

func NewBot(botToken string, tasks *manager.TaskManager, users *manager.UserManager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания бота: %v", err)
	}

	log.Printf("Авторизован как %s", api.Self.UserName)
	return &Bot{api: api, tasks: tasks, users: users}, nil
}

func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates, err := b.api.GetUpdatesChan(u)
	if err != nil {
		log.Fatalf("Ошибка получения updates: %v", err)
	}

	log.Println("Бот запущен и слушает сообщения...")

	for update := range updates {
		if update.Message == nil {
			continue
		}
		go b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	ctx := context.Background()

	logger.Info(ctx, "Получено сообщение",
		"user", msg.From.UserName,
		"text", msg.Text,
	)

	user, err := b.users.GetOrCreateByTelegramID(int64(msg.From.ID))
	if err != nil {
		logger.Error(ctx, err, "Ошибка получения пользователя", "telegramID", msg.From.ID)
		b.reply(msg.Chat.ID, "Что-то пошло не так, попробуйте позже")
		return
	}

	if !msg.IsCommand() {
		b.reply(msg.Chat.ID, "Я понимаю только команды. Наберите /start")
		return
	}

	switch msg.Command() {
	case "start":
		b.sendWelcome(msg.Chat.ID)
	case "add":
		b.addTask(msg, user)
	case "list":
		b.listTasks(msg, user)
	case "done":
		b.completeTask(msg, user)
	case "delete":
		b.deleteTask(msg, user)
	default:
		b.reply(msg.Chat.ID, "Неизвестная команда. Наберите /start")
	}
}

func (b *Bot) sendWelcome(chatID int64) {
	b.reply(chatID, `Команды:
/add <название> - добавить задачу
/list - список задач
/done <id> - отметить выполненной
/delete <id> - удалить задачу`)
}

func (b *Bot) addTask(msg *tgbotapi.Message, user *models.User) {
	title := strings.TrimSpace(msg.CommandArguments())
	if title == "" {
		b.reply(msg.Chat.ID, "Укажите название: /add Купить молоко")
		return
	}

	task, err := b.tasks.Create(user, models.TaskCreateRequest{Title: title})
	if err != nil {
		b.reply(msg.Chat.ID, "Не получилось добавить задачу")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("Задача #%d добавлена", task.ID))
}

func (b *Bot) listTasks(msg *tgbotapi.Message, user *models.User) {
	tasks, _, err := b.tasks.FindAllByUser(user, manager.Page{Number: 0, Size: 20})
	if err != nil {
		b.reply(msg.Chat.ID, "Не получилось загрузить задачи")
		return
	}
	if len(tasks) == 0 {
		b.reply(msg.Chat.ID, "Задач нет")
		return
	}

	var sb strings.Builder
	for _, task := range tasks {
		mark := " "
		if task.Status == models.StatusDone {
			mark = "x"
		}
		fmt.Fprintf(&sb, "[%s] #%d %s\n", mark, task.ID, task.Title)
	}
	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) completeTask(msg *tgbotapi.Message, user *models.User) {
	taskID, err := strconv.ParseInt(strings.TrimSpace(msg.CommandArguments()), 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Укажите номер задачи: /done 3")
		return
	}

	done := models.StatusDone
	if _, err := b.tasks.PartialUpdate(user, taskID, models.TaskUpdateRequest{Status: &done}); err != nil {
		b.reply(msg.Chat.ID, "Не получилось обновить задачу")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("Задача #%d выполнена", taskID))
}

func (b *Bot) deleteTask(msg *tgbotapi.Message, user *models.User) {
	taskID, err := strconv.ParseInt(strings.TrimSpace(msg.CommandArguments()), 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Укажите номер задачи: /delete 3")
		return
	}

	if err := b.tasks.Delete(user, taskID); err != nil {
		b.reply(msg.Chat.ID, "Не получилось удалить задачу")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("Задача #%d удалена", taskID))
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logger.Error(context.Background(), err, "Ошибка отправки сообщения", "chatID", chatID)
	}
}

func main() {
	_ = godotenv.Load()

	dbPath := flag.String("db", getEnv("DB_PATH", "./data/tasks.db"), "Path to SQLite database")
	flag.Parse()

	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		log.Fatal("Не задан TELEGRAM_BOT_TOKEN")
	}

	store, err := storage.NewSQLiteStorage(*dbPath)
	if err != nil {
		log.Fatalf("Ошибка инициализации хранилища: %v", err)
	}
	defer store.Close()

	bot, err := NewBot(botToken, manager.NewTaskManager(store), manager.NewUserManager(store))
	if err != nil {
		log.Fatalf("Ошибка запуска бота: %v", err)
	}
	bot.Start()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
