package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	StorageBackend string // sqlite, postgres or local
	SQLitePath     string
	DatabaseURL    string
	LocalStorePath string
	PlanPath       string // optional CSV/XLSX plan; empty = compiled-in plan
	Location       *time.Location
	ReadyTimeout   time.Duration

	JWTSecret        string
	AdminCredentials map[string]string

	WhatsAppEnabled bool
	WhatsAppDBPath  string
	GroupID         string
	BotPhone        string
	ReplyDelayMinMs int  // Minimum delay before reply (milliseconds)
	ReplyDelayMaxMs int  // Maximum delay before reply (milliseconds), 0 = use min as fixed
	ShowTyping      bool // Show typing indicator during delay

	TelegramBotToken string
	TelegramChatID   int64

	ReminderTime     string // HH:MM, empty disables the daily reminder
	WeeklyReportTime string // HH:MM on Mondays, empty disables the weekly report
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults/environment variables")
	}

	tz := getenv("TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("Unknown TIMEZONE %q, using local time: %v", tz, err)
		loc = time.Local
	}

	return Config{
		Port:           getenv("HTTP_PORT", "8080"),
		StorageBackend: strings.ToLower(getenv("STORAGE_BACKEND", "sqlite")),
		SQLitePath:     getenv("SQLITE_PATH", "./data/tracker.db"),
		DatabaseURL:    getenv("DATABASE_URL", ""),
		LocalStorePath: getenv("LOCAL_STORE_PATH", "./data/local-storage.json"),
		PlanPath:       getenv("PLAN_PATH", ""),
		Location:       loc,
		ReadyTimeout:   time.Duration(getenvInt("STORE_READY_TIMEOUT_MS", 1000)) * time.Millisecond,

		JWTSecret:        getenv("JWT_SECRET", "change-me"),
		AdminCredentials: ParseCredentials(getenv("ADMIN_CREDENTIALS", "admin:bible2026")),

		WhatsAppEnabled: getenvBool("WHATSAPP_ENABLED", false),
		WhatsAppDBPath:  getenv("WHATSAPP_DB_PATH", "./data/whatsapp.db"),
		GroupID:         getenv("GROUP_ID", ""),
		BotPhone:        getenv("BOT_PHONE", ""),
		ReplyDelayMinMs: getenvInt("REPLY_DELAY_MIN_MS", 0),
		ReplyDelayMaxMs: getenvInt("REPLY_DELAY_MAX_MS", 0),
		ShowTyping:      getenvBool("SHOW_TYPING", false),

		TelegramBotToken: getenv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getenvInt64("TELEGRAM_CHAT_ID", 0),

		ReminderTime:     getenv("REMINDER_TIME", ""),
		WeeklyReportTime: getenv("WEEKLY_REPORT_TIME", ""),
	}
}

// ParseCredentials reads "user:pass,user:pass". Malformed pairs are skipped.
func ParseCredentials(s string) map[string]string {
	creds := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		user, pass, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || user == "" || pass == "" {
			continue
		}
		creds[user] = pass
	}
	return creds
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
