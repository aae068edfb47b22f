package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/app/usecase"
	"github.com/fardannozami/bible-reading-tracker/internal/config"
	"github.com/fardannozami/bible-reading-tracker/internal/domain"
	"github.com/fardannozami/bible-reading-tracker/internal/infra/httpapi"
	"github.com/fardannozami/bible-reading-tracker/internal/infra/localstore"
	"github.com/fardannozami/bible-reading-tracker/internal/infra/reminder"
	"github.com/fardannozami/bible-reading-tracker/internal/infra/sqlstore"
	"github.com/fardannozami/bible-reading-tracker/internal/infra/telegram"
	"github.com/fardannozami/bible-reading-tracker/internal/infra/wa"
	"github.com/fardannozami/bible-reading-tracker/internal/plan"
	"github.com/fardannozami/bible-reading-tracker/internal/store"

	walog "go.mau.fi/whatsmeow/util/log"
)

func main() {
	// 1. Load Config
	cfg := config.Load()
	now := func() time.Time { return time.Now().In(cfg.Location) }

	// 2. Reading plan
	schedule, err := plan.Load(cfg.PlanPath)
	if err != nil {
		log.Fatalf("Failed to load reading plan: %v", err)
	}
	log.Printf("Loaded reading plan with %d readings (%s to %s)", len(schedule), schedule[0].Date, schedule[len(schedule)-1].Date)

	// 3. Storage
	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.StorageBackend, err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := store.WaitReady(ctx, st, cfg.ReadyTimeout); err != nil {
		log.Fatalf("Storage backend %s unavailable: %v", cfg.StorageBackend, err)
	}
	if repo, ok := st.(*sqlstore.Repository); ok {
		if err := repo.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to init schema: %v", err)
		}
	}
	log.Printf("Storage backend %s ready", cfg.StorageBackend)

	// 4. Use Cases
	uc := usecase.NewSet(st, schedule)

	// 5. HTTP API
	auth, err := httpapi.NewAuthenticator(cfg.JWTSecret, cfg.AdminCredentials)
	if err != nil {
		log.Fatalf("Failed to configure admin auth: %v", err)
	}
	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: httpapi.NewRouter(httpapi.Deps{
			Usecases: uc,
			Schedule: schedule,
			Store:    st,
			Backend:  cfg.StorageBackend,
			Auth:     auth,
			Now:      now,
			Logger:   log.Default(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("HTTP API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// 6. WhatsApp bot (optional)
	var notifiers []reminder.Notifier
	var waService *wa.Service
	if cfg.WhatsAppEnabled {
		logger := walog.Stdout("Client", "INFO", true)
		waService = wa.NewService(cfg.WhatsAppDBPath, logger)

		bot := wa.NewBot(waService, uc.HandleMessage, wa.BotConfig{
			GroupID:         cfg.GroupID,
			ReplyDelayMinMs: cfg.ReplyDelayMinMs,
			ReplyDelayMaxMs: cfg.ReplyDelayMaxMs,
			ShowTyping:      cfg.ShowTyping,
		}, now)
		waService.SetMessageHandler(bot.Handle)

		// Initialize client (device store) before connecting
		if err := waService.Initialize(ctx); err != nil {
			log.Fatalf("Failed to initialize WhatsApp service: %v", err)
		}
		if err := waService.Login(ctx, cfg.BotPhone); err != nil {
			log.Fatalf("WhatsApp login failed: %v", err)
		}
		if cfg.GroupID != "" {
			notifiers = append(notifiers, bot)
		}
	}

	// 7. Telegram notifier (optional)
	if cfg.TelegramBotToken != "" {
		tg, err := telegram.NewNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("Telegram disabled: %v", err)
		} else {
			notifiers = append(notifiers, tg)
		}
	}

	// 8. Reminders
	var reminders *reminder.Scheduler
	if len(notifiers) > 0 && (cfg.ReminderTime != "" || cfg.WeeklyReportTime != "") {
		reminders = reminder.New(cfg.Location, uc.Reminder, notifiers...)
		if err := reminders.Start(cfg.ReminderTime, cfg.WeeklyReportTime); err != nil {
			log.Fatalf("Failed to schedule reminders: %v", err)
		}
		log.Printf("Reminders scheduled for %d notifier(s)", len(notifiers))
	}

	log.Println("Tracker is running... Press Ctrl+C to exit.")

	// 9. Wait for OS Signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Shutting down...")
	if reminders != nil {
		reminders.Stop()
	}
	if waService != nil {
		waService.Disconnect()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
}

func openStore(cfg config.Config) (domain.Store, error) {
	switch cfg.StorageBackend {
	case "sqlite":
		return sqlstore.OpenSQLite(cfg.SQLitePath)
	case "postgres":
		return sqlstore.OpenPostgres(cfg.DatabaseURL)
	case "local":
		return localstore.NewStore(cfg.LocalStorePath)
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q (want sqlite, postgres or local)", cfg.StorageBackend)
	}
}
