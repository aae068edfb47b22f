package reminder

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Notifier delivers a message to one destination (a chat group, a channel).
type Notifier interface {
	Notify(ctx context.Context, text string) error
	Name() string
}

type messages interface {
	Daily(now time.Time) (string, bool)
	Weekly(ctx context.Context, now time.Time) (string, error)
}

// Scheduler posts the daily reading reminder and the Monday weekly report.
type Scheduler struct {
	scheduler *gocron.Scheduler
	messages  messages
	notifiers []Notifier
	loc       *time.Location
}

func New(loc *time.Location, msgs messages, notifiers ...Notifier) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		messages:  msgs,
		notifiers: notifiers,
		loc:       loc,
	}
}

// Start registers the jobs and runs them in the background. Empty times
// disable the matching job.
func (s *Scheduler) Start(dailyAt, weeklyAt string) error {
	if dailyAt != "" {
		if _, err := s.scheduler.Every(1).Day().At(dailyAt).Do(s.SendDaily); err != nil {
			return fmt.Errorf("invalid REMINDER_TIME %q: %w", dailyAt, err)
		}
	}
	if weeklyAt != "" {
		if _, err := s.scheduler.Every(1).Monday().At(weeklyAt).Do(s.SendWeekly); err != nil {
			return fmt.Errorf("invalid WEEKLY_REPORT_TIME %q: %w", weeklyAt, err)
		}
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) SendDaily() {
	text, ok := s.messages.Daily(time.Now().In(s.loc))
	if !ok {
		log.Println("No reading scheduled today, skipping reminder")
		return
	}
	s.broadcast(context.Background(), text)
}

func (s *Scheduler) SendWeekly() {
	ctx := context.Background()
	text, err := s.messages.Weekly(ctx, time.Now().In(s.loc))
	if err != nil {
		log.Printf("Failed to build weekly report: %v", err)
		return
	}
	s.broadcast(ctx, text)
}

func (s *Scheduler) broadcast(ctx context.Context, text string) {
	for _, n := range s.notifiers {
		if err := n.Notify(ctx, text); err != nil {
			log.Printf("Failed to notify %s: %v", n.Name(), err)
		}
	}
}
