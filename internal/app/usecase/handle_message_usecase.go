package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

type chatRepository interface {
	domain.ParticipantRepository
	domain.LinkRepository
}

type markCompleter interface {
	Execute(ctx context.Context, userName, date string, now time.Time) (*domain.Completion, error)
}

type todayReader interface {
	Execute(ctx context.Context, userName string, now time.Time) (*TodayView, error)
}

type progressReader interface {
	Execute(ctx context.Context, userName string, now time.Time) (*ProgressView, error)
}

type leaderboardReader interface {
	Execute(ctx context.Context, now time.Time) (string, error)
}

// HandleMessageUsecase routes chat commands. Anything that is not a known
// command gets no reply.
type HandleMessageUsecase struct {
	repo          chatRepository
	markUC        markCompleter
	todayUC       todayReader
	progressUC    progressReader
	leaderboardUC leaderboardReader
}

func NewHandleMessageUsecase(repo chatRepository, markUC markCompleter, todayUC todayReader, progressUC progressReader, leaderboardUC leaderboardReader) *HandleMessageUsecase {
	return &HandleMessageUsecase{
		repo:          repo,
		markUC:        markUC,
		todayUC:       todayUC,
		progressUC:    progressUC,
		leaderboardUC: leaderboardUC,
	}
}

func (uc *HandleMessageUsecase) Execute(ctx context.Context, senderID, pushName, msg string, now time.Time) (string, error) {
	msg = strings.TrimSpace(msg)
	fields := strings.Fields(msg)
	if len(fields) == 0 {
		return "", nil
	}
	arg := strings.TrimSpace(msg[len(fields[0]):])

	switch strings.ToLower(fields[0]) {
	case "#join":
		return uc.join(ctx, senderID, arg)
	case "#done":
		return uc.done(ctx, senderID, pushName, now)
	case "#progress":
		return uc.progress(ctx, senderID, pushName, now)
	case "#today":
		return uc.today(ctx, senderID, now)
	case "#leaderboard":
		return uc.leaderboardUC.Execute(ctx, now)
	}
	return "", nil
}

func (uc *HandleMessageUsecase) join(ctx context.Context, senderID, name string) (string, error) {
	if name == "" {
		return "Usage: #join <your name on the participant list>", nil
	}

	err := requireParticipant(ctx, uc.repo, name)
	if errors.Is(err, domain.ErrUnknownParticipant) {
		return fmt.Sprintf("%s is not on the participant list yet. Ask an admin to add you 🙏", name), nil
	}
	if err != nil {
		return "", err
	}

	if err := uc.repo.LinkSender(ctx, senderID, name); err != nil {
		return "", err
	}
	return fmt.Sprintf("Welcome %s! Send #done after each reading 📖", name), nil
}

func (uc *HandleMessageUsecase) done(ctx context.Context, senderID, pushName string, now time.Time) (string, error) {
	name, err := uc.repo.ResolveSender(ctx, senderID)
	if err != nil {
		return "", err
	}
	if name == "" {
		return joinHint(pushName), nil
	}

	c, err := uc.markUC.Execute(ctx, name, "", now)
	switch {
	case errors.Is(err, domain.ErrAlreadyCompleted):
		return fmt.Sprintf("%s already finished today's reading 😉", name), nil
	case errors.Is(err, domain.ErrNoReading):
		return "No reading scheduled today. Enjoy your rest 🙏", nil
	case errors.Is(err, domain.ErrUnknownParticipant):
		return joinHint(pushName), nil
	case err != nil:
		return "", err
	}

	view, err := uc.progressUC.Execute(ctx, name, now)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Reading received ✅ %s finished %s. Streak: %d days 🔥", name, c.Portion, view.Stats.Streak), nil
}

func (uc *HandleMessageUsecase) progress(ctx context.Context, senderID, pushName string, now time.Time) (string, error) {
	name, err := uc.repo.ResolveSender(ctx, senderID)
	if err != nil {
		return "", err
	}
	if name == "" {
		return joinHint(pushName), nil
	}

	view, err := uc.progressUC.Execute(ctx, name, now)
	if errors.Is(err, domain.ErrUnknownParticipant) {
		return joinHint(pushName), nil
	}
	if err != nil {
		return "", err
	}

	s := view.Stats
	reply := fmt.Sprintf("📊 %s: %d/%d readings (%d%%), %d days streak 🔥", name, s.Completed, s.Total, s.Percentage, s.Streak)
	if len(view.Missed) > 0 {
		reply += fmt.Sprintf("\nTo catch up: %s (%s)", view.Missed[0].Portion, view.Missed[0].Date)
	}
	return reply, nil
}

func (uc *HandleMessageUsecase) today(ctx context.Context, senderID string, now time.Time) (string, error) {
	name, err := uc.repo.ResolveSender(ctx, senderID)
	if err != nil {
		return "", err
	}

	view, err := uc.todayUC.Execute(ctx, name, now)
	if err != nil {
		return "", err
	}
	return FormatToday(view), nil
}

// FormatToday renders today's reading card as a chat message.
func FormatToday(view *TodayView) string {
	if view.Weekend {
		return "It's the weekend, no reading today. Use it to catch up 🙏"
	}
	if view.Reading == nil {
		return "No reading scheduled for today 🙏"
	}

	reply := fmt.Sprintf("📖 Today's reading (%s, %s): %s\n%d completed so far", view.Date, view.Reading.Day, view.Reading.Portion, view.CompletedCount)
	if view.Done {
		reply += " ✅"
	}
	return reply
}

func joinHint(pushName string) string {
	return fmt.Sprintf("Hi %s, link your name first with #join <name>", pushName)
}
