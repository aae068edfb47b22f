package usecase_test

import (
	"context"
	"errors"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

var errStorage = errors.New("storage unavailable")

// mockRepo is an in-memory domain.Store for testing
type mockRepo struct {
	participants []string
	completions  []domain.Completion
	preferences  map[string]string
	links        map[string]string
	fail         bool
}

func newMockRepo(participants ...string) *mockRepo {
	return &mockRepo{
		participants: participants,
		preferences:  make(map[string]string),
		links:        make(map[string]string),
	}
}

func (m *mockRepo) ListParticipants(ctx context.Context) ([]string, error) {
	if m.fail {
		return nil, errStorage
	}
	return append([]string(nil), m.participants...), nil
}

func (m *mockRepo) AddParticipant(ctx context.Context, name string) error {
	for _, p := range m.participants {
		if p == name {
			return domain.ErrParticipantExists
		}
	}
	m.participants = append(m.participants, name)
	return nil
}

func (m *mockRepo) RemoveParticipant(ctx context.Context, name string) error {
	var kept []string
	for _, p := range m.participants {
		if p != name {
			kept = append(kept, p)
		}
	}
	m.participants = kept
	return nil
}

func (m *mockRepo) ListCompletions(ctx context.Context) ([]domain.Completion, error) {
	if m.fail {
		return nil, errStorage
	}
	return append([]domain.Completion(nil), m.completions...), nil
}

func (m *mockRepo) AddCompletion(ctx context.Context, userName, date, portion, day string, catchup bool) (*domain.Completion, error) {
	for _, c := range m.completions {
		if c.UserName == userName && c.Date == date {
			return nil, domain.ErrAlreadyCompleted
		}
	}
	c := domain.Completion{
		UserName:    userName,
		Date:        date,
		Portion:     portion,
		Day:         day,
		CompletedOn: time.Now(),
		Catchup:     catchup,
	}
	m.completions = append(m.completions, c)
	return &c, nil
}

func (m *mockRepo) CurrentUser(ctx context.Context, deviceID string) (string, error) {
	return m.preferences[deviceID], nil
}

func (m *mockRepo) SaveCurrentUser(ctx context.Context, deviceID, userName string) error {
	m.preferences[deviceID] = userName
	return nil
}

func (m *mockRepo) ClearCurrentUser(ctx context.Context, deviceID string) error {
	delete(m.preferences, deviceID)
	return nil
}

func (m *mockRepo) LinkSender(ctx context.Context, senderID, userName string) error {
	m.links[senderID] = userName
	return nil
}

func (m *mockRepo) ResolveSender(ctx context.Context, senderID string) (string, error) {
	return m.links[senderID], nil
}

func (m *mockRepo) complete(user string, dates ...string) {
	for i, d := range dates {
		m.completions = append(m.completions, domain.Completion{
			UserName:    user,
			Date:        d,
			CompletedOn: time.Date(2026, 1, 1, 0, 0, i, 0, time.UTC),
		})
	}
}

// friday is a scheduled weekday in the default plan (Genesis 24-26).
var friday = time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
