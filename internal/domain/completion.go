package domain

import (
	"context"
	"time"
)

type Completion struct {
	UserName    string    `json:"userName" db:"user_name"`
	Date        string    `json:"date" db:"date"`
	Portion     string    `json:"portion" db:"portion"`
	Day         string    `json:"day" db:"day"`
	CompletedOn time.Time `json:"completedOn" db:"completed_on"`
	Catchup     bool      `json:"catchup" db:"catchup"`
}

// Type is the export label for the completion kind.
func (c Completion) Type() string {
	if c.Catchup {
		return "Catch-up"
	}
	return "Regular"
}

type ParticipantRepository interface {
	ListParticipants(ctx context.Context) ([]string, error)
	// AddParticipant fails with ErrParticipantExists on an exact name match.
	AddParticipant(ctx context.Context, name string) error
	// RemoveParticipant succeeds when the name is absent.
	RemoveParticipant(ctx context.Context, name string) error
}

type CompletionRepository interface {
	ListCompletions(ctx context.Context) ([]Completion, error)
	// AddCompletion stamps CompletedOn with the current time and fails with
	// ErrAlreadyCompleted when the (user, date) pair is already recorded.
	AddCompletion(ctx context.Context, userName, date, portion, day string, catchup bool) (*Completion, error)
}

// PreferenceRepository persists the participant last selected on each
// device. Devices never see each other's preference.
type PreferenceRepository interface {
	CurrentUser(ctx context.Context, deviceID string) (string, error)
	SaveCurrentUser(ctx context.Context, deviceID, userName string) error
	ClearCurrentUser(ctx context.Context, deviceID string) error
}

// LinkRepository maps chat sender ids to participant names.
type LinkRepository interface {
	LinkSender(ctx context.Context, senderID, userName string) error
	// ResolveSender returns "" when the sender is not linked.
	ResolveSender(ctx context.Context, senderID string) (string, error)
}

// TrackerRepository is the storage adapter every backend implements.
type TrackerRepository interface {
	ParticipantRepository
	CompletionRepository
}

type Store interface {
	TrackerRepository
	PreferenceRepository
	LinkRepository
	Ping(ctx context.Context) error
	Close() error
}
