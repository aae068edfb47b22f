package usecase

import (
	"context"
	"errors"

	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

type sessionRepository interface {
	domain.ParticipantRepository
	domain.PreferenceRepository
}

// SessionUsecase tracks which participant is using each device. An empty
// device id is an anonymous caller with no stored preference.
type SessionUsecase struct {
	repo sessionRepository
}

func NewSessionUsecase(repo sessionRepository) *SessionUsecase {
	return &SessionUsecase{repo: repo}
}

// Select validates the participant and remembers it for the device.
func (uc *SessionUsecase) Select(ctx context.Context, deviceID, name string) error {
	if err := requireParticipant(ctx, uc.repo, name); err != nil {
		return err
	}
	if deviceID == "" {
		return nil
	}
	return uc.repo.SaveCurrentUser(ctx, deviceID, name)
}

// Current prefers the requested name and falls back to the device's stored
// preference. A remembered participant that has since been removed
// resolves to "".
func (uc *SessionUsecase) Current(ctx context.Context, deviceID, requested string) (string, error) {
	name := requested
	if name == "" && deviceID != "" {
		stored, err := uc.repo.CurrentUser(ctx, deviceID)
		if err != nil {
			return "", err
		}
		name = stored
	}
	if name == "" {
		return "", nil
	}

	err := requireParticipant(ctx, uc.repo, name)
	if errors.Is(err, domain.ErrUnknownParticipant) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

func (uc *SessionUsecase) Clear(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return nil
	}
	return uc.repo.ClearCurrentUser(ctx, deviceID)
}
