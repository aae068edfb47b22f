package usecase

import (
	"context"
	"strings"

	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

type AddParticipantUsecase struct {
	repo domain.ParticipantRepository
}

func NewAddParticipantUsecase(repo domain.ParticipantRepository) *AddParticipantUsecase {
	return &AddParticipantUsecase{repo: repo}
}

// Execute trims the name and adds it. Duplicates fail with
// domain.ErrParticipantExists.
func (uc *AddParticipantUsecase) Execute(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrEmptyName
	}

	if err := uc.repo.AddParticipant(ctx, name); err != nil {
		return "", err
	}
	return name, nil
}

// RemoveParticipantUsecase deletes the participant. Their completions stay
// in storage and keep showing up in exports and the monitor.
type RemoveParticipantUsecase struct {
	repo domain.ParticipantRepository
}

func NewRemoveParticipantUsecase(repo domain.ParticipantRepository) *RemoveParticipantUsecase {
	return &RemoveParticipantUsecase{repo: repo}
}

func (uc *RemoveParticipantUsecase) Execute(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrEmptyName
	}
	return uc.repo.RemoveParticipant(ctx, name)
}

type ListParticipantsUsecase struct {
	repo domain.ParticipantRepository
}

func NewListParticipantsUsecase(repo domain.ParticipantRepository) *ListParticipantsUsecase {
	return &ListParticipantsUsecase{repo: repo}
}

func (uc *ListParticipantsUsecase) Execute(ctx context.Context) ([]string, error) {
	names, err := uc.repo.ListParticipants(ctx)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// requireParticipant fails with ErrNoUserSelected for an empty name and
// ErrUnknownParticipant when the name is not registered.
func requireParticipant(ctx context.Context, repo domain.ParticipantRepository, name string) error {
	if name == "" {
		return domain.ErrNoUserSelected
	}

	names, err := repo.ListParticipants(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	return domain.ErrUnknownParticipant
}
