package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

// Keys of the persisted entries. Participants and completions hold JSON
// arrays encoded as strings. Each device's current user is a plain string
// stored under CurrentUserKey + ":" + device id.
const (
	ParticipantsKey = "bible_participants"
	CompletionsKey  = "bible_completions"
	CurrentUserKey  = "bible_current_user"
	SenderLinksKey  = "bible_sender_links"
)

// Store keeps every entry in a single JSON object on disk, one string value
// per key.
type Store struct {
	path string
	mu   sync.RWMutex
}

func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{path: path}, nil
}

func (s *Store) ListParticipants(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	return participants(entries)
}

func (s *Store) AddParticipant(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	names, err := participants(entries)
	if err != nil {
		return err
	}

	for _, n := range names {
		if n == name {
			return domain.ErrParticipantExists
		}
	}

	if err := setJSON(entries, ParticipantsKey, append(names, name)); err != nil {
		return err
	}
	return s.write(entries)
}

func (s *Store) RemoveParticipant(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	names, err := participants(entries)
	if err != nil {
		return err
	}

	kept := make([]string, 0, len(names))
	for _, n := range names {
		if n != name {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(names) {
		return nil
	}

	if err := setJSON(entries, ParticipantsKey, kept); err != nil {
		return err
	}
	return s.write(entries)
}

func (s *Store) ListCompletions(ctx context.Context) ([]domain.Completion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	return completions(entries)
}

func (s *Store) AddCompletion(ctx context.Context, userName, date, portion, day string, catchup bool) (*domain.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	all, err := completions(entries)
	if err != nil {
		return nil, err
	}

	for _, c := range all {
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
	if err := setJSON(entries, CompletionsKey, append(all, c)); err != nil {
		return nil, err
	}
	if err := s.write(entries); err != nil {
		return nil, err
	}
	return &c, nil
}

// PreferenceKey is the entry holding the current user of a device.
func PreferenceKey(deviceID string) string {
	return CurrentUserKey + ":" + deviceID
}

func (s *Store) CurrentUser(ctx context.Context, deviceID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.read()
	if err != nil {
		return "", err
	}
	return entries[PreferenceKey(deviceID)], nil
}

func (s *Store) SaveCurrentUser(ctx context.Context, deviceID, userName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	entries[PreferenceKey(deviceID)] = userName
	return s.write(entries)
}

func (s *Store) ClearCurrentUser(ctx context.Context, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	key := PreferenceKey(deviceID)
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return s.write(entries)
}

func (s *Store) LinkSender(ctx context.Context, senderID, userName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	links := make(map[string]string)
	if err := getJSON(entries, SenderLinksKey, &links); err != nil {
		return err
	}

	links[senderID] = userName
	if err := setJSON(entries, SenderLinksKey, links); err != nil {
		return err
	}
	return s.write(entries)
}

func (s *Store) ResolveSender(ctx context.Context, senderID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.read()
	if err != nil {
		return "", err
	}
	links := make(map[string]string)
	if err := getJSON(entries, SenderLinksKey, &links); err != nil {
		return "", err
	}
	return links[senderID], nil
}

// Ping reports whether the backing file can be read and parsed.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := s.read()
	return err
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local store: %w", err)
	}

	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("invalid local store %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *Store) write(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write local store: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func participants(entries map[string]string) ([]string, error) {
	names := []string{}
	if err := getJSON(entries, ParticipantsKey, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func completions(entries map[string]string) ([]domain.Completion, error) {
	all := []domain.Completion{}
	if err := getJSON(entries, CompletionsKey, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func getJSON(entries map[string]string, key string, v any) error {
	raw, ok := entries[key]
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("invalid %s entry: %w", key, err)
	}
	return nil
}

func setJSON(entries map[string]string, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	entries[key] = string(data)
	return nil
}
