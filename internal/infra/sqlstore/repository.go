package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

const currentUserKey = "bible_current_user"

func preferenceKey(deviceID string) string {
	return currentUserKey + ":" + deviceID
}

// Repository implements domain.Store over SQLite or PostgreSQL. Queries are
// written with ? placeholders and rebound for the driver in use.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

type completionRow struct {
	UserName    string `db:"user_name"`
	Date        string `db:"date"`
	Portion     string `db:"portion"`
	Day         string `db:"day"`
	CompletedOn string `db:"completed_on"`
	Catchup     int    `db:"catchup"`
}

func (r *Repository) ListParticipants(ctx context.Context) ([]string, error) {
	var names []string
	query := `SELECT name FROM participants ORDER BY created_at, name`
	if err := r.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return names, nil
}

func (r *Repository) AddParticipant(ctx context.Context, name string) error {
	query := r.db.Rebind(`INSERT INTO participants (name, created_at) VALUES (?, ?) ON CONFLICT (name) DO NOTHING`)
	res, err := r.db.ExecContext(ctx, query, name, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	if n == 0 {
		return domain.ErrParticipantExists
	}
	return nil
}

func (r *Repository) RemoveParticipant(ctx context.Context, name string) error {
	query := r.db.Rebind(`DELETE FROM participants WHERE name = ?`)
	if _, err := r.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	return nil
}

func (r *Repository) ListCompletions(ctx context.Context) ([]domain.Completion, error) {
	var rows []completionRow
	query := `SELECT user_name, date, portion, day, completed_on, catchup FROM completions`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}

	completions := make([]domain.Completion, 0, len(rows))
	for _, row := range rows {
		completedOn, err := time.Parse(time.RFC3339, row.CompletedOn)
		if err != nil {
			return nil, fmt.Errorf("invalid completed_on for %s/%s: %w", row.UserName, row.Date, err)
		}
		completions = append(completions, domain.Completion{
			UserName:    row.UserName,
			Date:        row.Date,
			Portion:     row.Portion,
			Day:         row.Day,
			CompletedOn: completedOn,
			Catchup:     row.Catchup != 0,
		})
	}
	return completions, nil
}

func (r *Repository) AddCompletion(ctx context.Context, userName, date, portion, day string, catchup bool) (*domain.Completion, error) {
	c := &domain.Completion{
		UserName:    userName,
		Date:        date,
		Portion:     portion,
		Day:         day,
		CompletedOn: time.Now().Truncate(time.Second),
		Catchup:     catchup,
	}

	flag := 0
	if catchup {
		flag = 1
	}

	query := r.db.Rebind(`
		INSERT INTO completions (user_name, date, portion, day, completed_on, catchup)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_name, date) DO NOTHING
	`)
	res, err := r.db.ExecContext(ctx, query, c.UserName, c.Date, c.Portion, c.Day, c.CompletedOn.Format(time.RFC3339), flag)
	if err != nil {
		return nil, fmt.Errorf("failed to add completion: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to add completion: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrAlreadyCompleted
	}
	return c, nil
}

func (r *Repository) CurrentUser(ctx context.Context, deviceID string) (string, error) {
	var value string
	query := r.db.Rebind(`SELECT pref_value FROM preferences WHERE pref_key = ?`)
	err := r.db.GetContext(ctx, &value, query, preferenceKey(deviceID))
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read current user: %w", err)
	}
	return value, nil
}

func (r *Repository) SaveCurrentUser(ctx context.Context, deviceID, userName string) error {
	query := r.db.Rebind(`
		INSERT INTO preferences (pref_key, pref_value) VALUES (?, ?)
		ON CONFLICT (pref_key) DO UPDATE SET pref_value = excluded.pref_value
	`)
	if _, err := r.db.ExecContext(ctx, query, preferenceKey(deviceID), userName); err != nil {
		return fmt.Errorf("failed to save current user: %w", err)
	}
	return nil
}

func (r *Repository) ClearCurrentUser(ctx context.Context, deviceID string) error {
	query := r.db.Rebind(`DELETE FROM preferences WHERE pref_key = ?`)
	if _, err := r.db.ExecContext(ctx, query, preferenceKey(deviceID)); err != nil {
		return fmt.Errorf("failed to clear current user: %w", err)
	}
	return nil
}

func (r *Repository) LinkSender(ctx context.Context, senderID, userName string) error {
	query := r.db.Rebind(`
		INSERT INTO sender_links (sender_id, user_name) VALUES (?, ?)
		ON CONFLICT (sender_id) DO UPDATE SET user_name = excluded.user_name
	`)
	if _, err := r.db.ExecContext(ctx, query, senderID, userName); err != nil {
		return fmt.Errorf("failed to link sender: %w", err)
	}
	return nil
}

func (r *Repository) ResolveSender(ctx context.Context, senderID string) (string, error) {
	var name string
	query := r.db.Rebind(`SELECT user_name FROM sender_links WHERE sender_id = ?`)
	err := r.db.GetContext(ctx, &name, query, senderID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve sender: %w", err)
	}
	return name, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// InitSchema creates the tables if they are missing; safe to call repeatedly.
func (r *Repository) InitSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS participants (
			name TEXT PRIMARY KEY,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS completions (
			user_name TEXT NOT NULL,
			date TEXT NOT NULL,
			portion TEXT NOT NULL,
			day TEXT NOT NULL,
			completed_on TEXT NOT NULL,
			catchup INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_name, date)
		)`,
		`CREATE TABLE IF NOT EXISTS preferences (
			pref_key TEXT PRIMARY KEY,
			pref_value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sender_links (
			sender_id TEXT PRIMARY KEY,
			user_name TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
